package entity

import "fmt"

// Source produces a descriptor on demand. Derivation runs once per
// translation call, so a failing source can be skipped without poisoning
// the rest of the batch.
type Source interface {
	// EntityName identifies the source for reports even when Describe fails.
	EntityName() string

	// Describe derives a fresh descriptor.
	Describe() (*Descriptor, error)
}

type staticSource struct {
	desc *Descriptor
}

// Static wraps an already-built descriptor as a Source.
func Static(d *Descriptor) Source {
	return &staticSource{desc: d}
}

func (s *staticSource) EntityName() string {
	return s.desc.EntityName()
}

func (s *staticSource) Describe() (*Descriptor, error) {
	if s.desc == nil {
		return nil, fmt.Errorf("entity: nil descriptor")
	}
	return s.desc, nil
}

// Registry holds entity sources in registration order. It replaces
// annotation scanning with explicit, declarative registration.
type Registry struct {
	sources []Source
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a source. Registration order is preserved and determines
// the order of emitted tables.
func (r *Registry) Register(s Source) {
	r.sources = append(r.sources, s)
}

// RegisterDescriptor registers a pre-built descriptor.
func (r *Registry) RegisterDescriptor(d *Descriptor) {
	r.Register(Static(d))
}

// RegisterStruct registers a Go struct instance whose descriptor is derived
// by reflection at translation time.
func (r *Registry) RegisterStruct(v any) {
	r.Register(Struct(v))
}

// Sources returns the registered sources in registration order.
func (r *Registry) Sources() []Source {
	return r.sources
}
