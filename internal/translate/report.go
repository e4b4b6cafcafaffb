package translate

import (
	"errors"
	"fmt"

	"entmig/internal/core"
)

// Result is the outcome for one entity: either an emitted table or the
// error that made the entity untranslatable. Entities filtered out by
// connection produce no result at all.
type Result struct {
	Entity string      `json:"entity"`
	Table  *core.Table `json:"table,omitempty"`
	Err    error       `json:"-"`
}

// Failed reports whether the entity was skipped due to an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Report collects per-entity results in translation order. Callers choose
// lenient behavior by consuming Tables, or strict behavior by checking Err.
type Report struct {
	Results []Result
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
}

// Tables returns the emitted tables in translation order.
func (r *Report) Tables() []*core.Table {
	tables := make([]*core.Table, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Table != nil {
			tables = append(tables, res.Table)
		}
	}
	return tables
}

// Failed returns the results for entities that were skipped due to errors.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins the per-entity errors for strict callers. It returns nil when
// every entity translated cleanly.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("entity %s: %w", res.Entity, res.Err))
		}
	}
	return errors.Join(errs...)
}
