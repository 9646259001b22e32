// Package metrics provides application-level counters using stdlib expvar.
// Counters are exported on /debug/vars when an HTTP mux serves expvar,
// and the console prints them with the "stats" command.
package metrics

import "expvar"

// Operation counters.
var (
	ClonesCreated  = expvar.NewInt("lab_clones_created_total")
	ClonesRemoved  = expvar.NewInt("lab_clones_removed_total")
	ClearsTotal    = expvar.NewInt("lab_clears_total")
	ActionsApplied = expvar.NewInt("lab_actions_applied_total")
	RenamesTotal   = expvar.NewInt("lab_renames_total")
)

// Counter pairs an exported counter with its name.
type Counter struct {
	Name  string
	Value int64
}

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }

// Add increments the given counter by n.
func Add(counter *expvar.Int, n int) { counter.Add(int64(n)) }

// Snapshot returns the current value of every lab counter in a stable order.
func Snapshot() []Counter {
	return []Counter{
		{Name: "lab_clones_created_total", Value: ClonesCreated.Value()},
		{Name: "lab_clones_removed_total", Value: ClonesRemoved.Value()},
		{Name: "lab_clears_total", Value: ClearsTotal.Value()},
		{Name: "lab_actions_applied_total", Value: ActionsApplied.Value()},
		{Name: "lab_renames_total", Value: RenamesTotal.Value()},
	}
}
