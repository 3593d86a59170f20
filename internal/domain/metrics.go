package domain

// Columns is the ordered set of dstat metric groups the agent samples.
// The order matches both the flags passed to dstat and the column order of
// its output.
var Columns = [...]string{
	"cpu",
	"disk",
	"mem",
	"net",
	"load",
	"page",
	"sys",
	"proc",
	"io",
	"fs",
	"proc-count",
	"top-cpu",
	"top-mem",
}

// GroupRecord maps a legend sub-field name to its raw value. A nil value
// means the data cell could not be aligned with the legend.
type GroupRecord map[string]*string

// Value returns the sub-field value and whether it is present.
func (r GroupRecord) Value(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Snapshot maps a column group name to its record.
type Snapshot map[string]GroupRecord

// Status is the pair of rows produced by a single dstat invocation.
type Status struct {
	Average Snapshot `json:"average"`
	Sample  Snapshot `json:"sample"`
}
