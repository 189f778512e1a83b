package deps

import (
	"fmt"

	"github.com/matzehuels/nmgraph/pkg/errors"
)

// Diagnostic records a requirement that could not be bound, or was bound
// in a way canonical semver disagrees with. Diagnostics never abort
// resolution; the affected edge is omitted (or, for NON_CONFORMANT, kept).
type Diagnostic struct {
	From       string        // identity of the declaring instance
	Dependency Dependency    // the requirement as declared
	Err        *errors.Error // coded cause
}

// Code returns the diagnostic's error code.
func (d Diagnostic) Code() errors.Code {
	if d.Err == nil {
		return ""
	}
	return d.Err.Code
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s -> %s: %v", d.From, d.Dependency, d.Err)
}

// CountByCode tallies diagnostics per error code.
func CountByCode(diags []Diagnostic) map[errors.Code]int {
	out := make(map[errors.Code]int)
	for _, d := range diags {
		out[d.Code()]++
	}
	return out
}
