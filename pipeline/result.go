// Package pipeline implements the MTO transform chain: PDF bill-of-material
// extraction, assembly normalization, unpivoting into catalog relations,
// block aggregation, and the final WBS pivot with design allowance.
package pipeline

import "fmt"

// Kind classifies a stage outcome.
type Kind int

const (
	// OK means the stage produced its artifact.
	OK Kind = iota
	// InputMissing means a source file or directory was absent.
	InputMissing
	// ShapeRejected means tabular input failed a structural check.
	ShapeRejected
	// ParseAmbiguous means a value could not be interpreted.
	ParseAmbiguous
	// Validation means user-supplied configuration was rejected.
	Validation
	// AutomationTransient means an external automation call failed.
	AutomationTransient
	// Internal covers unexpected failures.
	Internal
)

// Result is the outcome of one pipeline stage. Stages report through this
// rather than returning raw errors, so the caller (CLI or GUI) always has a
// classified, human-readable outcome to present.
type Result struct {
	Kind    Kind
	Message string
	Err     error
}

// Success reports whether the stage produced a usable artifact.
func (r Result) Success() bool { return r.Kind == OK }

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Message, r.Err)
	}
	return r.Message
}

func okf(format string, args ...any) Result {
	return Result{Kind: OK, Message: fmt.Sprintf(format, args...)}
}

func failf(kind Kind, err error, format string, args ...any) Result {
	return Result{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
