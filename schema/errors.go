package schema

import (
	"strings"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
)

// Sentinels usable with errors.Is against a *ValidationErrors or an Issue.
var (
	ErrValidation             = perrors.ErrValidation
	ErrShape                  = perrors.ErrShape
	ErrInvalidFormat          = perrors.ErrInvalidFormat
	ErrOperatorTypeMismatch   = perrors.ErrOperatorTypeMismatch
	ErrIncompleteCompoundKey  = perrors.ErrIncompleteCompoundKey
	ErrAmbiguousNullSemantics = perrors.ErrAmbiguousNullSemantics
	ErrDepthExceeded          = perrors.ErrDepthExceeded
	ErrCyclicConstruction     = perrors.ErrCyclicConstruction
	ErrUnknownSchema          = perrors.ErrUnknownSchema
)

// Issue is one validation failure at a path of the input.
type Issue struct {
	Path Path
	Err  *perrors.PrismaError
}

func (i Issue) Error() string {
	if len(i.Path) == 0 {
		return i.Err.Error()
	}
	return i.Path.String() + ": " + i.Err.Error()
}

func (i Issue) Unwrap() error {
	return i.Err
}

// Code returns the sentinel code of the issue (for example "V1003").
func (i Issue) Code() string {
	return i.Err.Code
}

// ValidationErrors is returned when an input is rejected. It unwraps to
// ErrValidation and to every issue, so errors.Is matches any issue kind.
type ValidationErrors struct {
	Issues []Issue
	// Dropped counts issues not recorded after the limit was reached.
	Dropped int
}

func (ve *ValidationErrors) Error() string {
	messages := make([]string, 0, len(ve.Issues))
	for _, issue := range ve.Issues {
		messages = append(messages, issue.Error())
	}
	return strings.Join(messages, "; ")
}

func (ve *ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(ve.Issues)+1)
	errs = append(errs, ErrValidation)
	for _, issue := range ve.Issues {
		errs = append(errs, issue)
	}
	return errs
}

// At returns the issues recorded exactly at path (e.g. "data.id").
func (ve *ValidationErrors) At(path string) []Issue {
	var out []Issue
	for _, issue := range ve.Issues {
		if issue.Path.String() == path {
			out = append(out, issue)
		}
	}
	return out
}
