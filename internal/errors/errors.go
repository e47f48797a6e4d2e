package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// ProductionMode hides received input values from issue messages.
var ProductionMode = os.Getenv("ENV") == "production" || os.Getenv("ENV") == "prod"

// PrismaError is a coded error; two errors are equal under errors.Is when
// their codes match.
type PrismaError struct {
	Code    string
	Message string
	cause   error
}

func (e *PrismaError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *PrismaError) Unwrap() error {
	return e.cause
}

func (e *PrismaError) Is(target error) bool {
	if t, ok := target.(*PrismaError); ok {
		return e.Code == t.Code
	}
	return false
}

// Input validation failures. All of them are local to one validation call
// and carry a field path at the issue level.
var (
	ErrValidation             = &PrismaError{Code: "P2009", Message: "Failed to validate the input"}
	ErrShape                  = &PrismaError{Code: "V1000", Message: "Invalid input shape"}
	ErrInvalidFormat          = &PrismaError{Code: "V1001", Message: "Invalid value format"}
	ErrOperatorTypeMismatch   = &PrismaError{Code: "V1002", Message: "Operator not valid for field type"}
	ErrIncompleteCompoundKey  = &PrismaError{Code: "V1003", Message: "Incomplete compound unique key"}
	ErrAmbiguousNullSemantics = &PrismaError{Code: "V1004", Message: "Null token not supported in this position"}
	ErrDepthExceeded          = &PrismaError{Code: "V1005", Message: "Maximum nesting depth exceeded"}
	ErrCyclicConstruction     = &PrismaError{Code: "V1100", Message: "Schema re-entered during its own construction"}
	ErrUnknownSchema          = &PrismaError{Code: "V1101", Message: "Unknown schema"}
	ErrInvalidCatalog         = &PrismaError{Code: "V1102", Message: "Invalid catalog"}
)

func WrapPrismaError(sentinel *PrismaError, cause error) *PrismaError {
	return &PrismaError{Code: sentinel.Code, Message: sentinel.Message, cause: cause}
}

// Newf builds an error carrying the sentinel's code with a specific message.
func Newf(sentinel *PrismaError, format string, args ...interface{}) *PrismaError {
	return &PrismaError{Code: sentinel.Code, Message: fmt.Sprintf(format, args...)}
}

// IsCyclicConstruction reports a defect in schema definitions rather than in
// input data; callers should treat it as fatal at startup.
func IsCyclicConstruction(err error) bool {
	return errors.Is(err, ErrCyclicConstruction)
}

// DescribeValue renders a received value for an issue message.
func DescribeValue(v interface{}) string {
	if ProductionMode {
		return "<redacted>"
	}
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		if utf8.RuneCountInString(x) > 64 {
			return fmt.Sprintf("%q...", string([]rune(x)[:64]))
		}
		return fmt.Sprintf("%q", x)
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// TypeName returns the JSON type name of a decoded value.
func TypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, int, int32, int64, float32, float64:
		return "number"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
