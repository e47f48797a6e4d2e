package limits

// Bounds applied while validating untrusted input.

const (
	// MaxIssues is the maximum number of issues collected for one validation call.
	// Validation keeps walking the input but stops recording after this many.
	MaxIssues = 100

	// DefaultMaxDepth is the default bound on nested schema references
	// (relation filters, nested writes, self references). Zero means unbounded;
	// input size is then the only bound.
	DefaultMaxDepth = 0

	// MaxListOperands is the maximum number of elements accepted by list
	// operators such as in, notIn, hasEvery and hasSome.
	MaxListOperands = 10000

	// MaxPathSegments is the maximum number of segments in a Json path filter.
	MaxPathSegments = 64
)
