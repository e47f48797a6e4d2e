package schema

import (
	"strconv"
	"strings"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/internal/limits"
)

// Path addresses a value inside an input document. Segments are object keys
// (string) or array indices (int).
type Path []interface{}

// Append returns a new path; the receiver is never modified.
func (p Path) Append(segment interface{}) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = segment
	return out
}

func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		switch s := seg.(type) {
		case int:
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(s))
			sb.WriteString("]")
		default:
			if i > 0 {
				sb.WriteString(".")
			}
			sb.WriteString(s.(string))
		}
	}
	return sb.String()
}

// Mode is how objects treat keys they do not declare.
type Mode int

const (
	// Strict rejects unknown keys with ErrShape.
	Strict Mode = iota
	// Strip drops unknown keys from the output.
	Strip
	// Passthrough copies unknown keys to the output unchanged.
	Passthrough
)

// ParseMode maps a configuration value to a Mode. Empty means Strict.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict", "closed":
		return Strict, true
	case "strip":
		return Strip, true
	case "passthrough", "open":
		return Passthrough, true
	}
	return Strict, false
}

func (m Mode) String() string {
	switch m {
	case Strip:
		return "strip"
	case Passthrough:
		return "passthrough"
	default:
		return "strict"
	}
}

// Options configure a validation call.
type Options struct {
	Mode Mode
	// MaxDepth bounds nested schema references; zero is unbounded.
	MaxDepth int
}

// Context accumulates issues for one validation call. It is not safe for
// concurrent use; schemas themselves are.
type Context struct {
	opts    Options
	depth   int
	issues  []Issue
	dropped int
	// exceeded is set once the depth bound was hit; unions stop trying
	// alternatives after that.
	exceeded bool
}

func NewContext(opts Options) *Context {
	return &Context{opts: opts}
}

func (c *Context) Mode() Mode {
	return c.opts.Mode
}

// Report records an issue at path.
func (c *Context) Report(path Path, sentinel *perrors.PrismaError, format string, args ...interface{}) {
	c.add(path, perrors.Newf(sentinel, format, args...))
}

func (c *Context) add(path Path, err *perrors.PrismaError) {
	if len(c.issues) >= limits.MaxIssues {
		c.dropped++
		return
	}
	c.issues = append(c.issues, Issue{Path: path, Err: err})
}

// Issues returns the issues recorded so far.
func (c *Context) Issues() []Issue {
	return c.issues
}

// Failed reports whether any issue was recorded.
func (c *Context) Failed() bool {
	return len(c.issues) > 0 || c.dropped > 0
}

// Err returns the accumulated issues as *ValidationErrors, or nil.
func (c *Context) Err() error {
	if !c.Failed() {
		return nil
	}
	return &ValidationErrors{Issues: c.issues, Dropped: c.dropped}
}

// fork returns a context for a trial parse that shares options and depth.
func (c *Context) fork() *Context {
	return &Context{opts: c.opts, depth: c.depth}
}

func (c *Context) merge(other *Context) {
	for _, issue := range other.issues {
		if len(c.issues) >= limits.MaxIssues {
			c.dropped++
			continue
		}
		c.issues = append(c.issues, issue)
	}
	c.dropped += other.dropped
	c.exceeded = c.exceeded || other.exceeded
}

func (c *Context) enter(path Path, name string) bool {
	if c.opts.MaxDepth > 0 && c.depth >= c.opts.MaxDepth {
		c.Report(path, ErrDepthExceeded, "%s nested deeper than %d", name, c.opts.MaxDepth)
		c.exceeded = true
		return false
	}
	c.depth++
	return true
}

func (c *Context) leave() {
	c.depth--
}

// Schema validates a decoded input value and returns its normalized form.
// Implementations must be safe for concurrent use.
type Schema interface {
	Check(c *Context, path Path, v interface{}) interface{}
}

// Parse validates v against s.
func Parse(s Schema, v interface{}, opts Options) (interface{}, error) {
	c := NewContext(opts)
	out := s.Check(c, nil, v)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
