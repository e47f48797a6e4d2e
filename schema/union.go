package schema

import (
	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/internal/limits"
)

// UnionSchema accepts a value matching any alternative; the first match
// wins. Outside Strict mode an alternative that matches strictly is
// preferred, so stripping unknown keys never makes a wrong alternative
// match first. When none matches, the issues of the alternative that got
// furthest into the value are reported.
type UnionSchema struct {
	alternatives []Schema
}

func Union(alternatives ...Schema) *UnionSchema {
	return &UnionSchema{alternatives: alternatives}
}

// Alternatives returns the alternatives in match order.
func (u *UnionSchema) Alternatives() []Schema {
	return u.alternatives
}

func (u *UnionSchema) Check(c *Context, path Path, v interface{}) interface{} {
	if c.opts.Mode != Strict {
		for _, alt := range u.alternatives {
			trial := c.fork()
			trial.opts.Mode = Strict
			out := alt.Check(trial, path, v)
			if !trial.Failed() {
				return out
			}
		}
	}
	var best *Context
	bestDepth := -1
	for _, alt := range u.alternatives {
		trial := c.fork()
		out := alt.Check(trial, path, v)
		if !trial.Failed() {
			return out
		}
		if trial.exceeded {
			c.merge(trial)
			return nil
		}
		depth := deepestIssue(trial)
		if depth > bestDepth || (depth == bestDepth && len(trial.issues) < len(best.issues)) {
			best, bestDepth = trial, depth
		}
	}
	if best == nil {
		c.Report(path, ErrShape, "no alternative accepts %s", perrors.TypeName(v))
		return nil
	}
	c.merge(best)
	return nil
}

func deepestIssue(c *Context) int {
	depth := 0
	for _, issue := range c.issues {
		if len(issue.Path) > depth {
			depth = len(issue.Path)
		}
	}
	return depth
}

// SwitchSchema checks a value against the one alternative its selector
// picks from the value. Sibling alternatives are never tried, so nesting a
// switch inside its own alternatives stays linear in the input.
type SwitchSchema struct {
	selector     func(v interface{}) int
	alternatives []Schema
}

func Switch(selector func(v interface{}) int, alternatives ...Schema) *SwitchSchema {
	return &SwitchSchema{selector: selector, alternatives: alternatives}
}

// Alternatives returns the alternatives by selector index.
func (s *SwitchSchema) Alternatives() []Schema {
	return s.alternatives
}

func (s *SwitchSchema) Check(c *Context, path Path, v interface{}) interface{} {
	i := s.selector(v)
	if i < 0 || i >= len(s.alternatives) {
		c.Report(path, ErrShape, "no alternative accepts %s", perrors.TypeName(v))
		return nil
	}
	return s.alternatives[i].Check(c, path, v)
}

// NullableSchema accepts null in addition to its inner schema.
type NullableSchema struct {
	inner Schema
}

func Nullable(inner Schema) NullableSchema {
	return NullableSchema{inner: inner}
}

func (n NullableSchema) Check(c *Context, path Path, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	return n.inner.Check(c, path, v)
}

// ArraySchema accepts an array whose elements all match the element schema.
type ArraySchema struct {
	element Schema
	max     int
}

func Array(element Schema) *ArraySchema {
	return &ArraySchema{element: element, max: limits.MaxListOperands}
}

// Max returns a copy bounded to n elements.
func (a *ArraySchema) Max(n int) *ArraySchema {
	return &ArraySchema{element: a.element, max: n}
}

func (a *ArraySchema) Check(c *Context, path Path, v interface{}) interface{} {
	items, ok := v.([]interface{})
	if !ok {
		c.Report(path, ErrShape, "expected array, received %s", perrors.TypeName(v))
		return nil
	}
	if a.max > 0 && len(items) > a.max {
		c.Report(path, ErrShape, "array has %d elements, at most %d allowed", len(items), a.max)
		return nil
	}
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = a.element.Check(c, path.Append(i), item)
	}
	return out
}

// OneOrManySchema accepts a single element or an array of elements and
// always outputs an array.
type OneOrManySchema struct {
	array *ArraySchema
}

func OneOrMany(element Schema) OneOrManySchema {
	return OneOrManySchema{array: Array(element)}
}

func (o OneOrManySchema) Check(c *Context, path Path, v interface{}) interface{} {
	if _, ok := v.([]interface{}); ok {
		return o.array.Check(c, path, v)
	}
	return []interface{}{o.array.element.Check(c, path, v)}
}

// Custom adapts a plain function to Schema.
type Custom func(c *Context, path Path, v interface{}) interface{}

func (f Custom) Check(c *Context, path Path, v interface{}) interface{} {
	return f(c, path, v)
}
