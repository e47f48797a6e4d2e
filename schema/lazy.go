package schema

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	perrors "github.com/carlosnayan/prisma-go-inputs/internal/errors"
	"github.com/carlosnayan/prisma-go-inputs/internal/logger"
)

// BuildFunc constructs a schema on first use. It may reference any other
// definition through b.Ref (deferred) and may force one through b.Force.
type BuildFunc func(b *Builder) Schema

// Arena is a name-keyed set of lazily built schemas. Definitions refer to
// each other by name, so self references and mutual references never
// recurse at definition time.
//
// Builders run at most once per arena. Construction is serialized by the
// arena; the result is published with a single atomic store, so concurrent
// first use observes one schema instance.
type Arena struct {
	defsMu sync.RWMutex
	defs   map[string]*LazySchema

	buildMu sync.Mutex
	log     *logger.Logger
}

func NewArena() *Arena {
	return &Arena{defs: make(map[string]*LazySchema), log: logger.GetDefaultLogger()}
}

// SetLogger sets the logger used to trace builds.
func (a *Arena) SetLogger(l *logger.Logger) {
	a.log = l
}

// Define registers a builder under name. Defining a name twice panics.
func (a *Arena) Define(name string, build BuildFunc) *LazySchema {
	a.defsMu.Lock()
	defer a.defsMu.Unlock()
	if _, exists := a.defs[name]; exists {
		panic("schema: duplicate definition " + name)
	}
	l := &LazySchema{arena: a, name: name, build: build}
	a.defs[name] = l
	return l
}

// Has reports whether name is defined.
func (a *Arena) Has(name string) bool {
	a.defsMu.RLock()
	defer a.defsMu.RUnlock()
	_, ok := a.defs[name]
	return ok
}

func (a *Arena) lookup(name string) (*LazySchema, bool) {
	a.defsMu.RLock()
	defer a.defsMu.RUnlock()
	l, ok := a.defs[name]
	return l, ok
}

// Ref returns a deferred reference to name. The name does not need to be
// defined yet; it is looked up on first use.
func (a *Arena) Ref(name string) *RefSchema {
	return &RefSchema{arena: a, name: name}
}

// Resolve builds (if needed) and returns the schema defined under name.
func (a *Arena) Resolve(name string) (Schema, error) {
	l, ok := a.lookup(name)
	if !ok {
		return nil, perrors.Newf(ErrUnknownSchema, "schema %q is not defined", name)
	}
	return l.resolve()
}

// Names returns every defined name, sorted.
func (a *Arena) Names() []string {
	a.defsMu.RLock()
	defer a.defsMu.RUnlock()
	names := make([]string, 0, len(a.defs))
	for name := range a.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Warm builds every definition. A returned error means the definitions
// themselves are broken and should stop the process at startup.
func (a *Arena) Warm() error {
	for _, name := range a.Names() {
		if _, err := a.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

// Builds returns how many times the builder of name ran (0 or 1).
func (a *Arena) Builds(name string) int64 {
	l, ok := a.lookup(name)
	if !ok {
		return 0
	}
	return l.builds.Load()
}

type resolution struct {
	schema Schema
	err    error
}

// LazySchema is a named definition built on first use.
type LazySchema struct {
	arena  *Arena
	name   string
	build  BuildFunc
	result atomic.Pointer[resolution]
	builds atomic.Int64
}

func (l *LazySchema) Name() string {
	return l.name
}

func (l *LazySchema) resolve() (Schema, error) {
	if r := l.result.Load(); r != nil {
		return r.schema, r.err
	}
	l.arena.buildMu.Lock()
	defer l.arena.buildMu.Unlock()
	return l.resolveLocked(&Builder{arena: l.arena})
}

// resolveLocked runs with arena.buildMu held by the calling goroutine, so
// the builder chain describes exactly the builds in progress.
func (l *LazySchema) resolveLocked(b *Builder) (Schema, error) {
	if r := l.result.Load(); r != nil {
		return r.schema, r.err
	}
	for i, pending := range b.chain {
		if pending == l {
			names := make([]string, 0, len(b.chain)-i+1)
			for _, p := range b.chain[i:] {
				names = append(names, p.name)
			}
			names = append(names, l.name)
			return nil, perrors.Newf(ErrCyclicConstruction, "%s forced while still building (%s)", l.name, strings.Join(names, " -> "))
		}
	}

	outer := b.err
	b.err = nil
	b.chain = append(b.chain, l)
	s := l.build(b)
	b.chain = b.chain[:len(b.chain)-1]
	buildErr := b.err
	b.err = outer
	l.builds.Add(1)

	r := &resolution{schema: s, err: buildErr}
	if r.err == nil && s == nil {
		r.err = perrors.Newf(ErrUnknownSchema, "builder of %s returned no schema", l.name)
	}
	l.result.Store(r)
	if r.err != nil {
		l.arena.log.Error("schema %s failed to build: %v", l.name, r.err)
	} else {
		l.arena.log.Debug("schema %s built", l.name)
	}
	return r.schema, r.err
}

func (l *LazySchema) Check(c *Context, path Path, v interface{}) interface{} {
	s, err := l.resolve()
	if err != nil {
		c.add(path, asPrismaError(err))
		return nil
	}
	if !c.enter(path, l.name) {
		return nil
	}
	defer c.leave()
	return s.Check(c, path, v)
}

// RefSchema is a reference by name into an arena.
type RefSchema struct {
	arena  *Arena
	name   string
	target atomic.Pointer[LazySchema]
}

func (r *RefSchema) Name() string {
	return r.name
}

func (r *RefSchema) Check(c *Context, path Path, v interface{}) interface{} {
	l := r.target.Load()
	if l == nil {
		found, ok := r.arena.lookup(r.name)
		if !ok {
			c.Report(path, ErrUnknownSchema, "schema %q is not defined", r.name)
			return nil
		}
		r.target.CompareAndSwap(nil, found)
		l = found
	}
	return l.Check(c, path, v)
}

// Builder is handed to a BuildFunc. It records the chain of builds in
// progress so a definition forced during its own construction is reported
// instead of recursing.
type Builder struct {
	arena *Arena
	chain []*LazySchema
	err   error
}

// Ref returns a deferred reference; it never builds anything.
func (b *Builder) Ref(name string) *RefSchema {
	return b.arena.Ref(name)
}

// Force builds name immediately and returns it. Forcing a definition that
// is already being built records ErrCyclicConstruction and returns nil.
// The inputs registry only uses Ref; Force is for builders that must
// inspect another schema while being built.
func (b *Builder) Force(name string) Schema {
	l, ok := b.arena.lookup(name)
	if !ok {
		b.fail(perrors.Newf(ErrUnknownSchema, "schema %q is not defined", name))
		return nil
	}
	s, err := l.resolveLocked(b)
	if err != nil {
		b.fail(err)
		return nil
	}
	return s
}

// Err returns the first construction error recorded by Force.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func asPrismaError(err error) *perrors.PrismaError {
	if pe, ok := err.(*perrors.PrismaError); ok {
		return pe
	}
	return perrors.WrapPrismaError(ErrCyclicConstruction, err)
}
