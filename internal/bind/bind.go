// Package bind implements the evaluator's binding contexts and resolver
// (spec.md §4.3): given a word and a specifier, map it to the shared slot
// of the named variable, or report it unbound.
//
// Grounded on the teacher's internal/frame package (parallel Words/Values
// slices, local-by-default scoping, lookup is local-only and the caller
// walks the parent chain) — kept verbatim as the per-context storage
// strategy, but Parent is now a core.Binding reference rather than an
// index into a package-global frame store, since contexts here are
// reachable from a value's Binding field directly (spec.md §3) rather
// than solely through the evaluator's own frame stack.
package bind

import "github.com/zsx/viro-core/internal/core"

var nextID int

// Context is a binding context: a flat word→value map with local-by-
// default assignment and a parent link for lexical lookup.
type Context struct {
	words  []string
	values []core.Value
	parent core.Binding
	id     int
	Name   string // diagnostic label only (e.g. function name, "(top level)")
}

func New(parent core.Binding) *Context {
	nextID++
	return &Context{parent: parent, id: nextID}
}

func NewWithCapacity(parent core.Binding, capacity int) *Context {
	nextID++
	return &Context{
		words:  make([]string, 0, capacity),
		values: make([]core.Value, 0, capacity),
		parent: parent,
		id:     nextID,
	}
}

func (c *Context) Identity() int            { return c.id }
func (c *Context) ParentBinding() core.Binding { return c.parent }

func (c *Context) indexOf(name string) int {
	for i, w := range c.words {
		if w == name {
			return i
		}
	}
	return -1
}

// Bind creates or overwrites a local binding — local-by-default, same as
// the teacher's Frame.Bind.
func (c *Context) Bind(name string, v core.Value) {
	if i := c.indexOf(name); i >= 0 {
		c.values[i] = v
		return
	}
	c.words = append(c.words, name)
	c.values = append(c.values, v)
}

// GetSymbol looks up name in this context only (spec.md §4.3's resolver
// walks the parent chain itself via ParentBinding, not here).
func (c *Context) GetSymbol(name string) (core.Value, bool) {
	if i := c.indexOf(name); i >= 0 {
		return c.values[i], true
	}
	return nil, false
}

// GetMutable returns a writable reference to name's slot, local only.
func (c *Context) GetMutable(name string) (*core.Value, bool) {
	if i := c.indexOf(name); i >= 0 {
		return &c.values[i], true
	}
	return nil, false
}

// GetLookback returns the value bound to name, whether it was found, and
// whether that binding is lookback-enfixed (spec.md §4.3) — carried as
// the stored value's own FlagEnfixed bit, since an enfixed function's
// binding marks the *value*, not the slot.
func (c *Context) GetLookback(name string) (core.Value, bool, bool) {
	v, ok := c.GetSymbol(name)
	if !ok {
		return nil, false, false
	}
	return v, true, v.GetFlags().Has(core.FlagEnfixed)
}

func (c *Context) HasWord(name string) bool { return c.indexOf(name) >= 0 }

func (c *Context) Count() int { return len(c.words) }

// Words returns the locally bound symbol names, for introspection/debug.
func (c *Context) Words() []string {
	out := make([]string, len(c.words))
	copy(out, c.words)
	return out
}

// Resolve walks the context chain starting at ctx, returning the first
// binding found and signaling unbound otherwise (spec.md §4.3).
func Resolve(ctx core.Binding, name string) (core.Value, bool) {
	for b := ctx; b != nil; b = b.ParentBinding() {
		if v, ok := b.GetSymbol(name); ok {
			return v, true
		}
	}
	return nil, false
}

// ResolveMutable walks the chain for a writable reference. Only *Context
// exposes GetMutable directly; other core.Binding implementations (e.g. a
// reified Object) fall back to a Bind-on-write at the context that owns
// the match, which callers perform themselves after a successful Resolve.
func ResolveMutable(ctx core.Binding, name string) (*core.Value, bool) {
	for b := ctx; b != nil; b = b.ParentBinding() {
		if c, ok := b.(*Context); ok {
			if ref, ok := c.GetMutable(name); ok {
				return ref, true
			}
			continue
		}
		if _, ok := b.GetSymbol(name); ok {
			return nil, false
		}
	}
	return nil, false
}

// ResolveLookback walks the chain, reporting whether the found binding is
// lookback-enfixed (spec.md §4.3, §4.5).
func ResolveLookback(ctx core.Binding, name string) (core.Value, bool, bool) {
	for b := ctx; b != nil; b = b.ParentBinding() {
		if v, found, enfixed := b.GetLookback(name); found {
			return v, found, enfixed
		}
	}
	return nil, false, false
}

var _ core.Binding = (*Context)(nil)
