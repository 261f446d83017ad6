package template

import "sort"

// Context is the read-only name to value mapping supplied to a single
// render call. It snapshots the caller's bindings at construction, so
// later changes to the source map are not seen. A nil *Context behaves
// as an empty one.
type Context struct {
	values map[string]any
}

// NewContext snapshots values into a render context.
func NewContext(values map[string]any) *Context {
	snap := make(map[string]any, len(values))
	for name, value := range values {
		snap[name] = value
	}
	return &Context{values: snap}
}

// Value reports the binding for name and whether name is bound at all,
// distinguishing an absent name from one bound to nil.
func (c *Context) Value(name string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[name]
	return v, ok
}

// Has reports whether name is bound, even when bound to nil.
func (c *Context) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.values[name]
	return ok
}

// Names lists the bound names in sorted order.
func (c *Context) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
