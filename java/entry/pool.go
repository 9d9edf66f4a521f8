package entry

import (
	"sort"
	"strings"
)

// Pool maps internal class names to class entries and turns descriptors
// into entries. A Pool is not safe for concurrent mutation: populate it,
// then share it, and use Copy to branch.
type Pool struct {
	classes map[string]*ClassEntry
}

func NewPool() *Pool {
	return &Pool{classes: map[string]*ClassEntry{}}
}

// Register adds c, replacing any entry with the same name.
func (p *Pool) Register(c *ClassEntry) {
	if c != nil {
		p.classes[c.name] = c
	}
}

func (p *Pool) Class(name string) *ClassEntry {
	return p.classes[name]
}

// Describable parses desc and returns the matching entry, or nil when the
// descriptor is malformed or names a class the pool does not know.
func (p *Pool) Describable(desc string) Describable {
	if desc == "" {
		return nil
	}
	if prim := primitiveByCode(desc); prim != nil {
		return prim
	}
	if desc[0] == '[' {
		dims := 0
		for dims < len(desc) && desc[dims] == '[' {
			dims++
		}
		element := p.Describable(desc[dims:])
		if element == nil {
			return nil
		}
		array, err := NewArray(element, dims)
		if err != nil {
			return nil
		}
		return array
	}
	if len(desc) > 2 && desc[0] == 'L' && desc[len(desc)-1] == ';' {
		if c := p.Class(desc[1 : len(desc)-1]); c != nil {
			return c
		}
	}
	return nil
}

// Copy returns a pool that shares the entries of p but can be extended
// without affecting it.
func (p *Pool) Copy() *Pool {
	c := &Pool{classes: make(map[string]*ClassEntry, len(p.classes))}
	for k, v := range p.classes {
		c.classes[k] = v
	}
	return c
}

func (p *Pool) Len() int { return len(p.classes) }

// Classes returns every registered class sorted by name.
func (p *Pool) Classes() []*ClassEntry {
	out := make([]*ClassEntry, 0, len(p.classes))
	for _, c := range p.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// HasPackage reports whether any class lives in pkg or one of its
// sub-packages. pkg is in internal form.
func (p *Pool) HasPackage(pkg string) bool {
	if pkg == "" {
		return false
	}
	prefix := pkg + "/"
	for name := range p.classes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
