package entry

// PrimitiveEntry is one of the nine primitive types, void included. Rank
// orders widening: a primitive accepts any primitive of lower or equal rank.
type PrimitiveEntry struct {
	name string
	code byte
	rank int
}

var (
	Void    = &PrimitiveEntry{"void", 'V', 0}
	Boolean = &PrimitiveEntry{"boolean", 'Z', 1}
	Char    = &PrimitiveEntry{"char", 'C', 2}
	Byte    = &PrimitiveEntry{"byte", 'B', 3}
	Short   = &PrimitiveEntry{"short", 'S', 4}
	Int     = &PrimitiveEntry{"int", 'I', 5}
	Float   = &PrimitiveEntry{"float", 'F', 6}
	Long    = &PrimitiveEntry{"long", 'J', 7}
	Double  = &PrimitiveEntry{"double", 'D', 8}
)

var primitives = []*PrimitiveEntry{Void, Boolean, Char, Byte, Short, Int, Float, Long, Double}

func primitiveByCode(desc string) *PrimitiveEntry {
	if len(desc) != 1 {
		return nil
	}
	for _, p := range primitives {
		if p.code == desc[0] {
			return p
		}
	}
	return nil
}

// PrimitiveNamed looks a primitive up by its keyword.
func PrimitiveNamed(keyword string) *PrimitiveEntry {
	for _, p := range primitives {
		if p.name == keyword {
			return p
		}
	}
	return nil
}

func (p *PrimitiveEntry) Name() string       { return p.name }
func (p *PrimitiveEntry) Descriptor() string { return string(p.code) }
func (p *PrimitiveEntry) String() string     { return p.name }
func (p *PrimitiveEntry) Rank() int          { return p.rank }

func (p *PrimitiveEntry) IsAssignableFrom(other Describable) bool {
	o, ok := other.(*PrimitiveEntry)
	return ok && o.rank <= p.rank
}

func (*PrimitiveEntry) describable() {}

// NullEntry is the type of the null literal.
type NullEntry struct{}

var Null = &NullEntry{}

func (*NullEntry) Descriptor() string                { return "null" }
func (*NullEntry) String() string                    { return "null" }
func (*NullEntry) IsAssignableFrom(Describable) bool { return true }
func (*NullEntry) describable()                      {}
