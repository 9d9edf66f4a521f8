// Package entry models the symbols a Java program can refer to: classes,
// their fields and methods, arrays, primitives and the null type. Entries
// are addressed by JVM descriptors and collected in a Pool.
package entry

import (
	"fmt"
	"strings"
)

// Describable is the closed set of entry kinds: *ClassEntry, *FieldEntry,
// *MethodEntry, *ArrayEntry, *PrimitiveEntry and *NullEntry.
type Describable interface {
	Descriptor() string
	// IsAssignableFrom reports whether a value described by other may be
	// stored where this entry is expected.
	IsAssignableFrom(other Describable) bool
	String() string
	describable()
}

// ArrayEntry is an array type. The element is never itself an array;
// nesting is expressed by Dimensions.
type ArrayEntry struct {
	dims    int
	element Describable
}

// NewArray wraps element in dims array dimensions. An array element is
// flattened into a single entry with the summed dimension count.
func NewArray(element Describable, dims int) (*ArrayEntry, error) {
	if element == nil {
		return nil, fmt.Errorf("array element: %w", ErrNilEntry)
	}
	if dims < 1 {
		return nil, fmt.Errorf("%w: array with %d dimensions", ErrMalformedDescriptor, dims)
	}
	if inner, ok := element.(*ArrayEntry); ok {
		return &ArrayEntry{dims: dims + inner.dims, element: inner.element}, nil
	}
	switch element.(type) {
	case *FieldEntry, *MethodEntry, *NullEntry:
		return nil, fmt.Errorf("%w: array of %s", ErrMalformedDescriptor, element)
	}
	if element == Void {
		return nil, fmt.Errorf("%w: array of void", ErrMalformedDescriptor)
	}
	return &ArrayEntry{dims: dims, element: element}, nil
}

func (a *ArrayEntry) Dimensions() int      { return a.dims }
func (a *ArrayEntry) Element() Describable { return a.element }

// Component is the type of a single index operation: the element for a
// one-dimensional array, otherwise an array with one dimension fewer.
func (a *ArrayEntry) Component() Describable {
	if a.dims == 1 {
		return a.element
	}
	return &ArrayEntry{dims: a.dims - 1, element: a.element}
}

func (a *ArrayEntry) Descriptor() string {
	return strings.Repeat("[", a.dims) + a.element.Descriptor()
}

func (a *ArrayEntry) String() string {
	return a.element.String() + strings.Repeat("[]", a.dims)
}

func (a *ArrayEntry) IsAssignableFrom(other Describable) bool {
	switch o := other.(type) {
	case *NullEntry:
		return true
	case *ArrayEntry:
		return o.dims == a.dims && a.element.IsAssignableFrom(o.element)
	}
	return false
}

func (*ArrayEntry) describable() {}
