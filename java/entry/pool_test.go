package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolDescribable(t *testing.T) {
	pool := NewPool()
	str := mustClass(t, "java/lang/String", 0)
	pool.Register(str)

	tests := []struct {
		desc string
		want string
	}{
		{"I", "I"},
		{"V", "V"},
		{"Z", "Z"},
		{"Ljava/lang/String;", "Ljava/lang/String;"},
		{"[I", "[I"},
		{"[[Ljava/lang/String;", "[[Ljava/lang/String;"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			d := pool.Describable(tt.desc)
			require.NotNil(t, d)
			assert.Equal(t, tt.want, d.Descriptor())
		})
	}

	assert.Same(t, str, pool.Describable("Ljava/lang/String;"))
	assert.Same(t, Int, pool.Describable("I"))

	for _, bad := range []string{"", "Q", "Lmissing/Type;", "[Lmissing/Type;", "[", "[V", "IJ"} {
		assert.Nil(t, pool.Describable(bad), "descriptor %q", bad)
	}
}

func TestPoolCopyIsolation(t *testing.T) {
	pool := NewPool()
	pool.Register(mustClass(t, "a/A", 0))

	branch := pool.Copy()
	branch.Register(mustClass(t, "a/B", 0))

	assert.Equal(t, 1, pool.Len())
	assert.Equal(t, 2, branch.Len())
	assert.Nil(t, pool.Class("a/B"))
	assert.Same(t, pool.Class("a/A"), branch.Class("a/A"))
}

func TestPoolListing(t *testing.T) {
	pool := NewPool()
	for _, name := range []string{"z/Z", "a/b/C", "a/A"} {
		pool.Register(mustClass(t, name, 0))
	}
	var names []string
	for _, c := range pool.Classes() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"a/A", "a/b/C", "z/Z"}, names)
	assert.True(t, pool.HasPackage("a"))
	assert.True(t, pool.HasPackage("a/b"))
	assert.False(t, pool.HasPackage("b"))
	assert.False(t, pool.HasPackage(""))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int", TypeName("I"))
	assert.Equal(t, "java.util.Map.Entry[]", TypeName("[Ljava/util/Map$Entry;"))
	assert.Equal(t, "void", TypeName("V"))
}
