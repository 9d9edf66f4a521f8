package classfile

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleClass() *Builder {
	return NewBuilder("sample/Greeter", "java/lang/Object", AccPublic|AccSuper).
		Implements("java/lang/Runnable").
		Long(42).
		Field(AccPrivate|AccStatic|AccFinal, "COUNT", "I").
		Field(AccPublic, "name", "Ljava/lang/String;").
		Method(AccPublic, "<init>", "()V").
		Method(AccStatic, "<clinit>", "()V").
		Method(AccPublic, "run", "()V").
		Method(AccPublic, "greet", "(Ljava/lang/String;[I)Ljava/lang/String;").
		Attribute("SourceFile", []byte{0, 1})
}

func TestParseClassFile(t *testing.T) {
	cf, err := Parse(bytes.NewReader(sampleClass().Bytes()))
	require.NoError(t, err)

	t.Run("names", func(t *testing.T) {
		assert.Equal(t, "sample/Greeter", cf.ClassName())
		assert.Equal(t, "java/lang/Object", cf.SuperClassName())
		assert.Equal(t, []string{"java/lang/Runnable"}, cf.InterfaceNames())
	})

	t.Run("access flags", func(t *testing.T) {
		assert.True(t, cf.AccessFlags.IsPublic())
		assert.False(t, cf.IsInterface())
		assert.False(t, cf.IsModule())
	})

	t.Run("fields", func(t *testing.T) {
		require.Len(t, cf.Fields, 2)
		count := cf.Field("COUNT")
		require.NotNil(t, count)
		assert.Equal(t, "I", count.Descriptor)
		assert.True(t, count.AccessFlags.IsStatic())
		assert.Equal(t, "private static final", count.AccessFlags.Modifiers())
		assert.Nil(t, cf.Field("missing"))
	})

	t.Run("methods", func(t *testing.T) {
		require.Len(t, cf.Methods, 4)
		assert.True(t, cf.Methods[0].IsConstructor())
		assert.True(t, cf.Methods[1].IsStaticInitializer())
		greet := cf.Method("greet", "")
		require.NotNil(t, greet)
		assert.Equal(t, "(Ljava/lang/String;[I)Ljava/lang/String;", greet.Descriptor)
		assert.Nil(t, cf.Method("greet", "()V"))
	})

	t.Run("attributes", func(t *testing.T) {
		attr := cf.Attribute("SourceFile")
		require.NotNil(t, attr)
		assert.Equal(t, []byte{0, 1}, attr.Info)
	})
}

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte{0xCA, 0xFE, 0xD0, 0x0D, 0, 0, 0, 61}))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestParseTruncated(t *testing.T) {
	data := sampleClass().Bytes()
	for _, n := range []int{3, 10, len(data) / 2, len(data) - 1} {
		_, err := Parse(bytes.NewReader(data[:n]))
		assert.Error(t, err, "truncated at %d", n)
	}
}

func TestParseUnknownConstantTag(t *testing.T) {
	data := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0, 0, 0, 61, 0, 2, 99}
	_, err := Parse(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrBadConstant)
}

func TestWideConstantsTakeTwoSlots(t *testing.T) {
	cf, err := Parse(bytes.NewReader(sampleClass().Bytes()))
	require.NoError(t, err)

	var longAt = -1
	for i, c := range cf.ConstantPool {
		if c != nil && c.Tag == ConstantLong {
			longAt = i
		}
	}
	require.NotEqual(t, -1, longAt)
	assert.Nil(t, cf.ConstantPool[longAt+1])
	assert.Equal(t, "sample/Greeter", cf.ClassName())
}

func TestModifiedUtf8(t *testing.T) {
	tests := []string{
		"plain",
		"café",
		"nul\x00byte",
		"€uro",
		"emoji \U0001F600",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			assert.Equal(t, s, decodeModifiedUtf8(encodeModifiedUtf8(s)))
		})
	}
	assert.Equal(t, []byte{0xC0, 0x80}, encodeModifiedUtf8("\x00"))
}
