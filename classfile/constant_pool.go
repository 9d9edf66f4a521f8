package classfile

import "encoding/binary"

// Constant is one constant pool slot. Only Utf8 and Class entries are
// interpreted; everything else keeps its payload bytes so the pool can be
// written back unchanged. The second slot of a long or double is nil.
type Constant struct {
	Tag     ConstantTag
	Value   string
	Payload []byte
}

// NameIndex is the first u2 of the payload, which for Class, String,
// Module and Package entries points at a Utf8 entry.
func (c *Constant) NameIndex() uint16 {
	if len(c.Payload) < 2 {
		return 0
	}
	return binary.BigEndian.Uint16(c.Payload)
}

type ConstantPool []*Constant

func (cp ConstantPool) get(index uint16) *Constant {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) Utf8(index uint16) string {
	if c := cp.get(index); c != nil && c.Tag == ConstantUtf8 {
		return c.Value
	}
	return ""
}

func (cp ConstantPool) ClassName(index uint16) string {
	if c := cp.get(index); c != nil && c.Tag == ConstantClass {
		return cp.Utf8(c.NameIndex())
	}
	return ""
}
