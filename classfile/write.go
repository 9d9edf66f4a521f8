package classfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf16"
)

// Builder assembles a ClassFile in memory, interning constant pool entries
// as they are referenced.
type Builder struct {
	cf      ClassFile
	utf8    map[string]uint16
	classes map[string]uint16
}

// NewBuilder starts a class named name (internal form). An empty super
// leaves the super_class index at zero.
func NewBuilder(name, super string, flags AccessFlags) *Builder {
	b := &Builder{
		cf:      ClassFile{MajorVersion: 61, AccessFlags: flags},
		utf8:    map[string]uint16{},
		classes: map[string]uint16{},
	}
	b.cf.ThisClass = b.class(name)
	if super != "" {
		b.cf.SuperClass = b.class(super)
	}
	return b
}

func (b *Builder) add(c *Constant) uint16 {
	b.cf.ConstantPool = append(b.cf.ConstantPool, c)
	index := uint16(len(b.cf.ConstantPool))
	if c.Tag.wide() {
		b.cf.ConstantPool = append(b.cf.ConstantPool, nil)
	}
	return index
}

func (b *Builder) utf(s string) uint16 {
	if i, ok := b.utf8[s]; ok {
		return i
	}
	i := b.add(&Constant{Tag: ConstantUtf8, Value: s})
	b.utf8[s] = i
	return i
}

func (b *Builder) class(name string) uint16 {
	if i, ok := b.classes[name]; ok {
		return i
	}
	payload := binary.BigEndian.AppendUint16(nil, b.utf(name))
	i := b.add(&Constant{Tag: ConstantClass, Payload: payload})
	b.classes[name] = i
	return i
}

// Long adds a long constant, which occupies two pool slots.
func (b *Builder) Long(v int64) *Builder {
	b.add(&Constant{Tag: ConstantLong, Payload: binary.BigEndian.AppendUint64(nil, uint64(v))})
	return b
}

func (b *Builder) Implements(names ...string) *Builder {
	for _, n := range names {
		b.cf.Interfaces = append(b.cf.Interfaces, b.class(n))
	}
	return b
}

func (b *Builder) Field(flags AccessFlags, name, descriptor string) *Builder {
	b.utf(name)
	b.utf(descriptor)
	b.cf.Fields = append(b.cf.Fields, Member{AccessFlags: flags, Name: name, Descriptor: descriptor})
	return b
}

func (b *Builder) Method(flags AccessFlags, name, descriptor string) *Builder {
	b.utf(name)
	b.utf(descriptor)
	b.cf.Methods = append(b.cf.Methods, Member{AccessFlags: flags, Name: name, Descriptor: descriptor})
	return b
}

func (b *Builder) Attribute(name string, info []byte) *Builder {
	b.utf(name)
	b.cf.Attributes = append(b.cf.Attributes, Attribute{Name: name, Info: info})
	return b
}

func (b *Builder) Build() *ClassFile {
	cf := b.cf
	return &cf
}

// Bytes encodes the builder's class file.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	b.Build().WriteTo(&buf)
	return buf.Bytes()
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) u1(v uint8)  { w.buf.WriteByte(v) }
func (w *writer) u2(v uint16) { w.buf.Write(binary.BigEndian.AppendUint16(nil, v)) }
func (w *writer) u4(v uint32) { w.buf.Write(binary.BigEndian.AppendUint32(nil, v)) }

// WriteTo encodes the class file. Member and attribute names must already
// be present in the constant pool as Utf8 entries.
func (cf *ClassFile) WriteTo(out io.Writer) (int64, error) {
	w := &writer{}
	index := map[string]uint16{}
	for i, c := range cf.ConstantPool {
		if c != nil && c.Tag == ConstantUtf8 {
			if _, seen := index[c.Value]; !seen {
				index[c.Value] = uint16(i + 1)
			}
		}
	}

	w.u4(Magic)
	w.u2(cf.MinorVersion)
	w.u2(cf.MajorVersion)
	w.u2(uint16(len(cf.ConstantPool) + 1))
	for _, c := range cf.ConstantPool {
		if c == nil {
			continue
		}
		w.u1(uint8(c.Tag))
		if c.Tag == ConstantUtf8 {
			raw := encodeModifiedUtf8(c.Value)
			w.u2(uint16(len(raw)))
			w.buf.Write(raw)
			continue
		}
		w.buf.Write(c.Payload)
	}
	w.u2(uint16(cf.AccessFlags))
	w.u2(cf.ThisClass)
	w.u2(cf.SuperClass)
	w.u2(uint16(len(cf.Interfaces)))
	for _, i := range cf.Interfaces {
		w.u2(i)
	}
	for _, members := range [][]Member{cf.Fields, cf.Methods} {
		w.u2(uint16(len(members)))
		for _, m := range members {
			w.u2(uint16(m.AccessFlags))
			w.u2(index[m.Name])
			w.u2(index[m.Descriptor])
			w.attributes(m.Attributes, index)
		}
	}
	w.attributes(cf.Attributes, index)
	return w.buf.WriteTo(out)
}

func (w *writer) attributes(attrs []Attribute, index map[string]uint16) {
	w.u2(uint16(len(attrs)))
	for _, a := range attrs {
		w.u2(index[a.Name])
		w.u4(uint32(len(a.Info)))
		w.buf.Write(a.Info)
	}
}

func encodeModifiedUtf8(s string) []byte {
	var out []byte
	for _, r := range s {
		units := []uint16{uint16(r)}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			units = []uint16{uint16(hi), uint16(lo)}
		}
		for _, u := range units {
			switch {
			case u != 0 && u < 0x80:
				out = append(out, byte(u))
			case u < 0x800:
				out = append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
			default:
				out = append(out, 0xE0|byte(u>>12), 0x80|byte((u>>6)&0x3F), 0x80|byte(u&0x3F))
			}
		}
	}
	return out
}
