package entry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedDescriptor = errors.New("malformed descriptor")
	ErrInvalidName         = errors.New("invalid internal name")
	ErrNilEntry            = errors.New("nil entry")
)

// fieldTypeEnd returns the index just past the field type starting at
// desc[i], or -1.
func fieldTypeEnd(desc string, i int) int {
	for i < len(desc) && desc[i] == '[' {
		i++
	}
	if i >= len(desc) {
		return -1
	}
	switch desc[i] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return i + 1
	case 'L':
		end := strings.IndexByte(desc[i:], ';')
		if end <= 1 {
			return -1
		}
		if ValidateName(desc[i+1:i+end]) != nil {
			return -1
		}
		return i + end + 1
	}
	return -1
}

// ValidateFieldDescriptor checks desc against the field descriptor grammar.
func ValidateFieldDescriptor(desc string) error {
	if fieldTypeEnd(desc, 0) != len(desc) {
		return fmt.Errorf("%w: field %q", ErrMalformedDescriptor, desc)
	}
	return nil
}

// ParseMethodDescriptor splits "(params)ret" into its parameter and return
// descriptors.
func ParseMethodDescriptor(desc string) (params []string, ret string, err error) {
	bad := fmt.Errorf("%w: method %q", ErrMalformedDescriptor, desc)
	if len(desc) < 3 || desc[0] != '(' {
		return nil, "", bad
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		end := fieldTypeEnd(desc, i)
		if end < 0 {
			return nil, "", bad
		}
		params = append(params, desc[i:end])
		i = end
	}
	if i >= len(desc) {
		return nil, "", bad
	}
	ret = desc[i+1:]
	if ret != "V" && ValidateFieldDescriptor(ret) != nil {
		return nil, "", bad
	}
	return params, ret, nil
}

func MethodDescriptor(params []string, ret string) string {
	return "(" + strings.Join(params, "") + ")" + ret
}

func ClassDescriptor(name string) string {
	return "L" + name + ";"
}

// ValidateName accepts internal class names such as java/lang/Map$Entry.
func ValidateName(name string) error {
	if name == "" || strings.ContainsAny(name, ".;[") ||
		strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.Contains(name, "//") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// SourceName converts an internal name to its dotted source spelling,
// treating nested class separators like package separators.
func SourceName(internal string) string {
	return strings.NewReplacer("/", ".", "$", ".").Replace(internal)
}

// InternalPackage converts a dotted package name to internal form.
func InternalPackage(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// TypeName renders a field descriptor the way it would be written in
// source, e.g. "[[Ljava/lang/String;" becomes "java.lang.String[][]".
func TypeName(desc string) string {
	dims := 0
	for dims < len(desc) && desc[dims] == '[' {
		dims++
	}
	base := desc[dims:]
	name := base
	if p := primitiveByCode(base); p != nil {
		name = p.name
	} else if strings.HasPrefix(base, "L") && strings.HasSuffix(base, ";") {
		name = SourceName(base[1 : len(base)-1])
	}
	return name + strings.Repeat("[]", dims)
}
