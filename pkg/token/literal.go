package token

import "strconv"

// IntKind is the width and signedness of an integer literal.
type IntKind uint8

// Integer literal kinds. IntUntyped literals carry no suffix.
const (
	IntUntyped IntKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
)

var intKindNames = [...]string{
	IntUntyped: "",
	I8:         "i8",
	I16:        "i16",
	I32:        "i32",
	I64:        "i64",
	U8:         "u8",
	U16:        "u16",
	U32:        "u32",
	U64:        "u64",
}

func (k IntKind) String() string {
	if int(k) < len(intKindNames) {
		return intKindNames[k]
	}
	return "int?"
}

// Bits returns the bit width of the kind. Untyped literals are checked
// against the full 64-bit unsigned range.
func (k IntKind) Bits() int {
	switch k {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	}
	return 64
}

// Signed returns true for the i* kinds.
func (k IntKind) Signed() bool {
	return k >= I8 && k <= I64
}

// FloatKind is the width of a floating point literal.
type FloatKind uint8

// Float literal kinds.
const (
	FloatUntyped FloatKind = iota
	F32
	F64
)

func (k FloatKind) String() string {
	switch k {
	case F32:
		return "f32"
	case F64:
		return "f64"
	}
	return ""
}

// Bits returns the bit width used to range check the literal.
func (k FloatKind) Bits() int {
	if k == F32 {
		return 32
	}
	return 64
}

// IntValue is a decoded integer literal.
type IntValue struct {
	Kind IntKind
	Bits uint64
}

func (v IntValue) String() string {
	return strconv.FormatUint(v.Bits, 10) + v.Kind.String()
}

// FloatValue is a decoded floating point literal.
type FloatValue struct {
	Kind  FloatKind
	Value float64
}

func (v FloatValue) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, v.Kind.Bits()) + v.Kind.String()
}

// IntSuffixes maps literal suffixes to integer kinds.
var IntSuffixes = map[string]IntKind{
	"i8":  I8,
	"i16": I16,
	"i32": I32,
	"i64": I64,
	"u8":  U8,
	"u16": U16,
	"u32": U32,
	"u64": U64,
}

// FloatSuffixes maps literal suffixes to float kinds.
var FloatSuffixes = map[string]FloatKind{
	"f32": F32,
	"f64": F64,
}
