// Package abi defines the on-disk ABI descriptor produced by the
// extractor and consumed by the selector registry and execution
// bridge.
package abi

// Descriptor is the top-level ABI artifact. Field order matches the
// wire format documented in SPEC_FULL.md and must not change: callers
// persist this as pretty-printed JSON and diff it across builds.
type Descriptor struct {
	Header    Header     `json:"header"`
	Functions []Function `json:"functions"`
	Classes   []Class    `json:"classes"`
	Variables []Variable `json:"variables"`
	Imports   []Import   `json:"imports"`
}

// Header binds a Descriptor to exactly one compiled module by content
// hash.
type Header struct {
	Name *string `json:"name,omitempty"`
	Hash string  `json:"hash"`
}

// Function describes an exported function or a class method.
type Function struct {
	Name     string  `json:"name"`
	Params   []Param `json:"params"`
	Result   string  `json:"result"`
	Doc      *string `json:"doc,omitempty"`
	Selector string  `json:"selector"`
}

// Param is a single named, typed function parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Class describes an exported class: its selector, its fields (from
// public constructor parameters and field declarations), and its
// methods.
type Class struct {
	ClassSelector string   `json:"class_selector"`
	Name          string   `json:"name"`
	Fields        []Field  `json:"fields"`
	Methods       []Function `json:"methods"`
	Doc           *string  `json:"doc,omitempty"`
}

// Field is a single named, typed class field.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Variable describes an exported constant.
type Variable struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Doc      *string `json:"doc,omitempty"`
	Selector string  `json:"selector"`
}

// Import describes a single entry from the compiled module's import
// section. Kind is externally tagged, matching the original
// prototype's serde encoding of its ImportKind enum: exactly one of
// Function, Memory, Global, or Table is set.
type Import struct {
	Module string     `json:"module"`
	Name   string      `json:"name"`
	Kind   ImportKind `json:"kind"`
}

type ImportKind struct {
	Function *ImportFunctionKind `json:"Function,omitempty"`
	Memory   *ImportMemoryKind   `json:"Memory,omitempty"`
	Global   *ImportGlobalKind   `json:"Global,omitempty"`
	Table    *ImportTableKind    `json:"Table,omitempty"`
}

type ImportFunctionKind struct {
	Params []string `json:"params"`
	Result *string  `json:"result,omitempty"`
}

type ImportMemoryKind struct {
	Min uint32  `json:"min"`
	Max *uint32 `json:"max,omitempty"`
}

type ImportGlobalKind struct {
	Type    string `json:"type"`
	Mutable bool   `json:"mutable"`
}

type ImportTableKind struct {
	Type string  `json:"type"`
	Min  uint32  `json:"min"`
	Max  *uint32 `json:"max,omitempty"`
}

// Primitive and well-known type-grammar tokens. Anything else is an
// opaque class name resolved by lookup in the registry's class table.
const (
	TypeI32    = "i32"
	TypeI64    = "i64"
	TypeF32    = "f32"
	TypeF64    = "f64"
	TypeString = "string"
)

// IsArrayType reports whether t is an `Array<...>` type-name and, if
// so, returns its element type.
func IsArrayType(t string) (elem string, ok bool) {
	const prefix, suffix = "Array<", ">"
	if len(t) > len(prefix)+len(suffix) && t[:len(prefix)] == prefix && t[len(t)-1:] == suffix {
		return t[len(prefix) : len(t)-1], true
	}
	return "", false
}

// IsPrimitive reports whether t is one of the fixed scalar types.
func IsPrimitive(t string) bool {
	switch t {
	case TypeI32, TypeI64, TypeF32, TypeF64:
		return true
	}
	return false
}
