package bridge

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/abihost/abihost/pkg/abi"
	"github.com/abihost/abihost/pkg/codec"
	"github.com/abihost/abihost/pkg/registry"
)

// classResolver is the subset of *registry.Registry decodeFields
// needs, so it can be exercised with a hand-built field map in tests
// without building a full Registry.
type classResolver interface {
	LookupClassFields(className string) ([]abi.Field, bool)
}

var _ classResolver = (*registry.Registry)(nil)

// DecodeOutput walks the "Output" class schema registered under reg
// and decodes the instance at pointer out of mem into the canonical
// envelope described in spec.md §4.3.4.
func DecodeOutput(mem api.Memory, reg classResolver, pointer uint32) ([]byte, error) {
	fields, ok := reg.LookupClassFields("Output")
	if !ok {
		return nil, ErrUnknownOutputClass
	}
	w := codec.NewWriter()
	if err := decodeFields(mem, reg, w, fields, pointer); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// decodeFields writes each field in fields, read sequentially starting
// at base, into w.
func decodeFields(mem api.Memory, reg classResolver, w *codec.Writer, fields []abi.Field, base uint32) error {
	offset := base
	for _, f := range fields {
		if err := decodeField(mem, reg, w, f.Type, offset); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
		offset += fieldWidth(f.Type)
	}
	return nil
}

// decodeField decodes the value of a single field of type t located at
// offset and appends it to w.
func decodeField(mem api.Memory, reg classResolver, w *codec.Writer, t string, offset uint32) error {
	switch {
	case t == abi.TypeI32:
		v, err := readUint32(mem, offset)
		if err != nil {
			return err
		}
		w.WriteI32(int32(v))
		return nil

	case t == abi.TypeF32:
		v, err := readUint32(mem, offset)
		if err != nil {
			return err
		}
		w.WriteRaw(leBytes32(v))
		return nil

	case t == abi.TypeI64 || t == abi.TypeF64:
		buf, err := readBytes(mem, offset, 8)
		if err != nil {
			return err
		}
		w.WriteRaw(buf)
		return nil

	case t == abi.TypeString:
		ptr, err := readUint32(mem, offset)
		if err != nil {
			return err
		}
		s, err := readUTF16String(mem, ptr)
		if err != nil {
			return err
		}
		w.WriteString(s)
		return nil
	}

	if elem, ok := abi.IsArrayType(t); ok {
		return decodeArrayField(mem, reg, w, elem, offset)
	}

	// "other": a direct (non-array) field naming a class, or any other
	// type the dispatch table doesn't otherwise recognize. Per
	// spec.md §4.3.3 this is kept as an opaque raw pointer and is not
	// recursively decoded — recursion into a class's fields only
	// happens for Array<UserClass> elements, via decodeClassArray.
	ptr, err := readUint32(mem, offset)
	if err != nil {
		return err
	}
	w.WriteU32Raw(ptr)
	return nil
}

func decodeArrayField(mem api.Memory, reg classResolver, w *codec.Writer, elemType string, offset uint32) error {
	headerPtr, err := readUint32(mem, offset)
	if err != nil {
		return err
	}
	hdr, err := readArrayHeader(mem, headerPtr)
	if err != nil {
		return err
	}

	stride := elementStride(elemType)
	if abi.IsPrimitive(elemType) || elemType == abi.TypeString {
		w.WriteCompactLen(int(hdr.count))
		for i := uint32(0); i < hdr.count; i++ {
			if err := decodeField(mem, reg, w, elemType, hdr.dataPtr+i*stride); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	}

	if inner, ok := abi.IsArrayType(elemType); ok {
		w.WriteCompactLen(int(hdr.count))
		for i := uint32(0); i < hdr.count; i++ {
			if err := decodeArrayField(mem, reg, w, inner, hdr.dataPtr+i*stride); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	}

	// Array<UserClass>: the backing store holds pointers to instances.
	// Null slots are skipped entirely, so the decoded sequence length
	// can be less than hdr.count; decodeClassArray resolves the real
	// pointers first and writes that length, not the raw header count.
	nestedFields, ok := reg.LookupClassFields(elemType)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnresolvedClass, elemType)
	}
	return decodeClassArray(mem, reg, w, nestedFields, hdr)
}

// decodeClassArray writes the compact element count (excluding null
// slots) followed by each non-null instance, decoded recursively.
func decodeClassArray(mem api.Memory, reg classResolver, w *codec.Writer, fields []abi.Field, hdr arrayHeader) error {
	ptrs := make([]uint32, 0, hdr.count)
	for i := uint32(0); i < hdr.count; i++ {
		p, err := readUint32(mem, hdr.dataPtr+i*4)
		if err != nil {
			return err
		}
		if p != 0 {
			ptrs = append(ptrs, p)
		}
	}

	w.WriteCompactLen(len(ptrs))
	for i, p := range ptrs {
		if err := decodeFields(mem, reg, w, fields, p); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// fieldWidth returns the in-memory footprint of a single class field,
// used to advance the cursor across a sequence of fields laid out
// without padding. Pointer-backed types (string, array, class
// reference) occupy one word.
func fieldWidth(t string) uint32 {
	switch t {
	case abi.TypeI64, abi.TypeF64:
		return 8
	default:
		return 4
	}
}

func leBytes32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
