package bridge

import (
	"fmt"
	"unicode/utf16"

	"github.com/tetratelabs/wazero/api"
)

// maxStringCodeUnits bounds UTF-16LE string decoding per spec.md §4.3.3:
// a string longer than this is truncated rather than read unbounded.
const maxStringCodeUnits = 1024

// readBytes reads n bytes from mem at offset, failing with
// ErrOutOfBounds instead of panicking on a bad pointer.
func readBytes(mem api.Memory, offset uint32, n uint32) ([]byte, error) {
	buf, ok := mem.Read(offset, n)
	if !ok {
		return nil, fmt.Errorf("%w: offset=%d len=%d size=%d", ErrOutOfBounds, offset, n, mem.Size())
	}
	return buf, nil
}

// readUint32 reads a single little-endian u32 at offset.
func readUint32(mem api.Memory, offset uint32) (uint32, error) {
	v, ok := mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("%w: offset=%d size=%d", ErrOutOfBounds, offset, mem.Size())
	}
	return v, nil
}

// readUTF16String decodes an AssemblyScript string: UTF-16LE code
// units starting at offset, stopping at the first NUL code unit or
// after maxStringCodeUnits units, whichever comes first. An invalid
// surrogate pair anywhere in the scanned run falls back to the empty
// string, matching spec.md §4.3.3's conservative decode policy.
func readUTF16String(mem api.Memory, offset uint32) (string, error) {
	units := make([]uint16, 0, 64)
	for i := uint32(0); i < maxStringCodeUnits; i++ {
		buf, err := readBytes(mem, offset+2*i, 2)
		if err != nil {
			return "", err
		}
		unit := uint16(buf[0]) | uint16(buf[1])<<8
		if unit == 0 {
			break
		}
		units = append(units, unit)
	}

	decoded := utf16.Decode(units)
	if containsReplacementFromInvalidSurrogate(units, decoded) {
		return "", nil
	}
	return string(decoded), nil
}

// containsReplacementFromInvalidSurrogate reports whether utf16.Decode
// had to substitute U+FFFD for an unpaired surrogate in units. A
// well-formed high/low surrogate pair is not flagged, and neither is a
// U+FFFD encoded directly in the source (it is not a surrogate).
func containsReplacementFromInvalidSurrogate(units []uint16, decoded []rune) bool {
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u <= 0xDBFF && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] <= 0xDFFF {
			i++ // well-formed pair
			continue
		}
		if u >= 0xD800 && u <= 0xDFFF {
			// A lone surrogate in the input always decodes to the
			// replacement character.
			return true
		}
	}
	_ = decoded
	return false
}

// arrayHeader mirrors AssemblyScript's runtime Array<T> layout: a
// 16-byte header of [reserved(4)|data_ptr(4)|reserved(4)|count(4)].
type arrayHeader struct {
	dataPtr uint32
	count   uint32
}

func readArrayHeader(mem api.Memory, offset uint32) (arrayHeader, error) {
	raw, err := readBytes(mem, offset, 16)
	if err != nil {
		return arrayHeader{}, err
	}
	dataPtr := uint32(raw[4]) | uint32(raw[5])<<8 | uint32(raw[6])<<16 | uint32(raw[7])<<24
	count := uint32(raw[12]) | uint32(raw[13])<<8 | uint32(raw[14])<<16 | uint32(raw[15])<<24
	if dataPtr == 0 {
		return arrayHeader{}, ErrNullArrayData
	}
	return arrayHeader{dataPtr: dataPtr, count: count}, nil
}

// elementStride returns the byte width of one Array<T> element for a
// primitive element type, or 4 (a pointer) for a class-instance
// element type.
func elementStride(elemType string) uint32 {
	switch elemType {
	case "i32", "f32":
		return 4
	case "i64", "f64":
		return 8
	default:
		return 4
	}
}
