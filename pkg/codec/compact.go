// Package codec implements the canonical result envelope framing from
// spec.md §4.3.4: little-endian fixed-width primitives, with strings
// and sequences length-prefixed using the SCALE compact-integer
// convention. No example repo in the reference pack carries a SCALE
// codec dependency, so this is a small, purpose-built encoder rather
// than a borrowed one — see DESIGN.md for the justification this
// process requires for anything built on the standard library.
package codec

import (
	"encoding/binary"
	"math"
)

// Writer accumulates the canonical output envelope.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated envelope.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteI32 appends a little-endian signed 32-bit integer.
func (w *Writer) WriteI32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

// WriteI64 appends a little-endian signed 64-bit integer.
func (w *Writer) WriteI64(v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

// WriteF32 appends a little-endian IEEE-754 binary32 value.
func (w *Writer) WriteF32(v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf = append(w.buf, b[:]...)
}

// WriteF64 appends a little-endian IEEE-754 binary64 value.
func (w *Writer) WriteF64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

// WriteU32Raw appends an opaque raw little-endian u32, used for
// pointer values of unresolved (opaque class) types that are kept
// as-is rather than decoded.
func (w *Writer) WriteU32Raw(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteCompactLen appends n using the SCALE compact-integer
// convention, used as the length prefix ahead of a string's UTF-8
// bytes or a sequence's elements.
func (w *Writer) WriteCompactLen(n int) {
	w.buf = appendCompact(w.buf, uint64(n))
}

// WriteString appends a compact length prefix followed by s's UTF-8
// bytes.
func (w *Writer) WriteString(s string) {
	w.WriteCompactLen(len(s))
	w.buf = append(w.buf, s...)
}

// WriteRaw appends p verbatim, with no length prefix. Used once a
// compact sequence length has already been written by the caller.
func (w *Writer) WriteRaw(p []byte) {
	w.buf = append(w.buf, p...)
}

func appendCompact(buf []byte, n uint64) []byte {
	switch {
	case n < 1<<6:
		return append(buf, byte(n<<2))
	case n < 1<<14:
		v := uint16(n<<2) | 0b01
		return binary.LittleEndian.AppendUint16(buf, v)
	case n < 1<<30:
		v := uint32(n<<2) | 0b10
		return binary.LittleEndian.AppendUint32(buf, v)
	default:
		// "big integer" mode: a single length byte encoding
		// (numBytes-4)<<2 | 0b11, followed by the value's
		// little-endian bytes, minimally sized.
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], n)
		numBytes := 8
		for numBytes > 4 && tmp[numBytes-1] == 0 {
			numBytes--
		}
		buf = append(buf, byte((numBytes-4)<<2)|0b11)
		return append(buf, tmp[:numBytes]...)
	}
}
