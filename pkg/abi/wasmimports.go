package abi

import (
	"bytes"
	"encoding/binary"

	"github.com/abihost/abihost/internal/leb128"
)

// ReadImportSection decodes the Type and Import sections of a raw
// WebAssembly binary module and returns the corresponding AbiImport
// list, in declared order.
//
// This is a small, purpose-built decoder for exactly the two sections
// the ABI needs, not a general Wasm parser — mirroring
// original_source/src/core/abi_parser.rs's use of a standalone
// `wasmparser` crate to walk the import section independently of the
// execution engine (wasmtime there, wazero here). See DESIGN.md for
// why this is hand-rolled rather than pulled from a third-party
// module-inspection library.
func ReadImportSection(module []byte) ([]Import, error) {
	if len(module) < 8 {
		return nil, ErrBadMagic
	}
	if string(module[0:4]) != "\x00asm" {
		return nil, ErrBadMagic
	}
	if binary.LittleEndian.Uint32(module[4:8]) != 1 {
		return nil, ErrBadMagic
	}

	var funcTypes []funcType
	var imports []Import

	off := 8
	for off < len(module) {
		id := module[off]
		off++
		size, n, err := readULEB128(module, off)
		if err != nil {
			return nil, err
		}
		off += n
		end := off + int(size)
		if end > len(module) {
			return nil, ErrTruncatedModule
		}
		body := module[off:end]

		switch id {
		case 1: // Type section
			funcTypes, err = decodeTypeSection(body)
			if err != nil {
				return nil, err
			}
		case 2: // Import section
			imports, err = decodeImportSection(body, funcTypes)
			if err != nil {
				return nil, err
			}
		}

		off = end
	}

	return imports, nil
}

type funcType struct {
	params  []string
	results []string
}

func decodeTypeSection(body []byte) ([]funcType, error) {
	count, n, err := readULEB128(body, 0)
	if err != nil {
		return nil, err
	}
	off := n
	types := make([]funcType, 0, count)
	for i := uint64(0); i < count; i++ {
		if off >= len(body) || body[off] != 0x60 {
			return nil, ErrTruncatedModule
		}
		off++

		nParams, n, err := readULEB128(body, off)
		if err != nil {
			return nil, err
		}
		off += n
		params := make([]string, nParams)
		for j := range params {
			if off >= len(body) {
				return nil, ErrTruncatedModule
			}
			params[j] = valTypeName(body[off])
			off++
		}

		nResults, n, err := readULEB128(body, off)
		if err != nil {
			return nil, err
		}
		off += n
		results := make([]string, nResults)
		for j := range results {
			if off >= len(body) {
				return nil, ErrTruncatedModule
			}
			results[j] = valTypeName(body[off])
			off++
		}

		types = append(types, funcType{params: params, results: results})
	}
	return types, nil
}

func decodeImportSection(body []byte, funcTypes []funcType) ([]Import, error) {
	count, n, err := readULEB128(body, 0)
	if err != nil {
		return nil, err
	}
	off := n
	imports := make([]Import, 0, count)
	for i := uint64(0); i < count; i++ {
		mod, n, err := readName(body, off)
		if err != nil {
			return nil, err
		}
		off += n

		name, n, err := readName(body, off)
		if err != nil {
			return nil, err
		}
		off += n

		if off >= len(body) {
			return nil, ErrTruncatedModule
		}
		kindByte := body[off]
		off++

		var kind ImportKind
		switch kindByte {
		case 0x00: // func
			typeIdx, n, err := readULEB128(body, off)
			if err != nil {
				return nil, err
			}
			off += n
			var params []string
			var result *string
			if int(typeIdx) < len(funcTypes) {
				ft := funcTypes[typeIdx]
				params = ft.params
				if len(ft.results) > 0 {
					r := ft.results[0]
					result = &r
				}
			}
			kind = ImportKind{Function: &ImportFunctionKind{Params: params, Result: result}}
		case 0x01: // table
			if off >= len(body) {
				return nil, ErrTruncatedModule
			}
			elemType := valTypeName(body[off])
			off++
			min, max, n, err := readLimits(body, off)
			if err != nil {
				return nil, err
			}
			off += n
			kind = ImportKind{Table: &ImportTableKind{Type: elemType, Min: min, Max: max}}
		case 0x02: // memory
			min, max, n, err := readLimits(body, off)
			if err != nil {
				return nil, err
			}
			off += n
			kind = ImportKind{Memory: &ImportMemoryKind{Min: min, Max: max}}
		case 0x03: // global
			if off+1 >= len(body) {
				return nil, ErrTruncatedModule
			}
			valType := valTypeName(body[off])
			off++
			mutable := body[off] == 0x01
			off++
			kind = ImportKind{Global: &ImportGlobalKind{Type: valType, Mutable: mutable}}
		default:
			return nil, ErrTruncatedModule
		}

		imports = append(imports, Import{Module: mod, Name: name, Kind: kind})
	}
	return imports, nil
}

func valTypeName(b byte) string {
	switch b {
	case 0x7F:
		return TypeI32
	case 0x7E:
		return TypeI64
	case 0x7D:
		return TypeF32
	case 0x7C:
		return TypeF64
	case 0x70:
		return "funcref"
	case 0x6F:
		return "externref"
	default:
		return "unknown"
	}
}

func readLimits(body []byte, off int) (min uint32, max *uint32, consumed int, err error) {
	start := off
	if off >= len(body) {
		return 0, nil, 0, ErrTruncatedModule
	}
	flag := body[off]
	off++
	minVal, n, err := readULEB128(body, off)
	if err != nil {
		return 0, nil, 0, err
	}
	off += n
	if flag == 0x01 {
		maxVal, n, err := readULEB128(body, off)
		if err != nil {
			return 0, nil, 0, err
		}
		off += n
		m := uint32(maxVal)
		return uint32(minVal), &m, off - start, nil
	}
	return uint32(minVal), nil, off - start, nil
}

func readName(body []byte, off int) (string, int, error) {
	length, n, err := readULEB128(body, off)
	if err != nil {
		return "", 0, err
	}
	start := off + n
	end := start + int(length)
	if end > len(body) {
		return "", 0, ErrTruncatedModule
	}
	return string(body[start:end]), n + int(length), nil
}

// readULEB128 delegates to internal/leb128, adapted here to the
// byte-slice-plus-offset convention the rest of this decoder uses
// rather than leb128's io.ByteReader-oriented signature.
func readULEB128(data []byte, off int) (uint64, int, error) {
	if off >= len(data) {
		return 0, 0, ErrTruncatedModule
	}
	r := bytes.NewReader(data[off:])
	before := r.Len()
	v, err := leb128.ReadVarUint64(r)
	if err != nil {
		return 0, 0, ErrTruncatedModule
	}
	return v, before - r.Len(), nil
}
