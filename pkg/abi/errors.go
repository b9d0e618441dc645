package abi

import "errors"

var (
	// ErrBadInputExtension is returned when the extractor's input path
	// does not end in the expected source extension.
	ErrBadInputExtension = errors.New("input file must have a .ts extension")
	// ErrBadOutputExtension is returned when the extractor's output
	// path does not end in .json.
	ErrBadOutputExtension = errors.New("output file must have a .json extension")
	// ErrCompilerFailed is returned when the `asc` subprocess exits
	// non-zero. The captured diagnostic is wrapped alongside it.
	ErrCompilerFailed = errors.New("assemblyscript compiler failed")
	// ErrTruncatedModule is returned by the import-section reader when
	// the module bytes end before a declared section or field does.
	ErrTruncatedModule = errors.New("truncated wasm module")
	// ErrBadMagic is returned when the module bytes don't start with
	// the WebAssembly magic number and version.
	ErrBadMagic = errors.New("not a wasm module")
)
