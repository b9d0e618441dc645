package registry

import "errors"

var (
	// ErrHashMismatch is returned when a descriptor's header hash does
	// not match the SHA-256 of the paired module's bytes.
	ErrHashMismatch = errors.New("abi header hash does not match wasm module")
	// ErrMalformedDescriptor is returned when the ABI JSON fails to
	// parse.
	ErrMalformedDescriptor = errors.New("malformed abi descriptor")
)
