package abi

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Selector computes the 4-byte, name-and-parameter-names addressing
// digest for a function, method, or variable.
//
// The signature deliberately hashes parameter *names*, not types: two
// overloads differing only in parameter types collide. This is a
// documented limitation of the source dialect, not a bug — see
// spec.md §9 "Duplicate selectors".
func Selector(name string, paramNames []string) string {
	signature := name + "(" + strings.Join(paramNames, ",") + ")"
	sum := sha256.Sum256([]byte(signature))
	return "0x" + hex.EncodeToString(sum[:4])
}

// ParamNames extracts the ordered parameter names from a Param slice.
func ParamNames(params []Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// HeaderHash computes the "0x"-prefixed lowercase-hex SHA-256 digest
// of a compiled module's bytes, in the format expected at
// Header.Hash.
func HeaderHash(moduleBytes []byte) string {
	sum := sha256.Sum256(moduleBytes)
	return "0x" + hex.EncodeToString(sum[:])
}
