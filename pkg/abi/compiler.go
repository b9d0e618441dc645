package abi

import (
	"fmt"
	"os/exec"
	"strings"
)

// CompilerOptions configures the AssemblyScript-like compiler
// subprocess invocation.
type CompilerOptions struct {
	// Path to the compiler binary. Defaults to "asc" on PATH.
	Path string
	// Optimize requests size-optimized output via --optimize.
	Optimize bool
}

// DefaultCompilerOptions mirrors the one compiler invocation spec.md
// §6 specifies: `asc <input> --outFile <input>.wasm --optimize`.
func DefaultCompilerOptions() CompilerOptions {
	return CompilerOptions{Path: "asc", Optimize: true}
}

// Compile drives the source-language compiler as a subprocess,
// producing a Wasm module at wasmOutput next to the source. If the
// compiler exits non-zero, the captured stderr is wrapped into
// ErrCompilerFailed.
func Compile(opts CompilerOptions, input, wasmOutput string) error {
	path := opts.Path
	if path == "" {
		path = "asc"
	}

	args := []string{input, "--outFile", wasmOutput}
	if opts.Optimize {
		args = append(args, "--optimize")
	}

	cmd := exec.Command(path, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		diag := strings.TrimSpace(string(out))
		if diag == "" {
			diag = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrCompilerFailed, diag)
	}
	return nil
}
