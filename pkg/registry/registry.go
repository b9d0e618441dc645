// Package registry builds the runtime-only selector index consumed by
// the execution bridge, mirroring original_source/src/core/runtime.rs's
// SelectorRegistry.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/abihost/abihost/internal/log"
	"github.com/abihost/abihost/pkg/abi"
)

// Options configures Build / Load.
type Options struct {
	// SkipHashVerification disables the header-hash check against the
	// paired module. spec.md §9 calls hash verification an open
	// question the reference implementation flip-flopped on across
	// revisions; here it defaults to mandatory, and any divergence
	// must be this explicit, logged opt-out — never silent.
	SkipHashVerification bool
	// Logger receives duplicate-selector warnings. Defaults to
	// log.Global().
	Logger log.Logger
}

// Registry is the runtime-only selector index built from a
// Descriptor. Its maps are not modified after Build returns, so one
// Registry may serve lookups from concurrent invocations.
type Registry struct {
	// Origin is the descriptor's header hash, kept only for
	// verification messaging.
	Origin string

	functions map[string]abi.Function
	variables map[string]abi.Variable
	classes   map[string][]abi.Field
}

// Build constructs a Registry from an in-memory Descriptor and the
// paired module's raw bytes, verifying the header hash unless
// opts.SkipHashVerification is set.
func Build(desc *abi.Descriptor, moduleBytes []byte, opts Options) (*Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Global()
	}

	if !opts.SkipHashVerification {
		got := hashModule(moduleBytes)
		if got != desc.Header.Hash {
			return nil, fmt.Errorf("%w: descriptor expects %s, module hashes to %s",
				ErrHashMismatch, desc.Header.Hash, got)
		}
	} else {
		logger.Warn("hash verification disabled: registry accepted without checking module binding")
	}

	r := &Registry{
		Origin:    desc.Header.Hash,
		functions: make(map[string]abi.Function),
		variables: make(map[string]abi.Variable),
		classes:   make(map[string][]abi.Field),
	}

	for _, fn := range desc.Functions {
		r.insertFunction(fn, logger)
	}
	for _, cls := range desc.Classes {
		r.classes[cls.Name] = cls.Fields
		for _, m := range cls.Methods {
			r.insertFunction(m, logger)
		}
	}
	for _, v := range desc.Variables {
		if _, exists := r.variables[v.Selector]; exists {
			logger.Warnf("duplicate variable selector %s for %q: later entry wins", v.Selector, v.Name)
		}
		r.variables[v.Selector] = v
	}

	return r, nil
}

func (r *Registry) insertFunction(fn abi.Function, logger log.Logger) {
	if _, exists := r.functions[fn.Selector]; exists {
		logger.Warnf("duplicate function selector %s for %q: later entry wins", fn.Selector, fn.Name)
	}
	r.functions[fn.Selector] = fn
}

// Load reads a JSON descriptor from abiPath and the module bytes from
// wasmPath, then calls Build.
func Load(abiPath, wasmPath string, opts Options) (*Registry, *abi.Descriptor, []byte, error) {
	raw, err := os.ReadFile(abiPath)
	if err != nil {
		return nil, nil, nil, err
	}

	var desc abi.Descriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrMalformedDescriptor, err)
	}

	moduleBytes, err := os.ReadFile(wasmPath)
	if err != nil {
		return nil, nil, nil, err
	}

	reg, err := Build(&desc, moduleBytes, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return reg, &desc, moduleBytes, nil
}

// LookupFunction returns the function or method registered at
// selector, if any.
func (r *Registry) LookupFunction(selector string) (abi.Function, bool) {
	fn, ok := r.functions[selector]
	return fn, ok
}

// LookupVariable returns the variable registered at selector, if any.
func (r *Registry) LookupVariable(selector string) (abi.Variable, bool) {
	v, ok := r.variables[selector]
	return v, ok
}

// LookupClassFields returns the ordered field list for className, if
// any class by that name was registered.
func (r *Registry) LookupClassFields(className string) ([]abi.Field, bool) {
	fields, ok := r.classes[className]
	return fields, ok
}

func hashModule(moduleBytes []byte) string {
	sum := sha256.Sum256(moduleBytes)
	return "0x" + hex.EncodeToString(sum[:])
}
