// Package bridge implements the execution bridge from spec.md §4.3: it
// loads a compiled wasm module under wazero, fabricates stub imports
// for whatever the module declares, marshals an input payload into its
// linear memory, invokes process(i32,i32)->i32, and decodes the result
// against the registry's Output class schema.
//
// Grounded on internal/wasm/sdk/internal/wazero/VM.go and module.go
// (the teacher's own wazero consumer) for the engine/instantiate shape,
// and on original_source/src/core/runtime.rs's wasmtime_runner for the
// stub-synthesis and process-call sequence it replaces.
package bridge

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/abihost/abihost/internal/log"
	"github.com/abihost/abihost/pkg/abi"
	"github.com/abihost/abihost/pkg/metrics"
)

// Engine owns a wazero runtime and compiles/instantiates modules
// against it. One Engine may be reused across many Invoke calls; each
// call gets its own module instance so invocations never share
// mutable linear memory.
type Engine struct {
	runtime wazero.Runtime
	logger  log.Logger

	// Metrics, if set, receives one Observe call per Invoke. Left nil
	// by NewEngine; a caller that wants scrapeable metrics (the batch
	// command) assigns its own *metrics.Collector after construction.
	Metrics *metrics.Collector
}

// NewEngine creates an Engine backed by a fresh wazero runtime.
func NewEngine(ctx context.Context, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.Global()
	}
	return &Engine{runtime: wazero.NewRuntime(ctx), logger: logger}
}

// Close releases the underlying wazero runtime and every module
// compiled against it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// instantiate compiles moduleBytes, synthesizes stub host modules for
// every namespace it imports from, and instantiates it under the
// anonymous module name so repeated Invoke calls never collide.
func (e *Engine) instantiate(ctx context.Context, moduleBytes []byte) (api.Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, moduleBytes)
	if err != nil {
		return nil, fmt.Errorf("compile module: %w", err)
	}

	imports, err := abi.ReadImportSection(moduleBytes)
	if err != nil {
		return nil, fmt.Errorf("read import section: %w", err)
	}

	if err := e.stubImports(ctx, imports); err != nil {
		return nil, err
	}

	cfg := wazero.NewModuleConfig().WithName("")
	mod, err := e.runtime.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return nil, fmt.Errorf("instantiate module: %w", err)
	}
	return mod, nil
}

// stubImports builds one host module per distinct import namespace,
// populating every function import with a zero-returning stub and
// every memory import with a freshly allocated memory matching its
// declared limits. Table and global imports are rejected explicitly:
// see ErrUnsupportedImportKind.
func (e *Engine) stubImports(ctx context.Context, imports []abi.Import) error {
	byModule := make(map[string][]abi.Import)
	var order []string
	for _, imp := range imports {
		if _, seen := byModule[imp.Module]; !seen {
			order = append(order, imp.Module)
		}
		byModule[imp.Module] = append(byModule[imp.Module], imp)
	}

	for _, modName := range order {
		builder := e.runtime.NewHostModuleBuilder(modName)
		for _, imp := range byModule[modName] {
			switch {
			case imp.Kind.Function != nil:
				params := valTypes(imp.Kind.Function.Params)
				var results []api.ValueType
				if imp.Kind.Function.Result != nil {
					results = valTypes([]string{*imp.Kind.Function.Result})
				}
				builder.NewFunctionBuilder().
					WithGoModuleFunction(stubFunction(results), params, results).
					Export(imp.Name)

			case imp.Kind.Memory != nil:
				if imp.Kind.Memory.Max != nil {
					builder.ExportMemoryWithMax(imp.Name, imp.Kind.Memory.Min, *imp.Kind.Memory.Max)
				} else {
					builder.ExportMemory(imp.Name, imp.Kind.Memory.Min)
				}

			case imp.Kind.Table != nil:
				return fmt.Errorf("%w: table %s.%s", ErrUnsupportedImportKind, imp.Module, imp.Name)

			case imp.Kind.Global != nil:
				return fmt.Errorf("%w: global %s.%s", ErrUnsupportedImportKind, imp.Module, imp.Name)

			default:
				return fmt.Errorf("%w: unrecognized kind for %s.%s", ErrUnsupportedImportKind, imp.Module, imp.Name)
			}
		}

		if _, err := builder.Instantiate(ctx); err != nil {
			return fmt.Errorf("instantiate stub module %q: %w", modName, err)
		}
		e.logger.Debugf("stubbed import namespace %q (%d entries)", modName, len(byModule[modName]))
	}
	return nil
}

// stubFunction returns a dynamic host function that leaves every
// result slot at its zero value and otherwise does nothing, mirroring
// original_source/src/core/runtime.rs's wasmtime_runner stub closures.
func stubFunction(results []api.ValueType) api.GoModuleFunc {
	return func(_ context.Context, _ api.Module, stack []uint64) {
		for i := range results {
			stack[i] = 0
		}
	}
}

func valTypes(names []string) []api.ValueType {
	out := make([]api.ValueType, len(names))
	for i, n := range names {
		out[i] = valType(n)
	}
	return out
}

func valType(name string) api.ValueType {
	switch name {
	case abi.TypeI64:
		return api.ValueTypeI64
	case abi.TypeF32:
		return api.ValueTypeF32
	case abi.TypeF64:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}
