package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abihost/abihost/internal/log"
	"github.com/abihost/abihost/pkg/abi"
	"github.com/abihost/abihost/pkg/bridge"
	"github.com/abihost/abihost/pkg/codec"
	httploader "github.com/abihost/abihost/pkg/loader/http"
	"github.com/abihost/abihost/pkg/registry"
)

type runCommandParams struct {
	inputPath      string
	asJSON         bool
	skipHashVerify bool
	remote         bool
}

func initRun(root *cobra.Command) {
	var params runCommandParams

	runCommand := &cobra.Command{
		Use:   "run <abi> <module>",
		Short: "Invoke a compiled module through the execution bridge",
		Long: `Loads the paired ABI descriptor and Wasm module, verifies the header hash,
instantiates the module with fabricated stub imports, writes the input payload
into linear memory, calls process(offset, length), and decodes the result
against the "Output" class schema.

<abi> and <module> are local file paths by default; pass --remote to treat
them as HTTP(S) URLs instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args[0], args[1], params)
		},
	}

	runCommand.Flags().StringVar(&params.inputPath, "input", "", "input payload file (defaults to stdin)")
	runCommand.Flags().BoolVar(&params.asJSON, "json", false, "print decoded Output fields as a JSON array instead of hex")
	runCommand.Flags().BoolVar(&params.skipHashVerify, "skip-hash-verify", false, "accept a descriptor whose header hash does not match the module (unsafe)")
	runCommand.Flags().BoolVar(&params.remote, "remote", false, "fetch <abi> and <module> as HTTP(S) URLs instead of local file paths")

	root.AddCommand(runCommand)
}

func runRun(ctx context.Context, abiLocation, wasmLocation string, params runCommandParams) error {
	reg, moduleBytes, err := loadRegistry(ctx, abiLocation, wasmLocation, params)
	if err != nil {
		return err
	}

	payload, err := readPayload(params.inputPath)
	if err != nil {
		return err
	}

	engine := bridge.NewEngine(ctx, log.Global())
	defer engine.Close(ctx)

	envelope, err := engine.Invoke(ctx, reg, moduleBytes, payload)
	if err != nil {
		return fmt.Errorf("invoke: %w", err)
	}

	if !params.asJSON {
		fmt.Println(hex.EncodeToString(envelope))
		return nil
	}

	fields, ok := reg.LookupClassFields("Output")
	if !ok {
		return bridge.ErrUnknownOutputClass
	}
	values, err := decodeValues(reg, fields, codec.NewReader(envelope))
	if err != nil {
		return fmt.Errorf("decode envelope for display: %w", err)
	}
	out, err := json.Marshal(values)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// loadRegistry builds a Registry from either local file paths or, when
// params.remote is set, HTTP(S) URLs fetched via pkg/loader/http.
func loadRegistry(ctx context.Context, abiLocation, wasmLocation string, params runCommandParams) (*registry.Registry, []byte, error) {
	opts := registry.Options{SkipHashVerification: params.skipHashVerify, Logger: log.Global()}

	if params.remote {
		reg, _, moduleBytes, err := httploader.New().Load(ctx, abiLocation, wasmLocation, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch %s / %s: %w", abiLocation, wasmLocation, err)
		}
		return reg, moduleBytes, nil
	}

	reg, _, moduleBytes, err := registry.Load(abiLocation, wasmLocation, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s / %s: %w", abiLocation, wasmLocation, err)
	}
	return reg, moduleBytes, nil
}

func readPayload(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// decodeValues re-walks the Output schema against the already-encoded
// envelope, purely for the CLI's human-readable --json mode; the
// bridge's own decode path (pkg/bridge/decode.go) never needs this,
// since it decodes straight from linear memory.
func decodeValues(reg *registry.Registry, fields []abi.Field, r *codec.Reader) ([]any, error) {
	out := make([]any, len(fields))
	for i, f := range fields {
		v, err := decodeValue(reg, f.Type, r)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

func decodeValue(reg *registry.Registry, t string, r *codec.Reader) (any, error) {
	switch t {
	case abi.TypeI32:
		return r.ReadI32()
	case abi.TypeF32:
		return r.ReadF32()
	case abi.TypeI64:
		return r.ReadI64()
	case abi.TypeF64:
		return r.ReadF64()
	case abi.TypeString:
		return r.ReadString()
	}

	if elem, ok := abi.IsArrayType(t); ok {
		n, err := r.ReadCompactLen()
		if err != nil {
			return nil, err
		}
		// Array<UserClass> elements are encoded field by field by the
		// bridge (decodeClassArray), so they are decoded the same way.
		classFields, isClass := reg.LookupClassFields(elem)
		out := make([]any, n)
		for i := 0; i < n; i++ {
			var v any
			var err error
			if isClass {
				v, err = decodeValues(reg, classFields, r)
			} else {
				v, err = decodeValue(reg, elem, r)
			}
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	}

	// Opaque reference: kept as a raw pointer, matching the bridge's
	// own "other" dispatch in pkg/bridge/decode.go.
	return r.ReadI32()
}
