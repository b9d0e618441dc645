package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abihost/abihost/internal/log"
	"github.com/abihost/abihost/pkg/batch"
	"github.com/abihost/abihost/pkg/bridge"
	"github.com/abihost/abihost/pkg/metrics"
	"github.com/abihost/abihost/pkg/registry"
)

type batchCommandParams struct {
	configPath  string
	metricsAddr string
}

func initBatch(root *cobra.Command) {
	var params batchCommandParams

	batchCommand := &cobra.Command{
		Use:   "batch <abi.json> <modules-dir>",
		Short: "Invoke every module in a directory concurrently against one ABI descriptor",
		Long: `Scans modules-dir for *.wasm files. Each module.wasm is paired with a
sibling module.input file holding its raw input payload (an empty payload is
used if no sibling file exists). Every pair is run through the execution
bridge with bounded concurrency, and a one-line result is printed per module.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args[0], args[1], params)
		},
	}

	batchCommand.Flags().StringVar(&params.configPath, "config", "", "batch config file (concurrency, skip_hash_verification); defaults built in if omitted")
	batchCommand.Flags().StringVar(&params.metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address for the duration of the run (e.g. :9090)")

	root.AddCommand(batchCommand)
}

func runBatch(ctx context.Context, abiPath, modulesDir string, params batchCommandParams) error {
	cfg := batch.Config{Concurrency: 4}
	if params.configPath != "" {
		loaded, err := batch.LoadConfig(params.configPath)
		if err != nil {
			return fmt.Errorf("load batch config: %w", err)
		}
		cfg = loaded
	}

	jobs, err := discoverJobs(modulesDir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no *.wasm files found in %s", modulesDir)
	}

	collector := metrics.New()
	if params.metricsAddr != "" {
		server := &http.Server{Addr: params.metricsAddr, Handler: collector.Handler()}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Global().Warnf("metrics server stopped: %v", err)
			}
		}()
		defer server.Close()
		log.Global().Infof("serving metrics on %s", params.metricsAddr)
	}

	engine := bridge.NewEngine(ctx, log.Global())
	engine.Metrics = collector
	defer engine.Close(ctx)

	// Every job is loaded against the same ABI descriptor: registry.Load
	// re-reads the descriptor together with each job's wasm module, so
	// every module gets its own header-hash check.
	for i, job := range jobs {
		reg, _, moduleBytes, err := registry.Load(abiPath, job.wasmPath, registry.Options{
			SkipHashVerification: cfg.SkipHashVerification,
			Logger:               log.Global(),
		})
		if err != nil {
			return fmt.Errorf("load %s / %s: %w", abiPath, job.wasmPath, err)
		}
		jobs[i].module = moduleBytes
		jobs[i].reg = reg
	}

	batchJobs := make([]batch.Job, len(jobs))
	for i, job := range jobs {
		batchJobs[i] = batch.Job{Name: job.name, Module: job.module, Payload: job.payload}
	}

	// All jobs share the same Output schema, so any one of them works
	// for decoding; registry.Load already verified each module's own
	// header hash individually above.
	results := batch.Run(ctx, engine, jobs[0].reg, cfg, batchJobs)
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%s: error: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("%s: ok (%d-byte envelope)\n", r.Name, len(r.Envelope))
	}
	return nil
}

type discoveredJob struct {
	name     string
	wasmPath string
	payload  []byte
	module   []byte
	reg      *registry.Registry
}

func discoverJobs(dir string) ([]discoveredJob, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var jobs []discoveredJob
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".wasm") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".wasm")
		wasmPath := filepath.Join(dir, entry.Name())
		payload, err := os.ReadFile(filepath.Join(dir, name+".input"))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read input for %s: %w", name, err)
		}
		jobs = append(jobs, discoveredJob{name: name, wasmPath: wasmPath, payload: payload})
	}
	return jobs, nil
}
