// Package http fetches a paired ABI descriptor and Wasm module over
// HTTP, grounded on internal/wasm/sdk/opa/loader/http/loader.go's
// client/prepareRequest shape — minus that loader's periodic re-poll,
// since an ABI/module pair is immutable once published (spec.md's
// descriptor is bound to its module by content hash, so a changed
// module always means a changed descriptor URL too).
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/abihost/abihost/pkg/abi"
	"github.com/abihost/abihost/pkg/registry"
)

// Loader fetches an ABI descriptor and its paired Wasm module from two
// URLs and builds a Registry from them.
type Loader struct {
	client         *http.Client
	prepareRequest func(*http.Request) error
}

// New constructs a Loader using http.DefaultClient.
func New() *Loader {
	return &Loader{
		client:         http.DefaultClient,
		prepareRequest: func(*http.Request) error { return nil },
	}
}

// WithClient overrides the HTTP client, e.g. to inject timeouts or a
// custom transport.
func (l *Loader) WithClient(c *http.Client) *Loader {
	l.client = c
	return l
}

// WithRequestPreparer installs a hook run on every outbound request,
// e.g. to attach an Authorization header.
func (l *Loader) WithRequestPreparer(fn func(*http.Request) error) *Loader {
	l.prepareRequest = fn
	return l
}

// Load fetches abiURL and wasmURL and builds a Registry from their
// contents, verifying the header hash unless opts.SkipHashVerification
// is set.
func (l *Loader) Load(ctx context.Context, abiURL, wasmURL string, opts registry.Options) (*registry.Registry, *abi.Descriptor, []byte, error) {
	abiBytes, err := l.fetch(ctx, abiURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch abi %s: %w", abiURL, err)
	}
	moduleBytes, err := l.fetch(ctx, wasmURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch module %s: %w", wasmURL, err)
	}

	var desc abi.Descriptor
	if err := json.Unmarshal(abiBytes, &desc); err != nil {
		return nil, nil, nil, fmt.Errorf("parse abi from %s: %w", abiURL, err)
	}

	reg, err := registry.Build(&desc, moduleBytes, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	return reg, &desc, moduleBytes, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if err := l.prepareRequest(req); err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
