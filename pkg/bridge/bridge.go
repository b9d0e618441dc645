package bridge

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/abihost/abihost/internal/uuid"
	"github.com/abihost/abihost/pkg/registry"
)

// inputOffset is the well-known byte offset the bridge writes the
// input payload at, per spec.md §4.3.2's reference choice.
const inputOffset = 0

// Invoke runs one end-to-end execution: instantiate moduleBytes with
// fabricated stub imports, write payload into the module's exported
// "memory" at offset 0, call process(offset, length), and decode the
// returned pointer against reg's "Output" class schema. Each call gets
// its own module instance; nothing is retained across calls.
//
// Every call is tagged with a random correlation ID logged at entry
// and exit, so a single invocation's log lines can be picked out of a
// batch run sharing one Engine.
func (e *Engine) Invoke(ctx context.Context, reg *registry.Registry, moduleBytes []byte, payload []byte) ([]byte, error) {
	callID, err := uuid.New(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate invocation id: %w", err)
	}
	logger := e.logger.WithField("invocation", callID)
	logger.Debugf("invoking process with %d-byte payload", len(payload))
	start := time.Now()

	envelope, err := e.invoke(ctx, reg, moduleBytes, payload)
	e.Metrics.Observe(time.Since(start), err)
	if err != nil {
		return nil, err
	}
	logger.Debugf("decoded %d-byte output envelope", len(envelope))
	return envelope, nil
}

func (e *Engine) invoke(ctx context.Context, reg *registry.Registry, moduleBytes []byte, payload []byte) ([]byte, error) {
	mod, err := e.instantiate(ctx, moduleBytes)
	if err != nil {
		return nil, err
	}
	defer mod.Close(ctx)

	mem := mod.Memory()
	if mem == nil {
		return nil, ErrMissingMemory
	}

	process := mod.ExportedFunction("process")
	if process == nil {
		return nil, ErrMissingEntrypoint
	}

	if !mem.Write(inputOffset, payload) {
		return nil, fmt.Errorf("%w: writing %d-byte payload at offset %d", ErrOutOfBounds, len(payload), inputOffset)
	}

	results, err := process.Call(ctx, uint64(inputOffset), uint64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("call process: %w", err)
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("%w: process returned %d values, want 1", ErrMissingEntrypoint, len(results))
	}
	outputPtr := uint32(results[0])

	return DecodeOutput(mem, reg, outputPtr)
}
