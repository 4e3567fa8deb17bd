// Package cycler implements settings cycling: it steps through an ordered
// list of configuration snapshots, one per invocation, and applies the
// selected snapshot to a configuration store.
//
// A snapshot value is either a literal or a directive ($inc, $dec, $toggle).
// Reserved keys ($global, $step, $min, $max) tune how directives resolve and
// which scope is written. The position in each cycle is remembered in an
// IndexCache for the life of the process; when a cycle has no cached position
// it is recovered by matching snapshots against the current configuration.
package cycler

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"settingscycler/pkg/cyclertypes"
)

// Messages shown to the user for rejected payloads.
const (
	msgInvalidArgs = "Please make sure your 'args' is not empty or malformed"
	msgEmptyValues = "Please make sure your 'args.values' is not empty"
)

// Engine runs cycle requests against a configuration store.
type Engine struct {
	store    cyclertypes.ConfigStore
	cache    *IndexCache
	notifier cyclertypes.Notifier
	logger   *log.Logger
	newID    func() string
}

// Result describes one applied cycle step.
type Result struct {
	InvocationID string
	Identity     string
	Index        int
	Length       int
	Applied      cyclertypes.Snapshot
	Control      cyclertypes.CyclerControl
	Failures     []WriteFailure
}

// NewEngine creates an engine. cache must be non-nil; notifier and logger may
// be nil, in which case messages and failures are dropped.
func NewEngine(store cyclertypes.ConfigStore, cache *IndexCache, notifier cyclertypes.Notifier, logger *log.Logger) *Engine {
	return &Engine{
		store:    store,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		newID:    func() string { return uuid.New().String() },
	}
}

// SetIDSource replaces the generator of invocation ids.
func (e *Engine) SetIDSource(next func() string) {
	if next != nil {
		e.newID = next
	}
}

// Cache returns the index cache the engine writes to.
func (e *Engine) Cache() *IndexCache {
	return e.cache
}

// Reset forgets every cached cycle position.
func (e *Engine) Reset() {
	e.cache.Reset()
}

// Cycle decodes payload and applies the next snapshot of its cycle.
// Rejected payloads are reported to the notifier and returned as errors
// before any store access. Individual write failures are logged and listed
// in the result; they never make Cycle return an error.
func (e *Engine) Cycle(ctx context.Context, payload any, opts ...RequestOption) (*Result, error) {
	req, err := DecodeRequest(payload, opts...)
	if err != nil {
		e.reject(err)
		return nil, err
	}
	return e.Apply(ctx, req)
}

// CycleJSON is Cycle for a raw JSON payload.
func (e *Engine) CycleJSON(ctx context.Context, data []byte, opts ...RequestOption) (*Result, error) {
	req, err := DecodeRequestJSON(data, opts...)
	if err != nil {
		e.reject(err)
		return nil, err
	}
	return e.Apply(ctx, req)
}

// Apply runs an already decoded request.
func (e *Engine) Apply(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || len(req.Snapshots) == 0 {
		err := fmt.Errorf("%w: no values to cycle through", ErrEmptyRequest)
		e.reject(err)
		return nil, err
	}

	invocationID := e.newID()
	parsed := ParseSequence(req.Snapshots, req.Inherited())

	sequence := make([]cyclertypes.Snapshot, len(parsed))
	for i, p := range parsed {
		sequence[i] = p.Values
	}

	observed, err := ObserveCurrent(ctx, e.store, SequenceKeys(sequence))
	if err != nil {
		return nil, fmt.Errorf("failed to read current configuration: %w", err)
	}

	next := NextIndex(e.cache, req.ID, sequence, observed)
	chosen := parsed[next]

	e.debug("cycling", "invocation", invocationID, "id", req.ID, "index", next, "length", len(sequence))

	writes := make([]PendingWrite, 0, len(chosen.Values))
	for key, requested := range chosen.Values {
		writes = append(writes, ResolveWrite(e.store, key, requested, chosen.Control))
	}

	failures := Dispatch(ctx, writes, e.logger)

	return &Result{
		InvocationID: invocationID,
		Identity:     req.ID,
		Index:        next,
		Length:       len(sequence),
		Applied:      chosen.Values,
		Control:      chosen.Control,
		Failures:     failures,
	}, nil
}

func (e *Engine) reject(err error) {
	if e.notifier == nil {
		return
	}
	if errors.Is(err, ErrEmptyRequest) {
		e.notifier.ShowWarning(msgEmptyValues)
		return
	}
	e.notifier.ShowError(fmt.Sprintf("%s: %v", msgInvalidArgs, err))
}

func (e *Engine) debug(msg string, keyvals ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, keyvals...)
	}
}
