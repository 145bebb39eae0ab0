// Package completion carries the lesson-completion boundary: a finished
// session emits one completion event; a consumer performs the actual
// finalize call off the simulation tick.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Completion is the payload of the external finalize operation.
type Completion struct {
	LessonID   string `json:"lessonId"`
	CourseID   string `json:"courseId"`
	Type       string `json:"type"`
	EarnedStar bool   `json:"earnedStar"`
}

// Finalizer performs the external finalize operation. Implementations
// must tolerate idempotent re-invocation.
type Finalizer interface {
	Finalize(ctx context.Context, c Completion) error
}

// FinalizerFunc adapts a function to the Finalizer interface.
type FinalizerFunc func(ctx context.Context, c Completion) error

// Finalize implements Finalizer.
func (f FinalizerFunc) Finalize(ctx context.Context, c Completion) error {
	return f(ctx, c)
}

const finalizeTimeout = 10 * time.Second

// Bridge decouples the simulation from the finalize call: Post never
// blocks the frame loop, and finalize failures are logged and swallowed.
type Bridge struct {
	finalizer Finalizer
	events    chan Completion
	done      chan struct{}
}

// NewBridge starts the consumer goroutine for the given finalizer.
func NewBridge(finalizer Finalizer) *Bridge {
	b := &Bridge{
		finalizer: finalizer,
		events:    make(chan Completion, 4),
		done:      make(chan struct{}),
	}
	go b.consume()
	return b
}

// Post emits a completion event without blocking. The engine guards
// at-most-once per session; a full buffer drops the event with a log
// line rather than stalling the tick.
func (b *Bridge) Post(c Completion) {
	select {
	case b.events <- c:
	default:
		logErrf("completion event dropped (buffer full): lesson %s\n", c.LessonID)
	}
}

// Close stops the consumer after draining pending events.
func (b *Bridge) Close() {
	close(b.events)
	<-b.done
}

func (b *Bridge) consume() {
	defer close(b.done)
	for c := range b.events {
		ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
		if err := b.finalizer.Finalize(ctx, c); err != nil {
			logErrf("failed to finalize lesson %s: %v\n", c.LessonID, err)
		}
		cancel()
	}
}

// HTTPFinalizer posts the completion as JSON to a configured endpoint.
type HTTPFinalizer struct {
	endpoint string
	client   *http.Client
}

// NewHTTPFinalizer creates a finalizer for the given endpoint URL.
func NewHTTPFinalizer(endpoint string) *HTTPFinalizer {
	return &HTTPFinalizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: finalizeTimeout},
	}
}

// Finalize implements Finalizer.
func (f *HTTPFinalizer) Finalize(ctx context.Context, c Completion) error {
	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode completion: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build finalize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("finalize request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("finalize endpoint returned %s", resp.Status)
	}
	return nil
}

// Multi fans a completion out to several finalizers; the first error is
// returned after all have run.
type Multi []Finalizer

// Finalize implements Finalizer.
func (m Multi) Finalize(ctx context.Context, c Completion) error {
	var first error
	for _, f := range m {
		if err := f.Finalize(ctx, c); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
