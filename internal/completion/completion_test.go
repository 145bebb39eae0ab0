package completion

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type countingFinalizer struct {
	mu    sync.Mutex
	calls []Completion
	err   error
}

func (f *countingFinalizer) Finalize(_ context.Context, c Completion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func (f *countingFinalizer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestBridgeDeliversCompletion(t *testing.T) {
	fin := &countingFinalizer{}
	bridge := NewBridge(fin)
	bridge.Post(Completion{LessonID: "l1", CourseID: "c1", Type: "snake", EarnedStar: true})
	bridge.Close()
	if fin.count() != 1 {
		t.Fatalf("expected 1 finalize call, got %d", fin.count())
	}
	if !fin.calls[0].EarnedStar {
		t.Fatal("expected earnedStar to be set")
	}
}

func TestBridgeSwallowsFinalizeFailure(t *testing.T) {
	fin := &countingFinalizer{err: fmt.Errorf("network down")}
	bridge := NewBridge(fin)
	bridge.Post(Completion{LessonID: "l1"})
	bridge.Close()
	if fin.count() != 1 {
		t.Fatalf("expected the failing call to have been attempted, got %d", fin.count())
	}
}

func TestBridgePostNeverBlocks(t *testing.T) {
	blocked := make(chan struct{})
	fin := FinalizerFunc(func(_ context.Context, _ Completion) error {
		<-blocked
		return nil
	})
	bridge := NewBridge(fin)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			bridge.Post(Completion{LessonID: "l1"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Post blocked the caller")
	}
	close(blocked)
	bridge.Close()
}

func TestHTTPFinalizer(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		if _, err := r.Body.Read(buf); err != nil && err.Error() != "EOF" {
			t.Errorf("failed to read body: %v", err)
		}
		gotBody = string(buf)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	fin := NewHTTPFinalizer(server.URL)
	err := fin.Finalize(context.Background(), Completion{LessonID: "l1", CourseID: "c1", Type: "maze", EarnedStar: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody == "" {
		t.Fatal("expected a JSON body")
	}
}

func TestHTTPFinalizerRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fin := NewHTTPFinalizer(server.URL)
	if err := fin.Finalize(context.Background(), Completion{}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
