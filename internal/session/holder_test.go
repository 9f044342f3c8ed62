package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"flexsim-mcp/internal/engine"
)

type stubController struct {
	engine.Controller
	id int
}

func TestAcquire_LaunchesOnce(t *testing.T) {
	var launches int32
	h := NewHolder(func() (engine.Controller, error) {
		atomic.AddInt32(&launches, 1)
		return &stubController{id: 1}, nil
	})

	first, err := h.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	second, err := h.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if first != second {
		t.Fatalf("expected same controller instance")
	}
	if n := atomic.LoadInt32(&launches); n != 1 {
		t.Fatalf("launches = %d, want 1", n)
	}
}

func TestAcquire_ConcurrentFirstCallersShareLaunch(t *testing.T) {
	var launches int32
	h := NewHolder(func() (engine.Controller, error) {
		atomic.AddInt32(&launches, 1)
		time.Sleep(20 * time.Millisecond)
		return &stubController{id: 7}, nil
	})

	const callers = 16
	results := make([]engine.Controller, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctrl, err := h.Acquire()
			if err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			results[i] = ctrl
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&launches); n != 1 {
		t.Fatalf("launches = %d, want 1", n)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d got a different controller", i)
		}
	}
}

func TestAcquire_FailureNotCached(t *testing.T) {
	var launches int32
	fail := errors.New("engine binary missing")
	h := NewHolder(func() (engine.Controller, error) {
		if atomic.AddInt32(&launches, 1) == 1 {
			return nil, fail
		}
		return &stubController{id: 2}, nil
	})

	if _, err := h.Acquire(); !errors.Is(err, fail) {
		t.Fatalf("first Acquire err = %v, want %v", err, fail)
	}
	ctrl, err := h.Acquire()
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if ctrl == nil {
		t.Fatalf("second Acquire returned nil controller")
	}
	if n := atomic.LoadInt32(&launches); n != 2 {
		t.Fatalf("launches = %d, want 2", n)
	}
}

func TestShutdown_ReleasesHandle(t *testing.T) {
	var launches int32
	h := NewHolder(func() (engine.Controller, error) {
		return &stubController{id: int(atomic.AddInt32(&launches, 1))}, nil
	})
	if _, err := h.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !h.Active() {
		t.Fatalf("holder inactive after Acquire")
	}
	h.Shutdown()
	if h.Active() {
		t.Fatalf("holder still active after Shutdown")
	}
}
