package chunk

import (
	"errors"
	"testing"
	"time"
)

func TestFuturePollBeforeCompletion(t *testing.T) {
	block := make(chan struct{})
	f := spawn(func() int {
		<-block
		return 42
	}, func(any) int { return -1 })

	if _, ok := f.poll(); ok {
		t.Fatal("poll should report not-ready before the goroutine finishes")
	}
	close(block)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if v, ok := f.poll(); ok {
			if v != 42 {
				t.Fatalf("poll() = %d, want 42", v)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("future never became ready")
}

func TestFutureRecoversPanic(t *testing.T) {
	wantErr := errors.New("boom")
	f := spawn(func() error {
		panic("boom")
	}, func(r any) error {
		return wantErr
	})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if err, ok := f.poll(); ok {
			if !errors.Is(err, wantErr) {
				t.Fatalf("poll() = %v, want %v", err, wantErr)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("future never became ready after panic")
}

func TestFuturePollIsStableAfterReady(t *testing.T) {
	f := spawn(func() int { return 7 }, func(any) int { return -1 })
	var v int
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if got, ok := f.poll(); ok {
			v = got
			break
		}
		time.Sleep(time.Millisecond)
	}
	if v != 7 {
		t.Fatalf("first poll = %d, want 7", v)
	}
	if got, ok := f.poll(); !ok || got != 7 {
		t.Fatalf("second poll = (%d, %v), want (7, true)", got, ok)
	}
}
