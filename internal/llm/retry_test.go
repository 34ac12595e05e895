package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_SucceedsFirstTry(t *testing.T) {
	p := RetryPolicy{MaxRetries: 2, InitialBackoff: time.Millisecond}
	calls := 0

	got, err := p.Do(context.Background(), "call", func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" || calls != 1 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestRetryPolicy_RetriesThenSucceeds(t *testing.T) {
	p := RetryPolicy{MaxRetries: 2, InitialBackoff: time.Millisecond}
	calls := 0

	got, err := p.Do(context.Background(), "call", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls, want ok after 3", got, calls)
	}
}

func TestRetryPolicy_ExhaustionReturnsLastError(t *testing.T) {
	p := RetryPolicy{MaxRetries: 1, InitialBackoff: time.Millisecond}
	wantErr := errors.New("still broken")
	calls := 0

	_, err := p.Do(context.Background(), "call", func() (string, error) {
		calls++
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (initial + 1 retry)", calls)
	}
}

func TestRetryPolicy_ContextCancellation(t *testing.T) {
	p := RetryPolicy{MaxRetries: 5, InitialBackoff: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := p.Do(ctx, "call", func() (string, error) {
			return "", errors.New("transient")
		})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not observe cancellation")
	}
}
