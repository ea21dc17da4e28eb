package plantapi

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"
)

func sendFailure(msg string) error {
	return &requestError{err: errors.New(msg), attempted: true}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()

	if !policy.ShouldRetry(sendFailure("dial tcp: connection refused"), 1) {
		t.Error("expected connection error to be retryable")
	}
	dial := &requestError{err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route to host")}, attempted: true}
	if !policy.ShouldRetry(dial, 1) {
		t.Error("expected dial error to be retryable")
	}
	refused := &requestError{err: &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNREFUSED}, attempted: true}
	if !policy.ShouldRetry(refused, 1) {
		t.Error("expected ECONNREFUSED to be retryable")
	}
	if policy.ShouldRetry(sendFailure("connection refused"), 3) {
		t.Error("should not retry after max attempts")
	}

	for attempt, want := range map[int]time.Duration{
		1:  500 * time.Millisecond,
		2:  time.Second,
		3:  2 * time.Second,
		10: 5 * time.Second,
	} {
		if got := policy.NextDelay(attempt); got != want {
			t.Errorf("attempt %d: expected %v, got %v", attempt, want, got)
		}
	}
}

func TestRetryPolicyNonRetryable(t *testing.T) {
	policy := DefaultRetryPolicy()

	cases := map[string]error{
		"nil":             nil,
		"server answered": &APIError{Status: 503},
		"plain error":     errors.New("connection refused"),
		"request build":   &requestError{err: errors.New("bad url")},
		"unknown send":    sendFailure("tls: bad certificate"),
		"canceled":        &requestError{err: context.Canceled, attempted: true},
		"deadline":        &requestError{err: context.DeadlineExceeded, attempted: true},
		"timeout text":    sendFailure("Client.Timeout exceeded while awaiting headers"),
		"reset text":      sendFailure("connection reset by peer"),
		"reset":           &requestError{err: &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, attempted: true},
		"dial timeout":    &requestError{err: &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}}, attempted: true},
	}
	for name, err := range cases {
		if policy.ShouldRetry(err, 1) {
			t.Errorf("%s: expected non-retryable", name)
		}
	}
}

func TestRetryPolicyExecute(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 1, MaxDelay: time.Millisecond}

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return sendFailure("temporary failure in name resolution")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryPolicyExecuteExhausted(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 2, InitialDelay: time.Millisecond, Multiplier: 1, MaxDelay: time.Millisecond}

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		return sendFailure("dial tcp 127.0.0.1:8585: connect: connection refused")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetryPolicyExecutePermanent(t *testing.T) {
	policy := DefaultRetryPolicy()

	calls := 0
	err := policy.Execute(context.Background(), func() error {
		calls++
		return &APIError{Status: 500, Message: "boom"}
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryPolicyExecuteContextDone(t *testing.T) {
	policy := &RetryPolicy{MaxAttempts: 5, InitialDelay: time.Hour, Multiplier: 1, MaxDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := policy.Execute(ctx, func() error {
		calls++
		return sendFailure("connection refused")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
