package util

import (
	"errors"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"EAGAIN", syscall.EAGAIN, true},
		{"ETIMEDOUT", syscall.ETIMEDOUT, true},
		{"ECONNRESET", syscall.ECONNRESET, true},
		{"EIO", syscall.EIO, true},
		{"ENOENT (not retryable)", syscall.ENOENT, false},
		{"EPERM (not retryable)", syscall.EPERM, false},
		{"timeout in message", errors.New("connection timeout"), true},
		{"connection reset in message", errors.New("connection reset by peer"), true},
		{"broken pipe in message", errors.New("write: broken pipe"), true},
		{"generic error (not retryable)", errors.New("invalid argument"), false},
		{"PathError with ETIMEDOUT", &os.PathError{Op: "open", Path: "/x", Err: syscall.ETIMEDOUT}, true},
		{"PathError with ENOENT", &os.PathError{Op: "open", Path: "/x", Err: syscall.ENOENT}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.expected {
				t.Errorf("IsRetryableError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func testRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
	}
}

func TestRetryWithBackoffImmediateSuccess(t *testing.T) {
	attempts := 0
	result, err := RetryWithBackoff(testRetryConfig(), func() (int, error) {
		attempts++
		return 42, nil
	}, "test operation")

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %d, expected 42", result)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, expected 1", attempts)
	}
}

func TestRetryWithBackoffEventualSuccess(t *testing.T) {
	attempts := 0
	result, err := RetryWithBackoff(testRetryConfig(), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", syscall.ECONNRESET
		}
		return "ok", nil
	}, "flaky operation")

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if result != "ok" || attempts != 3 {
		t.Errorf("result = %q after %d attempts, expected ok after 3", result, attempts)
	}
}

func TestRetryWithBackoffNonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	_, err := RetryWithBackoff(testRetryConfig(), func() (int, error) {
		attempts++
		return 0, errors.New("invalid argument")
	}, "broken operation")

	if err == nil {
		t.Error("expected an error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, expected no retries on a non-retryable error", attempts)
	}
}

func TestRetryWithBackoffExhaustsAttempts(t *testing.T) {
	attempts := 0
	_, err := RetryWithBackoff(testRetryConfig(), func() (int, error) {
		attempts++
		return 0, syscall.ETIMEDOUT
	}, "doomed operation")

	if err == nil {
		t.Error("expected an error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, expected 3", attempts)
	}
	if !errors.Is(err, syscall.ETIMEDOUT) {
		t.Errorf("final error should wrap the last failure: %v", err)
	}
}

func TestRetryNilConfigUsesDefaults(t *testing.T) {
	result, err := RetryWithBackoff(nil, func() (bool, error) {
		return true, nil
	}, "default config")
	if err != nil || !result {
		t.Errorf("RetryWithBackoff(nil cfg) = %v, %v", result, err)
	}
}
