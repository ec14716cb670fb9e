//go:build !webview

package desktop

import (
	"context"
	"errors"
	"testing"
)

func TestOpenUnavailable(t *testing.T) {
	if Available {
		t.Fatal("Expected stub build to report unavailable")
	}
	if err := Open(context.Background(), "http://localhost:10000/gradio", "test"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}
