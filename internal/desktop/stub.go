//go:build !webview

// Package desktop opens the prediction form in a native window.
package desktop

import (
	"context"
	"errors"
)

// Available reports whether this build can open native windows
const Available = false

// ErrUnavailable is returned when the binary was built without webview support
var ErrUnavailable = errors.New("desktop window not available: rebuild with -tags webview")

// Open is a stub that always fails in builds without webview support
func Open(ctx context.Context, url, title string) error {
	return ErrUnavailable
}
