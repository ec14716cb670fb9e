//go:build webview

// Package desktop opens the prediction form in a native window.
package desktop

import (
	"context"

	webview "github.com/webview/webview_go"
)

// Available reports whether this build can open native windows
const Available = true

// Open shows url in a native window and blocks until the window is closed
// or ctx is cancelled.
func Open(ctx context.Context, url, title string) error {
	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle(title)
	w.SetSize(900, 800, webview.HintNone)
	w.Navigate(url)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			w.Dispatch(w.Terminate)
		case <-done:
		}
	}()

	// Run blocks until the window is closed
	w.Run()
	return nil
}
