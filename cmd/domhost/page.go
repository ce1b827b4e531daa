package main

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-dom-bridge/dom"
)

// pageShell is the default document a guest mounts into.
func pageShell(title, mountID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</title></head><body><div id=\""); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(mountID)); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\"></div></body></html>")
		return err
	})
}

// loadPage parses path, or the default shell when path is empty.
func loadPage(ctx context.Context, path, title string, logger *zap.Logger) (*dom.Document, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dom.Parse(f, logger)
	}

	var buf bytes.Buffer
	if err := pageShell(title, "app").Render(ctx, &buf); err != nil {
		return nil, err
	}
	return dom.Parse(&buf, logger)
}
