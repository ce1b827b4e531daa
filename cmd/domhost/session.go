package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/wippyai/wasm-dom-bridge/dom"
	"github.com/wippyai/wasm-dom-bridge/host"
	"github.com/wippyai/wasm-dom-bridge/platform"
)

var mountFlags = []cli.Flag{
	&cli.PathFlag{
		Name:        "page",
		Usage:       "mount into the HTML document at `path`",
		DefaultText: "built-in shell",
	},
	&cli.StringFlag{
		Name:  "mount",
		Usage: "CSS `selector` of the mount root",
		Value: "#app",
	},
	&cli.StringFlag{
		Name:  "title",
		Usage: "document `title` of the built-in shell",
		Value: "domhost",
	},
	&cli.UintFlag{
		Name:  "memory-limit",
		Usage: "cap guest memory at `pages` of 64KB",
	},
}

// session is one guest mounted into one document.
type session struct {
	host   *host.Host
	mount  *host.Mount
	doc    *dom.Document
	logger *zap.Logger
	wasm   string
}

func openSession(c *cli.Context) (*session, error) {
	if c.Args().Len() != 1 {
		return nil, cli.Exit("expected exactly one guest .wasm argument", 2)
	}
	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}

	path := c.Args().First()
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := loadPage(c.Context, c.Path("page"), c.String("title"), logger)
	if err != nil {
		return nil, err
	}

	h, err := host.New(c.Context, host.Config{
		Logger:           logger,
		Stdout:           c.App.ErrWriter,
		Stderr:           c.App.ErrWriter,
		MemoryLimitPages: uint32(c.Uint("memory-limit")),
	})
	if err != nil {
		return nil, err
	}

	m, err := h.Mount(c.Context, wasm, platform.Config{
		Document: doc,
		Selector: c.String("mount"),
		Logger:   logger,
	})
	if err != nil {
		return nil, multierr.Append(err, h.Close(c.Context))
	}

	return &session{host: h, mount: m, doc: doc, logger: logger, wasm: path}, nil
}

func (s *session) Close(ctx context.Context) error {
	err := s.host.Close(ctx)
	_ = s.logger.Sync()
	return err
}

// click dispatches a click on target and runs any pending render.
func (s *session) click(ctx context.Context, target *html.Node) error {
	if err := s.mount.Platform.DispatchEvent(ctx, target, "click", ""); err != nil {
		return err
	}
	return s.mount.Platform.Flush(ctx)
}

// targets lists elements under the mount root that carry an event id.
func (s *session) targets() []*html.Node {
	root, err := s.mount.Platform.Root()
	if err != nil {
		return nil
	}
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for _, child := range dom.ElementChildren(n) {
			if s.doc.HasEventID(child) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

// markup renders the mount root.
func (s *session) markup() (string, error) {
	root, err := s.mount.Platform.Root()
	if err != nil {
		return "", err
	}
	return dom.OuterHTML(root)
}
