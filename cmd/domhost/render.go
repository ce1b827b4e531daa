package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "mount a guest, apply clicks and print the resulting HTML",
		ArgsUsage: "<guest.wasm>",
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:  "click",
				Usage: "click the first element matching `selector`; repeatable",
			},
			&cli.BoolFlag{
				Name:  "fragment",
				Usage: "print only the mount root instead of the whole document",
			},
		}, mountFlags...),
		Action: func(c *cli.Context) error {
			s, err := openSession(c)
			if err != nil {
				return err
			}
			defer s.Close(c.Context)

			for _, sel := range c.StringSlice("click") {
				target, err := s.doc.Query(sel)
				if err != nil {
					return err
				}
				if err := s.click(c.Context, target); err != nil {
					return err
				}
				s.logger.Debug("clicked", zap.String("selector", sel))
			}

			if c.Bool("fragment") {
				out, err := s.markup()
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, out)
				return nil
			}
			if err := s.doc.Render(c.App.Writer); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer)
			return nil
		},
	}
}
