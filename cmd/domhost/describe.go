package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/urfave/cli/v2"

	"github.com/wippyai/wasm-dom-bridge/abi"
)

func describeCommand() *cli.Command {
	return &cli.Command{
		Name:      "describe",
		Usage:     "print the bridge interfaces, and check a guest against them",
		ArgsUsage: "[guest.wasm]",
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			printInterface(w, "imports", &abi.Host)
			printInterface(w, "exports", &abi.Render)

			if c.Args().Len() == 0 {
				return nil
			}
			return checkGuest(c, c.Args().First())
		},
	}
}

func printInterface(w io.Writer, kind string, iface *abi.Interface) {
	fmt.Fprintf(w, "%s %s\n", kind, iface.Name)
	for _, f := range iface.Funcs {
		fmt.Fprintf(w, "  %-70s %s\n", f.String(), f.CoreString())
	}
	fmt.Fprintln(w)
}

// checkGuest compiles the module and reports which bridge functions it
// imports and exports.
func checkGuest(c *cli.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rt := wazero.NewRuntime(c.Context)
	defer rt.Close(c.Context)

	compiled, err := rt.CompileModule(c.Context, data)
	if err != nil {
		return err
	}
	defer compiled.Close(c.Context)

	w := c.App.Writer
	fmt.Fprintf(w, "guest %s\n", path)

	var imported []string
	for _, def := range compiled.ImportedFunctions() {
		mod, name, _ := def.Import()
		if mod == abi.HostModule {
			imported = append(imported, name)
		}
	}
	sort.Strings(imported)
	fmt.Fprintf(w, "  uses %d of %d host imports\n", len(imported), len(abi.Host.Funcs))
	for _, name := range imported {
		fmt.Fprintf(w, "    %s\n", name)
	}

	exports := compiled.ExportedFunctions()
	missing := 0
	required := []string{abi.CabiRealloc}
	for _, f := range abi.Render.Funcs {
		required = append(required, abi.ExportName(abi.RenderModule, f.Name))
	}
	for _, name := range required {
		if _, ok := exports[name]; !ok {
			fmt.Fprintf(w, "  missing export %s\n", name)
			missing++
		}
	}
	if len(compiled.ExportedMemories()) == 0 {
		fmt.Fprintln(w, "  missing export memory")
		missing++
	}
	if missing > 0 {
		return cli.Exit(fmt.Sprintf("%d required exports missing", missing), 1)
	}
	fmt.Fprintln(w, "  ok")
	return nil
}
