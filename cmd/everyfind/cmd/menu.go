package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/everyfind/internal/output"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/result"
)

type menuOptions struct {
	kind string
	run  int
}

func newMenuCmd() *cobra.Command {
	opts := menuOptions{run: -1}

	cmd := &cobra.Command{
		Use:   "menu <path>",
		Short: "List or run the context menu actions for a path",
		Long: `List the context menu a host shows for a file or folder: the built-in
reveal and editor entries, your custom commands, copy entries and delete.

Pass --run N to execute entry N.`,
		Example: `  everyfind menu ~/notes/todo.txt
  everyfind menu ~/notes/todo.txt --run 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "file or folder (default: detected from the filesystem)")
	cmd.Flags().IntVar(&opts.run, "run", -1, "Run the entry with this index")

	return cmd
}

func runMenu(cmd *cobra.Command, path string, opts menuOptions) error {
	kind, err := menuKind(path, opts.kind)
	if err != nil {
		return err
	}

	p, err := newPlugin(printNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer p.Close()

	items := p.LoadContextMenus(result.ForPath(path, kind))
	out := output.New(cmd.OutOrStdout())

	if opts.run < 0 {
		out.MenuItems(items)
		return nil
	}
	if opts.run >= len(items) {
		return fmt.Errorf("no action %d: %d actions available", opts.run, len(items))
	}

	item := items[opts.run]
	p.Execute(cmd.Context(), item.Action)
	out.Statusf("", "%s: done", item.Title)
	return nil
}

// menuKind parses an explicit kind, or detects it from the filesystem. A
// path that cannot be stat'ed is treated as a file, as the index may
// describe another machine.
func menuKind(path, explicit string) (provider.Kind, error) {
	if explicit != "" {
		return provider.ParseKind(explicit)
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return provider.KindFolder, nil
	}
	return provider.KindFile, nil
}
