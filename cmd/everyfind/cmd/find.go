package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/everyfind/internal/ui"
)

func newFindCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "find [query...]",
		Short: "Interactive finder",
		Long: `Open the interactive finder. Results update on every keystroke.

Keys:
  ↑/↓    select
  enter  open the selected result (or run the selected action)
  tab    show the context menu of the selected result
  esc    close the menu, or quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.Interactive(os.Stdin, os.Stdout) {
				return fmt.Errorf("find needs a terminal; use 'everyfind query' in scripts")
			}
			if noColor {
				_ = os.Setenv("NO_COLOR", "1")
			}
			return runFind(cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")
	return cmd
}

func runFind(cmd *cobra.Command, initial string) error {
	p, err := newPlugin(nil)
	if err != nil {
		return err
	}
	defer p.Close()

	cfg := ui.NewConfig(os.Stdout,
		ui.WithInitialQuery(initial),
		ui.WithNoColor(ui.DetectNoColor()))
	return ui.Run(cmd.Context(), p, cfg)
}
