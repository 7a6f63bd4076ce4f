// Package ui provides the interactive terminal finder and the status view.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Config configures the finder.
type Config struct {
	Input        io.Reader
	Output       io.Writer
	NoColor      bool
	InitialQuery string
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithInitialQuery pre-fills the query field and runs it on start.
func WithInitialQuery(q string) ConfigOption {
	return func(c *Config) {
		c.InitialQuery = q
	}
}

// WithInput reads keys from r instead of stdin.
func WithInput(r io.Reader) ConfigOption {
	return func(c *Config) {
		c.Input = r
	}
}

// NewConfig creates a new Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{Output: output}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Run starts the finder and blocks until the user quits, an action dismisses
// it or ctx is done.
func Run(ctx context.Context, host Host, cfg Config) error {
	if host == nil {
		return errors.New("host is required")
	}
	if !IsTTY(cfg.Output) {
		return fmt.Errorf("output is not a TTY")
	}

	styles := GetStyles(cfg.NoColor || DetectNoColor())
	model := newFinderModel(ctx, host, styles, cfg.InitialQuery)

	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(cfg.Output),
		tea.WithAltScreen(),
	}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	_, err := tea.NewProgram(model, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}

// Interactive reports whether the finder can run: both ends are terminals
// and no CI runner is detected.
func Interactive(in, out *os.File) bool {
	return IsTTY(in) && IsTTY(out) && !DetectCI()
}
