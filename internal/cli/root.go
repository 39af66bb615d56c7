// Package cli wires the wsgen commands.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/wsgen/internal/catalog"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/exec"
	"github.com/NielsdaWheelz/wsgen/internal/fs"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
	"github.com/NielsdaWheelz/wsgen/internal/prompt"
)

// Env holds the collaborators of a CLI invocation.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Runner exec.CommandRunner
	FS     fs.FS
	// Catalog defaults to catalog.Default().
	Catalog *catalog.Catalog
	Asker   prompt.Asker
	// Interactive allows prompting for missing answers.
	Interactive bool
	// UserConfigDir overrides ~/.config/wsgen.
	UserConfigDir string
	// Getwd resolves the default target.
	Getwd func() (string, error)
}

// Run parses arguments and executes the selected command with production
// collaborators. Returns an error if the command fails; the caller should
// print the error and exit.
func Run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &Env{
		Stdout:      stdout,
		Stderr:      stderr,
		Runner:      exec.NewRealRunner(),
		FS:          fs.NewRealFS(),
		Asker:       prompt.PtermAsker{},
		Interactive: isTerminal(os.Stdin),
		Getwd:       os.Getwd,
	}
	return Execute(ctx, env, args)
}

// Execute runs the command tree against env.
func Execute(ctx context.Context, env *Env, args []string) error {
	defer logger.Cleanup()
	root := NewRootCmd(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	if _, ok := errors.AsGenError(err); ok {
		return err
	}
	// Anything cobra reports itself is a usage problem.
	return errors.WithHint(errors.Wrap(errors.EUsage, err.Error(), err), "run 'wsgen --help' for usage")
}

// NewRootCmd builds the command tree.
func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "wsgen",
		Short: "wsgen - TypeScript workspace generator",
		Long: `wsgen generates a consistent TypeScript workspace from a few declarative choices:
runtime, layout, apps with their framework, styling, state, testing and auth,
and shared packages. The result type-checks and builds without manual fix-up.

Examples:
  wsgen init acme --answers acme.yaml     # generate from an answers file
  wsgen init acme                         # answer interactively
  wsgen sync acme --dry-run               # show what a regeneration would change
  wsgen catalog --category framework      # list the available frameworks`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			if logJSON {
				pterm.DisableStyling()
			}
			return logger.InitializeTo(env.Stderr, logJSON, verbosity)
		},
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(errors.EUsage, "invalid flags: "+err.Error(), err)
	})

	root.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
	root.PersistentFlags().Bool("log-json", false, "write logs as JSON")

	root.AddCommand(
		newGenerateCmd(env, generateInit),
		newGenerateCmd(env, generateSync),
		newCatalogCmd(env),
		newConfigCmd(env),
		newVersionCmd(env),
	)
	return root
}

func (env *Env) catalog() (*catalog.Catalog, error) {
	if env.Catalog != nil {
		return env.Catalog, nil
	}
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	env.Catalog = cat
	return cat, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
