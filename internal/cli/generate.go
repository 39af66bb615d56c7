package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/config"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
	"github.com/NielsdaWheelz/wsgen/internal/pipeline"
	"github.com/NielsdaWheelz/wsgen/internal/prompt"
	"github.com/NielsdaWheelz/wsgen/internal/render"
	"github.com/NielsdaWheelz/wsgen/internal/runservice"
	"github.com/NielsdaWheelz/wsgen/internal/watch"
)

type generateKind struct {
	command pipeline.Command
	short   string
	long    string
}

var (
	generateInit = generateKind{
		command: pipeline.CommandInit,
		short:   "Generate a new workspace",
		long: `Generate a new workspace in target (default: the current directory).

Choices come from --answers, the --name/--layout/--runtime flags and, for
anything still missing, interactive prompts. --yes disables prompting; any
missing answer is then an error.

Exit codes: 0 success, 1 invalid choices or graph, 2 conflicts or write
errors, 3 install, lock or IO failure.`,
	}
	generateSync = generateKind{
		command: pipeline.CommandSync,
		short:   "Regenerate an existing workspace",
		long: `Regenerate a workspace created by 'wsgen init'.

The recorded choices are replayed unless --answers or flags change them.
Files edited by hand since the last run are reported as conflicts and left
untouched. With --watch, sync re-runs whenever the answers file or the
target's .wsgen.toml changes.`,
	}
)

type generateFlags struct {
	name        string
	layout      string
	runtime     string
	answers     string
	dryRun      bool
	yes         bool
	json        bool
	noInstall   bool
	git         bool
	watch       bool
	saveAnswers string
	all         bool
	tree        bool
}

func newGenerateCmd(env *Env, kind generateKind) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   string(kind.command) + " [target]",
		Short: kind.short,
		Long:  kind.long,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, env, kind.command, &f, args)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "project name")
	fl.StringVar(&f.layout, "layout", "", "standalone or monorepo")
	fl.StringVar(&f.runtime, "runtime", "", "node, bun or deno")
	fl.StringVar(&f.answers, "answers", "", "answers file (.yaml, .toml or .json)")
	fl.BoolVar(&f.dryRun, "dry-run", false, "report what would change without writing")
	fl.BoolVar(&f.yes, "yes", false, "never prompt; missing answers are an error")
	fl.BoolVar(&f.json, "json", false, "print the result as JSON")
	fl.BoolVar(&f.noInstall, "no-install", false, "skip the package manager install")
	fl.BoolVar(&f.all, "all", false, "list unchanged files too")
	fl.BoolVar(&f.tree, "tree", false, "print the workspace graph")
	fl.Int("parallel", 0, "nodes written concurrently (default from config)")
	fl.String("state-dir", "", "generator state directory inside the target (default from config)")
	if kind.command == pipeline.CommandInit {
		fl.BoolVar(&f.git, "git", false, "create a git repository in the target")
		fl.StringVar(&f.saveAnswers, "save-answers", "", "save the settled choices to this file")
	} else {
		fl.BoolVar(&f.watch, "watch", false, "re-run when the answers file or .wsgen.toml changes")
	}
	return cmd
}

func runGenerate(cmd *cobra.Command, env *Env, command pipeline.Command, f *generateFlags, args []string) error {
	ctx := cmd.Context()
	target, err := resolveTarget(env, args)
	if err != nil {
		return err
	}
	if f.answers != "" {
		if f.answers, err = filepath.Abs(f.answers); err != nil {
			return errors.Wrap(errors.EUsage, "invalid answers path", err)
		}
	}

	once := func(ctx context.Context) error {
		return generateOnce(ctx, cmd, env, command, f, target)
	}
	err = once(ctx)
	if !f.watch {
		return err
	}
	if err != nil {
		errors.Print(env.Stderr, err)
	}

	files := []string{filepath.Join(target, config.TargetFileName)}
	if f.answers != "" {
		files = append(files, f.answers)
	}
	w, werr := watch.New(files, 0)
	if werr != nil {
		return werr
	}
	fmt.Fprintf(env.Stderr, "watching %s (ctrl-c to stop)\n", strings.Join(files, ", "))
	return w.Run(ctx, func(ctx context.Context, _ string) error {
		err := once(ctx)
		if err != nil {
			errors.Print(env.Stderr, err)
		}
		return err
	})
}

func generateOnce(ctx context.Context, cmd *cobra.Command, env *Env, command pipeline.Command, f *generateFlags, target string) error {
	cfg, err := config.Load(config.Options{UserDir: env.UserConfigDir, Target: target, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	if cfg.Log.JSON {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.InitializeTo(env.Stderr, true, verbosity); err != nil {
			return err
		}
	}
	cat, err := env.catalog()
	if err != nil {
		return err
	}

	svc := runservice.NewWithDeps(env.Runner, env.FS, cat)
	svc.SetInstallOutput(env.Stderr)

	commands := make(map[choices.Runtime]string, len(choices.Runtimes))
	for _, rt := range choices.Runtimes {
		commands[rt] = cfg.InstallCommand(rt)
	}
	opts := pipeline.Options{
		Command:         command,
		Target:          target,
		Choose:          chooser(env, f, target),
		DryRun:          f.dryRun,
		NoInstall:       f.noInstall || !cfg.Install.Enabled,
		Git:             f.git,
		Parallelism:     cfg.Parallelism,
		StateDir:        cfg.StateDir,
		InstallCommands: commands,
		LockStaleAfter:  cfg.Lock.StaleAfter,
	}

	st, runErr := pipeline.NewPipeline(svc).Run(ctx, opts)

	if f.saveAnswers != "" && st.Graph != nil && !f.dryRun {
		if err := choices.SaveAnswers(env.FS, f.saveAnswers, st.Choices); err != nil && runErr == nil {
			runErr = err
		}
	}

	res := render.NewRunResult(st, runErr)
	if f.json {
		if err := render.WriteRunJSON(env.Stdout, res); err != nil {
			return errors.Wrap(errors.EIO, "failed to write output", err)
		}
		return runErr
	}
	if f.tree && st.Graph != nil {
		if err := render.WriteGraphTree(env.Stdout, st.Graph); err != nil {
			return errors.Wrap(errors.EIO, "failed to write output", err)
		}
	}
	if st.Report != nil {
		if err := render.WriteReportHuman(env.Stdout, res, render.ReportOptions{All: f.all}); err != nil {
			return errors.Wrap(errors.EIO, "failed to write output", err)
		}
	}
	return runErr
}

// chooser settles the ChoiceSet of a run. Precedence, lowest first: the
// recorded choices (sync), the answers file, the flags, the prompts.
func chooser(env *Env, f *generateFlags, target string) pipeline.ChooseFunc {
	return func(recorded *choices.ChoiceSet) (choices.ChoiceSet, error) {
		var cs choices.ChoiceSet
		switch {
		case f.answers != "":
			loaded, err := choices.LoadAnswers(env.FS, f.answers)
			if err != nil {
				return cs, err
			}
			cs = loaded
		case recorded != nil:
			cs = recorded.Clone()
		}
		if f.name != "" {
			cs.ProjectName = f.name
		}
		if f.layout != "" {
			cs.Layout = choices.Layout(f.layout)
		}
		if f.runtime != "" {
			cs.Runtime = choices.Runtime(f.runtime)
		}

		missing := cs.Missing()
		if len(missing) == 0 {
			return cs, nil
		}
		if f.yes || f.json || !env.Interactive || env.Asker == nil {
			return cs, errors.WithHint(
				errors.NewWithDetails(errors.EInvalidChoices, "missing answers",
					map[string]string{"missing": strings.Join(missing, ",")}),
				"supply them with --answers or flags, or run in a terminal without --yes")
		}
		cat, err := env.catalog()
		if err != nil {
			return cs, err
		}
		filler := &prompt.Filler{Ask: env.Asker, Catalog: cat, DefaultName: filepath.Base(target)}
		return filler.Fill(cs)
	}
}

func resolveTarget(env *Env, args []string) (string, error) {
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return "", errors.Wrap(errors.EUsage, "invalid target path", err)
		}
		return abs, nil
	}
	wd, err := env.Getwd()
	if err != nil {
		return "", errors.Wrap(errors.EIO, "failed to get working directory", err)
	}
	return wd, nil
}
