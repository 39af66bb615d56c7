// Package adapter implements the package-manager collaborators: each emits
// the workspace-membership manifest for its runtime and runs the
// post-generation install.
package adapter

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/NielsdaWheelz/wsgen/internal/choices"
	"github.com/NielsdaWheelz/wsgen/internal/errors"
	"github.com/NielsdaWheelz/wsgen/internal/exec"
	"github.com/NielsdaWheelz/wsgen/internal/graph"
	"github.com/NielsdaWheelz/wsgen/internal/logger"
)

// Manifest is a generated workspace-membership file.
type Manifest struct {
	Path    string // target-relative
	Content []byte
}

// RootMeta is the root package metadata some manifests embed.
type RootMeta struct {
	Name            string
	Scripts         map[string]string
	Dependencies    map[string]string
	DevDependencies map[string]string
}

// ExitStatus is the outcome of an install run.
type ExitStatus struct {
	Command  string
	ExitCode int
	Stderr   string
}

// Adapter is the package-manager collaborator of one runtime.
type Adapter interface {
	// Name is the package manager binary, e.g. "pnpm".
	Name() string
	// EmitWorkspaceManifest lists every node path of g exactly once, in
	// insertion order.
	EmitWorkspaceManifest(g *graph.Graph, root RootMeta) (Manifest, error)
	// Install runs the install command in root.
	Install(ctx context.Context, root string) (ExitStatus, error)
}

// Options configures an adapter.
type Options struct {
	// Command overrides the install command line, e.g. "pnpm install --frozen-lockfile".
	Command string
	Runner  exec.CommandRunner
	Stdout  io.Writer
	Stderr  io.Writer
}

// DefaultCommands are the install command lines per runtime.
var DefaultCommands = map[choices.Runtime]string{
	choices.RuntimeNode: "pnpm install",
	choices.RuntimeBun:  "bun install",
	choices.RuntimeDeno: "deno install",
}

// For returns the adapter of a runtime.
func For(rt choices.Runtime, opts Options) (Adapter, error) {
	if opts.Command == "" {
		opts.Command = DefaultCommands[rt]
	}
	if opts.Runner == nil {
		opts.Runner = exec.NewRealRunner()
	}
	inst := installer{opts: opts}
	switch rt {
	case choices.RuntimeNode:
		return &pnpm{inst}, nil
	case choices.RuntimeBun:
		return &bun{inst}, nil
	case choices.RuntimeDeno:
		return &deno{inst}, nil
	default:
		return nil, errors.NewWithDetails(errors.EUsage, "unsupported runtime",
			map[string]string{"runtime": string(rt)})
	}
}

// members returns the node paths of g in insertion order.
func members(g *graph.Graph) ([]string, error) {
	if g.Standalone() {
		return nil, errors.New(errors.EInternal, "standalone projects have no workspace manifest")
	}
	seen := make(map[string]bool, g.Len())
	out := make([]string, 0, g.Len())
	for _, n := range g.Nodes() {
		if seen[n.Path] {
			return nil, errors.NewWithDetails(errors.EInternal, "two nodes share a path",
				map[string]string{"path": n.Path})
		}
		seen[n.Path] = true
		out = append(out, n.Path)
	}
	return out, nil
}

type installer struct {
	opts Options
}

func (i installer) Install(ctx context.Context, root string) (ExitStatus, error) {
	log := logger.Named("adapter")
	args, err := shellquote.Split(i.opts.Command)
	if err != nil || len(args) == 0 {
		return ExitStatus{Command: i.opts.Command}, errors.WrapWithDetails(errors.EAdapterFailed,
			"invalid install command", err, map[string]string{"command": i.opts.Command})
	}
	status := ExitStatus{Command: i.opts.Command}
	log.Infow("running install", "command", i.opts.Command, "dir", root)

	res, err := i.opts.Runner.Run(ctx, args[0], args[1:], exec.RunOpts{
		Dir:    root,
		Stdout: i.opts.Stdout,
		Stderr: i.opts.Stderr,
	})
	status.ExitCode = res.ExitCode
	status.Stderr = strings.TrimSpace(res.Stderr)
	if err != nil {
		if ctx.Err() != nil {
			return status, errors.Wrap(errors.ECanceled, "install canceled", err)
		}
		return status, errors.WithHint(
			errors.WrapWithDetails(errors.EAdapterFailed, "failed to start install", err,
				map[string]string{"command": i.opts.Command}),
			"install "+args[0]+" or re-run with --no-install")
	}
	if res.ExitCode != 0 {
		return status, errors.NewWithDetails(errors.EAdapterFailed, "install exited non-zero",
			map[string]string{"command": i.opts.Command, "exit_code": strconv.Itoa(res.ExitCode), "stderr": lastLine(status.Stderr)})
	}
	log.Infow("install finished", "command", i.opts.Command)
	return status, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
