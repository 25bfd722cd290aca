package main

import (
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-renderkit/internal/console"
	"github.com/goliatone/go-renderkit/pkg/orchestrator"
)

// renderFlags carries the shared flag values for the root render command and
// the context inspection subcommand.
type renderFlags struct {
	template          string
	directory         string
	noProjectConfig   bool
	globalConfigs     []string
	namespacedConfigs []string
	repoRoot          string
	setVars           []string
	scope             string
	quiet             bool
	yes               bool
}

func newRootCommand() *cobra.Command {
	flags := &renderFlags{}

	rootCmd := &cobra.Command{
		Use:           "renderkit",
		Short:         "Render templates from layered variable sources",
		Long:          "renderkit composes text artifacts from layered YAML/TOML variable sources\nand pongo2 templates, expanding @ includes, file:// includes, ! commands,\nand $ nested templates.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.template, "template", "t", "", "Single template file to render to stdout")
	pf.StringVarP(&flags.directory, "directory", "d", "", "Project root directory (default: working directory)")
	pf.BoolVar(&flags.noProjectConfig, "no-project-config", false, "Skip the project's config.yaml and configs/ sources")
	pf.StringArrayVarP(&flags.globalConfigs, "global-config", "g", nil, "Global override source file (repeatable)")
	pf.StringArrayVarP(&flags.namespacedConfigs, "config", "c", nil, "Namespaced override source file (repeatable)")
	pf.StringVarP(&flags.repoRoot, "repo-root", "r", "", "Repo root for @ includes, overriding any configured value")
	pf.StringArrayVar(&flags.setVars, "set", nil, "KEY=VALUE assignment with highest precedence (repeatable)")
	pf.StringVarP(&flags.scope, "scope", "s", "", "Namespace promoted to the top level in single/stdin modes")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress progress output (errors and results still print)")
	pf.BoolVarP(&flags.yes, "yes", "y", false, "Run ! commands without interactive confirmation")

	rootCmd.AddCommand(newContextCommand(flags))

	return rootCmd
}

func runRender(cmd *cobra.Command, flags *renderFlags) error {
	req := flags.request()

	if stdinPiped() {
		if flags.template != "" {
			return errors.New("cannot read a template from stdin and --template at once")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		req.StdinTemplate = string(data)
	}

	return newOrchestrator(flags).Run(cmd.Context(), req)
}

func (f *renderFlags) request() orchestrator.Request {
	return orchestrator.Request{
		Template:          f.template,
		Project:           f.directory,
		NoProjectConfig:   f.noProjectConfig,
		GlobalConfigs:     f.globalConfigs,
		NamespacedConfigs: f.namespacedConfigs,
		RepoRoot:          f.repoRoot,
		Assignments:       f.setVars,
		Scope:             f.scope,
	}
}

func newOrchestrator(flags *renderFlags) *orchestrator.Orchestrator {
	options := []orchestrator.Option{
		orchestrator.WithConsole(console.New(os.Stderr, flags.quiet)),
	}
	if !flags.yes && stdinTerminal() {
		options = append(options, orchestrator.WithCommandConfirm(confirmCommand))
	}
	return orchestrator.New(options...)
}

func stdinTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stdinPiped() bool {
	return !stdinTerminal()
}
