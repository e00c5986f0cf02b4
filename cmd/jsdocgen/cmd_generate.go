package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jsdocgen/codebase"
	"github.com/dhamidi/jsdocgen/compiler"
	"github.com/dhamidi/jsdocgen/config"
)

func newGenerateCmd() *cobra.Command {
	var outDir string
	var outputFormat string
	var jobs int
	var watch bool

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate Java declarations for JavaScript files",
		Long: `Generate JsInterop Java declarations for JavaScript files.

Directories are searched for .js files. All files are compiled together,
so a class may be extended or completed in another file. One file is
written per top-level class, at <out>/<package path>/<Class>.java.

With --watch, a single directory is polled for changes and the output is
regenerated until the command is interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.Output.Dir = outDir
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = outputFormat
			}
			if cmd.Flags().Changed("jobs") {
				cfg.Jobs = jobs
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			if watch {
				return runWatch(cmd, cfg, args)
			}
			return runGenerate(cmd, cfg, args)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "out", "output directory")
	cmd.Flags().StringVar(&outputFormat, "format", "java", "output format (java, json, line)")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "files scanned concurrently (0 means one per CPU)")
	cmd.Flags().BoolVar(&watch, "watch", false, "regenerate when files change")

	return cmd
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, paths []string) error {
	result, err := compiler.New(cfg).CompileFiles(cmd.Context(), paths)
	if err != nil {
		return err
	}
	return writeResult(cmd, cfg, result)
}

func writeResult(cmd *cobra.Command, cfg *config.Config, result *compiler.Result) error {
	printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics)
	written, err := compiler.WriteFiles(cfg.Output.Dir, cfg.Output.Format, result.Classes)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s\n", len(written), cfg.Output.Dir)
	if result.Diagnostics.HasErrors() {
		return errors.New("generation finished with errors")
	}
	return nil
}

func runWatch(cmd *cobra.Command, cfg *config.Config, paths []string) error {
	if len(paths) != 1 {
		return errors.WithHint(errors.New("--watch takes a single directory"),
			"pass the root directory of the sources")
	}
	if info, err := os.Stat(paths[0]); err != nil || !info.IsDir() {
		return errors.Newf("--watch: %s is not a directory", paths[0])
	}

	cb := codebase.New(paths[0], cfg)
	watcher := codebase.NewFileWatcher(cb, func() {
		if err := writeResult(cmd, cfg, cb.Result()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		}
	})
	watcher.Start()
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", paths[0])

	<-cmd.Context().Done()
	watcher.Stop()
	return nil
}
