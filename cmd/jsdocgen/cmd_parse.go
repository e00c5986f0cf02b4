package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jsdocgen/compiler"
	"github.com/dhamidi/jsdocgen/format"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file.js>",
		Short: "Compile a JavaScript file and dump the generated classes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			enc, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result, err := compiler.New(cfg).CompileFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, class := range result.Classes {
				if err := enc.Encode(class); err != nil {
					return err
				}
			}
			printDiagnostics(cmd.ErrOrStderr(), result.Diagnostics)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json",
		"output format ("+strings.Join(format.Names(), ", ")+")")

	return cmd
}
