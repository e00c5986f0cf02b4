package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jsdocgen/compiler"
	"github.com/dhamidi/jsdocgen/java"
	"github.com/dhamidi/jsdocgen/jstype"
	"github.com/dhamidi/jsdocgen/model"
)

var positions = map[string]java.Position{
	"field":  java.PositionField,
	"param":  java.PositionParam,
	"return": java.PositionReturn,
}

func newTypeCmd() *cobra.Command {
	var position string
	var sources []string

	cmd := &cobra.Command{
		Use:   "type <expression>",
		Short: "Print the parse tree of a type expression and its Java type",
		Example: `  jsdocgen type '?Array.<string>|number'
  jsdocgen type --position return --sources src 'app.Shape'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			pos, ok := positions[position]
			if !ok {
				return errors.WithHint(errors.Newf("unknown position %q", position),
					"use field, param or return")
			}

			expr, err := jstype.Parse(args[0])
			if err != nil {
				return errors.Wrapf(err, "parsing %q", args[0])
			}

			var resolver java.Resolver = model.NewSymbolTable()
			if len(sources) > 0 {
				result, err := compiler.New(cfg).CompileFiles(cmd.Context(), sources)
				if err != nil {
					return err
				}
				resolver = result.Model.Symbols
			}

			out := cmd.OutOrStdout()
			printTree(out, expr, 0)
			tm := java.NewTypeMapper(resolver, cfg.MapperOptions()...)
			fmt.Fprintf(out, "java: %s\n", tm.Map(expr, pos))
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", "param", "where the type occurs (field, param, return)")
	cmd.Flags().StringSliceVarP(&sources, "sources", "s", nil, "JavaScript files or directories to resolve names against")

	return cmd
}

// printTree writes e as an indented tree, one node per line.
func printTree(w io.Writer, e jstype.Expr, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t := e.(type) {
	case jstype.Named:
		fmt.Fprintf(w, "%sNamed %s\n", indent, t.Name)
		for _, arg := range t.Args {
			printTree(w, arg, depth+1)
		}
	case jstype.Union:
		fmt.Fprintf(w, "%sUnion\n", indent)
		for _, m := range t.Members {
			printTree(w, m, depth+1)
		}
	case jstype.Nullable:
		if t.Implicit {
			fmt.Fprintf(w, "%sNullable (implicit)\n", indent)
		} else {
			fmt.Fprintf(w, "%sNullable\n", indent)
		}
		printTree(w, t.Inner, depth+1)
	case jstype.NonNullable:
		fmt.Fprintf(w, "%sNonNullable\n", indent)
		printTree(w, t.Inner, depth+1)
	case jstype.Optional:
		fmt.Fprintf(w, "%sOptional\n", indent)
		printTree(w, t.Inner, depth+1)
	case jstype.Variadic:
		fmt.Fprintf(w, "%sVariadic\n", indent)
		printTree(w, t.Inner, depth+1)
	case jstype.Function:
		if t.New {
			fmt.Fprintf(w, "%sFunction (new)\n", indent)
		} else {
			fmt.Fprintf(w, "%sFunction\n", indent)
		}
		if t.This != nil {
			fmt.Fprintf(w, "%s  this:\n", indent)
			printTree(w, t.This, depth+2)
		}
		for _, p := range t.Params {
			printTree(w, p, depth+1)
		}
		if t.Return != nil {
			fmt.Fprintf(w, "%s  return:\n", indent)
			printTree(w, t.Return, depth+2)
		}
	case jstype.Record:
		fmt.Fprintf(w, "%sRecord\n", indent)
		for _, f := range t.Fields {
			fmt.Fprintf(w, "%s  %s:\n", indent, f.Name)
			printTree(w, f.Type, depth+2)
		}
	case jstype.Unknown:
		fmt.Fprintf(w, "%sUnknown\n", indent)
	default:
		fmt.Fprintf(w, "%s%s\n", indent, e)
	}
}
