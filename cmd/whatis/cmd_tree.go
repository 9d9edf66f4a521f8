package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/whatis/format"
	"github.com/dhamidi/whatis/java/mapper"
	"github.com/dhamidi/whatis/java/parser"
	"github.com/dhamidi/whatis/java/tree"
)

func newTreeCmd() *cobra.Command {
	var cst bool

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the model tree of a Java source file with node ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			if cst {
				p := parser.New(data)
				return format.NewCSTEncoder(cmd.OutOrStdout()).Encode(p.CompilationUnit())
			}
			m := mapper.New()
			unit, err := m.Parse(data)
			if err != nil {
				return fmt.Errorf("map %s: %w", args[0], err)
			}
			if err := tree.Fprint(cmd.OutOrStdout(), unit); err != nil {
				return err
			}
			for _, n := range m.SyntaxErrors() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s: %s\n", args[0], n.Span.Start, n.Error.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cst, "cst", false, "print the concrete syntax tree as JSON instead")

	return cmd
}
