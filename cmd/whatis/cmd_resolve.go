package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/whatis/java/classpath"
	"github.com/dhamidi/whatis/java/codebase"
	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/resolve"
)

func newResolveCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <file> <offset|line:column>",
		Short: "Print the symbol at a position of a Java source file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCodebase()
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if c.GetFile(path) == nil {
				if err := c.ScanFile(path); err != nil {
					return fmt.Errorf("read java file: %w", err)
				}
			}

			offset, err := parsePosition(c.GetFile(path).Content, args[1])
			if err != nil {
				return err
			}
			res, err := c.ResolveAt(path, offset)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resolutionJSON(c, res))
			}
			fmt.Fprintln(out, codebase.Describe(res))
			if loc, ok := c.Definition(res); ok {
				fmt.Fprintln(out, "declared at "+formatLocation(c, loc))
			}
			if doc := c.Doc(res); doc != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, doc)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolution as JSON")

	return cmd
}

// parsePosition accepts a byte offset or a 1-based line:column pair.
func parsePosition(content []byte, arg string) (int, error) {
	if line, column, ok := strings.Cut(arg, ":"); ok {
		l, err := strconv.Atoi(line)
		if err != nil {
			return 0, fmt.Errorf("bad line in %q: %w", arg, err)
		}
		c, err := strconv.Atoi(column)
		if err != nil {
			return 0, fmt.Errorf("bad column in %q: %w", arg, err)
		}
		return codebase.OffsetAt(content, l, c)
	}
	offset, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("bad offset %q: %w", arg, err)
	}
	if offset < 0 || offset >= len(content) {
		return 0, fmt.Errorf("offset %d: %w", offset, codebase.ErrBadPosition)
	}
	return offset, nil
}

func formatLocation(c *codebase.Codebase, loc classpath.Location) string {
	f := c.GetFile(loc.Path)
	if f == nil {
		return loc.Path
	}
	line, column := codebase.LineColumn(f.Content, loc.Range.Begin)
	return fmt.Sprintf("%s:%d:%d", loc.Path, line, column)
}

type resolution struct {
	Kind       string   `json:"kind"`
	Text       string   `json:"text"`
	Name       string   `json:"name,omitempty"`
	Descriptor string   `json:"descriptor,omitempty"`
	Owner      string   `json:"owner,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Location   string   `json:"location,omitempty"`
	Doc        string   `json:"doc,omitempty"`
}

func resolutionJSON(c *codebase.Codebase, res resolve.Resolution) resolution {
	out := resolution{Kind: kindOf(res), Text: res.String()}
	switch r := res.(type) {
	case resolve.PackageResolution:
		out.Name = r.Name
	case resolve.FieldResolution:
		out.Owner = r.Owner.Name()
	case resolve.MethodResolution:
		out.Owner = r.Owner.Name()
	case resolve.MultiClassResolution:
		for _, cls := range r.Classes {
			out.Candidates = append(out.Candidates, cls.Name())
		}
	case resolve.MultiMemberResolution:
		if r.Owner != nil {
			out.Owner = r.Owner.Name()
		}
		for _, m := range r.Members {
			out.Candidates = append(out.Candidates, entry.MemberKey(m))
		}
	}
	if d := resolve.EntryOf(res); d != nil {
		out.Descriptor = d.Descriptor()
		switch e := d.(type) {
		case *entry.ClassEntry:
			out.Name = e.Name()
		case entry.Member:
			out.Name = e.Name()
		}
	}
	if loc, ok := c.Definition(res); ok {
		out.Location = formatLocation(c, loc)
	}
	out.Doc = c.Doc(res)
	return out
}

func kindOf(res resolve.Resolution) string {
	switch res.(type) {
	case resolve.PackageResolution:
		return "package"
	case resolve.ClassResolution:
		return "class"
	case resolve.FieldResolution:
		return "field"
	case resolve.MethodResolution:
		return "method"
	case resolve.ArrayResolution:
		return "array"
	case resolve.PrimitiveResolution:
		return "primitive"
	case resolve.NullResolution:
		return "null"
	case resolve.MultiClassResolution:
		return "classes"
	case resolve.MultiMemberResolution:
		return "members"
	case resolve.ThrowingResolution:
		return "throws"
	}
	return "unknown"
}
