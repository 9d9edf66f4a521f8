package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dhamidi/whatis/java/classpath"
	"github.com/dhamidi/whatis/java/codebase"
	"github.com/dhamidi/whatis/java/mapper"
)

func newEntriesCmd() *cobra.Command {
	var withBootstrap bool

	cmd := &cobra.Command{
		Use:   "entries <path>...",
		Short: "Dump the classes and members read from class files, archives or Java sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			boot, err := classpath.Bootstrap()
			if err != nil {
				return err
			}
			pool := boot.Copy()

			loader := classpath.NewLoader()
			sources := classpath.NewSourceSet()
			for _, arg := range args {
				if err := addEntries(loader, sources, arg); err != nil {
					return err
				}
			}
			if err := loader.Link(pool); err != nil {
				log.Warningf("%s", err)
			}
			if err := sources.Build(pool); err != nil {
				log.Warningf("%s", err)
			}

			classes := pool.Classes()
			sort.Slice(classes, func(i, j int) bool { return classes[i].Name() < classes[j].Name() })
			out := cmd.OutOrStdout()
			for _, cls := range classes {
				if !withBootstrap && boot.Class(cls.Name()) == cls {
					continue
				}
				fmt.Fprintln(out, codebase.DescribeClass(cls))
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withBootstrap, "bootstrap", false, "also dump the built-in java.lang and java.util stubs")

	return cmd
}

// addEntries routes .java files to the source set and everything else to
// the class file loader; directories feed both.
func addEntries(loader *classpath.Loader, sources *classpath.SourceSet, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if filepath.Ext(path) == ".java" {
			return addSource(sources, path)
		}
		return loader.Add(path)
	}
	if err := loader.Add(path); err != nil {
		return err
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".java" {
			return err
		}
		return addSource(sources, p)
	})
}

func addSource(sources *classpath.SourceSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	unit, err := mapper.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	sources.Add(path, unit)
	return nil
}
