package main

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/dhamidi/whatis/config"
	"github.com/dhamidi/whatis/java/classpath"
	"github.com/dhamidi/whatis/java/codebase"
	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/pom"
)

// loadBase builds the classpath pool. Broken classpath entries are logged
// and skipped.
func loadBase() (*entry.Pool, error) {
	paths := settings.Classpath
	if len(settings.Maven.Artifacts) > 0 {
		jars, err := mavenJars(settings.Maven)
		if err != nil {
			log.Warningf("maven: %s", err)
		}
		paths = append(slices.Clone(paths), jars...)
	}
	pool, err := classpath.Load(paths...)
	if pool == nil {
		return nil, fmt.Errorf("loading classpath: %w", err)
	}
	if err != nil {
		log.Warningf("classpath: %s", err)
	}
	return pool, nil
}

// mavenJars lists the jars of the configured artifacts and their
// dependencies. Artifacts missing from the repository are reported and
// left out.
func mavenJars(m config.Maven) ([]string, error) {
	coords := make([]pom.Coordinate, 0, len(m.Artifacts))
	for _, a := range m.Artifacts {
		c, err := pom.ParseCoordinate(a)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	repo := pom.NewLocal(m.Repository)
	jars, err := repo.Jars(coords...)
	log.Infof("maven: %d jars from %s", len(jars), repo.Root)
	return jars, err
}

// openCodebase scans the configured sources over the classpath pool.
func openCodebase() (*codebase.Codebase, error) {
	base, err := loadBase()
	if err != nil {
		return nil, err
	}
	root, err := filepath.Abs(settings.Sources)
	if err != nil {
		return nil, err
	}
	c := codebase.New(root, base)
	if err := c.ScanAll(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	log.Infof("scanned %d source files under %s", len(c.Paths()), root)
	return c, nil
}

func watchOptions() codebase.WatchOptions {
	opts := codebase.WatchOptions{Interval: settings.PollInterval()}
	switch {
	case !settings.Watch.Enabled:
		opts.Mode = codebase.WatchOff
	case settings.Watch.Mode == config.WatchNotify:
		opts.Mode = codebase.WatchNotify
	default:
		opts.Mode = codebase.WatchPoll
	}
	return opts
}
