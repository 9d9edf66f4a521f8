package pom

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("whatis.pom")

// Local resolves artifacts against a Maven repository on disk. It never
// downloads: an artifact missing from the repository is an error.
type Local struct {
	Root string
}

func NewLocal(root string) *Local {
	if root == "" {
		root = DefaultRepository()
	}
	return &Local{Root: root}
}

type pending struct {
	coord      Coordinate
	exclusions map[Key]bool
}

// Jars returns the jars of the requested artifacts followed by those of
// their compile and runtime dependencies, breadth first. When two paths
// reach the same artifact the nearest declaration wins, the way Maven
// mediates versions. Optional, test, provided and system dependencies
// of dependencies are skipped.
func (l *Local) Jars(coords ...Coordinate) ([]string, error) {
	var (
		jars  []string
		errs  []error
		seen  = map[Key]bool{}
		queue []pending
	)
	for _, c := range coords {
		queue = append(queue, pending{coord: c, exclusions: map[Key]bool{}})
	}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		key := next.coord.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		jar := next.coord.JarPath(l.Root)
		if _, err := os.Stat(jar); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", next.coord, err))
		} else {
			jars = append(jars, jar)
		}

		deps, err := l.dependencies(next.coord)
		if err != nil {
			log.Debugf("no dependencies for %s: %s", next.coord, err)
			continue
		}
		for _, d := range deps {
			dk := Key{GroupID: d.GroupID, ArtifactID: d.ArtifactID}
			if next.exclusions[dk] || next.exclusions[Key{GroupID: d.GroupID, ArtifactID: "*"}] || seen[dk] {
				continue
			}
			if d.Optional == "true" || !transitiveScope(d.Scope) || d.Type != "" && d.Type != "jar" {
				continue
			}
			if d.Version == "" || strings.ContainsAny(d.Version, "[($") {
				log.Warningf("%s: skipping %s with unresolved version %q", next.coord, dk, d.Version)
				continue
			}
			excl := make(map[Key]bool, len(next.exclusions)+len(d.Exclusions))
			for k := range next.exclusions {
				excl[k] = true
			}
			for _, e := range d.Exclusions {
				excl[Key{GroupID: e.GroupID, ArtifactID: e.ArtifactID}] = true
			}
			queue = append(queue, pending{
				coord:      Coordinate{GroupID: d.GroupID, ArtifactID: d.ArtifactID, Classifier: d.Classifier, Version: d.Version},
				exclusions: excl,
			})
		}
	}
	return jars, errors.Join(errs...)
}

func transitiveScope(scope string) bool {
	return scope == "" || scope == "compile" || scope == "runtime"
}

// dependencies reads the artifact's pom and its parents, and returns its
// dependencies with versions and properties filled in.
func (l *Local) dependencies(c Coordinate) ([]Dependency, error) {
	project, err := ReadProject(c.POMPath(l.Root))
	if err != nil {
		return nil, err
	}

	props := map[string]string{}
	managed := map[Key]Dependency{}
	chain := []*Project{project}
	for p := project; p.Parent != nil && len(chain) < 10; {
		parent := Coordinate{GroupID: p.Parent.GroupID, ArtifactID: p.Parent.ArtifactID, Version: p.Parent.Version}
		pp, err := ReadProject(parent.POMPath(l.Root))
		if err != nil {
			log.Debugf("%s: parent %s: %s", c, parent, err)
			break
		}
		chain = append(chain, pp)
		p = pp
	}
	// Outermost parent first so children override.
	for i := len(chain) - 1; i >= 0; i-- {
		p := chain[i]
		for k, v := range p.Properties {
			props[k] = v
		}
		for _, d := range p.DependencyManagement {
			managed[Key{GroupID: d.GroupID, ArtifactID: d.ArtifactID}] = d
		}
	}
	props["project.groupId"] = project.groupID()
	props["project.artifactId"] = project.ArtifactID
	props["project.version"] = project.version()
	props["pom.version"] = project.version()

	deps := make([]Dependency, 0, len(project.Dependencies))
	for _, d := range project.Dependencies {
		d.GroupID = interpolate(d.GroupID, props)
		d.ArtifactID = interpolate(d.ArtifactID, props)
		if m, ok := managed[Key{GroupID: d.GroupID, ArtifactID: d.ArtifactID}]; ok {
			if d.Version == "" {
				d.Version = m.Version
			}
			if d.Scope == "" {
				d.Scope = m.Scope
			}
		}
		d.Version = interpolate(d.Version, props)
		deps = append(deps, d)
	}
	return deps, nil
}
