// Package pom finds the jars of Maven artifacts, and the artifacts they
// depend on, in a local Maven repository.
package pom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrBadCoordinate = errors.New("invalid Maven coordinate")

// Coordinate names one artifact, as groupId:artifactId:version or
// groupId:artifactId:classifier:version.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Classifier string
	Version    string
}

func ParseCoordinate(coord string) (Coordinate, error) {
	parts := strings.Split(coord, ":")
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, fmt.Errorf("%w: %q has an empty part", ErrBadCoordinate, coord)
		}
	}
	switch len(parts) {
	case 3:
		return Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
	case 4:
		return Coordinate{GroupID: parts[0], ArtifactID: parts[1], Classifier: parts[2], Version: parts[3]}, nil
	}
	return Coordinate{}, fmt.Errorf("%w: %q (expected groupId:artifactId:version or groupId:artifactId:classifier:version)", ErrBadCoordinate, coord)
}

func (c Coordinate) String() string {
	if c.Classifier != "" {
		return c.GroupID + ":" + c.ArtifactID + ":" + c.Classifier + ":" + c.Version
	}
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// Key identifies an artifact regardless of its version.
type Key struct {
	GroupID    string
	ArtifactID string
}

func (c Coordinate) Key() Key {
	return Key{GroupID: c.GroupID, ArtifactID: c.ArtifactID}
}

func (k Key) String() string {
	return k.GroupID + ":" + k.ArtifactID
}

func (c Coordinate) dir(repo string) string {
	return filepath.Join(repo, filepath.FromSlash(strings.ReplaceAll(c.GroupID, ".", "/")), c.ArtifactID, c.Version)
}

// JarPath is where the repository rooted at repo keeps the artifact's jar.
func (c Coordinate) JarPath(repo string) string {
	name := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	return filepath.Join(c.dir(repo), name+".jar")
}

func (c Coordinate) POMPath(repo string) string {
	return filepath.Join(c.dir(repo), c.ArtifactID+"-"+c.Version+".pom")
}

// DefaultRepository is ~/.m2/repository, or "" when the home directory
// is unknown.
func DefaultRepository() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".m2", "repository")
}
