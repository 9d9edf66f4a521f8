// Package config reads the .whatis.yaml workspace file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dhamidi/whatis/pom"
)

const (
	DefaultConfigFile   = ".whatis.yaml"
	DefaultPollInterval = time.Second

	// Verbosity bounds follow commonlog: -4 logs nothing, 2 logs debug.
	MinVerbosity = -4
	MaxVerbosity = 2
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Classpath lists directories, .class files and .jar/.zip archives
	// whose classes are visible to every source file.
	Classpath []string `yaml:"classpath,omitempty"`
	// Maven adds the jars of artifacts found in a local Maven repository.
	Maven Maven `yaml:"maven,omitempty"`
	// Sources is the workspace root scanned for .java files.
	Sources string    `yaml:"sources,omitempty"`
	Log     LogConfig `yaml:"log"`
	Watch   Watch     `yaml:"watch"`
}

type Maven struct {
	// Repository defaults to ~/.m2/repository.
	Repository string   `yaml:"repository,omitempty"`
	Artifacts  []string `yaml:"artifacts,omitempty"`
}

type LogConfig struct {
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file,omitempty"`
}

type Watch struct {
	Enabled bool `yaml:"enabled"`
	// Mode is WatchPoll or WatchNotify.
	Mode     string        `yaml:"mode,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

const (
	WatchPoll   = "poll"
	WatchNotify = "notify"
)

func Default() *Config {
	return &Config{
		Sources: ".",
		Watch:   Watch{Mode: WatchPoll, Interval: DefaultPollInterval},
	}
}

func (c *Config) Validate() error {
	if c.Log.Verbosity < MinVerbosity || c.Log.Verbosity > MaxVerbosity {
		return fmt.Errorf("%w: log.verbosity %d not in [%d, %d]", ErrInvalidConfig, c.Log.Verbosity, MinVerbosity, MaxVerbosity)
	}
	if c.Watch.Mode != WatchPoll && c.Watch.Mode != WatchNotify {
		return fmt.Errorf("%w: watch.mode %q is neither %q nor %q", ErrInvalidConfig, c.Watch.Mode, WatchPoll, WatchNotify)
	}
	if c.Watch.Interval < 0 {
		return fmt.Errorf("%w: watch.interval %s is negative", ErrInvalidConfig, c.Watch.Interval)
	}
	for i, p := range c.Classpath {
		if p == "" {
			return fmt.Errorf("%w: classpath entry %d is empty", ErrInvalidConfig, i)
		}
	}
	for _, a := range c.Maven.Artifacts {
		if _, err := pom.ParseCoordinate(a); err != nil {
			return fmt.Errorf("%w: maven.artifacts: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// PollInterval is the watch interval, or zero when watching is off.
func (c *Config) PollInterval() time.Duration {
	if !c.Watch.Enabled {
		return 0
	}
	if c.Watch.Interval == 0 {
		return DefaultPollInterval
	}
	return c.Watch.Interval
}
