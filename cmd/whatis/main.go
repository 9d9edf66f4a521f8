package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/whatis/config"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("whatis")

// settings are the loaded configuration with command-line overrides
// applied; every command reads them after the root's pre-run.
var settings *config.Config

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var classpath []string
	var sources string
	var verbose int
	var logFile string

	rootCmd := &cobra.Command{
		Use:          "whatis",
		Short:        "Tell what a position in a Java source file refers to",
		SilenceUsage: true,
		Version:      version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			cfg.Classpath = append(cfg.Classpath, classpath...)
			if sources != "" {
				cfg.Sources = sources
			}
			cfg.Log.Verbosity = min(cfg.Log.Verbosity+verbose, config.MaxVerbosity)
			if logFile != "" {
				cfg.Log.File = logFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			configureLogging(cfg.Log)
			settings = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "configuration file (default: nearest "+config.DefaultConfigFile+")")
	flags.StringSliceVarP(&classpath, "classpath", "c", nil, "class directories, .class files or archives to add to the classpath")
	flags.StringVar(&sources, "sources", "", "workspace root scanned for .java files")
	flags.CountVarP(&verbose, "verbose", "v", "log more; repeat for debug output")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newEntriesCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newMCPCmd())

	return rootCmd
}

func loadSettings(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Resolve(wd)
}

// configureLogging logs to stderr unless a file is configured, keeping
// stdout free for command output and the stdio protocols.
func configureLogging(cfg config.LogConfig) {
	if cfg.File == "" {
		commonlog.Configure(cfg.Verbosity, nil)
		return
	}
	commonlog.Configure(cfg.Verbosity, &cfg.File)
}
