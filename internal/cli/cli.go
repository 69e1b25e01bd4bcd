// Package cli implements the treekit command-line interface.
//
// This package provides commands for computing tree layouts, building
// consensus trees from collections, inspecting tree files, managing the
// local result cache, and serving the HTTP API. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute drawing coordinates for a tree
//   - consensus: Summarize a tree collection into a consensus tree
//   - info: Inspect a tree file
//   - cache: Manage the local result cache
//   - serve: Run the HTTP JSON API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/treekit/treekit/pkg/buildinfo"
	"github.com/treekit/treekit/pkg/cache"
	"github.com/treekit/treekit/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "treekit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "treekit",
		Short:        "Treekit computes layouts and consensus trees for phylogenies",
		Long:         `Treekit is a CLI tool for working with phylogenetic trees: it computes drawing coordinates (linear and unrooted radial layouts) and majority-rule consensus trees from tree collections.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.consensusCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/treekit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
