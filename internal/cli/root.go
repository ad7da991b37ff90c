// Package cli implements the stratocfg command tree, a thin facade over the
// properties engine for inspecting and persisting configuration.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stratoctl/properties"
	"github.com/stratoctl/properties/internal/logging"
)

// Importer merges a property file into the persisted store. *store.File
// implements it.
type Importer interface {
	Import(path string, scope properties.Scope) (int, error)
}

// App bundles the collaborators the commands act on.
type App struct {
	Registry *properties.Registry
	Importer Importer

	logLevel  string
	project   string
	overrides []string
}

// NewRootCommand constructs the root stratocfg command.
func NewRootCommand(app *App, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stratocfg",
		Short:         "stratocfg inspects and manages stratoctl configuration properties",
		Version:       version,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetDefault("stratocfg", version, app.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log verbosity: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&app.project, "project", "", "Override core/project for this invocation")
	cmd.PersistentFlags().StringArrayVar(&app.overrides, "property", nil,
		"Override a property for this invocation (section/name=value, repeatable)")

	cmd.AddCommand(app.newConfigCommand())

	return cmd
}

// runInvocation wraps a command body in a fresh invocation frame with the
// flag-supplied overrides recorded, popping the frame on every exit path.
func (a *App) runInvocation(cmd *cobra.Command, body func() error) error {
	return a.Registry.WithInvocation(func() error {
		if err := a.applyOverrides(cmd.Root().PersistentFlags()); err != nil {
			return err
		}
		return body()
	})
}

// applyOverrides records flag-supplied property values into the top
// invocation frame. Only flags the user actually changed are recorded.
func (a *App) applyOverrides(flags *pflag.FlagSet) error {
	if f := flags.Lookup("project"); f != nil && f.Changed && a.Registry.Core != nil {
		if err := a.Registry.SetInvocationValue(a.Registry.Core.Project, a.project, "--project"); err != nil {
			return err
		}
	}
	for _, kv := range a.overrides {
		path, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --property %q (want section/name=value)", kv)
		}
		p, err := a.Registry.Lookup(path)
		if err != nil {
			return err
		}
		if err := a.Registry.SetInvocationValue(p, value, "--property"); err != nil {
			return err
		}
	}
	return nil
}
