package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratoctl/properties"
)

// newConfigCommand constructs the `stratocfg config` command group.
func (a *App) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit stratoctl properties",
	}

	cmd.AddCommand(a.newGetCommand())
	cmd.AddCommand(a.newSetCommand())
	cmd.AddCommand(a.newUnsetCommand())
	cmd.AddCommand(a.newListCommand())
	cmd.AddCommand(a.newImportCommand())

	return cmd
}

// newGetCommand constructs `stratocfg config get`.
func (a *App) newGetCommand() *cobra.Command {
	var showOrigin bool

	cmd := &cobra.Command{
		Use:   "get SECTION/NAME",
		Short: "Print a property's resolved value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.runInvocation(cmd, func() error {
				p, err := a.Registry.Lookup(args[0])
				if err != nil {
					return err
				}
				v, err := p.Require()
				if err != nil {
					return err
				}
				if showOrigin {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v, p.Resolve().Origin)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showOrigin, "show-origin", false, "Also print the layer the value came from")

	return cmd
}

// newSetCommand constructs `stratocfg config set`.
func (a *App) newSetCommand() *cobra.Command {
	var scopeName string

	cmd := &cobra.Command{
		Use:   "set SECTION/NAME VALUE",
		Short: "Persist a property value",
		Long: `Persist a property value into the active configuration profile, or into
the shared installation store with --scope installation. The value is
validated before anything is written.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.runInvocation(cmd, func() error {
				p, err := a.Registry.Lookup(args[0])
				if err != nil {
					return err
				}
				scope, err := properties.ParseScope(scopeName)
				if err != nil {
					return err
				}
				if err := a.Registry.Persist(p, args[1], scope); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated property [%s].\n", p)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scopeName, "scope", "user", "Write scope: user or installation")

	return cmd
}

// newUnsetCommand constructs `stratocfg config unset`.
func (a *App) newUnsetCommand() *cobra.Command {
	var scopeName string

	cmd := &cobra.Command{
		Use:   "unset SECTION/NAME",
		Short: "Remove a persisted property value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.runInvocation(cmd, func() error {
				p, err := a.Registry.Lookup(args[0])
				if err != nil {
					return err
				}
				scope, err := properties.ParseScope(scopeName)
				if err != nil {
					return err
				}
				if err := a.Registry.PersistDelete(p, scope); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unset property [%s].\n", p)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scopeName, "scope", "user", "Write scope: user or installation")

	return cmd
}

// newImportCommand constructs `stratocfg config import`.
func (a *App) newImportCommand() *cobra.Command {
	var scopeName string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Merge properties from a TOML, JSON or YAML file into the store",
		Long: `Merge every property in FILE into the persisted store. TOML is the
canonical format; JSON (comments allowed) and YAML are accepted. Entries are
merged as-is, so a file may carry sections this build does not know about.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if a.Importer == nil {
				return fmt.Errorf("import is not supported by the configured store")
			}
			scope, err := properties.ParseScope(scopeName)
			if err != nil {
				return err
			}
			n, err := a.Importer.Import(args[0], scope)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d properties.\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeName, "scope", "user", "Write scope: user or installation")

	return cmd
}
