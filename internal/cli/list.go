package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stratoctl/properties"
)

// newListCommand constructs `stratocfg config list`.
func (a *App) newListCommand() *cobra.Command {
	var (
		all        bool
		unset      bool
		showOrigin bool
		format     string
	)

	cmd := &cobra.Command{
		Use:   "list [SECTION]",
		Short: "List resolved property values",
		Long: `List the resolved values of all visible properties, or of one section.
Hidden properties appear once they carry a persisted value, or with --all.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return a.runInvocation(cmd, func() error {
				sections := a.Registry.Sections()
				if len(args) == 1 {
					s, err := a.Registry.LookupSection(args[0])
					if err != nil {
						return err
					}
					sections = []*properties.Section{s}
				}

				opts := properties.ListOptions{IncludeHidden: all, ListUnset: unset}
				switch format {
				case "text":
					return writeText(cmd.OutOrStdout(), sections, opts, showOrigin)
				case "json":
					return writeJSON(cmd.OutOrStdout(), sections, opts, showOrigin)
				}
				return fmt.Errorf("unsupported output format %q (want text or json)", format)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include hidden properties")
	cmd.Flags().BoolVar(&unset, "unset", false, "Include properties with no resolved value")
	cmd.Flags().BoolVar(&showOrigin, "show-origin", false, "Annotate each value with the layer it came from")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func writeText(w io.Writer, sections []*properties.Section, opts properties.ListOptions, showOrigin bool) error {
	first := true
	for _, s := range sections {
		values := s.AllValues(opts)
		if len(values) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false

		fmt.Fprintf(w, "[%s]\n", s.Name())
		for _, pv := range values {
			switch {
			case !pv.Found:
				fmt.Fprintf(w, "%s (unset)\n", pv.Name)
			case showOrigin:
				fmt.Fprintf(w, "%s = %s  # %s\n", pv.Name, pv.Value, pv.Origin)
			default:
				fmt.Fprintf(w, "%s = %s\n", pv.Name, pv.Value)
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, sections []*properties.Section, opts properties.ListOptions, showOrigin bool) error {
	out := make(map[string]map[string]any)
	for _, s := range sections {
		values := s.AllValues(opts)
		if len(values) == 0 {
			continue
		}
		entries := make(map[string]any, len(values))
		for _, pv := range values {
			switch {
			case !pv.Found:
				entries[pv.Name] = nil
			case showOrigin:
				entries[pv.Name] = map[string]string{"value": pv.Value, "origin": string(pv.Origin)}
			default:
				entries[pv.Name] = pv.Value
			}
		}
		out[s.Name()] = entries
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
