package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHelpersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helpers [name]",
		Short: "List the runtime helpers or show the template of one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  helpersHandler,
	}
	cmd.Flags().StringP("output", "o", "text", "output format: text or json")
	cmd.Flags().String("catalogue", "", "YAML helper catalogue to use instead of the built-in one")
	return cmd
}

func getHelpers() (*helpers.Registry, error) {
	path := viper.GetString("catalogue")
	if path == "" {
		return helpers.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return helpers.Load(data)
}

func helpersHandler(cmd *cobra.Command, args []string) error {
	registry, err := getHelpers()
	if err != nil {
		return err
	}
	format := strings.ToLower(viper.GetString("output"))
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		h, ok := registry.Lookup(args[0])
		if !ok {
			return errors.NewUnknownHelperError(args[0], registry.Names())
		}
		switch format {
		case "json":
			return writeJSON(out, map[string]any{
				"name":        h.Name,
				"description": h.Description,
				"solo":        h.Solo,
				"template":    strings.TrimSpace(h.Template),
			})
		case "text":
			_, err := fmt.Fprintln(out, strings.TrimSpace(h.Template))
			return err
		}
		return fmt.Errorf("unknown output format: %s", format)
	}

	switch format {
	case "json":
		return writeJSON(out, registry.Helpers())
	case "text":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, h := range registry.Helpers() {
			desc := h.Description
			if h.Solo {
				desc = strings.TrimSpace(desc + " (solo)")
			}
			fmt.Fprintf(tw, "%s\t%s\n", h.Name, desc)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format: %s", format)
}
