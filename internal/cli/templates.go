package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// templatesCommand lists the built-in and configured templates.
func (c *CLI) templatesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List layout templates",
		Long: `List layout templates.

Built-in templates are always available. Additional templates can be defined
in the config file as [[templates]] tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := c.newEngine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer store.Close()

			term := newTerminal(cmd.OutOrStdout())
			templates := eng.Templates()
			if format != formatText {
				return writeData(templates, format, "")
			}
			for _, t := range templates {
				term.item(fmt.Sprintf("%s %s", t.Name, StyleDim.Render(string(t.Config.Algorithm))), t.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

// algorithmsCommand lists the registered layout algorithms.
func (c *CLI) algorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List layout algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, store, err := c.newEngine(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer store.Close()

			term := newTerminal(cmd.OutOrStdout())
			for _, a := range eng.Algorithms() {
				term.item(string(a.Name()), a.Description())
			}
			return nil
		},
	}
}
