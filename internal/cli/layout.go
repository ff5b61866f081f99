package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-scouting/pkg/layout"
)

func newLayoutCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect form layouts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Parse a layout and report its shape",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				screen layout.Screen
				err    error
				source = "embedded layout"
			)
			switch {
			case len(args) == 1:
				source = args[0]
				screen, err = layout.LoadFile(args[0])
			default:
				if a.cfg.Layout != "" {
					source = a.cfg.Layout
				}
				screen, err = a.loadScreen()
			}
			if err != nil {
				return err
			}
			a.printf("%s: ok (%d categories, %d widgets)\n", source, len(screen.Categories), len(screen.Widgets()))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "widgets",
		Short: "List the widgets of the configured layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			screen, err := a.loadScreen()
			if err != nil {
				return err
			}
			for _, category := range screen.Categories {
				a.printf("%s\n", category.Title)
				for _, row := range category.Rows {
					for _, w := range row.Widgets {
						a.printf("  %-24s %s\n", w.ID, w.Kind)
					}
				}
			}
			return nil
		},
	})
	return cmd
}
