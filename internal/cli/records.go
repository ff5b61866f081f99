package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-scouting/pkg/render"
	"github.com/goliatone/go-scouting/pkg/renderers/tui"
)

func newListCommand(a *app) *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			handles, err := store.List()
			if err != nil {
				return err
			}
			if len(handles) == 0 {
				a.printf("No saved matches.\n")
				return nil
			}
			if !long {
				for _, h := range handles {
					a.printf("%s\n", h.Name)
				}
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			for _, h := range handles {
				rec, err := store.Read(h)
				if err != nil {
					a.logger.Warn("unreadable record", "name", h.Name, "error", err)
					fmt.Fprintf(tw, "%s\t(unreadable)\n", h.Name)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\n", h.Name, rec.Header)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "include each match header")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	var format, templateDir string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print one saved match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			handle, err := store.Handle(args[0])
			if err != nil {
				return err
			}
			rec, err := store.Read(handle)
			if err != nil {
				return err
			}
			screen, err := a.loadScreen()
			if err != nil {
				return err
			}

			if templateDir == "" {
				templateDir = a.cfg.TemplateDir
			}
			textOpts := []render.TextOption{
				render.WithGlobals(map[string]any{"file": handle.Name, "layout": screen.Title}),
			}
			if templateDir != "" {
				textOpts = append(textOpts, render.WithTemplateDir(templateDir))
			}
			registry, err := render.DefaultRegistry(textOpts...)
			if err != nil {
				return err
			}
			formatter, err := registry.Get(format)
			if err != nil {
				return err
			}
			out, err := formatter.Format(rec, screen)
			if err != nil {
				return err
			}
			if _, err := a.stdout.Write(out); err != nil {
				return err
			}
			if len(out) > 0 && out[len(out)-1] != '\n' {
				a.printf("\n")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	cmd.Flags().StringVar(&templateDir, "template-dir", "", "directory overriding the summary template")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var all, yes bool
	cmd := &cobra.Command{
		Use:   "delete [name...]",
		Short: "Delete saved matches",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("delete: --all takes no names")
			}
			if !all && len(args) == 0 {
				return fmt.Errorf("delete: name a match or pass --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if all {
				if !yes {
					ok, err := a.promptDriver().Confirm(cmd.Context(), tui.ConfirmConfig{Message: "Delete every saved match?"})
					if err != nil {
						return err
					}
					if !ok {
						a.printf("Nothing deleted.\n")
						return nil
					}
				}
				n, err := store.DeleteAll()
				if err != nil {
					return err
				}
				a.printf("Deleted %d matches.\n", n)
				return nil
			}

			for _, name := range args {
				handle, err := store.Handle(name)
				if err != nil {
					return err
				}
				removed, err := store.Delete(handle)
				if err != nil {
					return err
				}
				if removed {
					a.printf("Deleted %s\n", handle.Name)
				} else {
					a.printf("Not found: %s\n", handle.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every saved match")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation for --all")
	return cmd
}
