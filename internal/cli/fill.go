package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-scouting/pkg/render"
	"github.com/goliatone/go-scouting/pkg/renderers/tui"
	"github.com/goliatone/go-scouting/pkg/session"
)

func newFillCommand(a *app) *cobra.Command {
	var scout string
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Scout one match interactively and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			screen, err := a.loadScreen()
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			driver := a.promptDriver()
			renderer, err := tui.New(tui.WithPromptDriver(driver), tui.WithLogger(a.logger))
			if err != nil {
				return err
			}

			header, err := renderer.FillHeader(ctx, session.MatchHeader{Scout: scout})
			if err != nil {
				return err
			}
			s, err := session.New(screen, header)
			if err != nil {
				return err
			}
			a.logger.Debug("session started", "session", s.ID(), "header", header.String())
			if _, err := renderer.Fill(ctx, s); err != nil {
				return err
			}

			summary, err := render.Summary(s.Record(), screen)
			if err != nil {
				return err
			}
			a.printf("%s\n", summary)

			save, err := driver.Confirm(ctx, tui.ConfirmConfig{Message: "Save this match?", Default: true})
			if err != nil {
				return err
			}
			if !save {
				a.printf("Discarded.\n")
				return nil
			}
			handle, err := s.Save(store)
			if err != nil {
				return err
			}
			a.printf("Saved %s\n", handle.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&scout, "scout", "", "prefill the scout name")
	return cmd
}
