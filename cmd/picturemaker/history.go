package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/lapse/idgen"
	"github.com/hazyhaar/lapse/picturemaker"
)

func newHistoryCmd(a *app) *cobra.Command {
	var path, session string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled sessions, or the shots of one session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.New("history: --journal is required")
			}
			if session != "" {
				if _, err := idgen.Parse(session); err != nil {
					return fmt.Errorf("history: %w", err)
				}
			}
			j, err := picturemaker.OpenJournal(path)
			if err != nil {
				return err
			}
			defer j.Close()

			ctx := cmd.Context()
			enc := json.NewEncoder(cmd.OutOrStdout())

			if session != "" {
				shots, err := j.Shots(ctx, session)
				if err != nil {
					return err
				}
				if len(shots) == 0 {
					a.logger.Info("picturemaker: no shots", "session", session)
				}
				for _, s := range shots {
					if err := enc.Encode(s); err != nil {
						return fmt.Errorf("history: encode: %w", err)
					}
				}
				return nil
			}

			runs, err := j.Sessions(ctx, limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				if err := enc.Encode(r); err != nil {
					return fmt.Errorf("history: encode: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "journal", "", "SQLite journal path")
	cmd.Flags().StringVar(&session, "session", "", "list the shots of this session")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list (0 = all)")
	return cmd
}
