// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/pollwidget/cliparse"
	"github.com/danielhkuo/pollwidget/db"
	"github.com/danielhkuo/pollwidget/polls"
)

func seedCmd() *cobra.Command {
	cfg, envErr := cliparse.LoadEnv(".env")
	var (
		title   string
		options []string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a poll with its options",
		Example: `  pollwidget seed --title "Favourite color" --option Red --option Blue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			slog.SetDefault(cfg.Logger())

			ctx := cmd.Context()
			sqlDB, dialect, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := db.CreateSchema(ctx, sqlDB); err != nil {
				return err
			}

			svc := polls.NewService(db.Static(sqlDB, dialect), nil, nil)
			poll, err := svc.CreatePoll(ctx, title, options)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "poll %s  %s\n", poll.Poll.ID, poll.Poll.Title)
			for _, o := range poll.Options {
				fmt.Fprintf(out, "  option %s  %s\n", o.ID, o.Text)
			}
			fmt.Fprintf(out, "page: /poll/%s\n", poll.Poll.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Poll title")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Option text (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("option")
	cmd.Flags().StringVarP(&cfg.DatabaseURL, "database-url", "d", cfg.DatabaseURL, "Database URL or SQLite path")
	cmd.Flags().StringVarP(&cfg.DatabaseType, "database-type", "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	return cmd
}
