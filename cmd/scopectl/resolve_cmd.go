package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type resolveOutput struct {
	Requester  string   `json:"requester"`
	Level      string   `json:"level"`
	VisibleIDs []string `json:"visible_ids"`
	Size       int      `json:"size"`
}

func newResolveCmd() *cobra.Command {
	var (
		requester string
		asOf      string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the visible employee set for a requester",
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := uuid.Parse(requester)
			if err != nil {
				return fmt.Errorf("invalid --requester: %w", err)
			}
			at := time.Now()
			if asOf != "" {
				at, err = time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
			}

			env, err := newCLIEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			scope, err := env.scope.ResolveScope(env.ctx, rid, at)
			if err != nil {
				return err
			}

			out := resolveOutput{
				Requester: scope.RequesterID().String(),
				Level:     scope.Level().String(),
				Size:      scope.Size(),
			}
			for _, id := range scope.VisibleIDs() {
				out.VisibleIDs = append(out.VisibleIDs, id.String())
			}
			return writeJSON(out)
		},
	}

	cmd.Flags().StringVar(&requester, "requester", "", "requesting employee id (required)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "entitlement reference date, YYYY-MM-DD (default now)")
	_ = cmd.MarkFlagRequired("requester")
	return cmd
}
