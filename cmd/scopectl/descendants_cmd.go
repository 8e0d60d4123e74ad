package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/salescope/salescope/modules/scope/domain/hierarchy"
)

type descendantsOutput struct {
	Employee    string   `json:"employee"`
	Level       int      `json:"level"`
	Path        []string `json:"path"`
	Descendants []string `json:"descendants"`
}

func newDescendantsCmd() *cobra.Command {
	var employeeID string

	cmd := &cobra.Command{
		Use:   "descendants",
		Short: "List everyone transitively reporting to an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			eid, err := uuid.Parse(employeeID)
			if err != nil {
				return fmt.Errorf("invalid --employee: %w", err)
			}

			env, err := newCLIEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			roster, err := env.roster.Snapshot(env.ctx)
			if err != nil {
				return err
			}
			idx, err := hierarchy.Build(roster)
			if err != nil {
				return err
			}

			level, ok := idx.LevelOf(eid)
			if !ok {
				return fmt.Errorf("employee %s not in roster", eid)
			}
			path, _ := idx.PathOf(eid)

			out := descendantsOutput{
				Employee: eid.String(),
				Level:    level,
			}
			for _, id := range path {
				out.Path = append(out.Path, id.String())
			}
			for _, id := range idx.DescendantsOf(eid) {
				out.Descendants = append(out.Descendants, id.String())
			}
			return writeJSON(out)
		},
	}

	cmd.Flags().StringVar(&employeeID, "employee", "", "employee id (required)")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}
