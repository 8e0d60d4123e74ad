package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/salescope/salescope/modules/scope/ranking"
)

type rankOutputEntry struct {
	Employee string `json:"employee"`
	Value    string `json:"value,omitempty"`
	Rank     any    `json:"rank"`
}

type rankOutput struct {
	Metric    string            `json:"metric"`
	Period    string            `json:"period"`
	PeerGroup string            `json:"peer_group"`
	Entries   []rankOutputEntry `json:"entries"`
}

func newRankCmd() *cobra.Command {
	var (
		requester string
		subject   string
		metric    string
		period    string
		peerGroup string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank an employee's peers on a metric, within the requester's scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := uuid.Parse(requester)
			if err != nil {
				return fmt.Errorf("invalid --requester: %w", err)
			}
			sid := rid
			if subject != "" {
				sid, err = uuid.Parse(subject)
				if err != nil {
					return fmt.Errorf("invalid --subject: %w", err)
				}
			}
			if period == "" {
				period = time.Now().Format("2006-01")
			}
			group := ranking.PeerGroupTeam
			if peerGroup == "region" {
				group = ranking.PeerGroupRegion
			}

			env, err := newCLIEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			scope, err := env.scope.ResolveScope(env.ctx, rid, time.Now())
			if err != nil {
				return err
			}
			list, err := env.scope.Rank(env.ctx, scope, sid, group, ranking.Metric(metric), period)
			if err != nil {
				return err
			}

			out := rankOutput{
				Metric:    string(list.Metric),
				Period:    list.Period,
				PeerGroup: list.PeerGroup.String(),
			}
			for _, e := range list.Entries {
				entry := rankOutputEntry{Employee: e.EmployeeID.String(), Rank: "not ranked"}
				if e.Ranked {
					entry.Rank = e.Rank
					entry.Value = e.Value.String()
				}
				out.Entries = append(out.Entries, entry)
			}
			return writeJSON(out)
		},
	}

	cmd.Flags().StringVar(&requester, "requester", "", "requesting employee id (required)")
	cmd.Flags().StringVar(&subject, "subject", "", "employee whose peer group to rank (default requester)")
	cmd.Flags().StringVar(&metric, "metric", string(ranking.MetricSalesAmount), "metric: sales_amount, units_sold, deals_closed, quota_attainment")
	cmd.Flags().StringVar(&period, "period", "", "period YYYY-MM (default current month)")
	cmd.Flags().StringVar(&peerGroup, "peer-group", "team", "peer group: team or region")
	_ = cmd.MarkFlagRequired("requester")
	return cmd
}
