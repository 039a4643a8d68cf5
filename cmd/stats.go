package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/callsense/analyzer"
	"github.com/maastricht-university/callsense/store"
)

// StatsResult is the dashboard summary printed by the stats command.
type StatsResult struct {
	TotalCalls          int                     `json:"total_calls"`
	AverageSatisfaction analyzer.Stat           `json:"average_satisfaction"`
	TotalHours          float64                 `json:"total_hours"`
	Week                []store.DayStats        `json:"week"`
	Employees           []store.EmployeeSummary `json:"employees,omitempty"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}
	var (
		format    string
		employees bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals and the past week from the call database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("invalid format %q: use table or json", format)
			}
			c, log, err := deps.config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if c.Paths.Database == "" {
				return errors.New("paths.database is not configured")
			}
			s, err := deps.OpenStore(c.Paths.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer s.Close()

			now := time.Now
			if deps.Clock != nil {
				now = deps.Clock
			}
			res, err := collectStats(cmd, s, now(), employees)
			if err != nil {
				return err
			}
			log.WithField("calls", res.TotalCalls).Debug("stats collected")

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return writeStats(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().BoolVar(&employees, "employees", false, "include a per-employee breakdown")
	return cmd
}

func collectStats(cmd *cobra.Command, s *store.Store, now time.Time, employees bool) (*StatsResult, error) {
	ctx := cmd.Context()
	var (
		res StatsResult
		err error
	)
	if res.TotalCalls, err = s.CountCalls(ctx); err != nil {
		return nil, err
	}
	if res.AverageSatisfaction, err = s.AverageSatisfaction(ctx); err != nil {
		return nil, err
	}
	if res.TotalHours, err = s.TotalHours(ctx); err != nil {
		return nil, err
	}
	if res.Week, err = s.WeeklyStats(ctx, now); err != nil {
		return nil, err
	}
	if employees {
		if res.Employees, err = s.EmployeeSummaries(ctx); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

func writeStats(w io.Writer, res *StatsResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total calls:\t%d\n", res.TotalCalls)
	fmt.Fprintf(tw, "Average satisfaction:\t%s\n", res.AverageSatisfaction)
	fmt.Fprintf(tw, "Hours on the phone:\t%.2f\n", res.TotalHours)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "DATE\tCALLS\tSATISFACTION\tHOURS")
	fmt.Fprintln(tw, "----\t-----\t------------\t-----")
	for _, d := range res.Week {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\n", d.Date, d.TotalCalls, d.AvgSatisfaction, d.TotalHours)
	}
	if len(res.Employees) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "EMPLOYEE\tCALLS\tIN\tOUT\tOFFENSIVE\tAVG SECONDS\tSATISFACTION")
		fmt.Fprintln(tw, "--------\t-----\t--\t---\t---------\t-----------\t------------")
		for _, e := range res.Employees {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.0f\t%s\n",
				e.Employee, e.Calls, e.Incoming, e.Outgoing, e.OffensiveCalls, e.AvgCallSeconds, e.AvgSatisfaction)
		}
	}
	return tw.Flush()
}
