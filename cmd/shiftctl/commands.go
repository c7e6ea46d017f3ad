package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"shift-guard/internal/dto"
	"shift-guard/internal/shift"
)

// ── migrate ──

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移并写入默认岗位目录",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "migrated (%s)\n", rt.cfg.Database.Driver)
			return nil
		},
	}
}

// ── board ──

func newBoardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "board [date]",
		Short: "打印某营业日的合规看板（默认 today）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := "today"
			if len(args) == 1 {
				date = args[0]
			}

			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			board, err := rt.svc.Shift.Board(cmd.Context(), date)
			if err != nil {
				return err
			}
			return printBoard(cmd.OutOrStdout(), board)
		},
	}
}

func printBoard(out io.Writer, board *dto.BoardResponse) error {
	fmt.Fprintf(out, "%s  (as of %s)\n\n", board.Date, board.Now)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPOSITION\tSTATUS\tSTART\tLUNCH\tREMAINING\tCOMPLIANCE")
	for _, group := range [][]dto.ShiftEmployeeResponse{board.OnFloor, board.Inactive} {
		for _, e := range group {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Name,
				dash(e.AssignmentName),
				e.Status,
				dash(e.ActualStart),
				e.LunchStatus,
				e.Compliance.Remaining,
				e.Compliance.Label,
			)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var below []string
	for _, p := range board.Coverage {
		if p.BelowMinimum {
			below = append(below, fmt.Sprintf("%s %d/%d", p.Name, p.ActiveCount, p.MinCoverage))
		}
	}
	if len(below) > 0 {
		fmt.Fprintf(out, "\nbelow minimum: %v\n", below)
	}
	if board.UndoHead != nil {
		fmt.Fprintf(out, "\nlast action: %s\n", board.UndoHead.Label)
	}
	return nil
}

// ── policy ──

func newPolicyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "打印当前生效的合规策略",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			p, err := rt.svc.Policy.Current(cmd.Context())
			if err != nil {
				return err
			}
			printPolicy(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func printPolicy(out io.Writer, p shift.Policy) {
	fmt.Fprintf(out, "meal deadline:  %gh\n", p.MealDeadlineHours)
	fmt.Fprintf(out, "warning:        %gm before\n", p.WarningMinutes)
	fmt.Fprintf(out, "urgent:         %gm before\n", p.UrgentMinutes)
	fmt.Fprintf(out, "critical:       %gm before\n", p.CriticalMinutes)
}

// ── evaluate ──

type evaluateOptions struct {
	start string
	now   string
	lunch string
}

// newEvaluateCmd 纯计算，不连接数据库；策略取自配置
func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	eo := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "按开工时间试算用餐截止与合规等级",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			p, err := cfg.Compliance.Policy()
			if err != nil {
				return err
			}
			loc, err := cfg.Shift.Location()
			if err != nil {
				return err
			}
			return runEvaluate(cmd.OutOrStdout(), eo, p, time.Now().In(loc))
		},
	}
	cmd.Flags().StringVar(&eo.start, "start", "", "实际上班时间 HH:mm")
	cmd.Flags().StringVar(&eo.now, "now", "", "试算时刻 HH:mm（默认当前时间）")
	cmd.Flags().StringVar(&eo.lunch, "lunch", string(shift.LunchNotStarted), "午餐状态 not_started|pending|on_lunch|returned")
	cmd.MarkFlagRequired("start")
	return cmd
}

func runEvaluate(out io.Writer, eo *evaluateOptions, p shift.Policy, clock time.Time) error {
	now := clock
	if eo.now != "" {
		t, err := shift.ParseWallClock(eo.now, clock)
		if err != nil {
			return err
		}
		now = t
	}
	if err := shift.ValidateWallClock(eo.start); err != nil {
		return err
	}

	lunch := shift.LunchStatus(eo.lunch)
	switch lunch {
	case shift.LunchNotStarted, shift.LunchPending, shift.LunchOnLunch, shift.LunchReturned:
	default:
		return fmt.Errorf("%w: lunch=%q", shift.ErrInvalidInput, eo.lunch)
	}

	emp := shift.Employee{
		Name:        "evaluate",
		ActualStart: eo.start,
		LunchStatus: lunch,
		BreakStatus: shift.BreakNotStarted,
		Status:      shift.StatusActive,
	}
	info, err := shift.Evaluate(emp, p, now)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "level:     %s\n", info.Level)
	fmt.Fprintf(out, "label:     %s\n", info.Label)
	fmt.Fprintf(out, "worked:    %.2fh\n", info.HoursWorked)
	fmt.Fprintf(out, "remaining: %s\n", shift.FormatDuration(info.MinutesToDeadline))
	if !math.IsInf(info.MinutesToDeadline, 0) {
		start, _ := shift.ParseWallClock(eo.start, now)
		deadline := start.Add(time.Duration(p.DeadlineMinutes() * float64(time.Minute)))
		fmt.Fprintf(out, "deadline:  %s\n", deadline.Format(shift.WallClockLayout))
	}
	return nil
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
