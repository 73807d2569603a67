/*
main.go - Command-line work-hour calculator

PURPOSE:
  Runs the stateless calculators without the server or a database:
  work hours between two timestamps, leave validation, overtime tier
  classification and the monthly ceiling check.

COMMANDS:
  workcalc hours    "2025-03-10 14:00" "2025-03-12 11:00"
  workcalc leave    --type ANNUAL_LEAVE --start "2025-03-10 09:00" --end "2025-03-10 18:00" --balance 0.5
  workcalc classify 2025-03-08 18:00 21:00 --rate 200
  workcalc limit    --month 2025-03 --new 4 --record 2025-03-03:44:approved

FLAGS:
  --rules   JSON rules file (see factory/rules.go); defaults apply otherwise

SEE ALSO:
  - worktime/calculator.go: Work-hour calculation
  - overtime/classifier.go: Tier classification
*/
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rulesFlag loads the rules file once per invocation.
type rulesFlag struct {
	path  string
	rules *factory.Rules
}

func (f *rulesFlag) load() (*factory.Rules, error) {
	if f.rules != nil {
		return f.rules, nil
	}
	var (
		r   *factory.Rules
		err error
	)
	if f.path == "" {
		r, err = factory.NewRulesFactory().ParseRules(factory.StandardRulesJSON())
	} else {
		r, err = factory.LoadRulesFile(f.path)
	}
	if err != nil {
		return nil, err
	}
	f.rules = r
	return r, nil
}

func newRootCmd() *cobra.Command {
	rf := &rulesFlag{}

	root := &cobra.Command{
		Use:           "workcalc",
		Short:         "Work hours, leave and overtime calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&rf.path, "rules", "", "JSON rules file")

	root.AddCommand(
		newHoursCmd(rf),
		newLeaveCmd(rf),
		newClassifyCmd(rf),
		newLimitCmd(rf),
	)
	return root
}

// =============================================================================
// HOURS
// =============================================================================

func newHoursCmd(rf *rulesFlag) *cobra.Command {
	return &cobra.Command{
		Use:   "hours START END",
		Short: "Work-window hours between two timestamps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := rf.load()
			if err != nil {
				return err
			}
			res := worktime.NewCalculator(rules.Config).ComputeStrings(args[0], args[1])
			if res.InvalidRange {
				return fmt.Errorf("%w: %s to %s", worktime.ErrInvalidRange, args[0], args[1])
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "hours\t%s\n", res.Hours)
			if !res.SameDay {
				fmt.Fprintf(w, "first day\t%s\n", res.FirstDayHours)
				fmt.Fprintf(w, "full days\t%d (%s h)\n", res.FullDays, res.FullDayHours)
				fmt.Fprintf(w, "last day\t%s\n", res.LastDayHours)
			}
			return w.Flush()
		},
	}
}

// =============================================================================
// LEAVE
// =============================================================================

func newLeaveCmd(rf *rulesFlag) *cobra.Command {
	var typ, start, end, balance string

	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Validate a leave request",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := rf.load()
			if err != nil {
				return err
			}

			in := leave.Input{Type: leave.Type(strings.ToUpper(strings.TrimSpace(typ)))}
			// Unparseable timestamps stay zero and are reported as an invalid range.
			in.Start, _ = worktime.ParseTimestamp(start, rules.Config.Location)
			in.End, _ = worktime.ParseTimestamp(end, rules.Config.Location)
			if balance != "" {
				b, err := decimal.NewFromString(balance)
				if err != nil {
					return fmt.Errorf("%w: balance %q", worktime.ErrInvalidInput, balance)
				}
				in.Balance = &b
			}

			val := leave.NewValidator(rules.Config).Validate(in)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "hours %s, days %s\n", val.Hours, val.Days)
			for _, is := range val.Issues {
				kind := "warning"
				if is.Blocking {
					kind = "error"
				}
				fmt.Fprintf(out, "%s: %s (%s)\n", kind, is.Message, is.Code)
			}
			if !val.Valid() {
				return val.Err()
			}
			fmt.Fprintln(out, "valid")
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", string(leave.TypeAnnual), "Leave type")
	cmd.Flags().StringVar(&start, "start", "", "Start timestamp")
	cmd.Flags().StringVar(&end, "end", "", "End timestamp")
	cmd.Flags().StringVar(&balance, "balance", "", "Remaining days of the leave type")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// =============================================================================
// CLASSIFY
// =============================================================================

// dateSet is a holiday calendar built from --holiday flags.
type dateSet map[string]bool

func (s dateSet) IsHoliday(date time.Time) bool { return s[date.Format(worktime.DateLayout)] }

func newClassifyCmd(rf *rulesFlag) *cobra.Command {
	var (
		rate     string
		holidays []string
	)

	cmd := &cobra.Command{
		Use:   "classify DATE START END",
		Short: "Split overtime into pay tiers",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := rf.load()
			if err != nil {
				return err
			}
			date, err := worktime.ParseDate(args[0])
			if err != nil {
				return err
			}
			cal := dateSet{}
			for _, h := range holidays {
				d, err := worktime.ParseDate(h)
				if err != nil {
					return err
				}
				cal[d.Format(worktime.DateLayout)] = true
			}

			c, err := overtime.NewClassifier(rules.Tiers, cal).Classify(date, args[1], args[2])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "day type\t%s\n", c.DayType)
			fmt.Fprintf(w, "hours\t%s\n", c.Hours)
			for _, t := range c.Tiers {
				fmt.Fprintf(w, "  x%s\t%s\n", t.Multiplier, t.Hours)
			}
			fmt.Fprintf(w, "weighted hours\t%s\n", c.WeightedHours())
			if rate != "" {
				r, err := decimal.NewFromString(rate)
				if err != nil || r.IsNegative() {
					return fmt.Errorf("%w: rate %q", worktime.ErrInvalidInput, rate)
				}
				fmt.Fprintf(w, "pay\t%s\n", c.Pay(r).Round(2))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&rate, "rate", "", "Hourly rate for the pay amount")
	cmd.Flags().StringSliceVar(&holidays, "holiday", nil, "Holiday dates (YYYY-MM-DD)")
	return cmd
}

// =============================================================================
// LIMIT
// =============================================================================

func newLimitCmd(rf *rulesFlag) *cobra.Command {
	var (
		month, newHours, ceiling string
		records                  []string
	)

	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Check new overtime against the monthly ceiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := rf.load()
			if err != nil {
				return err
			}
			ym, err := worktime.ParseYearMonth(month)
			if err != nil {
				return err
			}
			hours, err := decimal.NewFromString(newHours)
			if err != nil || hours.IsNegative() {
				return fmt.Errorf("%w: new hours %q", worktime.ErrInvalidInput, newHours)
			}
			limit := rules.Config.MonthlyOvertimeCeiling
			if ceiling != "" {
				if limit, err = decimal.NewFromString(ceiling); err != nil {
					return fmt.Errorf("%w: ceiling %q", worktime.ErrInvalidInput, ceiling)
				}
			}

			reqs := make([]overtime.Request, 0, len(records))
			for _, s := range records {
				r, err := parseRecord(s)
				if err != nil {
					return err
				}
				reqs = append(reqs, r)
			}

			check := overtime.CheckLimit(ym, hours, reqs, limit)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "approved\t%s\n", check.CurrentHours)
			fmt.Fprintf(w, "new\t%s\n", check.NewHours)
			fmt.Fprintf(w, "total\t%s / %s\n", check.TotalAfter, check.Ceiling)
			if check.WithinLimit {
				fmt.Fprintln(w, "within limit")
			} else {
				fmt.Fprintf(w, "exceeded\t%s\n", check.Exceeded)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM)")
	cmd.Flags().StringVar(&newHours, "new", "0", "Requested overtime hours")
	cmd.Flags().StringVar(&ceiling, "ceiling", "", "Monthly ceiling (default from rules)")
	cmd.Flags().StringArrayVar(&records, "record", nil, "Existing overtime as DATE:HOURS:STATUS")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

// parseRecord reads DATE:HOURS:STATUS.
func parseRecord(s string) (overtime.Request, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return overtime.Request{}, fmt.Errorf("%w: record %q, want DATE:HOURS:STATUS", worktime.ErrInvalidInput, s)
	}
	date, err := worktime.ParseDate(parts[0])
	if err != nil {
		return overtime.Request{}, err
	}
	hours, err := decimal.NewFromString(parts[1])
	if err != nil {
		return overtime.Request{}, fmt.Errorf("%w: record hours %q", worktime.ErrInvalidInput, parts[1])
	}
	return overtime.Request{Date: date, Hours: hours, Status: overtime.NormalizeStatus(parts[2])}, nil
}
