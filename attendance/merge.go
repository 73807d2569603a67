package attendance

import (
	"sort"
	"time"

	"github.com/warp/attendance-engine/leave"
	"github.com/warp/attendance-engine/overtime"
	"github.com/warp/attendance-engine/worktime"
)

// Merge joins punch records with the month's overtime and leave requests
// into one Day per date, sorted by date. An overtime request attaches to
// its own date: approved requests of a date are summed, and a date without
// one shows its latest submitted request. A leave request attaches to its
// start date with its full day count.
func Merge(ym worktime.YearMonth, punches []Day, ot []overtime.Request, lv []leave.Request) []Day {
	byDate := make(map[string]*Day)
	get := func(d Day) *Day {
		key := d.Date.Format(worktime.DateLayout)
		if existing, ok := byDate[key]; ok {
			return existing
		}
		byDate[key] = &d
		return &d
	}

	for _, p := range punches {
		if ym.Contains(p.Date) {
			day := get(Day{Date: dateOnly(p.Date)})
			day.PunchIn, day.PunchOut, day.Status = p.PunchIn, p.PunchOut, p.Status
		}
	}

	ot = append([]overtime.Request(nil), ot...)
	sort.SliceStable(ot, func(i, j int) bool { return ot[i].CreatedAt.Before(ot[j].CreatedAt) })
	for _, r := range ot {
		if !r.InMonth(ym) {
			continue
		}
		day := get(Day{Date: dateOnly(r.Date)})
		entry := &OvertimeEntry{
			Hours:     r.Hours,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Reason:    r.Reason,
			Status:    string(r.Status),
		}
		prev := day.Overtime
		switch {
		case prev == nil:
		case r.Status.IsApproved() && overtime.Status(prev.Status).IsApproved():
			entry.Hours = prev.Hours.Add(r.Hours)
			entry.StartTime = prev.StartTime
			entry.Status = string(overtime.StatusApproved)
		case overtime.Status(prev.Status).IsApproved():
			continue
		}
		day.Overtime = entry
	}

	for _, r := range lv {
		if !ym.Contains(r.Start) {
			continue
		}
		day := get(Day{Date: dateOnly(r.Start)})
		day.Leave = &LeaveEntry{
			Type:          string(r.Type),
			Days:          r.Days,
			Status:        string(r.Status),
			Reason:        r.Reason,
			ReviewComment: r.ReviewComment,
		}
	}

	days := make([]Day, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
