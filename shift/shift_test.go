package shift_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/attendance-engine/shift"
	"github.com/warp/attendance-engine/store/memory"
	"github.com/warp/attendance-engine/worktime"
)

var april = worktime.YearMonth{Year: 2025, Month: time.April}

func date(day int) time.Time {
	return time.Date(2025, time.April, day, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		typ       shift.Type
		start     string
		end       string
		wantStart string
		wantEnd   string
		wantErr   error
	}{
		{name: "morning preset", typ: shift.TypeMorning, wantStart: "08:00", wantEnd: "16:00"},
		{name: "night preset", typ: shift.TypeNight, wantStart: "16:00", wantEnd: "00:00"},
		{name: "override end only", typ: shift.TypeFullDay, end: "17:00", wantStart: "09:00", wantEnd: "17:00"},
		{name: "custom with times", typ: shift.TypeCustom, start: "10:00", end: "14:00", wantStart: "10:00", wantEnd: "14:00"},
		{name: "day off has no window", typ: shift.TypeDayOff, start: "09:00"},
		{name: "custom without times", typ: shift.TypeCustom, wantErr: worktime.ErrInvalidInput},
		{name: "unknown type", typ: "graveyard", wantErr: worktime.ErrInvalidInput},
		{name: "bad clock", typ: shift.TypeCustom, start: "10:00", end: "noon", wantErr: worktime.ErrInvalidClockTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := shift.Resolve(tt.typ, tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestShift_Hours(t *testing.T) {
	night := shift.Shift{Type: shift.TypeNight, StartTime: "16:00", EndTime: "00:00"}
	assert.Equal(t, "8", night.Hours().String())

	off := shift.Shift{Type: shift.TypeDayOff}
	assert.True(t, off.Hours().IsZero())
}

func TestService_CreateListDeleteStats(t *testing.T) {
	svc := shift.NewService(memory.New())
	ctx := context.Background()

	create := func(emp string, day int, typ shift.Type) *shift.Shift {
		s, err := svc.Create(ctx, shift.CreateInput{EmployeeID: emp, EmployeeName: "Name " + emp, Date: date(day), Type: typ})
		require.NoError(t, err)
		return s
	}
	create("emp-1", 1, shift.TypeMorning)
	create("emp-1", 2, shift.TypeNight)
	create("emp-2", 1, shift.TypeFullDay)
	off := create("emp-2", 2, shift.TypeDayOff)

	shifts, err := svc.List(ctx, april)
	require.NoError(t, err)
	assert.Len(t, shifts, 4)

	require.NoError(t, svc.Delete(ctx, off.ID))
	assert.True(t, worktime.IsNotFound(svc.Delete(ctx, off.ID)))

	st, err := svc.Stats(ctx, april)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.ByType[shift.TypeNight])
	assert.Equal(t, "25", st.ScheduledHours.String())
	require.Len(t, st.ByEmployee, 2)
	assert.Equal(t, "emp-1", st.ByEmployee[0].EmployeeID)
	assert.Equal(t, 2, st.ByEmployee[0].Shifts)
	assert.Equal(t, "16", st.ByEmployee[0].Hours.String())
}

func TestService_CreateRequiresEmployeeAndDate(t *testing.T) {
	svc := shift.NewService(memory.New())

	_, err := svc.Create(context.Background(), shift.CreateInput{Type: shift.TypeMorning, Date: date(1)})
	assert.ErrorIs(t, err, worktime.ErrInvalidInput)

	_, err = svc.Create(context.Background(), shift.CreateInput{EmployeeID: "emp-1", Type: shift.TypeMorning})
	assert.ErrorIs(t, err, worktime.ErrInvalidInput)
}
