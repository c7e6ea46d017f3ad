package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shift-guard/internal/dto"
	"shift-guard/internal/shift"
)

var evalClock = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func TestRunEvaluate_Levels(t *testing.T) {
	cases := []struct {
		name      string
		opts      evaluateOptions
		wantLevel string
		wantLine  string
	}{
		{"on track", evaluateOptions{start: "09:00", now: "10:00"}, "level:     safe", "deadline:  14:00"},
		{"warning", evaluateOptions{start: "09:00", now: "13:00"}, "level:     warning", "remaining: 1h 0m"},
		{"critical", evaluateOptions{start: "09:00", now: "13:50"}, "level:     critical", "remaining: 10m"},
		{"violation", evaluateOptions{start: "09:00", now: "14:30"}, "level:     violation", "remaining: -30m"},
		{"lunch taken", evaluateOptions{start: "09:00", now: "14:30", lunch: "returned"}, "level:     safe", "label:     Lunch taken"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.opts.lunch == "" {
				c.opts.lunch = string(shift.LunchNotStarted)
			}
			var out bytes.Buffer
			require.NoError(t, runEvaluate(&out, &c.opts, shift.DefaultPolicy(), evalClock))
			assert.Contains(t, out.String(), c.wantLevel)
			assert.Contains(t, out.String(), c.wantLine)
		})
	}
}

func TestRunEvaluate_DefaultsToClock(t *testing.T) {
	var out bytes.Buffer
	err := runEvaluate(&out, &evaluateOptions{start: "08:00", lunch: "not_started"}, shift.DefaultPolicy(), evalClock)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "worked:    4.00h")
}

func TestRunEvaluate_InvalidInput(t *testing.T) {
	var out bytes.Buffer

	err := runEvaluate(&out, &evaluateOptions{start: "9am", lunch: "not_started"}, shift.DefaultPolicy(), evalClock)
	assert.ErrorIs(t, err, shift.ErrInvalidWallClock)

	err = runEvaluate(&out, &evaluateOptions{start: "09:00", now: "25:00", lunch: "not_started"}, shift.DefaultPolicy(), evalClock)
	assert.ErrorIs(t, err, shift.ErrInvalidWallClock)

	err = runEvaluate(&out, &evaluateOptions{start: "09:00", lunch: "skipped"}, shift.DefaultPolicy(), evalClock)
	assert.ErrorIs(t, err, shift.ErrInvalidInput)
}

func TestPrintBoard(t *testing.T) {
	emp := dto.ShiftEmployeeResponse{
		Employee: shift.Employee{
			Name:        "Jane Doe",
			ActualStart: "09:00",
			LunchStatus: shift.LunchNotStarted,
			Status:      shift.StatusActive,
		},
		AssignmentName: "Cashier",
		Compliance:     dto.ComplianceResponse{Level: "critical", Label: shift.LabelCritical, Remaining: "10m"},
	}
	board := &dto.BoardResponse{
		Date:     "2026-10-15",
		Now:      "01:50 PM",
		OnFloor:  []dto.ShiftEmployeeResponse{emp},
		Coverage: []dto.PositionCoverageResponse{{Name: "Cashier", ActiveCount: 1, MinCoverage: 2, BelowMinimum: true}},
		UndoHead: &dto.UndoEntryResponse{Label: "Start lunch: Sam Lee"},
	}

	var out bytes.Buffer
	require.NoError(t, printBoard(&out, board))
	s := out.String()
	assert.Contains(t, s, "Jane Doe")
	assert.Contains(t, s, shift.LabelCritical)
	assert.Contains(t, s, "Cashier 1/2")
	assert.Contains(t, s, "last action: Start lunch: Sam Lee")
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"migrate", "board", "policy", "evaluate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}
