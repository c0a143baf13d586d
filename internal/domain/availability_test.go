package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glowbook/booking-service/pkg/types"
)

func workingDay(start, end string) DaySchedule {
	return DaySchedule{IsWorking: true, Start: types.TimeString(start), End: types.TimeString(end)}
}

func TestFreeWindows_EmptyDay(t *testing.T) {
	windows, err := FreeWindows(workingDay("09:00", "11:00"), nil, 0, 30)
	require.NoError(t, err)
	require.Equal(t, []Interval{
		{Start: 540, End: 570},
		{Start: 570, End: 600},
		{Start: 600, End: 630},
		{Start: 630, End: 660},
	}, windows)
}

func TestFreeWindows_BufferExtendsBusyInterval(t *testing.T) {
	// Рабочий день 09:00-17:00, буфер 15 минут, занято 10:00-11:00.
	// Недоступно 09:45-11:15, первое окно после перерыва начинается в 11:15.
	busy := []Interval{{Start: 600, End: 660}}

	windows, err := FreeWindows(workingDay("09:00", "17:00"), busy, 15, 30)
	require.NoError(t, err)

	require.Equal(t, Interval{Start: 540, End: 570}, windows[0])
	for _, w := range windows {
		require.False(t, w.Start < 675 && w.End > 585,
			"window %v overlaps the buffered busy interval", w)
	}
	// 09:00-09:45 вмещает одно окно, 11:15-17:00 вмещает одиннадцать
	require.Len(t, windows, 12)
	require.Equal(t, Interval{Start: 675, End: 705}, windows[1])
}

func TestFreeWindows_NonWorkingDay(t *testing.T) {
	windows, err := FreeWindows(DaySchedule{IsWorking: false}, nil, 0, 30)
	require.NoError(t, err)
	require.Empty(t, windows)
}

func TestFreeWindows_DropsShortLeftover(t *testing.T) {
	// 09:00-09:50 при шаге 30 дает одно окно, хвост 20 минут отбрасывается
	windows, err := FreeWindows(workingDay("09:00", "09:50"), nil, 0, 30)
	require.NoError(t, err)
	require.Equal(t, []Interval{{Start: 540, End: 570}}, windows)
}

func TestFreeWindows_FullyBooked(t *testing.T) {
	busy := []Interval{{Start: 540, End: 1020}}
	windows, err := FreeWindows(workingDay("09:00", "17:00"), busy, 0, 30)
	require.NoError(t, err)
	require.Empty(t, windows)
}

func TestFreeWindows_MalformedHours(t *testing.T) {
	_, err := FreeWindows(workingDay("9am", "17:00"), nil, 0, 30)
	require.Error(t, err)
}

func TestMergeIntervals(t *testing.T) {
	merged := MergeIntervals([]Interval{
		{Start: 600, End: 660},
		{Start: 540, End: 610},
		{Start: 720, End: 750},
		{Start: 655, End: 700},
	})
	require.Equal(t, []Interval{
		{Start: 540, End: 700},
		{Start: 720, End: 750},
	}, merged)
}
