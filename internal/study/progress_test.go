package study

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/studybuddy/backend/internal/models"
)

func day(now time.Time, daysAgo int) time.Time {
	return now.AddDate(0, 0, -daysAgo)
}

func activeDay(now time.Time, daysAgo int) models.Progress {
	return models.Progress{Date: day(now, daysAgo), StudyTime: 10}
}

func TestComputeStreakEmpty(t *testing.T) {
	require.Equal(t, 0, computeStreak(nil, time.Now()))
}

func TestComputeStreakConsecutiveDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	days := []models.Progress{
		activeDay(now, 2),
		activeDay(now, 1),
		activeDay(now, 0),
	}
	require.Equal(t, 3, computeStreak(days, now))
}

func TestComputeStreakAllowsYesterdayAnchor(t *testing.T) {
	// no activity today yet: the streak should still count from yesterday
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	days := []models.Progress{
		activeDay(now, 3),
		activeDay(now, 2),
		activeDay(now, 1),
	}
	require.Equal(t, 3, computeStreak(days, now))
}

func TestComputeStreakBrokenByGap(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	days := []models.Progress{
		activeDay(now, 5),
		activeDay(now, 4),
		activeDay(now, 1),
		activeDay(now, 0),
	}
	require.Equal(t, 2, computeStreak(days, now))
}

func TestComputeStreakStaleActivity(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	days := []models.Progress{
		activeDay(now, 7),
		activeDay(now, 6),
	}
	require.Equal(t, 0, computeStreak(days, now))
}

func TestComputeStreakIgnoresEmptyRows(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	days := []models.Progress{
		activeDay(now, 1),
		{Date: day(now, 0)}, // row exists but all counters zero
	}
	require.Equal(t, 1, computeStreak(days, now))
}

func TestComputeStreakAnyCounterCounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	days := []models.Progress{
		{Date: day(now, 1), QuestionsAnswered: 1},
		{Date: day(now, 0), DocumentsRead: 2},
	}
	require.Equal(t, 2, computeStreak(days, now))
}
