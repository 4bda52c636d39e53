package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestAdvanceStreak_FirstEverPost(t *testing.T) {
	streak, err := advanceStreak(nil, 0, "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestAdvanceStreak_ConsecutiveDay(t *testing.T) {
	streak, err := advanceStreak(strptr("2024-03-01"), 6, "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 7, streak)
}

func TestAdvanceStreak_SameDayIsNoop(t *testing.T) {
	streak, err := advanceStreak(strptr("2024-03-02"), 7, "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 7, streak)
}

func TestAdvanceStreak_GapResets(t *testing.T) {
	streak, err := advanceStreak(strptr("2024-03-01"), 12, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestAdvanceStreak_MonthBoundary(t *testing.T) {
	streak, err := advanceStreak(strptr("2024-02-29"), 3, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 4, streak)
}

func TestAdvanceStreak_YearBoundary(t *testing.T) {
	streak, err := advanceStreak(strptr("2023-12-31"), 9, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 10, streak)
}

func TestNewlyUnlocked(t *testing.T) {
	tests := []struct {
		name   string
		held   []string
		streak int
		want   []string
	}{
		{"below all thresholds", nil, 6, []string{}},
		{"crossing seven", nil, 7, []string{"streak_7"}},
		{"already unlocked seven", []string{"streak_7"}, 8, []string{}},
		{"crossing thirty", []string{"streak_7"}, 30, []string{"streak_30"}},
		{"crossing both at once", nil, 30, []string{"streak_7", "streak_30"}},
		{"holding everything", []string{"streak_7", "streak_30"}, 100, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newlyUnlocked(tt.held, tt.streak))
		})
	}
}

// Unlocking stays monotonic: re-crossing a threshold never duplicates a tag.
func TestNewlyUnlocked_NeverDuplicates(t *testing.T) {
	held := []string{}
	for streak := 1; streak <= 40; streak++ {
		held = append(held, newlyUnlocked(held, streak)...)
	}
	assert.Equal(t, []string{"streak_7", "streak_30"}, held)
}
