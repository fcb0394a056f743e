package ui

import (
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	cases := []struct {
		value, total, width int
		want                string
	}{
		{0, 500, 10, "[----------]"},
		{250, 500, 10, "[#####-----]"},
		{500, 500, 10, "[##########]"},
		{900, 500, 10, "[##########]"},
		{-4, 500, 4, "[----]"},
		{1, 0, 2, "[###]"},
	}
	for _, tc := range cases {
		if got := ProgressBar(tc.value, tc.total, tc.width); got != tc.want {
			t.Fatalf("ProgressBar(%d,%d,%d)=%q want %q", tc.value, tc.total, tc.width, got, tc.want)
		}
	}
}

func TestAchievementLineLocked(t *testing.T) {
	if got := AchievementLine("🏆", "First Victory", "Win", false); !strings.Contains(got, IconLock) {
		t.Fatalf("locked line %q has no lock icon", got)
	}
	if got := AchievementLine("🏆", "First Victory", "Win", true); !strings.HasPrefix(got, "🏆") {
		t.Fatalf("unlocked line %q", got)
	}
}
