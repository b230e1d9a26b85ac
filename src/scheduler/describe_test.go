package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeCron(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"0 8 * * *", "every day at 08:00 UTC"},
		{"30 17 * * *", "every day at 17:30 UTC"},
		{"0 9 * * 1-5", "Monday to Friday at 09:00 UTC"},
		{"0 9 * * 1", "every Monday at 09:00 UTC"},
		{"0 9 * * 0", "every Sunday at 09:00 UTC"},
		{"0 9 * * 7", "every Sunday at 09:00 UTC"},
		{"15 6 * * 1,3,5", "Monday, Wednesday, Friday at 06:15 UTC"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DescribeCron(tc.expr), "expr %q", tc.expr)
	}
}

func TestDescribeCronFallback(t *testing.T) {
	for _, expr := range []string{
		"*/5 * * * *",
		"0 8 1 * *",
		"0 8 * 6 *",
		"0 8 * * 9",
		"not a cron",
		"0 8 * *",
	} {
		got := DescribeCron(expr)
		assert.Contains(t, got, expr, "unparseable schedules quote the expression")
		assert.Contains(t, got, "UTC")
	}
}
