package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// -----------------------------------------------------------------------------

// DescribeCron renders a human phrase for the simple 5-field schedules this
// service uses: fixed minute and hour, optional day-of-week constraint.
// Anything fancier falls back to quoting the expression.
func DescribeCron(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return fmt.Sprintf("cron schedule %q (UTC)", expr)
	}

	minute, errM := strconv.Atoi(fields[0])
	hour, errH := strconv.Atoi(fields[1])
	if errM != nil || errH != nil || fields[2] != "*" || fields[3] != "*" {
		return fmt.Sprintf("cron schedule %q (UTC)", expr)
	}

	days, ok := describeDays(fields[4])
	if !ok {
		return fmt.Sprintf("cron schedule %q (UTC)", expr)
	}

	return fmt.Sprintf("%s at %02d:%02d UTC", days, hour, minute)
}

// -----------------------------------------------------------------------------

func describeDays(dow string) (string, bool) {
	if dow == "*" {
		return "every day", true
	}

	if from, to, found := strings.Cut(dow, "-"); found {
		a, okA := dayName(from)
		b, okB := dayName(to)
		if !okA || !okB {
			return "", false
		}
		return a + " to " + b, true
	}

	if strings.Contains(dow, ",") {
		parts := strings.Split(dow, ",")
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			name, ok := dayName(p)
			if !ok {
				return "", false
			}
			names = append(names, name)
		}
		return strings.Join(names, ", "), true
	}

	name, ok := dayName(dow)
	if !ok {
		return "", false
	}
	return "every " + name, true
}

// -----------------------------------------------------------------------------

func dayName(field string) (string, bool) {
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 || n > 7 {
		return "", false
	}
	// Both 0 and 7 mean Sunday in cron.
	return dayNames[n%7], true
}
