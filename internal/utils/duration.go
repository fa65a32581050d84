package utils

import "fmt"

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// FormatMinutes converts a number of minutes into a "X days Y hours Z minutes"
// string for display on the status endpoint.
func FormatMinutes(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}

	days := minutes / minutesPerDay
	hourMinutes := minutes % minutesPerDay
	hours := hourMinutes / minutesPerHour
	minutesLeft := hourMinutes % minutesPerHour

	return fmt.Sprintf("%s %s %s",
		pluralize(days, "day"),
		pluralize(hours, "hour"),
		pluralize(minutesLeft, "minute"),
	)
}

func pluralize(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
