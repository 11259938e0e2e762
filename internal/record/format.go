package record

import "fmt"

// FormatMillis renders a completion time as m:ss.mmm (h:mm:ss.mmm past an
// hour), e.g. 620000 → "10:20.000".
func FormatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	msec := ms % 1000
	total := ms / 1000
	sec := total % 60
	min := (total / 60) % 60
	hour := total / 3600
	if hour > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", hour, min, sec, msec)
	}
	return fmt.Sprintf("%d:%02d.%03d", min, sec, msec)
}
