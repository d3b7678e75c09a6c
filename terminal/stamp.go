package terminal

import (
	"fmt"
	"time"
)

// FormatStamp renders the annotation put before timestamped line output:
// UTC hours and minutes, then seconds with a microsecond fraction.
func FormatStamp(t time.Time) string {
	u := t.UTC()
	seconds := float64(u.Second()) + float64(u.Nanosecond())/1e9
	return fmt.Sprintf("[%s %f]", u.Format("15:04"), seconds)
}
