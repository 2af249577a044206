package util

import (
	"fmt"
	"time"
)

// FormatDuration formats an elapsed session time as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
