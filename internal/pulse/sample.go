package pulse

import "time"

// Sample is one brightness measurement extracted from a single camera frame.
// Samples are immutable once created; they leave the pipeline only by being
// evicted from the buffer.
type Sample struct {
	Value float64 // normalized brightness in [0,1]
	At    time.Time
}
