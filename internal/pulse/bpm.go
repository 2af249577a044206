package pulse

// EstimateBPM converts the tick's crossing sequence into beats per minute.
// With fewer than two crossings there is no estimate and the caller keeps
// whatever value it last displayed. The interval is the mean across the whole
// visible window, so more crossings smooth the estimate but lag behind sudden
// rate changes. No plausibility clamping is applied.
func EstimateBPM(crossings []Sample) (float64, bool) {
	if len(crossings) < 2 {
		return 0, false
	}
	span := crossings[len(crossings)-1].At.Sub(crossings[0].At)
	intervalMs := span.Seconds() * 1000 / float64(len(crossings)-1)
	if intervalMs <= 0 {
		return 0, false
	}
	return 60000 / intervalMs, true
}
