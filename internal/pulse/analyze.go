package pulse

// Analysis summarizes one tick's view of the sample window. It is recomputed
// from scratch every tick and never stored.
type Analysis struct {
	Average float64
	Min     float64
	Max     float64
	Range   float64

	// Crossings holds, in order, each sample at which the signal fell below
	// the window average relative to its predecessor. These are the beat
	// proxies fed to the BPM estimator.
	Crossings []Sample
}

// Analyze computes summary statistics and beat crossings over the window.
// The caller guarantees at least one sample; an empty slice yields a zero
// Analysis.
//
// A crossing is recorded on a falling edge: previous sample above the mean,
// current sample below it. The mean is the whole-window mean recomputed this
// tick, not a running baseline, so the crossing count is sensitive to recent
// trend. A healthy steady measurement puts Range roughly in [0.002, 0.02];
// that band is diagnostic only and never enforced here.
func Analyze(samples []Sample) Analysis {
	if len(samples) == 0 {
		return Analysis{}
	}

	sum := 0.0
	min := samples[0].Value
	max := samples[0].Value
	for _, s := range samples {
		sum += s.Value
		if s.Value < min {
			min = s.Value
		}
		if s.Value > max {
			max = s.Value
		}
	}
	avg := sum / float64(len(samples))

	var crossings []Sample
	prev := samples[0]
	for _, cur := range samples[1:] {
		if prev.Value > avg && cur.Value < avg {
			crossings = append(crossings, cur)
		}
		prev = cur
	}

	return Analysis{
		Average:   avg,
		Min:       min,
		Max:       max,
		Range:     max - min,
		Crossings: crossings,
	}
}
