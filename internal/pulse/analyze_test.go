package pulse

import (
	"math"
	"testing"
	"time"
)

func seriesOf(values ...float64) []Sample {
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = sampleAt(v, i)
	}
	return out
}

func TestAnalyzeStatsOrdering(t *testing.T) {
	a := Analyze(seriesOf(0.52, 0.49, 0.55, 0.51, 0.48))

	if a.Min > a.Average || a.Average > a.Max {
		t.Fatalf("expected min <= average <= max, got min=%v avg=%v max=%v", a.Min, a.Average, a.Max)
	}
	if a.Range < 0 {
		t.Fatalf("Range = %v, want >= 0", a.Range)
	}
	if got, want := a.Range, a.Max-a.Min; got != want {
		t.Fatalf("Range = %v, want %v", got, want)
	}
}

func TestAnalyzeConstantSignal(t *testing.T) {
	a := Analyze(seriesOf(0.5, 0.5, 0.5, 0.5))

	if a.Range != 0 {
		t.Fatalf("Range = %v, want 0 for constant signal", a.Range)
	}
	if len(a.Crossings) != 0 {
		t.Fatalf("expected no crossings for constant signal, got %d", len(a.Crossings))
	}
	if a.Average != 0.5 {
		t.Fatalf("Average = %v, want 0.5", a.Average)
	}
}

func TestAnalyzeSingleSampleHasNoCrossings(t *testing.T) {
	a := Analyze(seriesOf(0.42))

	if len(a.Crossings) != 0 {
		t.Fatalf("expected no crossings for single sample, got %d", len(a.Crossings))
	}
	if a.Average != 0.42 || a.Min != 0.42 || a.Max != 0.42 {
		t.Fatalf("degenerate stats wrong: %+v", a)
	}
}

func TestAnalyzeRecordsFallingEdgesOnly(t *testing.T) {
	// Mean is 0.5. Falling transitions happen entering samples 2 and 6;
	// the rising transitions at 4 and 8 must not count.
	a := Analyze(seriesOf(0.5, 0.6, 0.4, 0.4, 0.6, 0.6, 0.4, 0.4, 0.6))

	if math.Abs(a.Average-0.5) > 1e-9 {
		t.Fatalf("Average = %v, want 0.5", a.Average)
	}
	if len(a.Crossings) != 2 {
		t.Fatalf("crossings = %d, want 2", len(a.Crossings))
	}
	want0 := time.Unix(0, 0).Add(2 * time.Second / 60)
	if !a.Crossings[0].At.Equal(want0) {
		t.Fatalf("first crossing at %v, want %v", a.Crossings[0].At, want0)
	}
	if a.Crossings[0].Value != 0.4 {
		t.Fatalf("crossing records the below-average sample, got %v", a.Crossings[0].Value)
	}
}

func TestAnalyzeTouchingAverageIsNotACrossing(t *testing.T) {
	// Mean is exactly 0.5. The 0.75 -> 0.5 step only touches the mean and
	// the 0.5 -> 0.25 step starts at it; neither satisfies the strict rule.
	a := Analyze(seriesOf(0.5, 0.5, 0.75, 0.5, 0.25))

	if len(a.Crossings) != 0 {
		t.Fatalf("crossings = %d, want 0 (avg=%v)", len(a.Crossings), a.Average)
	}
}
