package pulse

// Extractor reduces one RGBA pixel block to a single brightness scalar in
// [0,1]. Swapping the policy never touches the rest of the pipeline.
type Extractor interface {
	Extract(pix []byte, w, h int) float64
}

// RedGreen sums the red and green channels of every pixel and normalizes by
// the maximum possible sum. Empirically the red+green combination tracks
// blood-volume absorption changes better than full-RGB or luminance weighting.
type RedGreen struct{}

func (RedGreen) Extract(pix []byte, w, h int) float64 {
	var sum uint64
	for i := 0; i+3 < len(pix); i += 4 {
		sum += uint64(pix[i]) + uint64(pix[i+1])
	}
	return float64(sum) / (float64(w*h) * 2 * 255)
}

// RGBMean averages all three color channels, ignoring alpha.
type RGBMean struct{}

func (RGBMean) Extract(pix []byte, w, h int) float64 {
	var sum uint64
	for i := 0; i+3 < len(pix); i += 4 {
		sum += uint64(pix[i]) + uint64(pix[i+1]) + uint64(pix[i+2])
	}
	return float64(sum) / (float64(w*h) * 3 * 255)
}
