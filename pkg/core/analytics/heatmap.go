package analytics

// intensityThresholds[i] is the smallest count that reaches intensity i+1.
var intensityThresholds = [...]int64{1, 3, 6, 11, 21, 41}

// MaxIntensity is the hottest heatmap tier.
const MaxIntensity = len(intensityThresholds)

// Intensity maps a count onto the 0-6 heatmap tiers.
func Intensity(count int64) int {
	level := 0
	for i, min := range intensityThresholds {
		if count >= min {
			level = i + 1
		}
	}
	return level
}
