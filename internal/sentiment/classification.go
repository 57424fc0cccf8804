package sentiment

import "strconv"

var ClassLabels = [5]string{
	"Very Negative",
	"Negative",
	"Neutral",
	"Positive",
	"Very Positive",
}

// GetClassification buckets a predicted class on the 0-4 scale into its
// label. Values above 4 (and NaN) have no label.
func GetClassification(y float64) string {
	switch {
	case y < 0.8:
		return ClassLabels[0]
	case y < 1.6:
		return ClassLabels[1]
	case y < 2.4:
		return ClassLabels[2]
	case y < 3.2:
		return ClassLabels[3]
	case y <= 4:
		return ClassLabels[4]
	default:
		return ""
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
