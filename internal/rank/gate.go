package rank

import (
	"cmdpal/internal/domain"
)

// Suppression thresholds: at or above these confidences the intent is
// unambiguous enough that app suggestions would be noise.
const (
	gateURL       = 0.9
	gatePath      = 0.9
	gateCalculate = 0.85
)

// Suppressed reports whether ordinary suggestions are suppressed for the
// intent. System-command matches still show even when suppressed.
func Suppressed(it domain.Intent) bool {
	switch it.Kind {
	case domain.IntentURL:
		return it.Confidence >= gateURL
	case domain.IntentPath:
		return it.Confidence >= gatePath
	case domain.IntentCalculate:
		return it.Confidence >= gateCalculate
	default:
		return false
	}
}
