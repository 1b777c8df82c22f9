package report

import (
	"strconv"
	"strings"

	"github.com/lazyserp/CuraVie/internal/models"
)

// Placeholder is shown for every missing or empty value
const Placeholder = "N/A"

// Fixed sentences replacing a whole section when the entity is absent
const (
	NoCheckupSentence    = "No medical checkup on record."
	NoLabResultsSentence = "No lab results available."
	NoEvaluationSentence = "No doctor evaluation available."
)

// Safe renders a field value for display, using Placeholder when it is absent
func Safe(v any) string {
	return SafeOr(v, Placeholder)
}

// SafeOr renders a field value for display, using placeholder when it is
// absent. Supported values are strings, optional numbers and booleans,
// dates, enumerated values and string lists. Anything else renders as the
// placeholder.
func SafeOr(v any, placeholder string) string {
	var s string
	switch val := v.(type) {
	case nil:
	case string:
		s = strings.TrimSpace(val)
	case *string:
		if val != nil {
			s = strings.TrimSpace(*val)
		}
	case int:
		s = strconv.Itoa(val)
	case *int:
		if val != nil {
			s = strconv.Itoa(*val)
		}
	case int64:
		s = strconv.FormatInt(val, 10)
	case *int64:
		if val != nil {
			s = strconv.FormatInt(*val, 10)
		}
	case float64:
		s = formatFloat(val)
	case *float64:
		if val != nil {
			s = formatFloat(*val)
		}
	case *bool:
		s = yesNo(val)
	case models.Date:
		s = FormatDate(val)
	case []string:
		s = joinNonEmpty(val)
	case models.Labeler:
		s = val.Label()
	}
	if s == "" {
		return placeholder
	}
	return s
}

// FormatDate renders a date as YYYY-MM-DD. A date that could not be parsed
// falls back to its recorded text; an unset date yields "".
func FormatDate(d models.Date) string {
	if s, err := d.Format(); err == nil {
		return s
	}
	return strings.TrimSpace(d.String())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// yesNo keeps the three states of an optional flag apart
func yesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "Yes"
	default:
		return "No"
	}
}

func joinNonEmpty(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ", ")
}
