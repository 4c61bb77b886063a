package agent

import (
	"fmt"
	"time"
)

// relativePhrase renders the distance from now to t as a short human phrase,
// e.g. "in 45 minutes", "tomorrow", "in 3 days", "in 2 weeks".
func relativePhrase(now, t time.Time) string {
	d := t.Sub(now)
	switch {
	case d < time.Minute:
		return "right now"
	case d < time.Hour:
		return fmt.Sprintf("in %d minutes", int(d.Minutes()))
	case d < 24*time.Hour:
		h := int(d.Round(time.Hour).Hours())
		if h == 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", h)
	}

	days := int(d.Hours() / 24)
	switch {
	case days == 1:
		return "tomorrow"
	case days < 14:
		return fmt.Sprintf("in %d days", days)
	case days < 60:
		return fmt.Sprintf("in %d weeks", days/7)
	default:
		return fmt.Sprintf("in %d months", days/30)
	}
}
