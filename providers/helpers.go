package providers

import "time"

// timeLayouts deckt die Timestamp-Formate der drei Provider ab.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// ParseTime parst einen Provider-Timestamp; nil wenn leer oder unlesbar.
func ParseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// Truncate kürzt einen String rune-sicher auf max Zeichen.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
