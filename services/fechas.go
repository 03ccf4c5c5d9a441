package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/lizet96/historia-clinica/auth"
)

// Formatos aceptados para fecha y hora. Sin zona horaria se asume UTC; una
// fecha sola es la medianoche de ese día.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp interpreta una fecha y hora ISO-8601; cualquier otro
// formato devuelve auth.ErrInvalidDate.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", auth.ErrInvalidDate, s)
}
