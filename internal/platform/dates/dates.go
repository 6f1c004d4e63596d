package dates

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	dateLayout,
}

// Parse acepta RFC3339, datetime-local de formularios (sin zona) o YYYY-MM-DD.
// Los valores sin zona se interpretan en loc.
func Parse(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AfterToday indica si t cae en un día posterior a now (comparando fechas en loc).
func AfterToday(t, now time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	return CivilDate(t, loc).After(CivilDate(now, loc))
}

// DateOnly indica si s es una fecha civil sin hora (YYYY-MM-DD).
func DateOnly(s string) bool {
	_, err := time.Parse(dateLayout, strings.TrimSpace(s))
	return err == nil
}

// CivilDate devuelve el día de t en loc como medianoche UTC, que es lo que
// devuelve una columna DATE de Postgres.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
