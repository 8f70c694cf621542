package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// ViewType selects the reporting window.
type ViewType string

const (
	// ViewRealTime reports on a single anchor day.
	ViewRealTime ViewType = "realtime"
	// ViewHistorical reports on the whole dataset.
	ViewHistorical ViewType = "historical"
)

// ParseViewType accepts the wire names plus the dashboard labels.
func ParseViewType(s string) (ViewType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "realtime", "real-time", "real_time", "single-day", "day":
		return ViewRealTime, nil
	case "historical", "all-time", "alltime", "all":
		return ViewHistorical, nil
	default:
		return "", fmt.Errorf("unknown view type %q", s)
	}
}

// ViewSelection is the reporting window requested by the caller.
type ViewSelection struct {
	Type   ViewType  `json:"type"`
	Anchor time.Time `json:"anchor,omitempty"`
}

// SingleDay selects the records dated on day.
func SingleDay(day time.Time) ViewSelection {
	return ViewSelection{Type: ViewRealTime, Anchor: TruncateDay(day)}
}

// AllTime selects every record.
func AllTime() ViewSelection {
	return ViewSelection{Type: ViewHistorical}
}

// String renders the selection for logs and file names.
func (v ViewSelection) String() string {
	if v.Type == ViewRealTime {
		return fmt.Sprintf("%s-%s", v.Type, v.Anchor.Format(DateLayout))
	}
	return string(v.Type)
}

// TruncateDay drops the time of day, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
