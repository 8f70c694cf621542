package dataprocessing

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// dateLayouts are tried in order. Numeric month-first layouts come after the
// ISO forms so 2024-01-05 is never read as a US date.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// decimalPattern accepts plain decimal text with optional comma thousands
// groups and exponent. Hex, underscores and stray commas do not match.
var decimalPattern = regexp.MustCompile(`^[+-]?(?:(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`)

// excelEpoch is day zero of the 1900 date system as Sheets and Excel count it.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial is 9999-12-31.
const maxExcelSerial = 2958465

// MalformedDateError reports a row whose date cell could not be parsed. It
// unwraps to a parsing AppError so the HTTP layer maps it to 422.
type MalformedDateError struct {
	Row   int
	Value string
	err   *apperrors.AppError
}

func newMalformedDateError(row int, value string) *MalformedDateError {
	e := &MalformedDateError{Row: row, Value: value}
	e.err = apperrors.NewParsingError(e.Error(), nil).
		WithContext("row", row).
		WithContext("value", value)
	return e
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("row %d: malformed date %q", e.Row, e.Value)
}

func (e *MalformedDateError) Unwrap() error {
	if e.err == nil {
		return apperrors.NewParsingError(e.Error(), nil).
			WithContext("row", e.Row).
			WithContext("value", e.Value)
	}
	return e.err
}

// CoerceNumber converts a raw cell into a Number. Blank, non-numeric and
// non-finite input is absent; it is never an error.
func CoerceNumber(v any) domain.Number {
	switch x := v.(type) {
	case nil:
		return domain.Absent()
	case string:
		return coerceString(x)
	case json.Number:
		return coerceString(x.String())
	case bool:
		if x {
			return domain.Present(1)
		}
		return domain.Present(0)
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return domain.Present(float64(x))
	case int32:
		return domain.Present(float64(x))
	case int64:
		return domain.Present(float64(x))
	case uint:
		return domain.Present(float64(x))
	case uint32:
		return domain.Present(float64(x))
	case uint64:
		return domain.Present(float64(x))
	default:
		return domain.Absent()
	}
}

func coerceString(s string) domain.Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Absent()
	}
	if !decimalPattern.MatchString(s) {
		return domain.Absent()
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return domain.Absent()
	}
	return finite(f)
}

func finite(f float64) domain.Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.Absent()
	}
	return domain.Present(f)
}

// ParseDate converts a raw date cell into a calendar date in UTC. Strings are
// matched against the supported layouts; numbers are Excel serial days.
func ParseDate(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return domain.TruncateDay(x), nil
	case string:
		return parseDateString(x)
	case nil:
		return time.Time{}, fmt.Errorf("empty date")
	}

	n := CoerceNumber(v)
	if !n.Valid {
		return time.Time{}, fmt.Errorf("unsupported date value %v", v)
	}
	return fromExcelSerial(n.Value)
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.TruncateDay(t), nil
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromExcelSerial(f)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func fromExcelSerial(f float64) (time.Time, error) {
	if math.IsNaN(f) || f < 1 || f > maxExcelSerial {
		return time.Time{}, fmt.Errorf("date serial %v out of range", f)
	}
	return excelEpoch.AddDate(0, 0, int(f)), nil
}

// cellText renders a raw cell as trimmed text.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
