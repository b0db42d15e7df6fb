package http

import (
	"net/http"
	"strconv"
	"time"

	apperrors "roomly/pkg/errors"
)

// DateLayout is the wire format for calendar days. Dates are day keys
// interpreted at 00:00 UTC, never observer-local instants.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar date into its UTC midnight key.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("date must be in YYYY-MM-DD format: " + value)
	}
	return t.UTC(), nil
}

// ExtractDateParam reads a required date query parameter.
func ExtractDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, apperrors.InvalidInput("missing required parameter: " + name)
	}
	return ParseDate(value)
}

// ExtractDayCount reads the dayCount query parameter, defaulting to 7 and
// bounding the range to [1, 30].
func ExtractDayCount(r *http.Request) (int, error) {
	s := r.URL.Query().Get("dayCount")
	if s == "" {
		return 7, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid dayCount parameter: " + s)
	}
	if n < 1 || n > 30 {
		return 0, apperrors.InvalidInput("dayCount must be between 1 and 30")
	}
	return n, nil
}
