package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

const dateLayout = domain.DateLayout

// nullableRange stores an optional time range as two nullable minute columns.
func nullableRange(r *domain.TimeRange) (start, end interface{}) {
	if r == nil {
		return nil, nil
	}
	return int(r.Start), int(r.End)
}

// scanRange rebuilds an optional range; either column NULL means unset.
func scanRange(start, end sql.NullInt64) *domain.TimeRange {
	if !start.Valid || !end.Valid {
		return nil
	}
	return &domain.TimeRange{Start: domain.Clock(start.Int64), End: domain.Clock(end.Int64)}
}

func nullableIntToValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloatToValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

// encodeList stores a slice as a JSON array; empty slices become ''.
func encodeList[T any](vals []T) (string, error) {
	if len(vals) == 0 {
		return "", nil
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList[T any](s string) ([]T, error) {
	if s == "" {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseDate(col, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", col, err)
	}
	return t, nil
}

func parseTimestamp(col, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", col, err)
	}
	return t, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
