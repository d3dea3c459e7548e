package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func tr(start, end string) domain.TimeRange {
	return domain.MustTimeRange(start, end)
}

func book(id string, extent int) domain.ContentItem {
	return domain.ContentItem{
		ID:          id,
		Type:        domain.ContentBook,
		Title:       id,
		TotalExtent: extent,
	}
}
