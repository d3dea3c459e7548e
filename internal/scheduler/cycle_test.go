package scheduler

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCycle_ExclusionDoesNotAdvanceCounter(t *testing.T) {
	start, end := mustDate(t, "2025-03-03"), mustDate(t, "2025-03-17")
	exclusions := []domain.Exclusion{{Date: mustDate(t, "2025-03-10"), Type: domain.ExclusionPersonalReason}}

	days, err := ClassifyCycle(start, end, CycleConfig{StudyDays: 6, ReviewDays: 1}, exclusions)
	require.NoError(t, err)
	require.Len(t, days, 15)

	byDate := make(map[string]domain.DayRecord, len(days))
	for _, d := range days {
		byDate[domain.FormatDate(d.Date)] = d
	}

	for _, s := range []string{"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07", "2025-03-08"} {
		assert.Equal(t, domain.DayStudy, byDate[s].Type(), s)
		assert.Equal(t, 1, byDate[s].CycleNumber(), s)
	}
	assert.Equal(t, domain.DayReview, byDate["2025-03-09"].Type())
	assert.Equal(t, 7, byDate["2025-03-09"].CycleDayNumber())

	excluded := byDate["2025-03-10"]
	assert.Equal(t, domain.DayPersonal, excluded.Type())
	assert.Equal(t, 0, excluded.CycleDayNumber())
	assert.Equal(t, 1, excluded.CycleNumber())
	kind, ok := excluded.Kind.(domain.ExcludedDay)
	require.True(t, ok)
	assert.Equal(t, domain.ExclusionPersonalReason, kind.Exclusion.Type)

	// The eighth active day opens cycle 2.
	assert.Equal(t, domain.DayStudy, byDate["2025-03-11"].Type())
	assert.Equal(t, 1, byDate["2025-03-11"].CycleDayNumber())
	assert.Equal(t, 2, byDate["2025-03-11"].CycleNumber())
	// The skipped exclusion shifts cycle 2 by a day: 03-16 is still study.
	assert.Equal(t, domain.DayStudy, byDate["2025-03-16"].Type())
	assert.Equal(t, 6, byDate["2025-03-16"].CycleDayNumber())
	assert.Equal(t, domain.DayReview, byDate["2025-03-17"].Type())
	assert.Equal(t, 7, byDate["2025-03-17"].CycleDayNumber())
	assert.Equal(t, 2, byDate["2025-03-17"].WeekNumber)
}

func TestClassifyCycle_ContinuousMode(t *testing.T) {
	days, err := ClassifyCycle(mustDate(t, "2025-03-01"), mustDate(t, "2025-03-31"), ContinuousCycle(), nil)
	require.NoError(t, err)
	for _, d := range days {
		assert.Equal(t, domain.DayStudy, d.Type())
	}
	assert.Equal(t, 5, days[len(days)-1].CycleNumber())
}

func TestClassifyCycle_ConfigErrors(t *testing.T) {
	start, end := mustDate(t, "2025-03-03"), mustDate(t, "2025-03-09")
	tests := []struct {
		name       string
		start, end string
		cfg        CycleConfig
		code       contract.ConfigErrorCode
	}{
		{"cycle too long", "2025-03-03", "2025-03-09", CycleConfig{StudyDays: 6, ReviewDays: 2}, contract.ErrInvalidCycle},
		{"no study days", "2025-03-03", "2025-03-09", CycleConfig{StudyDays: 0, ReviewDays: 1}, contract.ErrInvalidCycle},
		{"negative review", "2025-03-03", "2025-03-09", CycleConfig{StudyDays: 3, ReviewDays: -1}, contract.ErrInvalidCycle},
		{"inverted period", "2025-03-09", "2025-03-03", CycleConfig{StudyDays: 6, ReviewDays: 1}, contract.ErrEmptyPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ClassifyCycle(mustDate(t, tt.start), mustDate(t, tt.end), tt.cfg, nil)
			var cfgErr *contract.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.code, cfgErr.Code)
		})
	}

	_, err := ClassifyCycle(start, end, CycleConfig{StudyDays: 6, ReviewDays: 1}, []domain.Exclusion{
		{Date: start, Type: domain.ExclusionVacation},
		{Date: start, Type: domain.ExclusionVacation},
	})
	var cfgErr *contract.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, contract.ErrDuplicateExclusion, cfgErr.Code)
}

func TestClassifyCycle_Property_ActiveDaysFollowPattern(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	start := mustDate(t, "2025-01-01")

	for iter := 0; iter < 200; iter++ {
		study := 1 + rng.Intn(7)
		review := rng.Intn(8 - study)
		cfg := CycleConfig{StudyDays: study, ReviewDays: review}
		end := start.AddDate(0, 0, rng.Intn(90))

		var exclusions []domain.Exclusion
		for _, d := range domain.DatesBetween(start, end) {
			if rng.Intn(5) == 0 {
				exclusions = append(exclusions, domain.Exclusion{Date: d, Type: domain.ExclusionOther})
			}
		}

		days, err := ClassifyCycle(start, end, cfg, exclusions)
		require.NoError(t, err)
		require.Len(t, days, len(domain.DatesBetween(start, end)))

		active := 0
		for _, d := range days {
			if !d.IsActive() {
				assert.Equal(t, 0, d.CycleDayNumber())
				continue
			}
			pos := active % cfg.Length()
			assert.Equal(t, pos+1, d.CycleDayNumber(), "iter %d", iter)
			assert.Equal(t, active/cfg.Length()+1, d.CycleNumber(), "iter %d", iter)
			if pos < study {
				assert.Equal(t, domain.DayStudy, d.Type())
			} else {
				assert.Equal(t, domain.DayReview, d.Type())
			}
			active++
		}
	}
}
