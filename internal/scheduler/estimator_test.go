package scheduler

import (
	"sync"
	"testing"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func weakBook(id string, extent int) domain.ContentItem {
	c := book(id, extent)
	c.SubjectType = domain.SubjectWeakness
	return c
}

func TestEstimator_StudyAndReview(t *testing.T) {
	e := NewEstimator(domain.LevelMedium, DefaultFactors(), nil, nil)
	span := UnitRange{Start: 0, End: 10}

	weak := weakBook("w", 10)
	assert.Equal(t, 24, e.Study(weak, span).Minutes)
	assert.Equal(t, 10, e.Review(weak, span).Minutes, "round(24*0.4)")

	strat := book("s", 10)
	strat.SubjectType = domain.SubjectStrategy
	assert.Equal(t, 21, e.Study(strat, span).Minutes)
	assert.Equal(t, 8, e.Review(strat, span).Minutes, "round(21*0.4)")

	assert.Equal(t, 6, e.AdditionalStudy(weak, span, 0.25).Minutes)
	assert.Equal(t, 2, e.AdditionalReview(weak, span, 0.25).Minutes)
}

func TestEstimator_Factors(t *testing.T) {
	span := UnitRange{Start: 0, End: 100}
	c := weakBook("w", 100)

	high := NewEstimator(domain.LevelHigh, DefaultFactors(), nil, nil)
	b := high.Study(c, span)
	assert.Equal(t, 204, b.Minutes)
	assert.InDelta(t, 200.0, b.BaseMinutes, 1e-9)
	assert.InDelta(t, 0.85, b.LevelFactor, 1e-9)
	assert.InDelta(t, 1.2, b.SubjectFactor, 1e-9)

	low := NewEstimator(domain.LevelLow, DefaultFactors(), nil, nil)
	assert.Equal(t, 288, low.Study(c, span).Minutes)

	perUnit := 3.0
	difficulty := 1.5
	c2 := weakBook("w2", 10)
	c2.MinutesPerUnit = &perUnit
	assert.Equal(t, 43, low.Study(c2, UnitRange{Start: 0, End: 10}).Minutes, "30 minutes at 1.2 level and 1.2 subject")

	c3 := weakBook("w3", 10)
	c3.Difficulty = &difficulty
	mid := NewEstimator(domain.LevelMedium, DefaultFactors(), nil, nil)
	assert.Equal(t, 36, mid.Study(c3, UnitRange{Start: 0, End: 10}).Minutes)
}

func TestEstimator_Overrides(t *testing.T) {
	review := 0.5
	weakness := 1.0
	f := DefaultFactors().WithOverrides(contract.FactorOverrides{Review: &review, Weakness: &weakness})
	e := NewEstimator(domain.LevelMedium, f, nil, nil)

	c := weakBook("w", 10)
	assert.Equal(t, 20, e.Study(c, UnitRange{Start: 0, End: 10}).Minutes)
	assert.Equal(t, 10, e.Review(c, UnitRange{Start: 0, End: 10}).Minutes)
	assert.InDelta(t, 1.2, DefaultFactors().Subject[domain.SubjectWeakness], 1e-9, "defaults untouched")
}

func TestEstimator_EpisodeTable(t *testing.T) {
	e := NewEstimator(domain.LevelMedium, DefaultFactors(), nil, nil)
	lecture := domain.ContentItem{
		ID:             "lec",
		Type:           domain.ContentLecture,
		SubjectType:    domain.SubjectWeakness,
		TotalExtent:    5,
		EpisodeMinutes: []int{20, 0, 40},
	}
	assert.InDelta(t, 70.0, e.Study(lecture, UnitRange{Start: 1, End: 3}).BaseMinutes, 1e-9)
	assert.InDelta(t, 100.0, e.Study(lecture, UnitRange{Start: 2, End: 5}).BaseMinutes, 1e-9)
	assert.InDelta(t, 60.0, e.Study(lecture, UnitRange{Start: 3, End: 5}).BaseMinutes, 1e-9)
}

func TestEstimator_MinimumOneMinute(t *testing.T) {
	e := NewEstimator(domain.LevelHigh, DefaultFactors(), nil, nil)
	c := domain.ContentItem{ID: "c", Type: domain.ContentCustom, SubjectType: domain.SubjectStrategy, TotalExtent: 1}

	assert.Equal(t, 1, e.Study(c, UnitRange{Start: 0, End: 1}).Minutes)
	assert.Equal(t, 1, e.Review(c, UnitRange{Start: 0, End: 1}).Minutes)
	assert.Equal(t, 0, e.Study(c, UnitRange{Start: 1, End: 1}).Minutes)
}

func TestMetadataCache(t *testing.T) {
	cache := NewMetadataCache()
	e := NewEstimator(domain.LevelMedium, DefaultFactors(), nil, cache)
	c := weakBook("w", 10)

	e.Study(c, UnitRange{Start: 0, End: 10})
	assert.Equal(t, 1, cache.Len())

	// A stale entry survives until invalidated.
	perUnit := 4.0
	c.MinutesPerUnit = &perUnit
	assert.Equal(t, 24, e.Study(c, UnitRange{Start: 0, End: 10}).Minutes)
	cache.Invalidate("w")
	assert.Equal(t, 48, e.Study(c, UnitRange{Start: 0, End: 10}).Minutes)

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
}

func TestMetadataCache_ConcurrentRuns(t *testing.T) {
	cache := NewMetadataCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := NewEstimator(domain.LevelMedium, DefaultFactors(), nil, cache)
			for j := 0; j < 50; j++ {
				e.Study(weakBook("w", 10), UnitRange{Start: 0, End: 10})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.Len())
}
