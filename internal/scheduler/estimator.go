package scheduler

import (
	"math"
	"sync"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// Factors is the multiplicative duration model.
type Factors struct {
	Level          map[domain.StudentLevel]float64
	Subject        map[domain.SubjectType]float64
	Difficulty     float64
	Review         float64
	ReviewOfReview float64
}

// DefaultFactors returns the baseline multipliers: level, subject type,
// review share and the review-of-review share.
func DefaultFactors() Factors {
	return Factors{
		Level: map[domain.StudentLevel]float64{
			domain.LevelHigh:   0.85,
			domain.LevelMedium: 1.0,
			domain.LevelLow:    1.2,
		},
		Subject: map[domain.SubjectType]float64{
			domain.SubjectWeakness: 1.2,
			domain.SubjectStrategy: 1.05,
		},
		Difficulty:     1.0,
		Review:         0.4,
		ReviewOfReview: 0.25,
	}
}

// WithOverrides returns a copy of f with every non-nil override applied.
func (f Factors) WithOverrides(o contract.FactorOverrides) Factors {
	out := Factors{
		Level:          make(map[domain.StudentLevel]float64, len(f.Level)),
		Subject:        make(map[domain.SubjectType]float64, len(f.Subject)),
		Difficulty:     domain.Float64FromPtrWithDefault(f.Difficulty, o.Difficulty),
		Review:         domain.Float64FromPtrWithDefault(f.Review, o.Review),
		ReviewOfReview: domain.Float64FromPtrWithDefault(f.ReviewOfReview, o.ReviewOfReview),
	}
	for k, v := range f.Level {
		out.Level[k] = v
	}
	for k, v := range f.Subject {
		out.Subject[k] = v
	}
	out.Level[domain.LevelHigh] = domain.Float64FromPtrWithDefault(out.Level[domain.LevelHigh], o.LevelHigh)
	out.Level[domain.LevelMedium] = domain.Float64FromPtrWithDefault(out.Level[domain.LevelMedium], o.LevelMedium)
	out.Level[domain.LevelLow] = domain.Float64FromPtrWithDefault(out.Level[domain.LevelLow], o.LevelLow)
	out.Subject[domain.SubjectWeakness] = domain.Float64FromPtrWithDefault(out.Subject[domain.SubjectWeakness], o.Weakness)
	out.Subject[domain.SubjectStrategy] = domain.Float64FromPtrWithDefault(out.Subject[domain.SubjectStrategy], o.Strategy)
	return out
}

// RateTable is the base minutes per unit for each content type.
type RateTable map[domain.ContentType]float64

// DefaultRates: 2 minutes per page, 30 per episode, 1 per custom unit.
func DefaultRates() RateTable {
	return RateTable{
		domain.ContentBook:    2,
		domain.ContentLecture: 30,
		domain.ContentCustom:  1,
	}
}

type contentMetadata struct {
	perUnit float64
	// prefix[i] is the minutes for units [0, i) of the episode table.
	prefix []float64
}

// MetadataCache memoises per-content unit costs. It is owned by the caller:
// scope one to a run, or share one across runs and call Invalidate when a
// content's metadata changes. Safe for concurrent use.
type MetadataCache struct {
	mu      sync.RWMutex
	entries map[string]contentMetadata
}

// NewMetadataCache returns an empty cache.
func NewMetadataCache() *MetadataCache {
	return &MetadataCache{entries: make(map[string]contentMetadata)}
}

// Invalidate drops one content's entry.
func (c *MetadataCache) Invalidate(contentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, contentID)
}

// Reset drops every entry.
func (c *MetadataCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]contentMetadata)
}

func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MetadataCache) lookup(item domain.ContentItem, rates RateTable) contentMetadata {
	c.mu.RLock()
	m, ok := c.entries[item.ID]
	c.mu.RUnlock()
	if ok {
		return m
	}

	m = contentMetadata{perUnit: domain.Float64FromPtrWithDefault(rates[item.Type], item.MinutesPerUnit)}
	if len(item.EpisodeMinutes) > 0 {
		m.prefix = make([]float64, len(item.EpisodeMinutes)+1)
		for i, ep := range item.EpisodeMinutes {
			cost := m.perUnit
			if ep > 0 {
				cost = float64(ep)
			}
			m.prefix[i+1] = m.prefix[i] + cost
		}
	}

	c.mu.Lock()
	c.entries[item.ID] = m
	c.mu.Unlock()
	return m
}

// unitsCost is the raw minutes for units [start, end).
func (m contentMetadata) unitsCost(start, end int) float64 {
	if end <= start {
		return 0
	}
	n := len(m.prefix) - 1
	if n <= 0 {
		return m.perUnit * float64(end-start)
	}
	cost := 0.0
	if start < n {
		cost += m.prefix[min(end, n)] - m.prefix[start]
	}
	if end > n {
		cost += m.perUnit * float64(end-max(start, n))
	}
	return cost
}

// Breakdown explains how an estimate was reached.
type Breakdown struct {
	BaseMinutes          float64
	LevelFactor          float64
	SubjectFactor        float64
	DifficultyFactor     float64
	ReviewFactor         float64
	ReviewOfReviewFactor float64
	Minutes              int
}

// Estimator converts unit spans into minutes for one student level.
type Estimator struct {
	level   domain.StudentLevel
	factors Factors
	rates   RateTable
	cache   *MetadataCache
}

// NewEstimator builds an Estimator. A nil cache gets a fresh private one.
func NewEstimator(level domain.StudentLevel, factors Factors, rates RateTable, cache *MetadataCache) *Estimator {
	if cache == nil {
		cache = NewMetadataCache()
	}
	if rates == nil {
		rates = DefaultRates()
	}
	return &Estimator{level: level, factors: factors, rates: rates, cache: cache}
}

func (e *Estimator) studyBreakdown(c domain.ContentItem, span UnitRange) Breakdown {
	b := Breakdown{
		BaseMinutes:          e.cache.lookup(c, e.rates).unitsCost(span.Start, span.End),
		LevelFactor:          e.factors.Level[e.level],
		SubjectFactor:        e.factors.Subject[c.SubjectType],
		DifficultyFactor:     domain.Float64FromPtrWithDefault(e.factors.Difficulty, c.Difficulty),
		ReviewFactor:         1,
		ReviewOfReviewFactor: 1,
	}
	if b.LevelFactor == 0 {
		b.LevelFactor = 1
	}
	if b.SubjectFactor == 0 {
		b.SubjectFactor = 1
	}
	raw := b.BaseMinutes * b.LevelFactor * b.SubjectFactor * b.DifficultyFactor
	b.Minutes = roundMinutes(raw, span.Extent())
	return b
}

// Study estimates a first-pass session over span.
func (e *Estimator) Study(c domain.ContentItem, span UnitRange) Breakdown {
	return e.studyBreakdown(c, span)
}

// Review estimates a review session. The span is the full range studied in
// the cycle; its study-equivalent duration is rounded first, then
// discounted by the review factor.
func (e *Estimator) Review(c domain.ContentItem, span UnitRange) Breakdown {
	b := e.studyBreakdown(c, span)
	b.ReviewFactor = e.factors.Review
	b.Minutes = roundMinutes(float64(b.Minutes)*b.ReviewFactor, span.Extent())
	return b
}

// AdditionalStudy estimates a review-of-review session on a study day of
// an additional period.
func (e *Estimator) AdditionalStudy(c domain.ContentItem, span UnitRange, reviewOfReview float64) Breakdown {
	b := e.studyBreakdown(c, span)
	b.ReviewOfReviewFactor = reviewOfReview
	b.Minutes = roundMinutes(float64(b.Minutes)*reviewOfReview, span.Extent())
	return b
}

// AdditionalReview estimates a review day of an additional period: the full
// span discounted by both the review and review-of-review factors.
func (e *Estimator) AdditionalReview(c domain.ContentItem, span UnitRange, reviewOfReview float64) Breakdown {
	b := e.studyBreakdown(c, span)
	b.ReviewFactor = e.factors.Review
	b.ReviewOfReviewFactor = reviewOfReview
	b.Minutes = roundMinutes(float64(b.Minutes)*b.ReviewFactor*reviewOfReview, span.Extent())
	return b
}

// roundMinutes rounds to the nearest minute; non-empty work is at least 1.
func roundMinutes(raw float64, extent int) int {
	m := int(math.Round(raw))
	if extent > 0 && m < 1 {
		return 1
	}
	if m < 0 {
		return 0
	}
	return m
}
