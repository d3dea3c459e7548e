package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// Planner runs the scheduling pipeline. It holds no per-run state and is
// safe for concurrent use; only a shared MetadataCache is touched by
// concurrent runs.
type Planner struct {
	factors Factors
	rates   RateTable
	cache   *MetadataCache
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithFactors replaces the default duration factors.
func WithFactors(f Factors) PlannerOption {
	return func(p *Planner) { p.factors = f }
}

func WithRates(r RateTable) PlannerOption {
	return func(p *Planner) { p.rates = r }
}

// WithMetadataCache shares a caller-owned cache across runs. Without it each
// run gets its own cache.
func WithMetadataCache(c *MetadataCache) PlannerOption {
	return func(p *Planner) { p.cache = c }
}

// NewPlanner returns a planner with default factors and rates, then applies
// opts in order.
func NewPlanner(opts ...PlannerOption) *Planner {
	p := &Planner{factors: DefaultFactors(), rates: DefaultRates()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run is the validated, resolved state of one request.
type run struct {
	req        contract.PlanRequest
	start      time.Time
	end        time.Time
	cycle      CycleConfig
	contents   []domain.ContentItem
	byID       map[string]domain.ContentItem
	bookings   map[string][]domain.TimeRange
	windows    Windows
	factors    Factors
	policy     domain.ShortfallPolicy
	estimator  *Estimator
	days       []domain.DayRecord
	summary    contract.AvailabilitySummary
	additional *additionalPeriod
}

type additionalPeriod struct {
	start, end                 time.Time
	originalStart, originalEnd time.Time
	subjects                   map[string]bool
	factor                     float64
}

func (p *Planner) prepare(req contract.PlanRequest) (*run, error) {
	start, err := domain.ParseDate(req.PeriodStart)
	if err != nil {
		return nil, contract.NewConfigError(contract.ErrInvalidPeriod, "period start: %v", err)
	}
	end, err := domain.ParseDate(req.PeriodEnd)
	if err != nil {
		return nil, contract.NewConfigError(contract.ErrInvalidPeriod, "period end: %v", err)
	}
	if end.Before(start) {
		return nil, contract.NewConfigError(contract.ErrEmptyPeriod, "period ends %s before it starts %s", req.PeriodEnd, req.PeriodStart)
	}

	r := &run{
		req:     req,
		start:   start,
		end:     end,
		cycle:   CycleConfig{StudyDays: req.StudyDays, ReviewDays: req.ReviewDays},
		windows: ResolveWindows(req.Windows),
		factors: p.factors.WithOverrides(req.Factors),
		policy:  req.ShortfallPolicy,
	}
	if err := r.cycle.Validate(); err != nil {
		return nil, err
	}
	if r.policy == "" {
		r.policy = domain.ShortfallReport
	}
	if !r.policy.Valid() {
		return nil, contract.NewConfigError(contract.ErrInvalidPolicy, "unknown shortfall policy %q", req.ShortfallPolicy)
	}
	level := req.StudentLevel
	if level == "" {
		level = domain.LevelMedium
	}
	if !level.Valid() {
		return nil, contract.NewConfigError(contract.ErrInvalidLevel, "unknown student level %q", req.StudentLevel)
	}
	if err := validateFactors(r.factors); err != nil {
		return nil, err
	}

	if err := validateContents(req.Contents); err != nil {
		return nil, err
	}
	r.contents, err = ResolveContents(req.Contents, req.SubjectAllocations)
	if err != nil {
		return nil, err
	}
	r.byID = make(map[string]domain.ContentItem, len(r.contents))
	for _, c := range r.contents {
		r.byID[c.ID] = c
	}

	r.bookings = make(map[string][]domain.TimeRange)
	for _, b := range req.Bookings {
		d, err := domain.ParseDate(b.Date)
		if err != nil {
			return nil, contract.NewConfigError(contract.ErrInvalidPeriod, "booking: %v", err)
		}
		if !b.Range.Valid() {
			return nil, contract.NewConfigError(contract.ErrInvalidTimeRange, "booking %s on %s must end after it starts", b.Range, b.Date)
		}
		key := domain.FormatDate(d)
		r.bookings[key] = append(r.bookings[key], b.Range)
	}

	if req.AdditionalPeriod != nil {
		r.additional, err = parseAdditional(*req.AdditionalPeriod, end, r.factors.ReviewOfReview)
		if err != nil {
			return nil, err
		}
	}

	cache := p.cache
	if cache == nil {
		cache = NewMetadataCache()
	}
	r.estimator = NewEstimator(level, r.factors, p.rates, cache)

	r.days, r.summary, err = r.buildDays(start, end)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func validateFactors(f Factors) error {
	check := map[string]float64{
		"difficulty":       f.Difficulty,
		"review":           f.Review,
		"review of review": f.ReviewOfReview,
	}
	for k, v := range f.Level {
		check["level "+string(k)] = v
	}
	for k, v := range f.Subject {
		check["subject "+string(k)] = v
	}
	names := make([]string, 0, len(check))
	for name := range check {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if check[name] <= 0 {
			return contract.NewConfigError(contract.ErrInvalidFactor, "%s factor must be positive, got %v", name, check[name])
		}
	}
	return nil
}

func validateContents(contents []domain.ContentItem) error {
	seen := make(map[string]bool, len(contents))
	for _, c := range contents {
		if strings.TrimSpace(c.ID) == "" {
			return contract.NewConfigError(contract.ErrInvalidContent, "content id is required")
		}
		if seen[c.ID] {
			return contract.NewConfigError(contract.ErrDuplicateContent, "content %s appears more than once", c.ID)
		}
		seen[c.ID] = true
		if !c.Type.Valid() {
			return contract.NewConfigError(contract.ErrInvalidContent, "content %s has unknown type %q", c.ID, c.Type)
		}
		if c.TotalExtent < 0 || c.StartUnit < 0 {
			return contract.NewConfigError(contract.ErrInvalidContent, "content %s has negative extent or start unit", c.ID)
		}
		if c.Priority < 0 {
			return contract.NewConfigError(contract.ErrInvalidContent, "content %s has negative priority", c.ID)
		}
		if c.MinutesPerUnit != nil && *c.MinutesPerUnit <= 0 {
			return contract.NewConfigError(contract.ErrInvalidContent, "content %s minutes per unit must be positive", c.ID)
		}
		if c.Difficulty != nil && *c.Difficulty <= 0 {
			return contract.NewConfigError(contract.ErrInvalidContent, "content %s difficulty must be positive", c.ID)
		}
	}
	return nil
}

func parseAdditional(a contract.AdditionalPeriodRequest, mainEnd time.Time, defaultFactor float64) (*additionalPeriod, error) {
	parse := func(name, s string) (time.Time, error) {
		d, err := domain.ParseDate(s)
		if err != nil {
			return time.Time{}, contract.NewConfigError(contract.ErrInvalidPeriod, "additional period %s: %v", name, err)
		}
		return d, nil
	}
	out := &additionalPeriod{subjects: make(map[string]bool, len(a.Subjects))}
	var err error
	if out.start, err = parse("start", a.PeriodStart); err != nil {
		return nil, err
	}
	if out.end, err = parse("end", a.PeriodEnd); err != nil {
		return nil, err
	}
	if out.originalStart, err = parse("original start", a.OriginalStart); err != nil {
		return nil, err
	}
	if out.originalEnd, err = parse("original end", a.OriginalEnd); err != nil {
		return nil, err
	}
	if out.end.Before(out.start) || out.originalEnd.Before(out.originalStart) {
		return nil, contract.NewConfigError(contract.ErrInvalidPeriod, "additional period bounds are inverted")
	}
	if !out.start.After(mainEnd) {
		return nil, contract.NewConfigError(contract.ErrInvalidPeriod, "additional period must start after %s", domain.FormatDate(mainEnd))
	}
	out.factor = domain.Float64FromPtrWithDefault(defaultFactor, a.ReviewOfReviewFactor)
	if out.factor <= 0 {
		return nil, contract.NewConfigError(contract.ErrInvalidFactor, "review of review factor must be positive, got %v", out.factor)
	}
	for _, s := range a.Subjects {
		if n := normalizeSubject(s); n != "" {
			out.subjects[n] = true
		}
	}
	return out, nil
}

// buildDays classifies [start, end] and attaches each date's availability.
func (r *run) buildDays(start, end time.Time) ([]domain.DayRecord, contract.AvailabilitySummary, error) {
	days, err := ClassifyCycle(start, end, r.cycle, r.req.Exclusions)
	if err != nil {
		return nil, contract.AvailabilitySummary{}, err
	}
	avail, summary, err := BuildAvailability(AvailabilityInput{
		Start:      start,
		End:        end,
		Blocks:     r.req.Blocks,
		Exclusions: r.req.Exclusions,
		Academies:  r.req.Academies,
		Bookings:   r.bookings,
		Windows:    r.windows,
	})
	if err != nil {
		return nil, summary, err
	}
	for i := range days {
		days[i].Ranges = avail[i].Ranges
		days[i].SelfStudy = avail[i].SelfStudy
		days[i].Slots = avail[i].Slots
		switch days[i].Kind.(type) {
		case domain.StudyDay:
			summary.StudyDays++
		case domain.ReviewDay:
			summary.ReviewDays++
		}
	}
	return days, summary, nil
}

// Plan computes the full schedule from scratch: allocation, division,
// estimation and timeline packing.
func (p *Planner) Plan(req contract.PlanRequest) (*contract.PlanResponse, error) {
	r, err := p.prepare(req)
	if err != nil {
		return nil, err
	}

	// Step 1: place contents on days.
	resp := &contract.PlanResponse{Summary: r.summary}
	alloc := Allocate(r.days, r.contents)
	resp.Allocations = alloc.Allocations
	resp.Diagnostics = append(resp.Diagnostics, alloc.Diagnostics...)
	if r.summary.StudyDays == 0 {
		resp.Diagnostics = append(resp.Diagnostics, contract.Diagnostic{
			Code:    contract.DiagNoStudyDays,
			Message: fmt.Sprintf("no study days between %s and %s", req.PeriodStart, req.PeriodEnd),
		})
	}

	// Step 2: divide each content's units over its days and price them.
	work := make(map[string][]Assignment)
	for _, c := range r.contents {
		for _, ra := range AssignRanges(c, alloc.Dates[c.ID]) {
			resp.Assignments = append(resp.Assignments, ra)
			b := r.estimator.Study(c, UnitRange{Start: ra.StartUnit, End: ra.EndUnit})
			r.addWork(work, resp, c, ra.Date, domain.SessionStudy, b.Minutes, ra.StartUnit, ra.EndUnit)
		}
	}
	// Step 3: review days re-cover the cycle's study spans.
	r.addReviews(work, resp, r.days, func(c domain.ContentItem, span UnitRange) int {
		return r.estimator.Review(c, span).Minutes
	}, domain.SessionReview)

	// Step 4: pack each day into its free ranges.
	if err := r.pack(resp, r.days, work, false); err != nil {
		return nil, err
	}

	if r.additional != nil {
		if err := r.planAdditional(resp); err != nil {
			return nil, err
		}
	}

	if len(resp.Segments) == 0 {
		resp.Diagnostics = append(resp.Diagnostics, contract.Diagnostic{
			Code:    contract.DiagNoPlansGenerated,
			Message: "no plan segments were generated",
		})
	}
	finish(resp)
	return resp, nil
}

func (r *run) addWork(work map[string][]Assignment, resp *contract.PlanResponse, c domain.ContentItem, date time.Time, kind domain.SessionKind, minutes, startUnit, endUnit int) {
	key := domain.FormatDate(date)
	work[key] = append(work[key], Assignment{
		ContentID:   c.ID,
		SubjectType: c.SubjectType,
		Priority:    c.Priority,
		Kind:        kind,
		Minutes:     minutes,
		StartUnit:   startUnit,
		EndUnit:     endUnit,
	})
	resp.Estimates = append(resp.Estimates, domain.DurationEstimate{
		ContentID: c.ID,
		Date:      date,
		Kind:      kind,
		Minutes:   minutes,
	})
}

// addReviews schedules every review day of days. A review day covers, per
// content, the full unit span assigned on that cycle's study days.
func (r *run) addReviews(work map[string][]Assignment, resp *contract.PlanResponse, days []domain.DayRecord, minutes func(domain.ContentItem, UnitRange) int, kind domain.SessionKind) {
	cycleOf := make(map[string]int, len(days))
	for _, d := range days {
		cycleOf[domain.FormatDate(d.Date)] = d.CycleNumber()
	}
	type spanKey struct {
		cycle     int
		contentID string
	}
	spans := make(map[spanKey]UnitRange)
	for _, ra := range resp.Assignments {
		n, ok := cycleOf[domain.FormatDate(ra.Date)]
		if !ok {
			continue
		}
		k := spanKey{n, ra.ContentID}
		if s, seen := spans[k]; seen {
			spans[k] = UnitRange{Start: min(s.Start, ra.StartUnit), End: max(s.End, ra.EndUnit)}
		} else {
			spans[k] = UnitRange{Start: ra.StartUnit, End: ra.EndUnit}
		}
	}

	for _, d := range days {
		rd, ok := d.Kind.(domain.ReviewDay)
		if !ok {
			continue
		}
		for _, c := range r.contents {
			span, ok := spans[spanKey{rd.CycleNumber, c.ID}]
			if !ok || span.Extent() <= 0 {
				continue
			}
			r.addWork(work, resp, c, d.Date, kind, minutes(c, span), span.Start, span.End)
		}
	}
}

// pack runs the timeline builder over days in order, applying the shortfall
// policy, and appends day plans, segments and diagnostics to resp.
func (r *run) pack(resp *contract.PlanResponse, days []domain.DayRecord, work map[string][]Assignment, additional bool) error {
	var carry []Assignment
	for _, d := range days {
		key := domain.FormatDate(d.Date)
		if !d.IsActive() {
			resp.Days = append(resp.Days, dayPlan(d, nil, additional))
			continue
		}

		list := make([]Assignment, 0, len(carry)+len(work[key]))
		list = append(list, carry...)
		list = append(list, work[key]...)
		SortAssignments(list)

		tl := BuildTimeline(d.Date, list, d.Ranges, d.SelfStudy)
		for _, sf := range tl.Shortfalls {
			diag := contract.NewShortfallDiagnostic(d.Date, d.WeekNumber, sf.ContentID, sf.Required, sf.Placed)
			if r.policy == domain.ShortfallAbort {
				return &contract.InfeasibleError{Diagnostic: diag}
			}
			resp.Diagnostics = append(resp.Diagnostics, diag)
		}
		carry = nil
		if r.policy == domain.ShortfallCarryOver {
			carry = tl.Leftover
		}

		resp.Segments = append(resp.Segments, tl.Segments...)
		resp.Days = append(resp.Days, dayPlan(d, tl.Segments, additional))
	}

	for _, a := range carry {
		resp.Diagnostics = append(resp.Diagnostics, contract.Diagnostic{
			Code:        contract.DiagCarryOverUnplaced,
			ContentID:   a.ContentID,
			RequiredMin: a.Minutes,
			ShortageMin: a.Minutes,
			Message:     fmt.Sprintf("%d minutes of %s could not be placed before the period ended", a.Minutes, a.ContentID),
		})
	}
	return nil
}

// planAdditional re-reviews each content's original-period span over the
// additional period: study days share the span, review days take it whole.
func (r *run) planAdditional(resp *contract.PlanResponse) error {
	ap := r.additional
	days, _, err := r.buildDays(ap.start, ap.end)
	if err != nil {
		return err
	}

	spans := make(map[string]UnitRange)
	for _, ra := range resp.Assignments {
		if ra.Date.Before(ap.originalStart) || ra.Date.After(ap.originalEnd) || ra.Extent() <= 0 {
			continue
		}
		if s, ok := spans[ra.ContentID]; ok {
			spans[ra.ContentID] = UnitRange{Start: min(s.Start, ra.StartUnit), End: max(s.End, ra.EndUnit)}
		} else {
			spans[ra.ContentID] = UnitRange{Start: ra.StartUnit, End: ra.EndUnit}
		}
	}

	var studyDates []time.Time
	for _, d := range days {
		if _, ok := d.Kind.(domain.StudyDay); ok {
			studyDates = append(studyDates, d.Date)
		}
	}

	work := make(map[string][]Assignment)
	for _, c := range r.contents {
		span, ok := spans[c.ID]
		if !ok {
			continue
		}
		if len(ap.subjects) > 0 && !ap.subjects[normalizeSubject(c.Subject)] {
			continue
		}
		for _, ra := range assignSpan(c.ID, span, studyDates) {
			resp.Assignments = append(resp.Assignments, ra)
			b := r.estimator.AdditionalStudy(c, UnitRange{Start: ra.StartUnit, End: ra.EndUnit}, ap.factor)
			r.addWork(work, resp, c, ra.Date, domain.SessionAdditionalReview, b.Minutes, ra.StartUnit, ra.EndUnit)
		}
		for _, d := range days {
			if _, ok := d.Kind.(domain.ReviewDay); !ok {
				continue
			}
			b := r.estimator.AdditionalReview(c, span, ap.factor)
			r.addWork(work, resp, c, d.Date, domain.SessionAdditionalReview, b.Minutes, span.Start, span.End)
		}
	}
	return r.pack(resp, days, work, true)
}

// PlanFromSegments accepts timelines the caller already resolved and skips
// packing. Segments are validated against the period and the content list,
// then numbered per day by start time.
func (p *Planner) PlanFromSegments(req contract.PlanRequest, segments []domain.TimelineSegment) (*contract.PlanResponse, error) {
	r, err := p.prepare(req)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]domain.TimelineSegment)
	for _, s := range segments {
		if _, ok := r.byID[s.ContentID]; !ok {
			return nil, contract.NewConfigError(contract.ErrInvalidSegment, "segment references unknown content %q", s.ContentID)
		}
		date := domain.TruncateDate(s.Date)
		if date.Before(r.start) || date.After(r.end) {
			return nil, contract.NewConfigError(contract.ErrInvalidSegment, "segment for %s on %s is outside the period", s.ContentID, domain.FormatDate(date))
		}
		if !(domain.TimeRange{Start: s.Start, End: s.End}).Valid() {
			return nil, contract.NewConfigError(contract.ErrInvalidSegment, "segment for %s on %s has invalid time %s-%s", s.ContentID, domain.FormatDate(date), s.Start, s.End)
		}
		if s.EndUnit < s.StartUnit {
			return nil, contract.NewConfigError(contract.ErrInvalidSegment, "segment for %s on %s has decreasing units", s.ContentID, domain.FormatDate(date))
		}
		s.Date = date
		if s.Kind == "" {
			s.Kind = domain.SessionStudy
		}
		key := domain.FormatDate(date)
		byDate[key] = append(byDate[key], s)
	}

	resp := &contract.PlanResponse{Summary: r.summary}
	type pairKey struct {
		date      string
		contentID string
	}
	pairs := make(map[pairKey]int)
	for _, d := range r.days {
		key := domain.FormatDate(d.Date)
		segs := byDate[key]
		sort.SliceStable(segs, func(i, j int) bool {
			if segs[i].Start != segs[j].Start {
				return segs[i].Start < segs[j].Start
			}
			return segs[i].ContentID < segs[j].ContentID
		})
		for i := range segs {
			if i > 0 && segs[i].Start < segs[i-1].End {
				return nil, contract.NewConfigError(contract.ErrInvalidSegment, "segments on %s overlap at %s", key, segs[i].Start)
			}
			segs[i].BlockIndex = i + 1

			pk := pairKey{key, segs[i].ContentID}
			if at, ok := pairs[pk]; ok {
				ra := &resp.Assignments[at]
				ra.StartUnit = min(ra.StartUnit, segs[i].StartUnit)
				ra.EndUnit = max(ra.EndUnit, segs[i].EndUnit)
			} else {
				pairs[pk] = len(resp.Assignments)
				resp.Allocations = append(resp.Allocations, domain.Allocation{ContentID: segs[i].ContentID, Date: d.Date})
				resp.Assignments = append(resp.Assignments, domain.RangeAssignment{
					ContentID: segs[i].ContentID,
					Date:      d.Date,
					StartUnit: segs[i].StartUnit,
					EndUnit:   segs[i].EndUnit,
				})
			}
			resp.Estimates = append(resp.Estimates, domain.DurationEstimate{
				ContentID: segs[i].ContentID,
				Date:      d.Date,
				Kind:      segs[i].Kind,
				Minutes:   segs[i].Minutes(),
			})
		}
		resp.Segments = append(resp.Segments, segs...)
		resp.Days = append(resp.Days, dayPlan(d, segs, false))
	}

	if len(resp.Segments) == 0 {
		resp.Diagnostics = append(resp.Diagnostics, contract.Diagnostic{
			Code:    contract.DiagNoPlansGenerated,
			Message: "no plan segments were supplied",
		})
	}
	finish(resp)
	return resp, nil
}

func dayPlan(d domain.DayRecord, segs []domain.TimelineSegment, additional bool) contract.DayPlan {
	scheduled := 0
	for _, s := range segs {
		scheduled += s.Minutes()
	}
	return contract.DayPlan{
		Date:           domain.FormatDate(d.Date),
		Weekday:        d.Date.Weekday().String(),
		DayType:        d.Type(),
		CycleNumber:    d.CycleNumber(),
		CycleDayNumber: d.CycleDayNumber(),
		WeekNumber:     d.WeekNumber,
		Additional:     additional,
		AvailableMin:   d.AvailableMinutes(),
		SelfStudyMin:   domain.SumMinutes(d.SelfStudy),
		ScheduledMin:   scheduled,
		Ranges:         d.Ranges,
		SelfStudy:      d.SelfStudy,
		Slots:          d.Slots,
		Segments:       segs,
	}
}

// finish puts the flat response lists into a stable order.
func finish(resp *contract.PlanResponse) {
	sort.SliceStable(resp.Assignments, func(i, j int) bool {
		a, b := resp.Assignments[i], resp.Assignments[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ContentID != b.ContentID {
			return a.ContentID < b.ContentID
		}
		return a.StartUnit < b.StartUnit
	})
	sort.SliceStable(resp.Estimates, func(i, j int) bool {
		a, b := resp.Estimates[i], resp.Estimates[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ContentID != b.ContentID {
			return a.ContentID < b.ContentID
		}
		return a.Kind < b.Kind
	})
}
