package domain

// ContentItem is a piece of learning material scheduled by extent.
// Units are pages for books, episodes for lectures and minutes for custom
// tasks. The scheduled range is [StartUnit, StartUnit+TotalExtent).
type ContentItem struct {
	ID          string
	Type        ContentType
	Title       string
	Subject     string
	SubjectType SubjectType // empty means resolve from subject allocations
	TotalExtent int
	StartUnit   int

	// Strategy only; 0 means the default of 3.
	WeeklyAllocationDays int

	// Lower sorts first; 0 means unset.
	Priority int

	MinutesPerUnit *float64
	EpisodeMinutes []int
	Difficulty     *float64
	Chapter        string
}

// EndUnit is the exclusive end of the content's scheduled range.
func (c ContentItem) EndUnit() int {
	return c.StartUnit + c.TotalExtent
}

// SubjectAllocation assigns a subject type to every content of a subject.
type SubjectAllocation struct {
	Subject              string
	SubjectType          SubjectType
	WeeklyAllocationDays int
}
