package app

import "github.com/alexanderramin/studyplan/internal/domain"

type RescheduleRequest struct {
	GroupID      string
	Today        string
	IncludeToday bool
	ContentIDs   []string // empty means every content in the group

	// Optional replacement period for the catch-up pass.
	PeriodStart *string
	PeriodEnd   *string

	DryRun bool
}

func NewRescheduleRequest(groupID, today string) RescheduleRequest {
	return RescheduleRequest{GroupID: groupID, Today: today}
}

type RescheduleResponse struct {
	GroupID      string
	ReplanFrom   string
	Bounds       []domain.UncompletedBounds
	Adjusted     []domain.ContentItem
	CanceledRows int
	RemovedRows  int
	CreatedRows  int
	Plan         *PlanResponse
}
