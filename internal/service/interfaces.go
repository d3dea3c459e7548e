package service

import (
	"context"

	"github.com/alexanderramin/studyplan/internal/app"
	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// GroupDetail is a plan group with everything stored under it.
type GroupDetail struct {
	Group      *domain.PlanGroup
	Blocks     []domain.RecurringBlock
	Exclusions []domain.Exclusion
	Academies  []domain.AcademyConflict
	Contents   []domain.ContentItem
}

type GroupService interface {
	List(ctx context.Context) ([]*domain.PlanGroup, error)
	Get(ctx context.Context, id string) (*GroupDetail, error)
	Delete(ctx context.Context, id string) error
}

// PlanService runs the engine over stored groups. A nil policy uses the
// group's own shortfall policy.
type PlanService interface {
	app.PreviewPlanUseCase
	app.CommitPlanUseCase
	PreviewBatch(ctx context.Context, groupIDs []string, policy *domain.ShortfallPolicy) ([]*contract.PlanResponse, error)
	ListRows(ctx context.Context, groupID string, from, to string) ([]*domain.PlanRow, error)
}

type RescheduleService interface {
	app.RescheduleUseCase
}

type ProgressService interface {
	app.RecordProgressUseCase
}

type ImportService interface {
	app.ImportGroupUseCase
}
