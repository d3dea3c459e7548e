package app

import (
	"context"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/importer"
)

type PreviewPlanUseCase interface {
	Preview(ctx context.Context, groupID string, policy *domain.ShortfallPolicy) (*PlanResponse, error)
}

type CommitPlanUseCase interface {
	Commit(ctx context.Context, groupID string, policy *domain.ShortfallPolicy) (*CommitResult, error)
}

type RescheduleUseCase interface {
	Reschedule(ctx context.Context, req RescheduleRequest) (*RescheduleResponse, error)
}

type RecordProgressUseCase interface {
	Record(ctx context.Context, rowID string, completedAmount int) (*domain.PlanRow, error)
}

// CommitResult reports what a plan commit wrote.
type CommitResult struct {
	GroupID     string
	RemovedRows int
	CreatedRows int
	Plan        *PlanResponse
}

type ImportResult struct {
	Group          *domain.PlanGroup
	BlockCount     int
	ExclusionCount int
	AcademyCount   int
	ContentCount   int
}

type ImportGroupUseCase interface {
	ImportGroup(ctx context.Context, filePath string) (*ImportResult, error)
	ImportGroupFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
