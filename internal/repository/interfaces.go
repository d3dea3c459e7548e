package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

type PlanGroupRepo interface {
	Create(ctx context.Context, g *domain.PlanGroup) error
	GetByID(ctx context.Context, id string) (*domain.PlanGroup, error)
	List(ctx context.Context) ([]*domain.PlanGroup, error)
	Update(ctx context.Context, g *domain.PlanGroup) error
	Delete(ctx context.Context, id string) error
}

// CalendarRepo stores the weekly blocks, exclusions and academy conflicts of
// a plan group.
type CalendarRepo interface {
	CreateBlock(ctx context.Context, groupID string, b domain.RecurringBlock) error
	ListBlocks(ctx context.Context, groupID string) ([]domain.RecurringBlock, error)
	CreateExclusion(ctx context.Context, groupID string, e domain.Exclusion) error
	ListExclusions(ctx context.Context, groupID string) ([]domain.Exclusion, error)
	CreateAcademy(ctx context.Context, groupID string, a domain.AcademyConflict) error
	ListAcademies(ctx context.Context, groupID string) ([]domain.AcademyConflict, error)
}

type ContentRepo interface {
	Create(ctx context.Context, groupID string, seq int, c domain.ContentItem) error
	GetByID(ctx context.Context, id string) (*domain.ContentItem, error)
	ListByGroup(ctx context.Context, groupID string) ([]domain.ContentItem, error)
	UpdateRange(ctx context.Context, id string, startUnit, totalExtent int) error
}

// PlanRowFilter narrows ListByGroup. Zero dates are open bounds.
type PlanRowFilter struct {
	From     time.Time
	To       time.Time
	Statuses []domain.PlanStatus
}

type PlanRowRepo interface {
	CreateBatch(ctx context.Context, rows []*domain.PlanRow) error
	GetByID(ctx context.Context, id string) (*domain.PlanRow, error)
	Update(ctx context.Context, row *domain.PlanRow) error
	ListByGroup(ctx context.Context, groupID string, f PlanRowFilter) ([]*domain.PlanRow, error)
	// ListOpenBefore returns pending and in-progress rows dated before day,
	// or on it when inclusive is set.
	ListOpenBefore(ctx context.Context, groupID string, day time.Time, inclusive bool) ([]*domain.PlanRow, error)
	// ListOtherGroups returns live rows of every other group in [from, to].
	ListOtherGroups(ctx context.Context, groupID string, from, to time.Time) ([]*domain.PlanRow, error)
	// DeletePendingFrom removes untouched rows dated on or after from,
	// limited to contentIDs when any are given.
	DeletePendingFrom(ctx context.Context, groupID string, from time.Time, contentIDs []string) (int, error)
	Cancel(ctx context.Context, ids []string, now time.Time) (int, error)
}
