package service

import (
	"context"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/scheduler"
)

type groupService struct {
	loader groupLoader
	cache  *scheduler.MetadataCache
}

// NewGroupService builds the group service. cache may be nil; when set, a
// deleted group's contents are evicted from it.
func NewGroupService(
	groups repository.PlanGroupRepo,
	calendar repository.CalendarRepo,
	contents repository.ContentRepo,
	cache *scheduler.MetadataCache,
) GroupService {
	return &groupService{
		loader: groupLoader{groups: groups, calendar: calendar, contents: contents},
		cache:  cache,
	}
}

func (s *groupService) List(ctx context.Context) ([]*domain.PlanGroup, error) {
	return s.loader.groups.List(ctx)
}

func (s *groupService) Get(ctx context.Context, id string) (*GroupDetail, error) {
	return s.loader.load(ctx, id)
}

func (s *groupService) Delete(ctx context.Context, id string) error {
	contents, err := s.loader.contents.ListByGroup(ctx, id)
	if err != nil {
		return err
	}
	if err := s.loader.groups.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		for _, c := range contents {
			s.cache.Invalidate(c.ID)
		}
	}
	return nil
}
