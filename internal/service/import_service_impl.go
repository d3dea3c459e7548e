package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/importer"
	"github.com/alexanderramin/studyplan/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	defaults importer.Defaults
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, defaults importer.Defaults, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		defaults: defaults,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportGroup(ctx context.Context, filePath string) (*contract.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportGroupFromSchema(ctx context.Context, schema *importer.ImportSchema) (*contract.ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *contract.ImportResult, err error) {
	fields := map[string]any{"group": schema.Group.Name}
	defer observe(ctx, s.observer, "import-group", fields)(&err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		fields["validation_errors"] = len(errs)
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema, s.defaults)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	// Persist all entities atomically
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txGroups := repository.NewSQLitePlanGroupRepo(tx)
		txCalendar := repository.NewSQLiteCalendarRepo(tx)
		txContents := repository.NewSQLiteContentRepo(tx)
		groupID := generated.Group.ID

		if err := txGroups.Create(ctx, generated.Group); err != nil {
			return fmt.Errorf("creating group: %w", err)
		}
		for _, b := range generated.Blocks {
			if err := txCalendar.CreateBlock(ctx, groupID, b); err != nil {
				return fmt.Errorf("creating block: %w", err)
			}
		}
		for _, e := range generated.Exclusions {
			if err := txCalendar.CreateExclusion(ctx, groupID, e); err != nil {
				return fmt.Errorf("creating exclusion: %w", err)
			}
		}
		for _, a := range generated.Academies {
			if err := txCalendar.CreateAcademy(ctx, groupID, a); err != nil {
				return fmt.Errorf("creating academy: %w", err)
			}
		}
		for i, c := range generated.Contents {
			if err := txContents.Create(ctx, groupID, i, c); err != nil {
				return fmt.Errorf("creating content %q: %w", c.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["group_id"] = generated.Group.ID
	fields["contents"] = len(generated.Contents)
	return &contract.ImportResult{
		Group:          generated.Group,
		BlockCount:     len(generated.Blocks),
		ExclusionCount: len(generated.Exclusions),
		AcademyCount:   len(generated.Academies),
		ContentCount:   len(generated.Contents),
	}, nil
}
