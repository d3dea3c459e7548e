package service

import (
	"context"
	"time"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/repository"
)

type progressService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgressService(uow db.UnitOfWork, observers ...UseCaseObserver) ProgressService {
	return &progressService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Record sets the completed amount of a plan row. The amount is clamped to
// the row span and the status follows from it.
func (s *progressService) Record(ctx context.Context, rowID string, completedAmount int) (row *domain.PlanRow, err error) {
	fields := map[string]any{"row_id": rowID, "amount": completedAmount}
	defer observe(ctx, s.observer, "record-progress", fields)(&err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRows := repository.NewSQLitePlanRowRepo(tx)

		r, err := txRows.GetByID(ctx, rowID)
		if err != nil {
			return err
		}
		if err := r.RecordProgress(completedAmount, time.Now().UTC()); err != nil {
			return err
		}
		if err := txRows.Update(ctx, r); err != nil {
			return err
		}
		row = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["status"] = string(row.Status)
	return row, nil
}
