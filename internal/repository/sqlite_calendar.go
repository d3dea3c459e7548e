package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

type SQLiteCalendarRepo struct {
	db db.DBTX
}

func NewSQLiteCalendarRepo(db db.DBTX) *SQLiteCalendarRepo {
	return &SQLiteCalendarRepo{db: db}
}

func (r *SQLiteCalendarRepo) CreateBlock(ctx context.Context, groupID string, b domain.RecurringBlock) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_blocks (id, group_id, day_of_week, start_min, end_min) VALUES (?, ?, ?, ?, ?)`,
		b.ID, groupID, int(b.DayOfWeek), int(b.Range.Start), int(b.Range.End))
	if err != nil {
		return fmt.Errorf("inserting block: %w", err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) ListBlocks(ctx context.Context, groupID string) ([]domain.RecurringBlock, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, day_of_week, start_min, end_min FROM recurring_blocks
		WHERE group_id = ? ORDER BY day_of_week, start_min, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing blocks: %w", err)
	}
	defer rows.Close()

	var out []domain.RecurringBlock
	for rows.Next() {
		var b domain.RecurringBlock
		var dow, start, end int
		if err := rows.Scan(&b.ID, &dow, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		b.DayOfWeek = time.Weekday(dow)
		b.Range = domain.TimeRange{Start: domain.Clock(start), End: domain.Clock(end)}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blocks: %w", err)
	}
	return out, nil
}

func (r *SQLiteCalendarRepo) CreateExclusion(ctx context.Context, groupID string, e domain.Exclusion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exclusions (group_id, date, type, reason) VALUES (?, ?, ?, ?)`,
		groupID, e.Date.Format(dateLayout), string(e.Type), e.Reason)
	if err != nil {
		return fmt.Errorf("inserting exclusion %s: %w", e.Date.Format(dateLayout), err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) ListExclusions(ctx context.Context, groupID string) ([]domain.Exclusion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, type, reason FROM exclusions WHERE group_id = ? ORDER BY date`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing exclusions: %w", err)
	}
	defer rows.Close()

	var out []domain.Exclusion
	for rows.Next() {
		var e domain.Exclusion
		var date, typ string
		if err := rows.Scan(&date, &typ, &e.Reason); err != nil {
			return nil, fmt.Errorf("scanning exclusion: %w", err)
		}
		if e.Date, err = parseDate("exclusion date", date); err != nil {
			return nil, err
		}
		e.Type = domain.ExclusionType(typ)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exclusions: %w", err)
	}
	return out, nil
}

func (r *SQLiteCalendarRepo) CreateAcademy(ctx context.Context, groupID string, a domain.AcademyConflict) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO academy_conflicts (id, group_id, day_of_week, start_min, end_min, label, subject, travel_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, groupID, int(a.DayOfWeek), int(a.Range.Start), int(a.Range.End),
		a.Label, a.Subject, nullableIntToValue(a.TravelMinutes))
	if err != nil {
		return fmt.Errorf("inserting academy %q: %w", a.Label, err)
	}
	return nil
}

func (r *SQLiteCalendarRepo) ListAcademies(ctx context.Context, groupID string) ([]domain.AcademyConflict, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, day_of_week, start_min, end_min, label, subject, travel_minutes
		FROM academy_conflicts WHERE group_id = ? ORDER BY day_of_week, start_min, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing academies: %w", err)
	}
	defer rows.Close()

	var out []domain.AcademyConflict
	for rows.Next() {
		var a domain.AcademyConflict
		var dow, start, end int
		var travel sql.NullInt64
		if err := rows.Scan(&a.ID, &dow, &start, &end, &a.Label, &a.Subject, &travel); err != nil {
			return nil, fmt.Errorf("scanning academy: %w", err)
		}
		a.DayOfWeek = time.Weekday(dow)
		a.Range = domain.TimeRange{Start: domain.Clock(start), End: domain.Clock(end)}
		a.TravelMinutes = intPtr(travel)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating academies: %w", err)
	}
	return out, nil
}
