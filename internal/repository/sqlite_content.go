package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

type SQLiteContentRepo struct {
	db db.DBTX
}

func NewSQLiteContentRepo(db db.DBTX) *SQLiteContentRepo {
	return &SQLiteContentRepo{db: db}
}

const contentColumns = `id, type, title, subject, subject_type, total_extent, start_unit,
	weekly_allocation_days, priority, minutes_per_unit, episode_minutes, difficulty, chapter`

// Create stores c under groupID. seq keeps the import order stable.
func (r *SQLiteContentRepo) Create(ctx context.Context, groupID string, seq int, c domain.ContentItem) error {
	episodes, err := encodeList(c.EpisodeMinutes)
	if err != nil {
		return fmt.Errorf("encoding episode minutes: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO contents (group_id, seq, `+contentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		groupID, seq,
		c.ID, string(c.Type), c.Title, c.Subject, string(c.SubjectType), c.TotalExtent, c.StartUnit,
		c.WeeklyAllocationDays, c.Priority, nullableFloatToValue(c.MinutesPerUnit), episodes,
		nullableFloatToValue(c.Difficulty), c.Chapter,
	)
	if err != nil {
		return fmt.Errorf("inserting content %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteContentRepo) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = ?`, id)
	c, err := scanContent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("content %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteContentRepo) ListByGroup(ctx context.Context, groupID string) ([]domain.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contentColumns+` FROM contents WHERE group_id = ? ORDER BY seq, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing contents: %w", err)
	}
	defer rows.Close()

	var out []domain.ContentItem
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contents: %w", err)
	}
	return out, nil
}

// UpdateRange moves the content's scheduled range, used when a catch-up pass
// drops already-completed units.
func (r *SQLiteContentRepo) UpdateRange(ctx context.Context, id string, startUnit, totalExtent int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contents SET start_unit = ?, total_extent = ? WHERE id = ?`, startUnit, totalExtent, id)
	if err != nil {
		return fmt.Errorf("updating content range: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("content %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanContent(row rowScanner) (*domain.ContentItem, error) {
	var c domain.ContentItem
	var typ, subjectType, episodes string
	var perUnit, difficulty sql.NullFloat64

	err := row.Scan(
		&c.ID, &typ, &c.Title, &c.Subject, &subjectType, &c.TotalExtent, &c.StartUnit,
		&c.WeeklyAllocationDays, &c.Priority, &perUnit, &episodes, &difficulty, &c.Chapter,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning content: %w", err)
	}
	c.Type = domain.ContentType(typ)
	c.SubjectType = domain.SubjectType(subjectType)
	c.MinutesPerUnit = floatPtr(perUnit)
	c.Difficulty = floatPtr(difficulty)
	if c.EpisodeMinutes, err = decodeList[int](episodes); err != nil {
		return nil, fmt.Errorf("decoding episode minutes for %s: %w", c.ID, err)
	}
	return &c, nil
}
