package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

type SQLitePlanRowRepo struct {
	db db.DBTX
}

func NewSQLitePlanRowRepo(db db.DBTX) *SQLitePlanRowRepo {
	return &SQLitePlanRowRepo{db: db}
}

const planRowColumns = `id, group_id, content_id, plan_date, block_index, start_min, end_min,
	planned_start, planned_end, completed_amount, status, kind, is_partial, is_continued,
	created_at, updated_at`

func (r *SQLitePlanRowRepo) CreateBatch(ctx context.Context, rows []*domain.PlanRow) error {
	for _, row := range rows {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO plan_rows (`+planRowColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.ID, row.GroupID, row.ContentID, row.PlanDate.Format(dateLayout), row.BlockIndex,
			int(row.StartTime), int(row.EndTime), row.PlannedStart, row.PlannedEnd, row.CompletedAmount,
			string(row.Status), string(row.Kind), boolToInt(row.IsPartial), boolToInt(row.IsContinued),
			row.CreatedAt.UTC().Format(time.RFC3339), row.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting plan row %s: %w", row.ID, err)
		}
	}
	return nil
}

func (r *SQLitePlanRowRepo) GetByID(ctx context.Context, id string) (*domain.PlanRow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planRowColumns+` FROM plan_rows WHERE id = ?`, id)
	pr, err := scanPlanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan row %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return pr, nil
}

// Update writes progress and status fields. Placement is immutable.
func (r *SQLitePlanRowRepo) Update(ctx context.Context, row *domain.PlanRow) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plan_rows SET completed_amount = ?, status = ?, updated_at = ? WHERE id = ?`,
		row.CompletedAmount, string(row.Status), row.UpdatedAt.UTC().Format(time.RFC3339), row.ID)
	if err != nil {
		return fmt.Errorf("updating plan row: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan row %s: %w", row.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRowRepo) ListByGroup(ctx context.Context, groupID string, f PlanRowFilter) ([]*domain.PlanRow, error) {
	where := []string{"group_id = ?"}
	args := []any{groupID}
	if !f.From.IsZero() {
		where = append(where, "plan_date >= ?")
		args = append(args, f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		where = append(where, "plan_date <= ?")
		args = append(args, f.To.Format(dateLayout))
	}
	if len(f.Statuses) > 0 {
		in, statusArgs := statusIn(f.Statuses)
		where = append(where, "status IN ("+in+")")
		args = append(args, statusArgs...)
	}
	return r.query(ctx, strings.Join(where, " AND "), args...)
}

func (r *SQLitePlanRowRepo) ListOpenBefore(ctx context.Context, groupID string, day time.Time, inclusive bool) ([]*domain.PlanRow, error) {
	op := "<"
	if inclusive {
		op = "<="
	}
	return r.query(ctx,
		`group_id = ? AND status IN ('pending', 'in_progress') AND plan_date `+op+` ?`,
		groupID, day.Format(dateLayout))
}

func (r *SQLitePlanRowRepo) ListOtherGroups(ctx context.Context, groupID string, from, to time.Time) ([]*domain.PlanRow, error) {
	return r.query(ctx,
		`group_id != ? AND status != 'canceled' AND plan_date >= ? AND plan_date <= ?`,
		groupID, from.Format(dateLayout), to.Format(dateLayout))
}

// DeletePendingFrom drops untouched rows dated on or after from. Rows with
// any progress are kept.
func (r *SQLitePlanRowRepo) DeletePendingFrom(ctx context.Context, groupID string, from time.Time, contentIDs []string) (int, error) {
	query := `DELETE FROM plan_rows WHERE group_id = ? AND status = 'pending' AND completed_amount = 0 AND plan_date >= ?`
	args := []any{groupID, from.Format(dateLayout)}
	if len(contentIDs) > 0 {
		query += ` AND content_id IN (` + placeholders(len(contentIDs)) + `)`
		for _, id := range contentIDs {
			args = append(args, id)
		}
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting pending rows: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *SQLitePlanRowRepo) Cancel(ctx context.Context, ids []string, now time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, now.UTC().Format(time.RFC3339))
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE plan_rows SET status = 'canceled', updated_at = ?
		WHERE status != 'canceled' AND id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("canceling plan rows: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *SQLitePlanRowRepo) query(ctx context.Context, where string, args ...any) ([]*domain.PlanRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planRowColumns+` FROM plan_rows WHERE `+where+`
		ORDER BY plan_date, start_min, block_index, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plan rows: %w", err)
	}
	defer rows.Close()

	var out []*domain.PlanRow
	for rows.Next() {
		pr, err := scanPlanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan rows: %w", err)
	}
	return out, nil
}

func statusIn(statuses []domain.PlanStatus) (string, []any) {
	args := make([]any, len(statuses))
	for i, s := range statuses {
		args[i] = string(s)
	}
	return placeholders(len(statuses)), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func scanPlanRow(row rowScanner) (*domain.PlanRow, error) {
	var pr domain.PlanRow
	var date, status, kind, createdAt, updatedAt string
	var start, end, partial, continued int

	err := row.Scan(
		&pr.ID, &pr.GroupID, &pr.ContentID, &date, &pr.BlockIndex, &start, &end,
		&pr.PlannedStart, &pr.PlannedEnd, &pr.CompletedAmount, &status, &kind, &partial, &continued,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan row: %w", err)
	}
	if pr.PlanDate, err = parseDate("plan_date", date); err != nil {
		return nil, err
	}
	if pr.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if pr.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	pr.StartTime = domain.Clock(start)
	pr.EndTime = domain.Clock(end)
	pr.Status = domain.PlanStatus(status)
	pr.Kind = domain.SessionKind(kind)
	pr.IsPartial = intToBool(partial)
	pr.IsContinued = intToBool(continued)
	return &pr, nil
}
