package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/domain"
)

// SQLitePlanGroupRepo stores plan groups with their subject allocations and
// optional additional period.
type SQLitePlanGroupRepo struct {
	db db.DBTX
}

func NewSQLitePlanGroupRepo(db db.DBTX) *SQLitePlanGroupRepo {
	return &SQLitePlanGroupRepo{db: db}
}

const planGroupColumns = `id, name, period_start, period_end, study_days, review_days, student_level,
	lunch_start, lunch_end, study_start, study_end, self_study_start, self_study_end,
	self_study_enabled, holiday_self_study, shortfall_policy, created_at, updated_at`

func (r *SQLitePlanGroupRepo) Create(ctx context.Context, g *domain.PlanGroup) error {
	lunchStart, lunchEnd := nullableRange(g.Lunch)
	studyStart, studyEnd := nullableRange(g.StudyHours)
	selfStart, selfEnd := nullableRange(g.SelfStudyHours)

	query := `INSERT INTO plan_groups (` + planGroupColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.Name,
		g.PeriodStart.Format(dateLayout),
		g.PeriodEnd.Format(dateLayout),
		g.StudyDays,
		g.ReviewDays,
		string(g.StudentLevel),
		lunchStart, lunchEnd,
		studyStart, studyEnd,
		selfStart, selfEnd,
		boolToInt(g.SelfStudyEnabled),
		boolToInt(g.HolidaySelfStudy),
		string(g.ShortfallPolicy),
		g.CreatedAt.Format(time.RFC3339),
		g.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan group: %w", err)
	}
	return r.writeChildren(ctx, g)
}

func (r *SQLitePlanGroupRepo) writeChildren(ctx context.Context, g *domain.PlanGroup) error {
	for _, s := range g.SubjectAllocations {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO subject_allocations (group_id, subject, subject_type, weekly_allocation_days) VALUES (?, ?, ?, ?)`,
			g.ID, s.Subject, string(s.SubjectType), s.WeeklyAllocationDays)
		if err != nil {
			return fmt.Errorf("inserting subject allocation %q: %w", s.Subject, err)
		}
	}

	if ap := g.AdditionalPeriod; ap != nil {
		subjects, err := encodeList(ap.Subjects)
		if err != nil {
			return fmt.Errorf("encoding additional period subjects: %w", err)
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO additional_periods (group_id, period_start, period_end, original_start, original_end, subjects, review_of_review_factor)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.ID,
			ap.PeriodStart.Format(dateLayout),
			ap.PeriodEnd.Format(dateLayout),
			ap.OriginalStart.Format(dateLayout),
			ap.OriginalEnd.Format(dateLayout),
			subjects,
			nullableFloatToValue(ap.ReviewOfReviewFactor),
		)
		if err != nil {
			return fmt.Errorf("inserting additional period: %w", err)
		}
	}
	return nil
}

func (r *SQLitePlanGroupRepo) GetByID(ctx context.Context, id string) (*domain.PlanGroup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planGroupColumns+` FROM plan_groups WHERE id = ?`, id)
	g, err := scanPlanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan group %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *SQLitePlanGroupRepo) List(ctx context.Context) ([]*domain.PlanGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+planGroupColumns+` FROM plan_groups ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing plan groups: %w", err)
	}
	defer rows.Close()

	var groups []*domain.PlanGroup
	for rows.Next() {
		g, err := scanPlanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan groups: %w", err)
	}
	rows.Close()

	for _, g := range groups {
		if err := r.loadChildren(ctx, g); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// Update rewrites the group row and replaces its subject allocations and
// additional period.
func (r *SQLitePlanGroupRepo) Update(ctx context.Context, g *domain.PlanGroup) error {
	lunchStart, lunchEnd := nullableRange(g.Lunch)
	studyStart, studyEnd := nullableRange(g.StudyHours)
	selfStart, selfEnd := nullableRange(g.SelfStudyHours)

	res, err := r.db.ExecContext(ctx, `UPDATE plan_groups SET name = ?, period_start = ?, period_end = ?,
		study_days = ?, review_days = ?, student_level = ?,
		lunch_start = ?, lunch_end = ?, study_start = ?, study_end = ?, self_study_start = ?, self_study_end = ?,
		self_study_enabled = ?, holiday_self_study = ?, shortfall_policy = ?, updated_at = ?
		WHERE id = ?`,
		g.Name,
		g.PeriodStart.Format(dateLayout),
		g.PeriodEnd.Format(dateLayout),
		g.StudyDays,
		g.ReviewDays,
		string(g.StudentLevel),
		lunchStart, lunchEnd,
		studyStart, studyEnd,
		selfStart, selfEnd,
		boolToInt(g.SelfStudyEnabled),
		boolToInt(g.HolidaySelfStudy),
		string(g.ShortfallPolicy),
		g.UpdatedAt.Format(time.RFC3339),
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan group %s: %w", g.ID, ErrNotFound)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM subject_allocations WHERE group_id = ?`, g.ID); err != nil {
		return fmt.Errorf("clearing subject allocations: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM additional_periods WHERE group_id = ?`, g.ID); err != nil {
		return fmt.Errorf("clearing additional period: %w", err)
	}
	return r.writeChildren(ctx, g)
}

func (r *SQLitePlanGroupRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plan_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("plan group %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanGroupRepo) loadChildren(ctx context.Context, g *domain.PlanGroup) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT subject, subject_type, weekly_allocation_days FROM subject_allocations WHERE group_id = ? ORDER BY subject`, g.ID)
	if err != nil {
		return fmt.Errorf("listing subject allocations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.SubjectAllocation
		var subjectType string
		if err := rows.Scan(&s.Subject, &subjectType, &s.WeeklyAllocationDays); err != nil {
			return fmt.Errorf("scanning subject allocation: %w", err)
		}
		s.SubjectType = domain.SubjectType(subjectType)
		g.SubjectAllocations = append(g.SubjectAllocations, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating subject allocations: %w", err)
	}
	rows.Close()

	var ps, pe, origStart, origEnd, subjects string
	var factor sql.NullFloat64
	err = r.db.QueryRowContext(ctx,
		`SELECT period_start, period_end, original_start, original_end, subjects, review_of_review_factor
		FROM additional_periods WHERE group_id = ?`, g.ID).Scan(&ps, &pe, &origStart, &origEnd, &subjects, &factor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading additional period: %w", err)
	}

	ap := &domain.AdditionalPeriod{ReviewOfReviewFactor: floatPtr(factor)}
	if ap.PeriodStart, err = parseDate("additional period_start", ps); err != nil {
		return err
	}
	if ap.PeriodEnd, err = parseDate("additional period_end", pe); err != nil {
		return err
	}
	if ap.OriginalStart, err = parseDate("original_start", origStart); err != nil {
		return err
	}
	if ap.OriginalEnd, err = parseDate("original_end", origEnd); err != nil {
		return err
	}
	if ap.Subjects, err = decodeList[string](subjects); err != nil {
		return fmt.Errorf("decoding additional period subjects: %w", err)
	}
	g.AdditionalPeriod = ap
	return nil
}

func scanPlanGroup(row rowScanner) (*domain.PlanGroup, error) {
	var g domain.PlanGroup
	var periodStart, periodEnd, level, policy, createdAt, updatedAt string
	var lunchStart, lunchEnd, studyStart, studyEnd, selfStart, selfEnd sql.NullInt64
	var selfEnabled, holidaySelf int

	err := row.Scan(
		&g.ID, &g.Name, &periodStart, &periodEnd, &g.StudyDays, &g.ReviewDays, &level,
		&lunchStart, &lunchEnd, &studyStart, &studyEnd, &selfStart, &selfEnd,
		&selfEnabled, &holidaySelf, &policy, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan group: %w", err)
	}

	g.StudentLevel = domain.StudentLevel(level)
	g.ShortfallPolicy = domain.ShortfallPolicy(policy)
	g.Lunch = scanRange(lunchStart, lunchEnd)
	g.StudyHours = scanRange(studyStart, studyEnd)
	g.SelfStudyHours = scanRange(selfStart, selfEnd)
	g.SelfStudyEnabled = intToBool(selfEnabled)
	g.HolidaySelfStudy = intToBool(holidaySelf)

	if g.PeriodStart, err = parseDate("period_start", periodStart); err != nil {
		return nil, err
	}
	if g.PeriodEnd, err = parseDate("period_end", periodEnd); err != nil {
		return nil, err
	}
	if g.CreatedAt, err = parseTimestamp("created_at", createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTimestamp("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
