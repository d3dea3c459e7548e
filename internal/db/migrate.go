package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent, so it
// runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Clock columns hold minutes since midnight. Dates are YYYY-MM-DD and
// timestamps RFC3339, both in UTC.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plan_groups (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		period_start       TEXT NOT NULL,
		period_end         TEXT NOT NULL,
		study_days         INTEGER NOT NULL DEFAULT 6,
		review_days        INTEGER NOT NULL DEFAULT 1,
		student_level      TEXT NOT NULL DEFAULT 'medium' CHECK(student_level IN ('high','medium','low')),
		lunch_start        INTEGER,
		lunch_end          INTEGER,
		study_start        INTEGER,
		study_end          INTEGER,
		self_study_start   INTEGER,
		self_study_end     INTEGER,
		self_study_enabled INTEGER NOT NULL DEFAULT 0,
		holiday_self_study INTEGER NOT NULL DEFAULT 0,
		shortfall_policy   TEXT NOT NULL DEFAULT 'report' CHECK(shortfall_policy IN ('report','carry_over','abort')),
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		CHECK(study_days >= 1 AND review_days >= 0 AND study_days + review_days <= 7)
	)`,

	`CREATE TABLE IF NOT EXISTS additional_periods (
		group_id                TEXT PRIMARY KEY REFERENCES plan_groups(id) ON DELETE CASCADE,
		period_start            TEXT NOT NULL,
		period_end              TEXT NOT NULL,
		original_start          TEXT NOT NULL,
		original_end            TEXT NOT NULL,
		subjects                TEXT NOT NULL DEFAULT '',
		review_of_review_factor REAL
	)`,

	`CREATE TABLE IF NOT EXISTS subject_allocations (
		group_id               TEXT NOT NULL REFERENCES plan_groups(id) ON DELETE CASCADE,
		subject                TEXT NOT NULL,
		subject_type           TEXT NOT NULL CHECK(subject_type IN ('strategy','weakness')),
		weekly_allocation_days INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (group_id, subject)
	)`,

	`CREATE TABLE IF NOT EXISTS recurring_blocks (
		id          TEXT PRIMARY KEY,
		group_id    TEXT NOT NULL REFERENCES plan_groups(id) ON DELETE CASCADE,
		day_of_week INTEGER NOT NULL CHECK(day_of_week BETWEEN 0 AND 6),
		start_min   INTEGER NOT NULL,
		end_min     INTEGER NOT NULL,
		CHECK(end_min > start_min)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_group ON recurring_blocks(group_id)`,

	`CREATE TABLE IF NOT EXISTS exclusions (
		group_id TEXT NOT NULL REFERENCES plan_groups(id) ON DELETE CASCADE,
		date     TEXT NOT NULL,
		type     TEXT NOT NULL CHECK(type IN ('vacation','personal_reason','designated_holiday','other')),
		reason   TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (group_id, date)
	)`,

	`CREATE TABLE IF NOT EXISTS academy_conflicts (
		id             TEXT PRIMARY KEY,
		group_id       TEXT NOT NULL REFERENCES plan_groups(id) ON DELETE CASCADE,
		day_of_week    INTEGER NOT NULL CHECK(day_of_week BETWEEN 0 AND 6),
		start_min      INTEGER NOT NULL,
		end_min        INTEGER NOT NULL,
		label          TEXT NOT NULL DEFAULT '',
		subject        TEXT NOT NULL DEFAULT '',
		travel_minutes INTEGER,
		CHECK(end_min > start_min)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_academies_group ON academy_conflicts(group_id)`,

	`CREATE TABLE IF NOT EXISTS contents (
		id                     TEXT PRIMARY KEY,
		group_id               TEXT NOT NULL REFERENCES plan_groups(id) ON DELETE CASCADE,
		seq                    INTEGER NOT NULL DEFAULT 0,
		type                   TEXT NOT NULL CHECK(type IN ('book','lecture','custom')),
		title                  TEXT NOT NULL DEFAULT '',
		subject                TEXT NOT NULL DEFAULT '',
		subject_type           TEXT NOT NULL DEFAULT '',
		total_extent           INTEGER NOT NULL CHECK(total_extent >= 0),
		start_unit             INTEGER NOT NULL DEFAULT 0 CHECK(start_unit >= 0),
		weekly_allocation_days INTEGER NOT NULL DEFAULT 0,
		priority               INTEGER NOT NULL DEFAULT 0,
		minutes_per_unit       REAL,
		episode_minutes        TEXT NOT NULL DEFAULT '',
		difficulty             REAL,
		chapter                TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contents_group ON contents(group_id, seq)`,

	`CREATE TABLE IF NOT EXISTS plan_rows (
		id               TEXT PRIMARY KEY,
		group_id         TEXT NOT NULL REFERENCES plan_groups(id) ON DELETE CASCADE,
		content_id       TEXT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		plan_date        TEXT NOT NULL,
		block_index      INTEGER NOT NULL,
		start_min        INTEGER NOT NULL,
		end_min          INTEGER NOT NULL,
		planned_start    INTEGER NOT NULL,
		planned_end      INTEGER NOT NULL,
		completed_amount INTEGER NOT NULL DEFAULT 0,
		status           TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending','in_progress','completed','canceled')),
		kind             TEXT NOT NULL DEFAULT 'study' CHECK(kind IN ('study','review','additional_review')),
		is_partial       INTEGER NOT NULL DEFAULT 0,
		is_continued     INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL,
		CHECK(end_min > start_min),
		CHECK(planned_end >= planned_start)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_rows_group_date ON plan_rows(group_id, plan_date)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_rows_date ON plan_rows(plan_date)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_rows_status ON plan_rows(status)`,
}
