package results

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Store is the persisted attempt store boundary.
type Store interface {
	Count(ctx context.Context, spec QuerySpec) (int, error)
	Page(ctx context.Context, spec QuerySpec) ([]ResultRecord, error)
	Report(ctx context.Context, in ReportInput) error
}

// ReportInput is one outcome reported by a learner session. Nil
// measurement fields were absent or non-numeric in the request and are
// stored as NULL, never coerced to zero.
type ReportInput struct {
	UserID    int64
	ContentID int64
	Score     *int64
	MaxScore  *int64
	Opened    *int64
	Finished  *int64
	Time      *int64
}

// SQLStore runs the results queries against sqlite or postgres. Both
// drivers accept $N placeholders, so query text is shared.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Count returns the total number of rows matching the spec's predicate.
// It carries the same joins as Page: the filter predicate may reference
// a joined column, so the count query must resolve it too.
func (s *SQLStore) Count(ctx context.Context, spec QuerySpec) (int, error) {
	q := "SELECT COUNT(r.id) FROM results r"
	if len(spec.Joins) > 0 {
		q += " " + strings.Join(spec.Joins, " ")
	}
	if spec.Where != "" {
		q += " WHERE " + spec.Where
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q, spec.Args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Page returns one window of raw rows: id, the varying dimension's id
// and display text, then the measurement columns.
func (s *SQLStore) Page(ctx context.Context, spec QuerySpec) ([]ResultRecord, error) {
	cols := append([]string{"r.id"}, spec.ExtraColumns...)
	cols = append(cols, "r.score", "r.max_score", "r.opened", "r.finished", "r.time")

	q := "SELECT " + strings.Join(cols, ", ") + " FROM results r"
	if len(spec.Joins) > 0 {
		q += " " + strings.Join(spec.Joins, " ")
	}
	if spec.Where != "" {
		q += " WHERE " + spec.Where
	}
	q += " " + spec.OrderBy
	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(spec.Args)+1, len(spec.Args)+2)

	args := append(append([]any{}, spec.Args...), spec.Page.Limit, spec.Page.Offset)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec     ResultRecord
			subject sql.NullInt64
			name    sql.NullString
			nums    [5]sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &subject, &name,
			&nums[0], &nums[1], &nums[2], &nums[3], &nums[4]); err != nil {
			return nil, err
		}
		// NULLs show up for deleted join targets and unreported
		// measurements; the zero values flow through display as-is.
		rec.SubjectID = subject.Int64
		rec.Name = name.String
		rec.Score = nums[0].Int64
		rec.MaxScore = nums[1].Int64
		rec.Opened = nums[2].Int64
		rec.Finished = nums[3].Int64
		rec.Time = nums[4].Int64
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Report upserts the outcome for one (user, content) pair. The pair is
// unique in storage and the write is a single atomic statement, so two
// concurrent reports cannot produce duplicate rows; the later write
// wins. Later reports replace every measurement field and leave the
// identifying pair untouched.
func (s *SQLStore) Report(ctx context.Context, in ReportInput) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO results (user_id, content_id, score, max_score, opened, finished, time)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id, content_id) DO UPDATE SET
		  score=excluded.score,
		  max_score=excluded.max_score,
		  opened=excluded.opened,
		  finished=excluded.finished,
		  time=excluded.time`,
		in.UserID, in.ContentID, in.Score, in.MaxScore, in.Opened, in.Finished, in.Time)
	return err
}
