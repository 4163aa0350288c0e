package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

var problemColumns = []string{
	"id", "display_text", "solution", "final_answer", "rubric",
	"title", "topic", "difficulty", "contract_version", "created_at",
}

// problemRepo implements ProblemRepo on SQLite.
type problemRepo struct {
	db *sql.DB
}

func (r *problemRepo) Put(ctx context.Context, p *Problem) error {
	query, args := builder.Insert("problems").
		Columns(problemColumns...).
		Values(p.ID, p.DisplayText, p.Solution, p.FinalAnswer, p.Rubric,
			p.Title, p.Topic, p.Difficulty, p.Contract, p.CreatedAt.UTC()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if sqlgraph.IsUniqueConstraintError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert problem: %w", err)
	}
	return nil
}

func (r *problemRepo) Get(ctx context.Context, id string) (*Problem, error) {
	query, args := builder.Select(problemColumns...).
		From(entsql.Table("problems")).
		Where(entsql.EQ("id", id)).
		Query()

	p, err := scanProblem(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get problem %s: %w", id, err)
	}
	return p, nil
}

func (r *problemRepo) List(ctx context.Context, limit int) ([]*Problem, error) {
	sel := builder.Select(problemColumns...).
		From(entsql.Table("problems")).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	defer rows.Close()

	var out []*Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProblem(row rowScanner) (*Problem, error) {
	var p Problem
	err := row.Scan(&p.ID, &p.DisplayText, &p.Solution, &p.FinalAnswer, &p.Rubric,
		&p.Title, &p.Topic, &p.Difficulty, &p.Contract, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
