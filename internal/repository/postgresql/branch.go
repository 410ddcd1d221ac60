package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/access"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type branchRepositoryImpl struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepositoryImpl{db: db}
}

// GetByID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, parent_id, created_at, updated_at
		FROM branches
		WHERE id = $1
	`

	var result branch.Branch
	err := q.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.Code,
		&result.Name,
		&result.ParentID,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return result, nil
}

// List implements branch.BranchRepository.
func (r *branchRepositoryImpl) List(ctx context.Context) ([]branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, name, parent_id, created_at, updated_at
		FROM branches
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	branches := []branch.Branch{}
	for rows.Next() {
		var b branch.Branch
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.ParentID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	return branches, nil
}

// Hierarchy implements branch.BranchRepository. Branches caught in a
// parent cycle have no root and are never reached.
func (r *branchRepositoryImpl) Hierarchy(ctx context.Context) (access.Hierarchy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH RECURSIVE tree AS (
			SELECT id, code, name, parent_id, 0 AS level, ARRAY[id::text] AS path
			FROM branches
			WHERE parent_id IS NULL
			UNION ALL
			SELECT b.id, b.code, b.name, b.parent_id, t.level + 1, t.path || b.id::text
			FROM branches b
			JOIN tree t ON b.parent_id = t.id
		)
		SELECT id::text, code, name, parent_id::text, level, path
		FROM tree
		ORDER BY path
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load branch hierarchy: %w", err)
	}
	defer rows.Close()

	hierarchy := access.Hierarchy{}
	for rows.Next() {
		var n access.BranchNode
		if err := rows.Scan(&n.ID, &n.Code, &n.Name, &n.ParentID, &n.Level, &n.Path); err != nil {
			return nil, fmt.Errorf("failed to scan branch node: %w", err)
		}
		hierarchy = append(hierarchy, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate branch hierarchy: %w", err)
	}

	return hierarchy, nil
}
