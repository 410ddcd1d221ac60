package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/audit"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepositoryImpl{db: db}
}

// Create implements audit.AuditRepository.
func (r *auditRepositoryImpl) Create(ctx context.Context, log audit.Log) error {
	q := GetQuerier(ctx, r.db)

	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	query := `
		INSERT INTO audit_logs (id, user_id, branch_id, entity_type, entity_id, action, description, before, after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`

	_, err := q.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.BranchID,
		log.EntityType,
		log.EntityID,
		log.Action,
		log.Description,
		nullableJSON(log.Before),
		nullableJSON(log.After),
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// List implements audit.AuditRepository.
func (r *auditRepositoryImpl) List(ctx context.Context, filter audit.ListFilter, branchIDs []string) ([]audit.Log, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM audit_logs a
		WHERE 1=1
	`
	args := []any{}
	argIdx := 1

	if filter.EntityID != "" {
		baseQuery += fmt.Sprintf(" AND a.entity_id = $%d", argIdx)
		args = append(args, filter.EntityID)
		argIdx++
	}
	if branchIDs != nil {
		baseQuery += fmt.Sprintf(" AND a.branch_id::text = ANY($%d)", argIdx)
		args = append(args, branchIDs)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	filter.Normalize()
	selectQuery := fmt.Sprintf(`
		SELECT a.id, a.user_id, a.branch_id::text, a.entity_type, a.entity_id, a.action,
			   a.description, a.before, a.after, a.created_at
		%s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []audit.Log{}
	for rows.Next() {
		var (
			l             audit.Log
			before, after []byte
		)
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.BranchID, &l.EntityType, &l.EntityID, &l.Action,
			&l.Description, &before, &after, &l.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log: %w", err)
		}
		l.Before = before
		l.After = after
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate audit logs: %w", err)
	}

	return logs, total, nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
