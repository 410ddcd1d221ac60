package audit

import "context"

type AuditRepository interface {
	Create(ctx context.Context, log Log) error
	// List returns logs newest first. A nil branchIDs slice means unrestricted.
	List(ctx context.Context, filter ListFilter, branchIDs []string) ([]Log, int64, error)
}
