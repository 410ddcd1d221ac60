package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/report"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const reportColumns = `
	r.id, r.report_date, b.id, b.code, b.name,
	r.write_offs, r.ninety_plus, r.write_offs_plan, r.ninety_plus_plan,
	r.report_type, r.status, r.content, u.id, u.name, r.submitted_at,
	r.reviewed_by, r.reviewed_at, r.comments, r.plan_report_id, r.updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (report.Report, error) {
	var (
		rep  report.Report
		date time.Time
	)
	err := row.Scan(
		&rep.ID,
		&date,
		&rep.Branch.ID,
		&rep.Branch.Code,
		&rep.Branch.Name,
		&rep.WriteOffs,
		&rep.NinetyPlus,
		&rep.WriteOffsPlan,
		&rep.NinetyPlusPlan,
		&rep.ReportType,
		&rep.Status,
		&rep.Content,
		&rep.SubmittedBy.ID,
		&rep.SubmittedBy.Name,
		&rep.SubmittedAt,
		&rep.ReviewedBy,
		&rep.ReviewedAt,
		&rep.Comments,
		&rep.PlanReportID,
		&rep.UpdatedAt,
	)
	if err != nil {
		return report.Report{}, err
	}
	rep.Date = report.NewDate(date)
	return rep, nil
}

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// Create implements report.ReportRepository.
func (r *reportRepositoryImpl) Create(ctx context.Context, rep report.Report) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH r AS (
			INSERT INTO reports (
				id, report_date, branch_id, write_offs, ninety_plus, write_offs_plan, ninety_plus_plan,
				report_type, status, content, submitted_by, submitted_at, plan_report_id, updated_at
			)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), $11, NOW())
			RETURNING *
		)
		SELECT ` + reportColumns + `
		FROM r
		JOIN branches b ON b.id = r.branch_id
		JOIN users u ON u.id = r.submitted_by
	`

	created, err := scanReport(q.QueryRow(ctx, query,
		rep.Date.Time,
		rep.Branch.ID,
		rep.WriteOffs,
		rep.NinetyPlus,
		rep.WriteOffsPlan,
		rep.NinetyPlusPlan,
		rep.ReportType,
		rep.Status,
		rep.Content,
		rep.SubmittedBy.ID,
		rep.PlanReportID,
	))
	if err != nil {
		if code, constraint, ok := pgError(err); ok {
			switch code {
			case codeUniqueViolation:
				return report.Report{}, report.ErrReportExists
			case codeForeignKeyViolation:
				if constraint == "reports_plan_report_id_fkey" {
					return report.Report{}, report.ErrPlanReportMismatch
				}
				return report.Report{}, branch.ErrBranchNotFound
			}
		}
		return report.Report{}, fmt.Errorf("failed to create report: %w", err)
	}

	return created, nil
}

// GetByID implements report.ReportRepository.
func (r *reportRepositoryImpl) GetByID(ctx context.Context, id string) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		JOIN branches b ON b.id = r.branch_id
		JOIN users u ON u.id = r.submitted_by
		WHERE r.id = $1
	`

	rep, err := scanReport(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, report.ErrReportNotFound
		}
		return report.Report{}, fmt.Errorf("failed to get report: %w", err)
	}

	return rep, nil
}

// FindByKey implements report.ReportRepository.
func (r *reportRepositoryImpl) FindByKey(ctx context.Context, date time.Time, branchID string, reportType report.Type) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		JOIN branches b ON b.id = r.branch_id
		JOIN users u ON u.id = r.submitted_by
		WHERE r.report_date = $1 AND r.branch_id = $2 AND r.report_type = $3
	`

	rep, err := scanReport(q.QueryRow(ctx, query, date, branchID, reportType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, report.ErrReportNotFound
		}
		return report.Report{}, fmt.Errorf("failed to find report: %w", err)
	}

	return rep, nil
}

// scopeClause appends the branch restriction of scope to a WHERE clause.
func scopeClause(scope report.Scope, args []any, argIdx int) (string, []any, int) {
	if scope.All {
		return "", args, argIdx
	}
	ids := scope.BranchIDs
	if ids == nil {
		ids = []string{}
	}
	return fmt.Sprintf(" AND r.branch_id::text = ANY($%d)", argIdx), append(args, ids), argIdx + 1
}

// List implements report.ReportRepository.
func (r *reportRepositoryImpl) List(ctx context.Context, filter report.ListFilter, scope report.Scope) ([]report.Report, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM reports r
		JOIN branches b ON b.id = r.branch_id
		JOIN users u ON u.id = r.submitted_by
		WHERE 1=1
	`
	args := []any{}
	argIdx := 1

	if filter.Date != "" {
		date, err := report.ParseDate(filter.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid date filter: %w", err)
		}
		baseQuery += fmt.Sprintf(" AND r.report_date = $%d", argIdx)
		args = append(args, date.Time)
		argIdx++
	}
	if filter.BranchID != "" {
		baseQuery += fmt.Sprintf(" AND r.branch_id::text = $%d", argIdx)
		args = append(args, filter.BranchID)
		argIdx++
	}
	if filter.ReportType != "" {
		baseQuery += fmt.Sprintf(" AND r.report_type = $%d", argIdx)
		args = append(args, filter.ReportType)
		argIdx++
	}
	if filter.Status != "" {
		baseQuery += fmt.Sprintf(" AND r.status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	clause, args, argIdx := scopeClause(scope, args, argIdx)
	baseQuery += clause

	// Count query
	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	filter.Normalize()
	selectQuery := fmt.Sprintf(`
		SELECT %s
		%s
		ORDER BY r.report_date DESC, b.code ASC, r.report_type DESC
		LIMIT $%d OFFSET $%d
	`, reportColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []report.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, total, nil
}

// ListPending implements report.ReportRepository. An empty type matches both.
func (r *reportRepositoryImpl) ListPending(ctx context.Context, reportType report.Type, scope report.Scope) ([]report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		JOIN branches b ON b.id = r.branch_id
		JOIN users u ON u.id = r.submitted_by
		WHERE r.status = $1
	`
	args := []any{report.StatusPending}
	argIdx := 2

	if reportType != "" {
		query += fmt.Sprintf(" AND r.report_type = $%d", argIdx)
		args = append(args, reportType)
		argIdx++
	}
	clause, args, _ := scopeClause(scope, args, argIdx)
	query += clause + " ORDER BY r.submitted_at ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reports: %w", err)
	}
	defer rows.Close()

	reports := []report.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending reports: %w", err)
	}

	return reports, nil
}

// Update implements report.ReportRepository. It persists the amounts,
// content and review fields of rep.
func (r *reportRepositoryImpl) Update(ctx context.Context, rep report.Report) (report.Report, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH r AS (
			UPDATE reports
			SET write_offs = $1, ninety_plus = $2, content = $3, status = $4,
				reviewed_by = $5, reviewed_at = $6, comments = $7, updated_at = NOW()
			WHERE id = $8
			RETURNING *
		)
		SELECT ` + reportColumns + `
		FROM r
		JOIN branches b ON b.id = r.branch_id
		JOIN users u ON u.id = r.submitted_by
	`

	updated, err := scanReport(q.QueryRow(ctx, query,
		rep.WriteOffs,
		rep.NinetyPlus,
		rep.Content,
		rep.Status,
		rep.ReviewedBy,
		rep.ReviewedAt,
		rep.Comments,
		rep.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.Report{}, report.ErrReportNotFound
		}
		return report.Report{}, fmt.Errorf("failed to update report: %w", err)
	}

	return updated, nil
}

// SumByType implements report.ReportRepository.
func (r *reportRepositoryImpl) SumByType(ctx context.Context, date time.Time, scope report.Scope) ([]report.TypeTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT r.report_type,
			COUNT(*),
			COUNT(*) FILTER (WHERE r.status = 'pending'),
			COALESCE(SUM(r.write_offs), 0)::text,
			COALESCE(SUM(r.ninety_plus), 0)::text
		FROM reports r
		WHERE r.report_date = $1
	`
	clause, args, _ := scopeClause(scope, []any{date}, 2)
	query += clause + " GROUP BY r.report_type ORDER BY r.report_type DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum reports: %w", err)
	}
	defer rows.Close()

	totals := []report.TypeTotal{}
	for rows.Next() {
		var (
			t                     report.TypeTotal
			writeOffs, ninetyPlus string
		)
		if err := rows.Scan(&t.ReportType, &t.Count, &t.Pending, &writeOffs, &ninetyPlus); err != nil {
			return nil, fmt.Errorf("failed to scan report totals: %w", err)
		}
		if t.WriteOffs, err = decimal.NewFromString(writeOffs); err != nil {
			return nil, fmt.Errorf("failed to parse write-offs total: %w", err)
		}
		if t.NinetyPlus, err = decimal.NewFromString(ninetyPlus); err != nil {
			return nil, fmt.Errorf("failed to parse 90+ total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report totals: %w", err)
	}

	return totals, nil
}
