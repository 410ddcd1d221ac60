package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/branch-report-go/internal/domain/branch"
	"github.com/cmlabs-hris/branch-report-go/internal/domain/user"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `
	u.id, u.username, u.email, u.name, u.password_hash, u.role, u.branch_id::text,
	ARRAY(SELECT a.branch_id::text FROM user_branch_assignments a WHERE a.user_id = u.id ORDER BY a.created_at),
	u.google_id, u.created_at, u.updated_at
`

func scanUser(row rowScanner) (user.User, error) {
	var found user.User
	err := row.Scan(
		&found.ID,
		&found.Username,
		&found.Email,
		&found.Name,
		&found.PasswordHash,
		&found.Role,
		&found.BranchID,
		&found.AssignedBranchIDs,
		&found.GoogleID,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	return found, err
}

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`

	found, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return found, nil
}

// GetByEmail implements user.UserRepository. Emails are matched case-insensitively.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.email) = LOWER($1)`

	found, err := scanUser(q.QueryRow(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return found, nil
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, userID, googleID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET google_id = $1, updated_at = NOW() WHERE id = $2`, googleID, userID)
	if err != nil {
		return fmt.Errorf("failed to link google account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// Update implements user.UserRepository. Only non-nil fields are written.
func (r *userRepositoryImpl) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]any, 0)
	argIdx := 1

	if req.Username != nil {
		updates = append(updates, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, *req.Username)
		argIdx++
	}
	if req.Email != nil {
		updates = append(updates, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *req.Email)
		argIdx++
	}
	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *req.Name)
		argIdx++
	}
	if req.BranchID != nil {
		updates = append(updates, fmt.Sprintf("branch_id = $%d", argIdx))
		args = append(args, *req.BranchID)
		argIdx++
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, id)
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		WITH u AS (
			UPDATE users SET %s WHERE id = $%d RETURNING *
		)
		SELECT %s FROM u
	`, strings.Join(updates, ", "), argIdx, userColumns)

	updated, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		if code, constraint, ok := pgError(err); ok {
			switch code {
			case codeUniqueViolation:
				if strings.Contains(constraint, "username") {
					return user.User{}, user.ErrUsernameExists
				}
				return user.User{}, user.ErrUserEmailExists
			case codeForeignKeyViolation:
				return user.User{}, branch.ErrBranchNotFound
			}
		}
		return user.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return updated, nil
}
