package implementations

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"username": user.Username,
		"email":    user.Email,
	})

	const query = `
INSERT INTO users (
	id,
	username,
	email,
	full_name,
	phone_number,
	address,
	password_hash,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PhoneNumber,
		user.Address,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			logger.Info("user repository duplicate username", logger.Fields{
				"username": user.Username,
			})
			return domain.User{}, errors.Wrapf(commons.ErrUserExists, "create user %q", user.Username)
		}
		logger.Error("user repository create failed", err, logger.Fields{
			"username": user.Username,
		})
		return domain.User{}, errors.Wrap(err, "create user")
	}

	logger.Info("user repository create success", logger.Fields{
		"userId":   user.ID,
		"username": user.Username,
	})

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	logger.Info("user repository get by username", logger.Fields{
		"username": username,
	})

	const query = `
SELECT id, username, email, full_name, phone_number, address, password_hash, created_at, updated_at
FROM users
WHERE username = $1`

	var user domain.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, username), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("user repository record not found", logger.Fields{
				"username": username,
			})
			return domain.User{}, commons.ErrRecordNotFound
		}
		logger.Error("user repository get by username failed", err, logger.Fields{
			"username": username,
		})
		return domain.User{}, errors.Wrap(err, "get user by username")
	}

	return user, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const query = `SELECT COUNT(1) FROM users WHERE username = $1`

	var count int
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		logger.Error("user repository exists by username failed", err, logger.Fields{
			"username": username,
		})
		return false, errors.Wrap(err, "check user by username")
	}

	return count > 0, nil
}

func scanUser(row rowScanner, user *domain.User) error {
	var (
		phone   sql.NullString
		address sql.NullString
	)

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&phone,
		&address,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return err
	}

	user.PhoneNumber = nullableString(phone)
	user.Address = nullableString(address)
	return nil
}
