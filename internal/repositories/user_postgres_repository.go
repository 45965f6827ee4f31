package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
	"github.com/hmusa/medcatalog-backend/internal/models"
)

type UserPostgresRepository struct {
	db *sql.DB
}

func NewUserPostgresRepository(db *sql.DB) *UserPostgresRepository {
	return &UserPostgresRepository{db: db}
}

func (r *UserPostgresRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.CreatedAt, user.Name, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("user with this email already exists")
		}
		return err
	}
	return nil
}

func (r *UserPostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, name, email, password_hash, role
		FROM users WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&user.ID, &user.CreatedAt, &user.Name, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}
