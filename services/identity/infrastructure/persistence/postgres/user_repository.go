package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/possystem/pkg/database"
	identitydomain "github.com/ghuser/possystem/services/identity/domain"
	"github.com/ghuser/possystem/services/identity/domain/models"
	"github.com/ghuser/possystem/services/identity/infrastructure/persistence/postgres/db"
)

// UserRepository implements repositories.UserRepository against PostgreSQL.
type UserRepository struct {
	db *database.Database
}

func NewUserRepository(database *database.Database) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	err := db.New(r.db.DB()).InsertUser(ctx, db.InsertUserParams{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return identitydomain.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := db.New(r.db.DB()).GetUser(ctx, id)
	return toUser(row, err)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := db.New(r.db.DB()).GetUserByEmail(ctx, email)
	return toUser(row, err)
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := db.New(r.db.DB()).ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]*models.User, len(rows))
	for i, row := range rows {
		out[i], _ = toUser(row, nil)
	}
	return out, nil
}

func toUser(row db.User, err error) (*models.User, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identitydomain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &models.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
