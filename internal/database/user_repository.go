package database

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/train-reservation-backend/internal/models"
)

// UserRepository handles passenger account data
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new account
func (r *UserRepository) CreateUser(email, passwordHash, fullName string) (*models.User, error) {
	user := &models.User{}
	query := `
		INSERT INTO users (id, email, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, full_name, created_at, updated_at`

	err := r.db.Get(user, query, uuid.New(), email, passwordHash, fullName)
	if err != nil {
		return nil, &models.StorageError{Op: "create user", Err: err}
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, full_name, created_at, updated_at
		FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "user", ID: email}
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get user", Err: err}
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, full_name, created_at, updated_at
		FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "user", ID: id.String()}
	}
	if err != nil {
		return nil, &models.StorageError{Op: "get user", Err: err}
	}
	return user, nil
}
