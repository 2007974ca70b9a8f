package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ahsanfayaz52/noteservice/internal/db"
	"github.com/ahsanfayaz52/noteservice/internal/models"
)

const userColumns = "id, email, password, role, created_at"

type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserStore(conn *sql.DB) *UserStore {
	return &UserStore{db: conn, now: time.Now}
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		u       models.User
		created int64
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &created); err != nil {
		return models.User{}, err
	}
	u.CreatedAt = fromMillis(created)
	return u, nil
}

// Create inserts a user with an already hashed password.
func (s *UserStore) Create(ctx context.Context, email, passwordHash, role string) (models.User, error) {
	created := toMillis(s.now())
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (email, password, role, created_at) VALUES (?, ?, ?, ?)",
		email, passwordHash, role, created)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return models.User{
		ID:        id,
		Email:     email,
		Password:  passwordHash,
		Role:      role,
		CreatedAt: fromMillis(created),
	}, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, "email = ?", email)
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (models.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

func (s *UserStore) findOne(ctx context.Context, where string, arg any) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
