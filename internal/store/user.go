package store

import (
	"context"
	"fmt"

	"clinic-booking-api/internal/httpx"
	"clinic-booking-api/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role) VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role,
	)
	if isPgErr(err, codeUniqueViolation) {
		return fmt.Errorf("email already registered: %w", httpx.ErrConflict)
	}
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound("user", err)
	}
	return u, nil
}

// DoctorByID resolves id to a user with the DOCTOR role; any other user is
// treated as not found.
func (s *Store) DoctorByID(ctx context.Context, id string) (*model.UserSummary, error) {
	d := &model.UserSummary{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email FROM users WHERE id = $1 AND role = $2`,
		id, model.RoleDoctor,
	).Scan(&d.ID, &d.Name, &d.Email)
	if err != nil {
		return nil, notFound("doctor", err)
	}
	return d, nil
}
