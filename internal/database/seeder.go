package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmadqo/campus-console/internal/logger"
	"github.com/ahmadqo/campus-console/internal/model"
)

const (
	defaultAdminEmail    = "admin@campus.local"
	defaultAdminPassword = "Admin@123"
)

type Seeder struct {
	db *sqlx.DB
}

func NewSeeder(db *sqlx.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAdminOperator creates the first admin account when none exists.
func (s *Seeder) SeedAdminOperator(ctx context.Context) error {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM operators WHERE role = $1", model.RoleAdmin).Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Debug().Msg("admin operator exists, skipping seed")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO operators (id, name, email, password, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`,
		uuid.New(),
		"Administrator",
		defaultAdminEmail,
		string(hashedPassword),
		model.RoleAdmin,
		true,
	)
	if err != nil {
		return err
	}

	logger.Warn().
		Str("email", defaultAdminEmail).
		Str("password", defaultAdminPassword).
		Msg("default admin operator created, change the password after first login")
	return nil
}
