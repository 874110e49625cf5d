package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ahmadqo/campus-console/internal/model"
)

type OperatorRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.Operator, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error)
	List(ctx context.Context) ([]*model.Operator, error)
	Create(ctx context.Context, op *model.Operator) error
	Update(ctx context.Context, op *model.Operator) error
}

type operatorRepository struct {
	db *sqlx.DB
}

func NewOperatorRepository(db *sqlx.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

const operatorColumns = `id, name, email, password, role, is_active, created_at, updated_at`

// FindByEmail returns nil, nil when no operator has the email.
func (r *operatorRepository) FindByEmail(ctx context.Context, email string) (*model.Operator, error) {
	var op model.Operator
	query := `
		SELECT ` + operatorColumns + `
		FROM operators
		WHERE email = $1
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &op, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

func (r *operatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Operator, error) {
	var op model.Operator
	query := `
		SELECT ` + operatorColumns + `
		FROM operators
		WHERE id = $1
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &op, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

func (r *operatorRepository) List(ctx context.Context) ([]*model.Operator, error) {
	ops := []*model.Operator{}
	query := `SELECT ` + operatorColumns + ` FROM operators ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &ops, query); err != nil {
		return nil, err
	}
	return ops, nil
}

func (r *operatorRepository) Create(ctx context.Context, op *model.Operator) error {
	query := `
		INSERT INTO operators (id, name, email, password, role, is_active, created_at, updated_at)
		VALUES (:id, :name, :email, :password, :role, :is_active, NOW(), NOW())
	`
	_, err := r.db.NamedExecContext(ctx, query, op)
	return err
}

func (r *operatorRepository) Update(ctx context.Context, op *model.Operator) error {
	query := `
		UPDATE operators
		SET name = :name, email = :email, role = :role, is_active = :is_active, updated_at = NOW()
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, op)
	return err
}
