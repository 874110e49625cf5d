package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmadqo/campus-console/internal/config"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/repository"
	"github.com/ahmadqo/campus-console/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Operator model.OperatorResponse `json:"operator"`
	Token    utils.SessionToken     `json:"token"`
}

type RegisterRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled, contact an administrator")
	ErrEmailAlreadyExists = errors.New("email is already registered")
	ErrOperatorNotFound   = errors.New("operator not found")
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*model.OperatorResponse, error)
	Me(ctx context.Context, operatorID string) (*model.OperatorResponse, error)
	Operators(ctx context.Context) ([]model.OperatorResponse, error)
	SetActive(ctx context.Context, operatorID string, active bool) error
}

type authService struct {
	repo repository.OperatorRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.OperatorRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	op, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrInvalidCredentials
	}
	if !op.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.IssueSessionToken(model.JWTClaims{
		UserID: op.ID.String(),
		Email:  op.Email,
		Role:   string(op.Role),
		Name:   op.Name,
	}, s.cfg.JWT.Secret, time.Duration(s.cfg.JWT.ExpireHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Operator: op.ToResponse(), Token: *token}, nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*model.OperatorResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if req.Role == "" {
		req.Role = model.RoleOperator
	}

	op := &model.Operator{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, op); err != nil {
		return nil, err
	}

	resp := op.ToResponse()
	return &resp, nil
}

func (s *authService) find(ctx context.Context, operatorID string) (*model.Operator, error) {
	id, err := uuid.Parse(operatorID)
	if err != nil {
		return nil, ErrOperatorNotFound
	}
	op, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, ErrOperatorNotFound
	}
	return op, nil
}

func (s *authService) Me(ctx context.Context, operatorID string) (*model.OperatorResponse, error) {
	op, err := s.find(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	resp := op.ToResponse()
	return &resp, nil
}

func (s *authService) Operators(ctx context.Context) ([]model.OperatorResponse, error) {
	ops, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.OperatorResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.ToResponse())
	}
	return out, nil
}

func (s *authService) SetActive(ctx context.Context, operatorID string, active bool) error {
	op, err := s.find(ctx, operatorID)
	if err != nil {
		return err
	}
	op.IsActive = active
	return s.repo.Update(ctx, op)
}
