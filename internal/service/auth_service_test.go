package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmadqo/campus-console/internal/config"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/utils"
)

type fakeOperatorRepo struct {
	byID map[uuid.UUID]*model.Operator
}

func newFakeOperatorRepo(ops ...*model.Operator) *fakeOperatorRepo {
	r := &fakeOperatorRepo{byID: map[uuid.UUID]*model.Operator{}}
	for _, op := range ops {
		r.byID[op.ID] = op
	}
	return r
}

func (r *fakeOperatorRepo) FindByEmail(_ context.Context, email string) (*model.Operator, error) {
	for _, op := range r.byID {
		if op.Email == email {
			c := *op
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeOperatorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Operator, error) {
	op, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := *op
	return &c, nil
}

func (r *fakeOperatorRepo) List(context.Context) ([]*model.Operator, error) {
	out := make([]*model.Operator, 0, len(r.byID))
	for _, op := range r.byID {
		out = append(out, op)
	}
	return out, nil
}

func (r *fakeOperatorRepo) Create(_ context.Context, op *model.Operator) error {
	r.byID[op.ID] = op
	return nil
}

func (r *fakeOperatorRepo) Update(_ context.Context, op *model.Operator) error {
	r.byID[op.ID] = op
	return nil
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 1}}
}

func operator(t *testing.T, email, password string, active bool) *model.Operator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.Operator{ID: uuid.New(), Name: "Office", Email: email, Password: string(hash), Role: model.RoleOperator, IsActive: active}
}

func TestAuth_Login(t *testing.T) {
	op := operator(t, "office@campus.local", "Office@123", true)
	svc := NewAuthService(newFakeOperatorRepo(op), testConfig())
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "  Office@Campus.local ", Password: "Office@123"})
	require.NoError(t, err)
	assert.Equal(t, op.ID, resp.Operator.ID)

	claims, err := utils.ValidateToken(resp.Token.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, op.ID.String(), claims.UserID)
	assert.Equal(t, "operator", claims.Role)

	_, err = svc.Login(ctx, LoginRequest{Email: "office@campus.local", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@campus.local", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_DisabledAccount(t *testing.T) {
	op := operator(t, "old@campus.local", "Office@123", false)
	svc := NewAuthService(newFakeOperatorRepo(op), testConfig())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "old@campus.local", Password: "Office@123"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuth_RegisterAndToggle(t *testing.T) {
	repo := newFakeOperatorRepo()
	svc := NewAuthService(repo, testConfig())
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterRequest{Name: "Clerk", Email: "Clerk@Campus.local", Password: "Clerk@123"})
	require.NoError(t, err)
	assert.Equal(t, "clerk@campus.local", created.Email)
	assert.Equal(t, model.RoleOperator, created.Role)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Again", Email: "clerk@campus.local", Password: "Clerk@123"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	require.NoError(t, svc.SetActive(ctx, created.ID.String(), false))
	me, err := svc.Me(ctx, created.ID.String())
	require.NoError(t, err)
	assert.False(t, me.IsActive)

	_, err = svc.Me(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrOperatorNotFound)

	all, err := svc.Operators(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
