package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"solarline/solar-portal-backend/internal/apperr"
	"solarline/solar-portal-backend/internal/auth"
	"solarline/solar-portal-backend/pkg/workflow"
)

type memRepository struct {
	byEmail map[string]*User
}

func newMemRepository() *memRepository {
	return &memRepository{byEmail: map[string]*User{}}
}

func (r *memRepository) Create(_ context.Context, user *User) error {
	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *memRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	stored, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *stored
	return &copied, nil
}

func (r *memRepository) FindByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memRepository) List(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range r.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memRepository) ListByRole(_ context.Context, role workflow.Role) ([]User, error) {
	var out []User
	for _, u := range r.byEmail {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

const testSecret = "test-secret"

func newTestService(t *testing.T) (*Service, *memRepository) {
	t.Helper()
	repo := newMemRepository()
	return NewService(repo, testSecret, time.Hour, zap.NewNop()), repo
}

func seedUser(t *testing.T, repo *memRepository, email, password string, role workflow.Role) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &User{Name: "Seed", Email: email, Password: string(hash), Role: role}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestLoginSuccess(t *testing.T) {
	service, repo := newTestService(t)
	seeded := seedUser(t, repo, "admin@solar.com", "password", workflow.RoleTeamLeader)

	result, err := service.Login(context.Background(), "admin@solar.com", "password")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, result.ID)
	assert.Equal(t, workflow.RoleTeamLeader, result.Role)

	// The issued token carries the actor.
	actor, err := auth.ParseToken(testSecret, result.Token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, actor.ID)
	assert.Equal(t, workflow.RoleTeamLeader, actor.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	service, repo := newTestService(t)
	seedUser(t, repo, "admin@solar.com", "password", workflow.RoleTeamLeader)

	var authn *apperr.AuthenticationError

	// Wrong password and unknown account report the same error.
	_, err := service.Login(context.Background(), "admin@solar.com", "wrong")
	require.ErrorAs(t, err, &authn)
	assert.Equal(t, "invalid email or password", err.Error())

	_, err = service.Login(context.Background(), "nobody@solar.com", "password")
	assert.ErrorAs(t, err, &authn)
}

func TestRegisterRequiresTeamLeader(t *testing.T) {
	service, _ := newTestService(t)

	actor := auth.Actor{ID: primitive.NewObjectID(), Role: workflow.RoleAssistant}
	_, err := service.Register(context.Background(), actor, RegisterRequest{
		Name:     "New User",
		Email:    "new@solar.com",
		Password: "secret1",
		Role:     workflow.RoleAssistant,
	})

	var authz *apperr.AuthorizationError
	assert.ErrorAs(t, err, &authz)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, repo := newTestService(t)
	seedUser(t, repo, "taken@solar.com", "password", workflow.RoleAssistant)

	actor := auth.Actor{ID: primitive.NewObjectID(), Role: workflow.RoleTeamLeader}
	_, err := service.Register(context.Background(), actor, RegisterRequest{
		Name:     "New User",
		Email:    "taken@solar.com",
		Password: "secret1",
		Role:     workflow.RoleAssistant,
	})

	var valid *apperr.ValidationError
	require.ErrorAs(t, err, &valid)
	assert.Equal(t, "already exists", valid.Fields["email"])
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newTestService(t)

	actor := auth.Actor{ID: primitive.NewObjectID(), Role: workflow.RoleTeamLeader}
	_, err := service.Register(context.Background(), actor, RegisterRequest{
		Password: "short",
		Role:     workflow.Role("auditor"),
	})

	var valid *apperr.ValidationError
	require.ErrorAs(t, err, &valid)
	for _, field := range []string{"name", "email", "password", "role"} {
		assert.Contains(t, valid.Fields, field)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	service, repo := newTestService(t)

	actor := auth.Actor{ID: primitive.NewObjectID(), Role: workflow.RoleTeamLeader}
	created, err := service.Register(context.Background(), actor, RegisterRequest{
		Name:     "New User",
		Email:    "New@Solar.com",
		Password: "secret1",
		Role:     workflow.RoleTechnicalOfficer,
		Phone:    "+1234567893",
	})
	require.NoError(t, err)

	// Email is normalized; the stored password verifies but is not the
	// plaintext.
	stored, err := repo.FindByEmail(context.Background(), "new@solar.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, created.ID, stored.ID)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))
}
