package auth_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/auth"
)

type mockUserRepository struct {
	countFunc          func(ctx context.Context) (int, error)
	createFunc         func(ctx context.Context, user *auth.User) (int64, error)
	getByUsernameFunc  func(ctx context.Context, username string) (*auth.User, error)
	getByEmailFunc     func(ctx context.Context, email string) (*auth.User, error)
	updatePasswordFunc func(ctx context.Context, userID int64, passwordHash string) error
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	if m.countFunc == nil {
		return 0, nil
	}
	return m.countFunc(ctx)
}

func (m *mockUserRepository) Create(ctx context.Context, user *auth.User) (int64, error) {
	if m.createFunc == nil {
		user.ID = 1
		return 1, nil
	}
	return m.createFunc(ctx, user)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	if m.getByUsernameFunc == nil {
		return nil, auth.ErrUserNotFound
	}
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if m.getByEmailFunc == nil {
		return nil, auth.ErrUserNotFound
	}
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	if m.updatePasswordFunc == nil {
		return nil
	}
	return m.updatePasswordFunc(ctx, userID, passwordHash)
}

func adminUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{ID: 1, Username: "vanda", Email: "vanda@example.com", PasswordHash: string(hash)}
}

func TestServiceBootstrap(t *testing.T) {
	var created *auth.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *auth.User) (int64, error) {
			created = user
			user.ID = 1
			return 1, nil
		},
	}
	svc := auth.NewService(repo)

	user, err := svc.Bootstrap(context.Background(), "vanda", "Vanda@Example.com", "segredo1")
	require.NoError(t, err)

	assert.Equal(t, "vanda", user.Username)
	assert.Equal(t, "vanda@example.com", user.Email, "email is lowercased")
	require.NotNil(t, created)
	assert.NotEqual(t, "segredo1", created.PasswordHash, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("segredo1")))
}

func TestServiceBootstrapBlockedWhenUserExists(t *testing.T) {
	repo := &mockUserRepository{
		countFunc: func(ctx context.Context) (int, error) { return 1, nil },
	}
	svc := auth.NewService(repo)

	_, err := svc.Bootstrap(context.Background(), "alguem", "a@b.com", "segredo1")
	assert.ErrorIs(t, err, auth.ErrAlreadyConfigured)
}

func TestServiceLogin(t *testing.T) {
	user := adminUser(t, "senha-correta")
	repo := &mockUserRepository{
		getByUsernameFunc: func(ctx context.Context, username string) (*auth.User, error) {
			if username == user.Username {
				return user, nil
			}
			return nil, auth.ErrUserNotFound
		},
	}
	svc := auth.NewService(repo)

	t.Run("correct_password", func(t *testing.T) {
		got, err := svc.Login(context.Background(), "vanda", "senha-correta")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "vanda", "senha-errada")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown_username", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "intruso", "qualquer")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestServiceRequestResetCode(t *testing.T) {
	user := adminUser(t, "senha")
	repo := &mockUserRepository{
		getByEmailFunc: func(ctx context.Context, email string) (*auth.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, auth.ErrUserNotFound
		},
	}
	svc := auth.NewService(repo)

	code, err := svc.RequestResetCode(context.Background(), "Vanda@Example.com")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)

	_, err = svc.RequestResetCode(context.Background(), "nao-existe@example.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestServiceChangePassword(t *testing.T) {
	user := adminUser(t, "antiga")
	var storedHash string
	repo := &mockUserRepository{
		getByEmailFunc: func(ctx context.Context, email string) (*auth.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, auth.ErrUserNotFound
		},
		updatePasswordFunc: func(ctx context.Context, userID int64, passwordHash string) error {
			storedHash = passwordHash
			return nil
		},
	}
	svc := auth.NewService(repo)

	require.NoError(t, svc.ChangePassword(context.Background(), "vanda@example.com", "nova-senha"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("nova-senha")))

	assert.ErrorIs(t, svc.ChangePassword(context.Background(), "x@y.com", "nova"), auth.ErrUserNotFound)
	assert.Error(t, svc.ChangePassword(context.Background(), "vanda@example.com", "   "))
}
