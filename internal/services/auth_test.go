package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	"github.com/yungbote/ideabox-backend/internal/data/repos/testutil"
	types "github.com/yungbote/ideabox-backend/internal/domain"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
)

type recordingMailer struct {
	sent []*types.User
	err  error
}

func (m *recordingMailer) SendWelcome(ctx context.Context, u *types.User) error {
	m.sent = append(m.sent, u)
	return m.err
}

type authHarness struct {
	svc    AuthService
	mr     *miniredis.Miniredis
	mailer *recordingMailer
	now    time.Time
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	f := newFixture(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	avatars, err := NewAvatarService(testutil.Logger(t), nil, 1)
	require.NoError(t, err)

	h := &authHarness{
		mr:     mr,
		mailer: &recordingMailer{},
		now:    time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	}
	svc, err := NewAuthService(
		testutil.Logger(t), f.users, repos.NewSessionStore(client, testutil.Logger(t)), avatars, h.mailer,
		AuthConfig{JWTSecret: "test-secret", AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour, RefreshWindow: 5 * time.Minute},
		func() time.Time { return h.now },
	)
	require.NoError(t, err)
	h.svc = svc
	return h
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(testutil.Logger(t), nil, nil, nil, nil, AuthConfig{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestRegisterAndLogin(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	u, err := h.svc.Register(ctx, "  Ada@Example.com ", "correct horse", "")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "ada", u.Nickname)
	assert.NotEqual(t, "correct horse", u.Password)
	assert.NotEmpty(t, u.AvatarColor)
	require.Len(t, h.mailer.sent, 1)

	_, err = h.svc.Register(ctx, "ada@example.com", "another pass", "x")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = h.svc.Login(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = h.svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	sess, err := h.svc.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)
	assert.Equal(t, h.now.Add(15*time.Minute), sess.Principal.ExpiresAt)
	assert.True(t, h.mr.Exists("session:"+sess.Principal.SessionID))

	p, err := h.svc.Authenticate(ctx, sess.Principal.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, "ada@example.com", p.Identity.Email)
}

func TestRegisterValidation(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	_, err := h.svc.Register(ctx, "not-an-email", "correct horse", "")
	ve, ok := apperrors.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "email", ve.Field)

	_, err = h.svc.Register(ctx, "bob@example.com", "short", "")
	ve, ok = apperrors.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "password", ve.Field)
	assert.Empty(t, h.mailer.sent)
}

func TestRegisterIgnoresWelcomeFailure(t *testing.T) {
	h := newAuthHarness(t)
	h.mailer.err = errors.New("mail down")
	u, err := h.svc.Register(context.Background(), "bob@example.com", "correct horse", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Nickname)
}

func TestAuthenticateRejects(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	_, err := h.svc.Register(ctx, "ada@example.com", "correct horse", "")
	require.NoError(t, err)
	sess, err := h.svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, err = h.svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = h.svc.Authenticate(ctx, sess.Principal.Token+"x")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	h.now = h.now.Add(16 * time.Minute)
	_, err = h.svc.Authenticate(ctx, sess.Principal.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshAndLogout(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()
	_, err := h.svc.Register(ctx, "ada@example.com", "correct horse", "")
	require.NoError(t, err)
	sess, err := h.svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, h.svc.RefreshWindow())
	assert.False(t, sess.Principal.NeedsRefresh(h.now, h.svc.RefreshWindow()))

	h.now = h.now.Add(12 * time.Minute)
	p, err := h.svc.Authenticate(ctx, sess.Principal.Token)
	require.NoError(t, err)
	require.True(t, p.NeedsRefresh(h.now, h.svc.RefreshWindow()))

	fresh, err := h.svc.Refresh(ctx, p)
	require.NoError(t, err)
	assert.True(t, fresh.ExpiresAt.After(p.ExpiresAt))
	assert.Equal(t, p.SessionID, fresh.SessionID)

	_, err = h.svc.Authenticate(ctx, fresh.Token)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, fresh.SessionID))
	assert.False(t, h.mr.Exists("session:"+fresh.SessionID))
	_, err = h.svc.Authenticate(ctx, fresh.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = h.svc.Refresh(ctx, fresh)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
