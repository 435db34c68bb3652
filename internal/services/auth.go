package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

const (
	MinPasswordLen = 8
	MaxNicknameLen = 60
)

type AuthConfig struct {
	JWTSecret     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	RefreshWindow time.Duration
}

// Principal is a verified caller.
type Principal struct {
	UserID    uuid.UUID
	SessionID string
	Token     string
	ExpiresAt time.Time
	Identity  types.Identity
}

// NeedsRefresh reports whether the access token expires within window.
func (p *Principal) NeedsRefresh(now time.Time, window time.Duration) bool {
	return p != nil && window > 0 && p.ExpiresAt.Sub(now) <= window
}

type Session struct {
	User      *types.User
	Principal *Principal
}

type WelcomeMailer interface {
	SendWelcome(ctx context.Context, u *types.User) error
}

type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) (*types.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, token string) (*Principal, error)
	Refresh(ctx context.Context, p *Principal) (*Principal, error)
	RefreshWindow() time.Duration
}

type accessClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

type authService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	sessions repos.SessionStore
	avatars  AvatarService
	mailer   WelcomeMailer
	cfg      AuthConfig
	now      Clock
}

func NewAuthService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	sessions repos.SessionStore,
	avatars AvatarService,
	mailer WelcomeMailer,
	cfg AuthConfig,
	now Clock,
) (AuthService, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.RefreshWindow < 0 {
		cfg.RefreshWindow = 0
	}
	if now == nil {
		now = SystemClock
	}
	return &authService{
		log:      log.With("service", "AuthService"),
		userRepo: userRepo,
		sessions: sessions,
		avatars:  avatars,
		mailer:   mailer,
		cfg:      cfg,
		now:      now,
	}, nil
}

func (as *authService) RefreshWindow() time.Duration { return as.cfg.RefreshWindow }

func validateEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.Invalid("email", "required", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperrors.Invalid("email", "format", "is not a valid address")
	}
	return email, nil
}

func (as *authService) Register(ctx context.Context, email, password, nickname string) (*types.User, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return nil, apperrors.Invalid("password", "min_length", fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = strings.SplitN(email, "@", 2)[0]
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLen {
		return nil, apperrors.Invalid("nickname", "max_length", "is too long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := as.now()
	u := &types.User{
		ID:             uuid.New(),
		Email:          email,
		Password:       string(hash),
		Nickname:       nickname,
		PreferredTheme: types.ThemeSystem,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if as.avatars != nil {
		u.AvatarColor = as.avatars.PickColor(u.AvatarColor)
	}
	if err := as.userRepo.Create(dbctx.New(ctx), u); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.ErrConflict
		}
		as.log.Error("create user failed", "error", err)
		return nil, apperrors.Upstream("auth.register", err)
	}

	if as.mailer != nil {
		if err := as.mailer.SendWelcome(ctx, u); err != nil {
			as.log.Warn("welcome email failed (ignored)", "user_id", u.ID, "error", err)
		}
	}
	return u, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrUnauthorized
	}
	u, err := as.userRepo.GetByEmail(dbctx.New(ctx), email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, apperrors.Upstream("auth.login", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	now := as.now()
	sess := &types.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		CreatedAt: now,
		ExpiresAt: now.Add(as.cfg.RefreshTTL),
	}
	if err := as.sessions.Save(ctx, sess, as.cfg.RefreshTTL); err != nil {
		as.log.Error("save session failed", "user_id", u.ID, "error", err)
		return nil, apperrors.Upstream("auth.session", err)
	}
	p, err := as.issue(sess)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Principal: p}, nil
}

func (as *authService) issue(sess *types.Session) (*Principal, error) {
	now := as.now()
	exp := now.Add(as.cfg.AccessTTL).Truncate(time.Second)
	claims := accessClaims{
		SessionID: sess.ID,
		Email:     sess.Email,
		Nickname:  sess.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Principal{
		UserID:    sess.UserID,
		SessionID: sess.ID,
		Token:     signed,
		ExpiresAt: exp,
		Identity:  types.Identity{ID: sess.UserID, Email: sess.Email, Nickname: sess.Nickname},
	}, nil
}

func (as *authService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.SessionID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	sess, err := as.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, apperrors.ErrUnauthorized) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, apperrors.Upstream("auth.session", err)
	}
	if sess.UserID != userID {
		return nil, apperrors.ErrUnauthorized
	}
	return &Principal{
		UserID:    userID,
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Identity:  types.Identity{ID: userID, Email: sess.Email, Nickname: sess.Nickname},
	}, nil
}

// Refresh issues a new access token for a live session and extends the
// session's lifetime.
func (as *authService) Refresh(ctx context.Context, p *Principal) (*Principal, error) {
	if p == nil || p.SessionID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	sess, err := as.sessions.Get(ctx, p.SessionID)
	if err != nil {
		return nil, err
	}
	if err := as.sessions.Touch(ctx, sess.ID, as.cfg.RefreshTTL); err != nil {
		return nil, err
	}
	return as.issue(sess)
}

func (as *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.ErrUnauthorized
	}
	if err := as.sessions.Revoke(ctx, sessionID); err != nil {
		return apperrors.Upstream("auth.logout", err)
	}
	return nil
}
