package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

const MaxBiographyLen = 300

// ProfileInput is a partial profile update. Nil fields stay unchanged.
type ProfileInput struct {
	Nickname       *string `json:"nickname"`
	Biography      *string `json:"biography"`
	PreferredTheme *string `json:"preferred_theme"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*types.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error)
	// Avatar returns the uploaded PNG, or an initials avatar rendered on the fly.
	Avatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type userService struct {
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
	now           Clock
}

var validThemes = map[types.Theme]struct{}{
	types.ThemeLight:  {},
	types.ThemeDark:   {},
	types.ThemeSystem: {},
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService, now Clock) UserService {
	if now == nil {
		now = SystemClock
	}
	return &userService{
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
		now:           now,
	}
}

func (us *userService) load(ctx context.Context, op string, userID uuid.UUID) (*types.User, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbctx.New(ctx), userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		us.log.Error("load user failed", "op", op, "user_id", userID, "error", err)
		return nil, apperrors.Upstream(op, err)
	}
	return u, nil
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return us.load(ctx, "user.me", userID)
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*types.User, error) {
	updates := map[string]interface{}{}
	if in.Nickname != nil {
		v := strings.TrimSpace(*in.Nickname)
		if v == "" {
			return nil, apperrors.Invalid("nickname", "required", "must not be empty")
		}
		if utf8.RuneCountInString(v) > MaxNicknameLen {
			return nil, apperrors.Invalid("nickname", "max_length", "is too long")
		}
		updates["nickname"] = v
	}
	if in.Biography != nil {
		v := strings.TrimSpace(*in.Biography)
		if utf8.RuneCountInString(v) > MaxBiographyLen {
			return nil, apperrors.Invalid("biography", "max_length", "is too long")
		}
		updates["biography"] = v
	}
	if in.PreferredTheme != nil {
		v := types.Theme(strings.ToLower(strings.TrimSpace(*in.PreferredTheme)))
		if _, ok := validThemes[v]; !ok {
			return nil, apperrors.Invalid("preferred_theme", "enum", "must be light, dark or system")
		}
		updates["preferred_theme"] = v
	}
	if len(updates) == 0 {
		return nil, apperrors.Invalid("fields", "empty_update", "at least one field is required")
	}
	if _, err := us.load(ctx, "user.profile", userID); err != nil {
		return nil, err
	}
	updates["updated_at"] = us.now()
	if err := us.userRepo.UpdateFields(dbctx.New(ctx), userID, updates); err != nil {
		us.log.Error("update profile failed", "user_id", userID, "error", err)
		return nil, apperrors.Upstream("user.profile", err)
	}
	return us.load(ctx, "user.profile", userID)
}

func (us *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error) {
	if _, err := us.load(ctx, "user.avatar", userID); err != nil {
		return nil, err
	}
	png, err := us.avatarService.ProcessUpload(raw)
	if err != nil {
		return nil, err
	}
	if err := us.userRepo.UpdateFields(dbctx.New(ctx), userID, map[string]interface{}{
		"avatar_png": png,
		"updated_at": us.now(),
	}); err != nil {
		us.log.Error("store avatar failed", "user_id", userID, "error", err)
		return nil, apperrors.Upstream("user.avatar", err)
	}
	return us.load(ctx, "user.avatar", userID)
}

func (us *userService) Avatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	u, err := us.load(ctx, "user.avatar", userID)
	if err != nil {
		return nil, err
	}
	if u.HasAvatar() {
		return u.AvatarPNG, nil
	}
	return us.avatarService.RenderInitials(u)
}
