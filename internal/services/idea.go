package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/observability"
	"github.com/yungbote/ideabox-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
	"github.com/yungbote/ideabox-backend/internal/validation"
)

type IdeaService interface {
	List(ctx context.Context, ownerID uuid.UUID, search string) ([]*types.Idea, error)
	Get(ctx context.Context, id uint, ownerID uuid.UUID) (*types.Idea, error)
	Create(ctx context.Context, ownerID uuid.UUID, in validation.IdeaInput) (*types.Idea, error)
	Update(ctx context.Context, id uint, ownerID uuid.UUID, in validation.IdeaInput) (*types.Idea, error)
	ToggleFavorite(ctx context.Context, id uint, ownerID uuid.UUID) (*types.Idea, error)
	Delete(ctx context.Context, id uint, ownerID uuid.UUID) (bool, error)
}

type ideaService struct {
	log      *logger.Logger
	ideaRepo repos.IdeaRepo
	now      Clock
}

func NewIdeaService(log *logger.Logger, ideaRepo repos.IdeaRepo, now Clock) IdeaService {
	if now == nil {
		now = SystemClock
	}
	return &ideaService{
		log:      log.With("service", "IdeaService"),
		ideaRepo: ideaRepo,
		now:      now,
	}
}

func requireOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return apperrors.ErrUnauthorized
	}
	return nil
}

// storeErr passes not-found through and wraps everything else as upstream.
func (s *ideaService) storeErr(op string, err error, kv ...interface{}) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.ErrNotFound
	}
	s.log.Error("idea store failure", append([]interface{}{"op", op, "error", err}, kv...)...)
	return apperrors.Upstream(op, err)
}

func (s *ideaService) List(ctx context.Context, ownerID uuid.UUID, search string) ([]*types.Idea, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	out, err := s.ideaRepo.List(dbctx.New(ctx), ownerID, search)
	if err != nil {
		return nil, s.storeErr("idea.list", err, "owner_id", ownerID)
	}
	if out == nil {
		out = []*types.Idea{}
	}
	return out, nil
}

func (s *ideaService) Get(ctx context.Context, id uint, ownerID uuid.UUID) (*types.Idea, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	row, err := s.ideaRepo.GetByID(dbctx.New(ctx), id, ownerID)
	if err != nil {
		return nil, s.storeErr("idea.get", err, "idea_id", id, "owner_id", ownerID)
	}
	return row, nil
}

func (s *ideaService) Create(ctx context.Context, ownerID uuid.UUID, in validation.IdeaInput) (*types.Idea, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	fields, err := validation.ValidateCreate(in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	row := &types.Idea{
		OwnerID:         ownerID,
		Title:           fields.Title,
		Description:     fields.Description,
		Category:        fields.Category,
		Subcategory:     fields.Subcategory,
		Status:          types.StatusNew,
		Priority:        fields.Priority,
		EstimatedEffort: fields.EstimatedEffort,
		PotentialImpact: fields.PotentialImpact,
		IsFavorite:      false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	row.SetTags(fields.Tags)
	if err := s.ideaRepo.Create(dbctx.New(ctx), row); err != nil {
		return nil, s.storeErr("idea.create", err, "owner_id", ownerID)
	}
	observability.Current().IncIdeaMutation("create")
	return row, nil
}

func (s *ideaService) Update(ctx context.Context, id uint, ownerID uuid.UUID, in validation.IdeaInput) (*types.Idea, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	patch, err := validation.ValidateUpdate(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, "idea.update", id, ownerID, patch.Apply)
}

func (s *ideaService) ToggleFavorite(ctx context.Context, id uint, ownerID uuid.UUID) (*types.Idea, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "idea.favorite", id, ownerID, func(row *types.Idea) {
		row.IsFavorite = !row.IsFavorite
	})
}

// mutate loads the owned row, applies fn and writes it back under the same
// id AND owner_id predicate, bumping updated_at strictly forward.
func (s *ideaService) mutate(ctx context.Context, op string, id uint, ownerID uuid.UUID, fn func(*types.Idea)) (*types.Idea, error) {
	dbc := dbctx.New(ctx)
	row, err := s.ideaRepo.GetByID(dbc, id, ownerID)
	if err != nil {
		return nil, s.storeErr(op, err, "idea_id", id, "owner_id", ownerID)
	}
	prev := row.UpdatedAt
	fn(row)
	row.ID = id
	row.OwnerID = ownerID
	row.UpdatedAt = nextStamp(s.now(), prev)

	ok, err := s.ideaRepo.Save(dbc, row)
	if err != nil {
		return nil, s.storeErr(op, err, "idea_id", id, "owner_id", ownerID)
	}
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	observability.Current().IncIdeaMutation(op)
	return row, nil
}

func (s *ideaService) Delete(ctx context.Context, id uint, ownerID uuid.UUID) (bool, error) {
	if err := requireOwner(ownerID); err != nil {
		return false, err
	}
	deleted, err := s.ideaRepo.Delete(dbctx.New(ctx), id, ownerID)
	if err != nil {
		return false, s.storeErr("idea.delete", err, "idea_id", id, "owner_id", ownerID)
	}
	if deleted {
		observability.Current().IncIdeaMutation("delete")
	}
	return deleted, nil
}
