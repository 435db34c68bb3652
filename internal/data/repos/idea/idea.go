package idea

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
)

// IdeaRepo is the owner-scoped record store for ideas. Every query carries
// owner_id; a row owned by someone else is indistinguishable from a missing one.
type IdeaRepo interface {
	Create(dbc dbctx.Context, row *types.Idea) error
	GetByID(dbc dbctx.Context, id uint, ownerID uuid.UUID) (*types.Idea, error)
	List(dbc dbctx.Context, ownerID uuid.UUID, search string) ([]*types.Idea, error)
	ListRecentCreated(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*types.Idea, error)
	ListTimeline(dbc dbctx.Context, ownerID uuid.UUID) ([]TimelineRow, error)
	CountByStatus(dbc dbctx.Context, ownerID uuid.UUID) (map[types.IdeaStatus]int64, error)
	Save(dbc dbctx.Context, row *types.Idea) (bool, error)
	Delete(dbc dbctx.Context, id uint, ownerID uuid.UUID) (bool, error)
}

// TimelineRow is the projection the dashboard buckets by month.
type TimelineRow struct {
	Status    types.IdeaStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ideaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdeaRepo(db *gorm.DB, baseLog *logger.Logger) IdeaRepo {
	return &ideaRepo{db: db, log: baseLog.With("repo", "IdeaRepo")}
}

func (r *ideaRepo) Create(dbc dbctx.Context, row *types.Idea) error {
	if row == nil {
		return errors.New("nil idea")
	}
	if row.OwnerID == uuid.Nil {
		return errors.New("missing owner_id")
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *ideaRepo) GetByID(dbc dbctx.Context, id uint, ownerID uuid.UUID) (*types.Idea, error) {
	var out types.Idea
	err := dbc.DB(r.db).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *ideaRepo) List(dbc dbctx.Context, ownerID uuid.UUID, search string) ([]*types.Idea, error) {
	q := dbc.DB(r.db).Model(&types.Idea{}).Where("owner_id = ?", ownerID)
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	out := []*types.Idea{}
	if err := q.Order("updated_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ideaRepo) ListRecentCreated(dbc dbctx.Context, ownerID uuid.UUID, limit int) ([]*types.Idea, error) {
	if limit <= 0 || limit > 100 {
		limit = 3
	}
	out := []*types.Idea{}
	if err := dbc.DB(r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ideaRepo) ListTimeline(dbc dbctx.Context, ownerID uuid.UUID) ([]TimelineRow, error) {
	out := []TimelineRow{}
	if err := dbc.DB(r.db).
		Model(&types.Idea{}).
		Select("status", "created_at", "updated_at").
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ideaRepo) CountByStatus(dbc dbctx.Context, ownerID uuid.UUID) (map[types.IdeaStatus]int64, error) {
	var rows []struct {
		Status types.IdeaStatus
		N      int64
	}
	if err := dbc.DB(r.db).
		Model(&types.Idea{}).
		Select("status, COUNT(*) AS n").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[types.IdeaStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

// Save writes every mutable column of row, guarded by id AND owner_id.
// It reports false when no row matched.
func (r *ideaRepo) Save(dbc dbctx.Context, row *types.Idea) (bool, error) {
	if row == nil || row.ID == 0 {
		return false, errors.New("missing idea id")
	}
	res := dbc.DB(r.db).
		Model(&types.Idea{}).
		Where("id = ? AND owner_id = ?", row.ID, row.OwnerID).
		Updates(map[string]interface{}{
			"title":            row.Title,
			"description":      row.Description,
			"category":         row.Category,
			"subcategory":      row.Subcategory,
			"status":           row.Status,
			"priority":         row.Priority,
			"estimated_effort": row.EstimatedEffort,
			"potential_impact": row.PotentialImpact,
			"tags":             row.Tags,
			"is_favorite":      row.IsFavorite,
			"updated_at":       row.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the idea and its conversation in one transaction. The
// message sweep is explicit so it does not depend on the driver enforcing
// the foreign key.
func (r *ideaRepo) Delete(dbc dbctx.Context, id uint, ownerID uuid.UUID) (bool, error) {
	deleted := false
	err := dbctx.InTx(dbc, r.db, func(t dbctx.Context) error {
		if err := t.DB(r.db).
			Where("idea_id = ? AND owner_id = ?", id, ownerID).
			Delete(&types.ChatMessage{}).Error; err != nil {
			return err
		}
		res := t.DB(r.db).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Delete(&types.Idea{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
