package idea

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusNew         Status = "new"
	StatusInProgress  Status = "in_progress"
	StatusUnderReview Status = "under_review"
	StatusCompleted   Status = "completed"
)

// Level is the shared value set of priority, estimated effort and potential impact.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

var Statuses = []Status{StatusNew, StatusInProgress, StatusUnderReview, StatusCompleted}

var Levels = []Level{LevelLow, LevelMedium, LevelHigh}

type Idea struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_idea_owner_updated,priority:1" json:"owner_id"`

	Title       string `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description string `gorm:"column:description;type:varchar(500);not null;default:''" json:"description"`
	Category    string `gorm:"column:category;not null;default:'';index" json:"category"`
	Subcategory string `gorm:"column:subcategory;not null;default:''" json:"subcategory"`

	Status          Status         `gorm:"column:status;not null;default:'new';index" json:"status"`
	Priority        Level          `gorm:"column:priority;not null;default:'medium'" json:"priority"`
	EstimatedEffort Level          `gorm:"column:estimated_effort;not null;default:'medium'" json:"estimated_effort"`
	PotentialImpact Level          `gorm:"column:potential_impact;not null;default:'medium'" json:"potential_impact"`
	Tags            datatypes.JSON `gorm:"column:tags;not null;default:'[]'" json:"tags"`

	IsFavorite bool `gorm:"column:is_favorite;not null;default:false" json:"is_favorite"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false;index:idx_idea_owner_updated,priority:2" json:"updated_at"`
}

func (Idea) TableName() string { return "idea" }

// TagList decodes the stored tags column. A malformed column reads as empty.
func (i *Idea) TagList() []string {
	out := []string{}
	if i == nil || len(i.Tags) == 0 {
		return out
	}
	if err := json.Unmarshal(i.Tags, &out); err != nil {
		return []string{}
	}
	return out
}

func (i *Idea) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	raw, _ := json.Marshal(tags)
	i.Tags = datatypes.JSON(raw)
}

// Fields is a fully validated create request.
type Fields struct {
	Title           string
	Description     string
	Category        string
	Subcategory     string
	Priority        Level
	EstimatedEffort Level
	PotentialImpact Level
	Tags            []string
}

// Patch is a validated partial update. Nil means "leave unchanged".
type Patch struct {
	Title           *string
	Description     *string
	Category        *string
	Subcategory     *string
	Status          *Status
	Priority        *Level
	EstimatedEffort *Level
	PotentialImpact *Level
	Tags            *[]string
	IsFavorite      *bool
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil && p.Subcategory == nil &&
		p.Status == nil && p.Priority == nil && p.EstimatedEffort == nil && p.PotentialImpact == nil &&
		p.Tags == nil && p.IsFavorite == nil
}

// Apply merges the patch onto i. Identity and timestamps are untouched.
func (p Patch) Apply(i *Idea) {
	if p.Title != nil {
		i.Title = *p.Title
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Category != nil {
		i.Category = *p.Category
	}
	if p.Subcategory != nil {
		i.Subcategory = *p.Subcategory
	}
	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.Priority != nil {
		i.Priority = *p.Priority
	}
	if p.EstimatedEffort != nil {
		i.EstimatedEffort = *p.EstimatedEffort
	}
	if p.PotentialImpact != nil {
		i.PotentialImpact = *p.PotentialImpact
	}
	if p.Tags != nil {
		i.SetTags(*p.Tags)
	}
	if p.IsFavorite != nil {
		i.IsFavorite = *p.IsFavorite
	}
}
