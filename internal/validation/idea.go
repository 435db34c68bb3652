package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/ideabox-backend/internal/domain/idea"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 500
	MaxCategoryLen    = 100
	MaxTagLen         = 50
	MaxTags           = 20
)

// IdeaInput is the raw field bag bound from a JSON body or form. Absent
// fields stay nil so one type serves both create and partial update.
type IdeaInput struct {
	Title           *string  `json:"title" form:"title"`
	Description     *string  `json:"description" form:"description"`
	Category        *string  `json:"category" form:"category"`
	Subcategory     *string  `json:"subcategory" form:"subcategory"`
	Status          *string  `json:"status" form:"status"`
	Priority        *string  `json:"priority" form:"priority"`
	EstimatedEffort *string  `json:"estimated_effort" form:"estimated_effort"`
	PotentialImpact *string  `json:"potential_impact" form:"potential_impact"`
	Tags            *TagList `json:"tags" form:"-"`
	IsFavorite      *bool    `json:"is_favorite" form:"is_favorite"`
}

// ValidateCreate requires every content field. Missing classification
// fields default to medium; status is always stamped by the service.
func ValidateCreate(in IdeaInput) (idea.Fields, error) {
	var out idea.Fields
	var err error

	if out.Title, err = requiredText("title", in.Title, MaxTitleLen); err != nil {
		return idea.Fields{}, err
	}
	if out.Description, err = requiredText("description", in.Description, MaxDescriptionLen); err != nil {
		return idea.Fields{}, err
	}
	if out.Category, err = requiredText("category", in.Category, MaxCategoryLen); err != nil {
		return idea.Fields{}, err
	}
	if out.Subcategory, err = requiredText("subcategory", in.Subcategory, MaxCategoryLen); err != nil {
		return idea.Fields{}, err
	}
	if in.Status != nil {
		if _, ok := ParseStatus(*in.Status); !ok {
			return idea.Fields{}, enumError("status", *in.Status)
		}
	}
	if out.Priority, err = levelOrDefault("priority", in.Priority); err != nil {
		return idea.Fields{}, err
	}
	if out.EstimatedEffort, err = levelOrDefault("estimated_effort", in.EstimatedEffort); err != nil {
		return idea.Fields{}, err
	}
	if out.PotentialImpact, err = levelOrDefault("potential_impact", in.PotentialImpact); err != nil {
		return idea.Fields{}, err
	}
	out.Tags = []string{}
	if in.Tags != nil {
		if out.Tags, err = tags(*in.Tags); err != nil {
			return idea.Fields{}, err
		}
	}
	return out, nil
}

// ValidateUpdate checks only the supplied fields. At least one is required.
func ValidateUpdate(in IdeaInput) (idea.Patch, error) {
	var p idea.Patch

	if in.Title != nil {
		v, err := requiredText("title", in.Title, MaxTitleLen)
		if err != nil {
			return idea.Patch{}, err
		}
		p.Title = &v
	}
	if in.Description != nil {
		v, err := requiredText("description", in.Description, MaxDescriptionLen)
		if err != nil {
			return idea.Patch{}, err
		}
		p.Description = &v
	}
	if in.Category != nil {
		v, err := requiredText("category", in.Category, MaxCategoryLen)
		if err != nil {
			return idea.Patch{}, err
		}
		p.Category = &v
	}
	if in.Subcategory != nil {
		v, err := requiredText("subcategory", in.Subcategory, MaxCategoryLen)
		if err != nil {
			return idea.Patch{}, err
		}
		p.Subcategory = &v
	}
	if in.Status != nil {
		s, ok := ParseStatus(*in.Status)
		if !ok {
			return idea.Patch{}, enumError("status", *in.Status)
		}
		p.Status = &s
	}
	for _, f := range []struct {
		name string
		raw  *string
		dst  **idea.Level
	}{
		{"priority", in.Priority, &p.Priority},
		{"estimated_effort", in.EstimatedEffort, &p.EstimatedEffort},
		{"potential_impact", in.PotentialImpact, &p.PotentialImpact},
	} {
		if f.raw == nil {
			continue
		}
		l, ok := ParseLevel(*f.raw)
		if !ok {
			return idea.Patch{}, enumError(f.name, *f.raw)
		}
		*f.dst = &l
	}
	if in.Tags != nil {
		t, err := tags(*in.Tags)
		if err != nil {
			return idea.Patch{}, err
		}
		p.Tags = &t
	}
	if in.IsFavorite != nil {
		v := *in.IsFavorite
		p.IsFavorite = &v
	}

	if p.Empty() {
		return idea.Patch{}, apperrors.Invalid("fields", "empty_update", "at least one field is required")
	}
	return p, nil
}

func requiredText(field string, raw *string, max int) (string, error) {
	if raw == nil {
		return "", apperrors.Invalid(field, "required", "is required")
	}
	v := strings.TrimSpace(*raw)
	if v == "" {
		return "", apperrors.Invalid(field, "required", "must not be empty")
	}
	if utf8.RuneCountInString(v) > max {
		return "", apperrors.Invalid(field, "max_length", "is too long")
	}
	return v, nil
}

// levelOrDefault defaults an absent field. A present blank value is an
// enum failure, same as on update.
func levelOrDefault(field string, raw *string) (idea.Level, error) {
	if raw == nil {
		return idea.LevelMedium, nil
	}
	l, ok := ParseLevel(*raw)
	if !ok {
		return "", enumError(field, *raw)
	}
	return l, nil
}

func enumError(field, raw string) error {
	return apperrors.Invalid(field, "enum", "unsupported value "+strconv.Quote(truncate(raw, 40)))
}

func tags(in TagList) ([]string, error) {
	out := NormalizeTags(in)
	if len(out) > MaxTags {
		return nil, apperrors.Invalid("tags", "max_items", "too many tags")
	}
	for _, t := range out {
		if utf8.RuneCountInString(t) > MaxTagLen {
			return nil, apperrors.Invalid("tags", "max_length", "tag is too long")
		}
	}
	return out, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
