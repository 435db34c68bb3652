package validation

import (
	"strings"

	"github.com/yungbote/ideabox-backend/internal/domain/idea"
)

// Localized values the product historically stored. They coerce to the
// canonical enum; anything outside these tables is rejected.
var levelAliases = map[string]idea.Level{
	"low":    idea.LevelLow,
	"medium": idea.LevelMedium,
	"high":   idea.LevelHigh,
	"baja":   idea.LevelLow,
	"bajo":   idea.LevelLow,
	"media":  idea.LevelMedium,
	"medio":  idea.LevelMedium,
	"alta":   idea.LevelHigh,
	"alto":   idea.LevelHigh,
}

var statusAliases = map[string]idea.Status{
	"new":          idea.StatusNew,
	"in_progress":  idea.StatusInProgress,
	"under_review": idea.StatusUnderReview,
	"completed":    idea.StatusCompleted,
	"nueva":        idea.StatusNew,
	"nuevo":        idea.StatusNew,
	"en_progreso":  idea.StatusInProgress,
	"en_revision":  idea.StatusUnderReview,
	"en_revisión":  idea.StatusUnderReview,
	"completada":   idea.StatusCompleted,
	"completado":   idea.StatusCompleted,
}

func enumKey(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	k = strings.ReplaceAll(k, "-", "_")
	return strings.Join(strings.Fields(k), "_")
}

func ParseLevel(raw string) (idea.Level, bool) {
	l, ok := levelAliases[enumKey(raw)]
	return l, ok
}

func ParseStatus(raw string) (idea.Status, bool) {
	s, ok := statusAliases[enumKey(raw)]
	return s, ok
}
