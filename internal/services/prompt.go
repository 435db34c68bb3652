package services

import (
	"fmt"
	"strings"

	types "github.com/yungbote/ideabox-backend/internal/domain"
)

// HistoryWindow is how many prior user turns are replayed ahead of a new message.
const HistoryWindow = 6

const rateLimitedReply = "The assistant is receiving too many requests right now. Please wait a moment and send your message again."

var statusLabels = map[types.IdeaStatus]string{
	types.StatusNew:         "new",
	types.StatusInProgress:  "in progress",
	types.StatusUnderReview: "under review",
	types.StatusCompleted:   "completed",
}

// BuildIdeaInstructions embeds the idea as read-only context for the assistant.
func BuildIdeaInstructions(idea *types.Idea) string {
	status := statusLabels[idea.Status]
	if status == "" {
		status = string(idea.Status)
	}
	var b strings.Builder
	b.WriteString("You are a helpful assistant that helps the user develop and refine one of their ideas.\n")
	b.WriteString("Stay focused on this idea. Give concrete, practical suggestions and keep answers concise.\n\n")
	fmt.Fprintf(&b, "Idea title: %s\n", idea.Title)
	fmt.Fprintf(&b, "Idea description: %s\n", idea.Description)
	fmt.Fprintf(&b, "Current status: %s\n", status)
	return b.String()
}
