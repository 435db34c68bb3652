package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/ideabox-backend/internal/data/repos"
	"github.com/yungbote/ideabox-backend/internal/data/repos/testutil"
	"github.com/yungbote/ideabox-backend/internal/platform/openai"
	"github.com/yungbote/ideabox-backend/internal/platform/sendgrid"
)

type fixture struct {
	ideas repos.IdeaRepo
	msgs  repos.ChatMessageRepo
	users repos.UserRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return fixture{
		ideas: repos.NewIdeaRepo(db, log),
		msgs:  repos.NewChatMessageRepo(db, log),
		users: repos.NewUserRepo(db, log),
	}
}

// stepClock advances by step on every read.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock(start time.Time, step time.Duration) *stepClock {
	return &stepClock{t: start.UTC(), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

// fixedClock always reports the same instant.
func fixedClock(t time.Time) Clock {
	return func() time.Time { return t.UTC() }
}

type fakeAI struct {
	mu      sync.Mutex
	calls   [][]openai.Message
	instr   []string
	respond func(instructions string, input []openai.Message) (string, error)
}

func (f *fakeAI) Respond(ctx context.Context, instructions string, input []openai.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]openai.Message(nil), input...))
	f.instr = append(f.instr, instructions)
	f.mu.Unlock()
	if f.respond != nil {
		return f.respond(instructions, input)
	}
	return "ai says hi", nil
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	return f.Respond(ctx, system, []openai.Message{{Role: openai.RoleUser, Content: user}})
}

type fakeMail struct {
	mu   sync.Mutex
	sent []sendgrid.SendEmailRequest
	err  error
}

func (f *fakeMail) Send(ctx context.Context, req sendgrid.SendEmailRequest) (*sendgrid.SendEmailResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &sendgrid.SendEmailResult{StatusCode: 202}, nil
}

func str(s string) *string { return &s }
