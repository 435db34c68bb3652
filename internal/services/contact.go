package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	types "github.com/yungbote/ideabox-backend/internal/domain"
	"github.com/yungbote/ideabox-backend/internal/observability"
	apperrors "github.com/yungbote/ideabox-backend/internal/pkg/errors"
	"github.com/yungbote/ideabox-backend/internal/platform/logger"
	"github.com/yungbote/ideabox-backend/internal/platform/sendgrid"
)

const (
	MaxContactSubjectLen = 150
	MaxContactMessageLen = 4000
)

type ContactInput struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactService interface {
	Send(ctx context.Context, from types.Identity, in ContactInput) error
	SendWelcome(ctx context.Context, u *types.User) error
}

type contactService struct {
	log          *logger.Logger
	email        sendgrid.Client
	supportEmail string
	productName  string
}

func NewContactService(log *logger.Logger, email sendgrid.Client, supportEmail, productName string) ContactService {
	if strings.TrimSpace(productName) == "" {
		productName = "Ideabox"
	}
	return &contactService{
		log:          log.With("service", "ContactService"),
		email:        email,
		supportEmail: strings.TrimSpace(supportEmail),
		productName:  productName,
	}
}

func (cs *contactService) Send(ctx context.Context, from types.Identity, in ContactInput) error {
	if from.ID == uuid.Nil {
		return apperrors.ErrUnauthorized
	}
	subject := strings.TrimSpace(in.Subject)
	message := strings.TrimSpace(in.Message)
	if subject == "" {
		return apperrors.Invalid("subject", "required", "is required")
	}
	if utf8.RuneCountInString(subject) > MaxContactSubjectLen {
		return apperrors.Invalid("subject", "max_length", "is too long")
	}
	if message == "" {
		return apperrors.Invalid("message", "required", "is required")
	}
	if utf8.RuneCountInString(message) > MaxContactMessageLen {
		return apperrors.Invalid("message", "max_length", "is too long")
	}
	if cs.supportEmail == "" {
		return apperrors.Upstream("email.contact", fmt.Errorf("support address not configured"))
	}

	body := fmt.Sprintf("From: %s <%s>\nUser ID: %s\n\n%s", from.Nickname, from.Email, from.ID, message)
	req := sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: cs.supportEmail}},
		Subject:    fmt.Sprintf("[%s feedback] %s", cs.productName, subject),
		Text:       body,
		Categories: []string{"contact"},
	}
	if from.Email != "" {
		req.ReplyTo = &sendgrid.EmailAddress{Email: from.Email, Name: from.Nickname}
	}
	if _, err := cs.email.Send(ctx, req); err != nil {
		observability.Current().IncEmail("contact", "failed")
		cs.log.Error("contact email failed", "user_id", from.ID, "error", err)
		return apperrors.Upstream("email.contact", err)
	}
	observability.Current().IncEmail("contact", "sent")
	return nil
}

func (cs *contactService) SendWelcome(ctx context.Context, u *types.User) error {
	if u == nil || u.Email == "" {
		return fmt.Errorf("user email required")
	}
	name := u.Nickname
	if name == "" {
		name = "there"
	}
	_, err := cs.email.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: u.Email, Name: u.Nickname}},
		Subject:    fmt.Sprintf("Welcome to %s", cs.productName),
		Text:       fmt.Sprintf("Hi %s,\n\nYour account is ready. Capture your first idea and ask the assistant to help you shape it.\n\nThe %s team", name, cs.productName),
		Categories: []string{"welcome"},
	})
	if err != nil {
		observability.Current().IncEmail("welcome", "failed")
		return apperrors.Upstream("email.welcome", err)
	}
	observability.Current().IncEmail("welcome", "sent")
	return nil
}
