package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/loreycode/cms-api/internal/mail"
	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
)

// ContactResult reports the outcome of a contact form submission.
type ContactResult struct {
	Delivered   bool
	SubmittedAt time.Time
}

// ContactService turns a validated contact form into two emails and a stored record.
type ContactService struct {
	submissions Repository[types.ContactSubmission]
	sender      mail.Sender
	recipient   string
	siteName    string
	notifier    *Notifier
	logger      *slog.Logger
	now         func() time.Time
}

// NewContactService returns a contact service. Notifications go to recipient.
func NewContactService(
	submissions Repository[types.ContactSubmission],
	sender mail.Sender,
	recipient, siteName string,
	notifier *Notifier,
	logger *slog.Logger,
) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{
		submissions: submissions,
		sender:      sender,
		recipient:   recipient,
		siteName:    siteName,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit sends the owner notification and then the auto-reply, and stores
// the submission. It never fails: every error is logged and reflected only
// in Delivered.
func (s *ContactService) Submit(ctx context.Context, in types.ContactRequest) ContactResult {
	submittedAt := s.now().UTC()
	data := mail.ContactData{
		SiteName:    s.siteName,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       deref(in.Phone),
		Service:     deref(in.Service),
		Subject:     in.Subject,
		Message:     in.Message,
		SubmittedAt: submittedAt,
	}

	delivered := s.deliver(ctx, data)

	fields := store.Fields{
		"name":            in.Name,
		"email":           in.Email,
		"phone":           in.Phone,
		"service":         in.Service,
		"subject":         in.Subject,
		"message":         in.Message,
		"email_delivered": delivered,
	}
	if saved, err := s.submissions.Insert(ctx, fields); err != nil {
		s.logger.Error("store contact submission", "email", in.Email, "error", err)
	} else {
		s.notifier.ContactReceived(ctx, saved.ID)
	}

	return ContactResult{Delivered: delivered, SubmittedAt: submittedAt}
}

func (s *ContactService) deliver(ctx context.Context, data mail.ContactData) bool {
	notification, err := mail.Notification(s.recipient, data)
	if err != nil {
		s.logger.Error("render contact notification", "error", err)
		return false
	}
	if err := s.sender.Send(ctx, notification); err != nil {
		s.logger.Error("send contact notification", "error", err)
		return false
	}

	reply, err := mail.AutoReply(data)
	if err != nil {
		s.logger.Error("render contact auto-reply", "error", err)
		return false
	}
	if err := s.sender.Send(ctx, reply); err != nil {
		s.logger.Error("send contact auto-reply", "to", data.Email, "error", err)
		return false
	}
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
