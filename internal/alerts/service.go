// Package alerts manages opt-in subscriptions and confirmation delivery.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/firstmover/alert-api/internal/observability"
)

var (
	ErrNoContact    = errors.New("provide at least one of email or phone")
	ErrInvalidPhone = errors.New("invalid phone number (use 10-digit US)")
)

// SMSSender delivers a text message to a normalized 10-digit US number.
type SMSSender interface {
	Send(ctx context.Context, phone, body string) error
}

// EmailSender delivers one HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SubscriberStore persists subscription records.
type SubscriberStore interface {
	SaveSubscriber(ctx context.Context, sub domain.Subscriber) (domain.Subscriber, error)
}

// Service signs users up for listing alerts. Confirmation delivery is best
// effort; a subscription is saved even when both channels fail.
type Service struct {
	store   SubscriberStore
	sms     SMSSender
	email   EmailSender
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewService(store SubscriberStore, sms SMSSender, email EmailSender, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		sms:     sms,
		email:   email,
		metrics: metrics,
		logger:  logger,
	}
}

// Result reports whether a subscription was saved and the message shown to
// the user.
type Result struct {
	OK      bool
	Message string
}

// Subscribe validates contact details, stores the subscription, and sends
// confirmation over whichever channels were provided.
func (s *Service) Subscribe(ctx context.Context, email, phone, zipCode string) (Result, error) {
	emailClean := strings.TrimSpace(email)
	var phone10 string
	if strings.TrimSpace(phone) != "" {
		phone10 = NormalizePhone(phone)
		if phone10 == "" {
			s.metrics.Subscriptions.WithLabelValues("rejected").Inc()
			return Result{}, ErrInvalidPhone
		}
	}
	if emailClean == "" && phone10 == "" {
		s.metrics.Subscriptions.WithLabelValues("rejected").Inc()
		return Result{}, ErrNoContact
	}

	sub := domain.Subscriber{
		Email:     emailClean,
		Phone:     phone10,
		ZipCode:   strings.TrimSpace(zipCode),
		CreatedAt: domain.Clock().Now(),
	}
	saved, err := s.store.SaveSubscriber(ctx, sub)
	if err != nil {
		return Result{}, fmt.Errorf("save subscription: %w", err)
	}
	s.metrics.Subscriptions.WithLabelValues("saved").Inc()
	s.logger.Info("subscriber saved", "id", saved.ID, "zip", saved.ZipCode)

	zipPart := ""
	if saved.ZipCode != "" {
		zipPart = " for ZIP " + saved.ZipCode
	}
	body := fmt.Sprintf("You're signed up for First-Mover Alert%s. We'll notify you when high corporate-risk listings match your area.", zipPart)

	var smsErr, emailErr error
	smsTried, emailTried := false, false
	if phone10 != "" {
		smsTried = true
		smsErr = s.sms.Send(ctx, phone10, body)
		s.recordSend("sms", smsErr)
	}
	if emailClean != "" {
		emailTried = true
		html := fmt.Sprintf("<p>You're signed up for First-Mover Alert%s.</p><p>We'll notify you when high corporate-risk listings match your area.</p>", zipPart)
		emailErr = s.email.Send(ctx, emailClean, "You're signed up for First-Mover Alert", html)
		s.recordSend("email", emailErr)
	}

	return confirmationResult(smsTried, smsErr, emailTried, emailErr), nil
}

func (s *Service) recordSend(channel string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
		s.logger.Warn("confirmation send failed", "channel", channel, "error", err)
	}
	s.metrics.AlertSends.WithLabelValues(channel, outcome).Inc()
}

func confirmationResult(smsTried bool, smsErr error, emailTried bool, emailErr error) Result {
	smsOK := smsTried && smsErr == nil
	emailOK := emailTried && emailErr == nil
	if smsOK || emailOK {
		var parts []string
		if smsOK {
			parts = append(parts, "SMS")
		}
		if emailOK {
			parts = append(parts, "email")
		}
		return Result{OK: true, Message: fmt.Sprintf("Subscription confirmed via %s.", strings.Join(parts, " + "))}
	}
	if smsTried {
		return Result{OK: true, Message: "You're subscribed. Confirmation SMS didn't go through (free service may be slow); we'll still alert you when we have listings."}
	}
	if emailTried {
		if errors.Is(emailErr, domain.ErrNotConfigured) {
			return Result{OK: true, Message: "You're subscribed. Add RESEND_API_KEY in .env for confirmation emails."}
		}
		return Result{OK: false, Message: fmt.Sprintf("Email: %v", emailErr)}
	}
	return Result{OK: true, Message: "Subscription saved."}
}

// NormalizePhone reduces raw input to a 10-digit US number. It accepts an
// optional leading country code 1 and returns "" when the input cannot be
// normalized.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 10:
		return d
	case len(d) == 11 && strings.HasPrefix(d, "1"):
		return d[1:]
	}
	return ""
}
