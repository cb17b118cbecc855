package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/pkg/slogx"
)

var (
	ErrInvalidNotification = errors.New("subject and body are required")
	ErrNoRecipients        = errors.New("no recipients matched")
)

// Dispatcher delivers one message to one recipient.
type Dispatcher interface {
	Dispatch(ctx context.Context, d domain.Delivery) error
}

// LogDispatcher records deliveries in the log instead of sending them.
type LogDispatcher struct {
	Logger *slog.Logger // falls back to the request logger
}

func (d LogDispatcher) Dispatch(ctx context.Context, msg domain.Delivery) error {
	l := d.Logger
	if l == nil {
		l = slogx.FromContext(ctx)
	}
	l.Info("simulated notification delivered",
		"contact_id", msg.Contact.ID,
		"to", msg.Contact.Email,
		"subject", msg.Subject,
	)
	return nil
}

type NotificationService struct {
	Store      store.Store
	Dispatcher Dispatcher
}

// Send resolves recipients, by contact id, else by category, else every
// contact, and dispatches to each. It returns the number of deliveries made.
func (s *NotificationService) Send(ctx context.Context, n domain.Notification) (int, error) {
	if strings.TrimSpace(n.Subject) == "" || strings.TrimSpace(n.Body) == "" {
		return 0, ErrInvalidNotification
	}

	recipients, err := s.recipients(ctx, n)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, ErrNoRecipients
	}

	sent := 0
	var errs []error
	for _, c := range recipients {
		err := s.Dispatcher.Dispatch(ctx, domain.Delivery{Contact: c, Subject: n.Subject, Body: n.Body})
		if err != nil {
			errs = append(errs, fmt.Errorf("dispatch to %s: %w", c.ID, err))
			continue
		}
		sent++
	}

	slogx.FromContext(ctx).Info("notification dispatched", "recipients", len(recipients), "sent", sent)
	return sent, errors.Join(errs...)
}

func (s *NotificationService) recipients(ctx context.Context, n domain.Notification) ([]domain.Contact, error) {
	contacts := s.Store.Contacts()

	switch {
	case n.ContactID != "":
		c, err := contacts.GetContactByID(ctx, n.ContactID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, persistenceErr("lookup contact", err)
		}
		return []domain.Contact{c}, nil

	case strings.TrimSpace(n.Category) != "":
		list, err := contacts.ListContactsByWorkField(ctx, strings.TrimSpace(n.Category))
		if err != nil {
			return nil, persistenceErr("list contacts by work field", err)
		}
		return list, nil

	default:
		list, err := contacts.ListContacts(ctx)
		if err != nil {
			return nil, persistenceErr("list contacts", err)
		}
		return list, nil
	}
}
