package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bioisac/admindesk/internal/admin/domain"
	"github.com/bioisac/admindesk/internal/admin/store"
	"github.com/bioisac/admindesk/pkg/idx"
	"github.com/bioisac/admindesk/pkg/slogx"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrInvalidContact  = errors.New("invalid contact")
)

// ContactInput is the user-editable part of a contact.
type ContactInput struct {
	Name      string
	Email     string
	WorkField string
}

func (in ContactInput) normalize() (ContactInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.WorkField = strings.TrimSpace(in.WorkField)

	if in.Name == "" || in.Email == "" || in.WorkField == "" {
		return in, fmt.Errorf("%w: name, email and work field are required", ErrInvalidContact)
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return in, fmt.Errorf("%w: malformed email address", ErrInvalidContact)
	}
	return in, nil
}

type ContactService struct {
	Store store.Store
}

func (s *ContactService) List(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := s.Store.Contacts().ListContacts(ctx)
	if err != nil {
		return nil, persistenceErr("list contacts", err)
	}
	return contacts, nil
}

// Categories returns the distinct work fields, sorted.
func (s *ContactService) Categories(ctx context.Context) ([]string, error) {
	fields, err := s.Store.Contacts().ListWorkFields(ctx)
	if err != nil {
		return nil, persistenceErr("list work fields", err)
	}
	return fields, nil
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (domain.Contact, error) {
	in, err := in.normalize()
	if err != nil {
		return domain.Contact{}, err
	}

	now := time.Now()
	c := domain.Contact{
		ID:        idx.NewAt(now),
		Name:      in.Name,
		Email:     in.Email,
		WorkField: in.WorkField,
		CreatedAt: now,
	}
	if err := s.Store.Contacts().CreateContact(ctx, c); err != nil {
		return domain.Contact{}, persistenceErr("create contact", err)
	}
	slogx.FromContext(ctx).Info("contact created", "contact_id", c.ID, "work_field", c.WorkField)
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, id string, in ContactInput) (domain.Contact, error) {
	in, err := in.normalize()
	if err != nil {
		return domain.Contact{}, err
	}

	if !idx.Valid(id) {
		return domain.Contact{}, ErrContactNotFound
	}

	c := domain.Contact{ID: id, Name: in.Name, Email: in.Email, WorkField: in.WorkField}
	err = s.Store.Contacts().UpdateContact(ctx, c)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Contact{}, ErrContactNotFound
	}
	if err != nil {
		return domain.Contact{}, persistenceErr("update contact", err)
	}

	updated, err := s.Store.Contacts().GetContactByID(ctx, id)
	if err != nil {
		return domain.Contact{}, persistenceErr("reload contact", err)
	}
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	if !idx.Valid(id) {
		return ErrContactNotFound
	}

	err := s.Store.Contacts().DeleteContact(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrContactNotFound
	}
	if err != nil {
		return persistenceErr("delete contact", err)
	}
	slogx.FromContext(ctx).Info("contact deleted", "contact_id", id)
	return nil
}
