package service

import (
	"context"
	"encoding/json"
	"sync"

	"overcooked-delivery/apperr"
	"overcooked-delivery/storefront-svc/internal/domain"
)

// CheckoutStaging is the single slot for the order draft being checked out.
// Generation changes whenever the slot is replaced or cleared, so results of
// slow calls made against an older draft can be recognised and dropped.
type CheckoutStaging struct {
	mu         sync.RWMutex
	storage    LocalStorage
	draft      *domain.OrderDraft
	generation uint64
}

func NewCheckoutStaging(ctx context.Context, storage LocalStorage) (*CheckoutStaging, error) {
	s := &CheckoutStaging{storage: storage}

	raw, ok, err := storage.Get(ctx, KeyCheckoutDraft)
	if err != nil {
		return nil, apperr.Network("load checkout draft", err)
	}
	if !ok || raw == "" {
		return s, nil
	}

	var draft domain.OrderDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, apperr.Integrity("checkout draft snapshot: %v", err)
	}
	s.draft = &draft
	return s, nil
}

func (s *CheckoutStaging) SetDraft(ctx context.Context, draft domain.OrderDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := draft.Clone()
	if err := s.persist(ctx, &next); err != nil {
		return err
	}
	s.draft = &next
	s.generation++
	return nil
}

func (s *CheckoutStaging) SetPaymentMethod(ctx context.Context, method domain.PaymentMethod) error {
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		return err
	}
	return s.update(ctx, func(d *domain.OrderDraft) {
		d.PaymentMethod = method
	})
}

// SetAddressDetails replaces the address text and instructions and keeps any
// coordinates already on the draft.
func (s *CheckoutStaging) SetAddressDetails(ctx context.Context, address, instructions string) error {
	if address == "" {
		return apperr.Validation("delivery address is required")
	}
	return s.update(ctx, func(d *domain.OrderDraft) {
		d.DeliveryAddress.Text = address
		d.DeliveryInstructions = instructions
	})
}

// SetPaymentReference does nothing when no draft is staged.
func (s *CheckoutStaging) SetPaymentReference(ctx context.Context, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil
	}
	next := s.draft.Clone()
	next.PaymentReference = reference
	if err := s.persist(ctx, &next); err != nil {
		return err
	}
	s.draft = &next
	return nil
}

// MarkSubmitted records that the order API accepted the draft as orderID.
func (s *CheckoutStaging) MarkSubmitted(ctx context.Context, orderID int64) error {
	return s.update(ctx, func(d *domain.OrderDraft) {
		d.SubmittedOrderID = orderID
	})
}

func (s *CheckoutStaging) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, KeyCheckoutDraft); err != nil {
		return apperr.Network("clear checkout draft", err)
	}
	s.draft = nil
	s.generation++
	return nil
}

func (s *CheckoutStaging) Draft() (domain.OrderDraft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft == nil {
		return domain.OrderDraft{}, false
	}
	return s.draft.Clone(), true
}

func (s *CheckoutStaging) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *CheckoutStaging) update(ctx context.Context, fn func(*domain.OrderDraft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return apperr.Validation("no checkout in progress")
	}
	next := s.draft.Clone()
	fn(&next)
	if err := s.persist(ctx, &next); err != nil {
		return err
	}
	s.draft = &next
	return nil
}

func (s *CheckoutStaging) persist(ctx context.Context, draft *domain.OrderDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return apperr.Integrity("encode checkout draft: %v", err)
	}
	if err := s.storage.Set(ctx, KeyCheckoutDraft, string(payload)); err != nil {
		return apperr.Network("persist checkout draft", err)
	}
	return nil
}
