package service

import (
	"errors"
	"testing"

	"github.com/M-Marcel/marketplace-contract/internal/core/domain"
)

func TestCreateOffer_SequentialIDs(t *testing.T) {
	f := NewOrderFulfillment()

	n := 5
	for i := 0; i < n; i++ {
		offer, err := f.CreateOffer("alice")
		if err != nil {
			t.Fatalf("CreateOffer failed: %v", err)
		}
		if offer.ID != uint64(i) {
			t.Errorf("expected offer id %d, got %d", i, offer.ID)
		}
		if offer.State != domain.OfferStateOpen {
			t.Errorf("expected new offer open, got %s", offer.State)
		}
	}
}

func TestCreateOffer_NoGapAfterCancel(t *testing.T) {
	f := NewOrderFulfillment()

	first, _ := f.CreateOffer("alice")
	if err := f.CancelOffer(first.ID, "alice"); err != nil {
		t.Fatalf("CancelOffer failed: %v", err)
	}

	second, _ := f.CreateOffer("alice")
	if second.ID != first.ID+1 {
		t.Errorf("expected id %d after cancel, got %d", first.ID+1, second.ID)
	}

	// Cancelled IDs are never reused.
	cancelled, err := f.GetOffer(first.ID)
	if err != nil {
		t.Fatalf("GetOffer failed: %v", err)
	}
	if cancelled.State != domain.OfferStateCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.State)
	}
}

func TestFulfillOffer(t *testing.T) {
	f := NewOrderFulfillment()
	offer, _ := f.CreateOffer("alice")

	if err := f.FulfillOffer(offer.ID, "bob"); err != nil {
		t.Fatalf("FulfillOffer failed: %v", err)
	}

	got, _ := f.GetOffer(offer.ID)
	if got.State != domain.OfferStateFulfilled {
		t.Errorf("expected fulfilled, got %s", got.State)
	}
	if got.Fulfiller != "bob" {
		t.Errorf("expected fulfiller bob, got %s", got.Fulfiller)
	}

	// Terminal states are immutable.
	if err := f.FulfillOffer(offer.ID, "carol"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if err := f.CancelOffer(offer.ID, "alice"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestFulfillOffer_OwnerCannotFulfill(t *testing.T) {
	f := NewOrderFulfillment()
	offer, _ := f.CreateOffer("alice")

	if err := f.FulfillOffer(offer.ID, "alice"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	got, _ := f.GetOffer(offer.ID)
	if got.State != domain.OfferStateOpen {
		t.Errorf("rejected fulfill mutated state: %s", got.State)
	}
}

func TestFulfillOffer_NotFound(t *testing.T) {
	f := NewOrderFulfillment()

	if err := f.FulfillOffer(7, "bob"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelOffer_OwnerOnly(t *testing.T) {
	f := NewOrderFulfillment()
	offer, _ := f.CreateOffer("alice")

	if err := f.CancelOffer(offer.ID, "bob"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	if err := f.CancelOffer(offer.ID, "alice"); err != nil {
		t.Fatalf("owner cancel failed: %v", err)
	}

	if err := f.CancelOffer(offer.ID, "alice"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState on double cancel, got %v", err)
	}
}

func TestGetOffer_NotFound(t *testing.T) {
	f := NewOrderFulfillment()

	if _, err := f.GetOffer(0); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
