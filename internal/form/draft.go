package form

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ryankolean/rarefindtalent/internal/clientstate"
	"github.com/ryankolean/rarefindtalent/internal/dto"
)

// DraftKey is the store key for the in-progress form state.
const DraftKey = "consultation_form_draft"

// defaultDraft mirrors the form's initial values; a draft is only worth
// saving once at least one field differs from these.
var defaultDraft = dto.InquiryRequest{
	InquiryType:      "consultation",
	PreferredContact: "email",
	Urgency:          "flexible",
}

// Drafts saves and restores in-progress form state so a reload does not lose
// the visitor's input. A draft is never submitted implicitly.
type Drafts struct {
	store clientstate.Store
}

// NewDrafts builds a draft manager over a client-scoped store.
func NewDrafts(store clientstate.Store) *Drafts {
	return &Drafts{store: store}
}

// Save persists the form state. Pristine state (all defaults) clears any
// stored draft instead.
func (d *Drafts) Save(req dto.InquiryRequest) error {
	if req == defaultDraft {
		return d.Discard()
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := d.store.Set(DraftKey, string(data)); err != nil {
		return fmt.Errorf("persist draft: %w", err)
	}
	return nil
}

// Restore returns the stored draft, if any.
func (d *Drafts) Restore() (dto.InquiryRequest, bool, error) {
	raw, err := d.store.Get(DraftKey)
	if err != nil {
		if errors.Is(err, clientstate.ErrNotFound) {
			return dto.InquiryRequest{}, false, nil
		}
		return dto.InquiryRequest{}, false, fmt.Errorf("read draft: %w", err)
	}

	var req dto.InquiryRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		// A corrupt draft is dropped; losing it beats blocking the form.
		_ = d.store.Delete(DraftKey)
		return dto.InquiryRequest{}, false, nil
	}
	return req, true, nil
}

// Discard removes the stored draft.
func (d *Drafts) Discard() error {
	if err := d.store.Delete(DraftKey); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
