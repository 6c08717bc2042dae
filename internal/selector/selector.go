// Package selector narrows a deposit catalog down to the offers matching a client's
// preferences, ranks them by interest rate and renders the recommendation text.
//
// The selector holds no state between calls and never modifies the catalog it is given.
package selector

import (
	"fmt"
	"sort"

	"github.com/Dan9191/deposit-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// SelectionIndex is the position in the ranked list that gets recommended.
// The advisor has always answered with the runner-up offer, so 1 is kept as the default.
const SelectionIndex = 1

var validate = validator.New()

// Selector filters, ranks and picks deposit offers
type Selector struct {
	policy TermPolicy
	index  int
}

// Option configures a Selector
type Option func(*Selector)

// WithTermPolicy sets the policy used for the deposit term constraint
func WithTermPolicy(p TermPolicy) Option {
	return func(s *Selector) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithSelectionIndex sets which ranked offer is recommended
func WithSelectionIndex(i int) Option {
	return func(s *Selector) {
		s.index = i
	}
}

// New creates a Selector using BoundsPolicy and SelectionIndex unless overridden
func New(opts ...Option) *Selector {
	s := &Selector{
		policy: BoundsPolicy,
		index:  SelectionIndex,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the term policy in use
func (s *Selector) Policy() TermPolicy {
	return s.policy
}

// Index returns the selection index in use
func (s *Selector) Index() int {
	return s.index
}

// Validate checks that the stated preferences are usable
func Validate(prefs models.Preferences) error {
	if err := validate.Struct(prefs); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidPreferences, err)
	}
	return nil
}

// Filter returns the offers satisfying every stated preference, in catalog order.
// The result is a new slice; catalog is left untouched.
func (s *Selector) Filter(prefs models.Preferences, catalog []models.Offer) []models.Offer {
	survivors := make([]models.Offer, 0, len(catalog))
	for _, offer := range catalog {
		if s.matches(prefs, offer) {
			survivors = append(survivors, offer)
		}
	}
	return survivors
}

func (s *Selector) matches(prefs models.Preferences, offer models.Offer) bool {
	if prefs.Currency != nil && offer.Currency != *prefs.Currency {
		return false
	}
	if prefs.DepositTerm != nil && !s.policy.Accepts(offer, *prefs.DepositTerm) {
		return false
	}
	if prefs.Amount != nil && offer.MinAmount > *prefs.Amount {
		return false
	}
	if prefs.Replenishment != nil && offer.Replenishment != *prefs.Replenishment {
		return false
	}
	if prefs.Withdrawal != nil && offer.Withdrawal != *prefs.Withdrawal {
		return false
	}
	if prefs.Capitalization != nil && offer.Capitalization != *prefs.Capitalization {
		return false
	}
	return true
}

// Rank returns a copy of offers ordered by interest rate, highest first.
// Offers with equal rates keep their relative order.
func Rank(offers []models.Offer) []models.Offer {
	ranked := make([]models.Offer, len(offers))
	copy(ranked, offers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].InterestRate > ranked[j].InterestRate
	})
	return ranked
}

// Select validates prefs and returns the offer at the selection index of the ranked survivors
func (s *Selector) Select(prefs models.Preferences, catalog []models.Offer) (models.Offer, error) {
	if err := Validate(prefs); err != nil {
		return models.Offer{}, err
	}
	if s.index < 0 {
		return models.Offer{}, fmt.Errorf("selector: negative selection index %d", s.index)
	}

	ranked := Rank(s.Filter(prefs, catalog))
	switch {
	case len(ranked) == 0:
		return models.Offer{}, models.ErrNoMatchFound
	case len(ranked) <= s.index:
		return models.Offer{}, fmt.Errorf("%w: %d found, need %d", models.ErrInsufficientResults, len(ranked), s.index+1)
	}
	return ranked[s.index], nil
}

// Recommend selects an offer and renders the recommendation message
func (s *Selector) Recommend(prefs models.Preferences, catalog []models.Offer) (string, error) {
	offer, err := s.Select(prefs, catalog)
	if err != nil {
		return "", err
	}
	return Format(offer), nil
}

// Format renders the two-line recommendation for an offer
func Format(offer models.Offer) string {
	return fmt.Sprintf("Ideal option for you: %s.\nLearn more: %s", offer.Name, offer.Link)
}
