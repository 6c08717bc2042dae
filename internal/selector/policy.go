package selector

import (
	"fmt"
	"strings"

	"github.com/Dan9191/deposit-service/internal/models"
)

// TermToleranceDays is how far the requested term may sit from an offer's maximum term
// under the tolerance policy.
const TermToleranceDays = 15

// TermPolicy decides whether an offer accepts the requested deposit term
type TermPolicy interface {
	Name() string
	Accepts(offer models.Offer, term int) bool
}

const (
	PolicyTolerance = "tolerance"
	PolicyBounds    = "bounds"
)

// TolerancePolicy keeps offers whose minimum term does not exceed the request and whose
// maximum term lies within TermToleranceDays of it.
var TolerancePolicy TermPolicy = tolerancePolicy{days: TermToleranceDays}

// BoundsPolicy keeps offers whose [min, max] term range contains the request.
var BoundsPolicy TermPolicy = boundsPolicy{}

type tolerancePolicy struct {
	days int
}

func (p tolerancePolicy) Name() string { return PolicyTolerance }

func (p tolerancePolicy) Accepts(offer models.Offer, term int) bool {
	if offer.TermDaysMin > term {
		return false
	}
	diff := term - offer.TermDaysMax
	return diff >= -p.days && diff <= p.days
}

type boundsPolicy struct{}

func (boundsPolicy) Name() string { return PolicyBounds }

func (boundsPolicy) Accepts(offer models.Offer, term int) bool {
	return offer.TermDaysMin <= term && term <= offer.TermDaysMax
}

// PolicyByName resolves a policy from its configuration name
func PolicyByName(name string) (TermPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyBounds:
		return BoundsPolicy, nil
	case PolicyTolerance:
		return TolerancePolicy, nil
	}
	return nil, fmt.Errorf("unknown term policy %q", name)
}
