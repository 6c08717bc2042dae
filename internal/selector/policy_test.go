package selector

import (
	"testing"

	"github.com/Dan9191/deposit-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTolerancePolicy(t *testing.T) {
	o := models.Offer{TermDaysMin: 30, TermDaysMax: 180}

	tests := []struct {
		term int
		want bool
	}{
		{20, false},  // below minimum term
		{164, false}, // 16 days short of the maximum
		{165, true},
		{180, true},
		{195, true},
		{196, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TolerancePolicy.Accepts(o, tt.term), "term %d", tt.term)
	}
}

func TestBoundsPolicy(t *testing.T) {
	o := models.Offer{TermDaysMin: 30, TermDaysMax: 180}

	assert.False(t, BoundsPolicy.Accepts(o, 29))
	assert.True(t, BoundsPolicy.Accepts(o, 30))
	assert.True(t, BoundsPolicy.Accepts(o, 90))
	assert.True(t, BoundsPolicy.Accepts(o, 180))
	assert.False(t, BoundsPolicy.Accepts(o, 195))
}

func TestPoliciesDiffer(t *testing.T) {
	o := models.Offer{TermDaysMin: 30, TermDaysMax: 365}
	prefs := models.Preferences{DepositTerm: models.Int(90)}

	assert.Len(t, New().Filter(prefs, []models.Offer{o}), 1)
	assert.Empty(t, New(WithTermPolicy(TolerancePolicy)).Filter(prefs, []models.Offer{o}))
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, PolicyBounds, p.Name())

	p, err = PolicyByName(" Tolerance ")
	require.NoError(t, err)
	assert.Equal(t, PolicyTolerance, p.Name())

	_, err = PolicyByName("fuzzy")
	assert.Error(t, err)
}
