package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chargeflow/chargeback"
)

func TestCaseSpecs_WellFormed(t *testing.T) {
	customers := map[string]bool{}
	for _, c := range customerFixtures {
		customers[c.ID] = true
	}
	merchants := map[string]bool{}
	for _, m := range merchantFixtures {
		merchants[m.ID] = true
	}

	seen := map[string]bool{}
	byCategory := map[chargeback.Category]int{}
	for _, spec := range caseSpecs {
		require.NotEmpty(t, spec.id)
		require.False(t, seen[spec.id], "duplicate case id %s", spec.id)
		seen[spec.id] = true

		require.True(t, customers[spec.txn.CustomerID], "case %s references unknown customer %s", spec.id, spec.txn.CustomerID)
		require.True(t, merchants[spec.txn.MerchantID], "case %s references unknown merchant %s", spec.id, spec.txn.MerchantID)
		require.Greater(t, spec.txn.Amount, 0.0, "case %s", spec.id)
		require.Greater(t, spec.txAgeDays, 20, "case %s needs room for its dispute timeline", spec.id)

		// Terminal statuses carry an outcome, live ones do not.
		if spec.status.Terminal() {
			require.NotNil(t, spec.outcome, "case %s", spec.id)
			require.Equal(t, string(spec.status), string(*spec.outcome), "case %s", spec.id)
		} else {
			require.Nil(t, spec.outcome, "case %s", spec.id)
		}

		byCategory[spec.category]++
	}

	require.Len(t, byCategory, 4, "every category must be represented")
	for cat, n := range byCategory {
		require.GreaterOrEqual(t, n, 3, "category %s", cat)
	}
}

func TestCaseSpecs_CategoryConventions(t *testing.T) {
	divergingAmounts := 0
	for _, spec := range caseSpecs {
		switch spec.category {
		case chargeback.CategoryTrueFraud:
			require.Equal(t, "fraud", spec.disputeType, "case %s", spec.id)
			require.False(t, spec.status.Terminal(), "true fraud cases stay open, case %s", spec.id)
		case chargeback.CategoryMerchantError:
			require.Equal(t, chargeback.StatusLost, spec.status, "merchant error cases resolve lost, case %s", spec.id)
		case chargeback.CategoryNotGuilty:
			require.Equal(t, chargeback.StatusWon, spec.status, "not guilty cases resolve won, case %s", spec.id)
		}
		if spec.disputedAmount != 0 {
			require.NotEqual(t, spec.txn.Amount, spec.disputedAmount, "case %s override must diverge", spec.id)
			divergingAmounts++
		}
	}
	// At least one dispute contests a different figure than the charge.
	require.GreaterOrEqual(t, divergingAmounts, 1)
}

func TestScoreFor_BandsAndMargin(t *testing.T) {
	s := NewSeeder(nil, Config{RNGSeed: 7})

	for i := 0; i < 200; i++ {
		fraud := s.scoreFor(chargeback.CategoryTrueFraud)
		require.GreaterOrEqual(t, fraud, trueFraudScoreMin)
		require.LessOrEqual(t, fraud, trueFraudScoreMax)

		for _, cat := range []chargeback.Category{
			chargeback.CategoryFriendlyFraud, chargeback.CategoryMerchantError, chargeback.CategoryNotGuilty,
		} {
			benign := s.scoreFor(cat)
			require.GreaterOrEqual(t, benign, benignScoreMin)
			require.LessOrEqual(t, benign, benignScoreMax)
			require.GreaterOrEqual(t, fraud-benign, 50.0, "score margin collapsed")
		}
	}
}

func TestBuildEvents_EveryCaseGetsATrail(t *testing.T) {
	s := NewSeeder(nil, Config{RNGSeed: 7})
	dispute := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	for _, spec := range caseSpecs {
		cb := chargeback.Chargeback{
			ID:          spec.id,
			Category:    spec.category,
			DisputeDate: dispute,
			Amount:      spec.txn.Amount,
		}
		events := s.buildEvents(spec, cb)
		require.GreaterOrEqual(t, len(events), 2, "case %s", spec.id)
		for _, ev := range events {
			require.NotNil(t, ev.Payload, "case %s", spec.id)
			require.NotEmpty(t, ev.Payload.EventType(), "case %s", spec.id)
			require.NotEmpty(t, ev.Description, "case %s", spec.id)
		}
		// The trail opens with the cardholder/issuer contact.
		require.Equal(t, "support_ticket", events[0].Payload.EventType(), "case %s", spec.id)
	}
}

func TestRandomDate_Bounds(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSeeder(nil, Config{RNGSeed: 7}).WithClock(func() time.Time { return now })

	for i := 0; i < 100; i++ {
		d := s.randomDate(30, 10)
		require.True(t, d.Before(now.AddDate(0, 0, -9)), "too recent: %v", d)
		require.True(t, d.After(now.AddDate(0, 0, -31)), "too old: %v", d)
	}
}
