package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// Benefits is the ranking-relevant slice of a provider's subscription.
type Benefits struct {
	// PriorityBoost is added to the candidate's raw score.
	PriorityBoost float64
	// Featured puts the candidate in the priority group that always sorts
	// ahead of non-priority candidates.
	Featured bool
}

// ISubscriptionBenefits resolves subscription-derived ranking modifiers for a
// provider user. Resolution failure for one candidate must degrade to zero
// benefits in the caller, never abort scoring of others.
type ISubscriptionBenefits interface {
	ResolveForUser(ctx context.Context, userID uuid.UUID) (Benefits, error)
}
