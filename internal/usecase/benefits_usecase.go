package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// Tier-to-boost mapping. Featured is both a boost and the priority flag.
const (
	featuredPriorityBoost = 30.0
	plusPriorityBoost     = 15.0
)

// SubscriptionBenefitsResolver derives ranking benefits from the provider's
// active subscription row. Missing or expired subscriptions resolve to zero
// benefits, not an error.
type SubscriptionBenefitsResolver struct {
	db *gorm.DB
}

var _ interfaces.ISubscriptionBenefits = (*SubscriptionBenefitsResolver)(nil)

func NewSubscriptionBenefitsResolver(db *gorm.DB) *SubscriptionBenefitsResolver {
	return &SubscriptionBenefitsResolver{db: db}
}

func (r *SubscriptionBenefitsResolver) ResolveForUser(ctx context.Context, userID uuid.UUID) (interfaces.Benefits, error) {
	var sub entities.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, entities.SubscriptionStatusActive).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return interfaces.Benefits{}, nil
	}
	if err != nil {
		return interfaces.Benefits{}, err
	}

	switch sub.Tier {
	case entities.SubscriptionTierFeatured:
		return interfaces.Benefits{PriorityBoost: featuredPriorityBoost, Featured: true}, nil
	case entities.SubscriptionTierPlus:
		return interfaces.Benefits{PriorityBoost: plusPriorityBoost}, nil
	default:
		return interfaces.Benefits{}, nil
	}
}
