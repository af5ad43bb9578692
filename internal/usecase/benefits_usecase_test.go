package usecase

import (
	"context"
	"testing"

	"servihub/internal/domain/entities"
)

func TestSubscriptionBenefitsResolver(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resolver := NewSubscriptionBenefitsResolver(env.db)

	t.Run("no subscription resolves to zero benefits", func(t *testing.T) {
		u := env.createUser(t, "free@example.com")
		b, err := resolver.ResolveForUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("ResolveForUser: %v", err)
		}
		if b.PriorityBoost != 0 || b.Featured {
			t.Fatalf("expected zero benefits, got %+v", b)
		}
	})

	t.Run("plus boosts without the priority flag", func(t *testing.T) {
		u := env.createUser(t, "plus@example.com")
		env.createSubscription(t, u.ID, entities.SubscriptionTierPlus)
		b, err := resolver.ResolveForUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("ResolveForUser: %v", err)
		}
		if b.PriorityBoost != 15 || b.Featured {
			t.Fatalf("unexpected plus benefits %+v", b)
		}
	})

	t.Run("featured boosts and flags priority", func(t *testing.T) {
		u := env.createUser(t, "featured@example.com")
		env.createSubscription(t, u.ID, entities.SubscriptionTierFeatured)
		b, err := resolver.ResolveForUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("ResolveForUser: %v", err)
		}
		if b.PriorityBoost != 30 || !b.Featured {
			t.Fatalf("unexpected featured benefits %+v", b)
		}
	})

	t.Run("inactive subscriptions do not count", func(t *testing.T) {
		u := env.createUser(t, "lapsed@example.com")
		sub := &entities.Subscription{
			UserID: u.ID,
			Tier:   entities.SubscriptionTierFeatured,
			Status: entities.SubscriptionStatusExpired,
		}
		if err := env.db.Create(sub).Error; err != nil {
			t.Fatalf("create subscription: %v", err)
		}
		b, err := resolver.ResolveForUser(ctx, u.ID)
		if err != nil {
			t.Fatalf("ResolveForUser: %v", err)
		}
		if b.PriorityBoost != 0 || b.Featured {
			t.Fatalf("expected zero benefits for an expired plan, got %+v", b)
		}
	})
}
