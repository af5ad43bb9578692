package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

func TestCalculatePayoutSplit(t *testing.T) {
	amount, fee := CalculatePayoutSplit(500)
	if amount != 450 || fee != 50 {
		t.Fatalf("expected 450/50, got %v/%v", amount, fee)
	}
}

// seedPaidProposal inserts an accepted, paid proposal awaiting payout.
func seedPaidProposal(t *testing.T, env *testEnv, providerUserID uuid.UUID, price float64) *entities.Proposal {
	t.Helper()
	p := &entities.Proposal{
		ServiceRequestID: uuid.New(),
		ProviderUserID:   providerUserID,
		Price:            price,
		Status:           entities.ProposalStatusAccepted,
		PaymentIntentID:  "fi_paid",
		PaymentStatus:    entities.PaymentStatusSucceeded,
		PayoutStatus:     entities.PayoutStatusPending,
	}
	if err := env.proposals.Create(context.Background(), p); err != nil {
		t.Fatalf("seed proposal: %v", err)
	}
	return p
}

func TestPayoutUseCase_Process(t *testing.T) {
	t.Run("completes exactly once across repeats", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		provider := env.createUser(t, "pro@example.com")
		p := seedPaidProposal(t, env, provider.ID, 500)

		for i := 0; i < 4; i++ {
			if err := env.payout.Process(ctx, p.ID); err != nil {
				t.Fatalf("Process run %d: %v", i, err)
			}
		}

		fresh := env.reloadProposal(t, p.ID)
		if fresh.PayoutStatus != entities.PayoutStatusCompleted {
			t.Fatalf("expected completed, got %q", fresh.PayoutStatus)
		}
		if fresh.PayoutAmount == nil || *fresh.PayoutAmount != 450 {
			t.Fatalf("expected provider amount 450, got %v", fresh.PayoutAmount)
		}
		if fresh.PlatformFeeAmount == nil || *fresh.PlatformFeeAmount != 50 {
			t.Fatalf("expected platform fee 50, got %v", fresh.PlatformFeeAmount)
		}
		if fresh.PayoutProcessedAt == nil {
			t.Fatal("expected a processed timestamp")
		}
		// Exactly one disbursement notification despite four invocations.
		if len(env.mailer.sent) != 1 {
			t.Fatalf("expected 1 payout email, got %d", len(env.mailer.sent))
		}
	})

	t.Run("concurrent invocations complete exactly once", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		provider := env.createUser(t, "pro@example.com")
		p := seedPaidProposal(t, env, provider.ID, 500)

		// Four racing callers; the conditional claim decides the single
		// winner, everyone else exits as a clean no-op.
		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = env.payout.Process(ctx, p.ID)
			}(i)
		}
		wg.Wait()
		for i, err := range errs {
			if err != nil {
				t.Fatalf("Process goroutine %d: %v", i, err)
			}
		}

		fresh := env.reloadProposal(t, p.ID)
		if fresh.PayoutStatus != entities.PayoutStatusCompleted {
			t.Fatalf("expected completed, got %q", fresh.PayoutStatus)
		}
		if *fresh.PayoutAmount != 450 || *fresh.PlatformFeeAmount != 50 {
			t.Fatalf("unexpected amounts: %v/%v", *fresh.PayoutAmount, *fresh.PlatformFeeAmount)
		}
		if len(env.mailer.sent) != 1 {
			t.Fatalf("expected 1 payout email, got %d", len(env.mailer.sent))
		}
	})

	t.Run("persisted amounts stay authoritative", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		provider := env.createUser(t, "pro@example.com")
		p := seedPaidProposal(t, env, provider.ID, 500)

		// Amounts written under an older fee schedule.
		oldAmount, oldFee := 400.0, 100.0
		p.PayoutAmount, p.PlatformFeeAmount = &oldAmount, &oldFee
		if err := env.proposals.Update(ctx, p); err != nil {
			t.Fatalf("update proposal: %v", err)
		}

		if err := env.payout.Process(ctx, p.ID); err != nil {
			t.Fatalf("Process: %v", err)
		}
		fresh := env.reloadProposal(t, p.ID)
		if *fresh.PayoutAmount != 400 || *fresh.PlatformFeeAmount != 100 {
			t.Fatalf("recomputed over persisted amounts: %v/%v", *fresh.PayoutAmount, *fresh.PlatformFeeAmount)
		}
	})

	t.Run("never precedes payment", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		provider := env.createUser(t, "pro@example.com")
		p := seedPaidProposal(t, env, provider.ID, 500)
		p.PaymentStatus = entities.PaymentStatusPending
		if err := env.proposals.Update(ctx, p); err != nil {
			t.Fatalf("update proposal: %v", err)
		}

		if err := env.payout.Process(ctx, p.ID); err != nil {
			t.Fatalf("Process: %v", err)
		}
		fresh := env.reloadProposal(t, p.ID)
		if fresh.PayoutStatus != entities.PayoutStatusPending {
			t.Fatalf("payout ran before payment: %q", fresh.PayoutStatus)
		}
		if len(env.mailer.sent) != 0 {
			t.Fatal("expected no notification")
		}
	})

	t.Run("failed payout is not reclaimed silently", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		provider := env.createUser(t, "pro@example.com")
		p := seedPaidProposal(t, env, provider.ID, 500)
		p.PayoutStatus = entities.PayoutStatusFailed
		if err := env.proposals.Update(ctx, p); err != nil {
			t.Fatalf("update proposal: %v", err)
		}

		if err := env.payout.Process(ctx, p.ID); err != nil {
			t.Fatalf("Process: %v", err)
		}
		if env.reloadProposal(t, p.ID).PayoutStatus != entities.PayoutStatusFailed {
			t.Fatal("failed payout must stay failed until operator action")
		}
	})

	t.Run("missing payout columns degrade to a no-op", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		provider := env.createUser(t, "pro@example.com")
		p := seedPaidProposal(t, env, provider.ID, 500)

		degraded := NewPayoutUseCase(env.proposals, env.requests, env.users, env.mailer, SchemaCapabilities{})
		if err := degraded.Process(ctx, p.ID); err != nil {
			t.Fatalf("Process: %v", err)
		}
		if env.reloadProposal(t, p.ID).PayoutStatus != entities.PayoutStatusPending {
			t.Fatal("expected the payout untouched without the columns")
		}
	})

	t.Run("unknown proposal", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.payout.Process(context.Background(), uuid.New())
		if !errors.Is(err, ErrProposalNotFound) {
			t.Fatalf("expected ErrProposalNotFound, got %v", err)
		}
	})
}

func TestPayoutUseCase_ProcessForRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	provider := env.createUser(t, "pro@example.com")
	p := seedPaidProposal(t, env, provider.ID, 500)

	env.payout.ProcessForRequest(ctx, p.ServiceRequestID)
	env.payout.ProcessForRequest(ctx, p.ServiceRequestID)

	fresh := env.reloadProposal(t, p.ID)
	if fresh.PayoutStatus != entities.PayoutStatusCompleted {
		t.Fatalf("expected completed, got %q", fresh.PayoutStatus)
	}
	if len(env.mailer.sent) != 1 {
		t.Fatalf("expected 1 payout email, got %d", len(env.mailer.sent))
	}
}
