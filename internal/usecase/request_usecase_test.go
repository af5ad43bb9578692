package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"servihub/internal/domain/entities"
)

// startInProgress drives a fresh environment to an accepted, paid, in-progress
// request and returns it with the winning provider and proposal.
func startInProgress(t *testing.T) (*testEnv, *entities.ServiceRequest, *entities.User, uuid.UUID) {
	t.Helper()
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.createUser(t, "customer@example.com")
	provider, _ := env.createProvider(t, "pro@example.com", "Plumbing", "94110", 0, 0)
	req := env.createAssignedRequest(t, customer.ID, "Plumbing", "94110")

	sub, err := env.proposal.Submit(ctx, req.ID, provider.ID, "", 500)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	intent, err := env.proposal.CreatePaymentIntent(ctx, req.ID, sub.Ref)
	if err != nil {
		t.Fatalf("CreatePaymentIntent: %v", err)
	}
	env.gateway.succeed(intent.IntentID)
	if _, err := env.acceptance.AcceptProposal(ctx, req.ID, intent.ProposalID.String(), intent.IntentID); err != nil {
		t.Fatalf("AcceptProposal: %v", err)
	}
	return env, req, provider, intent.ProposalID
}

func TestRequestUseCase_Create(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()
		customer := env.createUser(t, "customer@example.com")

		cases := []struct {
			name string
			in   CreateRequestInput
			want error
		}{
			{"missing category", CreateRequestInput{CustomerID: customer.ID, ZipCode: "94110", Title: "t"}, ErrInvalidCategory},
			{"missing zip", CreateRequestInput{CustomerID: customer.ID, Category: "Plumbing", Title: "t"}, ErrInvalidZipCode},
			{"missing title", CreateRequestInput{CustomerID: customer.ID, Category: "Plumbing", ZipCode: "94110"}, ErrInvalidTitle},
			{"unknown shortlist entry", CreateRequestInput{
				CustomerID: customer.ID, Category: "Plumbing", ZipCode: "94110", Title: "t",
				Shortlist: []uuid.UUID{uuid.New()},
			}, ErrInvalidShortlist},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := env.request.Create(ctx, tc.in)
				if !errors.Is(err, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})

	t.Run("no candidates is a valid outcome", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createUser(t, "customer@example.com")

		req, err := env.request.Create(context.Background(), CreateRequestInput{
			CustomerID: customer.ID,
			Category:   "Roofing",
			ZipCode:    "94110",
			Title:      "Patch a leak",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if req.Status != entities.RequestStatusCreated {
			t.Fatalf("expected REQUEST_CREATED, got %s", req.Status)
		}
	})

	t.Run("assignment runs on creation", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createUser(t, "customer@example.com")
		env.createProvider(t, "pro@example.com", "Plumbing", "94110", 4.0, 10)

		req := env.createAssignedRequest(t, customer.ID, "Plumbing", "94110")
		if req.PrimaryProviderID == nil {
			t.Fatal("expected a primary provider after creation")
		}
	})
}

func TestRequestUseCase_Cancel(t *testing.T) {
	t.Run("closes and records the reason", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createUser(t, "customer@example.com")
		env.createProvider(t, "pro@example.com", "Plumbing", "94110", 0, 0)
		req := env.createAssignedRequest(t, customer.ID, "Plumbing", "94110")

		if err := env.request.Cancel(context.Background(), req.ID, "  changed plans  "); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		fresh := env.reloadRequest(t, req.ID)
		if fresh.Status != entities.RequestStatusClosed {
			t.Fatalf("expected CLOSED, got %s", fresh.Status)
		}
		if fresh.CancelReason != "changed plans" {
			t.Fatalf("unexpected cancel reason %q", fresh.CancelReason)
		}
	})

	t.Run("closed requests stay closed", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createUser(t, "customer@example.com")
		env.createProvider(t, "pro@example.com", "Plumbing", "94110", 0, 0)
		req := env.createAssignedRequest(t, customer.ID, "Plumbing", "94110")

		if err := env.request.Cancel(context.Background(), req.ID, ""); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		err := env.request.Cancel(context.Background(), req.ID, "again")
		if !errors.Is(err, ErrRequestNotCancelable) {
			t.Fatalf("expected ErrRequestNotCancelable, got %v", err)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.request.Cancel(context.Background(), uuid.New(), "")
		if !errors.Is(err, ErrRequestNotFound) {
			t.Fatalf("expected ErrRequestNotFound, got %v", err)
		}
	})

	t.Run("paid work cancelled mid-flight still pays the provider", func(t *testing.T) {
		env, req, _, proposalID := startInProgress(t)

		if err := env.request.Cancel(context.Background(), req.ID, "emergency"); err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if env.reloadRequest(t, req.ID).Status != entities.RequestStatusClosed {
			t.Fatal("expected CLOSED")
		}
		p := env.reloadProposal(t, proposalID)
		if p.PayoutStatus != entities.PayoutStatusCompleted {
			t.Fatalf("expected the accepted paid proposal disbursed, got %q", p.PayoutStatus)
		}
	})
}

func TestRequestUseCase_CompleteWork(t *testing.T) {
	t.Run("only the assigned provider may complete", func(t *testing.T) {
		env, req, _, _ := startInProgress(t)
		stranger := env.createUser(t, "stranger@example.com")

		err := env.request.CompleteWork(context.Background(), req.ID, stranger.ID)
		if !errors.Is(err, ErrNotAssignedProvider) {
			t.Fatalf("expected ErrNotAssignedProvider, got %v", err)
		}
	})

	t.Run("marks the order completed, idempotently", func(t *testing.T) {
		env, req, provider, _ := startInProgress(t)
		ctx := context.Background()

		if err := env.request.CompleteWork(ctx, req.ID, provider.ID); err != nil {
			t.Fatalf("CompleteWork: %v", err)
		}
		order, err := env.workOrders.GetByServiceRequestID(ctx, req.ID)
		if err != nil || order == nil {
			t.Fatalf("work order lookup: %v", err)
		}
		if order.Status != entities.WorkOrderStatusCompleted || order.CompletedAt == nil {
			t.Fatalf("order not completed: %+v", order)
		}
		completedAt := *order.CompletedAt

		if err := env.request.CompleteWork(ctx, req.ID, provider.ID); err != nil {
			t.Fatalf("repeat CompleteWork: %v", err)
		}
		order, _ = env.workOrders.GetByServiceRequestID(ctx, req.ID)
		if !order.CompletedAt.Equal(completedAt) {
			t.Fatal("repeat completion rewrote the timestamp")
		}
	})

	t.Run("no work order yet", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createUser(t, "customer@example.com")
		env.createProvider(t, "pro@example.com", "Plumbing", "94110", 0, 0)
		req := env.createAssignedRequest(t, customer.ID, "Plumbing", "94110")

		err := env.request.CompleteWork(context.Background(), req.ID, uuid.New())
		if !errors.Is(err, ErrWorkOrderNotFound) {
			t.Fatalf("expected ErrWorkOrderNotFound, got %v", err)
		}
	})
}

func TestRequestUseCase_Approve(t *testing.T) {
	t.Run("requires completed work", func(t *testing.T) {
		env, req, _, _ := startInProgress(t)

		err := env.request.Approve(context.Background(), req.ID)
		if !errors.Is(err, ErrWorkNotCompleted) {
			t.Fatalf("expected ErrWorkNotCompleted, got %v", err)
		}
	})

	t.Run("requires an in-progress request", func(t *testing.T) {
		env := newTestEnv(t)
		customer := env.createUser(t, "customer@example.com")
		env.createProvider(t, "pro@example.com", "Plumbing", "94110", 0, 0)
		req := env.createAssignedRequest(t, customer.ID, "Plumbing", "94110")

		err := env.request.Approve(context.Background(), req.ID)
		if !errors.Is(err, ErrRequestNotApprovable) {
			t.Fatalf("expected ErrRequestNotApprovable, got %v", err)
		}
	})

	t.Run("approves and disburses the payout", func(t *testing.T) {
		env, req, provider, proposalID := startInProgress(t)
		ctx := context.Background()

		if err := env.request.CompleteWork(ctx, req.ID, provider.ID); err != nil {
			t.Fatalf("CompleteWork: %v", err)
		}
		if err := env.request.Approve(ctx, req.ID); err != nil {
			t.Fatalf("Approve: %v", err)
		}
		if env.reloadRequest(t, req.ID).Status != entities.RequestStatusApproved {
			t.Fatal("expected APPROVED")
		}
		p := env.reloadProposal(t, proposalID)
		if p.PayoutStatus != entities.PayoutStatusCompleted {
			t.Fatalf("expected the payout completed on approval, got %q", p.PayoutStatus)
		}
		if p.PayoutAmount == nil || *p.PayoutAmount != 450 {
			t.Fatalf("expected provider amount 450, got %v", p.PayoutAmount)
		}
	})
}
