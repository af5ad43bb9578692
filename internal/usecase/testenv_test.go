package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"servihub/internal/adapter/persistence/repository"
	"servihub/internal/domain/entities"
	"servihub/internal/usecase/interfaces"
)

// newTestDB opens an in-memory sqlite database with a sqlite-friendly schema
// mirroring the production tables (the postgres column defaults do not
// translate, so the DDL is spelled out).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Every sqlite :memory: connection is its own database. The acceptance
	// flow notifies asynchronously, so pin the pool to one connection or a
	// concurrent goroutine would be handed a second, empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	schema := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			phone TEXT,
			full_name TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE businesses (
			id TEXT PRIMARY KEY,
			owner_id TEXT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			zip_code TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE provider_profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			rating_average REAL NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE subscriptions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			tier TEXT NOT NULL DEFAULT 'free',
			status TEXT NOT NULL DEFAULT 'active',
			expires_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE service_requests (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			category TEXT NOT NULL,
			subcategory TEXT,
			zip_code TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			attachments TEXT,
			selected_business_ids TEXT,
			preferred_schedule DATETIME,
			status TEXT NOT NULL DEFAULT 'REQUEST_CREATED',
			primary_provider_id TEXT,
			cancel_reason TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE leads (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			business_id TEXT NOT NULL,
			provider_user_id TEXT NOT NULL,
			category TEXT NOT NULL,
			zip_code TEXT,
			description TEXT,
			status TEXT NOT NULL,
			metadata TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE proposals (
			id TEXT PRIMARY KEY,
			service_request_id TEXT NOT NULL,
			provider_user_id TEXT NOT NULL,
			details TEXT,
			price REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'SENT',
			payment_intent_id TEXT,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			paid_at DATETIME,
			payout_amount REAL,
			platform_fee_amount REAL,
			payout_status TEXT NOT NULL DEFAULT '',
			payout_processed_at DATETIME,
			rejection_reason TEXT,
			rejection_note TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE work_orders (
			id TEXT PRIMARY KEY,
			service_request_id TEXT NOT NULL UNIQUE,
			provider_user_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'IN_PROGRESS',
			completed_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE reviews (
			id TEXT PRIMARY KEY,
			service_request_id TEXT,
			customer_id TEXT NOT NULL,
			provider_user_id TEXT NOT NULL,
			business_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			title TEXT,
			comment TEXT,
			metadata TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db
}

// fakeGateway is an in-memory payment gateway with seedable intents.
type fakeGateway struct {
	mu      sync.Mutex
	intents map[string]interfaces.PaymentIntent
	seq     int

	// createErr, when set, fails the next CreateIntent call.
	createErr error
}

var _ interfaces.IPaymentGateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: make(map[string]interfaces.PaymentIntent)}
}

func (g *fakeGateway) CreateIntent(_ context.Context, in interfaces.CreateIntentInput) (interfaces.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		err := g.createErr
		g.createErr = nil
		return interfaces.PaymentIntent{}, err
	}
	g.seq++
	intent := interfaces.PaymentIntent{
		ID:           fmt.Sprintf("fi_%d", g.seq),
		Status:       interfaces.IntentStatusPending,
		AmountCents:  in.AmountCents,
		ClientSecret: fmt.Sprintf("fi_%d_secret", g.seq),
	}
	g.intents[intent.ID] = intent
	return intent, nil
}

func (g *fakeGateway) GetIntent(_ context.Context, id string) (interfaces.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[id]
	if !ok {
		return interfaces.PaymentIntent{}, fmt.Errorf("intent %s not found", id)
	}
	return intent, nil
}

func (g *fakeGateway) CancelIntent(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[id]
	if !ok {
		return fmt.Errorf("intent %s not found", id)
	}
	intent.Status = interfaces.IntentStatusCanceled
	g.intents[id] = intent
	return nil
}

// put seeds an intent verbatim, for tests exercising mismatch paths.
func (g *fakeGateway) put(intent interfaces.PaymentIntent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[intent.ID] = intent
}

// succeed flips a stored intent to succeeded, as the provider would after the
// customer pays.
func (g *fakeGateway) succeed(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[id]
	if !ok {
		panic("succeed: unknown intent " + id)
	}
	intent.Status = interfaces.IntentStatusSucceeded
	now := time.Now().UTC()
	intent.ApprovedAt = &now
	g.intents[id] = intent
}

// recordingMailer captures sends instead of delivering them.
type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

var _ interfaces.IMailer = (*recordingMailer)(nil)

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+": "+subject)
	return nil
}

// testEnv wires the full usecase stack over sqlite-backed repositories, the
// same composition the router performs at startup.
type testEnv struct {
	db      *gorm.DB
	gateway *fakeGateway
	mailer  *recordingMailer

	requests   interfaces.IServiceRequestRepository
	proposals  interfaces.IProposalRepository
	leads      interfaces.ILeadRepository
	users      interfaces.IUserRepository
	businesses interfaces.IBusinessRepository
	profiles   interfaces.IProviderProfileRepository
	workOrders interfaces.IWorkOrderRepository
	reviews    interfaces.IReviewRepository

	ranking    IRankingUseCase
	payout     IPayoutUseCase
	request    IRequestUseCase
	proposal   IProposalUseCase
	acceptance IAcceptanceUseCase
	review     IReviewUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	env := &testEnv{
		db:      db,
		gateway: newFakeGateway(),
		mailer:  &recordingMailer{},

		requests:   repository.NewServiceRequestGormRepository(db),
		proposals:  repository.NewProposalGormRepository(db),
		leads:      repository.NewLeadGormRepository(db),
		users:      repository.NewUserGormRepository(db),
		businesses: repository.NewBusinessGormRepository(db),
		profiles:   repository.NewProviderProfileGormRepository(db),
		workOrders: repository.NewWorkOrderGormRepository(db),
		reviews:    repository.NewReviewGormRepository(db),
	}

	tx := repository.NewGormTxManager(db)
	benefits := NewSubscriptionBenefitsResolver(db)

	env.ranking = NewRankingUseCase(env.businesses, env.profiles, env.leads, env.requests, benefits)
	env.payout = NewPayoutUseCase(env.proposals, env.requests, env.users, env.mailer, SchemaCapabilities{PayoutColumns: true})
	env.request = NewRequestUseCase(tx, env.requests, env.businesses, env.workOrders, env.ranking, env.payout)
	env.proposal = NewProposalUseCase(env.requests, env.proposals, env.leads, env.users, env.gateway)
	env.acceptance = NewAcceptanceUseCase(tx, env.requests, env.proposals, env.leads, env.workOrders, env.profiles, env.users, env.gateway, env.mailer)
	env.review = NewReviewUseCase(tx, env.requests, env.reviews, env.businesses, env.profiles, env.payout)

	return env
}

func (e *testEnv) createUser(t *testing.T, email string) *entities.User {
	t.Helper()
	u := &entities.User{Email: email, FullName: email, Phone: "+15550001111"}
	if err := e.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// createProvider seeds an owner user, their active business and a provider
// profile with the given aggregates.
func (e *testEnv) createProvider(t *testing.T, email, category, zip string, rating float64, count int64) (*entities.User, *entities.Business) {
	t.Helper()
	owner := e.createUser(t, email)
	biz := &entities.Business{
		OwnerID:  &owner.ID,
		Name:     email + " biz",
		Category: category,
		ZipCode:  zip,
		Active:   true,
	}
	if err := e.db.Create(biz).Error; err != nil {
		t.Fatalf("create business: %v", err)
	}
	profile := &entities.ProviderProfile{UserID: owner.ID, RatingAverage: rating, RatingCount: count}
	if err := e.db.Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return owner, biz
}

func (e *testEnv) createSubscription(t *testing.T, userID uuid.UUID, tier entities.SubscriptionTier) {
	t.Helper()
	sub := &entities.Subscription{UserID: userID, Tier: tier, Status: entities.SubscriptionStatusActive}
	if err := e.db.Create(sub).Error; err != nil {
		t.Fatalf("create subscription: %v", err)
	}
}

// createAssignedRequest runs the real creation flow (ranking included) and
// fails the test unless a primary was assigned.
func (e *testEnv) createAssignedRequest(t *testing.T, customerID uuid.UUID, category, zip string) *entities.ServiceRequest {
	t.Helper()
	req, err := e.request.Create(context.Background(), CreateRequestInput{
		CustomerID: customerID,
		Category:   category,
		ZipCode:    zip,
		Title:      "Fix the thing",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if req.Status != entities.RequestStatusLeadAssigned {
		t.Fatalf("expected LEAD_ASSIGNED after creation, got %s", req.Status)
	}
	return req
}

func (e *testEnv) reloadRequest(t *testing.T, id uuid.UUID) *entities.ServiceRequest {
	t.Helper()
	req, err := e.requests.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if req == nil {
		t.Fatalf("request %s vanished", id)
	}
	return req
}

func (e *testEnv) reloadProposal(t *testing.T, id uuid.UUID) *entities.Proposal {
	t.Helper()
	p, err := e.proposals.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload proposal: %v", err)
	}
	if p == nil {
		t.Fatalf("proposal %s vanished", id)
	}
	return p
}
