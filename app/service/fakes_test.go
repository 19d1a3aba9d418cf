package service

import (
	"context"
	"sync"
	"time"

	"github.com/vibast-solutions/ms-go-accounts/app/entity"
	"github.com/vibast-solutions/ms-go-accounts/app/mailer"
	"github.com/vibast-solutions/ms-go-accounts/app/payment"
)

type mockUserRepo struct {
	createFn             func(ctx context.Context, user *entity.User) error
	findByIDFn           func(ctx context.Context, id string) (*entity.User, error)
	findByEmailFn        func(ctx context.Context, email string) (*entity.User, error)
	markEmailVerifiedFn  func(ctx context.Context, id string, now time.Time) error
	updatePasswordHashFn func(ctx context.Context, id, passwordHash string, now time.Time) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) MarkEmailVerified(ctx context.Context, id string, now time.Time) error {
	if m.markEmailVerifiedFn != nil {
		return m.markEmailVerifiedFn(ctx, id, now)
	}
	return nil
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string, now time.Time) error {
	if m.updatePasswordHashFn != nil {
		return m.updatePasswordHashFn(ctx, id, passwordHash, now)
	}
	return nil
}

// memoryCodeRepo keeps codes in memory so tests can observe deletions.
type memoryCodeRepo struct {
	codes         map[string][]*entity.VerificationCode
	deleteExpired func(ctx context.Context, now time.Time) (int64, error)
}

func newMemoryCodeRepo() *memoryCodeRepo {
	return &memoryCodeRepo{codes: map[string][]*entity.VerificationCode{}}
}

func (m *memoryCodeRepo) Replace(_ context.Context, code *entity.VerificationCode) error {
	code.ID = uint64(len(m.codes[code.UserID]) + 1)
	m.codes[code.UserID] = []*entity.VerificationCode{code}
	return nil
}

func (m *memoryCodeRepo) FindByUserID(_ context.Context, userID string) (*entity.VerificationCode, error) {
	items := m.codes[userID]
	if len(items) == 0 {
		return nil, nil
	}
	return items[len(items)-1], nil
}

func (m *memoryCodeRepo) DeleteByUserID(_ context.Context, userID string) error {
	delete(m.codes, userID)
	return nil
}

func (m *memoryCodeRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpired != nil {
		return m.deleteExpired(ctx, now)
	}
	return 0, nil
}

type mockTokenRepo struct {
	createFn          func(ctx context.Context, token *entity.PasswordResetToken) error
	findByTokenHashFn func(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error)
	deleteByUserIDFn  func(ctx context.Context, userID string) error
	deleteExpiredFn   func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockTokenRepo) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	if m.createFn != nil {
		return m.createFn(ctx, token)
	}
	return nil
}

func (m *mockTokenRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.PasswordResetToken, error) {
	if m.findByTokenHashFn != nil {
		return m.findByTokenHashFn(ctx, tokenHash)
	}
	return nil, nil
}

func (m *mockTokenRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

func (m *mockTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}

type mockPlanRepo struct {
	plans       map[string]*entity.Plan
	upsertedPl  []*entity.Plan
	upsertedLim []*entity.PlanLimit
	upsertedPr  []*entity.Price
}

func (m *mockPlanRepo) FindWithPrices(_ context.Context, id string) (*entity.Plan, error) {
	if m.plans == nil {
		return nil, nil
	}
	return m.plans[id], nil
}

func (m *mockPlanRepo) ListActiveWithPrices(context.Context) ([]*entity.Plan, error) {
	items := make([]*entity.Plan, 0, len(m.plans))
	for _, p := range m.plans {
		items = append(items, p)
	}
	return items, nil
}

func (m *mockPlanRepo) UpsertPlan(_ context.Context, plan *entity.Plan) error {
	m.upsertedPl = append(m.upsertedPl, plan)
	return nil
}

func (m *mockPlanRepo) UpsertLimit(_ context.Context, limit *entity.PlanLimit) error {
	m.upsertedLim = append(m.upsertedLim, limit)
	return nil
}

func (m *mockPlanRepo) UpsertPrice(_ context.Context, price *entity.Price) error {
	m.upsertedPr = append(m.upsertedPr, price)
	return nil
}

type mockSubscriptionRepo struct {
	createFn               func(ctx context.Context, subscription *entity.Subscription) error
	updateProviderStateFn  func(ctx context.Context, subscription *entity.Subscription) error
	findByUserIDFn         func(ctx context.Context, userID string) (*entity.Subscription, error)
	findBySubscriptionIDFn func(ctx context.Context, subscriptionID string) (*entity.Subscription, error)
	created                []*entity.Subscription
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, subscription *entity.Subscription) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, subscription); err != nil {
			return err
		}
	}
	m.created = append(m.created, subscription)
	return nil
}

func (m *mockSubscriptionRepo) UpdateProviderState(ctx context.Context, subscription *entity.Subscription) error {
	if m.updateProviderStateFn != nil {
		return m.updateProviderStateFn(ctx, subscription)
	}
	return nil
}

func (m *mockSubscriptionRepo) FindByUserID(ctx context.Context, userID string) (*entity.Subscription, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*entity.Subscription, error) {
	if m.findBySubscriptionIDFn != nil {
		return m.findBySubscriptionIDFn(ctx, subscriptionID)
	}
	return nil, nil
}

type fakeProvider struct {
	customerID       string
	customerErr      error
	subscription     *payment.Subscription
	subscriptionErr  error
	subscriptionCall int
	gotPriceID       string
	products         int
	prices           int
}

func (f *fakeProvider) CreateCustomer(context.Context, string) (string, error) {
	return f.customerID, f.customerErr
}

func (f *fakeProvider) CreateSubscription(_ context.Context, _ string, priceID string) (*payment.Subscription, error) {
	f.subscriptionCall++
	f.gotPriceID = priceID
	return f.subscription, f.subscriptionErr
}

func (f *fakeProvider) CreateProduct(context.Context, string, string) (string, error) {
	f.products++
	return "prod_new", nil
}

func (f *fakeProvider) CreatePrice(context.Context, string, int64, string, string) (string, error) {
	f.prices++
	return "price_new", nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(v string) *string {
	return &v
}
