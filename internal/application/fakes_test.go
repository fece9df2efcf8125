package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coursebay/lms-backend/internal/domain/entity"
	"github.com/coursebay/lms-backend/internal/domain/repository"
	"github.com/coursebay/lms-backend/pkg/media"
	"github.com/coursebay/lms-backend/pkg/payment"
)

// In-memory doubles for the repository and infrastructure interfaces.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // keyed by hex id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) add(u *entity.User) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	cp := *u
	r.users[u.ID.Hex()] = &cp
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	r.users[u.ID.Hex()] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, tokenHash string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ForgotPasswordToken == tokenHash && u.ForgotPasswordExpiry.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID.Hex()]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	r.users[u.ID.Hex()] = &cp
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountActiveSubscribers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Subscription.Status == entity.SubscriptionStatusActive {
			n++
		}
	}
	return n, nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*entity.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*entity.Course{}}
}

func (r *fakeCourseRepo) add(c *entity.Course) *entity.Course {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	r.courses[c.ID.Hex()] = &cp
	return c
}

func (r *fakeCourseRepo) Create(_ context.Context, c *entity.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = primitive.NewObjectID()
	cp := *c
	r.courses[c.ID.Hex()] = &cp
	return nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id string) (*entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[id]; ok {
		cp := *c
		cp.Lectures = append([]entity.Lecture(nil), c.Lectures...)
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCourseRepo) List(_ context.Context) ([]entity.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Course, 0, len(r.courses))
	for _, c := range r.courses {
		cp := *c
		cp.Lectures = nil
		out = append(out, cp)
	}
	return out, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *entity.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[c.ID.Hex()]; !ok {
		return repository.ErrNotFound
	}
	cp := *c
	cp.Lectures = append([]entity.Lecture(nil), c.Lectures...)
	r.courses[c.ID.Hex()] = &cp
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*entity.Payment{}}
}

func (r *fakePaymentRepo) add(p *entity.Payment) *entity.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	r.payments[p.ID.Hex()] = &cp
	return p
}

func (r *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	cp := *p
	r.payments[p.ID.Hex()] = &cp
	return nil
}

func (r *fakePaymentRepo) GetBySubscriptionID(_ context.Context, subscriptionID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.SubscriptionID == subscriptionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePaymentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}

// fakeGateway records calls so tests can assert on side effects and ordering.
type fakeGateway struct {
	createErr error
	cancelErr error
	refundErr error

	created    []string
	cancelled  []string
	refunded   []string
	listResult []payment.Subscription
	listErr    error

	nextSub payment.Subscription
}

func (g *fakeGateway) CreateSubscription(_ context.Context, planID string) (payment.Subscription, error) {
	if g.createErr != nil {
		return payment.Subscription{}, g.createErr
	}
	g.created = append(g.created, planID)
	if g.nextSub.ID == "" {
		g.nextSub = payment.Subscription{ID: "sub_test", Status: "created", PlanID: planID}
	}
	return g.nextSub, nil
}

func (g *fakeGateway) CancelSubscription(_ context.Context, subscriptionID string) (payment.Subscription, error) {
	if g.cancelErr != nil {
		return payment.Subscription{}, g.cancelErr
	}
	g.cancelled = append(g.cancelled, subscriptionID)
	return payment.Subscription{ID: subscriptionID, Status: "cancelled"}, nil
}

func (g *fakeGateway) ListSubscriptions(_ context.Context, _, _ int) ([]payment.Subscription, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.listResult, nil
}

func (g *fakeGateway) Refund(_ context.Context, paymentID string) error {
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunded = append(g.refunded, paymentID)
	return nil
}

// fakeUploader hands back deterministic assets without touching the network.
type fakeUploader struct {
	uploads   []string
	destroyed []string
	uploadErr error
}

func (u *fakeUploader) UploadFile(_ context.Context, localPath, folder, _ string) (media.Asset, error) {
	if u.uploadErr != nil {
		return media.Asset{}, u.uploadErr
	}
	u.uploads = append(u.uploads, localPath)
	return media.Asset{PublicID: folder + "/asset-" + localPath, SecureURL: "https://cdn.test/" + localPath}, nil
}

func (u *fakeUploader) Destroy(_ context.Context, publicID string) error {
	u.destroyed = append(u.destroyed, publicID)
	return nil
}

// fakePublisher captures published jobs and can fail on demand.
type fakePublisher struct {
	published []any
	err       error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, body)
	return nil
}

var errUpstream = errors.New("upstream failure")
