package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubClientRepo struct {
	clients map[string]*domain.Client
	nextID  int
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[string]*domain.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *domain.Client) (*domain.Client, error) {
	if c.Email != "" {
		for _, existing := range r.clients {
			if existing.Email == c.Email {
				return nil, domain.ErrDuplicateEmail
			}
		}
	}
	r.nextID++
	clone := *c
	clone.ID = fmt.Sprintf("client_%d", r.nextID)
	stored := clone
	r.clients[clone.ID] = &stored
	return &clone, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) List(_ context.Context, f ports.ClientFilter) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, c := range r.clients {
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, c *domain.Client) (*domain.Client, error) {
	clone := *c
	r.clients[c.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubClientRepo) Delete(_ context.Context, id string) error {
	delete(r.clients, id)
	return nil
}

// stubInvoiceRepo is shared with stubPaymentRepo, which mutates it on Record
// to mirror the transactional write of the real repository.
type stubInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*domain.Invoice
	nextID   int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[string]*domain.Invoice)}
}

func (r *stubInvoiceRepo) seed(inv domain.Invoice) *domain.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = &inv
	clone := inv
	return &clone
}

func (r *stubInvoiceRepo) Create(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return nil, domain.ErrDuplicateInvoiceNumber
		}
	}
	r.nextID++
	clone := *inv
	clone.ID = fmt.Sprintf("invoice_%d", r.nextID)
	stored := clone
	r.invoices[clone.ID] = &stored
	return &clone, nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id string) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	clone := *inv
	return &clone, nil
}

func (r *stubInvoiceRepo) List(_ context.Context, f ports.InvoiceFilter) ([]*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Invoice
	for _, inv := range r.invoices {
		if f.ClientID != "" && inv.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		clone := *inv
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[inv.ID]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	clone := *inv
	clone.AmountPaid = stored.AmountPaid
	r.invoices[inv.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invoices, id)
	return nil
}

func (r *stubInvoiceRepo) CountByClient(_ context.Context, clientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, inv := range r.invoices {
		if inv.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

type stubPaymentRepo struct {
	mu        sync.Mutex
	invoices  *stubInvoiceRepo
	payments  []*domain.Payment
	recordErr error
}

func newStubPaymentRepo(invoices *stubInvoiceRepo) *stubPaymentRepo {
	return &stubPaymentRepo{invoices: invoices}
}

func (r *stubPaymentRepo) Record(_ context.Context, p *domain.Payment, inv *domain.Invoice, previousPaid float64) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recordErr != nil {
		return nil, r.recordErr
	}

	r.invoices.mu.Lock()
	defer r.invoices.mu.Unlock()
	stored, ok := r.invoices.invoices[inv.ID]
	if !ok || stored.AmountPaid != previousPaid {
		return nil, domain.ErrConflict
	}
	stored.AmountPaid = inv.AmountPaid
	stored.Status = inv.Status
	stored.UpdatedAt = inv.UpdatedAt

	clone := *p
	clone.ID = fmt.Sprintf("payment_%d", len(r.payments)+1)
	stored2 := clone
	r.payments = append(r.payments, &stored2)
	return &clone, nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *stubPaymentRepo) List(_ context.Context) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubPaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) CountByInvoice(ctx context.Context, invoiceID string) (int64, error) {
	list, _ := r.ListByInvoice(ctx, invoiceID)
	return int64(len(list)), nil
}

type stubActionRepo struct {
	actions map[string]*domain.RecoveryAction
	nextID  int
}

func newStubActionRepo() *stubActionRepo {
	return &stubActionRepo{actions: make(map[string]*domain.RecoveryAction)}
}

func (r *stubActionRepo) matches(a *domain.RecoveryAction, f ports.RecoveryActionFilter) bool {
	if f.ClientID != "" && a.ClientID != f.ClientID {
		return false
	}
	if f.InvoiceID != "" && a.InvoiceID != f.InvoiceID {
		return false
	}
	return true
}

func (r *stubActionRepo) Create(_ context.Context, a *domain.RecoveryAction) (*domain.RecoveryAction, error) {
	r.nextID++
	clone := *a
	clone.ID = fmt.Sprintf("action_%d", r.nextID)
	stored := clone
	r.actions[clone.ID] = &stored
	return &clone, nil
}

func (r *stubActionRepo) FindByID(_ context.Context, id string) (*domain.RecoveryAction, error) {
	a, ok := r.actions[id]
	if !ok {
		return nil, domain.ErrRecoveryActionNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubActionRepo) List(_ context.Context, f ports.RecoveryActionFilter) ([]*domain.RecoveryAction, error) {
	var out []*domain.RecoveryAction
	for _, a := range r.actions {
		if r.matches(a, f) {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubActionRepo) Update(_ context.Context, a *domain.RecoveryAction) (*domain.RecoveryAction, error) {
	clone := *a
	r.actions[a.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubActionRepo) Delete(_ context.Context, id string) error {
	delete(r.actions, id)
	return nil
}

func (r *stubActionRepo) Count(_ context.Context, f ports.RecoveryActionFilter) (int64, error) {
	var n int64
	for _, a := range r.actions {
		if r.matches(a, f) {
			n++
		}
	}
	return n, nil
}

// noopLocker grants every lock immediately.
type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

// failingLocker never grants a lock.
type failingLocker struct{ err error }

func (l failingLocker) Lock(context.Context, string) (func(), error) { return nil, l.err }

// recordingLocker grants every lock and remembers the keys asked for.
type recordingLocker struct {
	mu   sync.Mutex
	keys []string
}

func (l *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	return func() {}, nil
}

func (l *recordingLocker) taken() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.keys...)
}
