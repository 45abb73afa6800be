package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
)

type fakeProducts struct {
	mu   sync.Mutex
	rows map[int64]entity.Product
	next int64
}

func newFakeProducts(ps ...entity.Product) *fakeProducts {
	f := &fakeProducts{rows: map[int64]entity.Product{}}
	for _, p := range ps {
		f.rows[p.ID] = p
		if p.ID > f.next {
			f.next = p.ID
		}
	}
	return f
}

func product(id int64, price string, stock int) entity.Product {
	return entity.Product{ID: id, Name: "product", Price: decimal.RequireFromString(price), Stock: stock}
}

func (f *fakeProducts) stock(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id].Stock
}

func (f *fakeProducts) setPrice(id int64, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.rows[id]
	p.Price = decimal.RequireFromString(price)
	f.rows[id] = p
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProducts) ListByIDs(_ context.Context, ids []int64) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Product{}
	for _, id := range ids {
		if p, ok := f.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) sorted() []entity.Product {
	out := make([]entity.Product, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeProducts) ListFeatured(_ context.Context, limit int) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Product{}
	for _, p := range f.sorted() {
		if p.Featured && p.InStock() && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) List(_ context.Context, flt repository.ProductFilter) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Product{}
	for _, p := range f.sorted() {
		if flt.Category == "" || p.Category == flt.Category {
			out = append(out, p)
		}
	}
	if flt.Offset >= len(out) {
		return []entity.Product{}, nil
	}
	out = out[flt.Offset:]
	if flt.Limit > 0 && len(out) > flt.Limit {
		out = out[:flt.Limit]
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	p.ID = f.next
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p.ID]; !ok {
		return repository.ErrNotFound
	}
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, id int64, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Stock < qty {
		return repository.ErrConflict
	}
	p.Stock -= qty
	f.rows[id] = p
	return nil
}

type fakeOrders struct {
	mu     sync.Mutex
	orders []entity.Order
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrders) Create(_ context.Context, o *entity.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = int64(len(f.orders) + 1)
	o.CreatedAt = time.Now()
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		o.Items[i].ID = int64(i + 1)
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	f.orders = append(f.orders, cp)
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrders) ListByUser(_ context.Context, userID int64) ([]entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Order{}
	for i := len(f.orders) - 1; i >= 0; i-- {
		if f.orders[i].UserID == userID {
			out = append(out, f.orders[i])
		}
	}
	return out, nil
}

// fakeTx serializes transactions and restores products and orders when fn fails.
type fakeTx struct {
	mu       sync.Mutex
	products *fakeProducts
	orders   *fakeOrders
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.products.mu.Lock()
	rows := make(map[int64]entity.Product, len(t.products.rows))
	for k, v := range t.products.rows {
		rows[k] = v
	}
	t.products.mu.Unlock()
	t.orders.mu.Lock()
	orders := append([]entity.Order(nil), t.orders.orders...)
	t.orders.mu.Unlock()

	if err := fn(ctx, repository.TxRepos{Products: t.products, Orders: t.orders}); err != nil {
		t.products.mu.Lock()
		t.products.rows = rows
		t.products.mu.Unlock()
		t.orders.mu.Lock()
		t.orders.orders = orders
		t.orders.mu.Unlock()
		return err
	}
	return nil
}

// fakeSessions stores session principals and raw cart JSON per user.
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[int64]entity.Session
	carts    map[int64]string
}

func newFakeSessions(userIDs ...int64) *fakeSessions {
	f := &fakeSessions{sessions: map[int64]entity.Session{}, carts: map[int64]string{}}
	for _, id := range userIDs {
		f.sessions[id] = entity.Session{UserID: id, SessionID: "sid"}
	}
	return f
}

func (f *fakeSessions) Create(_ context.Context, s *entity.Session, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.UserID] = *s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, userID int64) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessions) Rotate(_ context.Context, userID int64, sid string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[userID]
	if !ok {
		return repository.ErrNotFound
	}
	s.SessionID = sid
	f.sessions[userID] = s
	return nil
}

func (f *fakeSessions) SetName(_ context.Context, userID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[userID]; ok {
		s.Name = name
		f.sessions[userID] = s
	}
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userID)
	delete(f.carts, userID)
	return nil
}

func (f *fakeSessions) LoadCart(_ context.Context, userID int64) (*entity.Cart, error) {
	f.mu.Lock()
	raw := f.carts[userID]
	f.mu.Unlock()
	return entity.DecodeCart(raw)
}

func (f *fakeSessions) SaveCart(_ context.Context, userID int64, c *entity.Cart) error {
	b, err := c.MarshalJSON()
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[userID]; !ok {
		return repository.ErrNotFound
	}
	f.carts[userID] = string(b)
	return nil
}

type fakeUsers struct {
	mu   sync.Mutex
	rows map[int64]entity.User
}

func newFakeUsers(us ...entity.User) *fakeUsers {
	f := &fakeUsers{rows: map[int64]entity.User{}}
	for _, u := range us {
		f.rows[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Email == u.Email {
			return repository.ErrConflict
		}
	}
	u.ID = int64(len(f.rows) + 1)
	f.rows[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByResetTokenHash(_ context.Context, digest string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if digest != "" && u.ResetTokenHash == digest {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) RedeemResetToken(_ context.Context, digest, passwordHash string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.rows {
		if digest != "" && u.ResetTokenValid(digest, now) {
			u.PasswordHash = passwordHash
			u.ClearResetToken()
			f.rows[id] = u
			return id, nil
		}
	}
	return 0, repository.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[u.ID]; !ok {
		return repository.ErrNotFound
	}
	f.rows[u.ID] = *u
	return nil
}

type mockMailQueue struct {
	mock.Mock
}

func (m *mockMailQueue) PublishJSON(ctx context.Context, body any) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

type fakeSearch struct {
	ids     []int64
	indexed []entity.Product
}

func (f *fakeSearch) Index(_ context.Context, products ...entity.Product) error {
	f.indexed = append(f.indexed, products...)
	return nil
}

func (f *fakeSearch) Search(_ context.Context, _ string, size int) ([]int64, error) {
	if len(f.ids) > size {
		return f.ids[:size], nil
	}
	return f.ids, nil
}
