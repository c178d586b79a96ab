package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/inspection-case-backend/internal/model"
)

// ordered is an id-keyed map that remembers insertion order.  Ids come from
// a monotonically increasing counter and are never reused after a delete.
type ordered[T any] struct {
	items  map[uint64]T
	ids    []uint64
	lastID uint64
}

func newOrdered[T any]() ordered[T] { return ordered[T]{items: map[uint64]T{}} }

func (o *ordered[T]) nextID() uint64 {
	o.lastID++
	return o.lastID
}

func (o *ordered[T]) put(id uint64, v T) {
	if _, ok := o.items[id]; !ok {
		o.ids = append(o.ids, id)
	}
	o.items[id] = v
}

func (o *ordered[T]) remove(id uint64) (T, bool) {
	v, ok := o.items[id]
	if !ok {
		return v, false
	}
	delete(o.items, id)
	for i, x := range o.ids {
		if x == id {
			o.ids = append(o.ids[:i], o.ids[i+1:]...)
			break
		}
	}
	return v, true
}

func (o *ordered[T]) values() []T {
	out := make([]T, 0, len(o.ids))
	for _, id := range o.ids {
		out = append(out, o.items[id])
	}
	return out
}

// MemoryUserRepo keeps users in process memory with a unique index on
// email.  All methods are safe for concurrent use.
type MemoryUserRepo struct {
	mu      sync.RWMutex
	users   ordered[model.User]
	byEmail map[string]uint64
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: newOrdered[model.User](), byEmail: map[string]uint64{}}
}

func (r *MemoryUserRepo) Insert(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailExists
	}
	u.ID = r.users.nextID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.users.put(u.ID, *u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return r.users.items[id], nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id uint64) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users.items[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users.values(), nil
}

func (r *MemoryUserRepo) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users.remove(id); ok {
		delete(r.byEmail, u.Email)
	}
	return nil
}

func (r *MemoryUserRepo) UpdateRole(_ context.Context, id uint64, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users.items[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	r.users.put(id, u)
	return nil
}

// MemoryCaseRepo keeps cases in process memory.
type MemoryCaseRepo struct {
	mu    sync.RWMutex
	cases ordered[model.Case]
}

func NewMemoryCaseRepo() *MemoryCaseRepo {
	return &MemoryCaseRepo{cases: newOrdered[model.Case]()}
}

func (r *MemoryCaseRepo) Insert(_ context.Context, c *model.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.cases.nextID()
	c.CaseNumber = model.FormatCaseNumber(c.ID)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.cases.put(c.ID, *c)
	return nil
}

func (r *MemoryCaseRepo) Get(_ context.Context, id uint64) (model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cases.items[id]
	if !ok {
		return model.Case{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryCaseRepo) List(_ context.Context) ([]model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cases.values(), nil
}

func (r *MemoryCaseRepo) Update(_ context.Context, id uint64, p model.CasePatch) (model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases.items[id]
	if !ok {
		return model.Case{}, ErrNotFound
	}
	p.Apply(&c)
	r.cases.put(id, c)
	return c, nil
}

func (r *MemoryCaseRepo) Delete(_ context.Context, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cases.remove(id)
	return ok, nil
}

// MemoryClientRepo keeps clients in process memory.
type MemoryClientRepo struct {
	mu      sync.RWMutex
	clients ordered[model.Client]
}

func NewMemoryClientRepo() *MemoryClientRepo {
	return &MemoryClientRepo{clients: newOrdered[model.Client]()}
}

func (r *MemoryClientRepo) Insert(_ context.Context, c *model.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.clients.nextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.clients.put(c.ID, *c)
	return nil
}

func (r *MemoryClientRepo) List(_ context.Context) ([]model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients.values(), nil
}

func (r *MemoryClientRepo) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients.remove(id)
	return nil
}
