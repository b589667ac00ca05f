package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/roster/internal/models"
)

// MemoryUserRepository is a volatile, process-local user store. Records live
// in a map keyed by id with a secondary index by lowercased email. IDs are
// assigned monotonically and never reused, even after deletes.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[int64]*models.User
	byEmail map[string]int64
	nextID  int64
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[int64]*models.User),
		byEmail: make(map[string]int64),
		nextID:  1,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	clone := *user
	return &clone, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, models.ErrNotFound
	}

	clone := *r.users[id]
	return &clone, nil
}

// List returns all users in id order. The returned slice and its elements are
// copies; callers cannot mutate the store through them.
func (r *MemoryUserRepository) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// Create assigns the next id, stamps the creation time, and inserts the
// record. Email uniqueness is enforced atomically under the store lock;
// duplicates return ErrConflict.
func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, models.ErrConflict
	}

	clone := *user
	clone.ID = r.nextID
	clone.Email = email
	clone.CreatedAt = time.Now()
	r.nextID++

	r.users[clone.ID] = &clone
	r.byEmail[email] = clone.ID

	out := clone
	return &out, nil
}

// Update replaces the stored record's mutable fields with those of user.
// Callers are expected to pass a fully populated record (read-modify-write);
// the id, creation time, and a taken email are not overwritable.
func (r *MemoryUserRepository) Update(ctx context.Context, id int64, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	email := normalizeEmail(user.Email)
	if ownerID, taken := r.byEmail[email]; taken && ownerID != id {
		return nil, models.ErrConflict
	}

	if email != existing.Email {
		delete(r.byEmail, existing.Email)
		r.byEmail[email] = id
	}

	existing.Name = user.Name
	existing.Email = email
	existing.Role = user.Role
	existing.PasswordHash = user.PasswordHash

	clone := *existing
	return &clone, nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.ErrNotFound
	}

	delete(r.byEmail, user.Email)
	delete(r.users, id)

	return nil
}
