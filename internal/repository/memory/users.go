package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"
)

type Users struct {
	mu   sync.RWMutex
	byID map[string]models.User
}

func NewUsers() *Users {
	return &Users{byID: make(map[string]models.User)}
}

var _ repository.UserRepository = (*Users)(nil)

// emailTakenLocked reports whether another user owns email. Caller holds mu.
func (r *Users) emailTakenLocked(email, exceptID string) bool {
	for id, u := range r.byID {
		if id != exceptID && fold(u.Email) == fold(email) {
			return true
		}
	}
	return false
}

func (r *Users) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; ok || r.emailTakenLocked(u.Email, "") {
		return repository.ErrDuplicate
	}
	stored := *u
	stored.CreatedAt = utcOrNow(u.CreatedAt)
	stored.UpdatedAt = utcOrNow(u.UpdatedAt)
	r.byID[u.ID] = stored
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if fold(u.Email) == fold(email) {
			return &u, nil
		}
	}
	return nil, nil
}

// List orders by name, then id, like the SQL implementation.
func (r *Users) List(_ context.Context, q models.PageQuery) (*models.Page[models.User], error) {
	r.mu.RLock()
	all := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})

	start := min(max(q.Offset, 0), len(all))
	end := len(all)
	if q.Limit >= 0 {
		end = min(start+q.Limit, len(all))
	}

	items := make([]models.User, end-start)
	copy(items, all[start:end])
	return &models.Page[models.User]{Items: items, Total: len(all), Limit: q.Limit, Offset: q.Offset}, nil
}

func (r *Users) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTakenLocked(u.Email, u.ID) {
		return repository.ErrDuplicate
	}
	cur.Name = u.Name
	cur.Email = u.Email
	cur.Phone = u.Phone
	cur.Birthdate = u.Birthdate
	cur.Role = u.Role
	cur.MilitaryRankID = u.MilitaryRankID
	cur.UpdatedAt = utcOrNow(u.UpdatedAt)
	r.byID[u.ID] = cur
	return nil
}

func (r *Users) UpdatePassword(_ context.Context, id, hash string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.PasswordHash = hash
	cur.UpdatedAt = utcOrNow(updatedAt)
	r.byID[id] = cur
	return nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Users) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

// clearRank drops references to a deleted military rank.
func (r *Users) clearRank(rankID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.byID {
		if u.MilitaryRankID == rankID {
			u.MilitaryRankID = ""
			r.byID[id] = u
		}
	}
}
