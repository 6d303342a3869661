package memory

import (
	"context"
	"sort"
	"sync"

	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"
)

type MilitaryRanks struct {
	mu    sync.RWMutex
	byID  map[string]models.MilitaryRank
	users *Users
}

// NewMilitaryRanks returns an empty store. users may be nil; when set, deleting
// a rank clears it from every user.
func NewMilitaryRanks(users *Users) *MilitaryRanks {
	return &MilitaryRanks{byID: make(map[string]models.MilitaryRank), users: users}
}

var _ repository.MilitaryRankRepository = (*MilitaryRanks)(nil)

func (r *MilitaryRanks) nameTakenLocked(name, exceptID string) bool {
	for id, rank := range r.byID {
		if id != exceptID && fold(rank.Name) == fold(name) {
			return true
		}
	}
	return false
}

func (r *MilitaryRanks) Create(_ context.Context, rank *models.MilitaryRank) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rank.ID]; ok || r.nameTakenLocked(rank.Name, "") {
		return repository.ErrDuplicate
	}
	r.byID[rank.ID] = *rank
	return nil
}

func (r *MilitaryRanks) GetByID(_ context.Context, id string) (*models.MilitaryRank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rank, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &rank, nil
}

func (r *MilitaryRanks) GetByName(_ context.Context, name string) (*models.MilitaryRank, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rank := range r.byID {
		if fold(rank.Name) == fold(name) {
			return &rank, nil
		}
	}
	return nil, nil
}

func (r *MilitaryRanks) List(_ context.Context) ([]models.MilitaryRank, error) {
	r.mu.RLock()
	out := make([]models.MilitaryRank, 0, len(r.byID))
	for _, rank := range r.byID {
		out = append(out, rank)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		// names compare case-insensitively, like the NOCASE column
		if a, b := fold(out[i].Name), fold(out[j].Name); a != b {
			return a < b
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MilitaryRanks) Update(_ context.Context, rank *models.MilitaryRank) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rank.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTakenLocked(rank.Name, rank.ID) {
		return repository.ErrDuplicate
	}
	r.byID[rank.ID] = *rank
	return nil
}

func (r *MilitaryRanks) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.byID[id]; !ok {
		r.mu.Unlock()
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	r.mu.Unlock()

	if r.users != nil {
		r.users.clearRank(id)
	}
	return nil
}
