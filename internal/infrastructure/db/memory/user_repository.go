package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// UserRepository keeps directory entries in memory. A repository-level mutex
// makes the uniqueness check and the insert atomic with respect to other
// writers, mirroring the unique index the Mongo backend relies on.
type UserRepository struct {
	store  *Store[int, domain.User]
	mu     sync.Mutex // serializes Save/Update/Delete compound operations
	nextID int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{store: NewStore[int, domain.User](domain.ErrUserNotFound)}
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	u, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindBySSO(ctx context.Context, ssoID string) (*domain.User, error) {
	all, err := r.store.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.SSOID == ssoID {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	unique, err := r.ssoUniqueLocked(ctx, 0, user.SSOID)
	if err != nil {
		return err
	}
	if !unique {
		return domain.ErrDuplicateSSO
	}

	r.nextID++
	user.ID = r.nextID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return r.store.Put(ctx, user.ID, *cloneUser(*user))
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.store.Get(ctx, user.ID); err != nil {
		return err
	}

	unique, err := r.ssoUniqueLocked(ctx, user.ID, user.SSOID)
	if err != nil {
		return err
	}
	if !unique {
		return domain.ErrDuplicateSSO
	}

	user.UpdatedAt = time.Now().UTC()
	return r.store.Put(ctx, user.ID, *cloneUser(*user))
}

func (r *UserRepository) DeleteBySSO(ctx context.Context, ssoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.store.All(ctx)
	if err != nil {
		return err
	}
	for _, u := range all {
		if u.SSOID == ssoID {
			return r.store.Delete(ctx, u.ID)
		}
	}
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	all, err := r.store.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(all))
	users := make([]*domain.User, 0, len(all))
	for _, u := range all {
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		users = append(users, cloneUser(u))
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].FirstName != users[j].FirstName {
			return users[i].FirstName < users[j].FirstName
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *UserRepository) IsSSOUnique(ctx context.Context, id int, ssoID string) (bool, error) {
	return r.ssoUniqueLocked(ctx, id, ssoID)
}

// ssoUniqueLocked reports whether ssoID is held by any record other than id.
// Safe to call without r.mu for read-only callers; writers hold r.mu so the
// check stays atomic with their follow-up insert.
func (r *UserRepository) ssoUniqueLocked(ctx context.Context, id int, ssoID string) (bool, error) {
	all, err := r.store.All(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range all {
		if u.SSOID == ssoID && u.ID != id {
			return false, nil
		}
	}
	return true, nil
}

func cloneUser(u domain.User) *domain.User {
	clone := u
	clone.Profiles = append([]domain.Profile(nil), u.Profiles...)
	return &clone
}
