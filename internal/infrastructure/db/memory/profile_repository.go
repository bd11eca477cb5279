package memory

import (
	"context"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

// ProfileRepository serves the fixed profile catalogue from memory.
type ProfileRepository struct {
	store *Store[int, domain.Profile]
}

func NewProfileRepository() *ProfileRepository {
	r := &ProfileRepository{store: NewStore[int, domain.Profile](domain.ErrProfileNotFound)}
	for i, t := range []string{domain.ProfileUser, domain.ProfileAdmin, domain.ProfileDBA} {
		_ = r.store.Put(context.Background(), i+1, domain.Profile{ID: i + 1, Type: t})
	}
	return r
}

func (r *ProfileRepository) FindByID(ctx context.Context, id int) (*domain.Profile, error) {
	p, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) FindByType(ctx context.Context, profileType string) (*domain.Profile, error) {
	all, err := r.store.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Type == profileType {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	all, err := r.store.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Profile, 0, len(all))
	for _, p := range all {
		clone := p
		out = append(out, &clone)
	}
	return out, nil
}
