package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

const collectionProfiles = "user_profiles"

// ProfileRepository serves the fixed profile catalogue from MongoDB.
type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id int) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Profile
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) FindByType(ctx context.Context, profileType string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Profile
	if err := r.col.FindOne(ctx, bson.M{"type": profileType}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var profiles []*domain.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Seed upserts the built-in profile types so a fresh database is usable.
func (r *ProfileRepository) Seed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for i, t := range []string{domain.ProfileUser, domain.ProfileAdmin, domain.ProfileDBA} {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": i + 1},
			bson.M{"$set": bson.M{"type": t}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// byID loads the catalogue as a lookup map for resolving user profile sets.
func (r *ProfileRepository) byID(ctx context.Context) (map[int]domain.Profile, error) {
	profiles, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[int]domain.Profile, len(profiles))
	for _, p := range profiles {
		m[p.ID] = *p
	}
	return m, nil
}
