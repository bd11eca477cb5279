package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionCounters = "counters"
)

// UserRepository implements the directory store on MongoDB. The unique index
// on sso_id is the authoritative uniqueness guard; a duplicate-key failure on
// insert or update is remapped to domain.ErrDuplicateSSO.
type UserRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
	profiles *ProfileRepository
}

func NewUserRepository(db *mongo.Database, profiles *ProfileRepository) *UserRepository {
	return &UserRepository{
		col:      db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
		profiles: profiles,
	}
}

// userDoc is the stored form; the profile set is kept as id references and
// resolved explicitly on read.
type userDoc struct {
	ID           int       `bson:"_id"`
	SSOID        string    `bson:"sso_id"`
	PasswordHash string    `bson:"password_hash"`
	FirstName    string    `bson:"first_name"`
	LastName     string    `bson:"last_name"`
	Email        string    `bson:"email"`
	ProfileIDs   []int     `bson:"profile_ids"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.resolve(ctx, doc)
}

func (r *UserRepository) FindBySSO(ctx context.Context, ssoID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, bson.M{"sso_id": ssoID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.resolve(ctx, doc)
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, toDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSSO
		}
		return err
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	user.UpdatedAt = time.Now().UTC()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": user.ID}, toDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSSO
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DeleteBySSO(ctx context.Context, ssoID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// DeleteOne on an absent record is a no-op by contract.
	_, err := r.col.DeleteOne(ctx, bson.M{"sso_id": ssoID})
	return err
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "first_name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	catalogue, err := r.profiles.byID(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(docs))
	users := make([]*domain.User, 0, len(docs))
	for _, doc := range docs {
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}
		users = append(users, fromDoc(doc, catalogue))
	}
	return users, nil
}

func (r *UserRepository) IsSSOUnique(ctx context.Context, id int, ssoID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"sso_id": ssoID}
	if id != 0 {
		filter["_id"] = bson.M{"$ne": id}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// EnsureIndexes creates the unique sso_id index the uniqueness contract
// depends on.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sso_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// nextID increments and returns the surrogate id sequence for users.
func (r *UserRepository) nextID(ctx context.Context) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionUsers},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// resolve performs the explicit second fetch of the user's profile set.
func (r *UserRepository) resolve(ctx context.Context, doc userDoc) (*domain.User, error) {
	catalogue, err := r.profiles.byID(ctx)
	if err != nil {
		return nil, err
	}
	return fromDoc(doc, catalogue), nil
}

func toDoc(u *domain.User) userDoc {
	ids := make([]int, 0, len(u.Profiles))
	for _, p := range u.Profiles {
		ids = append(ids, p.ID)
	}
	return userDoc{
		ID:           u.ID,
		SSOID:        u.SSOID,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		ProfileIDs:   ids,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromDoc(doc userDoc, catalogue map[int]domain.Profile) *domain.User {
	profiles := make([]domain.Profile, 0, len(doc.ProfileIDs))
	for _, id := range doc.ProfileIDs {
		if p, ok := catalogue[id]; ok {
			profiles = append(profiles, p)
		}
	}
	return &domain.User{
		ID:           doc.ID,
		SSOID:        doc.SSOID,
		PasswordHash: doc.PasswordHash,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		Profiles:     profiles,
	}
}
