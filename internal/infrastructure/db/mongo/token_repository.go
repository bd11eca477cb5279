package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AlekseevAleksey/testAuth/internal/core/domain"
)

const collectionLogins = "persistent_logins"

// TokenRepository implements the persistent-login store on MongoDB. The
// series is the document _id, so series uniqueness is enforced by the primary
// key itself.
type TokenRepository struct {
	col *mongo.Collection
}

func NewTokenRepository(db *mongo.Database) *TokenRepository {
	return &TokenRepository{col: db.Collection(collectionLogins)}
}

func (r *TokenRepository) CreateToken(ctx context.Context, token *domain.LoginToken) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, token); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSeriesExists
		}
		return err
	}
	return nil
}

func (r *TokenRepository) LookupBySeries(ctx context.Context, series string) (*domain.LoginToken, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var lt domain.LoginToken
	if err := r.col.FindOne(ctx, bson.M{"_id": series}).Decode(&lt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return &lt, nil
}

func (r *TokenRepository) RotateToken(ctx context.Context, series, newToken string, lastUsed time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": series},
		bson.M{"$set": bson.M{"token": newToken, "last_used": lastUsed.UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

func (r *TokenRepository) InvalidateAllForUser(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Deleting zero rows is a valid outcome, not an error.
	_, err := r.col.DeleteMany(ctx, bson.M{"username": username})
	return err
}

// EnsureIndexes creates the username index used by invalidation.
func (r *TokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
	})
	return err
}
