package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/usuarios/users-service/internal/core/domain"
)

const collectionUsersWrite = "users_write"

// UserWriteRepository persists User aggregates in the write store. Aggregate
// writes and their outbox appends share one session transaction.
type UserWriteRepository struct {
	client *mongo.Client
	users  *mongo.Collection
	outbox *mongo.Collection
}

func NewUserWriteRepository(db *mongo.Database) *UserWriteRepository {
	return &UserWriteRepository{
		client: db.Client(),
		users:  db.Collection(collectionUsersWrite),
		outbox: db.Collection(collectionOutbox),
	}
}

// Create inserts a new aggregate document and its events. The unique index
// on email turns a concurrent duplicate insert into domain.ErrDuplicateEmail.
func (r *UserWriteRepository) Create(ctx context.Context, user *domain.User, events ...domain.Envelope) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if _, err := r.users.InsertOne(sc, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrDuplicateEmail
			}
			return err
		}
		return appendOutbox(sc, r.outbox, events)
	})
}

// Save overwrites the aggregate guarded by the version it was loaded at.
// A matched-count of zero means either a concurrent writer got there first
// or the document is gone; the two are distinguished with a second lookup.
func (r *UserWriteRepository) Save(ctx context.Context, user *domain.User, events ...domain.Envelope) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	loadedVersion := user.Version

	return withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		filter := bson.M{"_id": user.ID, "version": loadedVersion}
		update := bson.M{
			"$set": bson.M{
				"name":      user.Name,
				"lastName":  user.LastName,
				"address":   user.Address,
				"phone":     user.Phone,
				"roleId":    user.RoleID,
				"updatedAt": user.UpdatedAt,
			},
			"$inc": bson.M{"version": 1},
		}

		res, err := r.users.UpdateOne(sc, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			exists, err := r.exists(sc, user.ID)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrVersionConflict
			}
			return domain.ErrUserNotFound
		}

		if err := appendOutbox(sc, r.outbox, events); err != nil {
			return err
		}
		user.Version = loadedVersion + 1
		return nil
	})
}

func (r *UserWriteRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserWriteRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserWriteRepository) exists(ctx context.Context, id string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": id})
	return n > 0, err
}

// EnsureIndexes creates the unique email index and the outbox drain index.
func (r *UserWriteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = r.outbox.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "published", Value: 1}, {Key: "occurred_on", Value: 1}},
	})
	return err
}
