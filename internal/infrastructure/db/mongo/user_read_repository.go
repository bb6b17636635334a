package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/usuarios/users-service/internal/core/domain"
	"github.com/usuarios/users-service/internal/core/ports"
)

const collectionUsersRead = "users_read"

// UserReadRepository maintains the denormalized user documents. All mutations
// are idempotent so redelivered events converge to the same state.
type UserReadRepository struct {
	col *mongo.Collection
}

func NewUserReadRepository(db *mongo.Database) *UserReadRepository {
	return &UserReadRepository{col: db.Collection(collectionUsersRead)}
}

// Upsert inserts or fully replaces the document keyed by model.ID.
func (r *UserReadRepository) Upsert(ctx context.Context, model ports.UserReadModel) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": model.ID}, model, options.Replace().SetUpsert(true))
	return err
}

func (r *UserReadRepository) UpdateFields(ctx context.Context, id string, fields ports.UserFieldUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":     fields.Name,
		"lastName": fields.LastName,
		"address":  fields.Address,
		"phone":    fields.Phone,
	}}
	_, err := r.col.UpdateByID(ctx, id, update)
	return err
}

func (r *UserReadRepository) SetRole(ctx context.Context, id, roleID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"roleId": roleID}})
	return err
}

func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*ports.UserReadModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var model ports.UserReadModel
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &model, nil
}

func (r *UserReadRepository) GetAll(ctx context.Context) ([]ports.UserReadModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var models []ports.UserReadModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// EnsureIndexes creates the email lookup index on the read collection.
func (r *UserReadRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
	})
	return err
}
