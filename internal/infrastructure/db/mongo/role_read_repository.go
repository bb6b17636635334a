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

const collectionRolesRead = "roles_read"

// RoleReadRepository maintains the denormalized role documents. The
// permission array is treated as a set: $addToSet on add, $pull on remove,
// so replaying either event cannot corrupt it.
type RoleReadRepository struct {
	col *mongo.Collection
}

func NewRoleReadRepository(db *mongo.Database) *RoleReadRepository {
	return &RoleReadRepository{col: db.Collection(collectionRolesRead)}
}

func (r *RoleReadRepository) AddPermission(ctx context.Context, roleID, permissionID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$addToSet": bson.M{"PermissionIds": permissionID}}
	_, err := r.col.UpdateByID(ctx, roleID, update, options.Update().SetUpsert(true))
	return err
}

func (r *RoleReadRepository) RemovePermission(ctx context.Context, roleID, permissionID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"PermissionIds": permissionID}}
	_, err := r.col.UpdateByID(ctx, roleID, update)
	return err
}

func (r *RoleReadRepository) GetByID(ctx context.Context, roleID string) (*ports.RoleReadModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var model ports.RoleReadModel
	err := r.col.FindOne(ctx, bson.M{"_id": roleID}).Decode(&model)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return &model, nil
}

func (r *RoleReadRepository) GetAll(ctx context.Context) ([]ports.RoleReadModel, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var models []ports.RoleReadModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, err
	}
	return models, nil
}
