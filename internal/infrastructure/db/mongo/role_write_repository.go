package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/usuarios/users-service/internal/core/domain"
)

const collectionRoles = "roles"

// RoleWriteRepository persists Role entities in the write store with the same
// transactional outbox semantics as the user repository.
type RoleWriteRepository struct {
	client *mongo.Client
	roles  *mongo.Collection
	outbox *mongo.Collection
}

func NewRoleWriteRepository(db *mongo.Database) *RoleWriteRepository {
	return &RoleWriteRepository{
		client: db.Client(),
		roles:  db.Collection(collectionRoles),
		outbox: db.Collection(collectionOutbox),
	}
}

func (r *RoleWriteRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var role domain.Role
	err := r.roles.FindOne(ctx, bson.M{"_id": id}).Decode(&role)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// Save overwrites the role's permission set guarded by its loaded version.
func (r *RoleWriteRepository) Save(ctx context.Context, role *domain.Role, events ...domain.Envelope) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	loadedVersion := role.Version

	return withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		filter := bson.M{"_id": role.ID, "version": loadedVersion}
		update := bson.M{
			"$set": bson.M{
				"RoleName":      role.Name,
				"PermissionIds": role.PermissionIDs,
			},
			"$inc": bson.M{"version": 1},
		}

		res, err := r.roles.UpdateOne(sc, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			n, err := r.roles.CountDocuments(sc, bson.M{"_id": role.ID})
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.ErrVersionConflict
			}
			return domain.ErrRoleNotFound
		}

		if err := appendOutbox(sc, r.outbox, events); err != nil {
			return err
		}
		role.Version = loadedVersion + 1
		return nil
	})
}
