package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adminhub/access-control/internal/core/domain"
)

const rolesCollection = "roles"

type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(rolesCollection)}
}

type roleDoc struct {
	ID          string                                 `bson:"_id"`
	Name        string                                 `bson:"name"`
	Description string                                 `bson:"description"`
	Permissions map[domain.Module]domain.PermissionSet `bson:"permissions"`
	CreatedAt   int64                                  `bson:"created_at"`
	UpdatedAt   int64                                  `bson:"updated_at"`
}

func toRoleDoc(r *domain.Role) roleDoc {
	return roleDoc{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions.Clone(),
		CreatedAt:   r.CreatedAt.Unix(),
		UpdatedAt:   r.UpdatedAt.Unix(),
	}
}

func (d roleDoc) toDomain() *domain.Role {
	perms := domain.PermissionMatrix(d.Permissions)
	if perms == nil {
		perms = domain.PermissionMatrix{}
	}
	return &domain.Role{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Permissions: perms,
		CreatedAt:   unixToTime(d.CreatedAt),
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

func (r *MongoRoleRepository) List(ctx context.Context) ([]*domain.Role, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	out := make([]*domain.Role, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoRoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	var d roleDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return d.toDomain(), nil
}

func (r *MongoRoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	c := role.Clone()
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.coll.InsertOne(ctx, toRoleDoc(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return c, nil
}

// UpdatePermissions replaces a single module entry in place so concurrent
// edits to other modules are preserved.
func (r *MongoRoleRepository) UpdatePermissions(ctx context.Context, id string, module domain.Module, set domain.PermissionSet) error {
	update := bson.M{"$set": bson.M{
		"permissions." + string(module): set,
		"updated_at":                    time.Now().UTC().Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update role permissions: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}
