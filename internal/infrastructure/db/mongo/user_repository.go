package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adminhub/access-control/internal/core/domain"
)

const usersCollection = "users"

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID                string                               `bson:"_id"`
	Name              string                               `bson:"name"`
	Email             string                               `bson:"email"`
	PasswordHash      string                               `bson:"password_hash"`
	RoleID            string                               `bson:"role_id"`
	CustomPermissions map[domain.Module]domain.OverrideSet `bson:"custom_permissions,omitempty"`
	CreatedAt         int64                                `bson:"created_at"`
	UpdatedAt         int64                                `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:                u.ID,
		Name:              u.Name,
		Email:             strings.ToLower(u.Email),
		PasswordHash:      u.PasswordHash,
		RoleID:            u.RoleID,
		CustomPermissions: u.CustomPermissions.Clone(),
		CreatedAt:         u.CreatedAt.Unix(),
		UpdatedAt:         u.UpdatedAt.Unix(),
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:                d.ID,
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		RoleID:            d.RoleID,
		CustomPermissions: domain.OverrideMatrix(d.CustomPermissions),
		CreatedAt:         unixToTime(d.CreatedAt),
		UpdatedAt:         unixToTime(d.UpdatedAt),
	}
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var d userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *MongoUserRepository) ListByRole(ctx context.Context, roleID string) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{"role_id": roleID})
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	c := user.Clone()
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.coll.InsertOne(ctx, toUserDoc(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return c, nil
}

func (r *MongoUserRepository) UpdateCustomPermissions(ctx context.Context, id string, module domain.Module, set domain.OverrideSet) error {
	field := "custom_permissions." + string(module)
	now := time.Now().UTC().Unix()

	var update bson.M
	if set.IsEmpty() {
		update = bson.M{"$unset": bson.M{field: ""}, "$set": bson.M{"updated_at": now}}
	} else {
		update = bson.M{"$set": bson.M{field: set, "updated_at": now}}
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user permissions: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
