package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harentsoaR/hospital-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// ErrDuplicateEmail is returned by Create when the unique email index rejects
// the insert. It covers registrations that race past the handler's pre-check.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique index on email. It is idempotent.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

// FindByEmail returns nil, nil when no user has that email. The password hash
// is only part of the result when withPassword is set.
func (r *UserRepository) FindByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, withPassword)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid}, false)
}

func (r *UserRepository) FindByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"role": role}, options.Find().
		SetProjection(hidePassword()).
		SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users by role: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// Create inserts u, assigning its ID and creation time. u.Password must
// already be hashed.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, withPassword bool) (*models.User, error) {
	opts := options.FindOne()
	if !withPassword {
		opts.SetProjection(hidePassword())
	}

	var u models.User
	err := r.coll.FindOne(ctx, filter, opts).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func hidePassword() bson.M {
	return bson.M{"password": 0}
}
