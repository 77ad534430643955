package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/user-orders-api/internal/domain/entity"
	"github.com/oksasatya/user-orders-api/internal/domain/repository"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// notDeleted is merged into every filter so soft-deleted users stay
// invisible to reads and updates.
func notDeleted() bson.M {
	return bson.M{"isDeleted": bson.M{"$ne": true}}
}

func byUserID(userID int) bson.M {
	f := notDeleted()
	f["userId"] = userID
	return f
}

func (r *UserRepository) Exists(ctx context.Context, userID int) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, byUserID(userID), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) FindConflict(ctx context.Context, userID int, username, email string) (bool, error) {
	f := notDeleted()
	f["$or"] = bson.A{
		bson.M{"userId": userID},
		bson.M{"username": username},
		bson.M{"email": email},
	}
	n, err := r.coll.CountDocuments(ctx, f, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrConflict
	}
	return err
}

func (r *UserRepository) ListAll(ctx context.Context) ([]entity.User, error) {
	proj := bson.M{
		"_id":      0,
		"username": 1,
		"fullName": 1,
		"age":      1,
		"email":    1,
		"address":  1,
	}
	cur, err := r.coll.Find(ctx, notDeleted(), options.Find().SetProjection(proj))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var users []entity.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID int) (*entity.User, error) {
	proj := bson.M{
		"_id":      0,
		"userId":   1,
		"username": 1,
		"fullName": 1,
		"age":      1,
		"email":    1,
		"isActive": 1,
		"hobbies":  1,
		"address":  1,
	}
	u := &entity.User{}
	err := r.coll.FindOne(ctx, byUserID(userID), options.FindOne().SetProjection(proj)).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, userID int, patch repository.UserUpdate) (*entity.User, error) {
	set := bson.M{}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	if patch.FullName != nil {
		set["fullName"] = *patch.FullName
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	if patch.Hobbies != nil {
		set["hobbies"] = *patch.Hobbies
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.IsDeleted != nil {
		set["isDeleted"] = *patch.IsDeleted
	}
	if len(set) == 0 {
		// Nothing to patch; behave as a read.
		return r.GetByUserID(ctx, userID)
	}

	u := &entity.User{}
	err := r.coll.FindOneAndUpdate(ctx, byUserID(userID), bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, userID int) error {
	res, err := r.coll.UpdateOne(ctx, byUserID(userID), bson.M{"$set": bson.M{"isDeleted": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) AppendOrder(ctx context.Context, userID int, order entity.Order) (*entity.User, error) {
	u := &entity.User{}
	err := r.coll.FindOneAndUpdate(ctx, byUserID(userID), bson.M{"$push": bson.M{"orders": order}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) ListOrders(ctx context.Context, userID int) ([]entity.Order, error) {
	proj := bson.M{"_id": 0, "orders": 1}
	u := &entity.User{}
	err := r.coll.FindOne(ctx, byUserID(userID), options.FindOne().SetProjection(proj)).Decode(u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.Orders == nil {
		return []entity.Order{}, nil
	}
	return u.Orders, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
