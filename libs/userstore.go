package libs

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mrjawadhere/Hackthon-Smit/database"
	"github.com/mrjawadhere/Hackthon-Smit/model"
)

var ErrNotFound = fmt.Errorf("not found")

// UserStore owns the signup collection. It is constructed once in main and
// shared by the handlers; there is no package-level client.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(database.UsersCollection)}
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user model.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserStore) Insert(ctx context.Context, user *model.User) (bson.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	user.ID = bson.NewObjectID()
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		return bson.ObjectID{}, fmt.Errorf("insert user: %w", err)
	}
	return user.ID, nil
}

// UpdatePassword replaces the stored hash for the user with the given email.
func (s *UserStore) UpdatePassword(ctx context.Context, email, hashed string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"password": hashed}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
