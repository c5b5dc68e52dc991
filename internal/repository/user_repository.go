package repository

import (
	"context"
	"errors"

	"github.com/formforge/form-service/internal/entity"
	"github.com/formforge/form-service/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const usersCollection = "users"

// UserRepository handles user document operations.
type UserRepository struct {
	users  *mongo.Collection
	logger *logger.Logger
}

func InitUserRepository(db *mongo.Database, logger *logger.Logger) *UserRepository {
	return &UserRepository{
		users:  db.Collection(usersCollection),
		logger: logger,
	}
}

// Create inserts a new user document.
func (repo *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if _, err := repo.users.InsertOne(ctx, user); err != nil {
		repo.logger.Error("error create user",
			zap.String("user_id", user.ID),
			zap.Error(err))
		return err
	}

	return nil
}

// GetByEmail retrieves a user by email, ErrNotFound if absent.
func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User

	err := repo.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		repo.logger.Error("error get user by email", zap.Error(err))
		return nil, err
	}

	return &user, nil
}

// GetByID retrieves a user by id, ErrNotFound if absent.
func (repo *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User

	err := repo.users.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		repo.logger.Error("error get user",
			zap.String("user_id", id),
			zap.Error(err))
		return nil, err
	}

	return &user, nil
}
