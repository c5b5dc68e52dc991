// Package repository provides data persistence on top of MongoDB.
// Forms and users are stored as whole documents keyed by their
// application-level id fields, independent of Mongo's internal _id.
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

// ErrNotFound is returned when the requested document does not exist
// (or is not visible to the caller).
var ErrNotFound = errors.New("not found")

const formsCollection = "forms"

// FormRepository handles form document operations.
type FormRepository struct {
	forms  *mongo.Collection
	logger *logger.Logger
}

// InitFormRepository creates a FormRepository over the given database.
func InitFormRepository(db *mongo.Database, logger *logger.Logger) *FormRepository {
	return &FormRepository{
		forms:  db.Collection(formsCollection),
		logger: logger,
	}
}

// Create inserts a new form document.
func (repo *FormRepository) Create(ctx context.Context, form *entity.Form) error {
	if _, err := repo.forms.InsertOne(ctx, form); err != nil {
		repo.logger.Error("error create form",
			zap.String("form_id", form.ID),
			zap.Error(err))
		return err
	}

	return nil
}

// Get retrieves the form with the given id owned by ownerID.
func (repo *FormRepository) Get(ctx context.Context, id, ownerID string) (*entity.Form, error) {
	var form entity.Form

	err := repo.forms.FindOne(ctx, bson.M{"id": id, "owner_id": ownerID}).Decode(&form)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		repo.logger.Error("error get form",
			zap.String("form_id", id),
			zap.Error(err))
		return nil, err
	}

	return &form, nil
}

// List retrieves all forms owned by ownerID in creation order.
func (repo *FormRepository) List(ctx context.Context, ownerID string) ([]entity.Form, error) {
	cursor, err := repo.forms.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		repo.logger.Error("error list forms",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := []entity.Form{}
	if err := cursor.All(ctx, &forms); err != nil {
		repo.logger.Error("error decode forms",
			zap.String("owner_id", ownerID),
			zap.Error(err))
		return nil, err
	}

	return forms, nil
}

// Replace overwrites the document matching id and ownerID with form
// and returns the stored result.
func (repo *FormRepository) Replace(ctx context.Context, id, ownerID string, form *entity.Form) (*entity.Form, error) {
	res, err := repo.forms.ReplaceOne(ctx, bson.M{"id": id, "owner_id": ownerID}, form)
	if err != nil {
		repo.logger.Error("error update form",
			zap.String("form_id", id),
			zap.Error(err))
		return nil, err
	}

	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return form, nil
}

// Delete removes the form matching id and ownerID.
func (repo *FormRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := repo.forms.DeleteOne(ctx, bson.M{"id": id, "owner_id": ownerID})
	if err != nil {
		repo.logger.Error("error delete form",
			zap.String("form_id", id),
			zap.Error(err))
		return err
	}

	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByShareableLink retrieves a form by its public link regardless
// of owner. Status filtering is the caller's concern.
func (repo *FormRepository) GetByShareableLink(ctx context.Context, link string) (*entity.Form, error) {
	var form entity.Form

	err := repo.forms.FindOne(ctx, bson.M{"shareable_link": link}).Decode(&form)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		repo.logger.Error("error get form by link",
			zap.String("shareable_link", link),
			zap.Error(err))
		return nil, err
	}

	return &form, nil
}
