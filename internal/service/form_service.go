// Package service implements the application's use cases on top of
// the repositories, the cache and the event publisher. It is the
// persistence gateway the editing core and the REST layer talk to.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/formforge/form-service/internal/entity"
	"github.com/formforge/form-service/internal/renderer"
	"github.com/formforge/form-service/internal/repository"
	"github.com/formforge/form-service/pkg/logger"
	"github.com/formforge/form-service/pkg/retrier"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is re-exported so callers do not depend on the
// repository package directly.
var ErrNotFound = repository.ErrNotFound

// FormService owns the form lifecycle: persistence, the published
// form cache and lifecycle events. Every operation runs under the
// configured timeout; failed calls are not retried (cache refills
// excepted).
type FormService struct {
	repo      FormRepository
	casher    Casher
	publisher Publisher
	logger    *logger.Logger
	timeout   time.Duration
}

func InitFormService(
	repo FormRepository,
	casher Casher,
	publisher Publisher,
	logger *logger.Logger,
	timeout time.Duration,
) *FormService {
	return &FormService{
		repo:      repo,
		casher:    casher,
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
	}
}

// CreateForm persists a new form. Missing defaults (status, settings,
// shareable link, timestamps) are filled in so the stored document is
// always complete; an already-minted shareable link is never
// replaced.
func (s *FormService) CreateForm(ctx context.Context, form *entity.Form) error {
	if form == nil {
		return errors.New("form cannot be nil")
	}

	now := time.Now().UTC()
	if form.ID == "" {
		form.ID = uuid.New().String()
	}
	if form.Status == "" {
		form.Status = entity.StatusDraft
	}
	if form.Settings == (entity.FormSettings{}) {
		form.Settings = entity.DefaultSettings()
	}
	if form.Elements == nil {
		form.Elements = []entity.Element{}
	}
	if form.ShareableLink == "" {
		form.ShareableLink = entity.NewShareableLink(form.ID)
	}
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}
	form.UpdatedAt = now

	if form.Status == entity.StatusPublished {
		if err := renderer.ValidateForPublish(form); err != nil {
			return err
		}
	}

	if err := form.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Create(ctx, form); err != nil {
		return fmt.Errorf("failed to create form in repository: %w", err)
	}

	if err := s.publisher.Publish(form, entity.EventFormCreated); err != nil {
		s.logger.Error("error publish event",
			zap.String("form_id", form.ID),
			zap.Error(err))
	}

	if form.Status == entity.StatusPublished {
		s.cachePublished(ctx, form)
	}

	return nil
}

// ListForms returns all forms owned by ownerID.
func (s *FormService) ListForms(ctx context.Context, ownerID string) ([]entity.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.repo.List(ctx, ownerID)
}

// GetForm returns the form with the given id if owned by ownerID.
func (s *FormService) GetForm(ctx context.Context, id, ownerID string) (*entity.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.repo.Get(ctx, id, ownerID)
}

// UpdateForm replaces the stored document with form. Identity fields
// (shareable link, owner, creation time) are carried over from the
// stored document; a draft→published transition is validated and
// emits a publish event; the public cache follows the status.
func (s *FormService) UpdateForm(ctx context.Context, form *entity.Form) (*entity.Form, error) {
	if form == nil {
		return nil, errors.New("form cannot be nil")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.repo.Get(ctx, form.ID, form.OwnerID)
	if err != nil {
		return nil, err
	}

	form.ShareableLink = existing.ShareableLink
	form.CreatedAt = existing.CreatedAt
	form.UpdatedAt = time.Now().UTC()
	if form.Elements == nil {
		form.Elements = []entity.Element{}
	}

	if form.Status == "" {
		form.Status = existing.Status
	}
	published := existing.Status != entity.StatusPublished &&
		form.Status == entity.StatusPublished

	if form.Status == entity.StatusPublished {
		if err := renderer.ValidateForPublish(form); err != nil {
			return nil, err
		}
	}

	if err := form.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.repo.Replace(ctx, form.ID, form.OwnerID, form)
	if err != nil {
		return nil, fmt.Errorf("failed to update form in repository: %w", err)
	}

	event := entity.EventFormUpdated
	if published {
		event = entity.EventFormPublished
	}
	if err := s.publisher.Publish(saved, event); err != nil {
		s.logger.Error("error publish event",
			zap.String("form_id", saved.ID),
			zap.Error(err))
	}

	if saved.Status == entity.StatusPublished {
		s.cachePublished(ctx, saved)
	} else if existing.Status == entity.StatusPublished {
		// Unpublished: the public link must stop resolving.
		if err := s.casher.RemoveFromCash(ctx, saved.ShareableLink); err != nil {
			s.logger.Error("error invalidate cache",
				zap.String("shareable_link", saved.ShareableLink),
				zap.Error(err))
		}
	}

	return saved, nil
}

// DeleteForm removes the form matching id and ownerID, drops it from
// the public cache and emits a deletion event.
func (s *FormService) DeleteForm(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete form from repository: %w", err)
	}

	if err := s.casher.RemoveFromCash(ctx, existing.ShareableLink); err != nil {
		s.logger.Error("error invalidate cache",
			zap.String("shareable_link", existing.ShareableLink),
			zap.Error(err))
	}

	payload := struct {
		FormID string `json:"form_id"`
	}{FormID: id}

	if err := s.publisher.Publish(payload, entity.EventFormDeleted); err != nil {
		s.logger.Error("error publish event",
			zap.String("form_id", id),
			zap.Error(err))
	}

	return nil
}

// GetPublicForm resolves a shareable link to its form, but only while
// the form is published; drafts resolve to ErrNotFound. Cache hits
// skip the repository.
func (s *FormService) GetPublicForm(ctx context.Context, link string) (*entity.Form, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if cached, err := s.casher.GetCashFor(ctx, link); err == nil {
		var form entity.Form
		if err := json.Unmarshal(cached, &form); err == nil &&
			form.Status == entity.StatusPublished {
			return &form, nil
		}
	}

	form, err := s.repo.GetByShareableLink(ctx, link)
	if err != nil {
		return nil, err
	}

	if form.Status != entity.StatusPublished {
		return nil, ErrNotFound
	}

	s.cachePublished(ctx, form)

	return form, nil
}

// cachePublished stores a published form in the cache under its
// shareable link, retrying transient failures. A form that cannot be
// cached is still served from the repository, so failures are only
// logged.
func (s *FormService) cachePublished(ctx context.Context, form *entity.Form) {
	payload, err := json.Marshal(form)
	if err != nil {
		s.logger.Error("error encode form for cache",
			zap.String("form_id", form.ID),
			zap.Error(err))
		return
	}

	cherr := make(chan error, 1)

	go func() {
		cherr <- retrier.Do(3, 1, func() error {
			return s.casher.AddToCash(ctx, form.ShareableLink, payload)
		})
	}()

	if err := <-cherr; err != nil {
		s.logger.Error("error cache published form",
			zap.String("form_id", form.ID),
			zap.Error(err))
	}
}
