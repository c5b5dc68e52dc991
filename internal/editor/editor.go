// Package editor owns the form-editing session state: the currently
// open form, the owner's form list and workspaces. All mutation
// operations are synchronous and in-memory; the persistence gateway
// is only reached on explicit save, publish, load and delete. The
// editor is built for a single session control flow and takes no
// locks of its own.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/formforge/form-service/internal/entity"
	"github.com/formforge/form-service/internal/renderer"
	"github.com/formforge/form-service/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrNoOpenForm        = errors.New("no form is open")
	ErrFormNotFound      = errors.New("form not found")
	ErrElementNotFound   = errors.New("element not found")
	ErrDuplicateElement  = errors.New("element id already present in form")
	ErrIndexOutOfRange   = errors.New("reorder index out of range")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

type (
	// Gateway is what the editor requires from the persistence layer.
	// Calls are awaited; the editor never retries a failed call.
	Gateway interface {
		CreateForm(ctx context.Context, form *entity.Form) error
		UpdateForm(ctx context.Context, form *entity.Form) (*entity.Form, error)
		DeleteForm(ctx context.Context, id, ownerID string) error
		ListForms(ctx context.Context, ownerID string) ([]entity.Form, error)
	}

	// Editor is an explicit per-session state container. Construct one
	// per session and pass it by reference; there is no ambient
	// singleton.
	Editor struct {
		gateway Gateway
		logger  *logger.Logger
		ownerID string
		timeout time.Duration

		currentForm      *entity.Form
		forms            []*entity.Form
		workspaces       []entity.Workspace
		currentWorkspace string
		// persisted tracks which form ids the gateway already knows,
		// so Save can pick create vs update.
		persisted map[string]bool
	}
)

// Init creates an editing session for ownerID. The timeout bounds
// every gateway call.
func Init(gateway Gateway, logger *logger.Logger, ownerID string, timeout time.Duration) *Editor {
	defaultWs := entity.NewWorkspace("My workspace")

	return &Editor{
		gateway:          gateway,
		logger:           logger,
		ownerID:          ownerID,
		timeout:          timeout,
		workspaces:       []entity.Workspace{defaultWs},
		currentWorkspace: defaultWs.ID,
		persisted:        make(map[string]bool),
	}
}

// InitForUser creates an editing session seeded with the user's
// embedded workspaces instead of the default one.
func InitForUser(gateway Gateway, logger *logger.Logger, user *entity.User, timeout time.Duration) *Editor {
	e := Init(gateway, logger, user.ID, timeout)

	if len(user.Workspaces) > 0 {
		e.workspaces = append([]entity.Workspace(nil), user.Workspaces...)
		e.currentWorkspace = user.Workspaces[0].ID
	}

	return e
}

// Load replaces the session's form list with the owner's persisted
// forms. The currently open form is kept only if it is still present.
func (e *Editor) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	forms, err := e.gateway.ListForms(ctx, e.ownerID)
	if err != nil {
		return fmt.Errorf("failed to load forms: %w", err)
	}

	e.forms = make([]*entity.Form, len(forms))
	e.persisted = make(map[string]bool, len(forms))

	stillOpen := false
	for i := range forms {
		form := forms[i]
		e.forms[i] = &form
		e.persisted[form.ID] = true

		if e.currentForm != nil && form.ID == e.currentForm.ID {
			e.currentForm = e.forms[i]
			stillOpen = true
		}
	}

	if !stillOpen {
		e.currentForm = nil
	}

	return nil
}

// CurrentForm returns the open form, or nil if none is open.
func (e *Editor) CurrentForm() *entity.Form { return e.currentForm }

// Forms returns the session's form list in creation order.
func (e *Editor) Forms() []*entity.Form { return e.forms }

func (e *Editor) Workspaces() []entity.Workspace { return e.workspaces }

func (e *Editor) CurrentWorkspace() string { return e.currentWorkspace }

// CreateForm generates a fresh draft form in the given workspace,
// appends it to the form list and opens it.
func (e *Editor) CreateForm(workspaceID string) *entity.Form {
	form := entity.NewForm(e.ownerID, workspaceID)

	e.forms = append(e.forms, form)
	e.currentForm = form

	return form
}

// OpenForm makes the form with the given id the current one.
func (e *Editor) OpenForm(id string) error {
	form := e.findForm(id)
	if form == nil {
		return ErrFormNotFound
	}

	e.currentForm = form
	return nil
}

// AddElement appends element to the open form's element list.
func (e *Editor) AddElement(element entity.Element) error {
	if e.currentForm == nil {
		return ErrNoOpenForm
	}

	if err := element.Validate(); err != nil {
		return err
	}

	for i := range e.currentForm.Elements {
		if e.currentForm.Elements[i].ID == element.ID {
			return ErrDuplicateElement
		}
	}

	e.currentForm.Elements = append(e.currentForm.Elements, element)
	return nil
}

// ElementUpdate is a partial element mutation; nil fields are left
// untouched. Settings entries are merged key by key.
type ElementUpdate struct {
	Question    *string
	Description *string
	Required    *bool
	Options     *[]string
	Settings    map[string]any
}

// UpdateElement merges updates into the element matching id within
// the open form. All other elements are untouched. An unmatched id is
// an error, not a silent no-op.
func (e *Editor) UpdateElement(id string, updates ElementUpdate) error {
	if e.currentForm == nil {
		return ErrNoOpenForm
	}

	el := e.findElement(id)
	if el == nil {
		return ErrElementNotFound
	}

	if updates.Question != nil {
		el.Question = *updates.Question
	}
	if updates.Description != nil {
		el.Description = *updates.Description
	}
	if updates.Required != nil {
		el.Required = *updates.Required
	}
	if updates.Options != nil {
		el.Options = append([]string(nil), (*updates.Options)...)
	}
	if len(updates.Settings) > 0 {
		if el.Settings == nil {
			el.Settings = make(map[string]any, len(updates.Settings))
		}
		for k, v := range updates.Settings {
			el.Settings[k] = v
		}
	}

	return nil
}

// DeleteElement removes the element matching id, preserving the order
// of the remaining elements.
func (e *Editor) DeleteElement(id string) error {
	if e.currentForm == nil {
		return ErrNoOpenForm
	}

	elements := e.currentForm.Elements
	for i := range elements {
		if elements[i].ID == id {
			e.currentForm.Elements = append(elements[:i], elements[i+1:]...)
			return nil
		}
	}

	return ErrElementNotFound
}

// ReorderElements removes the element at fromIndex and reinserts it
// at toIndex; the rest shift accordingly. Out-of-range indices are
// rejected rather than clamped.
func (e *Editor) ReorderElements(fromIndex, toIndex int) error {
	if e.currentForm == nil {
		return ErrNoOpenForm
	}

	n := len(e.currentForm.Elements)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return ErrIndexOutOfRange
	}

	elements := e.currentForm.Elements
	moved := elements[fromIndex]
	elements = append(elements[:fromIndex], elements[fromIndex+1:]...)

	elements = append(elements, entity.Element{})
	copy(elements[toIndex+1:], elements[toIndex:])
	elements[toIndex] = moved

	e.currentForm.Elements = elements
	return nil
}

// UpdateForm replaces the open form wholesale and updates the
// matching entry in the form list. Identity fields (id, owner,
// shareable link, creation time) are carried over from the existing
// entry so the replacement cannot violate their immutability.
func (e *Editor) UpdateForm(form *entity.Form) error {
	existing := e.findForm(form.ID)
	if existing == nil {
		return ErrFormNotFound
	}

	form.OwnerID = existing.OwnerID
	form.ShareableLink = existing.ShareableLink
	form.CreatedAt = existing.CreatedAt

	*existing = *form
	e.currentForm = existing

	return nil
}

// DeleteForm removes the form locally, then awaits the gateway
// delete. The local removal is optimistic and not rolled back on a
// gateway failure.
func (e *Editor) DeleteForm(ctx context.Context, id string) error {
	idx := -1
	for i, form := range e.forms {
		if form.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrFormNotFound
	}

	e.forms = append(e.forms[:idx], e.forms[idx+1:]...)
	if e.currentForm != nil && e.currentForm.ID == id {
		e.currentForm = nil
	}

	if !e.persisted[id] {
		return nil
	}
	delete(e.persisted, id)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.gateway.DeleteForm(ctx, id, e.ownerID); err != nil {
		e.logger.Error("error delete form",
			zap.String("form_id", id),
			zap.Error(err))
		return fmt.Errorf("failed to delete form: %w", err)
	}

	return nil
}

// DuplicateForm appends a draft copy of the form matching id to the
// form list and returns it. The copy is local until saved.
func (e *Editor) DuplicateForm(id string) (*entity.Form, error) {
	original := e.findForm(id)
	if original == nil {
		return nil, ErrFormNotFound
	}

	dup := original.Duplicate()
	e.forms = append(e.forms, dup)

	return dup, nil
}

// RenameForm sets a new title on the form matching id.
func (e *Editor) RenameForm(id, title string) error {
	form := e.findForm(id)
	if form == nil {
		return ErrFormNotFound
	}

	form.Title = title
	return nil
}

// AddWorkspace appends a named workspace and returns it.
func (e *Editor) AddWorkspace(name string) entity.Workspace {
	ws := entity.NewWorkspace(name)
	e.workspaces = append(e.workspaces, ws)

	return ws
}

// SetCurrentWorkspace switches the workspace pointer.
func (e *Editor) SetCurrentWorkspace(id string) error {
	for _, ws := range e.workspaces {
		if ws.ID == id {
			e.currentWorkspace = id
			return nil
		}
	}

	return ErrWorkspaceNotFound
}

// RemoveWorkspace drops the workspace label. Forms referencing it are
// left in place; the current-workspace pointer is cleared if it
// pointed there.
func (e *Editor) RemoveWorkspace(id string) error {
	for i, ws := range e.workspaces {
		if ws.ID == id {
			e.workspaces = append(e.workspaces[:i], e.workspaces[i+1:]...)
			if e.currentWorkspace == id {
				e.currentWorkspace = ""
			}
			return nil
		}
	}

	return ErrWorkspaceNotFound
}

// Save upserts the open form through the gateway. The call is
// awaited; a failure leaves local state as it was.
func (e *Editor) Save(ctx context.Context) error {
	if e.currentForm == nil {
		return ErrNoOpenForm
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if !e.persisted[e.currentForm.ID] {
		if err := e.gateway.CreateForm(ctx, e.currentForm); err != nil {
			return fmt.Errorf("failed to save form: %w", err)
		}
		e.persisted[e.currentForm.ID] = true

		return nil
	}

	saved, err := e.gateway.UpdateForm(ctx, e.currentForm)
	if err != nil {
		return fmt.Errorf("failed to save form: %w", err)
	}

	// The gateway is authoritative over identity fields.
	*e.currentForm = *saved

	return nil
}

// Publish validates the open form's required elements, marks it
// published and saves it. The published status is only kept once the
// gateway call succeeds.
func (e *Editor) Publish(ctx context.Context) error {
	if e.currentForm == nil {
		return ErrNoOpenForm
	}

	if err := renderer.ValidateForPublish(e.currentForm); err != nil {
		return err
	}

	previous := e.currentForm.Status
	e.currentForm.Status = entity.StatusPublished

	if err := e.Save(ctx); err != nil {
		e.currentForm.Status = previous
		return err
	}

	e.logger.Info("form published",
		zap.String("form_id", e.currentForm.ID),
		zap.String("shareable_link", e.currentForm.ShareableLink))

	return nil
}

func (e *Editor) findForm(id string) *entity.Form {
	for _, form := range e.forms {
		if form.ID == id {
			return form
		}
	}
	return nil
}

func (e *Editor) findElement(id string) *entity.Element {
	for i := range e.currentForm.Elements {
		if e.currentForm.Elements[i].ID == id {
			return &e.currentForm.Elements[i]
		}
	}
	return nil
}
