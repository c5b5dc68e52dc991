package rest

import (
	"errors"
	"net/http"

	"github.com/formforge/form-service/internal/entity"
	"github.com/formforge/form-service/internal/renderer"
	"github.com/formforge/form-service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Test is the liveness probe route.
func (h *Handler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Server is running properly"})
}

func (h *Handler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token, user, err := h.accounts.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		default:
			h.serverError(c, "signup failed", err)
		}
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		h.serverError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) CreateForm(c *gin.Context) {
	var form entity.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	form.OwnerID = currentUserID(c)

	if err := h.forms.CreateForm(c.Request.Context(), &form); err != nil {
		h.formError(c, "error creating form", err)
		return
	}

	c.JSON(http.StatusCreated, &form)
}

func (h *Handler) ListForms(c *gin.Context) {
	forms, err := h.forms.ListForms(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.serverError(c, "error fetching forms", err)
		return
	}

	c.JSON(http.StatusOK, forms)
}

func (h *Handler) GetForm(c *gin.Context) {
	form, err := h.forms.GetForm(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		h.formError(c, "error fetching form", err)
		return
	}

	c.JSON(http.StatusOK, form)
}

func (h *Handler) UpdateForm(c *gin.Context) {
	var form entity.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	form.ID = c.Param("id")
	form.OwnerID = currentUserID(c)

	saved, err := h.forms.UpdateForm(c.Request.Context(), &form)
	if err != nil {
		h.formError(c, "error updating form", err)
		return
	}

	c.JSON(http.StatusOK, saved)
}

func (h *Handler) DeleteForm(c *gin.Context) {
	err := h.forms.DeleteForm(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		h.formError(c, "error deleting form", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Form deleted successfully"})
}

func (h *Handler) GetPublicForm(c *gin.Context) {
	form, err := h.forms.GetPublicForm(c.Request.Context(), c.Param("shareableLink"))
	if err != nil {
		h.formError(c, "error fetching public form", err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// formError maps a form-layer failure onto the error taxonomy:
// not-found (or not owned) → 404, publish validation → 400 with the
// offending element ids, anything else → 500.
func (h *Handler) formError(c *gin.Context, msg string, err error) {
	var pubErr *renderer.PublishError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Form not found"})
	case errors.As(err, &pubErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"message":  "Please fill in all required questions before publishing",
			"elements": pubErr.ElementIDs,
		})
	default:
		h.serverError(c, msg, err)
	}
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg,
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))

	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
