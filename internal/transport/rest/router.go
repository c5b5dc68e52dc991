// Package rest exposes the HTTP API: token-authenticated form CRUD,
// signup/login and anonymous access to published forms.
package rest

import (
	"context"

	"github.com/formforge/form-service/internal/entity"
	"github.com/formforge/form-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type (
	// FormsService is what the handlers require from the form layer.
	FormsService interface {
		CreateForm(ctx context.Context, form *entity.Form) error
		ListForms(ctx context.Context, ownerID string) ([]entity.Form, error)
		GetForm(ctx context.Context, id, ownerID string) (*entity.Form, error)
		UpdateForm(ctx context.Context, form *entity.Form) (*entity.Form, error)
		DeleteForm(ctx context.Context, id, ownerID string) error
		GetPublicForm(ctx context.Context, link string) (*entity.Form, error)
	}

	// AccountsService is what the handlers require from the auth layer.
	AccountsService interface {
		Signup(ctx context.Context, email, password string) (string, *entity.User, error)
		Login(ctx context.Context, email, password string) (string, *entity.User, error)
	}

	// TokenVerifier checks bearer tokens and yields the user id they
	// were issued to.
	TokenVerifier interface {
		Verify(token string) (string, error)
	}

	Handler struct {
		forms    FormsService
		accounts AccountsService
		logger   *logger.Logger
	}
)

func InitHandler(forms FormsService, accounts AccountsService, logger *logger.Logger) *Handler {
	return &Handler{
		forms:    forms,
		accounts: accounts,
		logger:   logger,
	}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler, verifier TokenVerifier, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), CORS())

	api := router.Group("/api")
	{
		api.GET("/test", h.Test)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Signup)
			auth.POST("/login", h.Login)
		}

		api.GET("/public/forms/:shareableLink", h.GetPublicForm)

		forms := api.Group("/forms", Authenticate(verifier))
		{
			forms.POST("", h.CreateForm)
			forms.GET("", h.ListForms)
			forms.GET("/:id", h.GetForm)
			forms.PUT("/:id", h.UpdateForm)
			forms.DELETE("/:id", h.DeleteForm)
		}
	}

	return router
}
