package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/makuzaza/rss-ecomm-task/internal/cart"
	"github.com/makuzaza/rss-ecomm-task/internal/domain"
	"github.com/makuzaza/rss-ecomm-task/internal/platform"
	"github.com/makuzaza/rss-ecomm-task/internal/session"
)

// SessionController is the identity surface the handlers bind to.
type SessionController interface {
	State() session.State
	IsAuthenticated() bool
	CurrentCustomer() *domain.Customer
	Err() error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Register(ctx context.Context, in session.RegisterInput) error
	RefreshToken(ctx context.Context) error
	UpdateProfile(ctx context.Context, actions ...platform.CustomerAction) (*domain.Customer, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	Cart() *cart.Controller
	Client() *platform.Client
}

// Deps carries the wired dependencies for the router.
type Deps struct {
	Session SessionController
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps, allowedOrigins []string) (*gin.Engine, error) {
	if deps.Session == nil {
		return nil, errors.New("session controller required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", healthHandler)

	api := router.Group("/api")
	registerSessionRoutes(api, deps.Session)
	registerCartRoutes(api, deps.Session)
	registerCatalogRoutes(api, deps.Session)

	return router, nil
}
