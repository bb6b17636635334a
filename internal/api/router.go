package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/usuarios/users-service/internal/api/handler"
	"github.com/usuarios/users-service/internal/core/ports"
)

// RouterDeps carries everything the HTTP surface needs. The router wires
// routes only; all behavior lives in the services.
type RouterDeps struct {
	Commands    ports.CommandService
	Queries     ports.QueryService
	WriteDB     *mongo.Database
	ReadDB      *mongo.Database
	Redis       *redis.Client
	BrokerAlive func() bool
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("users_http"))

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.WriteDB, deps.ReadDB, deps.Redis, deps.BrokerAlive)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Users & roles ---
	users := handler.NewUserHandler(deps.Commands, deps.Queries)

	v1 := e.Group("/v1")
	v1.POST("/users", users.Create)
	v1.GET("/users", users.List)
	v1.GET("/users/by-email", users.GetByEmail)
	v1.PUT("/users/:id", users.Update)
	v1.PUT("/users/:id/role", users.UpdateRole)
	v1.GET("/users/:id/activity", users.Activity)
	v1.POST("/users/:id/activity", users.PublishActivity)

	v1.GET("/roles", users.ListRoles)
	v1.POST("/roles/:id/permissions", users.AddPermission)
	v1.GET("/roles/:id/permissions", users.RolePermissions)
	v1.DELETE("/roles/:id/permissions/:permission_id", users.RemovePermission)

	v1.GET("/permissions", users.ListPermissions)

	return e
}
