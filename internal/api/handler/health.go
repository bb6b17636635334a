package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready — readiness probe. Checks the
// write store, read store, dedup store, and broker before declaring ready.
type ReadinessHandler struct {
	writeDB     *mongo.Database
	readDB      *mongo.Database
	redis       *redis.Client
	brokerAlive func() bool
}

func NewReadinessHandler(writeDB, readDB *mongo.Database, rdb *redis.Client, brokerAlive func() bool) *ReadinessHandler {
	return &ReadinessHandler{
		writeDB:     writeDB,
		readDB:      readDB,
		redis:       rdb,
		brokerAlive: brokerAlive,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.writeDB.Client().Ping(ctx, nil); err != nil {
		deps["mongodb_write"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb_write"] = dependencyStatus{Status: "ok"}
	}

	if err := h.readDB.Client().Ping(ctx, nil); err != nil {
		deps["mongodb_read"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["mongodb_read"] = dependencyStatus{Status: "ok"}
	}

	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	if h.brokerAlive != nil {
		if !h.brokerAlive() {
			deps["rabbitmq"] = dependencyStatus{Status: "unhealthy", Error: "connection closed"}
			healthy = false
		} else {
			deps["rabbitmq"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
