package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/movie_catalog/internal/logging"
	authmw "github.com/Skotchmaster/movie_catalog/internal/middleware/auth"
	"github.com/Skotchmaster/movie_catalog/internal/mykafka"
)

// callerID returns the authenticated user's id injected by the auth
// middleware. Empty means the route was wired without RequireLogin.
func callerID(c echo.Context) string {
	id, _ := c.Get(authmw.CtxUserID).(string)
	return id
}

func validationError(c echo.Context, details map[string]string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error":   "invalid input data",
		"details": details,
	})
}

// publishEvent is best-effort: a dead broker must not fail the request
// that already committed to the database.
func publishEvent(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
