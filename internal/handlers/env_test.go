package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/movie_catalog/internal/handlers"
	"github.com/Skotchmaster/movie_catalog/internal/models"
	httpserver "github.com/Skotchmaster/movie_catalog/internal/transport/http"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Secret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	// A named shared-cache memory DB so every pooled connection sees the
	// same tables.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Movie{}, &models.Review{}))

	secret := []byte("test_secret")

	e := echo.New()
	deps := httpserver.Deps{
		DB:            db,
		JWTSecret:     secret,
		AuthHandler:   &handlers.AuthHandler{DB: db, JWTSecret: secret},
		MovieHandler:  &handlers.MovieHandler{DB: db, Index: "movie"},
		ReviewHandler: &handlers.ReviewHandler{DB: db},
		SearchHandler: &handlers.SearchHandler{Index: "movie"},
	}
	httpserver.Register(e, &deps)

	return &testEnv{T: t, E: e, DB: db, Secret: secret}
}

func (env *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) register(username, email, password string) models.User {
	rec := env.do(http.MethodPost, "/api/users/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func (env *testEnv) login(email, password string) string {
	rec := env.do(http.MethodPost, "/api/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.Token)
	return resp.Token
}

func movieBody(movieID, title string) map[string]interface{} {
	return map[string]interface{}{
		"movieId":        movieID,
		"title":          title,
		"poster_path":    "/poster.jpg",
		"genres":         "Drama",
		"tagline":        "a tagline",
		"director":       "Some Director",
		"original_title": title,
		"rating":         7.5,
		"runtime":        100,
		"torrent_link":   "magnet:?xt=urn:btih:abc",
		"overview":       "an overview",
		"year":           2020,
	}
}
