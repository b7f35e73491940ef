package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/movie_catalog/internal/handlers"
	authmw "github.com/Skotchmaster/movie_catalog/internal/middleware/auth"
)

type Deps struct {
	DB            *gorm.DB
	JWTSecret     []byte
	AuthHandler   *handlers.AuthHandler
	MovieHandler  *handlers.MovieHandler
	ReviewHandler *handlers.ReviewHandler
	SearchHandler *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(204) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(204) })

	requireLogin := authmw.RequireLogin(d.JWTSecret)

	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)
	users.GET("/me", d.AuthHandler.Me, requireLogin)
	users.DELETE("/:id", d.AuthHandler.DeleteUser, requireLogin)

	movies := api.Group("/movies")
	movies.GET("", d.MovieHandler.GetMovies)
	movies.GET("/me", d.MovieHandler.GetMyMovies, requireLogin)
	movies.GET("/:id", d.MovieHandler.GetMovie)
	movies.POST("", d.MovieHandler.CreateMovie, requireLogin)
	movies.DELETE("/:movieId", d.MovieHandler.DeleteMovie, requireLogin)

	reviews := api.Group("/reviews")
	reviews.POST("", d.ReviewHandler.CreateReview, requireLogin)
	reviews.GET("/movie/:movieId", d.ReviewHandler.GetMovieReviews)
	reviews.DELETE("/:id", d.ReviewHandler.DeleteReview, requireLogin)

	api.GET("/search", d.SearchHandler.Search)
}
