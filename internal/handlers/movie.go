package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/movie_catalog/internal/logging"
	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/Skotchmaster/movie_catalog/internal/mykafka"
	"github.com/Skotchmaster/movie_catalog/internal/util"
)

type MovieHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

type MovieInput struct {
	MovieID       string  `json:"movieId"`
	Title         string  `json:"title"`
	PosterPath    string  `json:"poster_path"`
	Genres        string  `json:"genres"`
	Tagline       string  `json:"tagline"`
	Director      string  `json:"director"`
	OriginalTitle string  `json:"original_title"`
	Rating        float64 `json:"rating"`
	Runtime       int     `json:"runtime"`
	TorrentLink   string  `json:"torrent_link"`
	Overview      string  `json:"overview"`
	Year          int     `json:"year"`
	// Ignored on purpose: ownership always comes from the token.
	UserID string `json:"userId"`
}

func (in *MovieInput) validate() map[string]string {
	details := map[string]string{}
	if in.MovieID == "" {
		details["movieId"] = "movieId is required"
	}
	if in.Title == "" {
		details["title"] = "title is required"
	}
	if in.Rating < 0 || in.Rating > 10 {
		details["rating"] = "rating must be between 0 and 10"
	}
	if in.Runtime < 1 {
		details["runtime"] = "runtime must be at least 1"
	}
	if year := time.Now().Year(); in.Year < 1900 || in.Year > year {
		details["year"] = fmt.Sprintf("year must be between 1900 and %d", year)
	}
	return details
}

func (h *MovieHandler) GetMovies(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Movie{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	var items []models.Movie
	if err := h.DB.Model(&models.Movie{}).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *MovieHandler) GetMovie(c echo.Context) error {
	var movie models.Movie
	if err := h.DB.Where("movie_id = ?", c.Param("id")).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, movie)
}

// GetMyMovies lists the caller's movies. The owner id is taken from the
// verified token, never from a request parameter.
func (h *MovieHandler) GetMyMovies(c echo.Context) error {
	var movies []models.Movie
	if err := h.DB.Where("user_id = ?", callerID(c)).Find(&movies).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var req MovieInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if details := req.validate(); len(details) > 0 {
		return validationError(c, details)
	}

	var existing models.Movie
	err := h.DB.Where("movie_id = ?", req.MovieID).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "movie already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	movie := models.Movie{
		MovieID:       req.MovieID,
		Title:         req.Title,
		PosterPath:    req.PosterPath,
		Genres:        req.Genres,
		Tagline:       req.Tagline,
		Director:      req.Director,
		OriginalTitle: req.OriginalTitle,
		Rating:        req.Rating,
		Runtime:       req.Runtime,
		TorrentLink:   req.TorrentLink,
		Overview:      req.Overview,
		Year:          req.Year,
		UserID:        callerID(c),
	}
	if err := h.DB.Create(&movie).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	publishEvent(c, h.Producer, "movie_events", movie.MovieID, map[string]any{
		"type":    "movie_created",
		"movieID": movie.MovieID,
		"title":   movie.Title,
		"userID":  movie.UserID,
	})
	h.indexMovie(c, &movie)

	return c.JSON(http.StatusCreated, movie)
}

// DeleteMovie intentionally checks no ownership: which callers may drop a
// catalog entry is still an open product decision. Authentication is
// required either way.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	movieID := c.Param("movieId")

	var movie models.Movie
	if err := h.DB.Where("movie_id = ?", movieID).First(&movie).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	if err := h.DB.Delete(&movie).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	publishEvent(c, h.Producer, "movie_events", movie.MovieID, map[string]any{
		"type":    "movie_deleted",
		"movieID": movie.MovieID,
		"userID":  callerID(c),
	})
	h.deindexMovie(c, movie.MovieID)

	return c.JSON(http.StatusOK, movie)
}

func (h *MovieHandler) indexMovie(c echo.Context, movie *models.Movie) {
	if h.ES == nil {
		return
	}
	l := logging.FromContext(c.Request().Context())

	data, err := json.Marshal(movie)
	if err != nil {
		l.Error("es index error", "movieID", movie.MovieID, "error", err)
		return
	}

	res, err := h.ES.Index(
		h.Index,
		bytes.NewReader(data),
		h.ES.Index.WithDocumentID(movie.MovieID),
		h.ES.Index.WithContext(c.Request().Context()),
	)
	if err != nil {
		l.Error("es index error", "movieID", movie.MovieID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		l.Error("es index error", "movieID", movie.MovieID, "status", res.Status())
	}
}

func (h *MovieHandler) deindexMovie(c echo.Context, movieID string) {
	if h.ES == nil {
		return
	}
	l := logging.FromContext(c.Request().Context())

	res, err := h.ES.Delete(
		h.Index,
		movieID,
		h.ES.Delete.WithContext(c.Request().Context()),
	)
	if err != nil {
		l.Error("es delete error", "movieID", movieID, "error", err)
		return
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		l.Error("es delete error", "movieID", movieID, "status", res.Status())
	}
}
