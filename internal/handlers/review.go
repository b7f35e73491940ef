package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/movie_catalog/internal/models"
	"github.com/Skotchmaster/movie_catalog/internal/mykafka"
)

type ReviewHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type ReviewInput struct {
	MovieID string  `json:"movieId"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

func (in *ReviewInput) validate() map[string]string {
	details := map[string]string{}
	if in.MovieID == "" {
		details["movieId"] = "movieId is required"
	}
	if in.Rating < 0 || in.Rating > 5 {
		details["rating"] = "rating must be between 0 and 5"
	}
	if in.Comment == "" {
		details["comment"] = "comment must not be empty"
	}
	return details
}

// reviewAuthor is the only slice of the user row reviews ever expose.
type reviewAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type reviewResponse struct {
	models.Review
	Author reviewAuthor `json:"user"`
}

func toReviewResponse(r models.Review) reviewResponse {
	return reviewResponse{
		Review: r,
		Author: reviewAuthor{ID: r.User.ID, Username: r.User.Username},
	}
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req ReviewInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}
	if details := req.validate(); len(details) > 0 {
		return validationError(c, details)
	}

	review := models.Review{
		Comment: req.Comment,
		Rating:  req.Rating,
		MovieID: req.MovieID,
		UserID:  callerID(c),
	}
	if err := h.DB.Create(&review).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if err := h.DB.Preload("User").First(&review, "id = ?", review.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	publishEvent(c, h.Producer, "review_events", review.ID, map[string]any{
		"type":     "review_created",
		"reviewID": review.ID,
		"movieID":  review.MovieID,
		"userID":   review.UserID,
	})

	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *ReviewHandler) GetMovieReviews(c echo.Context) error {
	var reviews []models.Review
	err := h.DB.Preload("User").
		Where("movie_id = ?", c.Param("movieId")).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	out := make([]reviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = toReviewResponse(r)
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteReview deletes only rows matching both id and caller. Zero rows
// affected answers 403 whether the review is missing or owned by someone
// else, so non-owners learn nothing about what exists.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id := c.Param("id")

	res := h.DB.Where("id = ? AND user_id = ?", id, callerID(c)).Delete(&models.Review{})
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Error)
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusForbidden, "review not found or you don't have permission")
	}

	publishEvent(c, h.Producer, "review_events", id, map[string]any{
		"type":     "review_deleted",
		"reviewID": id,
		"userID":   callerID(c),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "review deleted successfully"})
}
