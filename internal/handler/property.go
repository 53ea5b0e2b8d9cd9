package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lightbnb/lightbnb/internal/middleware"
	"github.com/lightbnb/lightbnb/internal/queue"
	"github.com/lightbnb/lightbnb/internal/store"
)

// PropertyHandler serves the public property search and the
// authenticated listing-creation endpoint.
type PropertyHandler struct {
	Properties *store.PropertyStore
}

func NewPropertyHandler(p *store.PropertyStore) *PropertyHandler {
	return &PropertyHandler{Properties: p}
}

// Search handles GET /v1/properties. Query parameters: city,
// minimum_price_per_night, maximum_price_per_night (major units),
// minimum_rating, limit (default 10, max 100).
func (h *PropertyHandler) Search(c echo.Context) error {
	opts := store.SearchOptions{
		City: strings.TrimSpace(c.QueryParam("city")),
	}
	if v, ok := floatParam(c, "minimum_price_per_night"); ok {
		opts.MinPricePerNight = &v
	}
	if v, ok := floatParam(c, "maximum_price_per_night"); ok {
		opts.MaxPricePerNight = &v
	}
	if v, ok := floatParam(c, "minimum_rating"); ok {
		opts.MinRating = &v
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	items, err := h.Properties.Search(c.Request().Context(), opts, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "limit": limit})
}

// floatParam parses a float query parameter, reporting whether it was
// present and well-formed. Malformed values are treated as absent.
func floatParam(c echo.Context, name string) (float64, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

type createPropertyReq struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	ThumbnailPhotoURL string `json:"thumbnail_photo_url"`
	CoverPhotoURL     string `json:"cover_photo_url"`
	CostPerNight      int64  `json:"cost_per_night"` // minor units
	ParkingSpaces     int32  `json:"parking_spaces"`
	NumberOfBathrooms int32  `json:"number_of_bathrooms"`
	NumberOfBedrooms  int32  `json:"number_of_bedrooms"`
	Country           string `json:"country"`
	Street            string `json:"street"`
	City              string `json:"city"`
	Province          string `json:"province"`
	PostCode          string `json:"post_code"`
}

// Create handles POST /v1/properties. The owner is taken from the access
// token, never from the body.
func (h *PropertyHandler) Create(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req createPropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || req.CostPerNight <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and positive cost_per_night required"})
	}

	np := store.NewProperty{
		OwnerID:           uid,
		Title:             req.Title,
		Description:       req.Description,
		ThumbnailPhotoURL: req.ThumbnailPhotoURL,
		CoverPhotoURL:     req.CoverPhotoURL,
		CostPerNight:      req.CostPerNight,
		ParkingSpaces:     req.ParkingSpaces,
		NumberOfBathrooms: req.NumberOfBathrooms,
		NumberOfBedrooms:  req.NumberOfBedrooms,
		Country:           req.Country,
		Street:            req.Street,
		City:              req.City,
		Province:          req.Province,
		PostCode:          req.PostCode,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Properties.Create(ctx, np)
	if err != nil {
		if errors.Is(err, store.ErrNoColumns) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty property"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create property failed"})
	}

	// Best-effort notification; a broker outage must not fail the insert.
	ev := queue.PropertyListedEvent{
		PropertyID:        id,
		OwnerID:           uid,
		Title:             req.Title,
		City:              req.City,
		CostPerNightCents: req.CostPerNight,
		ListedAt:          time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		if err := queue.PublishPropertyListed(pubCtx, ev); err != nil {
			log.Printf("property.listed publish skipped: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
