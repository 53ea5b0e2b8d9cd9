package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lightbnb/lightbnb/internal/middleware"
	"github.com/lightbnb/lightbnb/internal/store"
)

// ReservationHandler serves the authenticated guest's reservation listing.
type ReservationHandler struct {
	Reservations *store.ReservationStore
}

func NewReservationHandler(r *store.ReservationStore) *ReservationHandler {
	return &ReservationHandler{Reservations: r}
}

// List handles GET /v1/reservations for the authenticated guest, ordered
// by start date. The optional `limit` query parameter defaults to 10.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Reservations.ListForGuest(ctx, uid, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database_error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "limit": limit})
}
