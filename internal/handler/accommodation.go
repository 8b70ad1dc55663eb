package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stayspot/accommodation-booking/internal/model"
	"github.com/stayspot/accommodation-booking/internal/repository"
)

// AccommodationHandler serves the public, read-only catalog.
type AccommodationHandler struct {
	Accommodations *repository.AccommodationRepo
}

func NewAccommodationHandler(a *repository.AccommodationRepo) *AccommodationHandler {
	return &AccommodationHandler{Accommodations: a}
}

type accommodationResp struct {
	ID           uint64 `json:"id"`
	Type         string `json:"type"`
	Location     string `json:"location"`
	Size         string `json:"size"`
	Amenities    string `json:"amenities"`
	DailyRate    string `json:"daily_rate"`
	Availability int    `json:"availability"`
}

func toAccommodationResp(a *model.Accommodation) accommodationResp {
	return accommodationResp{
		ID:           a.ID,
		Type:         a.Type,
		Location:     a.Location,
		Size:         a.Size,
		Amenities:    a.Amenities,
		DailyRate:    model.FormatCents(a.DailyRateCents),
		Availability: a.Availability,
	}
}

// List returns the whole catalog.
func (h *AccommodationHandler) List(c echo.Context) error {
	list, err := h.Accommodations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]accommodationResp, 0, len(list))
	for i := range list {
		out = append(out, toAccommodationResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"accommodations": out, "count": len(out)})
}

// GetByID returns a single catalog entry.
func (h *AccommodationHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid accommodation id"})
	}
	a, err := h.Accommodations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAccommodationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "accommodation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toAccommodationResp(a))
}
