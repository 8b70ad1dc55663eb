package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stayspot/accommodation-booking/internal/middleware"
	"github.com/stayspot/accommodation-booking/internal/model"
	"github.com/stayspot/accommodation-booking/internal/service"
)

const dateLayout = "2006-01-02"

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(b *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

// ----- DTOs -----

type createBookingReq struct {
	AccommodationID uint64 `json:"accommodation_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
}

type updateBookingReq struct {
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Status   *string `json:"status"`
}

type bookingResp struct {
	ID              uint64 `json:"id"`
	AccommodationID uint64 `json:"accommodation_id"`
	UserID          uint64 `json:"user_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Status          string `json:"status"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:              b.ID,
		AccommodationID: b.AccommodationID,
		UserID:          b.UserID,
		CheckIn:         b.CheckIn.Format(dateLayout),
		CheckOut:        b.CheckOut.Format(dateLayout),
		Status:          string(b.Status),
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

// Create books an accommodation for a date range.  The booking starts
// out PENDING until its payment settles.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AccommodationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "accommodation_id required"})
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
	}

	booking, err := h.Bookings.Create(c.Request().Context(), req.AccommodationID, checkIn, checkOut, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(booking))
}

// Update patches dates and/or status of an existing booking.
func (h *BookingHandler) Update(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var patch service.BookingPatch
	if req.CheckIn != nil {
		d, err := parseDate(*req.CheckIn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
		}
		patch.CheckIn = &d
	}
	if req.CheckOut != nil {
		d, err := parseDate(*req.CheckOut)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
		}
		patch.CheckOut = &d
	}
	patch.Status = req.Status

	booking, err := h.Bookings.Update(c.Request().Context(), id, patch, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}

// Delete removes a booking outright.  Manager only; customers cancel
// through the status update path instead.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Bookings.Delete(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetByID returns one booking.  Customers can only read their own.
func (h *BookingHandler) GetByID(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.Bookings.GetByID(c.Request().Context(), id, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}

// ListMine returns the authenticated user's bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Bookings.ListMine(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err)
	}
	return h.listResponse(c, list)
}

// ListByUserAndStatus lets managers inspect any user's bookings
// filtered by status: GET /v1/bookings?user_id=..&status=..
func (h *BookingHandler) ListByUserAndStatus(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	status := strings.TrimSpace(c.QueryParam("status"))
	if status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	list, err := h.Bookings.ListByUserAndStatus(c.Request().Context(), userID, status)
	if err != nil {
		return serviceError(c, err)
	}
	return h.listResponse(c, list)
}

func (h *BookingHandler) listResponse(c echo.Context, list []model.Booking) error {
	out := make([]bookingResp, 0, len(list))
	for i := range list {
		out = append(out, toBookingResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "count": len(out)})
}
