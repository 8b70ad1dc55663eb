package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stayspot/accommodation-booking/internal/middleware"
	"github.com/stayspot/accommodation-booking/internal/model"
	"github.com/stayspot/accommodation-booking/internal/repository"
	"github.com/stayspot/accommodation-booking/internal/service"
)

// PaymentHandler exposes checkout session creation and the redirect
// endpoints the provider sends the customer back through.
type PaymentHandler struct {
	Payments *service.PaymentService
	Users    *repository.UserRepo
}

func NewPaymentHandler(p *service.PaymentService, u *repository.UserRepo) *PaymentHandler {
	return &PaymentHandler{Payments: p, Users: u}
}

type createPaymentReq struct {
	BookingID uint64 `json:"booking_id"`
}

type paymentResp struct {
	ID         uint64 `json:"id"`
	BookingID  uint64 `json:"booking_id"`
	Status     string `json:"status"`
	Amount     string `json:"amount"`
	SessionID  string `json:"session_id"`
	SessionURL string `json:"session_url,omitempty"`
}

func toPaymentResp(p *model.Payment) paymentResp {
	return paymentResp{
		ID:         p.ID,
		BookingID:  p.BookingID,
		Status:     string(p.Status),
		Amount:     model.FormatCents(p.AmountCents),
		SessionID:  p.SessionID,
		SessionURL: p.SessionURL,
	}
}

// Create opens a checkout session for a pending booking and returns
// the hosted payment URL.
func (h *PaymentHandler) Create(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPaymentReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id required"})
	}
	payment, err := h.Payments.CreateSession(c.Request().Context(), req.BookingID, uid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, toPaymentResp(payment))
}

// Success is the provider's success redirect target.  It re-checks the
// session with the provider before marking anything paid, so hitting
// the URL by hand without paying changes nothing.
func (h *PaymentHandler) Success(c echo.Context) error {
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}
	outcome, err := h.Payments.HandleSuccess(c.Request().Context(), sessionID)
	if err != nil {
		return serviceError(c, err)
	}
	resp := echo.Map{"payment": toPaymentResp(outcome.Payment)}
	if outcome.Message != "" {
		resp["message"] = outcome.Message
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel is the provider's cancel redirect target.
func (h *PaymentHandler) Cancel(c echo.Context) error {
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}
	outcome, err := h.Payments.HandleCancel(c.Request().Context(), sessionID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"payment": toPaymentResp(outcome.Payment),
		"message": outcome.Message,
	})
}

// ListByUser returns a user's payments: GET /v1/payments?user_id=..
// Customers may only query themselves.
func (h *PaymentHandler) ListByUser(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	actor, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	list, err := h.Payments.ListByUser(c.Request().Context(), userID, actor)
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]paymentResp, 0, len(list))
	for i := range list {
		out = append(out, toPaymentResp(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": out, "count": len(out)})
}
