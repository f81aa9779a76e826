package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mhofer/pizzapool/internal/middleware"
	"github.com/mhofer/pizzapool/internal/order"
	"github.com/mhofer/pizzapool/internal/service"
	"github.com/mhofer/pizzapool/internal/storage"
)

// OrderHandler exposes the group-order endpoints. The acting participant is
// always the authenticated user.
type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type AddMealRequest struct {
	Code       string                 `json:"code"`
	Variety    string                 `json:"variety"`
	PriceCents uint64                 `json:"price_cents"`
	Specials   []service.SpecialInput `json:"specials,omitempty"`
}

type PaymentRequest struct {
	PaidCents uint64 `json:"paid_cents"`
	TipCents  uint64 `json:"tip_cents"`
}

type ReadyRequest struct {
	Ready bool `json:"ready"`
}

type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
}

type MealCreatedResponse struct {
	MealID uint32 `json:"meal_id"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orderID, err := h.orderService.CreateOrder(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CreateOrderResponse{OrderID: orderID})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.orderService.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (h *OrderHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.orderService.Join(r.Context(), chi.URLParam(r, "orderID"), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *OrderHandler) AddMeal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req AddMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "invalid_meal", "code is required")
		return
	}

	mealID, err := h.orderService.AddMeal(r.Context(), chi.URLParam(r, "orderID"), userID, service.MealInput{
		Code:       req.Code,
		Variety:    req.Variety,
		PriceCents: req.PriceCents,
		Specials:   req.Specials,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, MealCreatedResponse{MealID: mealID})
}

func (h *OrderHandler) RemoveMeal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	mealID, err := strconv.ParseUint(chi.URLParam(r, "mealID"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_meal_id", "meal id must be a non-negative integer")
		return
	}

	if err := h.orderService.RemoveMeal(r.Context(), chi.URLParam(r, "orderID"), userID, uint32(mealID)); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *OrderHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.orderService.RecordPayment(r.Context(), chi.URLParam(r, "orderID"), userID, req.PaidCents, req.TipCents); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *OrderHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.orderService.MarkReady(r.Context(), chi.URLParam(r, "orderID"), userID, req.Ready); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *OrderHandler) AdvanceStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.orderService.AdvanceStatus(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, StatusResponse{Status: string(status)})
}

func (h *OrderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.orderService.Summary(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func handleServiceError(w http.ResponseWriter, err error) {
	var negPrice *order.NegativePriceError
	var mismatch *order.CountMismatchError

	switch {
	case errors.Is(err, storage.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, order.ErrNotFound):
		respondError(w, http.StatusNotFound, "meal_not_found", "meal not found")
	case errors.Is(err, order.ErrParticipantNotInOrder):
		respondError(w, http.StatusForbidden, "not_a_participant", "you have not joined this order")
	case errors.Is(err, service.ErrAlreadyJoined):
		respondError(w, http.StatusConflict, "already_joined", "you already joined this order")
	case errors.Is(err, order.ErrOrderDelivered):
		respondError(w, http.StatusConflict, "order_delivered", "a delivered order cannot advance further")
	case errors.As(err, &negPrice):
		respondError(w, http.StatusBadRequest, "negative_price", negPrice.Error())
	case errors.As(err, &mismatch):
		respondError(w, http.StatusBadRequest, "specials_mismatch", mismatch.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
