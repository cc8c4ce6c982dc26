package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/discount"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/response"
)

type DiscountHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	TotalByUser(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type discountHandlerImpl struct {
	discountService discount.DiscountService
}

func NewDiscountHandler(discountService discount.DiscountService) DiscountHandler {
	return &discountHandlerImpl{discountService: discountService}
}

func (h *discountHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req discount.CreateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.discountService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create discount error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Discount created", result)
}

func (h *discountHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	result, err := h.discountService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *discountHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("user_id"))
}

func (h *discountHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userId", "user_id")
	if !ok {
		return
	}
	h.list(w, r, userID)
}

func (h *discountHandlerImpl) list(w http.ResponseWriter, r *http.Request, userID string) {
	month, err := monthFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.discountService.List(r.Context(), discount.DiscountFilter{
		UserID:   userID,
		Month:    month,
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *discountHandlerImpl) TotalByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userId", "user_id")
	if !ok {
		return
	}

	month, err := monthFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.discountService.TotalByUser(r.Context(), userID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *discountHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	var req discount.UpdateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.discountService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update discount error", "error", err, "discount_id", id)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *discountHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	if err := h.discountService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete discount error", "error", err, "discount_id", id)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Discount deleted", nil)
}
