package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/response"
)

type CommissionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	AllUsersSummary(w http.ResponseWriter, r *http.Request)
}

type commissionHandlerImpl struct {
	commissionService commission.CommissionService
}

func NewCommissionHandler(commissionService commission.CommissionService) CommissionHandler {
	return &commissionHandlerImpl{commissionService: commissionService}
}

// ========== ENTRIES ==========

func (h *commissionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req commission.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.commissionService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create commission error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Commission entry created", result)
}

func (h *commissionHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	result, err := h.commissionService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List returns entries, the per-day chart (view=chart) or the caller's month summary (summary=true).
func (h *commissionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	filter := commission.EntryFilter{
		Month:  month,
		UserID: r.URL.Query().Get("user_id"),
	}

	switch {
	case r.URL.Query().Get("view") == "chart":
		result, err := h.commissionService.Chart(r.Context(), filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)

	case r.URL.Query().Get("summary") == "true":
		result, err := h.commissionService.Summary(r.Context(), filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)

	default:
		result, err := h.commissionService.List(r.Context(), filter)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)
	}
}

func (h *commissionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	var req commission.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.commissionService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update commission error", "error", err, "commission_id", id)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *commissionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	if err := h.commissionService.Delete(r.Context(), id); err != nil {
		slog.Error("Delete commission error", "error", err, "commission_id", id)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission entry deleted", nil)
}

// ========== SUMMARY ==========

func (h *commissionHandlerImpl) AllUsersSummary(w http.ResponseWriter, r *http.Request) {
	month, err := monthFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.commissionService.AllUsersSummary(r.Context(), month)
	if err != nil {
		slog.Error("Commission summary error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
