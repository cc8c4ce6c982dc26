package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/training"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TrainingHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	CheckCommissions(w http.ResponseWriter, r *http.Request)
}

type trainingHandlerImpl struct {
	trainingService   training.TrainingService
	commissionService commission.CommissionService
}

func NewTrainingHandler(trainingService training.TrainingService, commissionService commission.CommissionService) TrainingHandler {
	return &trainingHandlerImpl{
		trainingService:   trainingService,
		commissionService: commissionService,
	}
}

func (h *trainingHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req training.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.trainingService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create training error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Training created", result)
}

func (h *trainingHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	result, err := h.trainingService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *trainingHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := training.SessionFilter{
		UserID: r.URL.Query().Get("user_id"),
		Status: r.URL.Query().Get("status"),
	}

	result, err := h.trainingService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *trainingHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	var req training.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.trainingService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Update training error", "error", err, "training_id", id)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *trainingHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	if err := h.trainingService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Training deleted", nil)
}

// CheckCommissions tells whether any commission entry exists for the document.
func (h *trainingHandlerImpl) CheckCommissions(w http.ResponseWriter, r *http.Request) {
	doc := chi.URLParam(r, "document")
	if doc == "" {
		response.BadRequest(w, "Document is required", nil)
		return
	}

	exists, err := h.commissionService.HasCommissionsForDocument(r.Context(), doc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]bool{"has_commissions": exists})
}
