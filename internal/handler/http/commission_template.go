package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commissiontemplate"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/response"
)

type CommissionTemplateHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type commissionTemplateHandlerImpl struct {
	templateService commissiontemplate.TemplateService
}

func NewCommissionTemplateHandler(templateService commissiontemplate.TemplateService) CommissionTemplateHandler {
	return &commissionTemplateHandlerImpl{templateService: templateService}
}

func (h *commissionTemplateHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req commissiontemplate.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.templateService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Commission template created", result)
}

func (h *commissionTemplateHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	result, err := h.templateService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *commissionTemplateHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.templateService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *commissionTemplateHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	var req commissiontemplate.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.templateService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *commissionTemplateHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id", "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Commission template deleted", nil)
}
