package commissiontemplate

import (
	"context"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commissiontemplate"
)

type TemplateServiceImpl struct {
	templates commissiontemplate.TemplateRepository
}

func NewTemplateService(templates commissiontemplate.TemplateRepository) commissiontemplate.TemplateService {
	return &TemplateServiceImpl{templates: templates}
}

func (s *TemplateServiceImpl) Create(ctx context.Context, req commissiontemplate.CreateTemplateRequest) (commissiontemplate.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return commissiontemplate.TemplateResponse{}, err
	}

	created, err := s.templates.Create(ctx, req.ToTemplate())
	if err != nil {
		return commissiontemplate.TemplateResponse{}, err
	}
	return commissiontemplate.ToResponse(created), nil
}

func (s *TemplateServiceImpl) GetByID(ctx context.Context, id string) (commissiontemplate.TemplateResponse, error) {
	found, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return commissiontemplate.TemplateResponse{}, err
	}
	return commissiontemplate.ToResponse(found), nil
}

func (s *TemplateServiceImpl) List(ctx context.Context) ([]commissiontemplate.TemplateResponse, error) {
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]commissiontemplate.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, commissiontemplate.ToResponse(t))
	}
	return resp, nil
}

func (s *TemplateServiceImpl) Update(ctx context.Context, req commissiontemplate.UpdateTemplateRequest) (commissiontemplate.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return commissiontemplate.TemplateResponse{}, err
	}

	existing, err := s.templates.GetByID(ctx, req.ID)
	if err != nil {
		return commissiontemplate.TemplateResponse{}, err
	}

	updated, err := s.templates.Update(ctx, req.Merge(existing))
	if err != nil {
		return commissiontemplate.TemplateResponse{}, err
	}
	return commissiontemplate.ToResponse(updated), nil
}

func (s *TemplateServiceImpl) Delete(ctx context.Context, id string) error {
	return s.templates.Delete(ctx, id)
}
