package commissiontemplate

import "context"

type TemplateService interface {
	Create(ctx context.Context, req CreateTemplateRequest) (TemplateResponse, error)
	GetByID(ctx context.Context, id string) (TemplateResponse, error)
	List(ctx context.Context) ([]TemplateResponse, error)
	Update(ctx context.Context, req UpdateTemplateRequest) (TemplateResponse, error)
	Delete(ctx context.Context, id string) error
}
