package commissiontemplate

import "context"

type TemplateRepository interface {
	Create(ctx context.Context, t Template) (Template, error)
	GetByID(ctx context.Context, id string) (Template, error)
	List(ctx context.Context) ([]Template, error)
	Update(ctx context.Context, t Template) (Template, error)
	Delete(ctx context.Context, id string) error
}
