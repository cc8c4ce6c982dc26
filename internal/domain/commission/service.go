package commission

import "context"

type CommissionService interface {
	Create(ctx context.Context, req CreateEntryRequest) (EntryResponse, error)
	GetByID(ctx context.Context, id string) (EntryResponse, error)
	List(ctx context.Context, filter EntryFilter) ([]EntryResponse, error)
	Chart(ctx context.Context, filter EntryFilter) ([]DailyTotalResponse, error)
	Summary(ctx context.Context, filter EntryFilter) (SummaryResponse, error)
	AllUsersSummary(ctx context.Context, month string) ([]UserSummaryResponse, error)
	Update(ctx context.Context, req UpdateEntryRequest) (EntryResponse, error)
	Delete(ctx context.Context, id string) error
	HasCommissionsForDocument(ctx context.Context, document string) (bool, error)
}
