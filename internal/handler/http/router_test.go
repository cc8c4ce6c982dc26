package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/salary"
	"github.com/cmlabs-hris/commission-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/period"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID   = "0d8f8f6e-3f0e-4b61-9a43-0a4f6f1b6a01"
	supportID = "7c1e2a53-92b4-4f55-8e0f-6d2c1b7a9e02"
	otherID   = "b5a4c3d2-1e0f-4a9b-8c7d-6e5f4a3b2c03"
)

type fakeCommissionService struct {
	commission.CommissionService
	summaryFn func(ctx context.Context, month string) ([]commission.UserSummaryResponse, error)
	existsFn  func(ctx context.Context, document string) (bool, error)
	getByIDFn func(ctx context.Context, id string) (commission.EntryResponse, error)
}

func (f *fakeCommissionService) GetByID(ctx context.Context, id string) (commission.EntryResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeCommissionService) AllUsersSummary(ctx context.Context, month string) ([]commission.UserSummaryResponse, error) {
	return f.summaryFn(ctx, month)
}

func (f *fakeCommissionService) HasCommissionsForDocument(ctx context.Context, document string) (bool, error) {
	return f.existsFn(ctx, document)
}

type fakeSalaryService struct {
	salary.SalaryService
	previewFn func(ctx context.Context, employeeID string, p period.YearMonth) (salary.Breakdown, error)
}

func (f *fakeSalaryService) Preview(ctx context.Context, employeeID string, p period.YearMonth) (salary.Breakdown, error) {
	return f.previewFn(ctx, employeeID, p)
}

func (f *fakeSalaryService) QuoteINSS(gross decimal.Decimal) decimal.Decimal {
	return decimal.RequireFromString("281.62")
}

func (f *fakeSalaryService) QuoteIRPF(gross decimal.Decimal, inss *decimal.Decimal, other decimal.Decimal) salary.TaxQuote {
	i := decimal.RequireFromString("281.62")
	if inss != nil {
		i = *inss
	}
	base := gross.Sub(i).Sub(other)
	return salary.TaxQuote{
		Gross:          gross,
		INSS:           i,
		OtherDiscounts: other,
		IRPFBase:       base,
		IRPF:           decimal.Zero,
		NetPay:         gross.Sub(i),
	}
}

type routerFixture struct {
	jwtSvc     jwt.Service
	commission *fakeCommissionService
	salary     *fakeSalaryService
	auth       *fakeAuthService
}

func newRouterFixture() *routerFixture {
	return &routerFixture{
		jwtSvc: newTestJWTService(),
		commission: &fakeCommissionService{
			summaryFn: func(ctx context.Context, month string) ([]commission.UserSummaryResponse, error) {
				return []commission.UserSummaryResponse{{UserID: supportID, Name: "Bruno", Month: month}}, nil
			},
			existsFn: func(ctx context.Context, document string) (bool, error) {
				return document == "52998224725", nil
			},
			getByIDFn: func(ctx context.Context, id string) (commission.EntryResponse, error) {
				return commission.EntryResponse{ID: id}, nil
			},
		},
		salary: &fakeSalaryService{
			previewFn: func(ctx context.Context, employeeID string, p period.YearMonth) (salary.Breakdown, error) {
				return salary.Breakdown{EmployeeID: employeeID, Period: p}, nil
			},
		},
		auth: &fakeAuthService{
			loginFn: func(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
				return tokenPair(), nil
			},
		},
	}
}

func (f *routerFixture) router(t *testing.T, loginRate string) *chi.Mux {
	t.Helper()
	cfg := RouterConfig{AppEnv: "test", AllowedOrigins: []string{"http://localhost:3000"}}
	if loginRate != "" {
		limit, err := middleware.RateLimit(loginRate)
		require.NoError(t, err)
		cfg.LoginRateLimit = limit
	}

	return NewRouter(f.jwtSvc, Handlers{
		Auth:               NewAuthHandler(f.jwtSvc, f.auth),
		User:               NewUserHandler(nil),
		Commission:         NewCommissionHandler(f.commission),
		Training:           NewTrainingHandler(nil, f.commission),
		Discount:           NewDiscountHandler(nil),
		CommissionTemplate: NewCommissionTemplateHandler(nil),
		Salary:             NewSalaryHandler(f.salary),
	}, cfg)
}

func (f *routerFixture) bearer(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	token, _, err := f.jwtSvc.GenerateAccessToken(userID, userID+"@example.com", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(r http.Handler, method, target, authorization string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")

	w := serve(r, http.MethodGet, "/api/v1/commissions/summary", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RejectsRefreshTokenAsBearer(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")
	refresh, _, err := f.jwtSvc.GenerateRefreshToken(adminID)
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/api/v1/commissions/summary", "Bearer "+refresh, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AllUsersSummary_AdminOnly(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")

	w := serve(r, http.MethodGet, "/api/v1/commissions/summary?month=2025-03", f.bearer(t, supportID, user.RoleSupport), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/commissions/summary?month=2025-03", f.bearer(t, adminID, user.RoleAdmin), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeBody(t, w)
	data := resp["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "2025-03", data[0].(map[string]interface{})["month"])
}

func TestRouter_LoginRateLimited(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "2-M")
	body := `{"email":"ana@example.com","password":"SecurePass123!"}`

	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/api/v1/auth/login", "", body).Code)
}

func TestRouter_SalaryPreview_Scoped(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")

	w := serve(r, http.MethodGet, "/api/v1/salary/"+otherID+"?month=2025-03", f.bearer(t, supportID, user.RoleSupport), "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/salary/"+supportID+"?month=2025-03", f.bearer(t, supportID, user.RoleSupport), "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2025-03", data["month"])

	w = serve(r, http.MethodGet, "/api/v1/salary/"+otherID+"?year=2025&month=2", f.bearer(t, adminID, user.RoleAdmin), "")
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2025-02", data["month"])
}

func TestRouter_SalaryPreview_InvalidInput(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")
	token := f.bearer(t, adminID, user.RoleAdmin)

	assert.Equal(t, http.StatusUnprocessableEntity, serve(r, http.MethodGet, "/api/v1/salary/not-a-uuid", token, "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, serve(r, http.MethodGet, "/api/v1/salary/"+otherID+"?month=2025-13", token, "").Code)
}

func TestRouter_CleanupDuplicates_RequiresManage(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")

	w := serve(r, http.MethodPost, "/api/v1/salary/cleanup-duplicates", f.bearer(t, supportID, user.RoleSupport), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_QuoteINSS(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")
	token := f.bearer(t, supportID, user.RoleSupport)

	w := serve(r, http.MethodPost, "/api/v1/salary/inss", token, `{"gross":"3500.00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "281.62", data["inss"])

	w = serve(r, http.MethodPost, "/api/v1/salary/inss", token, `{"gross":"-1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_QuoteIRPF(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")
	token := f.bearer(t, supportID, user.RoleSupport)

	w := serve(r, http.MethodGet, "/api/v1/salary/irpf?gross=3500&inss=300&other=50", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "300", data["inss"])
	assert.Equal(t, "3150", data["irpf_base"])

	w = serve(r, http.MethodGet, "/api/v1/salary/irpf", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/salary/irpf?gross=abc", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_QuoteTaxes_IgnoresINSSParam(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")

	w := serve(r, http.MethodGet, "/api/v1/salary/taxes?gross=3500&inss=1", f.bearer(t, supportID, user.RoleSupport), "")

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "281.62", data["inss"])
}

func TestRouter_CheckCommissions(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")
	token := f.bearer(t, supportID, user.RoleSupport)

	w := serve(r, http.MethodGet, "/api/v1/trainings/check-commissions/52998224725", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["has_commissions"])

	w = serve(r, http.MethodGet, "/api/v1/trainings/check-commissions/11144477735", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["has_commissions"])
}

func TestRouter_MalformedPathIDs(t *testing.T) {
	f := newRouterFixture()
	r := f.router(t, "")
	token := f.bearer(t, adminID, user.RoleAdmin)

	tests := []struct {
		method string
		target string
		field  string
	}{
		{http.MethodGet, "/api/v1/commissions/not-a-uuid", "id"},
		{http.MethodDelete, "/api/v1/commissions/42", "id"},
		{http.MethodGet, "/api/v1/trainings/not-a-uuid", "id"},
		{http.MethodGet, "/api/v1/discounts/not-a-uuid", "id"},
		{http.MethodGet, "/api/v1/discounts/user/not-a-uuid", "user_id"},
		{http.MethodGet, "/api/v1/discounts/user/not-a-uuid/total", "user_id"},
		{http.MethodGet, "/api/v1/commission-templates/not-a-uuid", "id"},
		{http.MethodGet, "/api/v1/users/not-a-uuid", "id"},
		{http.MethodDelete, "/api/v1/users/not-a-uuid", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := serve(r, tt.method, tt.target, token, "")

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			details := decodeBody(t, w)["error"].(map[string]interface{})["details"].(map[string]interface{})
			assert.Contains(t, details, tt.field)
		})
	}

	w := serve(r, http.MethodGet, "/api/v1/commissions/"+otherID, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, otherID, decodeBody(t, w)["data"].(map[string]interface{})["id"])
}
