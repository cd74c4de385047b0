package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/costeo/internal/config"
	"github.com/mamadbah2/costeo/internal/domain/models"
)

var (
	// ErrSessionExpired is returned when the backend rejects the session token.
	ErrSessionExpired = errors.New("costing api session expired")
	// ErrInvalidCredentials is returned when login is refused.
	ErrInvalidCredentials = errors.New("costing api rejected the credentials")
)

// APIError carries a non-auth error response from the costing backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("costing api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("costing api error: status=%d, message=%s", e.StatusCode, e.Message)
}

// Session is an authenticated backend session. It is passed explicitly to
// NewClient and never stored globally.
type Session struct {
	Token    string
	Username string
}

// Client exposes the read-only costing backend operations used by the application.
type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetCostSheet(ctx context.Context, productID string) ([]models.IngredientLine, error)
	ListIndirectCosts(ctx context.Context, baseMonth models.Month) ([]models.IndirectCostEntry, error)
	GetIndirectSummary(ctx context.Context, baseMonth models.Month) (models.IndirectCostTotals, error)
	ListInflation(ctx context.Context) ([]models.InflationRate, error)
	ListProduction(ctx context.Context, month models.Month) ([]models.ProductionPlanEntry, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

func newRestyClient(cfg config.CostingAPIConfig) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)
}

// Login exchanges a username and password for a session token.
func Login(ctx context.Context, cfg config.CostingAPIConfig, username, password string) (Session, error) {
	result := new(loginResponse)
	apiErr := new(errorResponse)

	resp, err := newRestyClient(cfg).R().
		SetContext(ctx).
		SetBody(map[string]string{
			"username": username,
			"password": password,
		}).
		SetResult(result).
		SetError(apiErr).
		Post("/api/auth/login")
	if err != nil {
		return Session{}, fmt.Errorf("costing api login: %w", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Error)
	}
	if resp.IsError() {
		return Session{}, &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	if result.Token == "" {
		return Session{}, errors.New("costing api login: response carried no token")
	}

	return Session{Token: result.Token, Username: result.User.Username}, nil
}

// NewClient builds a backend client bound to session.
func NewClient(cfg config.CostingAPIConfig, session Session) *APIClient {
	restyClient := newRestyClient(cfg)
	if session.Token != "" {
		restyClient.SetAuthToken(session.Token)
	}
	return &APIClient{httpClient: restyClient}
}

func (c *APIClient) get(ctx context.Context, path string, query map[string]string, result any) error {
	apiErr := new(errorResponse)

	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr)
	for k, v := range query {
		if v != "" {
			req.SetQueryParam(k, v)
		}
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return ErrSessionExpired
	case resp.IsError():
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return nil
}

// ListProducts returns the active products. Formulas are not included; see GetCostSheet.
func (c *APIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productDTO
	if err := c.get(ctx, "/api/productos", nil, &rows); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		if row.Activo != nil && !*row.Activo {
			continue
		}
		products = append(products, row.toModel())
	}
	return products, nil
}

// GetCostSheet returns the formula lines of one product at current prices.
func (c *APIClient) GetCostSheet(ctx context.Context, productID string) ([]models.IngredientLine, error) {
	var sheet costSheetDTO
	if err := c.get(ctx, "/api/costeo/"+productID, nil, &sheet); err != nil {
		return nil, err
	}

	lines := make([]models.IngredientLine, 0, len(sheet.Ingredientes))
	for _, ing := range sheet.Ingredientes {
		lines = append(lines, ing.toModel())
	}
	return lines, nil
}

// ListIndirectCosts returns indirect cost accounts, filtered by base month when set.
func (c *APIClient) ListIndirectCosts(ctx context.Context, baseMonth models.Month) ([]models.IndirectCostEntry, error) {
	var rows []indirectCostDTO
	if err := c.get(ctx, "/api/costos-indirectos", map[string]string{"mes_base": baseMonth.String()}, &rows); err != nil {
		return nil, err
	}

	entries := make([]models.IndirectCostEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}
	return entries, nil
}

// GetIndirectSummary returns the SP/GIF/DEP totals of a base month.
func (c *APIClient) GetIndirectSummary(ctx context.Context, baseMonth models.Month) (models.IndirectCostTotals, error) {
	var summary indirectSummaryDTO
	if err := c.get(ctx, "/api/costos-indirectos/resumen", map[string]string{"mes_base": baseMonth.String()}, &summary); err != nil {
		return models.IndirectCostTotals{}, err
	}

	return models.IndirectCostTotals{
		Labor:        summary.PorTipo[models.IndirectLabor],
		Volume:       summary.PorTipo[models.IndirectVolume],
		Depreciation: summary.PorTipo[models.IndirectDepreciation],
	}, nil
}

// ListInflation returns every recorded monthly inflation rate.
func (c *APIClient) ListInflation(ctx context.Context) ([]models.InflationRate, error) {
	var rows []inflationDTO
	if err := c.get(ctx, "/api/inflacion", nil, &rows); err != nil {
		return nil, err
	}

	rates := make([]models.InflationRate, 0, len(rows))
	for _, row := range rows {
		rates = append(rates, models.InflationRate{Month: models.Month(row.Mes), Percent: row.Porcentaje})
	}
	return rates, nil
}

// ListProduction returns the scheduled production of a month as kilograms per entry.
func (c *APIClient) ListProduction(ctx context.Context, month models.Month) ([]models.ProductionPlanEntry, error) {
	var rows []productionDTO
	if err := c.get(ctx, "/api/produccion-programada", map[string]string{"mes": month.String()}, &rows); err != nil {
		return nil, err
	}

	plan := make([]models.ProductionPlanEntry, 0, len(rows))
	for _, row := range rows {
		plan = append(plan, models.ProductionPlanEntry{
			ProductID: formatID(row.ProductoID),
			Kilograms: row.KgProducidos,
		})
	}
	return plan, nil
}
