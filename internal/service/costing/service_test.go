package costing

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/mamadbah2/costeo/internal/domain/models"
	"github.com/mamadbah2/costeo/internal/engine"
	"github.com/mamadbah2/costeo/internal/repository/mongodb"
	"github.com/mamadbah2/costeo/pkg/clients/backend"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

type fakeBackend struct {
	mu         sync.Mutex
	products   []models.Product
	sheets     map[string][]models.IngredientLine
	indirect   map[models.Month]models.IndirectCostTotals
	entries    []models.IndirectCostEntry
	rates      []models.InflationRate
	production map[models.Month][]models.ProductionPlanEntry
	failOn     string
	calls      map[string]int
}

func (f *fakeBackend) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
	if f.failOn == op {
		return backend.ErrSessionExpired
	}
	return nil
}

func (f *fakeBackend) ListProducts(context.Context) ([]models.Product, error) {
	if err := f.record("products"); err != nil {
		return nil, err
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeBackend) GetCostSheet(_ context.Context, id string) ([]models.IngredientLine, error) {
	if err := f.record("costeo"); err != nil {
		return nil, err
	}
	return f.sheets[id], nil
}

func (f *fakeBackend) ListIndirectCosts(context.Context, models.Month) ([]models.IndirectCostEntry, error) {
	if err := f.record("indirect_list"); err != nil {
		return nil, err
	}
	return f.entries, nil
}

func (f *fakeBackend) GetIndirectSummary(_ context.Context, base models.Month) (models.IndirectCostTotals, error) {
	if err := f.record("indirect_summary"); err != nil {
		return models.IndirectCostTotals{}, err
	}
	return f.indirect[base], nil
}

func (f *fakeBackend) ListInflation(context.Context) ([]models.InflationRate, error) {
	if err := f.record("inflation"); err != nil {
		return nil, err
	}
	return f.rates, nil
}

func (f *fakeBackend) ListProduction(_ context.Context, month models.Month) ([]models.ProductionPlanEntry, error) {
	if err := f.record("production"); err != nil {
		return nil, err
	}
	return f.production[month], nil
}

type memoryScenarios struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]models.Scenario
}

func (m *memoryScenarios) Create(_ context.Context, sc models.Scenario) (models.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = map[int64]models.Scenario{}
	}
	m.nextID++
	sc.ID = m.nextID
	m.items[sc.ID] = sc
	return sc, nil
}

func (m *memoryScenarios) List(context.Context) ([]models.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Scenario{}
	for id := int64(1); id <= m.nextID; id++ {
		if sc, ok := m.items[id]; ok {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (m *memoryScenarios) Get(_ context.Context, id int64) (models.Scenario, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc, ok := m.items[id]
	if !ok {
		return models.Scenario{}, errors.New("scenario not found")
	}
	return sc, nil
}

func (m *memoryScenarios) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type fakeReports struct {
	saved []models.AllocationReport
	err   error
}

func (f *fakeReports) SaveAllocationReport(_ context.Context, r models.AllocationReport) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeReports) LatestAllocationReport(_ context.Context, target models.Month) (models.AllocationReport, error) {
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].TargetMonth == target {
			return f.saved[i], nil
		}
	}
	return models.AllocationReport{}, mongodb.ErrNoReport
}

type fakeSheets struct {
	rows [][]interface{}
}

func (f *fakeSheets) AppendRows(_ context.Context, _ string, rows [][]interface{}) error {
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeSheets) ReadRange(context.Context, string) ([][]interface{}, error) {
	return nil, nil
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: []models.Product{
			{ID: "1", Name: "Chorizo", BatchWeightKg: 100, LaborMinutesPerKg: 2},
			{ID: "2", Name: "Salchicha", BatchWeightKg: 100},
		},
		sheets: map[string][]models.IngredientLine{
			"1": {{RawMaterialID: "11", Category: "CARNES", Quantity: 100, UnitCost: 10}},
			"2": {{RawMaterialID: "12", Category: "CARNES", Quantity: 100, UnitCost: 8}},
		},
		indirect: map[models.Month]models.IndirectCostTotals{
			"2025-01": {Labor: 100000, Volume: 200000, Depreciation: 50000},
		},
		entries: []models.IndirectCostEntry{
			{ID: "a", BaseMonth: "2024-12"},
			{ID: "b", BaseMonth: "2025-01"},
			{ID: "c", BaseMonth: "not-a-month"},
		},
		rates: []models.InflationRate{{Month: "2025-02", Percent: 10}},
		production: map[models.Month][]models.ProductionPlanEntry{
			"2025-02": {{ProductID: "1", Kilograms: 1000}, {ProductID: "2", Kilograms: 1000}},
			"2025-03": {{ProductID: "1", Kilograms: 500}},
		},
	}
}

func newTestService(t *testing.T, b *fakeBackend, reports ReportStore, sheets SheetWriter) *Service {
	t.Helper()
	svc := NewService(b, &memoryScenarios{}, reports, sheets, Options{LaborFallbackToVolume: true, SheetRange: "Costeo!A:L"}, nil)
	svc.now = func() time.Time { return time.Date(2025, time.January, 20, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestMonthlyAllocation_UsesLatestBaseMonth(t *testing.T) {
	svc := newTestService(t, newFakeBackend(), nil, nil)

	result, err := svc.MonthlyAllocation(context.Background(), AllocationRequest{TargetMonth: "2025-2"})
	if err != nil {
		t.Fatalf("MonthlyAllocation: %v", err)
	}

	if result.CostBaseMonth != "2025-01" || result.TargetMonth != "2025-02" {
		t.Fatalf("months = %s -> %s", result.CostBaseMonth, result.TargetMonth)
	}
	nearlyEqual(t, "factor", result.InflationFactor, 1.1)
	nearlyEqual(t, "indirect", result.TotalIndirectCost, 385000)
	nearlyEqual(t, "variable", result.TotalVariableCost, (10+8)*1000*1.1)
}

func TestMonthlyAllocation_WrapsBackendErrors(t *testing.T) {
	b := newFakeBackend()
	b.failOn = "costeo"
	svc := newTestService(t, b, nil, nil)

	_, err := svc.MonthlyAllocation(context.Background(), AllocationRequest{CostBaseMonth: "2025-01", TargetMonth: "2025-02"})
	if !errors.Is(err, ErrBackendUnavailable) || !errors.Is(err, backend.ErrSessionExpired) {
		t.Fatalf("err = %v, want backend unavailable wrapping session expiry", err)
	}
}

func TestMonthlyAllocation_RejectsBadMonth(t *testing.T) {
	svc := newTestService(t, newFakeBackend(), nil, nil)

	_, err := svc.MonthlyAllocation(context.Background(), AllocationRequest{TargetMonth: "febrero"})
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestLatestBaseMonth_NoEntries(t *testing.T) {
	b := newFakeBackend()
	b.entries = nil
	svc := newTestService(t, b, nil, nil)

	if _, err := svc.LatestBaseMonth(context.Background()); !errors.Is(err, ErrNoBaseMonth) {
		t.Fatalf("err = %v, want ErrNoBaseMonth", err)
	}
}

func TestCompareScenarios_StoredAndInline(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeBackend(), nil, nil)

	stored, err := svc.CreateScenario(ctx, models.Scenario{
		Name:       "Indirectos +10%",
		Adjustment: models.ScenarioAdjustment{Type: models.ScenarioIndirect, Percent: 10},
	})
	if err != nil {
		t.Fatalf("CreateScenario: %v", err)
	}

	comparison, err := svc.CompareScenarios(ctx, CompareRequest{
		CostBaseMonth: "2025-01",
		TargetMonth:   "2025-02",
		ScenarioIDs:   []int64{stored.ID},
		Scenarios: []models.Scenario{
			{Name: "Carnes +20%", Adjustment: models.ScenarioAdjustment{Type: models.ScenarioCategory, Percent: 20, Target: "carnes"}},
		},
	})
	if err != nil {
		t.Fatalf("CompareScenarios: %v", err)
	}

	if len(comparison.Scenarios) != 2 {
		t.Fatalf("scenarios = %d, want 2", len(comparison.Scenarios))
	}
	nearlyEqual(t, "indirect delta", comparison.Scenarios[0].CostDelta, 35000*1.1)
	nearlyEqual(t, "category delta", comparison.Scenarios[1].CostDelta, 18000*1.1*0.2)
}

func TestCompareScenarios_DefaultsToAllStored(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeBackend(), nil, nil)

	for _, pct := range []float64{1, 2} {
		if _, err := svc.CreateScenario(ctx, models.Scenario{
			Name:       "inflación",
			Adjustment: models.ScenarioAdjustment{Type: models.ScenarioInflation, Percent: pct},
		}); err != nil {
			t.Fatalf("CreateScenario: %v", err)
		}
	}

	comparison, err := svc.CompareScenarios(ctx, CompareRequest{CostBaseMonth: "2025-01", TargetMonth: "2025-02"})
	if err != nil {
		t.Fatalf("CompareScenarios: %v", err)
	}
	if len(comparison.Scenarios) != 2 {
		t.Fatalf("scenarios = %d, want 2", len(comparison.Scenarios))
	}
	nearlyEqual(t, "one percent factor", comparison.Scenarios[0].Result.InflationFactor, 1.01)
}

func TestCreateScenario_Validation(t *testing.T) {
	svc := newTestService(t, newFakeBackend(), nil, nil)

	_, err := svc.CreateScenario(context.Background(), models.Scenario{
		Name:       "sin objetivo",
		Adjustment: models.ScenarioAdjustment{Type: models.ScenarioRawMaterial, Percent: 5},
	})
	var invalid *engine.InvalidInputError
	if !errors.As(err, &invalid) || invalid.Field != "adjustment.target" {
		t.Fatalf("err = %v, want adjustment.target error", err)
	}
}

func TestProject_FetchesEveryMonth(t *testing.T) {
	b := newFakeBackend()
	svc := newTestService(t, b, nil, nil)

	projection, err := svc.Project(context.Background(), ProjectionRequest{
		CostBaseMonth: "2025-01",
		StartMonth:    "2025-02",
		EndMonth:      "2025-04",
	})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if b.calls["production"] != 3 {
		t.Fatalf("production calls = %d, want 3", b.calls["production"])
	}
	if len(projection.Months) != 3 || projection.PlannedMonths != 2 {
		t.Fatalf("projection months = %d planned = %d", len(projection.Months), projection.PlannedMonths)
	}
	nearlyEqual(t, "total kg", projection.TotalKilograms, 2500)
}

func TestProject_RejectsLongPeriodBeforeFetching(t *testing.T) {
	b := newFakeBackend()
	svc := newTestService(t, b, nil, nil)

	_, err := svc.Project(context.Background(), ProjectionRequest{StartMonth: "2025-01", EndMonth: "2030-01"})
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	_, err = svc.Project(context.Background(), ProjectionRequest{StartMonth: "0001-01", EndMonth: "9999-12"})
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("whole calendar err = %v, want ErrInvalidInput", err)
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend calls = %v, want none", b.calls)
	}
}

func TestRequirementsFor(t *testing.T) {
	svc := newTestService(t, newFakeBackend(), nil, nil)

	req, err := svc.RequirementsFor(context.Background(), "2025-01", "2025-03")
	if err != nil {
		t.Fatalf("RequirementsFor: %v", err)
	}
	if len(req.Materials) != 1 || req.Materials[0].RawMaterialID != "11" {
		t.Fatalf("materials = %+v", req.Materials)
	}
	nearlyEqual(t, "quantity", req.Materials[0].Quantity, 500)
	nearlyEqual(t, "cost", req.TotalCost, 5000*1.1)
}

func TestPublish(t *testing.T) {
	reports := &fakeReports{}
	sheets := &fakeSheets{}
	svc := newTestService(t, newFakeBackend(), reports, sheets)

	result, err := svc.PublishNextMonth(context.Background(), "cron")
	if err != nil {
		t.Fatalf("PublishNextMonth: %v", err)
	}

	if result.TargetMonth != "2025-02" {
		t.Fatalf("target = %s, want 2025-02", result.TargetMonth)
	}
	if len(reports.saved) != 1 || reports.saved[0].Trigger != "cron" {
		t.Fatalf("saved = %+v", reports.saved)
	}
	if len(sheets.rows) != 3 {
		t.Fatalf("sheet rows = %d, want header and 2 products", len(sheets.rows))
	}
}

func TestPublish_Disabled(t *testing.T) {
	svc := newTestService(t, newFakeBackend(), nil, nil)

	if err := svc.Publish(context.Background(), models.AllocationResult{}, "api"); !errors.Is(err, ErrPublishingDisabled) {
		t.Fatalf("err = %v, want ErrPublishingDisabled", err)
	}
}

func TestPublish_ReportsSinkFailures(t *testing.T) {
	sinkErr := errors.New("mongo down")
	sheets := &fakeSheets{}
	svc := newTestService(t, newFakeBackend(), &fakeReports{err: sinkErr}, sheets)

	err := svc.Publish(context.Background(), models.AllocationResult{TargetMonth: "2025-02", Products: []models.ProductAllocation{{ProductID: "1"}}}, "api")
	if !errors.Is(err, sinkErr) {
		t.Fatalf("err = %v, want %v", err, sinkErr)
	}
	if len(sheets.rows) != 2 {
		t.Fatalf("sheet export should still run, rows = %d", len(sheets.rows))
	}
}

func TestPublishedAllocation(t *testing.T) {
	reports := &fakeReports{}
	svc := newTestService(t, newFakeBackend(), reports, nil)

	if _, err := svc.PublishNextMonth(context.Background(), "cron"); err != nil {
		t.Fatalf("PublishNextMonth: %v", err)
	}

	report, err := svc.PublishedAllocation(context.Background(), "2025-2")
	if err != nil {
		t.Fatalf("PublishedAllocation: %v", err)
	}
	if report.TargetMonth != "2025-02" || report.Trigger != "cron" {
		t.Fatalf("report = %+v", report)
	}

	if _, err := svc.PublishedAllocation(context.Background(), ""); !errors.Is(err, mongodb.ErrNoReport) {
		t.Fatalf("current month err = %v, want ErrNoReport", err)
	}
	if _, err := svc.PublishedAllocation(context.Background(), "2025-13"); !errors.Is(err, engine.ErrInvalidInput) {
		t.Fatalf("bad month err = %v, want ErrInvalidInput", err)
	}

	disabled := newTestService(t, newFakeBackend(), nil, nil)
	if _, err := disabled.PublishedAllocation(context.Background(), "2025-02"); !errors.Is(err, ErrPublishingDisabled) {
		t.Fatalf("err = %v, want ErrPublishingDisabled", err)
	}
}
