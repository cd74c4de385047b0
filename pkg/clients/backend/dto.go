package backend

import (
	"strconv"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Username string `json:"username"`
	} `json:"user"`
}

type productDTO struct {
	ID              int64    `json:"id"`
	Codigo          string   `json:"codigo"`
	Nombre          string   `json:"nombre"`
	PesoBatchKg     float64  `json:"peso_batch_kg"`
	PorcentajeMerma float64  `json:"porcentaje_merma"`
	MinMoKg         *float64 `json:"min_mo_kg"`
	Activo          *bool    `json:"activo"`
}

func (p productDTO) toModel() models.Product {
	product := models.Product{
		ID:               formatID(p.ID),
		Code:             p.Codigo,
		Name:             p.Nombre,
		BatchWeightKg:    p.PesoBatchKg,
		YieldLossPercent: p.PorcentajeMerma,
	}
	if p.MinMoKg != nil {
		product.LaborMinutesPerKg = *p.MinMoKg
	}
	return product
}

type costSheetDTO struct {
	Ingredientes []ingredientDTO `json:"ingredientes"`
	Advertencias []string        `json:"advertencias"`
}

type ingredientDTO struct {
	MateriaPrimaID int64   `json:"materia_prima_id"`
	Nombre         string  `json:"nombre"`
	Categoria      string  `json:"categoria"`
	Unidad         string  `json:"unidad"`
	CostoUnitario  float64 `json:"costo_unitario"`
	Cantidad       float64 `json:"cantidad"`
	CostoTotal     float64 `json:"costo_total"`
}

func (i ingredientDTO) toModel() models.IngredientLine {
	return models.IngredientLine{
		RawMaterialID: formatID(i.MateriaPrimaID),
		Name:          i.Nombre,
		Category:      i.Categoria,
		Unit:          i.Unidad,
		Quantity:      i.Cantidad,
		UnitCost:      i.CostoUnitario,
	}
}

type indirectCostDTO struct {
	ID               int64   `json:"id"`
	Cuenta           string  `json:"cuenta"`
	Monto            float64 `json:"monto"`
	TipoDistribucion string  `json:"tipo_distribucion"`
	MesBase          string  `json:"mes_base"`
}

func (d indirectCostDTO) toModel() models.IndirectCostEntry {
	return models.IndirectCostEntry{
		ID:           formatID(d.ID),
		Account:      d.Cuenta,
		Amount:       d.Monto,
		Distribution: d.TipoDistribucion,
		BaseMonth:    models.Month(d.MesBase),
	}
}

type indirectSummaryDTO struct {
	MesBase string             `json:"mes_base"`
	Total   float64            `json:"total"`
	PorTipo map[string]float64 `json:"por_tipo"`
}

type inflationDTO struct {
	ID         int64   `json:"id"`
	Mes        string  `json:"mes"`
	Porcentaje float64 `json:"porcentaje"`
}

type productionDTO struct {
	ID              int64   `json:"id"`
	ProductoID      int64   `json:"producto_id"`
	CantidadBatches float64 `json:"cantidad_batches"`
	KgProducidos    float64 `json:"kg_producidos"`
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
