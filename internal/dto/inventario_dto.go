package dto

import (
	"github.com/shopspring/decimal"

	"inventario/internal/stock"
)

// ─── Selectores de stock ─────────────────────────────────────────────────────

// ProductoStockBajoResponse agrega cuánto falta para alcanzar el mínimo y el
// porcentaje de stock respecto del mínimo.
type ProductoStockBajoResponse struct {
	ProductoResponse
	UnidadesFaltantes int     `json:"unidades_faltantes"`
	PorcentajeStock   float64 `json:"porcentaje_stock"`
}

type ProductosStockBajoResponse struct {
	Count    int                         `json:"count"`
	Products []ProductoStockBajoResponse `json:"products"`
}

type ProductosSinStockResponse struct {
	Count    int                `json:"count"`
	Products []ProductoResponse `json:"products"`
}

// ProductoProximoBajoResponse agrega el umbral de advertencia (mínimo · 1.2)
// y el margen de seguridad sobre el mínimo.
type ProductoProximoBajoResponse struct {
	ProductoResponse
	UmbralAdvertencia float64 `json:"umbral_advertencia"`
	MargenSeguridad   int     `json:"margen_seguridad"`
}

type ProductosProximoBajoResponse struct {
	Count    int                           `json:"count"`
	Products []ProductoProximoBajoResponse `json:"products"`
	Mensaje  string                        `json:"mensaje"`
}

type ProductoCriticoResponse struct {
	ProductoResponse
	NivelCriticidad     stock.Criticidad `json:"nivel_criticidad"`
	UnidadesParaReponer int              `json:"unidades_para_reponer"`
}

type ProductosCriticosResponse struct {
	Count    int                       `json:"count"`
	Products []ProductoCriticoResponse `json:"products"`
	Alerta   string                    `json:"alerta"`
}

type ProductoTopStockResponse struct {
	ProductoResponse
	ValorInventario decimal.Decimal `json:"valor_inventario"`
}

type ProductosTopStockResponse struct {
	Count    int                        `json:"count"`
	Products []ProductoTopStockResponse `json:"products"`
}

type BusquedaResponse struct {
	Count      int                `json:"count"`
	SearchTerm string             `json:"searchTerm"`
	Products   []ProductoResponse `json:"products"`
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

// DashboardInventario es el agregado puntual sobre todos los productos.
// Los porcentajes se omiten cuando no hay productos (total == 0).
type DashboardInventario struct {
	TotalProductos          int             `json:"total_productos"`
	ProductosSinStock       int             `json:"productos_sin_stock"`
	ProductosStockBajo      int             `json:"productos_stock_bajo"`
	ProductosStockOK        int             `json:"productos_stock_ok"`
	TotalUnidadesInventario int             `json:"total_unidades_inventario"`
	ValorTotalInventario    decimal.Decimal `json:"valor_total_inventario"`
	PromedioStock           float64         `json:"promedio_stock"`
	StockMinimoActual       int             `json:"stock_minimo_actual"`
	StockMaximoActual       int             `json:"stock_maximo_actual"`
	PorcentajeSinStock      *float64        `json:"porcentaje_sin_stock,omitempty"`
	PorcentajeStockBajo     *float64        `json:"porcentaje_stock_bajo,omitempty"`
	PorcentajeStockOK       *float64        `json:"porcentaje_stock_ok,omitempty"`
}

// ─── Ajuste de stock ─────────────────────────────────────────────────────────

// AjustarStockRequest aplica un delta con signo al stock de un producto.
// required rechaza cantidad == 0 además de cantidad ausente; ne=0 documenta
// la intención.
type AjustarStockRequest struct {
	Cantidad int    `json:"cantidad" validate:"required,ne=0"`
	Motivo   string `json:"motivo"`
}

type AjusteDetalle struct {
	Cantidad      int    `json:"cantidad"`
	Motivo        string `json:"motivo"`
	StockAnterior int    `json:"stock_anterior"`
	StockNuevo    int    `json:"stock_nuevo"`
	Diferencia    int    `json:"diferencia"`
}

type AjustarStockResponse struct {
	Message  string           `json:"message"`
	Producto ProductoResponse `json:"producto"`
	Ajuste   AjusteDetalle    `json:"ajuste"`
	Alerta   stock.Alerta     `json:"alerta"`
}

// ─── Stock mínimo ────────────────────────────────────────────────────────────

type ActualizarStockMinimoRequest struct {
	StockMinimo *int `json:"stock_minimo" validate:"required,min=0"`
}

type StockMinimoResponse struct {
	Message string           `json:"message"`
	Product ProductoResponse `json:"product"`
}

// ─── Movimientos ─────────────────────────────────────────────────────────────

type MovimientoStockResponse struct {
	ID            uint   `json:"id"`
	ProductoID    uint   `json:"producto_id"`
	Tipo          string `json:"tipo"`
	Cantidad      int    `json:"cantidad"`
	StockAnterior int    `json:"stock_anterior"`
	StockNuevo    int    `json:"stock_nuevo"`
	Motivo        string `json:"motivo"`
	CreatedAt     string `json:"created_at"`
}

type MovimientosStockResponse struct {
	Count       int                       `json:"count"`
	Movimientos []MovimientoStockResponse `json:"movimientos"`
}
