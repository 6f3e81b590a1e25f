package dto

import (
	"github.com/shopspring/decimal"

	"inventario/internal/stock"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearProductoRequest crea un producto. Stock y StockMinimo son punteros para
// distinguir "ausente" (se aplican los defaults 0 y 5) de un 0 explícito.
type CrearProductoRequest struct {
	Nombre      string           `json:"name"         validate:"required,min=1,max=120"`
	Descripcion *string          `json:"description"`
	Precio      *decimal.Decimal `json:"price"        validate:"required"`
	Stock       *int             `json:"stock"        validate:"omitempty,min=0"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
}

// ActualizarProductoRequest reemplaza todos los campos del producto (PUT).
type ActualizarProductoRequest struct {
	Nombre      string           `json:"name"         validate:"required,min=1,max=120"`
	Descripcion *string          `json:"description"`
	Precio      *decimal.Decimal `json:"price"        validate:"required"`
	Stock       *int             `json:"stock"        validate:"omitempty,min=0"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ProductoResponse es un producto con su estado de stock derivado.
type ProductoResponse struct {
	ID          uint            `json:"id"`
	Nombre      string          `json:"name"`
	Descripcion *string         `json:"description"`
	Precio      decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	StockMinimo int             `json:"stock_minimo"`
	StockBajo   bool            `json:"stock_bajo"`
	SinStock    bool            `json:"sin_stock"`
	EstadoStock stock.Estado    `json:"estado_stock"`
}

type ProductoListResponse struct {
	Count    int                `json:"count"`
	Products []ProductoResponse `json:"products"`
}

// EliminarProductoResponse devuelve la instantánea del producto borrado.
type EliminarProductoResponse struct {
	Message string           `json:"message"`
	Product ProductoResponse `json:"product"`
}
