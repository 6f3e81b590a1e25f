package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto es la única entidad persistida del inventario. El estado derivado
// (stock_bajo, sin_stock, estado_stock, nivel_criticidad) nunca se almacena:
// se calcula en lectura con internal/stock.
//
// Las columnas usan los nombres históricos de la tabla "products"
// (name, price, stock, stock_minimo) que el frontend ya consume.
type Producto struct {
	ID          uint            `gorm:"primaryKey"`
	Nombre      string          `gorm:"column:name;index;not null"`
	Descripcion *string         `gorm:"column:description"`
	Precio      decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	StockMinimo int             `gorm:"column:stock_minimo;not null;default:5"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "products" }
