package model

import "time"

// MovimientoStock registra cada ajuste manual de stock sobre un producto.
// Se crea en la misma transacción que el UPDATE de stock, de modo que el
// historial nunca diverge del stock vigente.
type MovimientoStock struct {
	ID            uint   `gorm:"primaryKey"`
	ProductoID    uint   `gorm:"not null;index"`
	Tipo          string `gorm:"not null"` // "ajuste_manual"
	Cantidad      int    `gorm:"not null"` // positivo = entrada, negativo = salida
	StockAnterior int    `gorm:"not null"`
	StockNuevo    int    `gorm:"not null"`
	Motivo        string
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoStock) TableName() string { return "movimientos_stock" }
