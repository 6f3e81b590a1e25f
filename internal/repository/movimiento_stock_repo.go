package repository

import (
	"context"

	"gorm.io/gorm"

	"inventario/internal/model"
)

// MovimientoStockRepository persiste el historial de ajustes de stock.
type MovimientoStockRepository interface {
	// CreateTx inserta un movimiento dentro de la transacción del ajuste.
	// tx == nil usa la conexión propia (modo test unitario).
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	FindByProductoID(ctx context.Context, productoID uint) ([]model.MovimientoStock, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Create(m).Error
}

func (r *movimientoStockRepo) FindByProductoID(ctx context.Context, productoID uint) ([]model.MovimientoStock, error) {
	var movimientos []model.MovimientoStock
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC, id DESC").
		Find(&movimientos).Error
	return movimientos, err
}
