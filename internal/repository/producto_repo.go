package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"inventario/internal/model"
)

// StockInsuficienteError se devuelve cuando el UPDATE condicional de stock no
// afecta filas porque el resultado sería negativo. Lleva el stock vigente para
// que el servicio construya el mensaje de rechazo.
type StockInsuficienteError struct {
	StockActual int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente (stock actual: %d)", e.StockActual)
}

// ProductoRepository define el acceso a datos de productos. Los servicios
// dependen de esta interfaz, no de la implementación GORM, para poder
// testearse con stubs en memoria.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uint) (*model.Producto, error)
	// FindAll devuelve todos los productos en orden de id ascendente.
	FindAll(ctx context.Context) ([]model.Producto, error)
	// FindAllPorEstado ordena por estado de stock (sin stock, bajo, ok) y
	// desempata por id ascendente.
	FindAllPorEstado(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	// Delete borra el producto y devuelve la instantánea eliminada.
	Delete(ctx context.Context, id uint) (*model.Producto, error)

	// Selectores de stock. Cada uno replica un filtro + orden documentado.
	FindStockBajo(ctx context.Context) ([]model.Producto, error)
	FindSinStock(ctx context.Context) ([]model.Producto, error)
	FindProximosBajoStock(ctx context.Context) ([]model.Producto, error)
	FindCriticos(ctx context.Context) ([]model.Producto, error)
	FindTopPorStock(ctx context.Context, limit int) ([]model.Producto, error)
	Search(ctx context.Context, term string) ([]model.Producto, error)

	// AjustarStockTx aplica el delta con un único UPDATE condicional
	// (stock = stock + delta sólo si el resultado es ≥ 0), cerrando la carrera
	// de lectura-luego-escritura entre ajustes concurrentes. Devuelve
	// gorm.ErrRecordNotFound si el id no existe y *StockInsuficienteError si
	// el ajuste dejaría stock negativo; en ambos casos no muta nada.
	// tx == nil usa la conexión propia (modo test unitario).
	AjustarStockTx(ctx context.Context, tx *gorm.DB, id uint, delta int) (*model.Producto, error)

	// ActualizarStockMinimo modifica únicamente el umbral de reposición.
	ActualizarStockMinimo(ctx context.Context, id uint, stockMinimo int) (*model.Producto, error)

	// DB expone el *gorm.DB subyacente para que los servicios abran
	// transacciones que crucen repositorios.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uint) (*model.Producto, error) {
	var p model.Producto
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindAll(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Order("id ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindAllPorEstado(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Order("CASE WHEN stock = 0 THEN 1 WHEN stock < stock_minimo THEN 2 ELSE 3 END, id ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, id uint) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Producto{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindStockBajo(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("stock < stock_minimo AND stock > 0").
		Order("(stock_minimo - stock) DESC, stock ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindSinStock(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("stock = 0").
		Order("id ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindProximosBajoStock(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("stock <= stock_minimo * 1.2 AND stock > stock_minimo").
		Order("(stock - stock_minimo) ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindCriticos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	// stock * 2 < stock_minimo es la forma entera de stock < stock_minimo * 0.5
	err := r.db.WithContext(ctx).
		Where("stock < stock_minimo").
		Order("CASE WHEN stock = 0 THEN 1 WHEN stock * 2 < stock_minimo THEN 2 ELSE 3 END, stock ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindTopPorStock(ctx context.Context, limit int) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Order("stock DESC").
		Limit(limit).
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Search(ctx context.Context, term string) ([]model.Producto, error) {
	var productos []model.Producto
	pattern := "%" + strings.ToLower(term) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("name ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) AjustarStockTx(ctx context.Context, tx *gorm.DB, id uint, delta int) (*model.Producto, error) {
	db := tx
	if db == nil {
		db = r.db.WithContext(ctx)
	}

	res := db.Model(&model.Producto{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}

	var p model.Producto
	if res.RowsAffected == 0 {
		// Distinguir producto inexistente de stock insuficiente.
		if err := db.First(&p, id).Error; err != nil {
			return nil, err
		}
		return nil, &StockInsuficienteError{StockActual: p.Stock}
	}

	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) ActualizarStockMinimo(ctx context.Context, id uint, stockMinimo int) (*model.Producto, error) {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ?", id).
		Update("stock_minimo", stockMinimo)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
