package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"inventario/internal/apperr"
	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/repository"
	"inventario/internal/stock"
)

const (
	defaultStock       = 0
	defaultStockMinimo = 5
)

// ProductoService define la lógica de negocio del CRUD de productos.
type ProductoService interface {
	Listar(ctx context.Context) (*dto.ProductoListResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error)
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uint) (*dto.EliminarProductoResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

// Listar devuelve todos los productos con su estado derivado, ordenados por
// severidad (sin stock primero, luego bajo, luego ok).
func (s *productoService) Listar(ctx context.Context) (*dto.ProductoListResponse, error) {
	productos, err := s.repo.FindAllPorEstado(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Count: len(items), Products: items}, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      *req.Precio,
		Stock:       intOrDefault(req.Stock, defaultStock),
		StockMinimo: intOrDefault(req.StockMinimo, defaultStockMinimo),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Storage(err)
	}
	resp := productoToResponse(p)
	return &resp, nil
}

// Actualizar reemplaza todos los campos del producto (PUT semántico).
func (s *productoService) Actualizar(ctx context.Context, id uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	p.Nombre = req.Nombre
	p.Descripcion = req.Descripcion
	p.Precio = *req.Precio
	p.Stock = intOrDefault(req.Stock, defaultStock)
	p.StockMinimo = intOrDefault(req.StockMinimo, defaultStockMinimo)

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperr.Storage(err)
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Eliminar(ctx context.Context, id uint) (*dto.EliminarProductoResponse, error) {
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return &dto.EliminarProductoResponse{
		Message: "Producto eliminado correctamente",
		Product: productoToResponse(p),
	}, nil
}

// ─── Helpers compartidos por los servicios ───────────────────────────────────

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		StockMinimo: p.StockMinimo,
		StockBajo:   stock.Bajo(p.Stock, p.StockMinimo),
		SinStock:    stock.SinStock(p.Stock),
		EstadoStock: stock.EstadoDe(p.Stock, p.StockMinimo),
	}
}

func mapRepoError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Producto no encontrado")
	}
	return apperr.Storage(err)
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
