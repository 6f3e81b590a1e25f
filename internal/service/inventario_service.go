package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"inventario/internal/apperr"
	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/repository"
	"inventario/internal/stock"
	"inventario/internal/worker"
)

const motivoSinEspecificar = "No especificado"

// InventarioService agrupa las operaciones de inventario sobre el conjunto de
// productos: dashboard, selectores de stock, ajuste de stock y umbral mínimo.
type InventarioService interface {
	Dashboard(ctx context.Context) (*dto.DashboardInventario, error)
	StockBajo(ctx context.Context) (*dto.ProductosStockBajoResponse, error)
	SinStock(ctx context.Context) (*dto.ProductosSinStockResponse, error)
	ProximosBajoStock(ctx context.Context) (*dto.ProductosProximoBajoResponse, error)
	Criticos(ctx context.Context) (*dto.ProductosCriticosResponse, error)
	TopPorStock(ctx context.Context, limit int) (*dto.ProductosTopStockResponse, error)
	Buscar(ctx context.Context, term string) (*dto.BusquedaResponse, error)
	AjustarStock(ctx context.Context, id uint, req dto.AjustarStockRequest) (*dto.AjustarStockResponse, error)
	ActualizarStockMinimo(ctx context.Context, id uint, stockMinimo int) (*dto.StockMinimoResponse, error)
	Movimientos(ctx context.Context, productoID uint) (*dto.MovimientosStockResponse, error)
}

type inventarioService struct {
	repo        repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
	dispatcher  *worker.Dispatcher // nil deshabilita las alertas asíncronas
}

func NewInventarioService(
	repo repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{repo: repo, movimientos: movimientos, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

func (s *inventarioService) Dashboard(ctx context.Context) (*dto.DashboardInventario, error) {
	productos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return calcularDashboard(productos), nil
}

// calcularDashboard es una agregación pura: con entrada vacía devuelve todos
// los contadores en 0 y omite los porcentajes (guardia de división por cero).
// Los contadores por estado particionan el conjunto:
// sin_stock + stock_bajo + stock_ok == total.
func calcularDashboard(productos []model.Producto) *dto.DashboardInventario {
	d := &dto.DashboardInventario{
		TotalProductos:       len(productos),
		ValorTotalInventario: decimal.Zero,
	}
	if len(productos) == 0 {
		return d
	}

	totalUnidades := 0
	minStock, maxStock := productos[0].Stock, productos[0].Stock
	valor := decimal.Zero
	for i := range productos {
		p := &productos[i]
		switch {
		case p.Stock == 0:
			d.ProductosSinStock++
		case p.Stock < p.StockMinimo:
			d.ProductosStockBajo++
		default:
			d.ProductosStockOK++
		}
		totalUnidades += p.Stock
		valor = valor.Add(p.Precio.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.Stock < minStock {
			minStock = p.Stock
		}
		if p.Stock > maxStock {
			maxStock = p.Stock
		}
	}

	d.TotalUnidadesInventario = totalUnidades
	d.ValorTotalInventario = valor
	d.PromedioStock = stock.Redondear2(float64(totalUnidades) / float64(len(productos)))
	d.StockMinimoActual = minStock
	d.StockMaximoActual = maxStock

	total := float64(len(productos))
	d.PorcentajeSinStock = porcentajeDe(d.ProductosSinStock, total)
	d.PorcentajeStockBajo = porcentajeDe(d.ProductosStockBajo, total)
	d.PorcentajeStockOK = porcentajeDe(d.ProductosStockOK, total)
	return d
}

func porcentajeDe(count int, total float64) *float64 {
	v := stock.Redondear2(float64(count) / total * 100)
	return &v
}

// ─── Selectores ──────────────────────────────────────────────────────────────

func (s *inventarioService) StockBajo(ctx context.Context) (*dto.ProductosStockBajoResponse, error) {
	productos, err := s.repo.FindStockBajo(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	items := make([]dto.ProductoStockBajoResponse, 0, len(productos))
	for i := range productos {
		p := &productos[i]
		items = append(items, dto.ProductoStockBajoResponse{
			ProductoResponse:  productoToResponse(p),
			UnidadesFaltantes: p.StockMinimo - p.Stock,
			PorcentajeStock:   stock.Porcentaje(p.Stock, p.StockMinimo),
		})
	}
	return &dto.ProductosStockBajoResponse{Count: len(items), Products: items}, nil
}

func (s *inventarioService) SinStock(ctx context.Context) (*dto.ProductosSinStockResponse, error) {
	productos, err := s.repo.FindSinStock(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, productoToResponse(&productos[i]))
	}
	return &dto.ProductosSinStockResponse{Count: len(items), Products: items}, nil
}

func (s *inventarioService) ProximosBajoStock(ctx context.Context) (*dto.ProductosProximoBajoResponse, error) {
	productos, err := s.repo.FindProximosBajoStock(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	items := make([]dto.ProductoProximoBajoResponse, 0, len(productos))
	for i := range productos {
		p := &productos[i]
		items = append(items, dto.ProductoProximoBajoResponse{
			ProductoResponse:  productoToResponse(p),
			UmbralAdvertencia: stock.UmbralAdvertencia(p.StockMinimo),
			MargenSeguridad:   p.Stock - p.StockMinimo,
		})
	}
	return &dto.ProductosProximoBajoResponse{
		Count:    len(items),
		Products: items,
		Mensaje:  "Productos con stock dentro del 20% por encima del mínimo",
	}, nil
}

func (s *inventarioService) Criticos(ctx context.Context) (*dto.ProductosCriticosResponse, error) {
	productos, err := s.repo.FindCriticos(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	items := make([]dto.ProductoCriticoResponse, 0, len(productos))
	for i := range productos {
		p := &productos[i]
		items = append(items, dto.ProductoCriticoResponse{
			ProductoResponse:    productoToResponse(p),
			NivelCriticidad:     stock.CriticidadDe(p.Stock, p.StockMinimo),
			UnidadesParaReponer: p.StockMinimo - p.Stock,
		})
	}
	alerta := "Todos los productos tienen stock adecuado"
	if len(items) > 0 {
		alerta = "Hay productos que requieren atención inmediata"
	}
	return &dto.ProductosCriticosResponse{Count: len(items), Products: items, Alerta: alerta}, nil
}

func (s *inventarioService) TopPorStock(ctx context.Context, limit int) (*dto.ProductosTopStockResponse, error) {
	productos, err := s.repo.FindTopPorStock(ctx, limit)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	items := make([]dto.ProductoTopStockResponse, 0, len(productos))
	for i := range productos {
		p := &productos[i]
		items = append(items, dto.ProductoTopStockResponse{
			ProductoResponse: productoToResponse(p),
			ValorInventario:  p.Precio.Mul(decimal.NewFromInt(int64(p.Stock))),
		})
	}
	return &dto.ProductosTopStockResponse{Count: len(items), Products: items}, nil
}

func (s *inventarioService) Buscar(ctx context.Context, term string) (*dto.BusquedaResponse, error) {
	productos, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, productoToResponse(&productos[i]))
	}
	return &dto.BusquedaResponse{Count: len(items), SearchTerm: term, Products: items}, nil
}

// ─── Ajuste de stock ─────────────────────────────────────────────────────────

// AjustarStock aplica el delta con un UPDATE condicional atómico y registra el
// movimiento en la misma transacción. En cualquier fallo el stock queda
// intacto.
func (s *inventarioService) AjustarStock(ctx context.Context, id uint, req dto.AjustarStockRequest) (*dto.AjustarStockResponse, error) {
	motivo := req.Motivo
	if motivo == "" {
		motivo = motivoSinEspecificar
	}

	var actualizado *model.Producto
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.AjustarStockTx(ctx, tx, id, req.Cantidad)
		if err != nil {
			var insuf *repository.StockInsuficienteError
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return apperr.NotFound("Producto no encontrado")
			case errors.As(err, &insuf):
				return apperr.StockInsuficiente(insuf.StockActual, abs(req.Cantidad))
			default:
				return apperr.Storage(err)
			}
		}
		actualizado = p

		mov := &model.MovimientoStock{
			ProductoID:    id,
			Tipo:          "ajuste_manual",
			Cantidad:      req.Cantidad,
			StockAnterior: p.Stock - req.Cantidad,
			StockNuevo:    p.Stock,
			Motivo:        motivo,
		}
		if err := s.movimientos.CreateTx(tx, mov); err != nil {
			return apperr.Storage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	alerta := stock.AlertaDe(actualizado.Stock, actualizado.StockMinimo)
	if s.dispatcher != nil && (alerta.StockBajo || alerta.SinStock) {
		payload := worker.AlertaStockPayload{
			ProductoID:  actualizado.ID,
			Nombre:      actualizado.Nombre,
			Stock:       actualizado.Stock,
			StockMinimo: actualizado.StockMinimo,
			SinStock:    alerta.SinStock,
		}
		if err := s.dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Warn().Err(err).Uint("producto_id", actualizado.ID).Msg("no se pudo encolar la alerta de stock")
		}
	}

	return &dto.AjustarStockResponse{
		Message:  fmt.Sprintf("Stock ajustado %+d unidades", req.Cantidad),
		Producto: productoToResponse(actualizado),
		Ajuste: dto.AjusteDetalle{
			Cantidad:      req.Cantidad,
			Motivo:        motivo,
			StockAnterior: actualizado.Stock - req.Cantidad,
			StockNuevo:    actualizado.Stock,
			Diferencia:    req.Cantidad,
		},
		Alerta: alerta,
	}, nil
}

// ─── Stock mínimo ────────────────────────────────────────────────────────────

func (s *inventarioService) ActualizarStockMinimo(ctx context.Context, id uint, stockMinimo int) (*dto.StockMinimoResponse, error) {
	p, err := s.repo.ActualizarStockMinimo(ctx, id, stockMinimo)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return &dto.StockMinimoResponse{
		Message: "Stock mínimo actualizado correctamente",
		Product: productoToResponse(p),
	}, nil
}

// ─── Movimientos ─────────────────────────────────────────────────────────────

func (s *inventarioService) Movimientos(ctx context.Context, productoID uint) (*dto.MovimientosStockResponse, error) {
	if _, err := s.repo.FindByID(ctx, productoID); err != nil {
		return nil, mapRepoError(err)
	}
	movimientos, err := s.movimientos.FindByProductoID(ctx, productoID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	items := make([]dto.MovimientoStockResponse, 0, len(movimientos))
	for i := range movimientos {
		m := &movimientos[i]
		items = append(items, dto.MovimientoStockResponse{
			ID:            m.ID,
			ProductoID:    m.ProductoID,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.MovimientosStockResponse{Count: len(items), Movimientos: items}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
