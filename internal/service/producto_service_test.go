package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventario/internal/apperr"
	"inventario/internal/dto"
	"inventario/internal/service"
	"inventario/internal/stock"
)

func intPtr(v int) *int { return &v }

func decPtr(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestCrearProductoConDefaults(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre: "Yerba Mate 1kg",
		Precio: decPtr(3500),
	})
	require.NoError(t, err)

	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Yerba Mate 1kg", resp.Nombre)
	// defaults: stock 0, minimo 5
	assert.Equal(t, 0, resp.Stock)
	assert.Equal(t, 5, resp.StockMinimo)
	assert.True(t, resp.SinStock)
	assert.Equal(t, stock.EstadoSinStock, resp.EstadoStock)
}

func TestCrearProductoConCeroExplicito(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)

	// un 0 explicito en stock_minimo no debe reemplazarse por el default 5
	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:      "Sal fina",
		Precio:      decPtr(800),
		Stock:       intPtr(0),
		StockMinimo: intPtr(0),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.StockMinimo)
	assert.True(t, resp.SinStock)
	// con minimo 0 el producto sin stock no cuenta como bajo
	assert.False(t, resp.StockBajo)
}

func TestListarOrdenaPorEstado(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)

	seedProducto(repo, "Sano", 1, 20, 5)
	seedProducto(repo, "Agotado", 1, 0, 5)
	seedProducto(repo, "Bajo", 1, 2, 5)

	resp, err := svc.Listar(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "Agotado", resp.Products[0].Nombre)
	assert.Equal(t, "Bajo", resp.Products[1].Nombre)
	assert.Equal(t, "Sano", resp.Products[2].Nombre)
}

func TestObtenerPorIDNoExiste(t *testing.T) {
	svc := service.NewProductoService(newStubProductoRepo())

	_, err := svc.ObtenerPorID(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.EqualError(t, err, "Producto no encontrado")
}

func TestActualizarReemplazaTodosLosCampos(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)
	desc := "Paquete de 500g"
	p := seedProducto(repo, "Fideos", 1000, 30, 5)
	p.Descripcion = &desc

	// PUT sin description ni stock_minimo: ambos vuelven a su valor por defecto
	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		Nombre: "Fideos tirabuzón",
		Precio: decPtr(1250),
		Stock:  intPtr(28),
	})
	require.NoError(t, err)

	assert.Equal(t, "Fideos tirabuzón", resp.Nombre)
	assert.Nil(t, resp.Descripcion)
	assert.Equal(t, "1250", resp.Precio.String())
	assert.Equal(t, 28, resp.Stock)
	assert.Equal(t, 5, resp.StockMinimo)
}

func TestActualizarNoExiste(t *testing.T) {
	svc := service.NewProductoService(newStubProductoRepo())

	_, err := svc.Actualizar(context.Background(), 77, dto.ActualizarProductoRequest{
		Nombre: "Fantasma",
		Precio: decPtr(1),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestEliminarDevuelveInstantanea(t *testing.T) {
	repo := newStubProductoRepo()
	svc := service.NewProductoService(repo)
	p := seedProducto(repo, "Descontinuado", 500, 7, 5)

	resp, err := svc.Eliminar(context.Background(), p.ID)
	require.NoError(t, err)

	assert.Equal(t, "Producto eliminado correctamente", resp.Message)
	assert.Equal(t, "Descontinuado", resp.Product.Nombre)
	assert.Equal(t, 7, resp.Product.Stock)

	// ya no se puede consultar
	_, err = svc.ObtenerPorID(context.Background(), p.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestEliminarNoExiste(t *testing.T) {
	svc := service.NewProductoService(newStubProductoRepo())

	_, err := svc.Eliminar(context.Background(), 31)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
