package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inventario/internal/model"
	"inventario/internal/repository"
)

// setupDB abre una base SQLite en memoria con el esquema migrado. Cada test
// recibe una base limpia.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Producto{}, &model.MovimientoStock{}))
	return db
}

func crearProducto(t *testing.T, repo repository.ProductoRepository, nombre string, precio float64, stock, stockMin int) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Nombre:      nombre,
		Precio:      decimal.NewFromFloat(precio),
		Stock:       stock,
		StockMinimo: stockMin,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func nombres(productos []model.Producto) []string {
	out := make([]string, 0, len(productos))
	for _, p := range productos {
		out = append(out, p.Nombre)
	}
	return out
}

func TestCreateYFindByID(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	desc := "Paquete 1kg"
	p := &model.Producto{
		Nombre:      "Yerba",
		Descripcion: &desc,
		Precio:      decimal.NewFromFloat(3500.50),
		Stock:       10,
		StockMinimo: 5,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	require.NotZero(t, p.ID)

	got, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yerba", got.Nombre)
	require.NotNil(t, got.Descripcion)
	assert.Equal(t, "Paquete 1kg", *got.Descripcion)
	assert.True(t, got.Precio.Equal(decimal.NewFromFloat(3500.50)))
}

func TestFindByIDNoExiste(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))

	_, err := repo.FindByID(context.Background(), 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestFindAllPorEstadoOrdenaPorSeveridad(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	crearProducto(t, repo, "Sano", 1, 20, 5)
	crearProducto(t, repo, "Agotado", 1, 0, 5)
	crearProducto(t, repo, "Bajo", 1, 3, 5)
	crearProducto(t, repo, "Agotado2", 1, 0, 10)

	productos, err := repo.FindAllPorEstado(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Agotado", "Agotado2", "Bajo", "Sano"}, nombres(productos))
}

func TestDeleteDevuelveInstantanea(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	p := crearProducto(t, repo, "Viejo", 10, 7, 5)

	snapshot, err := repo.Delete(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Viejo", snapshot.Nombre)
	assert.Equal(t, 7, snapshot.Stock)

	_, err = repo.FindByID(context.Background(), p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteNoExiste(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))

	_, err := repo.Delete(context.Background(), 123)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestFindStockBajoFiltraYOrdena(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	crearProducto(t, repo, "Agotado", 1, 0, 10)   // fuera: sin stock
	crearProducto(t, repo, "CasiOK", 1, 4, 5)     // faltante 1
	crearProducto(t, repo, "MuyFalto", 1, 2, 10)  // faltante 8
	crearProducto(t, repo, "Suficiente", 1, 5, 5) // fuera: no bajo

	productos, err := repo.FindStockBajo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"MuyFalto", "CasiOK"}, nombres(productos))
}

func TestFindSinStock(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	crearProducto(t, repo, "Agotado", 1, 0, 5)
	crearProducto(t, repo, "Vivo", 1, 1, 5)
	crearProducto(t, repo, "Agotado2", 1, 0, 0)

	productos, err := repo.FindSinStock(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Agotado", "Agotado2"}, nombres(productos))
}

func TestFindProximosBajoStockLimites(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	crearProducto(t, repo, "EnLaFranja", 1, 6, 5)     // 5 < 6 <= 6.0
	crearProducto(t, repo, "FueraPorArriba", 1, 7, 5) // 7 > 6.0
	crearProducto(t, repo, "EnElMinimo", 1, 5, 5)     // stock debe superar el minimo
	crearProducto(t, repo, "Holgado", 1, 12, 10)      // 10 < 12 <= 12.0

	productos, err := repo.FindProximosBajoStock(context.Background())
	require.NoError(t, err)

	// orden: margen sobre el minimo ascendente
	assert.Equal(t, []string{"EnLaFranja", "Holgado"}, nombres(productos))
}

func TestFindCriticosOrdenaPorSeveridad(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	crearProducto(t, repo, "Advertencia", 1, 4, 5)
	crearProducto(t, repo, "Agotado", 1, 0, 5)
	crearProducto(t, repo, "MuyBajo", 1, 2, 5)
	crearProducto(t, repo, "MitadExacta", 1, 5, 10) // 5*2 = 10: advertencia, no muy bajo
	crearProducto(t, repo, "Sano", 1, 9, 5)

	productos, err := repo.FindCriticos(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Agotado", "MuyBajo", "Advertencia", "MitadExacta"}, nombres(productos))
}

func TestFindTopPorStock(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	crearProducto(t, repo, "Mediano", 1, 10, 5)
	crearProducto(t, repo, "Grande", 1, 50, 5)
	crearProducto(t, repo, "Chico", 1, 1, 5)

	productos, err := repo.FindTopPorStock(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"Grande", "Mediano"}, nombres(productos))
}

func TestSearchInsensibleAMayusculas(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	desc := "Botella retornable de vidrio"
	p := &model.Producto{
		Nombre:      "Gaseosa Cola",
		Descripcion: &desc,
		Precio:      decimal.NewFromFloat(2),
		Stock:       10,
		StockMinimo: 5,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	crearProducto(t, repo, "Agua Mineral", 1, 10, 5)

	productos, err := repo.Search(context.Background(), "COLA")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gaseosa Cola"}, nombres(productos))

	// tambien matchea en la descripcion
	productos, err = repo.Search(context.Background(), "retornable")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gaseosa Cola"}, nombres(productos))

	// sin coincidencias devuelve vacio
	productos, err = repo.Search(context.Background(), "inexistente")
	require.NoError(t, err)
	assert.Empty(t, productos)
}

func TestAjustarStockTxAplicaDelta(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	p := crearProducto(t, repo, "Azucar", 3, 10, 5)

	got, err := repo.AjustarStockTx(context.Background(), nil, p.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Stock)

	got, err = repo.AjustarStockTx(context.Background(), nil, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Stock)
}

func TestAjustarStockTxRechazaNegativo(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	p := crearProducto(t, repo, "Aceite", 7, 3, 5)

	_, err := repo.AjustarStockTx(context.Background(), nil, p.ID, -10)
	require.Error(t, err)

	var insuf *repository.StockInsuficienteError
	require.True(t, errors.As(err, &insuf))
	assert.Equal(t, 3, insuf.StockActual)

	// el stock queda intacto
	got, err := repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}

func TestAjustarStockTxHastaCeroExacto(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	p := crearProducto(t, repo, "Harina", 1, 3, 5)

	got, err := repo.AjustarStockTx(context.Background(), nil, p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestAjustarStockTxNoExiste(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))

	_, err := repo.AjustarStockTx(context.Background(), nil, 999, 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestActualizarStockMinimoRepo(t *testing.T) {
	repo := repository.NewProductoRepository(setupDB(t))
	p := crearProducto(t, repo, "Fideos", 2, 10, 5)

	got, err := repo.ActualizarStockMinimo(context.Background(), p.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, got.StockMinimo)
	assert.Equal(t, 10, got.Stock)

	_, err = repo.ActualizarStockMinimo(context.Background(), 999, 1)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestMovimientosSeListanDelMasReciente(t *testing.T) {
	db := setupDB(t)
	productos := repository.NewProductoRepository(db)
	movimientos := repository.NewMovimientoStockRepository(db)
	p := crearProducto(t, productos, "Arroz", 1.5, 10, 5)

	for i, delta := range []int{-2, 5, -1} {
		mov := &model.MovimientoStock{
			ProductoID:    p.ID,
			Tipo:          "ajuste_manual",
			Cantidad:      delta,
			StockAnterior: 10,
			StockNuevo:    10 + delta,
			Motivo:        "test",
		}
		require.NoError(t, movimientos.CreateTx(nil, mov), "movimiento %d", i)
	}

	lista, err := movimientos.FindByProductoID(context.Background(), p.ID)
	require.NoError(t, err)

	require.Len(t, lista, 3)
	assert.Equal(t, -1, lista[0].Cantidad)
	assert.Equal(t, 5, lista[1].Cantidad)
	assert.Equal(t, -2, lista[2].Cantidad)
}
