// Package stock contiene la clasificación derivada del estado de inventario.
// Todas las funciones son puras y totales sobre (stock, stockMinimo) ≥ 0:
// no tienen efectos secundarios y nunca devuelven error.
package stock

import "math"

// Estado is the coarse stock state attached to product listings.
type Estado string

const (
	EstadoSinStock Estado = "SIN_STOCK"
	EstadoBajo     Estado = "STOCK_BAJO"
	EstadoOK       Estado = "OK"
)

// Criticidad is the four-level classification used by the critical listing.
// Priority is fixed: sin stock > muy bajo > advertencia > normal.
type Criticidad string

const (
	CriticidadSinStock    Criticidad = "CRÍTICO - SIN STOCK"
	CriticidadMuyBajo     Criticidad = "CRÍTICO - MUY BAJO"
	CriticidadAdvertencia Criticidad = "ADVERTENCIA - BAJO"
	CriticidadNormal      Criticidad = "NORMAL"
)

// Alerta acompaña la respuesta de un ajuste de stock exitoso.
type Alerta struct {
	StockBajo bool `json:"stock_bajo"`
	SinStock  bool `json:"sin_stock"`
}

func SinStock(stock int) bool { return stock == 0 }

// Bajo reporta si el stock está por debajo del umbral de reposición.
// Un producto sin stock también es bajo siempre que stockMinimo > 0.
func Bajo(stock, stockMinimo int) bool { return stock < stockMinimo }

func EstadoDe(stock, stockMinimo int) Estado {
	switch {
	case stock == 0:
		return EstadoSinStock
	case stock < stockMinimo:
		return EstadoBajo
	default:
		return EstadoOK
	}
}

// CriticidadDe clasifica un producto. "Muy bajo" significa stock por debajo de
// la mitad del mínimo; la comparación stock*2 < stockMinimo es la forma entera
// exacta de stock < stockMinimo*0.5.
func CriticidadDe(stock, stockMinimo int) Criticidad {
	switch {
	case stock == 0:
		return CriticidadSinStock
	case stock*2 < stockMinimo:
		return CriticidadMuyBajo
	case stock < stockMinimo:
		return CriticidadAdvertencia
	default:
		return CriticidadNormal
	}
}

// RangoSeveridad es la clave primaria de orden para listados por severidad:
// 1 = sin stock, 2 = debajo de la mitad del mínimo, 3 = resto. Los listados
// desempatan por stock ascendente y luego id ascendente.
func RangoSeveridad(stock, stockMinimo int) int {
	switch {
	case stock == 0:
		return 1
	case stock*2 < stockMinimo:
		return 2
	default:
		return 3
	}
}

// Porcentaje devuelve stock/stockMinimo*100 redondeado a 2 decimales.
// Con stockMinimo == 0 devuelve 0 para que la función siga siendo total.
func Porcentaje(stock, stockMinimo int) float64 {
	if stockMinimo == 0 {
		return 0
	}
	return Redondear2(float64(stock) / float64(stockMinimo) * 100)
}

// UmbralAdvertencia es el techo del selector "próximo a stock bajo":
// 20% por encima del mínimo.
func UmbralAdvertencia(stockMinimo int) float64 {
	return float64(stockMinimo) * 1.2
}

func AlertaDe(stock, stockMinimo int) Alerta {
	return Alerta{StockBajo: Bajo(stock, stockMinimo), SinStock: SinStock(stock)}
}

// Redondear2 redondea a 2 decimales.
func Redondear2(v float64) float64 { return math.Round(v*100) / 100 }
