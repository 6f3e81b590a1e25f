// Package worker encola y consume alertas de stock de forma asíncrona.
// El ajuste de stock publica una alerta cuando el producto queda bajo o sin
// stock; un pool de goroutines la consume vía BRPOP y la registra.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueAlertasStock = "jobs:alertas_stock"

// Job is the generic envelope for queued tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AlertaStockPayload describe un producto que quedó bajo o sin stock tras un
// ajuste.
type AlertaStockPayload struct {
	ProductoID  uint   `json:"producto_id"`
	Nombre      string `json:"nombre"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
	SinStock    bool   `json:"sin_stock"`
}

// Dispatcher enqueues alerts into a Redis list. The worker pool dequeues them
// via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

// EnqueueAlertaStock publica una alerta. Best-effort: el ajuste ya se
// confirmó, un fallo aquí solo pierde la notificación.
func (d *Dispatcher) EnqueueAlertaStock(ctx context.Context, payload AlertaStockPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: "alerta_stock", Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueAlertasStock, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAlertasStock).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processAlerta(result[1])
		}
	}
}

func processAlerta(raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal alert job")
		return
	}
	var alerta AlertaStockPayload
	if err := json.Unmarshal(job.Payload, &alerta); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal alert payload")
		return
	}

	evt := log.Warn().
		Uint("producto_id", alerta.ProductoID).
		Str("nombre", alerta.Nombre).
		Int("stock", alerta.Stock).
		Int("stock_minimo", alerta.StockMinimo)
	if alerta.SinStock {
		evt.Msg("producto sin stock")
		return
	}
	evt.Msg("producto con stock bajo")
}
