// Package delivery в фоне выдает доступы из пула по оплаченным заказам с автоматической выдачей.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/metrics"
	"github.com/fsdevblog/luffy-streaming/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultDeliverTimeout         = 10 * time.Second
	defaultLimitPerIteration uint = 50
	defaultWorkers           uint = 4
	defaultIdleInterval           = 5 * time.Second
)

// Processor периодически добирает заказы, по которым в пуле появились доступы, и выдает их.
type Processor struct {
	svs               Servicer
	m                 *metrics.Metrics
	l                 *logrus.Entry
	limitPerIteration uint
	workers           uint
	idleInterval      time.Duration
}

// New создает новый экземпляр процессора выдачи.
func New(svs Servicer, m *metrics.Metrics, l *logrus.Logger) *Processor {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "delivery",
		"module":    "processor",
	})

	return &Processor{
		svs:               svs,
		m:                 m,
		l:                 loggerEntry,
		limitPerIteration: defaultLimitPerIteration,
		workers:           defaultWorkers,
		idleInterval:      defaultIdleInterval,
	}
}

// SetLimitPerIteration устанавливает кол-во заказов, обрабатываемых в одной итерации.
func (p *Processor) SetLimitPerIteration(limit uint) *Processor {
	if limit > 0 {
		p.limitPerIteration = limit
	}
	return p
}

// SetWorkers устанавливает кол-во воркеров, параллельно выдающих доступы.
func (p *Processor) SetWorkers(workers uint) *Processor {
	if workers > 0 {
		p.workers = workers
	}
	return p
}

// SetIdleInterval устанавливает паузу между итерациями, когда выдавать нечего.
func (p *Processor) SetIdleInterval(d time.Duration) *Processor {
	if d > 0 {
		p.idleInterval = d
	}
	return p
}

// Run крутит цикл выдачи до отмены контекста.
//
// Каждая итерация:
//  1. Запрашивает через сервисный слой id заказов в статусе PROCESSING, по которым есть что выдать.
//  2. Раздает их N воркерам (SetWorkers), каждый вызывает AutoDeliver в своей транзакции.
//  3. Если заказов нет или произошла ошибка, спит idleInterval с небольшим разбросом, чтобы
//     несколько инстансов не ходили в БД синхронно.
func (p *Processor) Run(ctx context.Context) {
	p.l.WithFields(logrus.Fields{
		"limitPerIteration": p.limitPerIteration,
		"workers":           p.workers,
		"idleInterval":      p.idleInterval,
	}).Info("Starting")

	for {
		err := p.process(ctx)
		if err == nil {
			if ctx.Err() != nil {
				p.l.Info("Got stop signal, exiting...")
				return
			}
			continue
		}
		if !errors.Is(err, ErrNoOrders) && ctx.Err() == nil {
			p.l.WithError(err).Error("process error")
		}

		select {
		case <-ctx.Done():
			p.l.Info("Got stop signal, exiting...")
			return
		case <-time.After(p.pause()):
		}
	}
}

func (p *Processor) pause() time.Duration {
	jitter := time.Duration(rand.Int64N(int64(p.idleInterval)/5 + 1)) //nolint:gosec
	return p.idleInterval + jitter
}

// process выполняет одну итерацию выдачи. Возвращает ErrNoOrders, если выдавать нечего.
func (p *Processor) process(ctx context.Context) error {
	ids, idsErr := p.produce(ctx)
	if idsErr != nil {
		return fmt.Errorf("process: %w", idsErr)
	}

	results := p.runWorkers(ctx, ids)

	var progressed bool
	for _, result := range results {
		l := p.l.WithFields(logrus.Fields{
			"worker":  result.WorkerID,
			"orderID": result.OrderID,
		})
		switch {
		case result.Error != nil:
			p.m.ObserveDelivery(metrics.DeliveryFailed, 0)
			l.WithError(result.Error).Error("auto deliver order")
		case result.Completed:
			progressed = true
			p.m.ObserveDelivery(metrics.DeliveryCompleted, len(result.Delivered))
			l.WithField("items", len(result.Delivered)).Info("Order completed")
		case len(result.Delivered) > 0:
			progressed = true
			p.m.ObserveDelivery(metrics.DeliveryDelivered, len(result.Delivered))
			l.WithField("items", len(result.Delivered)).Info("Partially delivered")
		default:
			p.m.ObserveDelivery(metrics.DeliveryIdle, 0)
			l.Debug("Nothing to deliver")
		}
	}

	// без прогресса повторная выборка вернет те же заказы, поэтому считаем итерацию холостой.
	if !progressed {
		return ErrNoOrders
	}
	return nil
}

// workerResult результат выдачи по одному заказу.
type workerResult struct {
	WorkerID  uint
	OrderID   int64
	Delivered []int64
	Completed bool
	Error     error
}

// runWorkers раздает заказы воркерам и ожидает конца их работы (fan-out/fan-in).
func (p *Processor) runWorkers(ctx context.Context, ids []int64) []workerResult {
	var taskCh = make(chan int64, len(ids))
	for _, id := range ids {
		taskCh <- id
	}
	close(taskCh)

	workers := min(p.workers, uint(len(ids))) //nolint:gosec

	wg := new(sync.WaitGroup)
	wg.Add(int(workers)) //nolint:gosec

	var resultCh = make(chan workerResult, len(ids))
	for i := range workers {
		go p.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()
	close(resultCh)

	var results = make([]workerResult, 0, len(ids))
	for result := range resultCh {
		results = append(results, result)
	}
	return results
}

func (p *Processor) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan int64,
	resultCh chan<- workerResult,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case orderID, ok := <-taskCh:
			if !ok {
				return
			}
			resultCh <- p.deliver(ctx, workerID, orderID)
		}
	}
}

func (p *Processor) deliver(ctx context.Context, workerID uint, orderID int64) workerResult {
	reqCtx, cancel := context.WithTimeout(ctx, defaultDeliverTimeout)
	defer cancel()

	result := workerResult{WorkerID: workerID, OrderID: orderID}
	res, err := p.svs.AutoDeliver(reqCtx, orderID)
	if err != nil {
		result.Error = err
		return result
	}
	result.Delivered = res.Delivered
	result.Completed = res.Completed
	return result
}

// produce получает id заказов для выдачи. Возвращает ErrNoOrders, если их нет.
func (p *Processor) produce(ctx context.Context) ([]int64, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	ids, idsErr := p.svs.OrdersForAutoDelivery(produceCtx, p.limitPerIteration)
	if idsErr != nil {
		return nil, fmt.Errorf("produce: %w", idsErr)
	}
	if len(ids) == 0 {
		return nil, ErrNoOrders
	}
	return ids, nil
}

var _ Servicer = (*service.OrderService)(nil)
