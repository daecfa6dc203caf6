// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"time"

	"redrecon/internal/core/ports"
	"redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
)

// ErrPoolStopped se entrega cuando se envía trabajo a un pool detenido.
var ErrPoolStopped = errors.New("worker pool stopped")

// task es una unidad de trabajo bloqueante con su canal de respuesta.
type task struct {
	ctx   context.Context
	name  string
	fn    func(ctx context.Context) (any, error)
	reply chan ports.TaskResult
}

// WorkerPool ejecuta llamadas bloqueantes (resolvers síncronos, whois) en un
// número fijo de goroutines para no saturar el proceso con probes que
// lanzan muchas sub-consultas.
type WorkerPool struct {
	workers int
	logger  logx.Logger

	taskQueue chan task

	mu      sync.RWMutex
	started bool
	stopped bool

	wg sync.WaitGroup
}

// WorkerPoolConfig configura el worker pool.
type WorkerPoolConfig struct {
	Workers   int
	QueueSize int
	Logger    logx.Logger
}

// DefaultWorkers retorna min(32, NumCPU+4).
func DefaultWorkers() int {
	n := runtime.NumCPU() + 4
	if n > 32 {
		n = 32
	}
	return n
}

// NewWorkerPool crea un nuevo worker pool.
func NewWorkerPool(cfg WorkerPoolConfig) *WorkerPool {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 2
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	return &WorkerPool{
		workers:   cfg.Workers,
		logger:    cfg.Logger.With("component", "worker-pool"),
		taskQueue: make(chan task, cfg.QueueSize),
	}
}

// Start inicia los workers. Idempotente.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.started || wp.stopped {
		return
	}
	wp.started = true

	wp.logger.Debug("starting worker pool", "workers", wp.workers)
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// worker es el goroutine que procesa tareas hasta que se cierra la cola.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for t := range wp.taskQueue {
		wp.executeTask(id, t)
	}
	wp.logger.Debug("worker stopped", "worker_id", id)
}

// executeTask ejecuta una tarea individual, convirtiendo panics en errores.
func (wp *WorkerPool) executeTask(workerID int, t task) {
	start := time.Now()
	res := ports.TaskResult{Name: t.name}

	if err := t.ctx.Err(); err != nil {
		res.Err = err
	} else {
		func() {
			defer func() {
				if r := recover(); r != nil {
					res.Err = errors.Recovered(r)
					wp.logger.Warn("task panicked", "task", t.name, "panic", r)
				}
			}()
			res.Value, res.Err = t.fn(t.ctx)
		}()
	}

	res.Duration = time.Since(start)
	wp.logger.Debug("task completed",
		"worker_id", workerID,
		"task", t.name,
		"duration_ms", res.Duration.Milliseconds(),
		"error", res.Err != nil,
	)

	// reply tiene buffer 1: nunca bloquea
	t.reply <- res
}

// Submit encola fn y retorna un canal que recibirá exactamente un resultado.
// Si el pool no se inició, se inicia de forma perezosa.
func (wp *WorkerPool) Submit(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) <-chan ports.TaskResult {
	reply := make(chan ports.TaskResult, 1)

	wp.Start()

	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		reply <- ports.TaskResult{Name: name, Err: ErrPoolStopped}
		return reply
	}

	select {
	case wp.taskQueue <- task{ctx: ctx, name: name, fn: fn, reply: reply}:
	case <-ctx.Done():
		reply <- ports.TaskResult{Name: name, Err: ctx.Err()}
	}
	return reply
}

// Stop cierra la cola y espera a que los workers terminen lo pendiente.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.taskQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.logger.Debug("worker pool stopped")
}

// Stats retorna estadísticas del worker pool.
func (wp *WorkerPool) Stats() WorkerPoolStats {
	return WorkerPoolStats{
		Workers:   wp.workers,
		QueueSize: len(wp.taskQueue),
	}
}

// WorkerPoolStats contiene estadísticas del worker pool.
type WorkerPoolStats struct {
	Workers   int
	QueueSize int
}

var _ ports.Offloader = (*WorkerPool)(nil)
