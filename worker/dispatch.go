package worker // import "github.com/niktanya/telegram-book-bot/worker"

import (
	"sync"

	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
)

// DispatchPool fans inbound chat events out to a fixed set of
// workers. A user is always routed to the same worker, so turns of
// one user run strictly in order while different users progress
// concurrently, including while one of them is suspended on a slow
// store or completion call.
type DispatchPool struct {
	queues []chan model.Job
	wg     sync.WaitGroup
}

func NewDispatchPool(size int, handle func(model.Job)) *DispatchPool {
	if size < 1 {
		size = 1
	}
	pool := &DispatchPool{
		queues: make([]chan model.Job, size),
	}

	for i := 0; i < size; i++ {
		queue := make(chan model.Job, 16)
		pool.queues[i] = queue
		pool.wg.Add(1)

		worker := &dispatchWorker{id: i, handle: handle}
		go func() {
			defer pool.wg.Done()
			worker.Run(queue)
		}()
	}

	return pool
}

// Push routes the job to its user's worker.
func (p *DispatchPool) Push(job model.Job) {
	idx := int(uint64(job.UserID) % uint64(len(p.queues)))
	p.queues[idx] <- job
}

// Shutdown closes the queues and waits for in-flight jobs to finish.
func (p *DispatchPool) Shutdown() {
	for _, q := range p.queues {
		close(q)
	}
	p.wg.Wait()
}

type dispatchWorker struct {
	id     int
	handle func(model.Job)
}

func (w *dispatchWorker) Run(c <-chan model.Job) {
	log.Debug("Dispatch worker is running", zap.Int("worker_id", w.id))

	for job := range c {
		log.Debug("Job received by worker",
			zap.Int("worker_id", w.id),
			zap.Int64("user_id", job.UserID))
		w.handle(job)
	}
}
