package memory

import (
	"context"

	"github.com/pixelgrid-network/pixelgrid/modules/canvas/internal/entity"
)

func (r *Repository) PushJob(ctx context.Context, job entity.QueueJob) error {
	r.queueMu.Lock()
	defer r.queueMu.Unlock()

	r.queues[job.Collection] = append(r.queues[job.Collection], job)
	return nil
}

func (r *Repository) PopJobs(ctx context.Context, collection entity.Collection, max int) ([]entity.QueueJob, error) {
	r.queueMu.Lock()
	defer r.queueMu.Unlock()

	queue := r.queues[collection]
	if len(queue) == 0 || max <= 0 {
		return nil, nil
	}
	n := max
	if n > len(queue) {
		n = len(queue)
	}

	jobs := make([]entity.QueueJob, n)
	copy(jobs, queue[:n])
	r.queues[collection] = queue[n:]
	return jobs, nil
}

func (r *Repository) QueueLength(ctx context.Context, collection entity.Collection) (int, error) {
	r.queueMu.Lock()
	defer r.queueMu.Unlock()

	return len(r.queues[collection]), nil
}
