package extrude

import (
	"runtime"
	"sync"
)

// Queue runs extrusion jobs on a fixed pool of workers. The server uses it to
// cap how many sheets are built at once.
type Queue struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
}

// NewQueue starts a queue with the given number of workers, defaulting to the
// number of CPUs if workers is less than 1.
func NewQueue(workers int) *Queue {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	q := &Queue{
		workers: workers,
		jobs:    make(chan func(), workers),
	}

	for i := 0; i < workers; i++ {
		go func() {
			var job func()

			for job = range q.jobs {
				job()

				q.wg.Done()
			}
		}()
	}

	return q
}

func (q *Queue) Workers() int {
	return q.workers
}

func (q *Queue) Work(fn func()) {
	q.wg.Add(1)

	q.jobs <- fn
}

func (q *Queue) Wait() {
	q.wg.Wait()
}

func (q *Queue) Close() {
	close(q.jobs)
}
