package concurrent

import "sync"

type JobFunc[T, G any] func(job T) G

// WorkerPool fan-out/fan-in pool buat job yang cpu-bound. urutan pakainya:
// AddJob semua job -> Close -> Start -> Wait -> range CollectResults.
// hasil job gak dijamin urut, caller harus nge-key hasilnya sendiri.
type WorkerPool[T, G any] struct {
	numWorkers int
	jobs       chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T, G any](numWorkers, numJobs int) *WorkerPool[T, G] {
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobs:       make(chan T, numJobs),
		results:    make(chan G, numJobs),
	}
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobs <- job
}

// Close tutup job channel. harus dipanggil sebelum Wait, worker berhenti
// setelah channelnya drained.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobs)
}

func (wp *WorkerPool[T, G]) Start(f JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			for job := range wp.jobs {
				wp.results <- f(job)
			}
		}()
	}
}

// Wait block sampai semua worker selesai. ini barrier-nya: setelah Wait
// return, semua hasil udah ada di results channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}
