package workers

type Workers struct {
	workers []Worker
}

func NewWorkers(all ...Worker) *Workers {
	return &Workers{workers: all}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
