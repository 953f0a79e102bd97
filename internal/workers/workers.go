package workers

// Workers aggregates background workers so the daemon can start and stop
// them as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers builds the aggregate in start order. Stop runs in reverse
// order so later workers never outlive what they depend on.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
