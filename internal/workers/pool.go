package workers

import (
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/shirou/gopsutil/v3/cpu"
)

// Pool — ограниченный пул воркеров для коммитов загрузчика
// и фаз конвейера. Количество одновременно выполняемых задач
// не превышает размер пула.
type Pool struct {
	pond.Pool
	size int
}

// DefaultSize возвращает число логических CPU
func DefaultSize() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// New создаёт пул. size <= 0 означает DefaultSize().
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize()
	}
	return &Pool{
		Pool: pond.NewPool(size),
		size: size,
	}
}

// Size возвращает максимальное число одновременно выполняемых задач
func (p *Pool) Size() int {
	return p.size
}

// Shutdown дожидается выполнения всех отправленных задач и останавливает пул
func (p *Pool) Shutdown() {
	p.StopAndWait()
}

// Stats содержит счётчики пула
type Stats struct {
	Running   int64
	Waiting   uint64
	Submitted uint64
	Completed uint64
	Failed    uint64
}

// Stats возвращает текущие счётчики пула
func (p *Pool) Stats() Stats {
	return Stats{
		Running:   p.RunningWorkers(),
		Waiting:   p.WaitingTasks(),
		Submitted: p.SubmittedTasks(),
		Completed: p.CompletedTasks(),
		Failed:    p.FailedTasks(),
	}
}
