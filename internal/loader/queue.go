package loader

import (
	"sync"

	"github.com/annel0/voxelstream/internal/vec"
)

// Queue — неограниченная FIFO-очередь координат чанков.
// Запись никогда не блокирует фоновое вычисление коммита;
// потребитель забирает всё накопленное через TryDrain.
type Queue struct {
	mu    sync.Mutex
	items []vec.Vec3
	ready chan struct{}
}

func newQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// push добавляет координаты и будит ожидающего потребителя
func (q *Queue) push(items ...vec.Vec3) {
	if len(items) == 0 {
		return
	}

	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// TryDrain возвращает все доступные сейчас координаты в порядке поступления
// и не блокируется. Пустая очередь даёт nil.
func (q *Queue) TryDrain() []vec.Vec3 {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.items
	q.items = nil
	return items
}

// Len возвращает количество координат в очереди
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Ready сигнализирует, что в очередь что-то добавили после последнего сигнала.
// Сигналы схлопываются: после получения нужно вызвать TryDrain.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}
