package loader

import (
	"fmt"
	"sync"
	"time"

	"github.com/annel0/voxelstream/internal/logging"
	"github.com/annel0/voxelstream/internal/metrics"
	"github.com/annel0/voxelstream/internal/vec"
	"github.com/google/uuid"
)

// Ограничения дальности загрузки (в чанках)
const (
	MinLoadDistance     = 1
	MaxLoadDistance     = 225
	DefaultLoadDistance = 10
)

// State — состояние загрузчика
type State int

const (
	Idle      State = iota // Нет незавершённых коммитов
	Computing              // Хотя бы один коммит ещё вычисляется
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Computing:
		return "Computing"
	default:
		return "Unknown"
	}
}

// Submitter — пул, в котором выполняются коммиты.
// Go возвращает pond.ErrPoolStopped, если пул уже остановлен.
type Submitter interface {
	Go(task func()) error
}

// Commit — дескриптор фонового вычисления множества загруженных чанков.
// Поля Loaded, Unloaded и Err валидны после Wait.
type Commit struct {
	ID     uuid.UUID
	Center vec.Vec3
	Radius int

	Loaded   int   // Координат поставлено в очередь загрузки
	Unloaded int   // Координат поставлено в очередь выгрузки
	Err      error // Коммит не был запущен, множество не изменилось

	done chan struct{}
}

func newCommit(center vec.Vec3, radius int) *Commit {
	return &Commit{
		ID:     uuid.New(),
		Center: center,
		Radius: radius,
		done:   make(chan struct{}),
	}
}

// Wait блокируется до завершения коммита
func (c *Commit) Wait() {
	<-c.done
}

// Done закрывается после завершения коммита
func (c *Commit) Done() <-chan struct{} {
	return c.done
}

// Option настраивает ChunkLoader
type Option func(*ChunkLoader)

// WithLoadDistance задаёт начальную дальность загрузки
func WithLoadDistance(r int) Option {
	return func(l *ChunkLoader) {
		l.radius = clampDistance(r)
	}
}

// WithCenter задаёт начальный центр
func WithCenter(c vec.Vec3) Option {
	return func(l *ChunkLoader) {
		l.requested = c
	}
}

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *ChunkLoader) {
		l.metrics = m
	}
}

// WithLogger задаёт логгер компонента
func WithLogger(logger *logging.Logger) Option {
	return func(l *ChunkLoader) {
		l.logger = logger
	}
}

// ChunkLoader поддерживает множество координат чанков внутри сферы
// вокруг центра наблюдателя и сообщает о разнице через очереди.
//
// Методы управления (SetCenter, SetLoadDistance, Commit) рассчитаны на
// одного вызывающего. Чтение состояния безопасно из любых горутин.
type ChunkLoader struct {
	pool    Submitter
	metrics *metrics.Metrics
	logger  *logging.Logger

	mu              sync.Mutex
	requested       vec.Vec3
	radius          int
	committed       vec.Vec3
	committedRadius int
	hasCommitted    bool
	last            *Commit // Предыдущий коммит, следующий ждёт его завершения
	inflight        int

	loadedMu sync.RWMutex
	loaded   map[vec.Vec3]struct{}

	loadQueue   *Queue
	unloadQueue *Queue
}

// New создаёт загрузчик, выполняющий коммиты в pool
func New(pool Submitter, opts ...Option) *ChunkLoader {
	l := &ChunkLoader{
		pool:        pool,
		radius:      DefaultLoadDistance,
		loaded:      make(map[vec.Vec3]struct{}),
		loadQueue:   newQueue(),
		unloadQueue: newQueue(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logging.GetLoaderLogger()
	}
	return l
}

func clampDistance(r int) int {
	if r < MinLoadDistance {
		return MinLoadDistance
	}
	if r > MaxLoadDistance {
		return MaxLoadDistance
	}
	return r
}

// SetLoadDistance задаёт радиус загрузки с ограничением [MinLoadDistance, MaxLoadDistance].
// Вступает в силу со следующим коммитом.
func (l *ChunkLoader) SetLoadDistance(r int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.radius = clampDistance(r)
}

// LoadDistance возвращает текущий радиус загрузки
func (l *ChunkLoader) LoadDistance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.radius
}

// SetCenter задаёт запрошенный центр (в координатах чанков)
func (l *ChunkLoader) SetCenter(c vec.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requested = c
}

// Center возвращает запрошенный центр
func (l *ChunkLoader) Center() vec.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requested
}

// ShouldBeLoaded сообщает, лежит ли чанк в сфере загрузки вокруг запрошенного центра.
// Не зависит от состояния очередей.
func (l *ChunkLoader) ShouldBeLoaded(c vec.Vec3) bool {
	l.mu.Lock()
	center, r := l.requested, l.radius
	l.mu.Unlock()
	return c.DistanceSquared(center) <= r*r
}

// CommitAt задаёт центр и запускает коммит
func (l *ChunkLoader) CommitAt(center vec.Vec3) *Commit {
	l.SetCenter(center)
	return l.Commit()
}

// Commit запускает пересчёт множества загруженных чанков в пуле и сразу
// возвращает дескриптор. Если центр и радиус не менялись с прошлого коммита,
// возвращается уже завершённый дескриптор без работы.
//
// Коммит, запущенный во время вычисления предыдущего, ждёт его завершения,
// поэтому каждый коммит применяется к множеству целиком.
//
// Если пул не принял задачу, состояние откатывается, а дескриптор
// возвращается завершённым с заполненным Err.
func (l *ChunkLoader) Commit() *Commit {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := newCommit(l.requested, l.radius)
	if l.hasCommitted && l.committed.Equals(l.requested) && l.committedRadius == l.radius {
		close(c.done)
		return c
	}

	prev := l.last
	prevCenter, prevRadius, prevHas := l.committed, l.committedRadius, l.hasCommitted

	l.last = c
	l.committed = l.requested
	l.committedRadius = l.radius
	l.hasCommitted = true
	l.inflight++

	l.logger.Debug("Коммит %s: центр %s, радиус %d", c.ID, c.Center, c.Radius)

	err := l.pool.Go(func() {
		if prev != nil {
			prev.Wait()
		}
		l.compute(c)
	})
	if err != nil {
		l.last = prev
		l.committed, l.committedRadius, l.hasCommitted = prevCenter, prevRadius, prevHas
		l.inflight--

		c.Err = fmt.Errorf("коммит %s: %w", c.ID, err)
		close(c.done)
		l.logger.Error("Коммит %s не запущен: %v", c.ID, err)
	}
	return c
}

// compute выполняет коммит: сначала выгрузка, затем загрузка
func (l *ChunkLoader) compute(c *Commit) {
	start := time.Now()
	defer func() {
		l.mu.Lock()
		l.inflight--
		l.mu.Unlock()

		close(c.done)
	}()

	r2 := c.Radius * c.Radius

	l.loadedMu.Lock()
	var unloaded []vec.Vec3
	for pos := range l.loaded {
		if pos.DistanceSquared(c.Center) > r2 {
			delete(l.loaded, pos)
			unloaded = append(unloaded, pos)
		}
	}
	l.loadedMu.Unlock()

	l.unloadQueue.push(unloaded...)
	c.Unloaded = len(unloaded)

	// Загрузка по слоям X: потребитель может забирать координаты до окончания коммита
	for x := -c.Radius; x <= c.Radius; x++ {
		var layer []vec.Vec3

		l.loadedMu.Lock()
		for y := -c.Radius; y <= c.Radius; y++ {
			for z := -c.Radius; z <= c.Radius; z++ {
				offset := vec.New(x, y, z)
				if offset.MagnitudeSquared() > r2 {
					continue
				}
				pos := c.Center.Add(offset)
				if _, ok := l.loaded[pos]; ok {
					continue
				}
				l.loaded[pos] = struct{}{}
				layer = append(layer, pos)
			}
		}
		l.loadedMu.Unlock()

		l.loadQueue.push(layer...)
		c.Loaded += len(layer)
	}

	total := l.LoadedCount()
	elapsed := time.Since(start)
	l.metrics.ObserveCommit(c.Loaded, c.Unloaded, total, elapsed)
	l.logger.Debug("Коммит %s завершён за %v: +%d -%d, всего %d",
		c.ID, elapsed, c.Loaded, c.Unloaded, total)
}

// State возвращает состояние загрузчика
func (l *ChunkLoader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight > 0 {
		return Computing
	}
	return Idle
}

// LoadQueue возвращает очередь координат для загрузки
func (l *ChunkLoader) LoadQueue() *Queue {
	return l.loadQueue
}

// UnloadQueue возвращает очередь координат для выгрузки
func (l *ChunkLoader) UnloadQueue() *Queue {
	return l.unloadQueue
}

// Loaded возвращает снимок множества загруженных координат
func (l *ChunkLoader) Loaded() []vec.Vec3 {
	l.loadedMu.RLock()
	defer l.loadedMu.RUnlock()

	out := make([]vec.Vec3, 0, len(l.loaded))
	for pos := range l.loaded {
		out = append(out, pos)
	}
	return out
}

// IsLoaded сообщает, входит ли координата в множество загруженных
func (l *ChunkLoader) IsLoaded(c vec.Vec3) bool {
	l.loadedMu.RLock()
	defer l.loadedMu.RUnlock()
	_, ok := l.loaded[c]
	return ok
}

// LoadedCount возвращает размер множества загруженных координат
func (l *ChunkLoader) LoadedCount() int {
	l.loadedMu.RLock()
	defer l.loadedMu.RUnlock()
	return len(l.loaded)
}
