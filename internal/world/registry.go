package world

import (
	"encoding/binary"
	"sync"

	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/world/block"
	"github.com/cespare/xxhash/v2"
)

// ChunkStore — хранилище чанков по координатам чанков.
// Передаётся явно во все компоненты, которым нужен доступ к соседним чанкам.
type ChunkStore interface {
	// InsertIfAbsent добавляет чанк, если позиция свободна.
	// Возвращает чанк, который лежит в хранилище, и true, если вставка произошла.
	InsertIfAbsent(pos vec.Vec3, chunk *Chunk) (*Chunk, bool)

	// Get возвращает чанк по позиции
	Get(pos vec.Vec3) (*Chunk, bool)

	// Update вызывает fn для чанка под блокировкой записи.
	// Возвращает false, если чанка нет.
	Update(pos vec.Vec3, fn func(*Chunk)) bool

	// Remove удаляет чанк, возвращает true, если он был
	Remove(pos vec.Vec3) bool

	// Len возвращает количество чанков
	Len() int

	// Range обходит все чанки, пока fn возвращает true
	Range(fn func(pos vec.Vec3, chunk *Chunk) bool)
}

// VoxelAt читает воксель по мировой позиции через хранилище.
// Отсутствующий чанк (не загружен или ещё не сгенерирован) читается как воздух.
func VoxelAt(store ChunkStore, world vec.Vec3) block.Type {
	chunk, ok := store.Get(world.DivEuclid(ChunkSize))
	if !ok {
		return block.Air
	}
	return chunk.Voxel(world.ModEuclid(ChunkSize))
}

// DefaultShardCount — количество сегментов реестра по умолчанию
const DefaultShardCount = 64

// registryShard хранит часть карты под собственной блокировкой
type registryShard struct {
	mu     sync.RWMutex
	chunks map[vec.Vec3]*Chunk
}

// Registry — конкурентная карта чанков, разбитая на сегменты.
// Чтения и вставки разных ключей не конкурируют за общую блокировку.
type Registry struct {
	shards []*registryShard
	mask   uint64
}

// NewRegistry создаёт реестр с количеством сегментов по умолчанию
func NewRegistry() *Registry {
	return NewRegistryWithShards(DefaultShardCount)
}

// NewRegistryWithShards создаёт реестр; количество сегментов округляется
// вверх до степени двойки
func NewRegistryWithShards(count int) *Registry {
	n := 1
	for n < count {
		n <<= 1
	}

	shards := make([]*registryShard, n)
	for i := range shards {
		shards[i] = &registryShard{chunks: make(map[vec.Vec3]*Chunk)}
	}
	return &Registry{shards: shards, mask: uint64(n - 1)}
}

// shardFor выбирает сегмент по хешу координаты
func (r *Registry) shardFor(pos vec.Vec3) *registryShard {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(int64(pos.X)))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(pos.Y)))
	binary.LittleEndian.PutUint64(buf[16:], uint64(int64(pos.Z)))
	return r.shards[xxhash.Sum64(buf[:])&r.mask]
}

// InsertIfAbsent реализует ChunkStore
func (r *Registry) InsertIfAbsent(pos vec.Vec3, chunk *Chunk) (*Chunk, bool) {
	shard := r.shardFor(pos)

	shard.mu.RLock()
	existing, exists := shard.chunks[pos]
	shard.mu.RUnlock()
	if exists {
		return existing, false
	}

	shard.mu.Lock()
	defer shard.mu.Unlock()

	// Проверяем еще раз на случай гонки
	if existing, exists := shard.chunks[pos]; exists {
		return existing, false
	}
	shard.chunks[pos] = chunk
	return chunk, true
}

// Get реализует ChunkStore
func (r *Registry) Get(pos vec.Vec3) (*Chunk, bool) {
	shard := r.shardFor(pos)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	chunk, exists := shard.chunks[pos]
	return chunk, exists
}

// Update реализует ChunkStore
func (r *Registry) Update(pos vec.Vec3, fn func(*Chunk)) bool {
	shard := r.shardFor(pos)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	chunk, exists := shard.chunks[pos]
	if !exists {
		return false
	}
	fn(chunk)
	return true
}

// Remove реализует ChunkStore
func (r *Registry) Remove(pos vec.Vec3) bool {
	shard := r.shardFor(pos)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, exists := shard.chunks[pos]; !exists {
		return false
	}
	delete(shard.chunks, pos)
	return true
}

// Len реализует ChunkStore
func (r *Registry) Len() int {
	total := 0
	for _, shard := range r.shards {
		shard.mu.RLock()
		total += len(shard.chunks)
		shard.mu.RUnlock()
	}
	return total
}

// Range реализует ChunkStore. Каждый сегмент обходится по снимку,
// поэтому fn может обращаться к реестру.
func (r *Registry) Range(fn func(pos vec.Vec3, chunk *Chunk) bool) {
	for _, shard := range r.shards {
		shard.mu.RLock()
		snapshot := make(map[vec.Vec3]*Chunk, len(shard.chunks))
		for pos, chunk := range shard.chunks {
			snapshot[pos] = chunk
		}
		shard.mu.RUnlock()

		for pos, chunk := range snapshot {
			if !fn(pos, chunk) {
				return
			}
		}
	}
}

// VoxelAt читает воксель по мировой позиции
func (r *Registry) VoxelAt(world vec.Vec3) block.Type {
	return VoxelAt(r, world)
}

// MemoryStore — однопоточная реализация ChunkStore для тестов
type MemoryStore struct {
	chunks map[vec.Vec3]*Chunk
}

// NewMemoryStore создаёт пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[vec.Vec3]*Chunk)}
}

// InsertIfAbsent реализует ChunkStore
func (m *MemoryStore) InsertIfAbsent(pos vec.Vec3, chunk *Chunk) (*Chunk, bool) {
	if existing, exists := m.chunks[pos]; exists {
		return existing, false
	}
	m.chunks[pos] = chunk
	return chunk, true
}

// Get реализует ChunkStore
func (m *MemoryStore) Get(pos vec.Vec3) (*Chunk, bool) {
	chunk, exists := m.chunks[pos]
	return chunk, exists
}

// Update реализует ChunkStore
func (m *MemoryStore) Update(pos vec.Vec3, fn func(*Chunk)) bool {
	chunk, exists := m.chunks[pos]
	if !exists {
		return false
	}
	fn(chunk)
	return true
}

// Remove реализует ChunkStore
func (m *MemoryStore) Remove(pos vec.Vec3) bool {
	if _, exists := m.chunks[pos]; !exists {
		return false
	}
	delete(m.chunks, pos)
	return true
}

// Len реализует ChunkStore
func (m *MemoryStore) Len() int {
	return len(m.chunks)
}

// Range реализует ChunkStore
func (m *MemoryStore) Range(fn func(pos vec.Vec3, chunk *Chunk) bool) {
	for pos, chunk := range m.chunks {
		if !fn(pos, chunk) {
			return
		}
	}
}

// VoxelAt читает воксель по мировой позиции
func (m *MemoryStore) VoxelAt(world vec.Vec3) block.Type {
	return VoxelAt(m, world)
}
