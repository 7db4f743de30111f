package world

import (
	"errors"
	"fmt"
	"iter"

	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/world/block"
)

// Размеры чанка
const (
	ChunkSize   = 20
	ChunkArea   = ChunkSize * ChunkSize
	ChunkVolume = ChunkArea * ChunkSize
)

var (
	// ErrUnsupportedClear возвращается при попытке записать воздух в чанк.
	// Список занятых вокселей только растёт, удаление не поддерживается.
	ErrUnsupportedClear = errors.New("clearing a voxel is not supported")

	// ErrNegativeCoordinate — отрицательная локальная координата при вычислении индекса
	ErrNegativeCoordinate = vec.ErrNegativeCoordinate
)

// Chunk представляет куб мира размером ChunkSize³ вокселей.
//
// Чанк создаётся пустым, один раз заполняется генератором и после этого
// только читается, поэтому собственной блокировки у него нет.
type Chunk struct {
	position vec.Vec3                // Позиция чанка в координатах чанков
	voxels   [ChunkVolume]block.Type // Плотная таблица типов
	occupied []int                   // Индексы непустых вокселей в порядке добавления
}

// NewChunk создаёт пустой чанк с указанной позицией
func NewChunk(position vec.Vec3) *Chunk {
	return &Chunk{position: position}
}

// Index возвращает линейный индекс локальной позиции: x·S² + y·S + z
func Index(local vec.Vec3) (int, error) {
	x, y, z, err := local.ToNonNegativeTriplet()
	if err != nil {
		return 0, err
	}
	return x*ChunkArea + y*ChunkSize + z, nil
}

// MustIndex — Index для заранее проверенных координат
func MustIndex(local vec.Vec3) int {
	idx, err := Index(local)
	if err != nil {
		panic(err)
	}
	return idx
}

// LocalFromIndex восстанавливает локальную позицию по индексу
func LocalFromIndex(index int) vec.Vec3 {
	return vec.Vec3{
		X: index / ChunkArea,
		Y: (index % ChunkArea) / ChunkSize,
		Z: index % ChunkSize,
	}
}

// IsBorder возвращает true, если позиция лежит на границе чанка.
// Для таких вокселей соседи могут находиться в другом чанке.
func IsBorder(local vec.Vec3) bool {
	return local.X == 0 || local.X == ChunkSize-1 ||
		local.Y == 0 || local.Y == ChunkSize-1 ||
		local.Z == 0 || local.Z == ChunkSize-1
}

// IsOutside возвращает true, если позиция вне чанка и её нужно читать через реестр
func IsOutside(local vec.Vec3) bool {
	return local.X < 0 || local.X >= ChunkSize ||
		local.Y < 0 || local.Y >= ChunkSize ||
		local.Z < 0 || local.Z >= ChunkSize
}

// LocalCoords перебирает все локальные позиции в порядке индексов
func LocalCoords() iter.Seq[vec.Vec3] {
	return func(yield func(vec.Vec3) bool) {
		for i := 0; i < ChunkVolume; i++ {
			if !yield(LocalFromIndex(i)) {
				return
			}
		}
	}
}

// Position возвращает позицию чанка в координатах чанков
func (c *Chunk) Position() vec.Vec3 {
	return c.position
}

// WorldPosition переводит локальную позицию в мировую
func (c *Chunk) WorldPosition(local vec.Vec3) vec.Vec3 {
	return c.position.Mul(ChunkSize).Add(local)
}

// Voxel возвращает тип вокселя по локальной позиции.
// Позиция должна быть внутри чанка (см. IsOutside).
func (c *Chunk) Voxel(local vec.Vec3) block.Type {
	return c.voxels[MustIndex(local)]
}

// VoxelAt возвращает тип вокселя по индексу
func (c *Chunk) VoxelAt(index int) block.Type {
	return c.voxels[index]
}

// SetVoxel записывает непустой воксель.
// Индекс попадает в список занятых только при первой записи в пустую ячейку.
func (c *Chunk) SetVoxel(local vec.Vec3, value block.Type) error {
	if value == block.Air {
		return fmt.Errorf("%w: %s", ErrUnsupportedClear, local)
	}
	idx, err := Index(local)
	if err != nil {
		return err
	}
	if c.voxels[idx] == block.Air {
		c.occupied = append(c.occupied, idx)
	}
	c.voxels[idx] = value
	return nil
}

// Occupied возвращает индексы непустых вокселей. Срез нельзя изменять.
func (c *Chunk) Occupied() []int {
	return c.occupied
}

// Len возвращает количество непустых вокселей
func (c *Chunk) Len() int {
	return len(c.occupied)
}

// IsEmpty возвращает true, если в чанке нет ни одного непустого вокселя
func (c *Chunk) IsEmpty() bool {
	return len(c.occupied) == 0
}
