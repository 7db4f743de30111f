package meshing

import (
	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/world"
	"github.com/annel0/voxelstream/internal/world/block"
)

// Face — грань вокселя. Значение совпадает с номером бита в маске граней.
type Face int

const (
	FaceUp    Face = iota // +y
	FaceDown              // -y
	FaceEast              // +x
	FaceWest              // -x
	FaceSouth             // +z
	FaceNorth             // -z
)

// FaceCount — количество граней вокселя
const FaceCount = 6

// AllFacesHidden — маска полностью закрытого вокселя
const AllFacesHidden uint8 = 0b111111

func (f Face) String() string {
	switch f {
	case FaceUp:
		return "up"
	case FaceDown:
		return "down"
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	case FaceSouth:
		return "south"
	case FaceNorth:
		return "north"
	default:
		return "unknown"
	}
}

// Offset возвращает смещение к соседу за гранью
func (f Face) Offset() vec.Vec3 {
	return vec.Neighbors()[f]
}

// FaceVisible сообщает, нужно ли рисовать грань. Установленный бит означает скрытую грань.
func FaceVisible(mask uint8, f Face) bool {
	return mask&(1<<uint(f)) == 0
}

// sample читает воксель по локальной позиции, выходя в хранилище за пределами чанка
func sample(chunk *world.Chunk, store world.ChunkStore, local vec.Vec3) block.Type {
	if world.IsOutside(local) {
		return world.VoxelAt(store, chunk.WorldPosition(local))
	}
	return chunk.Voxel(local)
}

// hidesFace сообщает, закрывает ли сосед грань текущего вокселя.
// Воздух грань не закрывает; вода не закрывает грань твёрдого вокселя.
func hidesFace(current, neighbor block.Type) bool {
	if neighbor == block.Air {
		return false
	}
	if neighbor == block.Water && current != block.Water {
		return false
	}
	return true
}

// FaceMask вычисляет маску скрытых граней одного занятого вокселя
func FaceMask(chunk *world.Chunk, store world.ChunkStore, local vec.Vec3) uint8 {
	current := chunk.Voxel(local)
	if current == block.Air {
		return 0
	}

	var mask uint8
	for i, offset := range vec.Neighbors() {
		if hidesFace(current, sample(chunk, store, local.Add(offset))) {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// FaceMasks вычисляет маски граней для всего чанка.
// Результат имеет длину ChunkVolume; для незанятых индексов маска нулевая.
// Соседи за границей чанка читаются через store; отсутствующий чанк считается воздухом.
func FaceMasks(chunk *world.Chunk, store world.ChunkStore) []uint8 {
	masks := make([]uint8, world.ChunkVolume)
	for _, idx := range chunk.Occupied() {
		masks[idx] = FaceMask(chunk, store, world.LocalFromIndex(idx))
	}
	return masks
}
