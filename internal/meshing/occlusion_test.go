package meshing

import (
	"testing"

	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/world"
	"github.com/annel0/voxelstream/internal/world/block"
	"github.com/stretchr/testify/assert"
)

func TestAOCategory(t *testing.T) {
	assert.Equal(t, 0, aoCategory(true, true, false))
	assert.Equal(t, 0, aoCategory(true, true, true))
	assert.Equal(t, 1, aoCategory(true, false, true))
	assert.Equal(t, 2, aoCategory(false, false, true))
	assert.Equal(t, 3, aoCategory(false, false, false))
}

func TestOcclusion_IsolatedVoxel(t *testing.T) {
	store, chunk := newStoreWithChunk(t)
	pos := vec.New(6, 6, 6)
	set(t, chunk, pos, block.Stone)

	faces := FaceMasks(chunk, store)
	occ := OcclusionMasks(chunk, store, faces)
	assert.Len(t, occ, world.ChunkVolume)
	assert.Equal(t, uint32(0), occ[world.MustIndex(pos)])
}

func TestOcclusion_SingleOccluder(t *testing.T) {
	store, chunk := newStoreWithChunk(t)
	center := vec.New(5, 5, 5)
	set(t, chunk, center, block.Stone)
	// Блок снизу делает маску граней ненулевой и сам углы не затеняет
	set(t, chunk, vec.New(5, 4, 5), block.Stone)
	// Блок по диагонали сверху и с севера
	set(t, chunk, vec.New(5, 6, 4), block.Stone)

	faces := FaceMasks(chunk, store)
	assert.Equal(t, uint8(1<<FaceDown), faces[world.MustIndex(center)])

	mask := OcclusionMasks(chunk, store, faces)[world.MustIndex(center)]

	// Затенены два северных угла верхней грани и два верхних угла северной грани
	var want uint32 = 1<<0 | 1<<1 | 1<<(int(FaceNorth)*CornersPerFace) | 1<<(int(FaceNorth)*CornersPerFace+1)
	assert.Equal(t, want, mask)
	assert.True(t, CornerOccluded(mask, FaceUp, 0))
	assert.True(t, CornerOccluded(mask, FaceUp, 1))
	assert.False(t, CornerOccluded(mask, FaceUp, 2))
	assert.False(t, CornerOccluded(mask, FaceSouth, 0))
}

func TestOcclusion_WaterDoesNotOcclude(t *testing.T) {
	store, chunk := newStoreWithChunk(t)
	center := vec.New(5, 5, 5)
	set(t, chunk, center, block.Stone)
	set(t, chunk, vec.New(5, 4, 5), block.Stone)
	set(t, chunk, vec.New(5, 6, 4), block.Water)

	faces := FaceMasks(chunk, store)
	assert.Equal(t, uint32(0), OcclusionMasks(chunk, store, faces)[world.MustIndex(center)])
}

func TestOcclusion_ZeroFaceMaskSkipped(t *testing.T) {
	store, chunk := newStoreWithChunk(t)
	center := vec.New(5, 5, 5)
	set(t, chunk, center, block.Stone)
	set(t, chunk, vec.New(6, 6, 6), block.Stone)

	// Все грани открыты, поэтому затенение не считается, несмотря на угловой блок
	faces := FaceMasks(chunk, store)
	assert.Equal(t, uint8(0), faces[world.MustIndex(center)])
	assert.Equal(t, uint32(0), OcclusionMasks(chunk, store, faces)[world.MustIndex(center)])
	assert.NotZero(t, OcclusionMask(chunk, store, center))
}

// westChunkStore кладёт в хранилище чанк (-1,0,0) с вокселем у восточной границы
func westChunkStore(t *testing.T) (*world.MemoryStore, *world.Chunk, vec.Vec3) {
	t.Helper()
	store := world.NewMemoryStore()
	chunk := world.NewChunk(vec.New(-1, 0, 0))
	store.InsertIfAbsent(chunk.Position(), chunk)

	center := vec.New(world.ChunkSize-1, 5, 5)
	set(t, chunk, center, block.Stone)
	set(t, chunk, center.Down(), block.Stone)
	return store, chunk, center
}

func TestOcclusion_AcrossChunkBorder(t *testing.T) {
	store, chunk, center := westChunkStore(t)

	// Затеняющий блок лежит в соседнем чанке (0,0,0): мировая (0,6,5)
	east := world.NewChunk(vec.New(0, 0, 0))
	set(t, east, vec.New(0, 6, 5), block.Stone)
	store.InsertIfAbsent(east.Position(), east)

	faces := FaceMasks(chunk, store)
	assert.Equal(t, uint8(1<<FaceDown), faces[world.MustIndex(center)])

	mask := OcclusionMasks(chunk, store, faces)[world.MustIndex(center)]

	// Восточные углы верхней грани и верхние углы восточной грани
	var want uint32 = 1<<1 | 1<<2 | 1<<(int(FaceEast)*CornersPerFace+1) | 1<<(int(FaceEast)*CornersPerFace+2)
	assert.Equal(t, want, mask, "маска %012b", mask)
	assert.True(t, CornerOccluded(mask, FaceUp, 1))
	assert.True(t, CornerOccluded(mask, FaceUp, 2))
	assert.False(t, CornerOccluded(mask, FaceUp, 0))
	assert.True(t, CornerOccluded(mask, FaceEast, 1))
	assert.False(t, CornerOccluded(mask, FaceWest, 1))
}

func TestOcclusion_AbsentNeighbourChunk(t *testing.T) {
	store, chunk, center := westChunkStore(t)

	// Соседнего чанка нет: выборки за границей читаются как воздух
	faces := FaceMasks(chunk, store)
	assert.Equal(t, uint8(1<<FaceDown), faces[world.MustIndex(center)])
	assert.Equal(t, uint32(0), OcclusionMasks(chunk, store, faces)[world.MustIndex(center)])
}
