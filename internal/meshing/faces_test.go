package meshing

import (
	"testing"

	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/world"
	"github.com/annel0/voxelstream/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStoreWithChunk создаёт хранилище с одним чанком в (0,0,0)
func newStoreWithChunk(t *testing.T) (*world.MemoryStore, *world.Chunk) {
	t.Helper()
	store := world.NewMemoryStore()
	chunk := world.NewChunk(vec.New(0, 0, 0))
	store.InsertIfAbsent(chunk.Position(), chunk)
	return store, chunk
}

func set(t *testing.T, chunk *world.Chunk, local vec.Vec3, bt block.Type) {
	t.Helper()
	require.NoError(t, chunk.SetVoxel(local, bt))
}

func TestFaceMask_Surrounded(t *testing.T) {
	store, chunk := newStoreWithChunk(t)
	center := vec.New(5, 5, 5)
	set(t, chunk, center, block.Stone)
	for _, off := range vec.Neighbors() {
		set(t, chunk, center.Add(off), block.Dirt)
	}

	masks := FaceMasks(chunk, store)
	assert.Equal(t, AllFacesHidden, masks[world.MustIndex(center)])
	for f := Face(0); f < FaceCount; f++ {
		assert.False(t, FaceVisible(masks[world.MustIndex(center)], f), "грань %s", f)
	}
}

func TestFaceMask_Isolated(t *testing.T) {
	store, chunk := newStoreWithChunk(t)
	pos := vec.New(10, 10, 10)
	set(t, chunk, pos, block.Stone)

	masks := FaceMasks(chunk, store)
	assert.Len(t, masks, world.ChunkVolume)
	assert.Equal(t, uint8(0), masks[world.MustIndex(pos)])

	// Незанятые индексы имеют нулевую маску
	assert.Equal(t, uint8(0), masks[world.MustIndex(vec.New(0, 0, 0))])
}

func TestFaceMask_OnlyCoveredFacesHidden(t *testing.T) {
	store, chunk := newStoreWithChunk(t)
	pos := vec.New(4, 4, 4)
	set(t, chunk, pos, block.Grass)
	set(t, chunk, pos.Add(FaceUp.Offset()), block.Stone)
	set(t, chunk, pos.Add(FaceWest.Offset()), block.Stone)

	mask := FaceMask(chunk, store, pos)
	assert.Equal(t, uint8(1<<FaceUp|1<<FaceWest), mask)
	assert.True(t, FaceVisible(mask, FaceDown))
	assert.False(t, FaceVisible(mask, FaceWest))
}

func TestFaceMask_WaterRule(t *testing.T) {
	store, chunk := newStoreWithChunk(t)

	// Твёрдый воксель под водой: вода не закрывает его грань
	stone := vec.New(3, 3, 3)
	set(t, chunk, stone, block.Stone)
	set(t, chunk, stone.Up(), block.Water)
	assert.True(t, FaceVisible(FaceMask(chunk, store, stone), FaceUp))

	// Вода под водой: грань между ними скрыта
	water := vec.New(8, 3, 8)
	set(t, chunk, water, block.Water)
	set(t, chunk, water.Up(), block.Water)
	assert.False(t, FaceVisible(FaceMask(chunk, store, water), FaceUp))

	// Вода над камнем: камень закрывает нижнюю грань воды
	assert.False(t, FaceVisible(FaceMask(chunk, store, stone.Up()), FaceDown))
}

func TestFaceMask_CrossChunkNeighbor(t *testing.T) {
	store, chunk := newStoreWithChunk(t)
	edge := vec.New(world.ChunkSize-1, 2, 2)
	set(t, chunk, edge, block.Stone)

	// Соседний чанк ещё не загружен: читается как воздух
	assert.True(t, FaceVisible(FaceMask(chunk, store, edge), FaceEast))

	east := world.NewChunk(vec.New(1, 0, 0))
	set(t, east, vec.New(0, 2, 2), block.Stone)
	store.InsertIfAbsent(east.Position(), east)

	assert.False(t, FaceVisible(FaceMask(chunk, store, edge), FaceEast))
	assert.True(t, FaceVisible(FaceMask(chunk, store, edge), FaceWest))
}

func TestFaceMask_NegativeChunkNeighbor(t *testing.T) {
	store := world.NewMemoryStore()
	chunk := world.NewChunk(vec.New(0, -1, 0))
	store.InsertIfAbsent(chunk.Position(), chunk)
	top := vec.New(1, world.ChunkSize-1, 1)
	set(t, chunk, top, block.Dirt)

	above := world.NewChunk(vec.New(0, 0, 0))
	set(t, above, vec.New(1, 0, 1), block.Grass)
	store.InsertIfAbsent(above.Position(), above)

	assert.False(t, FaceVisible(FaceMask(chunk, store, top), FaceUp))
	assert.False(t, FaceVisible(FaceMask(above, store, vec.New(1, 0, 1)), FaceDown))
}
