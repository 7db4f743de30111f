package world

import (
	"fmt"
	"math"
	"sync"

	"github.com/annel0/voxelstream/internal/logging"
	"github.com/annel0/voxelstream/internal/util"
	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/world/block"
)

// Generator определяет тип вокселя по мировой позиции.
// Реализация должна быть чистой и тотальной: для любой позиции,
// даже очень далёкой, возвращается тип (в худшем случае воздух), а не ошибка.
type Generator interface {
	VoxelType(world vec.Vec3) block.Type
}

// GeneratorFunc позволяет использовать функцию как Generator
type GeneratorFunc func(world vec.Vec3) block.Type

// VoxelType реализует Generator
func (f GeneratorFunc) VoxelType(world vec.Vec3) block.Type {
	return f(world)
}

// GenerateChunk заполняет чанк, опрашивая генератор для каждой локальной позиции.
// Воздух не записывается.
func GenerateChunk(gen Generator, chunk *Chunk) error {
	for local := range LocalCoords() {
		voxelType := gen.VoxelType(chunk.WorldPosition(local))
		if voxelType == block.Air {
			continue
		}
		if err := chunk.SetVoxel(local, voxelType); err != nil {
			logging.GetWorldLogger().Error("Чанк %s: воксель %s (%s) не записан: %v",
				chunk.Position(), local, voxelType, err)
			return fmt.Errorf("генерация чанка %s: %w", chunk.Position(), err)
		}
	}
	return nil
}

// HeightMode определяет источник карты высот
type HeightMode string

const (
	HeightSine   HeightMode = "sine"   // Синусоида вдоль X
	HeightPerlin HeightMode = "perlin" // Шум Перлина по колонкам (X, Z)
)

// Константы слоёв для генерации
const (
	DefaultStoneLayer = 5 // Глубина, с которой начинается камень
	DefaultWaterLevel = 4 // Уровень воды
)

// TerrainGenerator генерирует слоистый ландшафт по карте высот
type TerrainGenerator struct {
	Seed       int64      // Сид для генерации шума
	Mode       HeightMode // Источник высот
	NoiseScale float64    // Масштаб шума (только для Perlin)
	Amplitude  float64    // Размах высот (только для Perlin)
	StoneLayer int
	WaterLevel int

	noise *util.PerlinNoise

	// Кэш высот по колонкам: высота не зависит от Y, а колонку
	// опрашивают ChunkSize раз на каждый чанк по вертикали.
	heightCache   map[vec.Vec2]int
	heightCacheMu sync.RWMutex
}

// NewTerrainGenerator создаёт генератор ландшафта
func NewTerrainGenerator(seed int64, mode HeightMode) *TerrainGenerator {
	tg := &TerrainGenerator{
		Seed:        seed,
		Mode:        mode,
		NoiseScale:  0.05, // Настройка сглаженности ландшафта
		Amplitude:   12,
		StoneLayer:  DefaultStoneLayer,
		WaterLevel:  DefaultWaterLevel,
		heightCache: make(map[vec.Vec2]int),
	}
	if mode == HeightPerlin {
		tg.noise = util.NewPerlinNoise(seed)
		logging.GetWorldLogger().Debug("Генератор рельефа: шум Перлина, seed=%d", tg.noise.Seed())
	} else {
		logging.GetWorldLogger().Debug("Генератор рельефа: режим %s", mode)
	}
	return tg
}

// Height возвращает высоту поверхности в колонке
func (tg *TerrainGenerator) Height(column vec.Vec2) int {
	tg.heightCacheMu.RLock()
	h, ok := tg.heightCache[column]
	tg.heightCacheMu.RUnlock()
	if ok {
		return h
	}

	h = tg.computeHeight(column)

	tg.heightCacheMu.Lock()
	tg.heightCache[column] = h
	tg.heightCacheMu.Unlock()
	return h
}

// computeHeight вычисляет высоту без кэша
func (tg *TerrainGenerator) computeHeight(column vec.Vec2) int {
	if tg.Mode == HeightPerlin && tg.noise != nil {
		n := tg.noise.Noise2D(float64(column.X)*tg.NoiseScale, float64(column.Y)*tg.NoiseScale)
		return int(math.Floor((n-0.5)*2*tg.Amplitude)) + 2
	}
	// Приведение к int отбрасывает дробную часть, как и в исходной формуле
	return int(7.0*math.Sin(float64(column.X)/10.0) + 2.0)
}

// VoxelType реализует Generator
func (tg *TerrainGenerator) VoxelType(world vec.Vec3) block.Type {
	wy := world.Y
	th := tg.Height(world.ToVec2())

	switch {
	case wy == th && wy > tg.WaterLevel+1:
		return block.Grass
	case wy == th || (wy == th-1 && th < tg.WaterLevel):
		return block.Sand
	case wy <= th-tg.StoneLayer:
		return block.Stone
	case wy < th:
		return block.Dirt
	case wy <= tg.WaterLevel:
		return block.Water
	default:
		return block.Air
	}
}

// PruneHeightCache удаляет из кэша колонки дальше radius от center.
// Возвращает количество удалённых записей.
func (tg *TerrainGenerator) PruneHeightCache(center vec.Vec2, radius int) int {
	tg.heightCacheMu.Lock()
	defer tg.heightCacheMu.Unlock()

	removed := 0
	for column := range tg.heightCache {
		if column.DistanceSquaredTo(center) > radius*radius {
			delete(tg.heightCache, column)
			removed++
		}
	}
	return removed
}

// CachedColumns возвращает размер кэша высот
func (tg *TerrainGenerator) CachedColumns() int {
	tg.heightCacheMu.RLock()
	defer tg.heightCacheMu.RUnlock()
	return len(tg.heightCache)
}
