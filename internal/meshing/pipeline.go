package meshing

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/annel0/voxelstream/internal/logging"
	"github.com/annel0/voxelstream/internal/metrics"
	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/world"
	"github.com/annel0/voxelstream/internal/world/block"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GroupPool — пул, в котором выполняются группы задач конвейера
type GroupPool interface {
	NewGroupContext(ctx context.Context) pond.TaskGroup
}

// ChunkMesh — результат мешинга одного чанка для рендера.
// Срезы Voxels, Types, Faces и Occlusion выровнены по индексу.
type ChunkMesh struct {
	Position  vec.Vec3
	Voxels    []int // Индексы занятых вокселей в порядке добавления
	Types     []block.Type
	Faces     []uint8
	Occlusion []uint32
}

// VisibleFaces возвращает количество видимых граней
func (m *ChunkMesh) VisibleFaces() int {
	total := 0
	for _, mask := range m.Faces {
		total += FaceCount - bits.OnesCount8(mask)
	}
	return total
}

// OccludedCorners возвращает количество затенённых углов
func (m *ChunkMesh) OccludedCorners() int {
	total := 0
	for _, mask := range m.Occlusion {
		total += bits.OnesCount32(mask)
	}
	return total
}

// newChunkMesh упаковывает плотные таблицы по списку занятых вокселей
func newChunkMesh(chunk *world.Chunk, faces []uint8, occlusion []uint32) ChunkMesh {
	occupied := chunk.Occupied()
	mesh := ChunkMesh{
		Position:  chunk.Position(),
		Voxels:    make([]int, len(occupied)),
		Types:     make([]block.Type, len(occupied)),
		Faces:     make([]uint8, len(occupied)),
		Occlusion: make([]uint32, len(occupied)),
	}
	for i, idx := range occupied {
		mesh.Voxels[i] = idx
		mesh.Types[i] = chunk.VoxelAt(idx)
		mesh.Faces[i] = faces[idx]
		mesh.Occlusion[i] = occlusion[idx]
	}
	return mesh
}

// Pipeline генерирует чанки и строит для них маски граней и затенения.
//
// Мешинг читает соседние чанки, поэтому Build не начинает его, пока
// не завершилась генерация всей партии.
type Pipeline struct {
	store   world.ChunkStore
	gen     world.Generator
	pool    GroupPool
	metrics *metrics.Metrics
	logger  *logging.Logger
	tracer  trace.Tracer
}

// PipelineOption настраивает Pipeline
type PipelineOption func(*Pipeline)

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *metrics.Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithLogger задаёт логгер конвейера
func WithLogger(logger *logging.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline создаёт конвейер. store должен быть безопасен для
// конкурентного доступа (world.Registry).
func NewPipeline(store world.ChunkStore, gen world.Generator, pool GroupPool, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:  store,
		gen:    gen,
		pool:   pool,
		tracer: otel.Tracer("github.com/annel0/voxelstream/internal/meshing"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.GetMeshingLogger()
	}
	return p
}

// Generate генерирует отсутствующие в хранилище чанки и возвращается,
// только когда все задачи генерации завершены. Чанк попадает в хранилище
// полностью заполненным.
func (p *Pipeline) Generate(ctx context.Context, coords []vec.Vec3) error {
	_, err := p.generate(ctx, coords)
	return err
}

// generate возвращает координаты чанков, добавленных в хранилище этим вызовом
func (p *Pipeline) generate(ctx context.Context, coords []vec.Vec3) ([]vec.Vec3, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.generate",
		trace.WithAttributes(attribute.Int("chunks.requested", len(coords))))
	defer span.End()
	start := time.Now()

	inserted := make([]bool, len(coords))
	group := p.pool.NewGroupContext(ctx)
	submitted := 0
	for i, pos := range coords {
		if _, exists := p.store.Get(pos); exists {
			continue
		}
		submitted++
		group.SubmitErr(func() error {
			chunk := world.NewChunk(pos)
			if err := world.GenerateChunk(p.gen, chunk); err != nil {
				return err
			}
			_, inserted[i] = p.store.InsertIfAbsent(pos, chunk)
			return nil
		})
	}

	err := group.Wait()
	elapsed := time.Since(start)
	p.metrics.ObservePhase(metrics.PhaseGenerate, elapsed)
	p.metrics.SetRegistryChunks(p.store.Len())
	span.SetAttributes(attribute.Int("chunks.generated", submitted))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("генерация чанков: %w", err)
	}

	generated := make([]vec.Vec3, 0, submitted)
	for i, ok := range inserted {
		if ok {
			generated = append(generated, coords[i])
		}
	}
	p.logger.Debug("Сгенерировано %d чанков за %v trace=%s", len(generated), elapsed, traceID(ctx))
	return generated, nil
}

// Mesh вычисляет маски граней и затенения для чанков из хранилища.
// Отсутствующие в хранилище координаты пропускаются.
func (p *Pipeline) Mesh(ctx context.Context, coords []vec.Vec3) ([]ChunkMesh, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.mesh",
		trace.WithAttributes(attribute.Int("chunks.requested", len(coords))))
	defer span.End()
	start := time.Now()

	results := make([]ChunkMesh, len(coords))
	present := make([]bool, len(coords))

	group := p.pool.NewGroupContext(ctx)
	for i, pos := range coords {
		chunk, exists := p.store.Get(pos)
		if !exists || chunk.IsEmpty() {
			continue
		}
		present[i] = true
		group.Submit(func() {
			faces := FaceMasks(chunk, p.store)
			occlusion := OcclusionMasks(chunk, p.store, faces)
			results[i] = newChunkMesh(chunk, faces, occlusion)
		})
	}

	err := group.Wait()
	elapsed := time.Since(start)
	p.metrics.ObservePhase(metrics.PhaseMesh, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "meshing failed")
		return nil, fmt.Errorf("мешинг чанков: %w", err)
	}

	meshes := make([]ChunkMesh, 0, len(coords))
	for i, ok := range present {
		if ok {
			meshes = append(meshes, results[i])
		}
	}
	span.SetAttributes(attribute.Int("chunks.meshed", len(meshes)))
	p.logger.Debug("Построено %d мешей за %v trace=%s", len(meshes), elapsed, traceID(ctx))
	return meshes, nil
}

// Build генерирует чанки, дожидается окончания генерации и строит меши.
//
// Кроме coords перестраиваются уже лежавшие в хранилище соседи по граням
// только что сгенерированных чанков: их грани на общей границе теперь закрыты.
func (p *Pipeline) Build(ctx context.Context, coords []vec.Vec3) ([]ChunkMesh, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.build")
	defer span.End()

	generated, err := p.generate(ctx, coords)
	if err != nil {
		return nil, err
	}

	frontier := p.frontier(coords, generated)
	span.SetAttributes(attribute.Int("chunks.remeshed", len(frontier)))
	return p.Mesh(ctx, append(coords[:len(coords):len(coords)], frontier...))
}

// frontier возвращает присутствующих в хранилище соседей generated,
// не входящих в coords. Каждая координата встречается один раз.
func (p *Pipeline) frontier(coords, generated []vec.Vec3) []vec.Vec3 {
	seen := make(map[vec.Vec3]struct{}, len(coords))
	for _, pos := range coords {
		seen[pos] = struct{}{}
	}

	var out []vec.Vec3
	for _, pos := range generated {
		for _, off := range vec.Neighbors() {
			n := pos.Add(off)
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			if _, exists := p.store.Get(n); exists {
				out = append(out, n)
			}
		}
	}
	return out
}

// Unload удаляет чанки из хранилища и возвращает количество удалённых
func (p *Pipeline) Unload(coords []vec.Vec3) int {
	start := time.Now()
	removed := 0
	for _, pos := range coords {
		if p.store.Remove(pos) {
			removed++
		}
	}
	p.metrics.ObservePhase(metrics.PhaseUnload, time.Since(start))
	p.metrics.SetRegistryChunks(p.store.Len())
	return removed
}

// traceID возвращает trace-id из контекста или "-"
func traceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return "-"
}
