package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxelstream/internal/config"
	"github.com/annel0/voxelstream/internal/loader"
	"github.com/annel0/voxelstream/internal/logging"
	"github.com/annel0/voxelstream/internal/meshing"
	"github.com/annel0/voxelstream/internal/metrics"
	"github.com/annel0/voxelstream/internal/observability"
	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/workers"
	"github.com/annel0/voxelstream/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $VOXEL_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем систему логирования
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации логирования: %v", err)
	}
	logging.Configure(cfg.Logging.Dir, level)
	if err := logging.InitDefaultLogger("voxelstream"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	// Контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("🧊 Запуск voxelstream: seed=%d, высоты=%s, радиус=%d",
		cfg.World.Seed, cfg.World.Height, cfg.Loader.LoadDistance)

	// === ТЕЛЕМЕТРИЯ И МЕТРИКИ ===
	shutdownTelemetry := observability.ShutdownFunc(observability.Noop)
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err = observability.InitTelemetry(ctx, cfg.Telemetry.Service)
		if err != nil {
			logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
			shutdownTelemetry = observability.Noop
		}
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Error("Ошибка завершения OpenTelemetry: %v", err)
		}
	}()

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		logging.Error("❌ Ошибка регистрации метрик: %v", err)
		return
	}
	if cfg.Metrics.Enabled {
		exporter := metrics.NewExporter(prometheus.DefaultGatherer)
		exporter.Start(cfg.Metrics.GetMetricsPort())
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := exporter.Stop(stopCtx); err != nil {
				logging.Error("Ошибка остановки Prometheus: %v", err)
			}
		}()
	}

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===
	pool := workers.New(cfg.Workers.Count)
	defer pool.Shutdown()
	logging.Debug("Пул воркеров: %d", pool.Size())

	registry := world.NewRegistry()

	gen := world.NewTerrainGenerator(cfg.World.Seed, world.HeightMode(cfg.World.Height))
	gen.NoiseScale = cfg.World.NoiseScale

	chunkLoader := loader.New(pool,
		loader.WithLoadDistance(cfg.Loader.LoadDistance),
		loader.WithMetrics(m),
	)
	pipeline := meshing.NewPipeline(registry, gen, pool, meshing.WithMetrics(m))

	step := vec.New(cfg.Demo.Step[0], cfg.Demo.Step[1], cfg.Demo.Step[2])
	center := vec.New(0, 0, 0)

	for i := 0; i < cfg.Demo.Steps; i++ {
		select {
		case <-ctx.Done():
			logging.Info("📡 Получен сигнал завершения, остановка после %d шагов", i)
			return
		default:
		}

		if err := runStep(ctx, chunkLoader, pipeline, center); err != nil {
			logging.Error("❌ Шаг %d: %v", i, err)
			return
		}

		// Колонки далеко за сферой загрузки больше не понадобятся
		radiusBlocks := (chunkLoader.LoadDistance() + 1) * world.ChunkSize
		pruned := gen.PruneHeightCache(chunkLoader.Center().Mul(world.ChunkSize).ToVec2(), radiusBlocks)
		logging.Debug("Из кэша высот удалено %d колонок", pruned)

		if ps, err := workers.ReadProcessStats(); err == nil {
			logging.Info("   💾 RSS=%.1fMB heap=%.1fMB CPU=%.1f%% горутин=%d",
				ps.RSSMB, ps.HeapMB, ps.CPUPercent, ps.Goroutines)
		}

		center = center.Add(step)
	}

	stats := pool.Stats()
	logging.Info("👋 Готово: чанков в реестре %d, задач выполнено %d, ошибок %d",
		registry.Len(), stats.Completed, stats.Failed)
}

// runStep переносит наблюдателя в center, применяет разницу сфер и строит меши
func runStep(ctx context.Context, l *loader.ChunkLoader, p *meshing.Pipeline, center vec.Vec3) error {
	start := time.Now()

	commit := l.CommitAt(center)
	commit.Wait()
	if commit.Err != nil {
		return commit.Err
	}

	removed := p.Unload(l.UnloadQueue().TryDrain())

	// Меши соседей новых чанков на старой границе тоже перестраиваются
	meshes, err := p.Build(ctx, l.LoadQueue().TryDrain())
	if err != nil {
		return err
	}

	visible, occluded := 0, 0
	for i := range meshes {
		visible += meshes[i].VisibleFaces()
		occluded += meshes[i].OccludedCorners()
	}

	logging.Info("🧭 Центр %s: коммит %s +%d/-%d (выгружено %d), мешей %d, граней %d, затенённых углов %d за %v",
		center, commit.ID, commit.Loaded, commit.Unloaded, removed, len(meshes), visible, occluded, time.Since(start))
	return nil
}
