package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/annel0/voxelstream/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voxelstream"

// Фазы конвейера для метки phase
const (
	PhaseGenerate = "generate"
	PhaseMesh     = "mesh"
	PhaseUnload   = "unload"
)

// Metrics инкапсулирует Prometheus-метрики загрузчика и конвейера.
// Все методы безопасны для nil-получателя, чтобы компоненты
// можно было использовать без метрик.
type Metrics struct {
	commits        prometheus.Counter
	queuedLoad     prometheus.Counter
	queuedUnload   prometheus.Counter
	loadedChunks   prometheus.Gauge
	commitDuration prometheus.Histogram
	phaseDuration  *prometheus.HistogramVec
	registryChunks prometheus.Gauge
}

// New создаёт метрики и регистрирует их в reg.
// Для глобального регистра передайте prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loader_commits_total",
			Help:      "Число завершённых коммитов загрузчика.",
		}),
		queuedLoad: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_queued_load_total",
			Help:      "Координаты чанков, поставленные в очередь загрузки.",
		}),
		queuedUnload: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_queued_unload_total",
			Help:      "Координаты чанков, поставленные в очередь выгрузки.",
		}),
		loadedChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loader_loaded_chunks",
			Help:      "Размер множества загруженных координат.",
		}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_duration_seconds",
			Help:      "Длительность вычисления коммита.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_phase_duration_seconds",
			Help:      "Длительность фаз конвейера генерации и мешинга.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"phase"}),
		registryChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_chunks",
			Help:      "Количество чанков в реестре.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.commits, m.queuedLoad, m.queuedUnload, m.loadedChunks,
		m.commitDuration, m.phaseDuration, m.registryChunks,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("регистрация метрик: %w", err)
		}
	}
	return m, nil
}

// ObserveCommit фиксирует завершённый коммит
func (m *Metrics) ObserveCommit(loaded, unloaded, total int, d time.Duration) {
	if m == nil {
		return
	}
	m.commits.Inc()
	m.queuedLoad.Add(float64(loaded))
	m.queuedUnload.Add(float64(unloaded))
	m.loadedChunks.Set(float64(total))
	m.commitDuration.Observe(d.Seconds())
}

// ObservePhase фиксирует длительность фазы конвейера
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// SetRegistryChunks обновляет размер реестра
func (m *Metrics) SetRegistryChunks(n int) {
	if m == nil {
		return
	}
	m.registryChunks.Set(float64(n))
}

// Exporter управляет HTTP-эндпоинтом Prometheus.
type Exporter struct {
	gatherer prometheus.Gatherer
	server   *http.Server
}

// NewExporter создаёт экспортер, но не запускает HTTP-сервер.
func NewExporter(gatherer prometheus.Gatherer) *Exporter {
	return &Exporter{gatherer: gatherer}
}

// Start запускает HTTP-эндпоинт /metrics на указанном порту.
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func (e *Exporter) Start(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.gatherer, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%d", port)
	e.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
}

// Stop останавливает HTTP-сервер
func (e *Exporter) Stop(ctx context.Context) error {
	if e.server == nil {
		return nil
	}
	return e.server.Shutdown(ctx)
}
