package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig возвращается Validate для недопустимых значений
var ErrInvalidConfig = errors.New("invalid config")

// Config корневая структура конфигурации приложения.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Loader    LoaderConfig    `yaml:"loader"`
	Workers   WorkersConfig   `yaml:"workers"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Demo      DemoConfig      `yaml:"demo"`
}

type WorldConfig struct {
	Seed       int64   `yaml:"seed"`
	Height     string  `yaml:"height"` // sine | perlin
	NoiseScale float64 `yaml:"noise_scale"`
}

type LoaderConfig struct {
	LoadDistance int `yaml:"load_distance"`
}

type WorkersConfig struct {
	Count int `yaml:"count"` // 0 — по числу логических CPU
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Service string `yaml:"service"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type DemoConfig struct {
	Steps int    `yaml:"steps"`
	Step  [3]int `yaml:"step"`
}

// Значения по умолчанию
const (
	DefaultSeed         = 2137
	DefaultLoadDistance = 10
	DefaultMetricsPort  = 2112
	DefaultService      = "voxelstream"
)

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:       DefaultSeed,
			Height:     "perlin",
			NoiseScale: 0.05,
		},
		Loader:    LoaderConfig{LoadDistance: DefaultLoadDistance},
		Metrics:   MetricsConfig{Enabled: true},
		Telemetry: TelemetryConfig{Service: DefaultService},
		Logging:   LoggingConfig{Level: "info"},
		Demo:      DemoConfig{Steps: 8, Step: [3]int{1, 0, 0}},
	}
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(m.Port, "VOXEL_METRICS_PORT", DefaultMetricsPort)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	switch c.World.Height {
	case "sine", "perlin":
	default:
		return fmt.Errorf("%w: world.height %q (ожидается sine или perlin)", ErrInvalidConfig, c.World.Height)
	}
	if c.World.NoiseScale <= 0 {
		return fmt.Errorf("%w: world.noise_scale должен быть > 0", ErrInvalidConfig)
	}
	if c.Workers.Count < 0 {
		return fmt.Errorf("%w: workers.count не может быть отрицательным", ErrInvalidConfig)
	}
	if c.Demo.Steps < 0 {
		return fmt.Errorf("%w: demo.steps не может быть отрицательным", ErrInvalidConfig)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("%w: metrics.port %d", ErrInvalidConfig, c.Metrics.Port)
	}
	// Дальность загрузки ограничивается загрузчиком, здесь только отсекаем мусор
	if c.Loader.LoadDistance < 0 {
		return fmt.Errorf("%w: loader.load_distance не может быть отрицательным", ErrInvalidConfig)
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV VOXEL_CONFIG или возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
