package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/terra/engine/core"
	"github.com/spaghettifunk/terra/engine/terrain"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// Duration wraps time.Duration so config files can use strings such as "250ms".
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Config holds everything needed to run the terrain engine.
type Config struct {
	Log      LogConfig      `toml:"log" yaml:"log"`
	Engine   EngineConfig   `toml:"engine" yaml:"engine"`
	Terrain  TerrainConfig  `toml:"terrain" yaml:"terrain"`
	Chunk    ChunkConfig    `toml:"chunk" yaml:"chunk"`
	Pipeline PipelineConfig `toml:"pipeline" yaml:"pipeline"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"` // debug, info, warn or error
}

type EngineConfig struct {
	TickRate Duration `toml:"tick_rate" yaml:"tick_rate"`
	// StatsInterval is how often the engine logs pipeline statistics. 0 disables it.
	StatsInterval Duration `toml:"stats_interval" yaml:"stats_interval"`
}

type TerrainConfig struct {
	Seed          uint32  `toml:"seed" yaml:"seed"`
	Octaves       int     `toml:"octaves" yaml:"octaves"`
	TerrainScale  float64 `toml:"terrain_scale" yaml:"terrain_scale"`
	CaveScale     float64 `toml:"cave_scale" yaml:"cave_scale"`
	HeightFalloff float64 `toml:"height_falloff" yaml:"height_falloff"`
	CaveWeight    float64 `toml:"cave_weight" yaml:"cave_weight"`
	SeaLevel      int32   `toml:"sea_level" yaml:"sea_level"`
	SandLevel     int32   `toml:"sand_level" yaml:"sand_level"`
	MaterialSeed  uint32  `toml:"material_seed" yaml:"material_seed"`
	SurfaceBand   int     `toml:"surface_band" yaml:"surface_band"`
}

type ChunkConfig struct {
	Size         int   `toml:"size" yaml:"size"`
	ViewDistance int32 `toml:"view_distance" yaml:"view_distance"`
}

type PipelineConfig struct {
	MeshCacheCapacity int      `toml:"mesh_cache_capacity" yaml:"mesh_cache_capacity"`
	ResultsPerTick    int      `toml:"results_per_tick" yaml:"results_per_tick"`
	RequestQueueSize  int      `toml:"request_queue_size" yaml:"request_queue_size"`
	ResultQueueSize   int      `toml:"result_queue_size" yaml:"result_queue_size"`
	StuckAfter        Duration `toml:"stuck_after" yaml:"stuck_after"`
}

// Settings converts the terrain section into generator settings.
func (t TerrainConfig) Settings() terrain.Settings {
	return terrain.Settings{
		Seed:          t.Seed,
		Octaves:       t.Octaves,
		TerrainScale:  t.TerrainScale,
		CaveScale:     t.CaveScale,
		HeightFalloff: t.HeightFalloff,
		CaveWeight:    t.CaveWeight,
		SeaLevel:      t.SeaLevel,
		SandLevel:     t.SandLevel,
		MaterialSeed:  t.MaterialSeed,
		SurfaceBand:   t.SurfaceBand,
	}
}

// Load reads configuration from a TOML or YAML file, picked by extension.
// An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func Default() *Config {
	settings := terrain.DefaultSettings()
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Engine: EngineConfig{
			TickRate:      Duration(16 * time.Millisecond),
			StatsInterval: Duration(5 * time.Second),
		},
		Terrain: TerrainConfig{
			Seed:          settings.Seed,
			Octaves:       settings.Octaves,
			TerrainScale:  settings.TerrainScale,
			CaveScale:     settings.CaveScale,
			HeightFalloff: settings.HeightFalloff,
			CaveWeight:    settings.CaveWeight,
			SeaLevel:      settings.SeaLevel,
			SandLevel:     settings.SandLevel,
			MaterialSeed:  settings.MaterialSeed,
			SurfaceBand:   settings.SurfaceBand,
		},
		Chunk: ChunkConfig{
			Size:         16,
			ViewDistance: 8,
		},
		Pipeline: PipelineConfig{
			MeshCacheCapacity: 16,
			ResultsPerTick:    1,
			RequestQueueSize:  4096,
			ResultQueueSize:   64,
			StuckAfter:        Duration(30 * time.Second),
		},
	}
}

func (c *Config) Validate() error {
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Engine.TickRate <= 0 {
		return errors.New("engine.tick_rate must be positive")
	}
	if c.Engine.StatsInterval < 0 {
		return errors.New("engine.stats_interval cannot be negative")
	}
	if c.Terrain.Octaves <= 0 {
		return errors.New("terrain.octaves must be positive")
	}
	if c.Terrain.TerrainScale <= 0 || c.Terrain.CaveScale <= 0 || c.Terrain.HeightFalloff <= 0 {
		return errors.New("terrain scales must be positive")
	}
	if c.Terrain.SurfaceBand <= 0 {
		return errors.New("terrain.surface_band must be positive")
	}
	if c.Chunk.Size <= 0 {
		return errors.New("chunk.size must be positive")
	}
	if c.Chunk.ViewDistance < 0 {
		return errors.New("chunk.view_distance cannot be negative")
	}
	if c.Pipeline.MeshCacheCapacity <= 0 {
		return errors.New("pipeline.mesh_cache_capacity must be positive")
	}
	if c.Pipeline.ResultsPerTick <= 0 {
		return errors.New("pipeline.results_per_tick must be positive")
	}
	if c.Pipeline.RequestQueueSize <= 0 || c.Pipeline.ResultQueueSize < 0 {
		return errors.New("pipeline queue sizes must be positive")
	}
	if c.Pipeline.StuckAfter < 0 {
		return errors.New("pipeline.stuck_after cannot be negative")
	}
	return nil
}
