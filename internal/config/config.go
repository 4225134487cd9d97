package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/briangreenhill/mapty/internal/mapview"
	"github.com/briangreenhill/mapty/internal/storage"
	"github.com/briangreenhill/mapty/internal/workout"
)

// Config holds all configuration for mapty. Values come from an optional
// mapty.yaml and MAPTY_* environment variables (store.driver -> MAPTY_STORE_DRIVER).
type Config struct {
	Store    StoreConfig  `mapstructure:"store"`
	Server   ServerConfig `mapstructure:"server"`
	Map      MapConfig    `mapstructure:"map"`
	Form     FormConfig   `mapstructure:"form"`
	Log      LogConfig    `mapstructure:"log"`
	Location string       `mapstructure:"location"`
}

type StoreConfig struct {
	Driver        string `mapstructure:"driver"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	PostgresURL   string `mapstructure:"postgres_url"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type MapConfig struct {
	Zoom        int    `mapstructure:"zoom"`
	TileURL     string `mapstructure:"tile_url"`
	Attribution string `mapstructure:"attribution"`
}

type FormConfig struct {
	RestyleDelay time.Duration `mapstructure:"restyle_delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads mapty.yaml from path if present, then applies environment
// overrides on top of the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("mapty")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MAPTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	tiles := mapview.DefaultOptions().Tiles
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "./mapty.db")
	v.SetDefault("store.redis_addr", "")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.postgres_url", "")
	v.SetDefault("server.address", ":8222")
	v.SetDefault("map.zoom", mapview.DefaultZoom)
	v.SetDefault("map.tile_url", tiles.URL)
	v.SetDefault("map.attribution", tiles.Attribution)
	v.SetDefault("form.restyle_delay", "1s")
	v.SetDefault("log.level", "info")
	v.SetDefault("location", "")

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Home parses Location ("lat,lng"). An empty location means no position is
// available and yields nil.
func (c Config) Home() (*workout.Coords, error) {
	loc := strings.TrimSpace(c.Location)
	if loc == "" {
		return nil, nil
	}
	lat, lng, ok := strings.Cut(loc, ",")
	if !ok {
		return nil, fmt.Errorf("location %q: expected \"lat,lng\"", c.Location)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, fmt.Errorf("location latitude: %w", err)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return nil, fmt.Errorf("location longitude: %w", err)
	}
	if la < -90 || la > 90 || ln < -180 || ln > 180 {
		return nil, fmt.Errorf("location %q out of range", c.Location)
	}
	return &workout.Coords{la, ln}, nil
}

func (c Config) StorageConfig() storage.Config {
	return storage.Config{
		Driver:        c.Store.Driver,
		SQLitePath:    c.Store.SQLitePath,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		PostgresURL:   c.Store.PostgresURL,
	}
}

func (c Config) MapOptions() mapview.Options {
	return mapview.Options{
		Zoom: c.Map.Zoom,
		Tiles: mapview.TileLayer{
			URL:         c.Map.TileURL,
			Attribution: c.Map.Attribution,
		},
	}
}

// LogLevel falls back to info for unknown level names.
func (c Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
