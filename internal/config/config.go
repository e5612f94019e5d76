package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/conectividad/internal/dataset"
	"github.com/KaramelBytes/conectividad/internal/markers"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	Encoding  string `mapstructure:"encoding" yaml:"encoding"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// HTTP dashboard
	ListenAddr     string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	SessionTTLMin  int      `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	// Base map
	MapCenterLat     float64 `mapstructure:"map_center_lat" yaml:"map_center_lat"`
	MapCenterLon     float64 `mapstructure:"map_center_lon" yaml:"map_center_lon"`
	MapZoom          int     `mapstructure:"map_zoom" yaml:"map_zoom"`
	MapTiles         string  `mapstructure:"map_tiles" yaml:"map_tiles"`
	MapWidth         int     `mapstructure:"map_width" yaml:"map_width"`
	MapHeight        int     `mapstructure:"map_height" yaml:"map_height"`
	MapPopupMaxWidth int     `mapstructure:"map_popup_max_width" yaml:"map_popup_max_width"`

	// Marker styling
	MarkerGoodRating   float64   `mapstructure:"marker_good_rating" yaml:"marker_good_rating"`
	MarkerFairRatings  []float64 `mapstructure:"marker_fair_ratings" yaml:"marker_fair_ratings"`
	MarkerRatingRadius float64   `mapstructure:"marker_rating_radius" yaml:"marker_rating_radius"`
	MarkerSpeedDivisor float64   `mapstructure:"marker_speed_divisor" yaml:"marker_speed_divisor"`
	MarkerMinRadius    float64   `mapstructure:"marker_min_radius" yaml:"marker_min_radius"`
	MarkerMaxRadius    float64   `mapstructure:"marker_max_radius" yaml:"marker_max_radius"`
	MarkerClampRadius  bool      `mapstructure:"marker_clamp_radius" yaml:"marker_clamp_radius"`
	MarkerFillOpacity  float64   `mapstructure:"marker_fill_opacity" yaml:"marker_fill_opacity"`
}

// configDir returns ~/.conectividad.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".conectividad"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.conectividad/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadEnv reads KEY=value pairs from the given .env files (default ".env")
// into the process environment. Missing files are ignored and variables that
// are already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CONECTIVIDAD")
	v.AutomaticEnv()

	loadOpt := dataset.DefaultLoadOptions()
	ms := markers.DefaultMapSettings()
	p := markers.DefaultPolicy()

	v.SetDefault("data_path", "Revisión 800 sitios.csv")
	v.SetDefault("encoding", loadOpt.Encoding)
	v.SetDefault("delimiter", "auto")
	v.SetDefault("listen_addr", ":8501")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("session_ttl_min", 60)
	v.SetDefault("map_center_lat", ms.CenterLat)
	v.SetDefault("map_center_lon", ms.CenterLon)
	v.SetDefault("map_zoom", ms.Zoom)
	v.SetDefault("map_tiles", ms.Tiles)
	v.SetDefault("map_width", ms.Width)
	v.SetDefault("map_height", ms.Height)
	v.SetDefault("map_popup_max_width", ms.PopupMaxWidth)
	v.SetDefault("marker_good_rating", p.GoodRating)
	v.SetDefault("marker_fair_ratings", p.FairRatings)
	v.SetDefault("marker_rating_radius", p.RatingRadius)
	v.SetDefault("marker_speed_divisor", p.SpeedDivisor)
	v.SetDefault("marker_min_radius", p.MinRadius)
	v.SetDefault("marker_max_radius", p.MaxRadius)
	v.SetDefault("marker_clamp_radius", p.Clamp)
	v.SetDefault("marker_fill_opacity", p.FillOpacity)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Policy().Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadOptions returns the dataset reading options.
func (c *Global) LoadOptions() (dataset.LoadOptions, error) {
	opt := dataset.LoadOptions{Encoding: c.Encoding}
	switch c.Delimiter {
	case "", "auto":
		// chosen by extension
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported delimiter: %q (use ',', ';' or tab)", c.Delimiter)
	}
	return opt, nil
}

// Policy returns the marker styling policy.
func (c *Global) Policy() markers.Policy {
	return markers.Policy{
		GoodRating:   c.MarkerGoodRating,
		FairRatings:  c.MarkerFairRatings,
		RatingRadius: c.MarkerRatingRadius,
		SpeedDivisor: c.MarkerSpeedDivisor,
		MinRadius:    c.MarkerMinRadius,
		MaxRadius:    c.MarkerMaxRadius,
		Clamp:        c.MarkerClampRadius,
		FillOpacity:  c.MarkerFillOpacity,
	}
}

// MapSettings returns the base map settings.
func (c *Global) MapSettings() markers.MapSettings {
	return markers.MapSettings{
		CenterLat:     c.MapCenterLat,
		CenterLon:     c.MapCenterLon,
		Zoom:          c.MapZoom,
		Tiles:         c.MapTiles,
		Width:         c.MapWidth,
		Height:        c.MapHeight,
		PopupMaxWidth: c.MapPopupMaxWidth,
	}
}

// SessionTTL returns the idle lifetime of a dashboard session.
func (c *Global) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMin) * time.Minute
}
