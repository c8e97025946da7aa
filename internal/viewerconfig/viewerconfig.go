// Package viewerconfig loads the 3D viewer's options.
package viewerconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigPath is the default options file, relative to the working directory.
// FLOORVIEW_CONFIG overrides it.
const ConfigPath = "config/viewer.toml"

// Options controls viewer behavior. Camera distances are in plan units (cm).
type Options struct {
	// Resize makes the viewport follow the window size minus the container
	// offset; otherwise the container's own client size is used.
	Resize            bool    `mapstructure:"resize"`
	Spin              bool    `mapstructure:"spin"`
	SpinSpeed         float32 `mapstructure:"spin_speed"`
	ClickPan          bool    `mapstructure:"click_pan"`
	CanMoveFixedItems bool    `mapstructure:"can_move_fixed_items"`
	GridVisible       bool    `mapstructure:"grid_visible"`
	OccludedWalls     bool    `mapstructure:"occluded_walls"`
	OccludedRoofs     bool    `mapstructure:"occluded_roofs"`

	Camera CameraOptions `mapstructure:"camera"`
}

// CameraOptions holds projection and orbit bounds.
type CameraOptions struct {
	Fovy        float32    `mapstructure:"fovy"`
	Near        float32    `mapstructure:"near"`
	Far         float32    `mapstructure:"far"`
	MinDistance float32    `mapstructure:"min_distance"`
	MaxDistance float32    `mapstructure:"max_distance"`
	Position    [3]float32 `mapstructure:"position"`
}

// Default returns the stock options.
func Default() Options {
	return Options{
		Resize:    true,
		Spin:      true,
		SpinSpeed: 0.00002,
		ClickPan:  true,
		Camera: CameraOptions{
			Fovy:        45,
			Near:        10,
			Far:         100000,
			MinDistance: 100,
			MaxDistance: 15000,
			Position:    [3]float32{0, 600, 1500},
		},
	}
}

func newViper() *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetDefault("resize", d.Resize)
	v.SetDefault("spin", d.Spin)
	v.SetDefault("spin_speed", d.SpinSpeed)
	v.SetDefault("click_pan", d.ClickPan)
	v.SetDefault("can_move_fixed_items", d.CanMoveFixedItems)
	v.SetDefault("grid_visible", d.GridVisible)
	v.SetDefault("occluded_walls", d.OccludedWalls)
	v.SetDefault("occluded_roofs", d.OccludedRoofs)
	v.SetDefault("camera.fovy", d.Camera.Fovy)
	v.SetDefault("camera.near", d.Camera.Near)
	v.SetDefault("camera.far", d.Camera.Far)
	v.SetDefault("camera.min_distance", d.Camera.MinDistance)
	v.SetDefault("camera.max_distance", d.Camera.MaxDistance)
	v.SetDefault("camera.position", d.Camera.Position[:])
	return v
}

// Path returns the options file to use: FLOORVIEW_CONFIG when set, else ConfigPath.
func Path() string {
	if p := os.Getenv("FLOORVIEW_CONFIG"); p != "" {
		return p
	}
	return ConfigPath
}

// Load reads options from path (any format viper knows by extension) and
// FLOORVIEW_* environment overrides, e.g. FLOORVIEW_CAMERA_FAR. A missing file
// yields the defaults.
func Load(path string) (Options, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetEnvPrefix("FLOORVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Default(), fmt.Errorf("read config: %w", err)
	}
	var o Options
	if err := v.Unmarshal(&o); err != nil {
		return Default(), fmt.Errorf("unmarshal config: %w", err)
	}
	return o, nil
}

// Save writes o to path as toml, creating the directory if needed.
func Save(path string, o Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	v := viper.New()
	v.SetConfigType("toml")
	v.Set("resize", o.Resize)
	v.Set("spin", o.Spin)
	v.Set("spin_speed", o.SpinSpeed)
	v.Set("click_pan", o.ClickPan)
	v.Set("can_move_fixed_items", o.CanMoveFixedItems)
	v.Set("grid_visible", o.GridVisible)
	v.Set("occluded_walls", o.OccludedWalls)
	v.Set("occluded_roofs", o.OccludedRoofs)
	v.Set("camera.fovy", o.Camera.Fovy)
	v.Set("camera.near", o.Camera.Near)
	v.Set("camera.far", o.Camera.Far)
	v.Set("camera.min_distance", o.Camera.MinDistance)
	v.Set("camera.max_distance", o.Camera.MaxDistance)
	v.Set("camera.position", o.Camera.Position[:])
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
