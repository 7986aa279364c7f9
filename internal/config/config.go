// Package config handles wardrobe configuration loading and management.
package config

// Config holds all settings for the wardrobe tools.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Store   StoreConfig   `yaml:"store"`
	Preview PreviewConfig `yaml:"preview"`
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds compositing parameters.
type RenderConfig struct {
	Scale          float32 `yaml:"scale"`            // Sprite pixel to screen pixel scale
	LayerDepthStep float32 `yaml:"layer_depth_step"` // Depth spacing between consecutive layers
	SwimOffsetY    float32 `yaml:"swim_offset_y"`    // Downward shift while swimming, screen pixels
	MaxTrackedMs   int     `yaml:"max_tracked_ms"`   // Elapsed-duration ceiling
	PrismaticMs    int     `yaml:"prismatic_ms"`     // Duration of one prismatic color stop
	FrameDuration  int     `yaml:"frame_duration"`   // Default frame duration when a model omits one
}

// StoreConfig holds entity state persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"` // SQLite file; empty keeps state in memory
}

// PreviewConfig holds settings for offline frame rendering.
type PreviewConfig struct {
	OutputDir string `yaml:"output_dir"`
	Frames    int    `yaml:"frames"`
	DeltaMs   int    `yaml:"delta_ms"`
	Direction int    `yaml:"direction"`
}

// WindowConfig holds viewer window settings.
type WindowConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	VSync  bool `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Scale:          4,
			LayerDepthStep: 1e-5,
			SwimOffsetY:    64,
			MaxTrackedMs:   3600000,
			PrismaticMs:    1500,
			FrameDuration:  200,
		},
		Store: StoreConfig{
			Path: "",
		},
		Preview: PreviewConfig{
			OutputDir: "preview",
			Frames:    8,
			DeltaMs:   100,
			Direction: 2,
		},
		Window: WindowConfig{
			Width:  640,
			Height: 480,
			VSync:  true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
