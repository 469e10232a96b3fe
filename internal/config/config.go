// Package config handles editor configuration loading and management.
package config

// Config holds all editor settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Camera  CameraConfig  `yaml:"camera"`
	Editor  EditorConfig  `yaml:"editor"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// CameraConfig holds the orbit camera and projection settings.
type CameraConfig struct {
	FOVDegrees float32 `yaml:"fov_degrees"`
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	Distance   float32 `yaml:"distance"`
	AutoRotate float32 `yaml:"auto_rotate"` // radians per second, 0 disables
}

// EditorConfig holds scene file handling settings.
type EditorConfig struct {
	ScenePath      string `yaml:"scene_path"`
	WatchScene     bool   `yaml:"watch_scene"`      // reload when the file changes on disk
	AutosaveOnExit bool   `yaml:"autosave_on_exit"`
	ScreenshotDir  string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Camera: CameraConfig{
			FOVDegrees: 45,
			Near:       0.1,
			Far:        1000,
			Distance:   12,
			AutoRotate: 0,
		},
		Editor: EditorConfig{
			ScenePath:      "scene.json",
			WatchScene:     false,
			AutosaveOnExit: false,
			ScreenshotDir:  "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
