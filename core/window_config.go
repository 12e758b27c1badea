package core

type WindowConfig struct {
	Width      int    `toml:"width" yaml:"width"`
	Height     int    `toml:"height" yaml:"height"`
	Title      string `toml:"title" yaml:"title"`
	Resizable  bool   `toml:"resizable" yaml:"resizable"`
	VSync      bool   `toml:"vsync" yaml:"vsync"`
	Fullscreen bool   `toml:"fullscreen" yaml:"fullscreen"`
	Samples    int    `toml:"samples" yaml:"samples"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "molview",
		Resizable: true,
		VSync:     true,
		Samples:   4,
	}
}
