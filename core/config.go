package core

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the editor configuration, loaded from a TOML file next to
// the binary. A missing file yields the defaults.
type Settings struct {
	Window WindowSettings `toml:"window"`
	Render RenderSettings `toml:"render"`
}

type WindowSettings struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	VSync     bool   `toml:"vsync"`
	Resizable bool   `toml:"resizable"`
}

type RenderSettings struct {
	// FOV is the vertical field of view in degrees.
	FOV         float32    `toml:"fov"`
	NearPlane   float32    `toml:"near_plane"`
	FarPlane    float32    `toml:"far_plane"`
	ClearColor  [4]float32 `toml:"clear_color"`
	EdgeOverlay bool       `toml:"edge_overlay"`
}

func DefaultSettings() Settings {
	return Settings{
		Window: WindowSettings{
			Width:     1280,
			Height:    720,
			Title:     "Scene Editor",
			VSync:     true,
			Resizable: true,
		},
		Render: RenderSettings{
			FOV:        60,
			NearPlane:  0.1,
			FarPlane:   500,
			ClearColor: [4]float32{0.16, 0.17, 0.2, 1},
		},
	}
}

// LoadSettings reads path, filling unset fields with the defaults. A
// missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("settings %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings %q: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes the settings as TOML.
func SaveSettings(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings %q: %w", path, err)
	}
	return nil
}

func (r RenderSettings) Clear() Color {
	return Color{R: r.ClearColor[0], G: r.ClearColor[1], B: r.ClearColor[2], A: r.ClearColor[3]}
}
