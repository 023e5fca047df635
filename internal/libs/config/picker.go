package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// PickerConfig is the TOML configuration of the terminal picker
type PickerConfig struct {
	Widget WidgetConfig `toml:"widget"`
	Source SourceConfig `toml:"source"`
}

// WidgetConfig mirrors the dropdown options
type WidgetConfig struct {
	Multiselect     bool   `toml:"multiselect"`
	ShowAvatar      bool   `toml:"show_avatar"`
	ItemHeight      int    `toml:"item_height"`
	ItemsBuffer     int    `toml:"items_buffer"`
	PageSize        int    `toml:"page_size"`
	Placeholder     string `toml:"placeholder"`
	NotFoundMessage string `toml:"not_found_message"`
	PictureURL      string `toml:"picture_url"`
}

// SourceConfig selects where the picker reads users from
type SourceConfig struct {
	// URL of a /users endpoint; empty means the local dataset
	URL          string   `toml:"url"`
	Dataset      string   `toml:"dataset"`
	MsgPack      bool     `toml:"msgpack"`
	FetchTimeout Duration `toml:"fetch_timeout"`
}

// Duration decodes TOML strings such as "30s"
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultPicker returns the built-in picker configuration
func DefaultPicker() PickerConfig {
	return PickerConfig{
		Widget: WidgetConfig{
			Multiselect:     true,
			ShowAvatar:      true,
			ItemHeight:      50,
			ItemsBuffer:     10,
			PageSize:        200,
			Placeholder:     "Введите часть имени или домена",
			NotFoundMessage: "Пользователь не найден",
		},
		Source: SourceConfig{
			Dataset:      "./data/users.json",
			FetchTimeout: Duration{30 * time.Second},
		},
	}
}

// LoadPicker reads a picker TOML file over the defaults.
// A missing file yields the defaults.
func LoadPicker(path string) (PickerConfig, error) {
	cfg := DefaultPicker()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse picker config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks numeric widget settings
func (c PickerConfig) Validate() error {
	switch {
	case c.Widget.ItemHeight <= 0:
		return fmt.Errorf("widget.item_height must be positive, got %d", c.Widget.ItemHeight)
	case c.Widget.ItemsBuffer < 1:
		return fmt.Errorf("widget.items_buffer must be at least 1, got %d", c.Widget.ItemsBuffer)
	case c.Widget.PageSize <= 0:
		return fmt.Errorf("widget.page_size must be positive, got %d", c.Widget.PageSize)
	}
	return nil
}

// SavePicker writes a picker configuration as TOML
func SavePicker(path string, cfg PickerConfig) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create picker config: %w", err)
	}
	defer func() { _ = file.Close() }()

	return toml.NewEncoder(file).Encode(cfg)
}
