package dropdown

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dsjohal14/peoplepicker/internal/scope/record"
	"github.com/dsjohal14/peoplepicker/internal/scope/search"
)

var (
	// ErrNoSurface is returned when a dropdown has nothing to paint on
	ErrNoSurface = errors.New("dropdown: surface is required")
	// ErrInvalidConfig wraps configuration validation failures
	ErrInvalidConfig = errors.New("dropdown: invalid config")
)

// Surface is the host that shows a dropdown
type Surface interface {
	// ViewportHeight is the height of the visible menu area, measured in the same
	// unit as Config.ItemHeight (pixels for a web host, lines for a terminal)
	ViewportHeight() int
	// Paint receives every new view; it is called on the dispatch goroutine
	Paint(View)
}

// Config configures a Dropdown
type Config struct {
	Surface    Surface
	Source     record.DataSource
	Dispatcher Dispatcher
	Items      []record.Record

	Multiselect bool
	ShowAvatar  bool
	ItemHeight  int
	// ItemsBuffer is the number of rows materialized beyond each edge of the viewport
	ItemsBuffer int
	PageSize    int
	PictureURL  string

	KeyFunc     record.KeyFunc
	DisplayFunc record.DisplayFunc
	// Fields selects the searchable text of a record for local filtering
	Fields search.Fields

	Placeholder     string
	NotFoundMessage string

	// OnSelect runs after every commit with the committed record
	OnSelect     func(record.Record)
	FetchTimeout time.Duration
	Logger       *zerolog.Logger
}

// DefaultConfig returns the stock options. Surface must still be set.
func DefaultConfig() Config {
	return Config{
		Multiselect:     true,
		ShowAvatar:      true,
		ItemHeight:      50,
		ItemsBuffer:     10,
		PageSize:        200,
		KeyFunc:         record.ByID,
		DisplayFunc:     record.Record.FullName,
		Fields:          search.NameSurname,
		Placeholder:     "Введите часть имени или домена",
		NotFoundMessage: "Пользователь не найден",
		FetchTimeout:    30 * time.Second,
	}
}

func (c *Config) validate() error {
	if c.Surface == nil {
		return ErrNoSurface
	}
	switch {
	case c.ItemHeight <= 0:
		return fmt.Errorf("%w: item height must be positive, got %d", ErrInvalidConfig, c.ItemHeight)
	case c.ItemsBuffer < 1:
		return fmt.Errorf("%w: items buffer must be at least 1, got %d", ErrInvalidConfig, c.ItemsBuffer)
	case c.PageSize <= 0:
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfig, c.PageSize)
	case c.FetchTimeout < 0:
		return fmt.Errorf("%w: fetch timeout must not be negative, got %s", ErrInvalidConfig, c.FetchTimeout)
	case c.Source != nil && c.Dispatcher == nil:
		return fmt.Errorf("%w: a source needs a dispatcher", ErrInvalidConfig)
	}

	if c.KeyFunc == nil {
		c.KeyFunc = record.ByID
	}
	if c.DisplayFunc == nil {
		c.DisplayFunc = record.Record.FullName
	}
	if c.Fields == nil {
		c.Fields = search.NameSurname
	}
	return nil
}
