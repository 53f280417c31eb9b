package iconview

import (
	"time"

	"fyne.io/fyne/v2"
)

const (
	layoutModeKey         = "xiconview:layoutMode"
	orientationKey        = "xiconview:orientation"
	itemWidthKey          = "xiconview:itemWidth"
	columnsKey            = "xiconview:columns"
	singleClickKey        = "xiconview:singleClick"
	singleClickTimeoutKey = "xiconview:singleClickTimeoutMs"
)

const (
	defaultSearchTimeout      = 5 * time.Second
	defaultSingleClickTimeout = 500 * time.Millisecond
	defaultAutoscrollInterval = 30 * time.Millisecond
	defaultAutoscrollZone     = 24
	defaultDragThreshold      = 8
)

// Config holds the layout parameters and interaction tunables of an Engine.
type Config struct {
	LayoutMode    LayoutMode
	Orientation   Orientation
	SelectionMode SelectionMode

	// Spacing separates cells inside an item.
	Spacing       float32
	RowSpacing    float32
	ColumnSpacing float32
	Margin        float32
	ItemPadding   float32
	// ItemWidth fixes the slot extent along the wrap axis (the width in rows
	// mode, the height in columns mode). Zero or less sizes slots to the
	// widest item.
	ItemWidth float32
	// Columns fixes the number of slots per line. Zero or less wraps on the
	// viewport extent.
	Columns int

	// SingleClick selects the hovered item after SingleClickTimeout.
	SingleClick        bool
	SingleClickTimeout time.Duration

	EnableSearch  bool
	SearchAttr    string
	SearchTimeout time.Duration

	DragThreshold      float32
	AutoscrollZone     float32
	AutoscrollInterval time.Duration
}

// DefaultConfig returns the settings a new view starts with.
func DefaultConfig() Config {
	return Config{
		LayoutMode:         LayoutRows,
		Orientation:        OrientationVertical,
		SelectionMode:      SelectionSingle,
		RowSpacing:         6,
		ColumnSpacing:      6,
		Margin:             6,
		ItemPadding:        6,
		SingleClickTimeout: defaultSingleClickTimeout,
		EnableSearch:       true,
		SearchTimeout:      defaultSearchTimeout,
		DragThreshold:      defaultDragThreshold,
		AutoscrollZone:     defaultAutoscrollZone,
		AutoscrollInterval: defaultAutoscrollInterval,
	}
}

// LoadConfig overlays the user's stored view preferences on DefaultConfig.
func LoadConfig(p fyne.Preferences) Config {
	c := DefaultConfig()
	if p == nil {
		return c
	}

	mode := LayoutMode(p.IntWithFallback(layoutModeKey, int(c.LayoutMode)))
	if mode == LayoutRows || mode == LayoutColumns {
		c.LayoutMode = mode
	}
	orientation := Orientation(p.IntWithFallback(orientationKey, int(c.Orientation)))
	if orientation == OrientationVertical || orientation == OrientationHorizontal {
		c.Orientation = orientation
	}
	c.ItemWidth = float32(p.FloatWithFallback(itemWidthKey, float64(c.ItemWidth)))
	c.Columns = p.IntWithFallback(columnsKey, c.Columns)
	c.SingleClick = p.BoolWithFallback(singleClickKey, c.SingleClick)
	if ms := p.Int(singleClickTimeoutKey); ms > 0 {
		c.SingleClickTimeout = time.Duration(ms) * time.Millisecond
	}
	return c
}

// SaveConfig stores the user facing parts of c.
func SaveConfig(p fyne.Preferences, c Config) {
	if p == nil {
		return
	}
	p.SetInt(layoutModeKey, int(c.LayoutMode))
	p.SetInt(orientationKey, int(c.Orientation))
	p.SetFloat(itemWidthKey, float64(c.ItemWidth))
	p.SetInt(columnsKey, c.Columns)
	p.SetBool(singleClickKey, c.SingleClick)
	p.SetInt(singleClickTimeoutKey, int(c.SingleClickTimeout/time.Millisecond))
}
