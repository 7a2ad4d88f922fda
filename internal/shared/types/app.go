package types

// Position is the top-left corner of a window in viewport pixels
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair in pixels
type Size struct {
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// Viewport is the visible browser area reported by the client
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Handle is an opaque reference the browser resolves to a renderable
// (an icon glyph, an image path or a component name).
type Handle string

// Category groups registry entries for the shell views
type Category string

const (
	CategoryApp    Category = "app"
	CategoryGame   Category = "game"
	CategoryLink   Category = "link"
	CategorySystem Category = "system"
)

// AppDescriptor is an immutable registry entry. The window manager only
// knows a hosted app through this record.
type AppDescriptor struct {
	ID          string   `json:"id" yaml:"id" toml:"id"`
	Title       string   `json:"title" yaml:"title" toml:"title"`
	Icon        Handle   `json:"icon" yaml:"icon" toml:"icon"`
	Component   Handle   `json:"component,omitempty" yaml:"component" toml:"component"`
	DefaultSize Size     `json:"default_size" yaml:"default_size" toml:"default_size"`
	MobileSize  Size     `json:"mobile_size" yaml:"mobile_size" toml:"mobile_size"`
	IsExternal  bool     `json:"is_external" yaml:"is_external" toml:"is_external"`
	URL         string   `json:"url,omitempty" yaml:"url" toml:"url"` // External passthrough target
	Category    Category `json:"category" yaml:"category" toml:"category"`
}

// InstanceSpec describes a window opened directly from a component rather
// than from the registry, e.g. an explorer window opened at a folder.
type InstanceSpec struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	Icon      Handle                 `json:"icon"`
	Component Handle                 `json:"component"`
	Props     map[string]interface{} `json:"props,omitempty"`
}

// DynamicWindowSize is the initial size of windows opened from an InstanceSpec
var DynamicWindowSize = Size{Width: 900, Height: 600}

// Descriptor builds the inline descriptor used for a dynamic window
func (s InstanceSpec) Descriptor() AppDescriptor {
	return AppDescriptor{
		ID:          s.ID,
		Title:       s.Title,
		Icon:        s.Icon,
		Component:   s.Component,
		DefaultSize: DynamicWindowSize,
		MobileSize:  DynamicWindowSize,
		Category:    CategoryApp,
	}
}

// Target is what openApp accepts: a registry id or an inline spec.
// Exactly one of AppID and Spec is set.
type Target struct {
	AppID string        `json:"app_id,omitempty"`
	Spec  *InstanceSpec `json:"spec,omitempty"`
}

// AppTarget targets a registry entry
func AppTarget(appID string) Target {
	return Target{AppID: appID}
}

// SpecTarget targets a dynamic window
func SpecTarget(spec InstanceSpec) Target {
	return Target{Spec: &spec}
}

// WindowID returns the id the opened window will have
func (t Target) WindowID() string {
	if t.Spec != nil {
		return t.Spec.ID
	}
	return t.AppID
}
