package shell

import (
	"github.com/GriffinCanCode/DeskOS/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

// Registry is the registry view the shell needs
type Registry interface {
	Get(id string) (types.AppDescriptor, bool)
	List(category *types.Category) []types.AppDescriptor
}

// Config holds shell layout settings
type Config struct {
	PinnedApps []string // Always shown on the taskbar, in order
	HiddenApps []string // Kept off the start menu grid and the desktop
	UserMenu   []string // Entries of the start menu user menu
}

// DefaultConfig returns the default shell layout
func DefaultConfig() Config {
	return Config{
		PinnedApps: []string{"notepad", "explorer", "terminal", "github", "telegram"},
		HiddenApps: []string{"settings", "contact", "donate"},
		UserMenu:   []string{"settings", "contact", "donate"},
	}
}

// Entry is a launchable shortcut
type Entry struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Icon  types.Handle `json:"icon"`
}

// TaskbarItem is one taskbar button
type TaskbarItem struct {
	Entry
	Pinned   bool `json:"pinned"`
	IsOpen   bool `json:"is_open"`
	IsActive bool `json:"is_active"`
}

// StartMenu is the start menu content
type StartMenu struct {
	Pinned   []Entry `json:"pinned"`
	Games    []Entry `json:"games"`
	UserMenu []Entry `json:"user_menu"`
}

// ClickAction reports what a taskbar click did
type ClickAction string

const (
	ClickToggledMinimize ClickAction = "toggle_minimize"
	ClickOpened          ClickAction = "open"
)

// Shell derives the taskbar, start menu and desktop icons from the registry
// and a window snapshot
type Shell struct {
	registry Registry
	cfg      Config
	hidden   map[string]struct{}
}

// New creates a shell over a registry
func New(registry Registry, cfg Config) *Shell {
	hidden := make(map[string]struct{}, len(cfg.HiddenApps))
	for _, id := range cfg.HiddenApps {
		hidden[id] = struct{}{}
	}
	return &Shell{registry: registry, cfg: cfg, hidden: hidden}
}

// Taskbar returns the pinned apps followed by every other open window.
// Items with no icon anywhere are skipped.
func (s *Shell) Taskbar(snap types.Snapshot) []TaskbarItem {
	pinned := make(map[string]struct{}, len(s.cfg.PinnedApps))
	order := make([]string, 0, len(s.cfg.PinnedApps)+len(snap.Windows))
	seen := make(map[string]struct{}, cap(order))

	for _, id := range s.cfg.PinnedApps {
		pinned[id] = struct{}{}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			order = append(order, id)
		}
	}
	for _, w := range snap.Windows {
		if _, dup := seen[w.ID]; !dup {
			seen[w.ID] = struct{}{}
			order = append(order, w.ID)
		}
	}

	items := make([]TaskbarItem, 0, len(order))
	for _, id := range order {
		win, isOpen := snap.Find(id)
		entry, ok := s.resolve(id, win, isOpen)
		if !ok {
			continue
		}

		_, isPinned := pinned[id]
		items = append(items, TaskbarItem{
			Entry:    entry,
			Pinned:   isPinned,
			IsOpen:   isOpen,
			IsActive: snap.IsActive(id) && !win.Minimized,
		})
	}
	return items
}

// resolve prefers the registry entry and falls back to the window's own
// descriptor
func (s *Shell) resolve(id string, win types.Window, isOpen bool) (Entry, bool) {
	var entry Entry
	if desc, ok := s.registry.Get(id); ok {
		entry = Entry{ID: id, Title: desc.Title, Icon: desc.Icon}
	}
	if isOpen {
		if entry.Icon == "" {
			entry.Icon = win.Descriptor.Icon
		}
		if entry.Title == "" {
			entry.Title = win.Descriptor.Title
		}
	}
	entry.ID = id
	return entry, entry.Icon != ""
}

// ClickTaskbar toggles minimize for an open window and opens the app
// otherwise
func (s *Shell) ClickTaskbar(frames *frame.Controller, id string) (ClickAction, error) {
	if _, open := frames.Windows().Get(id); open {
		frames.Windows().ToggleMinimize(id)
		return ClickToggledMinimize, nil
	}
	if _, err := frames.Open(types.AppTarget(id)); err != nil {
		return "", err
	}
	return ClickOpened, nil
}

// StartMenu lists pinned apps, the games folder and the user menu
func (s *Shell) StartMenu() StartMenu {
	menu := StartMenu{
		Pinned:   []Entry{},
		Games:    []Entry{},
		UserMenu: []Entry{},
	}

	for _, desc := range s.registry.List(nil) {
		switch {
		case desc.Category == types.CategoryGame:
			menu.Games = append(menu.Games, entryOf(desc))
		case s.isHidden(desc.ID):
		default:
			menu.Pinned = append(menu.Pinned, entryOf(desc))
		}
	}

	for _, id := range s.cfg.UserMenu {
		if desc, ok := s.registry.Get(id); ok {
			menu.UserMenu = append(menu.UserMenu, entryOf(desc))
		}
	}
	return menu
}

// DesktopIcons lists hosted apps that get a desktop shortcut
func (s *Shell) DesktopIcons() []Entry {
	icons := []Entry{}
	for _, desc := range s.registry.List(nil) {
		if desc.IsExternal || s.isHidden(desc.ID) {
			continue
		}
		icons = append(icons, entryOf(desc))
	}
	return icons
}

func (s *Shell) isHidden(id string) bool {
	_, ok := s.hidden[id]
	return ok
}

func entryOf(desc types.AppDescriptor) Entry {
	return Entry{ID: desc.ID, Title: desc.Title, Icon: desc.Icon}
}
