// Package shell derives the desktop shell views from the app registry and
// the current window snapshot.
//
// Views:
//   - Taskbar: pinned apps, then every other open window, with open and
//     active indicators. An item is active when it is the active window and
//     not minimized.
//   - StartMenu: pinned grid, games folder and user menu
//   - DesktopIcons: hosted apps, never external links
//
// A taskbar click toggles minimize for an open window and opens the app
// otherwise.
package shell
