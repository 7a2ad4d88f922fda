// Package registry provides the static app registry for the desktop.
//
// The registry maps an app identifier to its descriptor: title, icon,
// default size, mobile size and whether the entry is an external
// passthrough link. Entries are read-only once the server is running; the
// window manager only ever looks them up.
//
// Components:
//   - Manager: Ordered, read-mostly descriptor store
//   - Seeder: Loads the built-in catalog and optional YAML/TOML catalog files
//
// Catalog files:
//   - Matched by a doublestar glob (e.g. "apps/**/*.{yaml,toml}")
//   - Each file holds an "apps" list of descriptors
//   - Entries with an existing id replace the built-in entry in place
//
// Example Usage:
//
//	reg := registry.NewManager()
//	seeder := registry.NewSeeder(reg, logger)
//	seeder.SeedDefaults()
//	_ = seeder.SeedFiles("apps/**/*.yaml")
//	desc, ok := reg.Get("notepad")
package registry
