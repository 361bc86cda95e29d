// Package app is the composition root for dex.
//
// Run wires everything in order and blocks until the user quits:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()      read ~/.config/dex/config.toml
//	       ├─────> logging.New()      JSON log file (the TUI owns the terminal)
//	       ├─────> OpenStore()        bolt or file favorites, logged
//	       ├─────> pokeapi.NewClient()
//	       ├─────> engine.New()       root reducer over the feature tree
//	       ├─────> StartEngine()      single-writer loop on its own goroutine
//	       └─────> ui.Run()           Bubble Tea host (blocks)
//
// Preferences (theme and last tab) are restored before the UI starts and
// written back when it exits. Failures before the UI starts are returned;
// failures after it are logged.
package app
