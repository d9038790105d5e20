// Package settingsapi exposes the plugin settings registry and field catalog
// over a small JSON REST controller built on chi.
//
// Routes, relative to the base path (default /wp-json/plugin-name/v1):
//
//	GET       /settings  current values and widget configs
//	POST|PUT  /settings  validated, all-or-nothing update of {"values": {...}}
//	GET       /fields    widget configs for ?objectType=&subtype=
//	GET       /schema    OpenAPI description of the controller
//
// Authorization is delegated to the host through a GuardFunc.
package settingsapi
