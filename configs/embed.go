// Package configs provides embedded configuration templates for ytsearch.
//
// Templates are embedded at build time so that `ytsearch config init` works
// from any distribution, including a bare `go install`.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults (config.NewConfig)
//  2. User config (~/.config/ytsearch/config.yaml)
//  3. Environment variables (YTSEARCH_API_KEY, YTSEARCH_API_VERSION)
package configs

import _ "embed"

// UserConfigTemplate is written by `ytsearch config init` to the user config
// path. Every value in it matches the built-in default except the API key.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
