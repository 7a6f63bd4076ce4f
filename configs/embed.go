// Package configs provides the embedded settings template for everyfind.
//
// The template is embedded at build time so `everyfind config init` works
// from any distribution (source builds and binary releases alike).
//
// Settings precedence (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewSettings())
//  2. <configDir>/settings.json
//  3. Environment variables (EVERYFIND_*)
package configs

import _ "embed"

// SettingsTemplate is the starting settings.json written by `everyfind config init`.
//
//go:embed settings.example.json
var SettingsTemplate string
