// Package templates embeds the bundled report templates so built-in
// template names work regardless of installation method.
//
// Usage:
//
//	data, _ := templates.FS.ReadFile("output/summary.tmpl")
package templates

import "embed"

// FS contains the bundled output templates. File names under output/
// double as the built-in template names, minus the .tmpl suffix.
//
//go:embed output/*.tmpl
var FS embed.FS
