// Package schoolui provides embedded assets for production builds.
package schoolui

import "embed"

// TemplateFS holds the server-rendered page templates (login, landing pages,
// receipt print view). Embedded so the binary is self-contained.
//
//go:embed all:web/templates
var TemplateFS embed.FS
