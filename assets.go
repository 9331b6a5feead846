// Package dashboard embeds the server-rendered page templates.
package dashboard

import "embed"

//go:embed frontend/templates/*.tmpl
var TemplateFS embed.FS
