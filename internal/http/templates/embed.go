// Package templates embeds the HTML templates served by the console.
package templates

import "embed"

// FS holds every template shipped with the binary.
//
//go:embed *.tmpl pages/*.tmpl
var FS embed.FS
