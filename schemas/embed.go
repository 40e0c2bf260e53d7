// Package schemas embeds the JSON Schema documents that describe each model response.
package schemas

import "embed"

// Files holds every *.schema.json document in this directory.
//
//go:embed *.schema.json
var Files embed.FS
