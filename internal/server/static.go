package server

import "embed"

//go:embed web/static
var staticFiles embed.FS
