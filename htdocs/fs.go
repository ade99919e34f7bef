package htdocs

import (
	"embed"
	"io/fs"
)

//go:embed index.html static
var static embed.FS

func FS() fs.FS {
	return &static
}
