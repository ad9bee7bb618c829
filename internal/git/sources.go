package git

import (
	"embed"
	"io/fs"
)

//go:embed git.go batch.go
var sources embed.FS

// Sources returns the files that define the git argument vectors. Lean
// clone fingerprints hash them, so a changed flag invalidates cached clones.
func Sources() fs.FS {
	return sources
}
