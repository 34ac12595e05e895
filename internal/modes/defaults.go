package modes

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed templates
var embedded embed.FS

// DefaultFS returns the built-in prompt overlays. They serve as the
// fallback when no modes directory exists on disk and as the seed content
// written out at game initialization.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		// The embedded tree always contains templates/.
		panic(err)
	}
	return sub
}

// PromptFS returns the prompt filesystem for a modes directory, preferring
// the on-disk directory (game-master customizations) over the built-ins.
func PromptFS(modesDir string) fs.FS {
	if info, err := os.Stat(modesDir); err == nil && info.IsDir() {
		return os.DirFS(modesDir)
	}
	return DefaultFS()
}

// WriteDefaults copies the built-in overlays into a directory, skipping
// files that already exist so game-master edits survive re-initialization.
func WriteDefaults(modesDir string) error {
	return fs.WalkDir(DefaultFS(), ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := modesDir + "/" + p
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if _, err := os.Stat(target); err == nil {
			return nil
		}
		data, err := fs.ReadFile(DefaultFS(), p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
