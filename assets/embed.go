// Package assets holds files compiled into the rollbot binary.
package assets

import (
	"embed"
)

//go:embed help.md
var FS embed.FS

// Help returns the dice notation guide as markdown.
func Help() string {
	b, err := FS.ReadFile("help.md")
	if err != nil {
		return ""
	}
	return string(b)
}
