// Package assets embeds the stylesheet and scripts served under /assets/.
package assets

import "embed"

//go:embed app.css like.js
var AssetsFS embed.FS
