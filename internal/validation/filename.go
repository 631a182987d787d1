package validation

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxFilenameLength = 100

// foldAccents decomposes characters and drops the combining marks ("Ảnh" -> "Anh").
// Chained transformers keep state, so each call builds its own.
func foldAccents() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// SanitizeFilename reduces an uploaded filename to a safe ASCII base name.
// Directory parts are dropped, accents folded, whitespace turned into underscores
// and anything outside [A-Za-z0-9._-] removed. The base becomes "image"
// when nothing usable is left.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	folded, _, err := transform.String(foldAccents(), name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r == ' ' || r == '\t':
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_'):
			b.WriteRune(r)
		}
	}

	clean := b.String()
	ext := strings.ToLower(filepath.Ext(clean))
	if len(ext) < 2 || len(ext) > 10 {
		ext = ""
	}
	base := strings.Trim(clean[:len(clean)-len(ext)], "._")

	if base == "" {
		base = "image"
	}
	if len(base)+len(ext) > maxFilenameLength {
		base = base[:maxFilenameLength-len(ext)]
	}

	return base + ext
}
