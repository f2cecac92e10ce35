package rom

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Annotation and metadata patterns stripped from filenames, applied in order.
// The dash rule must run last: it removes subtitles like " - Kaizo Edition"
// only after bracketed metadata is gone.
var stripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\([^)]*\)`),        // (USA), (Rev 1), ...
	regexp.MustCompile(`\[[^\]]*\]`),       // [!], [h1], ...
	regexp.MustCompile(`\{[^}]*\}`),        // {alt}, ...
	regexp.MustCompile(`\s+v?\d+\.?\d*$`),  // trailing version numbers
	regexp.MustCompile(`\s+-\s+.*$`),       // everything after " - "
}

// Hack/mod/translation markers, matched case-insensitively as whole words
// or bracket codes against the raw filename.
var hackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhack\b`),
	regexp.MustCompile(`(?i)\bmod\b`),
	regexp.MustCompile(`(?i)\btranslation\b`),
	regexp.MustCompile(`(?i)\btrans\b`),
	regexp.MustCompile(`(?i)\bpatch\b`),
	regexp.MustCompile(`(?i)\bhomebrew\b`),
	regexp.MustCompile(`(?i)\bunlicensed\b`),
	regexp.MustCompile(`(?i)\bpirate\b`),
	regexp.MustCompile(`(?i)\b\[h\d*\]`),    // [h], [h1], ...
	regexp.MustCompile(`(?i)\b\[t\+?\d*\]`), // [t], [t+], [t1], ...
	regexp.MustCompile(`(?i)\b\[p\d*\]`),    // [p], [p1], ...
}

// regionPattern pairs a canonical region code with the filename tags that
// imply it. The table is ordered: the first region whose pattern matches
// wins, so single-letter codes never shadow the spelled-out forms of an
// earlier region.
type regionPattern struct {
	region   string
	patterns []*regexp.Regexp
}

var regionTable = []regionPattern{
	{"USA", compileRegionTags("USA", "U", "US")},
	{"Japan", compileRegionTags("Japan", "J", "JP")},
	{"Europe", compileRegionTags("Europe", "E", "EU")},
	{"World", compileRegionTags("World", "W")},
	{"Asia", compileRegionTags("Asia", "A")},
	{"Korea", compileRegionTags("Korea", "K")},
	{"China", compileRegionTags("China", "C")},
}

func compileRegionTags(tags ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		res = append(res, regexp.MustCompile(`(?i)\(`+regexp.QuoteMeta(tag)+`\)`))
	}
	return res
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize strips annotation metadata from a ROM filename and returns the
// bare game name used as the name-matching key. Normalizing an already
// normalized name returns it unchanged.
func Normalize(filename string) string {
	// Drop the extension, then work on the bare name
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = norm.NFC.String(name)

	for _, re := range stripPatterns {
		name = re.ReplaceAllString(name, "")
	}

	name = whitespaceRe.ReplaceAllString(name, " ")
	name = strings.Trim(name, " -_")

	return name
}

// DetectHack reports whether a filename marks a hack, mod, translation,
// homebrew or pirate release. When it does, the second return value is the
// base game name the hack derives from (the normalized name).
func DetectHack(filename string) (bool, string) {
	for _, re := range hackPatterns {
		if re.MatchString(filename) {
			return true, Normalize(filename)
		}
	}
	return false, ""
}

// ExtractRegion resolves a region code from filename tags like "(USA)" or
// "(J)". Returns "" when no tag matches; that is not an error, many dumps
// simply carry no region.
func ExtractRegion(filename string) string {
	for _, rp := range regionTable {
		for _, re := range rp.patterns {
			if re.MatchString(filename) {
				return rp.region
			}
		}
	}
	return ""
}
