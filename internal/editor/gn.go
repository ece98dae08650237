package editor

import (
	"regexp"
	"strings"

	"hdf-eco-tool/internal/fsops"
)

// VendorBuild edits the vendor level BUILD.gn
type VendorBuild struct {
	path string
	w    fsops.Writer
}

// DeleteModule removes if-blocks guarded by the module symbol, list items
// whose label has a path segment equal to the module, and single line
// list assignments holding only such a label.
func (b *VendorBuild) DeleteModule(module string) error {
	sym := symbolPattern(ModuleSymbol(module))
	label := `"(?:[^"]*/)?` + regexp.QuoteMeta(module) + `(?:[:/][^"]*)?"`
	item := regexp.MustCompile(`^\s*` + label + `\s*,?\s*$`)
	assign := regexp.MustCompile(`^\s*\w+\s*\+?=\s*\[\s*` + label + `\s*,?\s*\]\s*$`)

	return patchFile(b.w, b.path, func(lines []string) []string {
		lines = removeBraceBlocks(lines, func(l string) bool {
			return strings.HasPrefix(trimmed(l), "if") && sym.MatchString(l)
		})
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			if item.MatchString(l) || assign.MatchString(l) {
				continue
			}
			out = append(out, l)
		}
		return out
	})
}
