package editor

import (
	"regexp"
	"strings"

	"hdf-eco-tool/internal/fsops"
)

var makeConditionals = map[string]bool{
	"ifeq":   true,
	"ifneq":  true,
	"ifdef":  true,
	"ifndef": true,
}

// removeMakeConditionals drops ifeq/ifneq/ifdef/ifndef blocks whose condition
// matches pred, through their matching endif.
func removeMakeConditionals(lines []string, pred func(string) bool) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if !makeConditionals[directive(lines[i])] || !pred(lines[i]) {
			out = append(out, lines[i])
			continue
		}
		end := matchingEndif(lines, i)
		if end < 0 {
			out = append(out, lines[i:]...)
			break
		}
		i = end
	}
	return out
}

func matchingEndif(lines []string, start int) int {
	depth := 0
	for j := start; j < len(lines); j++ {
		switch w := directive(lines[j]); {
		case makeConditionals[w]:
			depth++
		case w == "endif":
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// directive returns the leading keyword of a make line, so "ifeq(" and
// "ifeq (" both yield "ifeq".
func directive(line string) string {
	t := strings.TrimLeft(line, " \t")
	end := strings.IndexFunc(t, func(r rune) bool { return r < 'a' || r > 'z' })
	if end < 0 {
		return t
	}
	return t[:end]
}

func removeSymbol(lines []string, symbol string) []string {
	re := symbolPattern(symbol)
	lines = removeMakeConditionals(lines, re.MatchString)
	return removeLogicalLines(lines, re.MatchString)
}

// VendorMakefile edits the vendor level hdf Makefile
type VendorMakefile struct {
	path string
	w    fsops.Writer
}

// DeleteModule removes the blocks and lines guarded by the module symbol
func (m *VendorMakefile) DeleteModule(module string) error {
	return patchFile(m.w, m.path, func(lines []string) []string {
		return removeSymbol(lines, ModuleSymbol(module))
	})
}

// VendorMk edits hdf_lite.mk, the LiteOS link manifest
type VendorMk struct {
	path string
	w    fsops.Writer
}

func (m *VendorMk) DeleteModule(module string) error {
	lib := regexp.MustCompile(`(?:^|\s)-l(?:hdf_)?` + regexp.QuoteMeta(module) + `(?:\s|$)`)
	return patchFile(m.w, m.path, func(lines []string) []string {
		lines = removeSymbol(lines, ModuleSymbol(module))
		return removeLogicalLines(lines, lib.MatchString)
	})
}

// ModuleMakefile edits the Makefile inside a module directory
type ModuleMakefile struct {
	path string
	w    fsops.Writer
}

// DeleteDriver removes the blocks and lines guarded by the driver symbol
func (m *ModuleMakefile) DeleteDriver(module, driver string) error {
	return patchFile(m.w, m.path, func(lines []string) []string {
		return removeSymbol(lines, DriverSymbol(module, driver))
	})
}
