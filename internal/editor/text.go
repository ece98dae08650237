// Package editor implements the format specific text surgery applied to HDF
// build and config files when a module or driver is deleted. Every editor
// removes only the lines or blocks that reference its identifier, leaves all
// other bytes untouched, and is a no-op when the identifier or file is absent.
package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"hdf-eco-tool/internal/fsops"
)

// ModuleSymbol is the Kconfig symbol enabling a module, e.g. DRIVERS_HDF_USB
func ModuleSymbol(module string) string {
	return "DRIVERS_HDF_" + strings.ToUpper(module)
}

// DriverSymbol is the Kconfig symbol enabling one driver of a module
func DriverSymbol(module, driver string) string {
	return ModuleSymbol(module) + "_" + strings.ToUpper(driver)
}

// symbolPattern matches symbol as a whole word, with an optional LOSCFG_ or
// CONFIG_ prefix, so DRIVERS_HDF_USB does not match DRIVERS_HDF_USB_HMCP.
func symbolPattern(symbol string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^A-Za-z0-9_])(?:LOSCFG_|CONFIG_)?` +
		regexp.QuoteMeta(symbol) + `(?:[^A-Za-z0-9_]|$)`)
}

// patchFile applies fn to the lines of path and writes the result back only
// when it differs. A missing file is not an error.
func patchFile(w fsops.Writer, path string, fn func([]string) []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	out := joinLines(fn(splitLines(data)))
	if bytes.Equal(out, data) {
		return nil
	}
	if err := w.WriteFile(path, out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// splitLines keeps line endings recoverable: joinLines(splitLines(b)) == b
func splitLines(data []byte) []string {
	return strings.Split(string(data), "\n")
}

func joinLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

// trimmed strips surrounding whitespace including a CR left by CRLF files
func trimmed(line string) string {
	return strings.TrimSpace(line)
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// removeLogicalLines drops every line matching pred together with the
// backslash continuation lines that belong to it.
func removeLogicalLines(lines []string, pred func(string) bool) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		start := i
		for i < len(lines)-1 && strings.HasSuffix(strings.TrimRight(lines[i], " \t\r"), `\`) {
			i++
		}
		logical := lines[start : i+1]
		if pred(strings.Join(logical, "\n")) {
			continue
		}
		out = append(out, logical...)
	}
	return out
}

// removeBraceBlocks drops blocks whose header line matches pred, from the
// header through the line closing its first opening brace. The brace may
// sit on a later line than the header.
func removeBraceBlocks(lines []string, pred func(string) bool) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if !pred(lines[i]) {
			out = append(out, lines[i])
			continue
		}
		end := closingBrace(lines, i)
		if end < 0 {
			// unbalanced, leave the file as it is from here on
			out = append(out, lines[i:]...)
			break
		}
		i = end
	}
	return out
}

func closingBrace(lines []string, start int) int {
	depth := 0
	opened := false
	for j := start; j < len(lines); j++ {
		for _, r := range lines[j] {
			switch r {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return j
		}
		if !opened && j > start && trimmed(lines[j]) != "" && !strings.HasPrefix(trimmed(lines[j]), "{") {
			// header without a block
			return start
		}
	}
	return -1
}
