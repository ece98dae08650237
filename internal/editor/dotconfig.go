package editor

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"hdf-eco-tool/internal/fsops"
)

const (
	liteosConfigTemplate = "LOSCFG_DRIVERS_HDF_${module_upper_case}=y"
	linuxConfigTemplate  = "CONFIG_DRIVERS_HDF_${module_upper_case}=y"
)

// DotConfigLine returns the line enabling module in a board config file.
// LiteOS .config files use the LOSCFG_ prefix, defconfigs and patches CONFIG_.
func DotConfigLine(module, path string) string {
	tmpl := linuxConfigTemplate
	if extension(path) == "config" {
		tmpl = liteosConfigTemplate
	}
	return os.Expand(tmpl, func(key string) string {
		if key == "module_upper_case" {
			return strings.ToUpper(module)
		}
		return ""
	})
}

// extension is the text after the last dot, or the whole path without one
func extension(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// DefconfigPatch edits board .config, defconfig and kernel patch files
type DefconfigPatch struct {
	path string
	w    fsops.Writer
}

// DeleteLine removes line from the file. In unified diffs only added lines
// are removed and hunk headers are renumbered to stay applicable.
func (d *DefconfigPatch) DeleteLine(line string) error {
	line = trimmed(line)
	if isPatch(d.path) {
		return patchFile(d.w, d.path, func(lines []string) []string {
			return removeAddedLine(lines, line)
		})
	}
	return patchFile(d.w, d.path, func(lines []string) []string {
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			if trimmed(l) == line {
				continue
			}
			out = append(out, l)
		}
		return out
	})
}

func isPatch(path string) bool {
	return strings.HasSuffix(path, ".patch") || strings.HasSuffix(path, ".diff")
}

var hunkHeader = regexp.MustCompile(`^@@ -(\d+(?:,\d+)?) \+(\d+)(?:,(\d+))? @@(.*)$`)

type hunk struct {
	out      int // index of the header in the output
	oldPart  string
	newStart int
	newCount int
	rest     string
	changed  bool
}

func (h *hunk) String() string {
	return fmt.Sprintf("@@ -%s +%d,%d @@%s", h.oldPart, h.newStart, h.newCount, h.rest)
}

// removeAddedLine walks a unified diff, dropping "+<line>" body lines and
// fixing the new-side count of their hunk and the start of later hunks of
// the same file.
func removeAddedLine(lines []string, line string) []string {
	out := make([]string, 0, len(lines))
	var cur *hunk
	var hunks []*hunk
	oldLeft, newLeft := 0, 0
	shift := 0

	for _, l := range lines {
		body := strings.TrimRight(l, "\r")
		inHunk := cur != nil && (oldLeft > 0 || newLeft > 0)

		if !inHunk {
			if strings.HasPrefix(body, "diff ") || strings.HasPrefix(body, "+++ ") {
				shift = 0
			}
			if m := hunkHeader.FindStringSubmatch(body); m != nil {
				oldCount := 1
				if parts := strings.SplitN(m[1], ",", 2); len(parts) == 2 {
					oldCount, _ = strconv.Atoi(parts[1])
				}
				newStart, _ := strconv.Atoi(m[2])
				newCount := 1
				if m[3] != "" {
					newCount, _ = strconv.Atoi(m[3])
				}
				cur = &hunk{out: len(out), oldPart: m[1], newStart: newStart - shift, newCount: newCount, rest: m[4], changed: shift != 0}
				hunks = append(hunks, cur)
				oldLeft, newLeft = oldCount, newCount
			}
			out = append(out, l)
			continue
		}

		switch {
		case strings.HasPrefix(body, "+"):
			newLeft--
			if trimmed(body[1:]) == line {
				cur.newCount--
				cur.changed = true
				shift++
				continue
			}
		case strings.HasPrefix(body, "-"):
			oldLeft--
		case strings.HasPrefix(body, `\`):
			// "\ No newline at end of file"
		default:
			oldLeft--
			newLeft--
		}
		out = append(out, l)
	}

	for _, h := range hunks {
		if h.changed {
			cr := ""
			if strings.HasSuffix(out[h.out], "\r") {
				cr = "\r"
			}
			out[h.out] = h.String() + cr
		}
	}
	return out
}
