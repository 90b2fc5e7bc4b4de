// Package extcmd wraps the external helper processes the clustering
// engine shells out to, in the same spirit as cmd/muscato/muscato.go's
// direct exec.Command("sort", ...) and exec.Command("sztool", ...) calls.
// Where the external tool takes a non-trivial flag set, the struct-tag
// buildarg convention from github.com/biogo/external (kortschak-ins's
// blast/blast.go) replaces the teacher's ad hoc flag slices, so each
// external invocation is declared once as a typed struct instead of
// string-concatenated by hand at every call site.
package extcmd

import (
	"os/exec"

	"github.com/biogo/external"
)

// ExternalSort mirrors the GNU coreutils `sort` invocation
// cmd/muscato/muscato.go builds by hand (sortmem/sortpar/sortTmpFlag
// flags) for merging radix-partitioned pair/chunk tables (spec §4.6).
type ExternalSort struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}sort{{end}}"`

	BufferSize string `buildarg:"{{with .}}-S{{split}}{{.}}{{end}}"`       // -S <size>
	Parallel   int    `buildarg:"{{if .}}--parallel{{split}}{{.}}{{end}}"` // --parallel <n>
	TmpDir     string `buildarg:"{{with .}}-T{{split}}{{.}}{{end}}"`       // -T <dir>
	Unique     bool   `buildarg:"{{if .}}-u{{end}}"`                       // -u
	Key        string `buildarg:"{{with .}}-k{{split}}{{.}}{{end}}"`       // -k <spec>

	ExtraFlags []string
}

// BuildCommand constructs the exec.Cmd for one ExternalSort invocation,
// reading stdin and writing stdout the way every sort stage in
// cmd/muscato/muscato.go is wired.
func (s ExternalSort) BuildCommand() (*exec.Cmd, error) {
	cl := external.Must(external.Build(s))
	args := append(cl[1:], s.ExtraFlags...)
	args = append(args, "-")
	return exec.Command(cl[0], args...), nil
}

// Sztool mirrors the teacher's `sztool -d`/`-c` snappy (de)compression
// helper invocations.
type Sztool struct {
	Cmd        string `buildarg:"{{if .}}{{.}}{{else}}sztool{{end}}"`
	Decompress bool   `buildarg:"{{if .}}-d{{end}}"` // -d
	Compress   bool   `buildarg:"{{if .}}-c{{end}}"` // -c
}

// BuildCommand constructs the exec.Cmd for one Sztool invocation over the
// named file (or stdin/stdout when name is empty).
func (s Sztool) BuildCommand(name, out string) (*exec.Cmd, error) {
	cl := external.Must(external.Build(s))
	args := cl[1:]
	if name != "" {
		args = append(args, name)
	}
	if out != "" {
		args = append(args, out)
	}
	return exec.Command(cl[0], args...), nil
}
