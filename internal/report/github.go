package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vk/ucompcheck/internal/model"
)

// githubRenderer writes GitHub Actions workflow commands, one annotation per
// issue. The file is the script that owns the finding.
type githubRenderer struct{}

func (githubRenderer) Render(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	for _, e := range r.Entries {
		for _, i := range e.Issues {
			level := "error"
			if i.Severity == model.SeverityWarning {
				level = "warning"
			}
			fmt.Fprintf(bw, "::%s file=%s", level, escapeProperty(annotationFile(e.File, i.Scope)))
			if i.Line > 0 {
				fmt.Fprintf(bw, ",line=%d", i.Line)
			}
			fmt.Fprintf(bw, ",title=%s::%s\n", escapeProperty(string(i.Code)), escapeData(i.Message))
		}
	}
	return bw.Flush()
}

// annotationFile maps an issue scope to a repository file: the root entry's
// path for the root script, otherwise the sibling file named by the leaf.
func annotationFile(root string, scope model.Path) string {
	if len(scope) <= 1 {
		return root
	}
	dir := root[:strings.LastIndexAny(root, `/\`)+1]
	return dir + scope.Leaf()
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
