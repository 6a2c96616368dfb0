package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/diogo/docchat/internal/citation"
)

// CitationBadge is the compact inline form of a citation token
func CitationBadge(tok citation.Token) string {
	if tok.Page == "" {
		return fmt.Sprintf("⟨%s⟩", tok.File)
	}
	return fmt.Sprintf("⟨%s · p.%s⟩", tok.File, tok.Page)
}

type replacement struct {
	start int
	stop  int
	text  string
}

// AnnotateCitations rewrites citation markup in markdown source to inline
// badges. The source is parsed so that markup inside emphasis, strong, and
// list items is found, while code spans and code blocks stay untouched.
// Brackets that match no citation dialect pass through unchanged.
func AnnotateCitations(source string) string {
	if !strings.Contains(source, "[") {
		return source
	}

	src := []byte(source)
	doc := goldmark.DefaultParser().Parse(gtext.NewReader(src))

	// The parser splits a failed link bracket into separate text nodes, so
	// contiguous text segments are merged back into runs before matching.
	var runs []gtext.Segment
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.CodeSpan, *ast.FencedCodeBlock, *ast.CodeBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			seg := t.Segment
			if seg.Len() == 0 {
				return ast.WalkContinue, nil
			}
			if len(runs) > 0 && runs[len(runs)-1].Stop == seg.Start {
				runs[len(runs)-1].Stop = seg.Stop
			} else {
				runs = append(runs, seg)
			}
		}
		return ast.WalkContinue, nil
	})

	var repls []replacement
	for _, run := range runs {
		repls = append(repls, annotateRun(string(src[run.Start:run.Stop]), run.Start)...)
	}

	if len(repls) == 0 {
		return source
	}
	sort.Slice(repls, func(i, j int) bool { return repls[i].start < repls[j].start })

	var b strings.Builder
	last := 0
	for _, r := range repls {
		if r.start < last {
			continue
		}
		b.WriteString(source[last:r.start])
		b.WriteString(r.text)
		last = r.stop
	}
	b.WriteString(source[last:])
	return b.String()
}

// annotateRun finds citation tokens in one text run and maps them back to
// absolute source offsets.
func annotateRun(run string, base int) []replacement {
	var repls []replacement
	off := 0
	for _, seg := range citation.Annotate(run) {
		if seg.Token != nil {
			repls = append(repls, replacement{
				start: base + off,
				stop:  base + off + len(seg.Text),
				text:  CitationBadge(*seg.Token),
			})
		}
		off += len(seg.Text)
	}
	return repls
}
