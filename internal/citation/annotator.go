// Package citation parses citation markup embedded in completion text.
//
// Two dialects are recognized: the bracket form [ref:FileName|Page] (also
// written [ref:FileName:Page]) and the legacy form [Source: FileName,
// Page: X]. Text outside recognized brackets passes through untouched.
package citation

import (
	"regexp"
	"strings"
)

// Token is a parsed citation reference: the cited file plus its
// normalized page label.
type Token struct {
	File string
	Page string
}

// Segment is one piece of annotated text: either literal text
// (Token == nil) or a citation token.
type Segment struct {
	Text  string
	Token *Token
}

// Matcher attempts to parse one bracket expression into a Token.
// Matchers are tried in priority order; the first match wins.
type Matcher interface {
	Name() string
	Match(bracket string) (Token, bool)
}

type regexMatcher struct {
	name string
	re   *regexp.Regexp
}

func (m *regexMatcher) Name() string { return m.name }

func (m *regexMatcher) Match(bracket string) (Token, bool) {
	sub := m.re.FindStringSubmatch(bracket)
	if sub == nil {
		return Token{}, false
	}
	file := strings.TrimSpace(sub[1])
	if file == "" {
		return Token{}, false
	}
	return Token{File: file, Page: NormalizePage(sub[2])}, true
}

var (
	// [ref:report.pdf|4], pipe separator
	refPipeRe = regexp.MustCompile(`^\[ref:([^|\]]+)\|([^\]]*)\]$`)
	// [ref:report.pdf:4], colon separator; the file part is greedy so a
	// file name may itself contain colons
	refColonRe = regexp.MustCompile(`^\[ref:(.+):([^:|\]]*)\]$`)
	// [Source: report.pdf, Page: 4], legacy form, case-insensitive
	legacyRe = regexp.MustCompile(`(?i)^\[source:\s*(.+?)\s*,\s*page:\s*(.*?)\s*\]$`)

	// Combined pattern used to split input into literal and bracket runs.
	// Wider than the dialect patterns: a bracket that matches
	// here but fails every dialect is emitted as literal text.
	bracketRe = regexp.MustCompile(`\[ref:[^\[\]]*\]|\[(?i:source):[^\[\]]*\]`)
)

// DefaultMatchers returns the dialect matchers in priority order
func DefaultMatchers() []Matcher {
	return []Matcher{
		&regexMatcher{name: "ref-pipe", re: refPipeRe},
		&regexMatcher{name: "ref-colon", re: refColonRe},
		&regexMatcher{name: "legacy", re: legacyRe},
	}
}

// Annotate splits text into literal segments and citation tokens using the
// default dialect matchers.
func Annotate(text string) []Segment {
	return AnnotateWith(text, DefaultMatchers())
}

// AnnotateWith is Annotate with an explicit matcher chain
func AnnotateWith(text string, matchers []Matcher) []Segment {
	if text == "" {
		return nil
	}

	var segments []Segment
	last := 0
	for _, loc := range bracketRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}

		bracket := text[loc[0]:loc[1]]
		if tok, ok := match(bracket, matchers); ok {
			segments = append(segments, Segment{Text: bracket, Token: &tok})
		} else {
			// Failed every dialect: pass through unchanged
			segments = append(segments, Segment{Text: bracket})
		}
		last = loc[1]
	}

	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

func match(bracket string, matchers []Matcher) (Token, bool) {
	for _, m := range matchers {
		if tok, ok := m.Match(bracket); ok {
			return tok, true
		}
	}
	return Token{}, false
}

// Strip returns text with every well-formed citation bracket removed
func Strip(text string) string {
	var b strings.Builder
	for _, seg := range Annotate(text) {
		if seg.Token == nil {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
