package analyzer

import "regexp"

// Comment and string-literal stripping. Each matched span is replaced by a
// single space rather than removed, so adjacent tokens never join and
// character offsets stay approximately stable. The hash rule also fires in
// non-shell files; suppressing the occasional `#` inside already-stripped
// contexts is an accepted false-suppression risk.
var stripRules = []*regexp.Regexp{
	regexp.MustCompile(`(?s)/\*.*?\*/`),            // block comments
	regexp.MustCompile(`//[^\n]*`),                 // line comments
	regexp.MustCompile(`(?s)<!--.*?-->`),           // markup comments
	regexp.MustCompile(`#[^\n]*`),                  // shell-style comments
	regexp.MustCompile(`'(?:\\.|[^'\\\n])*'`),      // single-quoted strings
	regexp.MustCompile(`"(?:\\.|[^"\\\n])*"`),      // double-quoted strings
	regexp.MustCompile("(?s)`(?:\\\\.|[^`\\\\])*`"), // template literals
}

// normalize produces the "clean" text variant: comments and string/template
// literals suppressed so model names appearing only inside them cannot
// trigger keyword matches. Rules apply in order; later rules see the output
// of earlier ones.
func normalize(raw string) string {
	clean := raw
	for _, rule := range stripRules {
		clean = rule.ReplaceAllString(clean, " ")
	}
	return clean
}
