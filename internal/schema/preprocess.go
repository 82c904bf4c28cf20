package schema

import (
	"regexp"
	"strings"
)

// GraphQL has neither a class keyword nor file-level directives, both of which
// schema files use. They are rewritten into SDL before parsing:
//
//	@astgen(format: "1.0")  =>  type _Schema { _: String @astgen(format: "1.0") }
//	class Call : Expr {     =>  type Call implements Expr {
//
// Only lines starting in column 0 are rewritten. Directive arguments may hold
// one level of parentheses.
var (
	metadataLine = regexp.MustCompile(`(?m)^@astgen\s*\(((?:[^()]*|\([^)]*\))*)\)`)
	classHeader  = regexp.MustCompile(`(?m)^class\s+(\w+)\s*(?::\s*(\w+)\s*)?{`)
)

// metadataType holds the file-level @astgen directive on a dummy field
const metadataType = "_Schema"

// PreprocessGraphQL turns a schema file into plain GraphQL SDL
func PreprocessGraphQL(input string) string {
	input = substitute(metadataLine, input, func(m []string) string {
		return "type " + metadataType + " {\n  _: String @astgen(" + m[1] + ")\n}"
	})
	return substitute(classHeader, input, func(m []string) string {
		if m[2] == "" {
			return "type " + m[1] + " {"
		}
		return "type " + m[1] + " implements " + m[2] + " {"
	})
}

// substitute replaces every match of re with repl applied to its submatches
func substitute(re *regexp.Regexp, input string, repl func(m []string) string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(input, -1) {
		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = input[loc[2*i]:loc[2*i+1]]
			}
		}
		sb.WriteString(input[last:loc[0]])
		sb.WriteString(repl(m))
		last = loc[1]
	}
	sb.WriteString(input[last:])
	return sb.String()
}
