package prompt

import (
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

var keywords = map[string]bool{
	"if": true, "else": true, "end": true, "range": true, "with": true,
	"define": true, "template": true, "block": true, "break": true,
	"continue": true, "nil": true, "true": true, "false": true,
}

// zeroArgFuncs are functions that stay functions even when used bare.
var zeroArgFuncs = map[string]bool{"now": true, "uuidv4": true}

var builtinFuncs = []string{
	"and", "or", "not", "len", "index", "slice", "print", "printf", "println",
	"html", "js", "urlquery", "call", "eq", "ne", "lt", "le", "gt", "ge",
}

var funcs = sprig.TxtFuncMap()

func funcMap() template.FuncMap {
	return funcs
}

func isFunc(name string) bool {
	if _, ok := funcs[name]; ok {
		return true
	}
	return slices.Contains(builtinFuncs, name)
}

type tokKind int

const (
	tokSpace tokKind = iota
	tokIdent         // name or name.field.sub
	tokField         // .field or $var
	tokString
	tokNumber
	tokPipe
	tokOpen
	tokClose
	tokOther
)

type token struct {
	kind tokKind
	text string
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// scanChain consumes an identifier followed by any .field suffixes.
func scanChain(s string, i int) int {
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	for i+1 < len(s) && s[i] == '.' && isIdentStart(s[i+1]) {
		i++
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
	}
	return i
}

func tokenize(s string) []token {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		start := i
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			for i < len(s) && strings.IndexByte(" \t\n\r", s[i]) >= 0 {
				i++
			}
			toks = append(toks, token{tokSpace, s[start:i]})
		case c == '"' || c == '\'':
			i++
			for i < len(s) && s[i] != c {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			i = min(i+1, len(s))
			toks = append(toks, token{tokString, s[start:i]})
		case c == '`':
			i++
			for i < len(s) && s[i] != '`' {
				i++
			}
			i = min(i+1, len(s))
			toks = append(toks, token{tokString, s[start:i]})
		case c == '.' || c == '$':
			i++
			i = scanChain(s, i)
			toks = append(toks, token{tokField, s[start:i]})
		case isIdentStart(c):
			i = scanChain(s, i)
			toks = append(toks, token{tokIdent, s[start:i]})
		case c >= '0' && c <= '9' || ((c == '-' || c == '+') && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9'):
			i++
			for i < len(s) && (isIdentChar(s[i]) || s[i] == '.') {
				i++
			}
			toks = append(toks, token{tokNumber, s[start:i]})
		case c == '|':
			i++
			toks = append(toks, token{tokPipe, "|"})
		case c == '(':
			i++
			toks = append(toks, token{tokOpen, "("})
		case c == ')':
			i++
			toks = append(toks, token{tokClose, ")"})
		default:
			i++
			toks = append(toks, token{tokOther, s[start:i]})
		}
	}
	return toks
}

func isOperand(t token) bool {
	switch t.kind {
	case tokIdent, tokField, tokString, tokNumber, tokOpen:
		return true
	}
	return false
}

// rewriteAction turns bare identifiers in one action body into field access.
func rewriteAction(body string) string {
	toks := tokenize(body)
	prev := func(i int) (token, bool) {
		for j := i - 1; j >= 0; j-- {
			if toks[j].kind != tokSpace {
				return toks[j], true
			}
		}
		return token{}, false
	}
	next := func(i int) (token, bool) {
		for j := i + 1; j < len(toks); j++ {
			if toks[j].kind != tokSpace {
				return toks[j], true
			}
		}
		return token{}, false
	}

	var b strings.Builder
	for i, t := range toks {
		if t.kind != tokIdent {
			b.WriteString(t.text)
			continue
		}
		head, _, chained := strings.Cut(t.text, ".")
		if keywords[head] && !chained {
			b.WriteString(t.text)
			continue
		}
		if !chained && isFunc(head) {
			p, hasPrev := prev(i)
			n, hasNext := next(i)
			if (hasPrev && p.kind == tokPipe) || (hasNext && isOperand(n)) || zeroArgFuncs[head] {
				b.WriteString(t.text)
				continue
			}
		}
		b.WriteString(".")
		b.WriteString(t.text)
	}
	return b.String()
}

// normalize rewrites every {{ action }} in source so bare variable names
// become Go template field references.
func normalize(source string) string {
	var b strings.Builder
	rest := source
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closeIdx := strings.Index(rest[open+2:], "}}")
		if closeIdx < 0 {
			b.WriteString(rest)
			break
		}
		closeIdx += open + 2
		b.WriteString(rest[:open+2])
		body := rest[open+2 : closeIdx]

		lead, trail := "", ""
		if strings.HasPrefix(body, "-") {
			lead, body = "-", body[1:]
		}
		if strings.HasSuffix(body, "-") && len(body) > 0 && strings.TrimSpace(body) != "" {
			trimmed := strings.TrimRight(body, "-")
			if len(body)-len(trimmed) == 1 && strings.HasSuffix(trimmed, " ") {
				trail, body = "-", trimmed
			}
		}

		if strings.HasPrefix(strings.TrimSpace(body), "/*") {
			b.WriteString(lead + body + trail)
		} else {
			b.WriteString(lead + rewriteAction(body) + trail)
		}
		b.WriteString("}}")
		rest = rest[closeIdx+2:]
	}
	return b.String()
}
