package treecheck

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePath parses dotted/bracketed notation back into a Path. It is the
// inverse of Render for attribute segments and string/integer keys:
//
//	.user[0].name      -> Attr(user), Key(0), Attr(name)
//	items["a"].x       -> Attr(items), Key("a"), Attr(x), no leading dot
//
// Bracketed keys may be integers, double-quoted or single-quoted strings.
func ParsePath(s string) (Path, error) {
	p := NewPath()
	if s == "" {
		return p, nil
	}
	if s[0] != '.' && s[0] != '[' {
		// A bare leading attribute means the rendered form had its leading
		// dot stripped; preserve that on the round trip.
		p = p.WithoutLeadingDot()
		s = "." + s
	}
	for len(s) > 0 {
		switch s[0] {
		case '.':
			rest := s[1:]
			end := strings.IndexAny(rest, ".[")
			if end == -1 {
				end = len(rest)
			}
			if end == 0 {
				return Path{}, fmt.Errorf("treecheck: empty attribute name in path at %q", s)
			}
			p = p.AddAttribute(rest[:end])
			s = rest[end:]
		case '[':
			end, err := findClosingBracket(s)
			if err != nil {
				return Path{}, err
			}
			key, err := parseKeyToken(s[1:end])
			if err != nil {
				return Path{}, err
			}
			p = p.AddIndexOrKey(key)
			s = s[end+1:]
		default:
			return Path{}, fmt.Errorf("treecheck: unexpected character %q in path", s[0])
		}
	}
	return p, nil
}

// findClosingBracket returns the index of the ']' terminating the key that
// starts at s[0] == '['. Quoted keys may contain ']' (Render quotes string
// keys verbatim), so quoted content is skipped rather than scanned.
func findClosingBracket(s string) (int, error) {
	i := 1
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i < len(s) && (s[i] == '"' || s[i] == '\'') {
		quote := s[i]
		i++
		for i < len(s) && s[i] != quote {
			if s[i] == '\\' && quote == '"' {
				i++
			}
			i++
		}
		if i >= len(s) {
			return 0, fmt.Errorf("treecheck: unterminated key in path at %q", s)
		}
		i++ // past the closing quote
	}
	j := strings.IndexByte(s[i:], ']')
	if j == -1 {
		return 0, fmt.Errorf("treecheck: unterminated key in path at %q", s)
	}
	return i + j, nil
}

func parseKeyToken(tok string) (any, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, fmt.Errorf("treecheck: empty key in path")
	}
	if tok[0] == '"' {
		str, err := strconv.Unquote(tok)
		if err != nil {
			return nil, fmt.Errorf("treecheck: bad quoted key %s: %w", tok, err)
		}
		return str, nil
	}
	if tok[0] == '\'' {
		if len(tok) < 2 || tok[len(tok)-1] != '\'' {
			return nil, fmt.Errorf("treecheck: bad quoted key %s", tok)
		}
		return tok[1 : len(tok)-1], nil
	}
	i, err := strconv.Atoi(tok)
	if err != nil {
		return nil, fmt.Errorf("treecheck: key %q is neither an integer nor a quoted string", tok)
	}
	return i, nil
}
