package core

import "strings"

// TokenKind classifies a piece of lexed SQL.
type TokenKind int

// Token kinds.
const (
	TokenText TokenKind = iota
	TokenPositional
	TokenNamed
)

// Token is literal SQL text or a placeholder marker. For TokenNamed, Text
// holds the parameter name without the leading colon.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	switch t.Kind {
	case TokenPositional:
		return "?"
	case TokenNamed:
		return ":" + t.Text
	default:
		return t.Text
	}
}

// Tokenize splits sql into text and placeholder markers. Quoted strings and
// identifiers, comments and "::" casts never produce markers.
func Tokenize(sql string) []Token {
	var tokens []Token
	start := 0
	flush := func(end int) {
		if end > start {
			tokens = appendText(tokens, sql[start:end])
		}
	}

	for i := 0; i < len(sql); {
		c := sql[i]
		var next byte
		if i+1 < len(sql) {
			next = sql[i+1]
		}

		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(sql, i)
		case c == '-' && next == '-':
			i = skipUntil(sql, i+2, "\n")
		case c == '/' && next == '*':
			i = skipUntil(sql, i+2, "*/")
		case c == ':' && next == ':':
			i += 2
		case c == '?':
			flush(i)
			tokens = append(tokens, Token{Kind: TokenPositional})
			i++
			start = i
		case c == ':' && isNameStart(next):
			j := i + 2
			for j < len(sql) && isNameChar(sql[j]) {
				j++
			}
			flush(i)
			tokens = append(tokens, Token{Kind: TokenNamed, Text: sql[i+1 : j]})
			i = j
			start = i
		default:
			i++
		}
	}
	flush(len(sql))

	return tokens
}

// skipQuoted returns the index just past the quoted section starting at i.
// A doubled quote character is an escaped quote.
func skipQuoted(sql string, i int) int {
	q := sql[i]
	for j := i + 1; j < len(sql); j++ {
		if sql[j] != q {
			continue
		}
		if j+1 < len(sql) && sql[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(sql)
}

// skipUntil returns the index just past the first end marker at or after i.
// A line comment stops before the newline.
func skipUntil(sql string, i int, end string) int {
	k := strings.Index(sql[i:], end)
	if k < 0 {
		return len(sql)
	}
	if end == "\n" {
		return i + k
	}
	return i + k + len(end)
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func validName(name string) bool {
	if name == "" || !isNameStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return false
		}
	}
	return true
}

func appendText(tokens []Token, text string) []Token {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == TokenText {
		tokens[n-1].Text += text
		return tokens
	}
	return append(tokens, Token{Kind: TokenText, Text: text})
}

func renderTokens(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.String())
	}
	return sb.String()
}

// CountPlaceholders returns the number of positional markers in sql.
func CountPlaceholders(sql string) int {
	n := 0
	for _, t := range Tokenize(sql) {
		if t.Kind == TokenPositional {
			n++
		}
	}
	return n
}
