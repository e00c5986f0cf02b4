package jsdoc

import (
	"strings"
	"unicode"

	"github.com/dhamidi/jsdocgen/jstype"
)

// Parser is a recursive-descent parser for JSDoc comments.
type Parser struct {
	input []rune
	pos   int
	len   int
}

// Parse parses a /** ... */ comment. It never fails: malformed type
// payloads are recorded on the tag that carries them.
func Parse(comment string) *DocComment {
	p := &Parser{
		input: []rune(comment),
	}
	p.len = len(p.input)
	return p.parseDocComment()
}

func (p *Parser) parseDocComment() *DocComment {
	p.skipCommentStart()

	doc := &DocComment{}
	doc.Description = p.parseText()
	doc.Tags = p.parseBlockTags()

	return doc
}

// skipCommentStart skips the leading /** and any whitespace/asterisks.
func (p *Parser) skipCommentStart() {
	p.skipWhitespace()
	if p.match("/**") {
		p.advance(3)
	}
	p.skipLinePrefix()
}

// skipLinePrefix skips leading whitespace and a single asterisk at the start of a line.
func (p *Parser) skipLinePrefix() {
	p.skipHorizontalWhitespace()
	if p.peek() == '*' && p.peekAt(1) != '/' {
		p.advance(1)
		if p.peek() == ' ' {
			p.advance(1)
		}
	}
}

// parseText reads free text until the next block tag or the end of the
// comment, dropping line prefixes.
func (p *Parser) parseText() string {
	var sb strings.Builder
	for p.pos < p.len {
		ch := p.peek()
		if ch == '*' && p.peekAt(1) == '/' {
			break
		}
		if p.isAtBlockTag() {
			break
		}
		if ch == '\n' || ch == '\r' {
			sb.WriteRune('\n')
			p.advance(1)
			if ch == '\r' && p.peek() == '\n' {
				p.advance(1)
			}
			p.skipLinePrefix()
			continue
		}
		sb.WriteRune(ch)
		p.advance(1)
	}
	return cleanText(sb.String())
}

func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// isAtBlockTag checks if we're at the start of a block tag (@ at start of line).
func (p *Parser) isAtBlockTag() bool {
	if p.peek() != '@' {
		return false
	}
	i := p.pos - 1
	for i >= 0 {
		ch := p.input[i]
		if ch == '\n' || ch == '\r' {
			return true
		}
		if ch == '*' {
			if i >= 2 && p.input[i-1] == '*' && p.input[i-2] == '/' {
				return true
			}
			j := i - 1
			for j >= 0 && (p.input[j] == ' ' || p.input[j] == '\t') {
				j--
			}
			if j < 0 || p.input[j] == '\n' || p.input[j] == '\r' {
				return true
			}
		}
		if ch != ' ' && ch != '\t' {
			return false
		}
		i--
	}
	return true
}

// parseBlockTags parses block tags until end of comment. Flag tags may
// share a line (@constructor @struct).
func (p *Parser) parseBlockTags() []Node {
	var tags []Node

	for p.pos < p.len {
		p.skipWhitespace()
		p.skipLinePrefix()

		if p.match("*/") {
			break
		}

		if p.peek() != '@' {
			p.advance(1)
			continue
		}

		p.advance(1)
		tagName := p.readTagName()
		if tagName == "" {
			continue
		}

		p.skipHorizontalWhitespace()

		var tag Node
		switch tagName {
		case "param":
			tag = p.parseParamTag()
		case "return", "returns":
			ann := p.parseTypeAnnotation()
			tag = Return{TypeAnnotation: ann, Description: p.parseText()}
		case "type":
			tag = Type{TypeAnnotation: p.parseTypeAnnotation()}
		case "enum":
			ann := p.parseTypeAnnotation()
			if !ann.HasType() {
				ann.Expr = jstype.Named{Name: "number"}
			}
			tag = Enum{TypeAnnotation: ann}
		case "const":
			tag = Const{TypeAnnotation: p.parseTypeAnnotation()}
		case "define":
			ann := p.parseTypeAnnotation()
			tag = Define{TypeAnnotation: ann, Description: p.parseText()}
		case "typedef":
			tag = Typedef{TypeAnnotation: p.parseTypeAnnotation()}
		case "extends", "augments":
			tag = Extends{TypeAnnotation: p.parseNameOrType()}
		case "implements":
			tag = Implements{TypeAnnotation: p.parseNameOrType()}
		case "this":
			tag = This{TypeAnnotation: p.parseNameOrType()}
		case "template":
			tag = p.parseTemplateTag()
		case "constructor":
			tag = Constructor{}
		case "interface":
			tag = Interface{}
		case "record":
			tag = Record{}
		case "struct":
			tag = Struct{}
		case "function":
			tag = Function{}
		case "private":
			p.parseTypeAnnotation()
			tag = Private{}
		case "protected":
			p.parseTypeAnnotation()
			tag = Protected{}
		case "override":
			tag = Override{}
		case "inheritDoc":
			tag = Override{InheritDoc: true}
		case "fires", "event":
			tag = Fires{Event: p.readWord()}
		case "api":
			tag = API{Stability: p.readWord()}
		case "classdesc":
			tag = ClassDesc{Description: p.parseText()}
		case "deprecated":
			tag = Deprecated{Description: p.parseText()}
		default:
			tag = Unknown{Name: tagName, Content: p.parseText()}
		}

		if tag != nil {
			tags = append(tags, tag)
		}
	}

	return tags
}

// parseParamTag parses @param {T} name description. The name may start
// on the line after the type.
func (p *Parser) parseParamTag() Node {
	param := Param{TypeAnnotation: p.parseTypeAnnotation()}

	p.skipToNextWord()
	if p.peek() == '[' {
		p.advance(1)
		inner := p.readUntil(']')
		if p.peek() == ']' {
			p.advance(1)
		}
		name, def, _ := strings.Cut(inner, "=")
		param.Name = strings.TrimSpace(name)
		param.Default = strings.TrimSpace(def)
		param.Bracket = true
	} else {
		param.Name = p.readName()
	}

	p.skipHorizontalWhitespace()
	param.Description = p.parseText()
	return param
}

func (p *Parser) parseTemplateTag() Node {
	t := Template{}
	rest := p.readLine()
	for _, name := range strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	}) {
		t.Names = append(t.Names, name)
	}
	return t
}

// parseTypeAnnotation parses an optional {...} payload at the cursor.
func (p *Parser) parseTypeAnnotation() TypeAnnotation {
	p.skipHorizontalWhitespace()
	ann := TypeAnnotation{Expr: jstype.Unknown{}}
	if p.peek() != '{' {
		return ann
	}
	ann.Line, ann.Column = p.lineColumn(p.pos + 1)
	p.advance(1)
	ann.Raw = strings.TrimSpace(p.readBalancedContent())
	if p.peek() == '}' {
		p.advance(1)
	}
	if ann.Raw == "" {
		return ann
	}
	expr, err := jstype.Parse(ann.Raw)
	if err != nil {
		ann.Err = err
		return ann
	}
	ann.Expr = expr
	return ann
}

// parseNameOrType accepts both @extends {a.B} and @extends a.B.
func (p *Parser) parseNameOrType() TypeAnnotation {
	p.skipHorizontalWhitespace()
	if p.peek() == '{' {
		return p.parseTypeAnnotation()
	}
	ann := TypeAnnotation{Expr: jstype.Unknown{}}
	ann.Line, ann.Column = p.lineColumn(p.pos)
	ann.Raw = p.readWord()
	if ann.Raw == "" {
		return ann
	}
	expr, err := jstype.Parse(ann.Raw)
	if err != nil {
		ann.Err = err
		return ann
	}
	ann.Expr = expr
	return ann
}

// skipToNextWord skips whitespace, crossing at most one line break, but
// never into the next block tag.
func (p *Parser) skipToNextWord() {
	p.skipHorizontalWhitespace()
	if p.peek() != '\n' && p.peek() != '\r' {
		return
	}
	save := p.pos
	if p.peek() == '\r' {
		p.advance(1)
	}
	if p.peek() == '\n' {
		p.advance(1)
	}
	p.skipLinePrefix()
	p.skipHorizontalWhitespace()
	if p.peek() == '@' || p.match("*/") || p.peek() == '\n' || p.peek() == 0 {
		p.pos = save
	}
}

func (p *Parser) lineColumn(pos int) (int, int) {
	line, col := 0, 1
	for i := 0; i < pos && i < p.len; i++ {
		if p.input[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Helper methods for reading tokens

func (p *Parser) peek() rune {
	if p.pos >= p.len {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) peekAt(offset int) rune {
	pos := p.pos + offset
	if pos >= p.len || pos < 0 {
		return 0
	}
	return p.input[pos]
}

func (p *Parser) advance(n int) {
	p.pos += n
	if p.pos > p.len {
		p.pos = p.len
	}
}

func (p *Parser) match(s string) bool {
	if p.pos+len(s) > p.len {
		return false
	}
	for i, ch := range []rune(s) {
		if p.input[p.pos+i] != ch {
			return false
		}
	}
	return true
}

func (p *Parser) skipWhitespace() {
	for p.pos < p.len && isWhitespace(p.peek()) {
		p.advance(1)
	}
}

func (p *Parser) skipHorizontalWhitespace() {
	for p.pos < p.len && (p.peek() == ' ' || p.peek() == '\t') {
		p.advance(1)
	}
}

func (p *Parser) readTagName() string {
	start := p.pos
	for p.pos < p.len && isIdentifierPart(p.peek()) {
		p.advance(1)
	}
	return string(p.input[start:p.pos])
}

// readName reads a parameter name, which may be dotted (options.size).
func (p *Parser) readName() string {
	start := p.pos
	for p.pos < p.len && (isIdentifierPart(p.peek()) || p.peek() == '.') {
		p.advance(1)
	}
	return strings.TrimRight(string(p.input[start:p.pos]), ".")
}

func (p *Parser) readWord() string {
	start := p.pos
	for p.pos < p.len && !isWhitespace(p.peek()) && !p.match("*/") {
		p.advance(1)
	}
	return string(p.input[start:p.pos])
}

func (p *Parser) readLine() string {
	start := p.pos
	for p.pos < p.len && p.peek() != '\n' && p.peek() != '\r' && !p.match("*/") {
		p.advance(1)
	}
	return strings.TrimSpace(string(p.input[start:p.pos]))
}

func (p *Parser) readUntil(stop rune) string {
	start := p.pos
	for p.pos < p.len && p.peek() != stop && p.peek() != '\n' && !p.match("*/") {
		p.advance(1)
	}
	return string(p.input[start:p.pos])
}

// readBalancedContent reads content until a closing '}', handling nested
// braces. Line breaks inside the payload are folded to single spaces.
func (p *Parser) readBalancedContent() string {
	var sb strings.Builder
	depth := 0

	for p.pos < p.len {
		ch := p.peek()

		if ch == '{' {
			depth++
		} else if ch == '}' {
			if depth == 0 {
				break
			}
			depth--
		} else if ch == '*' && p.peekAt(1) == '/' {
			break
		} else if ch == '\n' || ch == '\r' {
			p.advance(1)
			if ch == '\r' && p.peek() == '\n' {
				p.advance(1)
			}
			p.skipLinePrefix()
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(ch)
		p.advance(1)
	}

	return sb.String()
}

// Character classification helpers

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isIdentifierPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '$'
}
