// Package dcf implements the Debian Control File (DCF) tokenizer and
// parser: R package repository metadata (PACKAGES, DESCRIPTION) is DCF
// text, stanzas of "Key: value" records separated by blank lines.
package dcf

import (
	"strings"

	"github.com/crandex/crandex/intern"
	"github.com/crandex/crandex/version"
)

// Parser consumes a DCF byte buffer and builds a flat AST. Ownership of
// its Interner transfers to the caller on a successful Parse.
type Parser struct {
	src       []byte
	tz        *Tokenizer
	in        *intern.Interner
	lookahead *Token
	nodes     []Node
}

// NewParser constructs a Parser over src.
func NewParser(src []byte) *Parser {
	return &Parser{src: src, tz: NewTokenizer(src), in: intern.New()}
}

// Parse runs the parser to completion, returning the flat AST tape and the
// Interner holding every NameAndVersion name encountered. On error, the
// partially built node list is discarded (the caller must not mutate
// shared state from a failed parse).
func (p *Parser) Parse() ([]Node, *intern.Interner, error) {
	p.nodes = append(p.nodes, Node{Kind: KindRoot})

	for {
		tok := p.peek()
		if tok.Tag == EOF {
			p.next()
			break
		}
		if err := p.parseStanza(); err != nil {
			return nil, nil, err
		}
	}

	p.nodes = append(p.nodes, Node{Kind: KindEOF})
	return p.nodes, p.in, nil
}

func (p *Parser) peek() Token {
	if p.lookahead == nil {
		tok := p.tz.Next()
		p.lookahead = &tok
	}
	return *p.lookahead
}

func (p *Parser) next() Token {
	tok := p.peek()
	p.lookahead = nil
	return tok
}

func (p *Parser) expect(want Tag, onMismatch ErrorKind) (Token, error) {
	tok := p.next()
	if tok.Tag == want {
		return tok, nil
	}
	if tok.Tag == EOF {
		return tok, &ParseError{Kind: UnexpectedEOF, Tag: tok.Tag, Start: tok.Start, End: tok.End}
	}
	return tok, &ParseError{Kind: onMismatch, Tag: tok.Tag, Start: tok.Start, End: tok.End}
}

func (p *Parser) parseStanza() error {
	p.nodes = append(p.nodes, Node{Kind: KindStanza})

	for {
		tok := p.peek()
		switch tok.Tag {
		case EndStanza:
			p.next()
			p.nodes = append(p.nodes, Node{Kind: KindStanzaEnd})
			return nil
		case EOF:
			p.nodes = append(p.nodes, Node{Kind: KindStanzaEnd})
			return nil
		case Identifier:
			if err := p.parseField(); err != nil {
				return err
			}
		default:
			return &ParseError{Kind: ExpectedIdentifier, Tag: tok.Tag, Start: tok.Start, End: tok.End}
		}
	}
}

func (p *Parser) parseField() error {
	keyTok := p.next()
	key := keyTok.Text(p.src)
	p.nodes = append(p.nodes, Node{Kind: KindField, Key: key, Span: [2]int{keyTok.Start, keyTok.End}})

	if _, err := p.expect(Colon, ExpectedColon); err != nil {
		return err
	}

	if err := p.parseFieldValue(); err != nil {
		return err
	}

	if p.peek().Tag == EndField {
		p.next()
	}
	// EndStanza/EOF are left for parseStanza to consume.

	p.nodes = append(p.nodes, Node{Kind: KindFieldEnd})
	return nil
}

// parseFieldValue implements the commit/abandon discipline from spec.md
// §4.3: attempt a comma-separated name(version) list; on any unexpected
// token, abandon and reinterpret the whole field value as a single
// StringValue.
func (p *Parser) parseFieldValue() error {
	valueStart := p.peek().Start

	if tok := p.peek(); tok.Tag == EndField || tok.Tag == EndStanza || tok.Tag == EOF {
		return nil // empty value
	}

	var tentative []Node
	abandoned := false

	for {
		tok := p.peek()
		if tok.Tag != Identifier {
			abandoned = true
			break
		}
		nameTok := p.next()
		constraint := version.Any()

		if p.peek().Tag == OpenRound {
			p.next()

			opTok := p.next()
			if !isComparisonTag(opTok.Tag) {
				if opTok.Tag == EOF {
					return &ParseError{Kind: UnexpectedEOF, Tag: opTok.Tag, Start: opTok.Start, End: opTok.End}
				}
				return &ParseError{Kind: ExpectedOperator, Tag: opTok.Tag, Start: opTok.Start, End: opTok.End}
			}

			verTok, err := p.expect(Identifier, ExpectedVersion)
			if err != nil {
				return err
			}

			if _, err := p.expect(CloseRound, ExpectedCloseParen); err != nil {
				return err
			}

			v, verr := version.Parse(verTok.Text(p.src))
			if verr != nil {
				return &ParseError{Kind: ExpectedVersion, Tag: verTok.Tag, Start: verTok.Start, End: verTok.End}
			}
			constraint = version.Constraint{Operator: mapOperator(opTok.Tag), Version: v}
		}

		tentative = append(tentative, Node{
			Kind:       KindNameAndVersion,
			Name:       p.in.Append(nameTok.Text(p.src)),
			Constraint: constraint,
			Span:       [2]int{nameTok.Start, nameTok.End},
		})

		next := p.peek()
		switch next.Tag {
		case Comma:
			p.next()
			continue
		case EndField, EndStanza, EOF:
			p.nodes = append(p.nodes, tentative...)
			return nil
		default:
			abandoned = true
		}
		break
	}

	if abandoned {
		end := p.scanToFieldEnd()
		raw := strings.TrimSpace(string(p.src[valueStart:end]))
		p.nodes = append(p.nodes, Node{Kind: KindStringValue, Value: raw, Span: [2]int{valueStart, end}})
	}

	return nil
}

// scanToFieldEnd consumes tokens without producing AST nodes until it
// reaches (without consuming) an EndField/EndStanza/EOF token, returning
// the byte offset where the field's raw text ends.
func (p *Parser) scanToFieldEnd() int {
	end := p.peek().Start
	for {
		tok := p.peek()
		if tok.Tag == EndField || tok.Tag == EndStanza || tok.Tag == EOF {
			return end
		}
		p.next()
		end = tok.End
	}
}

func mapOperator(tag Tag) version.Operator {
	switch tag {
	case LessThan:
		return version.Less
	case LessThanEqual:
		return version.LessOrEqual
	case Equal:
		return version.Equal
	case GreaterThanEqual:
		return version.GreaterOrEqual
	case GreaterThan:
		return version.Greater
	default:
		panic("mapOperator: not a comparison tag")
	}
}
