// Package css collects style features used by a stylesheet.
package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// ErrMalformed is returned by Walk for input which cannot be traversed.
var ErrMalformed = errors.New("malformed stylesheet")

// Extractor builds feature inventory out of stylesheet source.
type Extractor struct {
	log *zap.Logger
}

// NewExtractor creates a new feature extractor.
func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log.Named("css-extractor")}
}

// Extract returns inventory of features used in CSS text. Syntax errors are
// an expected state while stylesheet is being edited: broken items are skipped
// and the rest is still inspected. Input which cannot be parsed at all
// produces empty inventory, never an error.
// The optional source parameter identifies what's being parsed (for debug logging).
func (e *Extractor) Extract(data []byte, source ...string) *Inventory {
	if len(source) > 0 && source[0] != "" {
		e.log.Debug("Extracting features", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	inv := NewInventory()
	nesting := false

	err := Walk(bytes.NewReader(data), Visitor{
		Declaration: func(d Declaration) {
			e.declaration(inv, d)
		},
		Prelude: func(tokens []css.Token) {
			nesting = nesting || hasNestingSelector(tokens)
		},
	})
	if err != nil {
		e.log.Debug("Unable to parse CSS, no features extracted", zap.Error(err))
		return NewInventory()
	}

	// presence only, number of nested rules does not matter
	if nesting {
		inv.Add(nestingUsage())
	}

	e.log.Debug("Features extracted", zap.Int("features", inv.Len()), zap.Bool("nesting", nesting))
	return inv
}

func (e *Extractor) declaration(inv *Inventory, d Declaration) {
	prop := strings.ToLower(strings.TrimSpace(d.Property))
	if !isIdent(prop) {
		if prop != "" {
			e.log.Debug("Skipping declaration", zap.String("name", prop))
		}
		return
	}
	inv.Add(propertyUsage(prop))

	if d.Custom {
		// custom property values are opaque
		return
	}
	for i, t := range d.Values {
		switch t.TokenType {
		case css.IdentToken:
			if isImportant(d.Values, i) {
				continue
			}
			inv.Add(valueUsage(prop, strings.ToLower(string(t.Data)), ValueIdentifier))
		case css.FunctionToken:
			// arguments are visited as separate tokens
			fn := strings.TrimSuffix(string(t.Data), "(")
			inv.Add(valueUsage(prop, strings.ToLower(fn), ValueFunctionCall))
		}
	}
}

func hasNestingSelector(tokens []css.Token) bool {
	for _, t := range tokens {
		if t.TokenType == css.DelimToken && len(t.Data) == 1 && t.Data[0] == '&' {
			return true
		}
	}
	return false
}

// isImportant reports whether identifier at position i is the "important"
// part of "!important" annotation.
func isImportant(values []css.Token, i int) bool {
	if !strings.EqualFold(string(values[i].Data), "important") {
		return false
	}
	for j := i - 1; j >= 0; j-- {
		switch values[j].TokenType {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.DelimToken:
			return string(values[j].Data) == "!"
		}
		return false
	}
	return false
}

// isIdent reports whether normalized declaration name looks like css
// identifier.
func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '-' || r == '_' || r > unicode.MaxASCII:
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Declaration is a single "property: value" item of a block.
type Declaration struct {
	Property string
	Values   []css.Token
	Custom   bool // custom property (--name), values are opaque
}

// Visitor receives syntax items found by Walk. Nil callbacks are skipped.
// Token slices passed to callbacks are only valid for the duration of the call.
type Visitor struct {
	// Declaration is called for every declaration in every block, including
	// blocks of @-rules and nested rules.
	Declaration func(Declaration)
	// Prelude is called with selector tokens of every ruleset, nested rulesets
	// included.
	Prelude func([]css.Token)
}

// Walk parses stylesheet calling visitor for ruleset preludes and
// declarations in document order. Parse errors are local: offending
// declaration or rule is skipped and parsing continues, unclosed blocks are
// closed at the end of input. Returns error wrapping ErrMalformed only when
// input cannot be read.
func Walk(r io.Reader, v Visitor) error {
	return walk(parse.NewInput(r), v)
}

func walk(input *parse.Input, v Visitor) error {
	parser := css.NewParser(input, false)

	var (
		depth int // open blocks
		// content of @-rules parser does not know about (@container,
		// @scope, @starting-style) comes as raw tokens, it is collected
		// and walked separately
		unknown []*bytes.Buffer
	)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.HasParseError() {
				// recoverable, parser skips to the end of offending item
				continue
			}
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			return nil

		case css.BeginRulesetGrammar:
			depth++
			if v.Prelude != nil {
				v.Prelude(parser.Values())
			}

		case css.EndRulesetGrammar:
			depth = max(depth-1, 0)

		case css.BeginAtRuleGrammar:
			depth++
			unknown = append(unknown, nil)

		case css.EndAtRuleGrammar:
			depth = max(depth-1, 0)
			if n := len(unknown); n > 0 {
				block := unknown[n-1]
				unknown = unknown[:n-1]
				if block != nil {
					if err := walk(parse.NewInputBytes(block.Bytes()), v); err != nil {
						return err
					}
				}
			}

		case css.TokenGrammar:
			if n := len(unknown); n > 0 {
				if unknown[n-1] == nil {
					unknown[n-1] = &bytes.Buffer{}
				}
				unknown[n-1].Write(data)
			}

		case css.DeclarationGrammar:
			if depth > 0 && v.Declaration != nil {
				v.Declaration(Declaration{
					Property: string(data),
					Values:   parser.Values(),
					Custom:   bytes.HasPrefix(data, []byte("--")),
				})
			}

		case css.CustomPropertyGrammar:
			if depth > 0 && v.Declaration != nil {
				v.Declaration(Declaration{Property: string(data), Custom: true})
			}
		}
	}
}
