package dsl

import (
	"strings"

	"github.com/askiada/go-codec/pkg/pipeline/model"
)

// Parse turns command-line arguments into a pipeline.
//
//	Command    := TopOptions StageList
//	StageList  := Stage*
//	Stage      := Name Option*
//	Option     := -name | -Name Text
//	Text       := Literal | [ Seed StageList ]
func Parse(args []string) (*model.Pipeline, error) {
	p := &parser{tokens: Tokenize(args)}

	top, err := p.options()
	if err != nil {
		return nil, err
	}

	stages, err := p.stages()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok {
		return nil, p.fail(tok, ErrUnexpectedToken)
	}

	return &model.Pipeline{TopOptions: top, Stages: stages}, nil
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}

	return p.tokens[p.pos], true
}

func (p *parser) next() (string, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}

	return tok, ok
}

func (*parser) fail(tok string, err error) *ParseError {
	return &ParseError{Token: tok, Err: err}
}

func (*parser) failEOF(err error) *ParseError {
	return &ParseError{AtEnd: true, Err: err}
}

func isOption(tok string) bool {
	return strings.HasPrefix(tok, "-")
}

// stages reads stages until the input ends or a closing bracket shows up.
func (p *parser) stages() ([]model.Stage, error) {
	var stages []model.Stage

	for {
		tok, ok := p.peek()
		if !ok || tok == closeBracket {
			return stages, nil
		}

		if tok == openBracket || isOption(tok) {
			return nil, p.fail(tok, ErrUnexpectedToken)
		}

		p.pos++

		opts, err := p.options()
		if err != nil {
			return nil, err
		}

		stages = append(stages, model.Stage{Name: tok, Options: opts})
	}
}

func (p *parser) options() ([]model.Option, error) {
	var opts []model.Option

	for {
		tok, ok := p.peek()
		if !ok || !isOption(tok) {
			return opts, nil
		}

		p.pos++

		name := tok[1:]
		if name == "" {
			return nil, p.fail(tok, ErrEmptyOptionName)
		}

		if !model.TakesValue(name) {
			opts = append(opts, model.Switch(name))

			continue
		}

		text, err := p.text()
		if err != nil {
			return nil, err
		}

		opts = append(opts, model.Value(name, text))
	}
}

func (p *parser) text() (*model.Text, error) {
	tok, ok := p.next()
	switch {
	case !ok:
		return nil, p.failEOF(ErrUnexpectedEOF)
	case tok == closeBracket:
		return nil, p.fail(tok, ErrUnexpectedToken)
	case tok != openBracket:
		return &model.Text{Literal: []byte(tok)}, nil
	}

	seed, ok := p.next()
	switch {
	case !ok:
		return nil, p.failEOF(ErrUnexpectedEOF)
	case seed == openBracket || seed == closeBracket:
		return nil, p.fail(seed, ErrMissingSeed)
	}

	stages, err := p.stages()
	if err != nil {
		return nil, err
	}

	if _, ok := p.next(); !ok {
		return nil, p.failEOF(ErrUnterminated)
	}

	return &model.Text{Sub: &model.SubPipeline{Seed: []byte(seed), Stages: stages}}, nil
}
