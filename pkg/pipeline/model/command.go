package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pipeline is a parsed command: the options given before the first stage and the
// stages in order.
type Pipeline struct {
	TopOptions []Option
	Stages     []Stage
}

// Stage names a codec and the options it runs with.
type Stage struct {
	Name    string
	Options []Option
}

// Option is either a switch (Text is nil) or a value option.
type Option struct {
	Name string
	Text *Text
}

// IsSwitch reports whether the option carries no value.
func (o Option) IsSwitch() bool {
	return o.Text == nil
}

// Text is the value of an option: literal bytes, or a sub-pipeline whose output
// becomes the value.
type Text struct {
	Literal []byte
	Sub     *SubPipeline
}

// IsSub reports whether the text has to be evaluated.
func (t *Text) IsSub() bool {
	return t != nil && t.Sub != nil
}

// SubPipeline is fed Seed and runs Stages over it.
type SubPipeline struct {
	Seed   []byte
	Stages []Stage
}

// Switch builds a switch option.
func Switch(name string) Option {
	return Option{Name: name}
}

// Value builds a value option.
func Value(name string, text *Text) Option {
	return Option{Name: name, Text: text}
}

// Literal builds a literal text.
func Literal(s string) *Text {
	return &Text{Literal: []byte(s)}
}

// Sub builds a sub-pipeline text.
func Sub(seed string, stages ...Stage) *Text {
	return &Text{Sub: &SubPipeline{Seed: []byte(seed), Stages: stages}}
}

// NewStage builds a stage.
func NewStage(name string, opts ...Option) Stage {
	return Stage{Name: name, Options: opts}
}

// TakesValue reports whether an option with that name expects a value. Names
// starting with an upper-case letter take one; everything else is a switch.
func TakesValue(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)

	return r != utf8.RuneError && unicode.IsUpper(r)
}

// String renders the stage the way it would be typed.
func (s Stage) String() string {
	var sb strings.Builder

	sb.WriteString(s.Name)

	for _, opt := range s.Options {
		sb.WriteString(" -")
		sb.WriteString(opt.Name)

		if opt.Text == nil {
			continue
		}

		sb.WriteByte(' ')
		sb.WriteString(opt.Text.String())
	}

	return sb.String()
}

func (t *Text) String() string {
	if t == nil {
		return ""
	}

	if t.Sub == nil {
		return string(t.Literal)
	}

	parts := []string{"[" + string(t.Sub.Seed)}
	for _, st := range t.Sub.Stages {
		parts = append(parts, st.String())
	}

	return strings.Join(parts, " ") + "]"
}
