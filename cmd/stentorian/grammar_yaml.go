package main

import (
	"fmt"
	"io"

	stentorian "github.com/ocecaco/stentorian-go"
	"gopkg.in/yaml.v3"
)

// yamlGrammar is a human-editable grammar format for this command-line
// tool only. It has no bearing on the engine's own binary wire format
// (§6) — it exists purely so a demo grammar can be hand-written and fed
// through the real compilers.
type yamlGrammar struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Name     string      `yaml:"name"`
	Exported bool        `yaml:"exported"`
	Body     yamlElement `yaml:"body"`
}

type yamlElement struct {
	Seq            []yamlElement `yaml:"seq,omitempty"`
	Alt            []yamlElement `yaml:"alt,omitempty"`
	Rep            *yamlElement  `yaml:"rep,omitempty"`
	Opt            *yamlElement  `yaml:"opt,omitempty"`
	Capture        string        `yaml:"capture,omitempty"`
	Of             *yamlElement  `yaml:"of,omitempty"`
	Word           string        `yaml:"word,omitempty"`
	Rule           string        `yaml:"rule,omitempty"`
	List           string        `yaml:"list,omitempty"`
	Dictation      bool          `yaml:"dictation,omitempty"`
	DictationWord  bool          `yaml:"dictation_word,omitempty"`
	SpellingLetter bool          `yaml:"spelling_letter,omitempty"`
}

func loadYAMLGrammar(r io.Reader) (stentorian.Grammar, error) {
	var doc yamlGrammar
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return stentorian.Grammar{}, fmt.Errorf("decode grammar yaml: %w", err)
	}

	rules := make([]stentorian.Rule, len(doc.Rules))
	for i, r := range doc.Rules {
		body, err := r.Body.toElement()
		if err != nil {
			return stentorian.Grammar{}, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		rules[i] = stentorian.Rule{Name: r.Name, Exported: r.Exported, Body: body}
	}
	return stentorian.Grammar{Rules: rules}, nil
}

func (y yamlElement) toElement() (stentorian.Element, error) {
	switch {
	case len(y.Seq) > 0:
		children, err := toElements(y.Seq)
		if err != nil {
			return nil, err
		}
		return stentorian.Seq(children...), nil

	case len(y.Alt) > 0:
		children, err := toElements(y.Alt)
		if err != nil {
			return nil, err
		}
		return stentorian.Alt(children...), nil

	case y.Rep != nil:
		child, err := y.Rep.toElement()
		if err != nil {
			return nil, err
		}
		return stentorian.Rep(child), nil

	case y.Opt != nil:
		child, err := y.Opt.toElement()
		if err != nil {
			return nil, err
		}
		return stentorian.Opt(child), nil

	case y.Capture != "":
		if y.Of == nil {
			return nil, fmt.Errorf("capture %q missing `of`", y.Capture)
		}
		child, err := y.Of.toElement()
		if err != nil {
			return nil, err
		}
		return stentorian.Cap(y.Capture, child), nil

	case y.Word != "":
		return stentorian.W(y.Word), nil

	case y.Rule != "":
		return stentorian.Ref(y.Rule), nil

	case y.List != "":
		return stentorian.Lst(y.List), nil

	case y.Dictation:
		return stentorian.Dictation{}, nil

	case y.DictationWord:
		return stentorian.DictationWord{}, nil

	case y.SpellingLetter:
		return stentorian.SpellingLetter{}, nil

	default:
		return nil, fmt.Errorf("empty grammar element")
	}
}

func toElements(nodes []yamlElement) ([]stentorian.Element, error) {
	out := make([]stentorian.Element, len(nodes))
	for i, n := range nodes {
		el, err := n.toElement()
		if err != nil {
			return nil, err
		}
		out[i] = el
	}
	return out, nil
}
