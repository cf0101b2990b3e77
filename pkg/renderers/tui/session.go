package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

// Session drives an interactive fill of a form definition through a
// PromptDriver. Fill logic is driver-agnostic: validation and re-prompting
// happen here, so scripted drivers in tests exercise the same paths as the
// survey-backed terminal driver.
type Session struct {
	driver PromptDriver
	theme  Theme
}

// NewSession builds a session. Without WithPromptDriver it prompts on the
// real terminal through survey.
func NewSession(options ...Option) (*Session, error) {
	cfg, err := buildConfig(options...)
	if err != nil {
		return nil, err
	}
	return &Session{driver: cfg.driver, theme: cfg.theme}, nil
}

// Fill walks the definition's fields in order, prompting for each one and
// applying answers through Instance.Update. Prompts seed from the value the
// instance already holds, which New has resolved from initials and defaults.
// An empty answer on an optional field leaves the instance entry untouched;
// an empty answer on a password keeps any stored secret. The evolved instance
// is returned; on abort the instance as filled so far comes back alongside
// ErrAborted.
func (s *Session) Fill(ctx context.Context, def flowform.Definition, inst flowform.Instance) (flowform.Instance, error) {
	for _, section := range def.Sections {
		if section.Title != "" {
			if err := s.say(ctx, s.theme.InfoPrefix, section.Title); err != nil {
				return inst, err
			}
		}
		for _, field := range section.Fields {
			value, apply, err := s.promptField(ctx, field, inst)
			if err != nil {
				return inst, err
			}
			if !apply {
				continue
			}
			inst = inst.Update(flowform.Values{field.ID: value})
		}
	}
	return inst, nil
}

func (s *Session) promptField(ctx context.Context, field flowform.Field, inst flowform.Instance) (flowform.Value, bool, error) {
	cur, has := inst.Value(field.ID)
	switch field.Kind {
	case flowform.KindToggle:
		return s.promptToggle(ctx, field, cur)
	case flowform.KindNumber:
		return s.promptNumber(ctx, field, cur, has)
	case flowform.KindSelect:
		if len(field.Choices) > 0 {
			return s.promptSelect(ctx, field, cur)
		}
		return s.promptText(ctx, field, cur, has)
	case flowform.KindPassword:
		return s.promptPassword(ctx, field, cur, has)
	case flowform.KindTextarea:
		return s.promptTextArea(ctx, field, cur, has)
	default:
		return s.promptText(ctx, field, cur, has)
	}
}

func (s *Session) promptText(ctx context.Context, field flowform.Field, cur flowform.Value, has bool) (flowform.Value, bool, error) {
	cfg := InputConfig{
		Message:     labelOf(field),
		Help:        field.Description,
		Placeholder: field.Placeholder,
	}
	if has {
		cfg.Default = cur.Text()
	}
	if field.Required {
		cfg.Validator = requiredNonEmpty(labelOf(field))
	}
	for {
		answer, err := s.driver.Input(ctx, cfg)
		if err != nil {
			return flowform.Value{}, false, err
		}
		if strings.TrimSpace(answer) == "" {
			if field.Required {
				if err := s.warn(ctx, labelOf(field)+" is required"); err != nil {
					return flowform.Value{}, false, err
				}
				continue
			}
			return flowform.Value{}, false, nil
		}
		return flowform.Text(answer), true, nil
	}
}

func (s *Session) promptNumber(ctx context.Context, field flowform.Field, cur flowform.Value, has bool) (flowform.Value, bool, error) {
	cfg := InputConfig{
		Message:     labelOf(field),
		Help:        field.Description,
		Placeholder: field.Placeholder,
	}
	if has && cur.Kind() == flowform.ValueNumber {
		cfg.Default = cur.String()
	}
	for {
		answer, err := s.driver.Input(ctx, cfg)
		if err != nil {
			return flowform.Value{}, false, err
		}
		trimmed := strings.TrimSpace(answer)
		if trimmed == "" {
			if field.Required {
				if err := s.warn(ctx, labelOf(field)+" is required"); err != nil {
					return flowform.Value{}, false, err
				}
				continue
			}
			return flowform.Value{}, false, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			if err := s.warn(ctx, labelOf(field)+" must be a number"); err != nil {
				return flowform.Value{}, false, err
			}
			continue
		}
		if msg := rangeViolation(field, parsed); msg != "" {
			if err := s.warn(ctx, msg); err != nil {
				return flowform.Value{}, false, err
			}
			continue
		}
		return flowform.Number(parsed), true, nil
	}
}

func (s *Session) promptPassword(ctx context.Context, field flowform.Field, cur flowform.Value, has bool) (flowform.Value, bool, error) {
	message := labelOf(field)
	if has && cur.Text() != "" {
		message += " (stored, enter to keep)"
	}
	cfg := InputConfig{
		Message:     message,
		Help:        field.Description,
		Placeholder: field.Placeholder,
	}
	for {
		answer, err := s.driver.Password(ctx, cfg)
		if err != nil {
			return flowform.Value{}, false, err
		}
		if answer == "" {
			if has && cur.Text() != "" {
				return flowform.Value{}, false, nil
			}
			if field.Required {
				if err := s.warn(ctx, labelOf(field)+" is required"); err != nil {
					return flowform.Value{}, false, err
				}
				continue
			}
			return flowform.Value{}, false, nil
		}
		return flowform.Secret(answer), true, nil
	}
}

func (s *Session) promptToggle(ctx context.Context, field flowform.Field, cur flowform.Value) (flowform.Value, bool, error) {
	cfg := ConfirmConfig{
		Message: labelOf(field),
		Default: cur.Bool(),
		Help:    field.Description,
	}
	answer, err := s.driver.Confirm(ctx, cfg)
	if err != nil {
		return flowform.Value{}, false, err
	}
	return flowform.Bool(answer), true, nil
}

func (s *Session) promptSelect(ctx context.Context, field flowform.Field, cur flowform.Value) (flowform.Value, bool, error) {
	options := make([]string, len(field.Choices))
	defaultIndex := 0
	for i, choice := range field.Choices {
		label := choice.Label
		if label == "" {
			label = choice.Value
		}
		options[i] = label
		if cur.Text() == choice.Value {
			defaultIndex = i
		}
	}
	cfg := SelectConfig{
		Message:      labelOf(field),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Description,
	}
	idx, err := s.driver.Select(ctx, cfg)
	if err != nil {
		return flowform.Value{}, false, err
	}
	if idx < 0 || idx >= len(field.Choices) {
		return flowform.Value{}, false, fmt.Errorf("tui: select returned index %d for %d options", idx, len(field.Choices))
	}
	return flowform.Text(field.Choices[idx].Value), true, nil
}

func (s *Session) promptTextArea(ctx context.Context, field flowform.Field, cur flowform.Value, has bool) (flowform.Value, bool, error) {
	cfg := TextAreaConfig{
		Message: labelOf(field),
		Help:    field.Description,
	}
	if has {
		cfg.Default = cur.Text()
	}
	for {
		answer, err := s.driver.TextArea(ctx, cfg)
		if err != nil {
			return flowform.Value{}, false, err
		}
		if strings.TrimSpace(answer) == "" {
			if field.Required {
				if err := s.warn(ctx, labelOf(field)+" is required"); err != nil {
					return flowform.Value{}, false, err
				}
				continue
			}
			return flowform.Value{}, false, nil
		}
		return flowform.Text(answer), true, nil
	}
}

func (s *Session) say(ctx context.Context, prefix, msg string) error {
	if prefix != "" {
		msg = prefix + msg
	}
	return s.driver.Info(ctx, msg)
}

func (s *Session) warn(ctx context.Context, msg string) error {
	return s.say(ctx, s.theme.ErrorPrefix, msg)
}

func labelOf(field flowform.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

// requiredNonEmpty gives survey-backed drivers an inline validator. The fill
// loop re-checks answers itself because scripted drivers ignore validators.
func requiredNonEmpty(label string) func(string) error {
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func rangeViolation(field flowform.Field, value float64) string {
	format := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	switch {
	case field.Min != nil && field.Max != nil && (value < *field.Min || value > *field.Max):
		return fmt.Sprintf("%s must be between %s and %s", labelOf(field), format(*field.Min), format(*field.Max))
	case field.Min != nil && value < *field.Min:
		return fmt.Sprintf("%s must be at least %s", labelOf(field), format(*field.Min))
	case field.Max != nil && value > *field.Max:
		return fmt.Sprintf("%s must be at most %s", labelOf(field), format(*field.Max))
	}
	return ""
}
