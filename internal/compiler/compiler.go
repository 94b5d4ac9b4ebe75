// Package compiler turns a validated configuration into the renderer's
// command line.
//
// Options are emitted in configuration order. The command option becomes
// the program name, nested records become dotted flags (font.size becomes
// --font.size), underscores in option names become hyphens, and boolean
// options emit a bare flag when true and nothing when false. The language
// and open options are never emitted; the caller resolves them.
package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/shutter/internal/config/value"
)

// ErrNoCommand is returned when the configuration has no usable command.
var ErrNoCommand = errors.New("no renderer command configured")

// Option names with special handling.
const (
	keyCommand  = "command"
	keyLanguage = "language"
	keyOpen     = "open"
	keyPadding  = "padding"
	keyMargin   = "margin"
)

// Compile returns the argument list for cfg: the program name followed by
// one flag per option. Function options are resolved with ctx.
func Compile(cfg *value.Table, ctx value.Context) ([]string, error) {
	cmd, ok := cfg.Get(keyCommand)
	if !ok {
		return nil, ErrNoCommand
	}
	program, ok := cmd.AsString()
	if !ok || program == "" {
		return nil, ErrNoCommand
	}

	argv := []string{program}
	flags, err := compileTable(cfg, "", ctx)
	if err != nil {
		return nil, err
	}
	return append(argv, flags...), nil
}

func compileTable(t *value.Table, prefix string, ctx value.Context) ([]string, error) {
	var out []string
	for key, v := range t.All() {
		switch key {
		case keyCommand, keyLanguage, keyOpen:
			if prefix == "" {
				continue
			}
		case keyPadding, keyMargin:
			// Only lists are passed on; other shapes are dropped.
			if v.Kind() == value.KindList {
				out = append(out, flagName(prefix, key), v.Text())
			}
			continue
		}

		if sub, ok := v.AsTable(); ok {
			flags, err := compileTable(sub, prefix+key+".", ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, flags...)
			continue
		}

		flags, err := compileLeaf(flagName(prefix, key), v, ctx)
		if err != nil {
			return nil, fmt.Errorf("option %s%s: %w", prefix, key, err)
		}
		out = append(out, flags...)
	}
	return out, nil
}

func compileLeaf(flag string, v value.Value, ctx value.Context) ([]string, error) {
	if p, ok := v.AsProvider(); ok {
		resolved, err := p.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		v = resolved
	}

	switch v.Kind() {
	case value.KindNil:
		return nil, nil
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			return []string{flag}, nil
		}
		return nil, nil
	case value.KindTable, value.KindFunc:
		return nil, fmt.Errorf("cannot pass a %s as an argument", v.Kind())
	default:
		return []string{flag, v.Text()}, nil
	}
}

func flagName(prefix, key string) string {
	return "--" + prefix + strings.ReplaceAll(key, "_", "-")
}

// AppendLines appends the flag selecting the highlighted line.
func AppendLines(argv []string, line int) []string {
	return append(argv, "--lines", strconv.Itoa(line))
}

// AppendLanguage appends the language flag. It is appended even when
// language is empty.
func AppendLanguage(argv []string, language string) []string {
	return append(argv, "--language", language)
}
