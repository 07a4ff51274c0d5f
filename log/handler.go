// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"reflect"
	"strings"

	"github.com/holiman/uint256"
)

// DiscardHandler returns a handler dropping every record.
func DiscardHandler() slog.Handler {
	return slog.DiscardHandler
}

type leveler struct{ minLevel *slog.LevelVar }

func (l *leveler) Level() slog.Level {
	return l.minLevel.Level()
}

// JSONHandlerWithLevel returns a handler which prints records at or above
// level in JSON format.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replacer(false),
		Level:       &leveler{level},
	})
}

// LogfmtHandlerWithLevel returns a handler which prints records at or above
// level as logfmt key/value pairs.
func LogfmtHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewTextHandler(wr, &slog.HandlerOptions{
		ReplaceAttr: replacer(true),
		Level:       &leveler{level},
	})
}

func replacer(logfmt bool) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, attr slog.Attr) slog.Attr {
		switch attr.Key {
		case slog.TimeKey:
			if attr.Value.Kind() == slog.KindTime {
				if logfmt {
					return slog.String("t", attr.Value.Time().Format(timeFormat))
				}
				return slog.Attr{Key: "t", Value: attr.Value}
			}
		case slog.LevelKey:
			if l, ok := attr.Value.Any().(slog.Level); ok {
				return slog.Any("lvl", LevelString(l))
			}
		}
		switch attr.Value.Kind() {
		case slog.KindTime:
			if logfmt {
				attr.Value = slog.StringValue(attr.Value.Time().Format(timeFormat))
			}
			return attr
		case slog.KindAny:
		default:
			return attr
		}
		if v, ok := render(attr.Value.Any()); ok {
			attr.Value = v
		}
		return attr
	}
}

// render formats the values slog prints poorly: numbers are printed in
// decimal, tallies as a bracketed list and nil stringers as <nil>.
func render(v any) (slog.Value, bool) {
	switch v := v.(type) {
	case *big.Int:
		if v == nil {
			return slog.StringValue("<nil>"), true
		}
		return slog.StringValue(v.String()), true
	case []*big.Int:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = "<nil>"
			if n != nil {
				parts[i] = n.String()
			}
		}
		return slog.StringValue("[" + strings.Join(parts, " ") + "]"), true
	case *uint256.Int:
		if v == nil {
			return slog.StringValue("<nil>"), true
		}
		return slog.StringValue(v.Dec()), true
	case fmt.Stringer:
		if v == nil || (reflect.ValueOf(v).Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil()) {
			return slog.StringValue("<nil>"), true
		}
		return slog.StringValue(v.String()), true
	}
	return slog.Value{}, false
}
