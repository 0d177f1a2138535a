package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/regionfx/dsp/effectchain"
)

// ParseEffectFlag parses the command-line effect syntax
//
//	KIND[@START-[END]][:KEY=VALUE[,KEY=VALUE...]]
//
// KIND is a name, alias or code ("bass", "midpeak", "3"). Times take the
// same forms as Time. Without a range the effect covers the whole track;
// an empty END runs to the track end.
//
//	highs@0:10-0:20:gain_db=6,compress=1
//	reverb@1:00-
//	chorus:mix=0.3
func ParseEffectFlag(s string) (Effect, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Effect{}, fmt.Errorf("request: empty effect: %w", ErrInvalidRequest)
	}

	head, params := splitParams(s)
	kindPart, rangePart, hasRange := strings.Cut(head, "@")

	kind, err := effectchain.ParseKindName(kindPart)
	if err != nil {
		return Effect{}, fmt.Errorf("request: effect %q: %w", s, err)
	}
	e := Effect{Type: EffectType(kind), Start: At(0)}

	if hasRange {
		startPart, endPart, ok := strings.Cut(rangePart, "-")
		if !ok {
			return Effect{}, fmt.Errorf("request: effect %q: range needs START-END: %w", s, ErrInvalidRequest)
		}
		if e.Start, err = ParseTime(startPart); err != nil {
			return Effect{}, err
		}
		if !e.Start.Set {
			e.Start = At(0)
		}
		if e.End, err = ParseTime(endPart); err != nil {
			return Effect{}, err
		}
	}

	if params != "" {
		e.Parameters = make(map[string]Value)
		for _, kv := range strings.Split(params, ",") {
			k, v, ok := strings.Cut(kv, "=")
			k = strings.ToLower(strings.TrimSpace(k))
			if !ok || k == "" {
				return Effect{}, fmt.Errorf("request: effect %q: bad parameter %q: %w", s, kv, ErrInvalidRequest)
			}
			f, err := parseFlagValue(v)
			if err != nil {
				return Effect{}, fmt.Errorf("request: effect %q: parameter %s: %w", s, k, err)
			}
			e.Parameters[k] = Value(f)
		}
	}
	return e, nil
}

// splitParams separates the parameter list from the kind and range. The
// list starts after the last ':' preceding the first '='; earlier colons
// belong to clock times.
func splitParams(s string) (head, params string) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		return s, ""
	}
	colon := strings.LastIndexByte(s[:eq], ':')
	if colon < 0 {
		return s, ""
	}
	return s[:colon], s[colon+1:]
}

func parseFlagValue(v string) (float64, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "true", "on", "yes":
		return 1, nil
	case "false", "off", "no":
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q: %w", v, ErrInvalidRequest)
	}
	return f, nil
}

// FromFlags parses every flag into a request for source.
func FromFlags(source string, flags []string) (*Request, error) {
	req := &Request{Source: source}
	for _, f := range flags {
		e, err := ParseEffectFlag(f)
		if err != nil {
			return nil, err
		}
		req.Effects = append(req.Effects, e)
	}
	if len(req.Effects) == 0 {
		return nil, fmt.Errorf("request: no effects: %w", ErrInvalidRequest)
	}
	return req, nil
}
