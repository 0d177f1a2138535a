// Package request decodes effect requests and resolves them into pipeline
// steps.
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/regionfx/dsp/effectchain"
	"github.com/cwbudde/regionfx/internal/pipeline"
	"github.com/cwbudde/regionfx/internal/probe"
)

// ErrInvalidRequest reports malformed request input.
var ErrInvalidRequest = errors.New("invalid request")

// Request is an ordered list of effects for one source.
type Request struct {
	Source  string   `json:"source,omitempty"`
	Effects []Effect `json:"effects"`
}

// Effect is one entry of a request. An unset Start means the track start;
// an unset End means the track end.
type Effect struct {
	Type       EffectType       `json:"effect_type"`
	Start      Time             `json:"start_seconds"`
	End        Time             `json:"end_seconds"`
	Parameters map[string]Value `json:"parameters,omitempty"`
}

// EffectType is an effect kind. JSON accepts the numeric code or a name.
type EffectType effectchain.Kind

func (e EffectType) Kind() effectchain.Kind { return effectchain.Kind(e) }

func (e *EffectType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var (
		k   effectchain.Kind
		err error
	)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		k, err = effectchain.ParseKindName(s)
	} else {
		var code int
		if jerr := json.Unmarshal(data, &code); jerr != nil {
			return fmt.Errorf("request: effect_type must be an integer or name: %w", ErrInvalidRequest)
		}
		k, err = effectchain.ParseKind(code)
	}
	if err != nil {
		return err
	}
	*e = EffectType(k)
	return nil
}

func (e EffectType) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(e))
}

// Value is a numeric parameter. JSON booleans decode to 1 or 0 and numeric
// strings are accepted.
type Value float64

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*v = 1
		return nil
	case bytes.Equal(data, []byte("false")):
		*v = 0
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("request: parameter %q is not a number: %w", s, ErrInvalidRequest)
		}
		*v = Value(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("request: parameter must be a number: %w", ErrInvalidRequest)
	}
	*v = Value(f)
	return nil
}

// Params converts the parameter overrides for the registry.
func (e Effect) Params() effectchain.Params {
	if len(e.Parameters) == 0 {
		return effectchain.Params{}
	}
	num := make(map[string]float64, len(e.Parameters))
	for k, v := range e.Parameters {
		num[strings.ToLower(strings.TrimSpace(k))] = float64(v)
	}
	return effectchain.Params{Num: num}
}

// Decode reads a JSON request. Unknown fields are rejected.
func Decode(r io.Reader) (*Request, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("request: decode: %w", errors.Join(err, ErrInvalidRequest))
	}
	if len(req.Effects) == 0 {
		return nil, fmt.Errorf("request: no effects: %w", ErrInvalidRequest)
	}
	return &req, nil
}

// Load decodes the request file at path.
func Load(path string) (*Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("request: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Resolve builds pipeline steps from req. Every descriptor is built and
// every region checked before Resolve returns, so nothing is decoded for a
// request that would fail validation.
//
// Open ends are resolved with dp when it is non-nil, querying it at most
// once. Without a probe they stay open and run to the decoded track end.
func Resolve(ctx context.Context, req *Request, reg *effectchain.Registry, dp probe.DurationProbe) ([]pipeline.Step, error) {
	if req == nil || len(req.Effects) == 0 {
		return nil, fmt.Errorf("request: no effects: %w", ErrInvalidRequest)
	}
	if reg == nil {
		reg = effectchain.DefaultRegistry()
	}

	var (
		duration float64
		probed   bool
	)
	steps := make([]pipeline.Step, 0, len(req.Effects))
	for i, e := range req.Effects {
		d, err := reg.Build(e.Type.Kind(), e.Params())
		if err != nil {
			return nil, &pipeline.StepError{Index: i + 1, Kind: e.Type.Kind(), Err: err}
		}
		step := pipeline.Step{Effect: d, StartSeconds: e.Start.Seconds, EndSeconds: e.End.Seconds}
		if !e.End.Set {
			if dp == nil {
				step.OpenEnd = true
			} else {
				if !probed {
					duration, err = dp.Duration(ctx, req.Source)
					if err != nil {
						return nil, fmt.Errorf("request: resolve track end: %w", err)
					}
					probed = true
				}
				step.EndSeconds = duration
			}
		}
		steps = append(steps, step)
	}
	if err := pipeline.Validate(steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// Describe renders e in the effect flag syntax accepted by ParseEffectFlag.
func (e Effect) Describe() string {
	var b strings.Builder
	b.WriteString(e.Type.Kind().String())
	b.WriteByte('@')
	b.WriteString(Time{Seconds: e.Start.Seconds, Set: true}.String())
	b.WriteByte('-')
	if e.End.Set {
		b.WriteString(e.End.String())
	}
	if len(e.Parameters) > 0 {
		keys := make([]string, 0, len(e.Parameters))
		for k := range e.Parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte(':')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(strconv.FormatFloat(float64(e.Parameters[k]), 'g', -1, 64))
		}
	}
	return b.String()
}
