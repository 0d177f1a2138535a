package effectchain

import (
	"fmt"
	"strings"
)

// Kind identifies an effect variant. The numeric values are the public
// effect-type codes accepted by requests.
type Kind int

const (
	KindLowShelf   Kind = 1
	KindMidPeak    Kind = 2
	KindHighShelf  Kind = 3
	KindCompressor Kind = 4
	KindReverb     Kind = 5
	KindChorus     Kind = 6
)

// Kinds lists every kind in code order.
var Kinds = []Kind{KindLowShelf, KindMidPeak, KindHighShelf, KindCompressor, KindReverb, KindChorus}

var kindNames = map[Kind]string{
	KindLowShelf:   "lowshelf",
	KindMidPeak:    "midpeak",
	KindHighShelf:  "highshelf",
	KindCompressor: "compressor",
	KindReverb:     "reverb",
	KindChorus:     "chorus",
}

var kindLabels = map[Kind]string{
	KindLowShelf:   "Bass Boost",
	KindMidPeak:    "Mids Boost",
	KindHighShelf:  "High Boost",
	KindCompressor: "Compressor",
	KindReverb:     "Reverb",
	KindChorus:     "Chorus",
}

var kindAliases = map[string]Kind{
	"bass":     KindLowShelf,
	"low":      KindLowShelf,
	"mids":     KindMidPeak,
	"mid":      KindMidPeak,
	"highs":    KindHighShelf,
	"high":     KindHighShelf,
	"treble":   KindHighShelf,
	"compress": KindCompressor,
	"echo":     KindReverb,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Label returns a human-readable name.
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return k.String()
}

// Valid reports whether k is one of the six known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind converts an effect-type code to a Kind.
func ParseKind(code int) (Kind, error) {
	k := Kind(code)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: code %d", ErrUnknownEffect, code)
	}
	return k, nil
}

// ParseKindName resolves a kind from its name, an alias or a numeric code.
func ParseKindName(name string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	if k, ok := kindAliases[s]; ok {
		return k, nil
	}
	var code int
	if _, err := fmt.Sscanf(s, "%d", &code); err == nil && fmt.Sprint(code) == s {
		return ParseKind(code)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}
