// Package lsystem grows stochastic plant skeletons from a JSON rule
// config. A config names replacement rules over single-letter symbols;
// expanding them with a turtle state stack yields line and circle shapes
// that the scene meshes into branch cylinders and leaf blobs.
package lsystem

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
)

// Value is a scalar or an inclusive random range (Min==Max means exact).
type Value struct {
	Min float32
	Max float32
}

func (v Value) get(rng *rand.Rand) float32 {
	if v.Min == v.Max {
		return v.Min
	}
	return v.Min + rng.Float32()*(v.Max-v.Min)
}

// Values is the parenthesized argument list after a symbol. Empty means
// "use the config default".
type Values []Value

func (vs Values) Get(def float32, rng *rand.Rand) float32 {
	if len(vs) == 0 {
		return def
	}
	return vs[rng.Intn(len(vs))].get(rng)
}

type SymbolKind int

const (
	SymScope SymbolKind = iota
	SymScopeEnd
	SymRule
	SymObject
	SymRotateX
	SymRotateNegX
	SymRotateY
	SymRotateNegY
	SymRotateZ
	SymRotateNegZ
	SymScale
)

type Symbol struct {
	Kind   SymbolKind
	Id     byte
	Values Values
}

type Rule struct {
	Result []Symbol
	Chance float32
	MinGen *float32
	MaxGen *float32
}

// RuleSet is one alternative personality for a rule letter; a config can
// carry several and switch between them to vary plants.
type RuleSet struct {
	Chance float32
	Rules  []Rule
}

type RuleSets struct {
	Current int
	Sets    []RuleSet
}

type ShapeKind int

const (
	ShapeLine ShapeKind = iota
	ShapeCircle
)

type Shape struct {
	Kind   ShapeKind
	Width  float32
	Length float32
	Size   float32
}

type RenderConfig struct {
	DefaultAngleChange float32
	Shapes             map[byte]Shape
}

type BuildConfig struct {
	Iterations int
	Initial    []Symbol
	RuleSets   map[byte]*RuleSets
}

type Config struct {
	Rendering RenderConfig
	Rules     BuildConfig
}

type shapeJSON struct {
	Kind   string  `json:"kind"`
	Width  float32 `json:"width"`
	Length float32 `json:"length"`
	Size   float32 `json:"size"`
}

type ruleJSON struct {
	Result string   `json:"result"`
	Chance *float32 `json:"chance,omitempty"`
	MinGen *float32 `json:"min_gen,omitempty"`
	MaxGen *float32 `json:"max_gen,omitempty"`
}

type ruleSetJSON struct {
	Rules  []ruleJSON `json:"rules"`
	Chance *float32   `json:"chance,omitempty"`
}

type configJSON struct {
	Rendering struct {
		DefaultAngleChange float32              `json:"default_angle_change"`
		Shapes             map[string]shapeJSON `json:"shapes"`
	} `json:"rendering"`
	Rules struct {
		Iterations int                      `json:"iterations"`
		Initial    string                   `json:"initial"`
		Rules      map[string][]ruleSetJSON `json:"rules"`
	} `json:"rules"`
}

// ParseConfig reads a config document.
func ParseConfig(data []byte) (*Config, error) {
	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing lsystem config: %w", err)
	}

	shapes := make(map[byte]Shape, len(raw.Rendering.Shapes))
	for key, s := range raw.Rendering.Shapes {
		if len(key) != 1 {
			return nil, fmt.Errorf("shape key %q must be a single character", key)
		}
		var kind ShapeKind
		switch s.Kind {
		case "line", "branch":
			kind = ShapeLine
		case "circle":
			kind = ShapeCircle
		default:
			return nil, fmt.Errorf("shape %q has unknown kind %q", key, s.Kind)
		}
		shapes[key[0]] = Shape{Kind: kind, Width: s.Width, Length: s.Length, Size: s.Size}
	}

	initial, err := ParseSymbols(raw.Rules.Initial)
	if err != nil {
		return nil, err
	}

	ruleSets := make(map[byte]*RuleSets, len(raw.Rules.Rules))
	for key, sets := range raw.Rules.Rules {
		if len(key) != 1 {
			return nil, fmt.Errorf("rule key %q must be a single character", key)
		}
		setChances := normalizeChances(len(sets), func(i int) *float32 { return sets[i].Chance })

		parsed := &RuleSets{Sets: make([]RuleSet, len(sets))}
		for i, set := range sets {
			ruleChances := normalizeChances(len(set.Rules), func(j int) *float32 { return set.Rules[j].Chance })
			rules := make([]Rule, len(set.Rules))
			for j, r := range set.Rules {
				result, err := ParseSymbols(r.Result)
				if err != nil {
					return nil, fmt.Errorf("rule %q set %d: %w", key, i, err)
				}
				rules[j] = Rule{
					Result: result,
					Chance: ruleChances[j],
					MinGen: r.MinGen,
					MaxGen: r.MaxGen,
				}
			}
			parsed.Sets[i] = RuleSet{Chance: setChances[i], Rules: rules}
		}
		ruleSets[key[0]] = parsed
	}

	return &Config{
		Rendering: RenderConfig{
			DefaultAngleChange: raw.Rendering.DefaultAngleChange,
			Shapes:             shapes,
		},
		Rules: BuildConfig{
			Iterations: raw.Rules.Iterations,
			Initial:    initial,
			RuleSets:   ruleSets,
		},
	}, nil
}

// normalizeChances fills unspecified chances with an even split of
// whatever probability the explicit ones leave behind.
func normalizeChances(n int, chance func(int) *float32) []float32 {
	remaining := float32(1.0)
	unfilled := 0
	for i := 0; i < n; i++ {
		if c := chance(i); c != nil {
			remaining -= *c
		} else {
			unfilled++
		}
	}
	divided := float32(0)
	if unfilled > 0 {
		divided = remaining / float32(unfilled)
	}

	out := make([]float32, n)
	for i := 0; i < n; i++ {
		if c := chance(i); c != nil {
			out[i] = *c
		} else {
			out[i] = divided
		}
	}
	return out
}

// ParseSymbols turns a rule string into symbols. Lowercase letters are
// shapes, uppercase letters are rule references, brackets scope the
// turtle state, and rotation/scale operators take an optional value list
// like "+(20~40)" or "|(0.5,0.8~0.9)".
func ParseSymbols(s string) ([]Symbol, error) {
	symbols := make([]Symbol, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '[':
			symbols = append(symbols, Symbol{Kind: SymScope})
		case c == ']':
			symbols = append(symbols, Symbol{Kind: SymScopeEnd})
		case strings.IndexByte(`+-&^\/<>|`, c) >= 0:
			values, consumed, err := parseValues(s[i+1:])
			if err != nil {
				return nil, fmt.Errorf("at %q offset %d: %w", s, i, err)
			}
			i += consumed
			symbols = append(symbols, Symbol{Kind: operatorKind(c), Values: values})
		case c >= 'a' && c <= 'z':
			symbols = append(symbols, Symbol{Kind: SymObject, Id: c})
		case c >= 'A' && c <= 'Z':
			symbols = append(symbols, Symbol{Kind: SymRule, Id: c})
		}
	}
	return symbols, nil
}

func operatorKind(c byte) SymbolKind {
	switch c {
	case '+':
		return SymRotateY
	case '-':
		return SymRotateNegY
	case '&':
		return SymRotateX
	case '^':
		return SymRotateNegX
	case '\\', '<':
		return SymRotateZ
	case '/', '>':
		return SymRotateNegZ
	default:
		return SymScale
	}
}

// parseValues reads an optional "(...)" argument list and reports how
// many bytes it consumed.
func parseValues(s string) (Values, int, error) {
	if len(s) == 0 || s[0] != '(' {
		return nil, 0, nil
	}
	end := strings.IndexByte(s, ')')
	if end < 0 {
		return nil, 0, fmt.Errorf("unterminated value list")
	}
	var values Values
	for _, part := range strings.Split(s[1:end], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "~", 2)
		lo, err := strconv.ParseFloat(strings.TrimSpace(bounds[0]), 32)
		if err != nil {
			return nil, 0, fmt.Errorf("bad value %q: %w", part, err)
		}
		hi := lo
		if len(bounds) == 2 {
			hi, err = strconv.ParseFloat(strings.TrimSpace(bounds[1]), 32)
			if err != nil {
				return nil, 0, fmt.Errorf("bad value %q: %w", part, err)
			}
		}
		values = append(values, Value{Min: float32(lo), Max: float32(hi)})
	}
	return values, end + 1, nil
}

// RandomizeRuleSets re-picks the active set for n random rule letters,
// or for all of them when n < 0.
func (c *Config) RandomizeRuleSets(n int, rng *rand.Rand) {
	if n < 0 {
		for _, sets := range c.Rules.RuleSets {
			sets.Current = rng.Intn(len(sets.Sets))
		}
		return
	}
	keys := make([]byte, 0, len(c.Rules.RuleSets))
	for key := range c.Rules.RuleSets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })
	for i := 0; i < n && len(keys) > 0; i++ {
		j := rng.Intn(len(keys))
		key := keys[j]
		keys = append(keys[:j], keys[j+1:]...)
		sets := c.Rules.RuleSets[key]
		sets.Current = rng.Intn(len(sets.Sets))
	}
}
