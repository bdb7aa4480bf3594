package lsystem

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderShape is one primitive produced by an expansion: a line segment
// for branch cylinders or a circle for leaf blobs. Age is the generation
// the shape was emitted in.
type RenderShape struct {
	Kind  ShapeKind
	Start mgl32.Vec3
	End   mgl32.Vec3
	Pos   mgl32.Vec3
	Width float32
	Size  float32
	Age   int
}

type turtle struct {
	rotation mgl32.Quat
	position mgl32.Vec3
	scale    float32
}

func defaultTurtle() turtle {
	return turtle{rotation: mgl32.QuatIdent(), scale: 1}
}

// Build expands the config's initial symbols into shapes. Rule picks and
// value ranges draw from rng, so the same config yields a different
// plant per call.
func Build(cfg *Config, rng *rand.Rand) []RenderShape {
	b := &builder{cfg: cfg, rng: rng}
	b.stack = append(b.stack, defaultTurtle())
	b.expand(cfg.Rules.Initial, 0)
	return b.shapes
}

type builder struct {
	cfg    *Config
	rng    *rand.Rand
	stack  []turtle
	shapes []RenderShape
}

func (b *builder) state() *turtle {
	return &b.stack[len(b.stack)-1]
}

func (b *builder) expand(symbols []Symbol, iteration int) {
	for _, sym := range symbols {
		switch sym.Kind {
		case SymScope:
			b.stack = append(b.stack, *b.state())
		case SymScopeEnd:
			if len(b.stack) > 1 {
				b.stack = b.stack[:len(b.stack)-1]
			} else {
				b.stack[0] = defaultTurtle()
			}
		case SymObject:
			b.emit(sym.Id, iteration)
		case SymRule:
			if iteration >= b.cfg.Rules.Iterations {
				continue
			}
			sets, ok := b.cfg.Rules.RuleSets[sym.Id]
			if !ok {
				continue
			}
			rule := pickRule(sets.Sets[sets.Current].Rules, iteration, b.rng)
			if rule != nil {
				b.expand(rule.Result, iteration+1)
			}
		case SymScale:
			b.state().scale *= sym.Values.Get(1, b.rng)
		default:
			b.rotate(sym)
		}
	}
}

func (b *builder) rotate(sym Symbol) {
	angle := mgl32.DegToRad(sym.Values.Get(b.cfg.Rendering.DefaultAngleChange, b.rng))
	var axis mgl32.Vec3
	switch sym.Kind {
	case SymRotateX:
		axis = mgl32.Vec3{1, 0, 0}
	case SymRotateNegX:
		axis = mgl32.Vec3{-1, 0, 0}
	case SymRotateY:
		axis = mgl32.Vec3{0, 1, 0}
	case SymRotateNegY:
		axis = mgl32.Vec3{0, -1, 0}
	case SymRotateZ:
		axis = mgl32.Vec3{0, 0, 1}
	case SymRotateNegZ:
		axis = mgl32.Vec3{0, 0, -1}
	}
	st := b.state()
	st.rotation = st.rotation.Mul(mgl32.QuatRotate(angle, axis))
}

func (b *builder) emit(id byte, iteration int) {
	shape, ok := b.cfg.Rendering.Shapes[id]
	if !ok {
		return
	}
	st := b.state()
	switch shape.Kind {
	case ShapeLine:
		dir := st.rotation.Rotate(mgl32.Vec3{0, 1, 0})
		end := st.position.Add(dir.Mul(shape.Length * st.scale))
		b.shapes = append(b.shapes, RenderShape{
			Kind:  ShapeLine,
			Start: st.position,
			End:   end,
			Width: shape.Width * st.scale,
			Age:   iteration,
		})
		st.position = end
	case ShapeCircle:
		b.shapes = append(b.shapes, RenderShape{
			Kind: ShapeCircle,
			Pos:  st.position,
			Size: shape.Size * st.scale,
			Age:  iteration,
		})
	}
}

// pickRule draws one rule weighted by chance, skipping rules whose
// generation gates exclude this iteration. Returns nil when every rule
// is gated out.
func pickRule(rules []Rule, iteration int, rng *rand.Rand) *Rule {
	gen := float32(iteration)
	total := float32(0)
	for i := range rules {
		if ruleOpen(&rules[i], gen) {
			total += rules[i].Chance
		}
	}
	if total <= 0 {
		return nil
	}
	n := rng.Float32() * total
	acc := float32(0)
	for i := range rules {
		if !ruleOpen(&rules[i], gen) {
			continue
		}
		acc += rules[i].Chance
		if n < acc {
			return &rules[i]
		}
	}
	// Float accumulation can land n a hair past the last bucket.
	for i := len(rules) - 1; i >= 0; i-- {
		if ruleOpen(&rules[i], gen) {
			return &rules[i]
		}
	}
	return nil
}

func ruleOpen(r *Rule, gen float32) bool {
	if r.MinGen != nil && gen < *r.MinGen {
		return false
	}
	if r.MaxGen != nil && gen > *r.MaxGen {
		return false
	}
	return !math.IsNaN(float64(r.Chance)) && r.Chance > 0
}
