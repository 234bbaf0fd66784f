package engine

import (
	"fmt"
	"strings"

	"github.com/bellapacx/cadeditor/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites DSL source before handing it to zygomys:
//
//   - ; line comments become // comments (zygomys has no ; comments)
//   - :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbol registration
//   - kebab-case identifiers become underscore form (extrude-rect ->
//     extrude_rect), since zygomys reads the hyphen as subtraction
//
// String literal boundaries are respected throughout.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	b := []byte(source)

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '`':
			i = copyString(&out, b, i)

		case c == ';':
			out.WriteString("//")
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out.WriteByte(b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			// Preserve the := assignment operator.
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(string(b[i+1 : j]))
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]):
			// Hyphen between identifier characters, not a minus operator.
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// copyString copies a quoted literal starting at i verbatim, honoring
// backslash escapes inside double quotes, and returns the next offset.
func copyString(out *strings.Builder, b []byte, i int) int {
	quote := b[i]
	out.WriteByte(quote)
	i++
	for i < len(b) && b[i] != quote {
		if quote == '"' && b[i] == '\\' && i+1 < len(b) {
			out.WriteByte(b[i])
			out.WriteByte(b[i+1])
			i += 2
			continue
		}
		out.WriteByte(b[i])
		i++
	}
	if i < len(b) {
		out.WriteByte(quote)
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		if ok {
			// Keyword at end with no value; treat as flag with nil.
			result.kw[name] = zygo.SexpNull
			i++
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// floatArg extracts a keyword float argument, falling back to def when the
// keyword is absent.
func (a kwArgs) floatArg(form, name string, def float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", form, name, err)
	}
	return f, nil
}

// vecArg extracts a keyword vec3 argument, falling back to zero when absent.
func (a kwArgs) vecArg(form, name string) ([3]float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return [3]float64{}, nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return [3]float64{}, fmt.Errorf("%s: %s: %w", form, name, err)
	}
	return vec, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// sexpVec3 wraps a 3-vector so it can be passed between builtins.
type sexpVec3 struct {
	vec [3]float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) ([3]float64, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return [3]float64{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. Each shape form appends one record to the document, in
// evaluation order.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, doc *scene.Document) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var vec [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			vec[i] = f
		}
		return &sexpVec3{vec: vec}, nil
	})

	// -----------------------------------------------------------------------
	// (box :width 2 :height 1 :depth 3 :at (vec3 0 0.5 0) :rotate (vec3 0 45 0))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		w, err := pa.floatArg("box", "width", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.floatArg("box", "height", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		d, err := pa.floatArg("box", "depth", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		at, err := pa.vecArg("box", "at")
		if err != nil {
			return zygo.SexpNull, err
		}
		rot, err := pa.vecArg("box", "rotate")
		if err != nil {
			return zygo.SexpNull, err
		}

		doc.Records = append(doc.Records,
			scene.RecordForPrimitive(scene.ShapeBox, at, rot, [3]float64{w, h, d}))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (sphere :radius 1 :at (vec3 3 1 0))
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := pa.floatArg("sphere", "radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		at, err := pa.vecArg("sphere", "at")
		if err != nil {
			return zygo.SexpNull, err
		}

		doc.Records = append(doc.Records,
			scene.RecordForPrimitive(scene.ShapeSphere, at, [3]float64{}, [3]float64{r, r, r}))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :radius 0.5 :height 2 :at (vec3 -2 1 0) :rotate (vec3 90 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := pa.floatArg("cylinder", "radius", 0.5)
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.floatArg("cylinder", "height", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		at, err := pa.vecArg("cylinder", "at")
		if err != nil {
			return zygo.SexpNull, err
		}
		rot, err := pa.vecArg("cylinder", "rotate")
		if err != nil {
			return zygo.SexpNull, err
		}

		doc.Records = append(doc.Records,
			scene.RecordForPrimitive(scene.ShapeCylinder, at, rot, [3]float64{r, h, r}))
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (extrude-rect :width 2 :depth 1 :height 1 :at (vec3 1 0 0.5))
	//
	// :at is the base center on the construction plane; the record position
	// is lifted by half the height, matching a committed sketch.
	// Registered as extrude_rect; the preprocessor rewrites the hyphen.
	// -----------------------------------------------------------------------
	env.AddFunction("extrude_rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		w, err := pa.floatArg("extrude-rect", "width", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		d, err := pa.floatArg("extrude-rect", "depth", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.floatArg("extrude-rect", "height", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		at, err := pa.vecArg("extrude-rect", "at")
		if err != nil {
			return zygo.SexpNull, err
		}

		doc.Records = append(doc.Records, scene.Record{
			ShapeType:  scene.ShapeExtruded,
			Outline:    scene.OutlineRectangle,
			Position:   [3]float64{at[0], at[1] + h/2, at[2]},
			Scale:      [3]float64{1, 1, 1},
			Dimensions: &[3]float64{w, h, d},
		})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (extrude-circle :radius 1 :height 2 :at (vec3 4 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("extrude_circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := pa.floatArg("extrude-circle", "radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.floatArg("extrude-circle", "height", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		at, err := pa.vecArg("extrude-circle", "at")
		if err != nil {
			return zygo.SexpNull, err
		}

		doc.Records = append(doc.Records, scene.Record{
			ShapeType:  scene.ShapeExtruded,
			Outline:    scene.OutlineCircle,
			Position:   [3]float64{at[0], at[1] + h/2, at[2]},
			Scale:      [3]float64{1, 1, 1},
			Dimensions: &[3]float64{r, h, r},
		})
		return zygo.SexpNull, nil
	})
}
