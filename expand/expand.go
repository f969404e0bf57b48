// Package expand runs the exec-string template language's substitution
// passes: $ARCH, $EXT_DIR, $MAP, $RAND, $HASH, $PACK_BOF, and a final
// residual {name} interpolation pass. Pass order is load-bearing: each
// pass's output is the next pass's input, and the passes are not
// commutative (a $MAP result may itself contain a {name} the final pass
// must still expand).
package expand

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/undefo/AdaptixC2/bof"
	"github.com/undefo/AdaptixC2/tokenize"
)

// Hasher is the external collaborator backing $HASH. A nil Hasher (or one
// that always reports false) leaves every $HASH occurrence untouched.
type Hasher interface {
	Hash(algo string, n int, input string) (string, bool)
}

// Randomizer is the external collaborator backing $RAND.
type Randomizer interface {
	Random(n int, set string) (string, bool)
}

// Expander carries the collaborators the passes need beyond the exec
// string itself.
type Expander struct {
	Hasher     Hasher
	Randomizer Randomizer
}

// New builds an Expander. Either collaborator may be nil; passes that
// depend on a nil collaborator leave their occurrences untouched.
func New(h Hasher, r Randomizer) *Expander {
	return &Expander{Hasher: h, Randomizer: r}
}

var (
	mapRe        = regexp.MustCompile(`\$MAP\(\s*(\w+)\s*,\s*(\w+)\s*\)`)
	randRe       = regexp.MustCompile(`\$RAND\(\s*(\d+)\s*,\s*(\w+)\s*\)`)
	hashRe       = regexp.MustCompile(`\$HASH\(\s*(\w+)\s*,\s*(\d+)\s*,\s*([^)]+)\s*\)`)
	packBofRe    = regexp.MustCompile(`\$PACK_BOF\s*\(([^)]*)\)`)
	packItemRe   = regexp.MustCompile(`(\s*([A-Z]+)\s+)?(?:\{\s*([^}]*)\s*\}|([^,\s](?:[^,]*[^,\s])?))`)
	residualRe   = regexp.MustCompile(`\{\s*([^}]*)\s*\}`)
)

// Expand runs all seven passes over execStr.
//
//   - arch is $ARCH()'s replacement.
//   - extDir is $EXT_DIR()'s replacement (empty for core commands, which
//     have no backing extension file).
//   - constants is the extension's named Constant maps, consulted by $MAP.
//   - values is the bound command's payload (jsonObj): string entries feed
//     {name} interpolation in $HASH inputs and the final residual pass;
//     any entry, of any type, feeds $PACK_BOF's {name} items.
func (e *Expander) Expand(execStr, arch, extDir string, constants map[string]map[string]string, values map[string]interface{}) string {
	out := strings.ReplaceAll(execStr, "$ARCH()", arch)
	out = strings.ReplaceAll(out, "$EXT_DIR()", extDir)
	out = e.expandMap(out, constants)
	out = e.expandRand(out)
	out = e.expandHash(out, values)
	out = e.expandPackBOF(out, values)
	out = e.expandResidual(out, values)
	return out
}

func (e *Expander) expandMap(s string, constants map[string]map[string]string) string {
	return mapRe.ReplaceAllStringFunc(s, func(m string) string {
		groups := mapRe.FindStringSubmatch(m)
		name, key := groups[1], groups[2]
		if constants == nil {
			return m
		}
		value := constants[name][key]
		if value == "" {
			return m
		}
		return value
	})
}

func (e *Expander) expandRand(s string) string {
	if e.Randomizer == nil {
		return s
	}
	return randRe.ReplaceAllStringFunc(s, func(m string) string {
		groups := randRe.FindStringSubmatch(m)
		length, _ := strconv.Atoi(groups[1])
		setName := groups[2]
		value, ok := e.Randomizer.Random(length, setName)
		if !ok || value == "" {
			return m
		}
		return value
	})
}

func (e *Expander) expandHash(s string, values map[string]interface{}) string {
	if e.Hasher == nil {
		return s
	}
	return hashRe.ReplaceAllStringFunc(s, func(m string) string {
		groups := hashRe.FindStringSubmatch(m)
		algo := groups[1]
		n, _ := strconv.Atoi(groups[2])
		input := strings.TrimSpace(groups[3])
		input = substituteParams(input, values)

		hashed, ok := e.Hasher.Hash(algo, n, input)
		if !ok || hashed == "" {
			return m
		}
		return hashed
	})
}

func (e *Expander) expandPackBOF(s string, values map[string]interface{}) string {
	return packBofRe.ReplaceAllStringFunc(s, func(m string) string {
		groups := packBofRe.FindStringSubmatch(m)
		content := groups[1]

		packer := bof.New()
		for _, item := range packItemRe.FindAllStringSubmatch(content, -1) {
			typ := item[2]
			if typ == "" {
				typ = "CSTR"
			}

			switch {
			case item[3] != "":
				paramName := item[3]
				if value, ok := values[paramName]; ok {
					packer.Pack(typ, value)
				}
			case item[4] != "":
				packer.Pack(typ, item[4])
			}
		}

		return packer.Build()
	})
}

func (e *Expander) expandResidual(s string, values map[string]interface{}) string {
	return substituteParams(s, values)
}

// substituteParams replaces every {name} occurrence whose name is a
// string-valued key of values with its serializeParam-quoted form,
// leaving anything else untouched.
func substituteParams(s string, values map[string]interface{}) string {
	return residualRe.ReplaceAllStringFunc(s, func(m string) string {
		groups := residualRe.FindStringSubmatch(m)
		name := strings.TrimSpace(groups[1])
		raw, ok := values[name]
		if !ok {
			return m
		}
		str, ok := raw.(string)
		if !ok {
			return m
		}
		return tokenize.SerializeParam(str)
	})
}
