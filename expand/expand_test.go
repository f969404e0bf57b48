package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand_TemplateChain(t *testing.T) {
	e := New(nil, nil)
	values := map[string]interface{}{"path": `c:\tmp\a file`}
	got := e.Expand("run {path}", "", "", nil, values)
	assert.Equal(t, `run "c:\\tmp\\a file"`, got)
}

func TestExpand_PackBofScenario(t *testing.T) {
	e := New(nil, nil)
	got := e.Expand("$PACK_BOF(INT 5, CSTR hello)", "", "", nil, map[string]interface{}{})
	assert.Equal(t, "DgAAAAUAAAAGAAAAaGVsbG8A", got)
}

func TestExpand_Arch(t *testing.T) {
	e := New(nil, nil)
	got := e.Expand("beacon.$ARCH()", "x64", "", nil, nil)
	assert.Equal(t, "beacon.x64", got)
}

func TestExpand_ExtDir(t *testing.T) {
	e := New(nil, nil)
	got := e.Expand("load $EXT_DIR()/mod.so", "", "/opt/ext", nil, nil)
	assert.Equal(t, "load /opt/ext/mod.so", got)
}

func TestExpand_MapHit(t *testing.T) {
	e := New(nil, nil)
	constants := map[string]map[string]string{"archmap": {"x64": "amd64"}}
	got := e.Expand("arch=$MAP(archmap,x64)", "", "", constants, nil)
	assert.Equal(t, "arch=amd64", got)
}

func TestExpand_MapMissLeftUntouched(t *testing.T) {
	e := New(nil, nil)
	got := e.Expand("arch=$MAP(archmap,x64)", "", "", nil, nil)
	assert.Equal(t, "arch=$MAP(archmap,x64)", got)
}

type stubRandomizer struct {
	value string
	ok    bool
}

func (s stubRandomizer) Random(n int, set string) (string, bool) { return s.value, s.ok }

func TestExpand_RandHit(t *testing.T) {
	e := New(nil, stubRandomizer{value: "AbCd1234", ok: true})
	got := e.Expand("name-$RAND(8,alphanum).exe", "", "", nil, nil)
	assert.Equal(t, "name-AbCd1234.exe", got)
}

func TestExpand_RandMissLeavesUntouched(t *testing.T) {
	e := New(nil, stubRandomizer{value: "", ok: false})
	got := e.Expand("name-$RAND(8,unknown).exe", "", "", nil, nil)
	assert.Equal(t, "name-$RAND(8,unknown).exe", got)
}

type stubHasher struct {
	value string
	ok    bool
}

func (s stubHasher) Hash(algo string, n int, input string) (string, bool) { return s.value, s.ok }

func TestExpand_HashSubstitutesParamsBeforeHashing(t *testing.T) {
	var seenInput string
	spy := &spyHasher{stub: stubHasher{value: "deadbeef", ok: true}, capture: &seenInput}
	e := New(spy, nil)
	got := e.Expand(`out=$HASH(sha256,8,{target})`, "", "", nil, map[string]interface{}{"target": "a b"})
	assert.Equal(t, "out=deadbeef", got)
	assert.Equal(t, `"a b"`, seenInput)
}

type spyHasher struct {
	stub    stubHasher
	capture *string
}

func (s *spyHasher) Hash(algo string, n int, input string) (string, bool) {
	*s.capture = input
	return s.stub.Hash(algo, n, input)
}

func TestExpand_PassOrderingMapThenResidual(t *testing.T) {
	// A $MAP result containing {name} must still be expanded by the final
	// residual pass, demonstrating the fixed, non-commutative pass order.
	e := New(nil, nil)
	constants := map[string]map[string]string{"tmpl": {"k": "hello {who}"}}
	got := e.Expand("$MAP(tmpl,k)", "", "", constants, map[string]interface{}{"who": "world"})
	assert.Equal(t, "hello world", got)
}
