package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/parser"
)

func build(t *testing.T, src string) (*Table, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag()
	decls := parser.ParseUnit("test.webidl", src, bag)
	require.False(t, bag.HasErrors(), "parse should be clean: %v", bag.Diagnostics())
	table := Build(decls, bag)
	return table, bag
}

func TestBuild_RegistersAllKinds(t *testing.T) {
	table, bag := build(t, `
interface Node { };
interface mixin Slottable { };
dictionary EventInit { };
enum Mode { "open" };
callback Handler = undefined ();
typedef DOMString CSSOMString;
`)
	require.False(t, bag.HasErrors())

	for _, name := range []string{"Node", "Slottable", "EventInit", "Mode", "Handler", "CSSOMString"} {
		_, ok := table.Lookup(name)
		assert.True(t, ok, "expected %q to be registered", name)
	}
	_, ok := table.Lookup("Absent")
	assert.False(t, ok)
}

func TestBuild_DeclarationOrderPreserved(t *testing.T) {
	table, _ := build(t, `
interface B { };
interface A { };
enum C { "x" };
`)

	decls := table.Declarations()
	require.Len(t, decls, 3)
	assert.Equal(t, "B", decls[0].Name)
	assert.Equal(t, "A", decls[1].Name)
	assert.Equal(t, "C", decls[2].Name)
}

func TestBuild_DuplicateDefinition(t *testing.T) {
	table, bag := build(t, `
interface Node { attribute DOMString first; };
interface Node { attribute DOMString second; };
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeDuplicateDefinition, d.Code)
	assert.Contains(t, d.Message, `duplicate definition of "Node"`)

	// First registration wins.
	decl, ok := table.Lookup("Node")
	require.True(t, ok)
	assert.Equal(t, "first", decl.Members[0].Name)
}

func TestBuild_DuplicateAcrossKinds(t *testing.T) {
	_, bag := build(t, `
interface Mode { };
enum Mode { "x" };
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Contains(t, d.Message, "as enum")
	assert.Contains(t, d.Message, "already defined as interface")
}

func TestBuild_EachDuplicateReported(t *testing.T) {
	_, bag := build(t, `
interface X { };
interface X { };
interface X { };
`)
	assert.Equal(t, 2, bag.ErrorCount())
}

func TestBuild_PartialsDoNotRegister(t *testing.T) {
	table, bag := build(t, `
interface Window { };
partial interface Window { attribute DOMString name; };
partial interface Window { attribute DOMString status; };
`)
	require.False(t, bag.HasErrors(), "partials never collide with their target")

	decl, ok := table.Lookup("Window")
	require.True(t, ok)
	assert.False(t, decl.Partial)

	frags := table.Partials("Window")
	require.Len(t, frags, 2)
	assert.Equal(t, "name", frags[0].Members[0].Name)
	assert.Equal(t, "status", frags[1].Members[0].Name)

	assert.Equal(t, []string{"Window"}, table.PartialTargets())
}

func TestBuild_IncludesRecordedAsDirectives(t *testing.T) {
	table, bag := build(t, `
interface Window { };
interface mixin GlobalEventHandlers { };
interface mixin WindowEventHandlers { };
Window includes GlobalEventHandlers;
Window includes WindowEventHandlers;
`)
	require.False(t, bag.HasErrors())

	incs := table.Includes("Window")
	require.Len(t, incs, 2)
	assert.Equal(t, "GlobalEventHandlers", incs[0].IncludesMixin)
	assert.Equal(t, "WindowEventHandlers", incs[1].IncludesMixin)

	assert.Equal(t, []string{"Window"}, table.IncludesTargets())
}

func TestBuild_TargetOrdersAreFirstEncounter(t *testing.T) {
	table, _ := build(t, `
interface A { };
interface B { };
interface mixin M { };
partial interface B { };
partial interface A { };
partial interface B { };
B includes M;
A includes M;
`)

	assert.Equal(t, []string{"B", "A"}, table.PartialTargets())
	assert.Equal(t, []string{"B", "A"}, table.IncludesTargets())
}

func TestBuild_DirectivesForUnknownTargetsStillRecorded(t *testing.T) {
	// Missing targets are the linker's problem, not the table's.
	bag := diag.NewBag()
	decls := parser.ParseUnit("test.webidl", "partial interface Ghost { };\nGhost includes Phantom;", bag)
	table := Build(decls, bag)

	assert.False(t, bag.HasErrors())
	assert.Len(t, table.Partials("Ghost"), 1)
	assert.Len(t, table.Includes("Ghost"), 1)
	assert.Equal(t, ir.DeclIncludes, table.Includes("Ghost")[0].Kind)
}
