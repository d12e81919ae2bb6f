package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehandley/servo/internal/diag"
	"github.com/shanehandley/servo/internal/ir"
	"github.com/shanehandley/servo/internal/parser"
	"github.com/shanehandley/servo/internal/resolver"
	"github.com/shanehandley/servo/internal/symbols"
)

// link runs parse, symbol table, resolve and link over one unit.
func link(t *testing.T, src string) (*ir.Graph, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag()
	decls := parser.ParseUnit("test.webidl", src, bag)
	require.False(t, bag.HasErrors(), "parse should be clean: %v", bag.Diagnostics())
	table := symbols.Build(decls, bag)
	require.False(t, bag.HasErrors())
	resolver.Resolve(table, decls, bag)
	require.False(t, bag.HasErrors())
	graph := Link(table, bag)
	return graph, bag
}

func memberNames(flattened []ir.FlattenedMember) []string {
	var names []string
	for _, m := range flattened {
		names = append(names, m.Member.Name)
	}
	return names
}

func findMember(t *testing.T, flattened []ir.FlattenedMember, name string) ir.FlattenedMember {
	t.Helper()
	for _, m := range flattened {
		if m.Member.Name == name {
			return m
		}
	}
	t.Fatalf("member %q not in flattened set %v", name, memberNames(flattened))
	return ir.FlattenedMember{}
}

func TestLink_MergeOrder(t *testing.T) {
	graph, bag := link(t, `
interface mixin Extras { attribute DOMString fromMixin; };
interface Widget { attribute DOMString own; };
partial interface Widget { attribute DOMString fromPartial; };
Widget includes Extras;
`)
	require.False(t, bag.HasErrors())

	node, ok := graph.Node("Widget")
	require.True(t, ok)

	// Own, then partial, then mixin.
	assert.Equal(t, []string{"own", "fromPartial", "fromMixin"}, memberNames(node.Flattened))
	assert.Equal(t, ir.OriginOwn, node.Flattened[0].Origin)
	assert.Equal(t, ir.OriginPartial, node.Flattened[1].Origin)
	assert.Equal(t, ir.OriginMixin, node.Flattened[2].Origin)
	assert.Equal(t, "Extras", node.Flattened[2].Source)
}

func TestLink_InheritedMembersAppendedLast(t *testing.T) {
	graph, bag := link(t, `
interface Node { attribute DOMString nodeName; };
interface Element : Node { attribute DOMString tagName; };
interface HTMLElement : Element { attribute DOMString title; };
`)
	require.False(t, bag.HasErrors())

	node, _ := graph.Node("HTMLElement")
	assert.Equal(t, []string{"title", "tagName", "nodeName"}, memberNames(node.Flattened),
		"ancestors merge nearest-first after own members")

	tag := findMember(t, node.Flattened, "tagName")
	assert.Equal(t, ir.OriginInherited, tag.Origin)
	assert.Equal(t, "Element", tag.Source)

	nn := findMember(t, node.Flattened, "nodeName")
	assert.Equal(t, "Node", nn.Source)
}

func TestLink_DerivedShadowsInherited(t *testing.T) {
	graph, bag := link(t, `
interface Base { attribute DOMString label; attribute long count; };
interface Derived : Base { attribute USVString label; };
`)
	require.False(t, bag.HasErrors(), "inheritance overrides silently")

	node, _ := graph.Node("Derived")
	require.Len(t, node.Flattened, 2)

	label := findMember(t, node.Flattened, "label")
	assert.Equal(t, ir.OriginOwn, label.Origin)
	assert.Equal(t, "USVString", label.Member.Type.String())
}

func TestLink_MixinShadowsInherited(t *testing.T) {
	graph, bag := link(t, `
interface mixin M { attribute long shared; };
interface Base { attribute DOMString shared; };
interface Derived : Base { };
Derived includes M;
`)
	require.False(t, bag.HasErrors(), "mixin members are own-level, so they shadow ancestors")

	node, _ := graph.Node("Derived")
	require.Len(t, node.Flattened, 1)
	assert.Equal(t, ir.OriginMixin, node.Flattened[0].Origin)
}

func TestLink_OwnPartialConflict(t *testing.T) {
	_, bag := link(t, `
interface Widget { attribute DOMString name; };
partial interface Widget { attribute DOMString name; };
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeMemberConflict, d.Code)
	assert.Contains(t, d.Message, `member "name" from partial interface Widget conflicts`)
}

func TestLink_PartialPartialConflict(t *testing.T) {
	_, bag := link(t, `
interface Widget { };
partial interface Widget { attribute DOMString x; };
partial interface Widget { attribute long x; };
`)
	require.True(t, bag.HasErrors())
	assert.Equal(t, CodeMemberConflict, bag.Diagnostics()[0].Code)
}

func TestLink_MixinMixinConflict(t *testing.T) {
	_, bag := link(t, `
interface mixin A { attribute DOMString clash; };
interface mixin B { attribute long clash; };
interface Widget { };
Widget includes A;
Widget includes B;
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeMemberConflict, d.Code)
	assert.Contains(t, d.Message, "mixin B")
	assert.Contains(t, d.Message, "mixin A")
}

func TestLink_ConflictReportedOncePerInterface(t *testing.T) {
	// The conflicting own-level merge is memoized; descendants do not
	// re-report the ancestor's conflict.
	_, bag := link(t, `
interface Base { attribute DOMString dup; };
partial interface Base { attribute DOMString dup; };
interface D1 : Base { };
interface D2 : Base { };
`)
	assert.Equal(t, 1, bag.ErrorCount())
}

func TestLink_InheritanceCycle(t *testing.T) {
	_, bag := link(t, `
interface A : B { };
interface B : C { };
interface C : A { };
`)

	require.True(t, bag.HasErrors())
	require.Equal(t, 1, bag.ErrorCount(), "one cycle, one report")
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeInheritanceCycle, d.Code)
	assert.Equal(t, "inheritance cycle: A -> B -> C -> A", d.Message)
}

func TestLink_InterfaceChainingIntoCycleExcluded(t *testing.T) {
	// D is not on the cycle, but its inherited member set is meaningless.
	graph, bag := link(t, `
interface A : B { };
interface B : C { };
interface C : A { };
interface D : A { attribute DOMString own; };
interface Clean { attribute DOMString fine; };
`)

	assert.Equal(t, 1, bag.ErrorCount())

	node, ok := graph.Node("D")
	require.True(t, ok, "poisoned interfaces keep a node for diagnostics")
	assert.Empty(t, node.Flattened)

	clean, _ := graph.Node("Clean")
	assert.Len(t, clean.Flattened, 1)
}

func TestLink_TwoIndependentCyclesEachReported(t *testing.T) {
	_, bag := link(t, `
interface A : B { };
interface B : A { };
interface X : Y { };
interface Y : X { };
`)

	require.True(t, bag.HasErrors())
	require.Equal(t, 2, bag.ErrorCount(), "separate cycles report separately")
	assert.Equal(t, "inheritance cycle: A -> B -> A", bag.Diagnostics()[0].Message)
	assert.Equal(t, "inheritance cycle: X -> Y -> X", bag.Diagnostics()[1].Message)
}

func TestLink_SelfInheritance(t *testing.T) {
	_, bag := link(t, "interface A : A { };")

	require.True(t, bag.HasErrors())
	assert.Equal(t, "inheritance cycle: A -> A", bag.Diagnostics()[0].Message)
}

func TestLink_BadParent(t *testing.T) {
	_, bag := link(t, "interface Element : Missing { };")

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeBadParent, d.Code)
	assert.Contains(t, d.Message, `inherits from undefined name "Missing"`)
}

func TestLink_ParentMustBeInterface(t *testing.T) {
	_, bag := link(t, `
enum Mode { "x" };
interface Widget : Mode { };
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeBadParent, d.Code)
	assert.Contains(t, d.Message, `inherits from enum "Mode"`)
}

func TestLink_PartialWithoutTarget(t *testing.T) {
	_, bag := link(t, "partial interface Ghost { attribute DOMString x; };")

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeMissingMergeTarget, d.Code)
	assert.Contains(t, d.Message, `partial interface "Ghost" has no non-partial definition`)
}

func TestLink_PartialTargetingNonInterface(t *testing.T) {
	_, bag := link(t, `
enum Mode { "x" };
partial interface Mode { };
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeMissingMergeTarget, d.Code)
	assert.Contains(t, d.Message, `targets enum "Mode"`)
}

func TestLink_IncludesUndefinedTarget(t *testing.T) {
	_, bag := link(t, `
interface mixin M { };
Ghost includes M;
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeMissingMergeTarget, d.Code)
	assert.Contains(t, d.Message, `undefined interface "Ghost"`)
}

func TestLink_IncludesUndefinedMixin(t *testing.T) {
	_, bag := link(t, `
interface Window { };
Window includes Ghost;
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeBadMixin, d.Code)
	assert.Contains(t, d.Message, `undefined mixin "Ghost"`)
}

func TestLink_IncludesNonMixin(t *testing.T) {
	_, bag := link(t, `
interface Window { };
interface NotAMixin { };
Window includes NotAMixin;
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeBadMixin, d.Code)
	assert.Contains(t, d.Message, "not a mixin")
}

func TestLink_ExtAttrsAccumulateFromPartials(t *testing.T) {
	graph, bag := link(t, `
[Exposed=Window] interface Widget { };
[SecureContext] partial interface Widget { };
`)
	require.False(t, bag.HasErrors())

	node, _ := graph.Node("Widget")
	require.Len(t, node.ExtAttrs, 2)
	assert.Equal(t, "Exposed", node.ExtAttrs[0].Name)
	assert.Equal(t, "SecureContext", node.ExtAttrs[1].Name)
}

func TestLink_DictionaryAncestorFirst(t *testing.T) {
	graph, bag := link(t, `
dictionary EventInit { boolean bubbles = false; };
dictionary UIEventInit : EventInit { long detail = 0; };
dictionary MouseEventInit : UIEventInit { long screenX = 0; };
`)
	require.False(t, bag.HasErrors())

	fields := graph.Dictionaries["MouseEventInit"]
	require.Len(t, fields, 3)
	// Root ancestor first, derived fields appended.
	assert.Equal(t, "bubbles", fields[0].Name)
	assert.Equal(t, "detail", fields[1].Name)
	assert.Equal(t, "screenX", fields[2].Name)
}

func TestLink_DictionaryDuplicateFieldIsConflict(t *testing.T) {
	// Unlike interfaces, dictionary fields never shadow.
	_, bag := link(t, `
dictionary Base { boolean flag = false; };
dictionary Derived : Base { boolean flag = true; };
`)

	require.True(t, bag.HasErrors())
	d := bag.Diagnostics()[0]
	assert.Equal(t, CodeMemberConflict, d.Code)
	assert.Contains(t, d.Message, `field "flag" in "Derived" conflicts`)
}

func TestLink_DictionaryCycle(t *testing.T) {
	_, bag := link(t, `
dictionary A : B { };
dictionary B : A { };
`)

	require.True(t, bag.HasErrors())
	require.Equal(t, 1, bag.ErrorCount())
	assert.Equal(t, "dictionary inheritance cycle: A -> B -> A", bag.Diagnostics()[0].Message)
}

func TestLink_DictionaryBadParent(t *testing.T) {
	_, bag := link(t, `
interface NotADict { };
dictionary D : NotADict { };
`)

	require.True(t, bag.HasErrors())
	assert.Equal(t, CodeBadParent, bag.Diagnostics()[0].Code)
}

func TestDetectCycle_NoCycle(t *testing.T) {
	parents := map[string]string{"C": "B", "B": "A"}
	assert.Nil(t, detectCycle("C", parents))
}

func TestDetectCycle_ChainFormat(t *testing.T) {
	parents := map[string]string{"A": "B", "B": "C", "C": "A"}
	assert.Equal(t, []string{"A", "B", "C", "A"}, detectCycle("A", parents))
	assert.Equal(t, []string{"B", "C", "A", "B"}, detectCycle("B", parents))
}

func TestDetectCycle_EntryOutsideCycle(t *testing.T) {
	// D hangs off the cycle; the chain starts at the first repeated name.
	parents := map[string]string{"D": "A", "A": "B", "B": "A"}
	assert.Equal(t, []string{"A", "B", "A"}, detectCycle("D", parents))
}
