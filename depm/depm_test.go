package depm

import (
	"errors"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/resource"
	"gotest.tools/assert"
)

type fixture struct {
	t  *testing.T
	st *SymbolTable
	b  *ast.Builder
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, st: NewSymbolTable(), b: ast.NewBuilder("src/" + t.Name() + ".veryl")}
}

func (f *fixture) ns(names ...string) Namespace {
	ids := make([]resource.StrID, len(names))
	for i, n := range names {
		ids[i] = resource.InsertStr(n)
	}

	return NewNamespace(ids...)
}

func (f *fixture) insert(name string, kind SymbolKind, ns Namespace) SymbolID {
	f.t.Helper()

	id, err := f.st.Insert(f.b.Tok(name), kind, ns, false)
	assert.NilError(f.t, err)
	return id
}

func (f *fixture) resolve(path string, ns Namespace) (*ResolveResult, error) {
	return f.st.Resolve(PathOf(f.b.Path(path)), ns)
}

func (f *fixture) mustResolve(path string, ns Namespace) *ResolveResult {
	f.t.Helper()

	res, err := f.resolve(path, ns)
	assert.NilError(f.t, err)
	return res
}

func TestNamespace(t *testing.T) {
	f := newFixture(t)

	outer := f.ns("prj", "Top")
	inner := outer.Push(resource.InsertStr("g_blk"))

	assert.Equal(t, inner.Depth(), 3)
	assert.Equal(t, outer.Depth(), 2)
	assert.Equal(t, inner.String(), "prj::Top::g_blk")
	assert.Assert(t, inner.Included(outer))
	assert.Assert(t, !outer.Included(inner))
	assert.Assert(t, !inner.Matched(outer))
	assert.Assert(t, inner.Prefix(2).Matched(outer))

	popped, last, ok := inner.Pop()
	assert.Assert(t, ok)
	assert.Equal(t, last.String(), "g_blk")
	assert.Assert(t, popped.Equal(outer))
	assert.Equal(t, popped.Key(), outer.Key())
}

func TestInsertRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	top := f.ns("prj", "Top")

	first := f.insert("a", &VariableProperty{Type: f.b.Builtin("logic")}, top)

	_, err := f.st.Insert(f.b.Tok("a"), &VariableProperty{}, top, false)
	var dup *DuplicateError
	assert.Assert(t, errors.As(err, &dup))
	assert.Equal(t, dup.Existing, first)
	assert.Equal(t, f.st.Get(first).Kind.KindName(), "variable")

	// same name in another scope is fine
	f.insert("a", &VariableProperty{}, f.ns("prj", "Other"))

	// generic instances coexist with whatever owns their name
	f.insert("__Fifo__4", &GenericInstanceProperty{Base: first}, top)
	f.insert("__Fifo__4", &GenericInstanceProperty{Base: first}, top)
}

func TestIDsAreNeverReused(t *testing.T) {
	f := newFixture(t)
	top := f.ns("prj", "Top")

	a := f.insert("a", &VariableProperty{}, top)
	f.st.Drop(f.b.Source())
	b := f.insert("a", &VariableProperty{}, top)
	f.st.Clear()
	c := f.insert("a", &VariableProperty{}, top)

	assert.Assert(t, a < b && b < c)
}

func TestResolveSearchesOutward(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	top := f.ns("prj", "Top")
	blk := f.ns("prj", "Top", "g_blk")

	f.insert("Top", &ModuleProperty{}, prj)
	outerW := f.insert("W", &ParameterProperty{Type: f.b.Builtin("u32")}, top)
	innerW := f.insert("W", &ParameterProperty{Scope: ParamLocal, Type: f.b.Builtin("u32")}, blk)

	assert.Equal(t, f.mustResolve("W", blk).Found.ID, innerW)
	assert.Equal(t, f.mustResolve("W", top).Found.ID, outerW)

	_, err := f.resolve("missing", blk)
	var re *ResolveError
	assert.Assert(t, errors.As(err, &re))
	assert.Equal(t, re.NotFound.String(), "missing")
	assert.Assert(t, re.LastFound == nil)
}

func TestGenericParameterShadowsSameScope(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	fifo := f.ns("prj", "Fifo")

	f.insert("Fifo", &ModuleProperty{}, prj)
	f.insert("N", &ParameterProperty{Type: f.b.Builtin("u32")}, prj)
	gp := f.insert("N", &GenericParameterProperty{Bound: ast.BoundConst}, fifo)

	assert.Equal(t, f.mustResolve("N", fifo).Found.ID, gp)
}

func TestImports(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	pkg := f.ns("prj", "PkgA")
	top := f.ns("prj", "Top")

	f.insert("PkgA", &PackageProperty{}, prj)
	width := f.insert("WIDTH", &ParameterProperty{Type: f.b.Builtin("u32")}, pkg)
	depth := f.insert("DEPTH", &ParameterProperty{Type: f.b.Builtin("u32")}, pkg)
	f.insert("Top", &ModuleProperty{}, prj)

	_, err := f.resolve("WIDTH", top)
	assert.Assert(t, err != nil)

	f.st.AddImportedItem(width, top)
	assert.Equal(t, f.mustResolve("WIDTH", top).Found.ID, width)
	assert.Equal(t, f.mustResolve("WIDTH", top.Push(resource.InsertStr("g"))).Found.ID, width)
	_, err = f.resolve("DEPTH", top)
	assert.Assert(t, err != nil)

	f.st.AddImportedPackage(pkg, top)
	assert.Equal(t, f.mustResolve("DEPTH", top).Found.ID, depth)

	// a local declaration wins over an import at the same level
	local := f.insert("DEPTH", &ParameterProperty{Scope: ParamLocal}, top)
	assert.Equal(t, f.mustResolve("DEPTH", top).Found.ID, local)
}

func TestMemberAccessAndSeparators(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	pkg := f.ns("prj", "pkg")

	f.insert("pkg", &PackageProperty{}, prj)
	f.insert("PointT", &StructProperty{}, pkg)
	x := f.insert("x", &StructMemberProperty{Type: f.b.Builtin("logic")}, f.ns("prj", "pkg", "PointT"))
	f.insert("Alias", &TypeDefProperty{Type: f.b.Type("PointT")}, pkg)
	foo := f.insert("Foo", &VariableProperty{Type: f.b.Type("Alias")}, pkg)

	si := f.b.Path("pkg::Foo.x")
	res, err := f.st.Resolve(PathOf(si), f.ns("prj", "Top"))
	assert.NilError(t, err)
	assert.Equal(t, res.Found.ID, x)
	assert.Equal(t, len(res.FullPath), 3)
	assert.Equal(t, res.FullPath[1], foo)
	assert.Equal(t, len(f.st.CheckSeparators(res, si.Separators)), 0)

	bad := f.b.Path("pkg::Foo::x")
	res, err = f.st.Resolve(PathOf(bad), f.ns("prj", "Top"))
	assert.NilError(t, err)
	assert.DeepEqual(t, f.st.CheckSeparators(res, bad.Separators), []int{1})

	bad = f.b.Path("pkg.Foo.x")
	res, err = f.st.Resolve(PathOf(bad), f.ns("prj", "Top"))
	assert.NilError(t, err)
	assert.DeepEqual(t, f.st.CheckSeparators(res, bad.Separators), []int{0})

	_, err = f.resolve("pkg::Foo.y", f.ns("prj", "Top"))
	var re *ResolveError
	assert.Assert(t, errors.As(err, &re))
	assert.Equal(t, re.LastFound.ID, foo)
	assert.Equal(t, re.NotFound.String(), "y")
}

func TestModportIsABoundary(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	bus := f.ns("prj", "Bus")

	f.insert("Bus", &InterfaceProperty{}, prj)
	data := f.insert("data", &VariableProperty{Type: f.b.Builtin("logic")}, bus)
	f.insert("hidden", &VariableProperty{Type: f.b.Builtin("logic")}, bus)
	f.insert("WordT", &TypeDefProperty{Type: f.b.Builtin("logic")}, bus)
	f.insert("master", &ModportProperty{Members: []ModportMember{
		{Name: resource.InsertStr("data"), Direction: ast.DirOutput},
		{Name: resource.InsertStr("WordT"), Direction: ast.DirInput},
	}}, bus)

	f.insert("Top", &ModuleProperty{}, prj)
	top := f.ns("prj", "Top")
	f.insert("port", &PortProperty{Direction: ast.DirModport, Type: f.b.Type("Bus::master")}, top)

	assert.Equal(t, f.mustResolve("port.data", top).Found.ID, data)

	_, err := f.resolve("port.hidden", top)
	assert.Assert(t, err != nil)

	_, err = f.resolve("port.WordT", top)
	assert.Assert(t, err != nil)
}

func TestInstanceMembers(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")

	f.insert("Sub", &ModuleProperty{}, prj)
	out := f.insert("o", &PortProperty{Direction: ast.DirOutput, Type: f.b.Builtin("logic")}, f.ns("prj", "Sub"))
	f.insert("Top", &ModuleProperty{}, prj)
	top := f.ns("prj", "Top")
	f.insert("u_sub", &InstanceProperty{Type: f.b.Path("Sub")}, top)

	si := f.b.Path("u_sub.o")
	res, err := f.st.Resolve(PathOf(si), top)
	assert.NilError(t, err)
	assert.Equal(t, res.Found.ID, out)
	assert.Equal(t, len(f.st.CheckSeparators(res, si.Separators)), 0)

	si = f.b.Path("u_sub::o")
	res, err = f.st.Resolve(PathOf(si), top)
	assert.NilError(t, err)
	assert.DeepEqual(t, f.st.CheckSeparators(res, si.Separators), []int{0})
}

func TestBuiltins(t *testing.T) {
	f := newFixture(t)
	top := f.ns("prj", "Top")

	res := f.mustResolve("$clog2", top)
	assert.Equal(t, res.Found.Kind.KindName(), "system function")
	assert.Assert(t, f.st.IsBuiltin(res.Found))

	res = f.mustResolve("$sv::axi_pkg::beat_t", top)
	assert.Assert(t, res.External)
	assert.Equal(t, res.Found.Name().String(), "sv")
	assert.Equal(t, len(res.FullPath), 1)

	_, err := f.resolve("$no_such_task", top)
	assert.Assert(t, err != nil)
}

func TestResolutionIsDeterministic(t *testing.T) {
	build := func() []string {
		f := newFixture(t)
		prj := f.ns("prj")
		pkg := f.ns("prj", "Pkg")
		top := f.ns("prj", "Top")

		f.insert("Pkg", &PackageProperty{}, prj)
		f.insert("T", &StructProperty{}, pkg)
		f.insert("v", &StructMemberProperty{Type: f.b.Builtin("logic")}, f.ns("prj", "Pkg", "T"))
		f.insert("Top", &ModuleProperty{}, prj)
		f.insert("s", &VariableProperty{Type: f.b.Type("Pkg::T")}, top)

		var out []string
		for _, p := range []string{"s.v", "Pkg::T", "Top", "$display"} {
			res := f.mustResolve(p, top)
			for _, id := range res.FullPath {
				sym := f.st.Get(id)
				out = append(out, sym.Namespace.String()+"::"+sym.Name().String())
			}
		}

		return out
	}

	first, second := build(), build()
	assert.Equal(t, len(pretty.Diff(first, second)), 0, strings.Join(pretty.Diff(first, second), "\n"))
}

func TestDropRemovesFileSymbols(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	other := ast.NewBuilder("src/other.veryl")

	keep, err := f.st.Insert(other.Tok("Keep"), &ModuleProperty{}, prj, true)
	assert.NilError(t, err)
	gone := f.insert("Gone", &ModuleProperty{}, prj)
	f.st.AddReference(keep, f.b.Tok("Keep"))
	f.st.AddReference(keep, other.Tok("Keep"))
	f.st.AddDependency(keep, gone)

	f.st.Drop(f.b.Source())

	_, ok := f.st.Lookup(gone)
	assert.Assert(t, !ok)
	assert.Equal(t, len(f.st.Get(keep).References), 1)
	assert.Equal(t, len(f.st.Get(keep).Dependencies), 0)

	_, err = f.resolve("Gone", prj)
	assert.Assert(t, err != nil)

	// the freed name can be defined again
	f.insert("Gone", &ModuleProperty{}, prj)
}

func TestDump(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	id := f.insert("Counter", &ModuleProperty{}, prj)
	f.st.AddReference(id, f.b.Tok("Counter"))

	dump := f.st.Dump()
	assert.Assert(t, strings.HasPrefix(dump, "SymbolTable [\n"))
	assert.Assert(t, strings.HasSuffix(dump, "]"))
	assert.Assert(t, strings.Contains(dump, "    Counter @ prj {ref: 1, import: 0}: module,\n"), dump)
	assert.Assert(t, strings.Contains(dump, "    display @ $ {ref: 0, import: 0}: system function,\n"))
}

func TestConstantFunction(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	top := f.ns("prj", "Top")

	f.insert("Top", &ModuleProperty{}, prj)
	f.insert("W", &ParameterProperty{Type: f.b.Builtin("u32")}, top)
	f.insert("r", &VariableProperty{Type: f.b.Builtin("logic")}, top)

	pure := &ast.FunctionDecl{Name: f.b.Tok("pure"), Body: []ast.Expr{f.b.Bin("+", f.b.Ref("a"), f.b.Ref("W"))}}
	pureID := f.insert("pure", &FunctionProperty{Decl: pure}, top)
	f.insert("a", &PortProperty{Direction: ast.DirInput}, f.ns("prj", "Top", "pure"))

	impure := &ast.FunctionDecl{Name: f.b.Tok("impure"), Body: []ast.Expr{f.b.Call("pure", f.b.Ref("r"))}}
	impureID := f.insert("impure", &FunctionProperty{Decl: impure}, top)

	assert.Assert(t, f.st.IsConstantFunction(pureID))
	assert.Assert(t, !f.st.IsConstantFunction(impureID))

	// cached on the symbol
	fp := f.st.Get(pureID).Kind.(*FunctionProperty)
	assert.Assert(t, fp.constant != nil && *fp.constant)
}

func TestConstantFunctionMutualRecursion(t *testing.T) {
	f := newFixture(t)
	prj := f.ns("prj")
	top := f.ns("prj", "Top")

	f.insert("Top", &ModuleProperty{}, prj)
	f.insert("W", &ParameterProperty{Type: f.b.Builtin("u32")}, top)
	f.insert("r", &VariableProperty{Type: f.b.Builtin("logic")}, top)

	// even and odd only use each other and a parameter
	even := &ast.FunctionDecl{Name: f.b.Tok("even"), Body: []ast.Expr{f.b.Call("odd", f.b.Ref("W"))}}
	evenID := f.insert("even", &FunctionProperty{Decl: even}, top)
	odd := &ast.FunctionDecl{Name: f.b.Tok("odd"), Body: []ast.Expr{f.b.Call("even")}}
	oddID := f.insert("odd", &FunctionProperty{Decl: odd}, top)

	// fa reads a variable after calling fb, which only calls fa back
	fa := &ast.FunctionDecl{Name: f.b.Tok("fa"), Body: []ast.Expr{f.b.Call("fb"), f.b.Ref("r")}}
	faID := f.insert("fa", &FunctionProperty{Decl: fa}, top)
	fb := &ast.FunctionDecl{Name: f.b.Tok("fb"), Body: []ast.Expr{f.b.Call("fa")}}
	fbID := f.insert("fb", &FunctionProperty{Decl: fb}, top)

	assert.Assert(t, f.st.IsConstantFunction(evenID))
	assert.Assert(t, f.st.IsConstantFunction(oddID))

	assert.Assert(t, !f.st.IsConstantFunction(faID))

	// fb was only visited while fa was undecided, so nothing was kept for it
	fbProp := f.st.Get(fbID).Kind.(*FunctionProperty)
	assert.Assert(t, fbProp.constant == nil || !*fbProp.constant)
	assert.Assert(t, !f.st.IsConstantFunction(fbID))
	assert.Assert(t, fbProp.constant != nil && !*fbProp.constant)
}
