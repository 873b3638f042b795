package walk

import (
	"strings"
	"testing"

	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/inst"
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/resource"
	"github.com/veryl-lang/veryl-sub003/typedag"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

type session struct {
	t       *testing.T
	table   *depm.SymbolTable
	history *inst.History
	rep     *Reporter
	dag     *typedag.TypeDag
	project resource.StrID
}

func newSession(t *testing.T) *session {
	return &session{
		t:       t,
		table:   depm.NewSymbolTable(),
		history: inst.NewHistory(),
		rep:     NewReporter(),
		dag:     typedag.NewTypeDag(),
		project: resource.InsertStr("prj"),
	}
}

func (s *session) analyze(files ...*ast.File) []*logging.Diagnostic {
	walkers := make([]*Walker, len(files))
	for i, f := range files {
		walkers[i] = NewWalker(s.table, s.history, s.rep, s.project, f)
		walkers[i].Declare()
	}
	for _, w := range walkers {
		w.ApplyImports()
	}
	for _, w := range walkers {
		w.Resolve()
	}

	CreateTypeDag(s.table, s.dag, s.rep)
	return s.rep.Diagnostics()
}

func (s *session) find(path ...string) *depm.Symbol {
	s.t.Helper()

	ids := []resource.StrID{s.project}
	for _, p := range path {
		ids = append(ids, resource.InsertStr(p))
	}

	ns := depm.NewNamespace(ids[:len(ids)-1]...)
	sym, ok := s.table.Find(ids[len(ids)-1], ns)
	assert.Assert(s.t, ok, "%s not found", strings.Join(path, "::"))
	return sym
}

func codes(diags []*logging.Diagnostic) []logging.Code {
	cs := make([]logging.Code, len(diags))
	for i, d := range diags {
		cs[i] = d.Code
	}

	return cs
}

func constParam(b *ast.Builder, name string) *ast.GenericParam {
	return &ast.GenericParam{Name: b.Tok(name), Bound: ast.BoundConst, Type: b.Builtin("u32")}
}

func module(b *ast.Builder, name string, generics []*ast.GenericParam, body ...ast.Decl) *ast.ModuleDecl {
	return &ast.ModuleDecl{Name: b.Tok(name), GenericParams: generics, Body: body}
}

func TestDuplicateIdentifier(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/dup.veryl")

	first := b.Tok("a")
	second := b.Tok("a")
	diags := s.analyze(b.File(module(b, "Top", nil,
		&ast.VarDecl{Name: first, Type: b.Builtin("logic")},
		&ast.VarDecl{Name: second, Type: b.Builtin("logic")},
	)))

	assert.DeepEqual(t, codes(diags), []logging.Code{logging.DuplicatedIdentifier})
	assert.Equal(t, diags[0].Token.ID, second.ID)
	assert.Equal(t, diags[0].Message, "`a` is already defined in `prj::Top`")

	// the first declaration wins
	assert.Equal(t, s.find("Top", "a").Token.ID, first.ID)
}

func TestUndefinedIdentifier(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/undef.veryl")

	diags := s.analyze(b.File(module(b, "Top", nil,
		&ast.VarDecl{Name: b.Tok("a"), Type: b.Builtin("logic")},
		&ast.AssignDecl{Target: b.Path("a"), Value: b.Ref("missing")},
	)))

	assert.DeepEqual(t, codes(diags), []logging.Code{logging.UndefinedIdentifier})
	assert.Equal(t, diags[0].Message, "`missing` is not found")
	assert.Equal(t, len(s.find("Top", "a").References), 1)
}

func TestWrongSeparator(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/sep.veryl")

	pkg := &ast.PackageDecl{Name: b.Tok("pkg"), Body: []ast.Decl{
		&ast.StructDecl{Name: b.Tok("Point"), Members: []*ast.MemberDecl{
			{Name: b.Tok("x"), Type: b.Builtin("logic")},
			{Name: b.Tok("y"), Type: b.Builtin("logic")},
		}},
	}}
	bad := b.Path("s::y")
	top := module(b, "Top", nil,
		&ast.VarDecl{Name: b.Tok("s"), Type: b.Type("pkg::Point")},
		&ast.AssignDecl{Target: b.Path("s.x"), Value: b.Num(1)},
		&ast.AssignDecl{Target: bad, Value: b.Num(0)},
	)

	diags := s.analyze(b.File(pkg, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.WrongSeparator})
	assert.Equal(t, diags[0].Token.ID, bad.Segments[1].Ident.ID)
	assert.Equal(t, diags[0].Message, "`y` must be accessed with `.`")
}

func TestImports(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/imports.veryl")

	pkg := &ast.PackageDecl{Name: b.Tok("pkg"), Body: []ast.Decl{
		&ast.ParamDecl{Name: b.Tok("WIDTH"), Local: true, Type: b.Builtin("u32"), Value: b.Num(8)},
		&ast.TypeDefDecl{Name: b.Tok("word_t"), Type: b.Builtin("logic", b.Ref("WIDTH"))},
	}}
	other := module(b, "Other", nil)
	top := module(b, "Top", nil,
		&ast.ImportDecl{Path: b.Path("pkg"), Wildcard: true},
		&ast.ImportDecl{Path: b.Path("Other"), Wildcard: true},
		&ast.VarDecl{Name: b.Tok("w"), Type: b.Type("word_t")},
	)

	diags := s.analyze(b.File(pkg, other, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.InvalidImport})
	assert.Equal(t, diags[0].Message, "`Other` is a module; only packages can be imported with `*`")

	// Top depends on the package it imports
	topSym := s.find("Top")
	assert.Assert(t, is.Contains(topSym.Dependencies, s.find("pkg").ID))
	assert.Assert(t, is.Contains(topSym.Dependencies, s.find("pkg", "word_t").ID))
}

func TestSingleImportMustNameAPackageItem(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/single.veryl")

	a := module(b, "A", nil, &ast.VarDecl{Name: b.Tok("v"), Type: b.Builtin("logic")})
	top := module(b, "Top", nil, &ast.ImportDecl{Path: b.Path("A::v")})

	diags := s.analyze(b.File(a, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.InvalidImport})
}

func TestMismatchType(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/mismatch.veryl")

	sub := module(b, "Sub", nil)
	top := module(b, "Top", nil,
		&ast.VarDecl{Name: b.Tok("v"), Type: b.Type("Sub")},
		&ast.StructDecl{Name: b.Tok("S")},
		&ast.InstDecl{Name: b.Tok("u"), Type: b.Path("S")},
	)

	diags := s.analyze(b.File(sub, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.MismatchType, logging.MismatchType})
	assert.Equal(t, diags[0].Message, "`Sub` is a module, not a type")
	assert.Equal(t, diags[1].Message, "`S` is a struct, not a module or interface")
}

func TestInstanceConnections(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/connect.veryl")

	sub := &ast.ModuleDecl{
		Name:   b.Tok("Sub"),
		Params: []*ast.ParamDecl{{Name: b.Tok("W"), Type: b.Builtin("u32"), Value: b.Num(1)}},
		Ports:  []*ast.PortDecl{{Name: b.Tok("i"), Direction: ast.DirInput, Type: b.Builtin("logic")}},
	}
	top := module(b, "Top", nil,
		&ast.VarDecl{Name: b.Tok("a"), Type: b.Builtin("logic")},
		&ast.InstDecl{
			Name:   b.Tok("u"),
			Type:   b.Path("Sub"),
			Params: []*ast.InstParam{{Name: b.Tok("W"), Value: b.Num(4)}, {Name: b.Tok("X"), Value: b.Num(1)}},
			Ports:  []*ast.InstPort{{Name: b.Tok("i"), Expr: b.Ref("a")}, {Name: b.Tok("o"), Expr: b.Ref("a")}},
		},
	)

	diags := s.analyze(b.File(sub, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.UndefinedIdentifier, logging.UndefinedIdentifier})
	assert.Equal(t, diags[0].Message, "`X` is not a parameter of `Sub`")
	assert.Equal(t, diags[1].Message, "`o` is not a port of `Sub`")
	assert.Equal(t, len(s.find("Sub", "W").References), 1)
}

func TestModportMembers(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/modport.veryl")

	bus := &ast.InterfaceDecl{Name: b.Tok("Bus"), Body: []ast.Decl{
		&ast.VarDecl{Name: b.Tok("data"), Type: b.Builtin("logic")},
		&ast.TypeDefDecl{Name: b.Tok("word_t"), Type: b.Builtin("logic")},
		&ast.ModportDecl{Name: b.Tok("master"), Items: []*ast.ModportItem{
			{Name: b.Tok("data"), Direction: ast.DirOutput},
			{Name: b.Tok("word_t"), Direction: ast.DirInput},
			{Name: b.Tok("nothing"), Direction: ast.DirInput},
		}},
	}}

	diags := s.analyze(b.File(bus))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.MismatchType, logging.UndefinedIdentifier})
}

func TestSelfContainingStruct(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/point.veryl")

	point := &ast.StructDecl{Name: b.Tok("PointT"), Members: []*ast.MemberDecl{
		{Name: b.Tok("x"), Type: b.Builtin("logic")},
		{Name: b.Tok("next"), Type: b.Type("PointT")},
	}}

	diags := s.analyze(b.File(&ast.PackageDecl{Name: b.Tok("pkg"), Body: []ast.Decl{point}}))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.CyclicTypeDependency})
	assert.Equal(t, diags[0].Message, "`PointT` refers to itself")
	assert.Equal(t, diags[0].Token.ID, point.Name.ID)
}

func TestMutuallyDependentStructs(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/mutual.veryl")

	pkg := &ast.PackageDecl{Name: b.Tok("pkg"), Body: []ast.Decl{
		&ast.StructDecl{Name: b.Tok("A"), Members: []*ast.MemberDecl{{Name: b.Tok("b"), Type: b.Type("B")}}},
		&ast.StructDecl{Name: b.Tok("B"), Members: []*ast.MemberDecl{{Name: b.Tok("a"), Type: b.Type("A")}}},
	}}

	diags := s.analyze(b.File(pkg))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.CyclicTypeDependency})
	assert.Equal(t, diags[0].Message, "`A` and `B` depend on each other")
}

func TestRecursiveModuleIsNotACycle(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/rec.veryl")

	diags := s.analyze(b.File(module(b, "Top", nil,
		&ast.InstDecl{Name: b.Tok("u"), Type: b.Path("Top")},
	)))
	assert.Equal(t, len(diags), 0)
}

func TestDagOrder(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/order.veryl")

	pkg := &ast.PackageDecl{Name: b.Tok("pkg"), Body: []ast.Decl{
		&ast.StructDecl{Name: b.Tok("S"), Members: []*ast.MemberDecl{{Name: b.Tok("x"), Type: b.Builtin("logic")}}},
	}}
	top := module(b, "Top", nil, &ast.VarDecl{Name: b.Tok("s"), Type: b.Type("pkg::S")})

	diags := s.analyze(b.File(pkg, top))
	assert.Equal(t, len(diags), 0)

	var order []string
	for _, n := range s.dag.Toposort() {
		order = append(order, n.Name)
	}
	assert.DeepEqual(t, order, []string{"pkg", "S", "Top"})

	pkgNode, _ := s.dag.NodeOf(s.find("pkg").ID)
	sNode, _ := s.dag.NodeOf(s.find("pkg", "S").ID)
	assert.Assert(t, s.dag.IsOwned(pkgNode, sNode))
}

func TestInfiniteGenericRecursion(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/fifo.veryl")

	inner := b.Path("Fifo", b.Ref("N"))
	fifo := module(b, "Fifo", []*ast.GenericParam{constParam(b, "N")},
		&ast.InstDecl{Name: b.Tok("f"), Type: inner},
	)
	top := module(b, "Top", nil, &ast.InstDecl{Name: b.Tok("f"), Type: b.Path("Fifo", b.Num(4))})

	diags := s.analyze(b.File(fifo, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.InfiniteRecursion})
	assert.Equal(t, diags[0].Token.ID, inner.Segments[0].Ident.ID)
	assert.Equal(t, s.history.Depth(), 0)
}

func TestShrinkingRecursionTerminates(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/tree.veryl")

	tree := module(b, "Tree", []*ast.GenericParam{constParam(b, "N")},
		&ast.IfDecl{
			Name: b.Tok("g_child"),
			Cond: b.Bin(">", b.Ref("N"), b.Num(0)),
			Then: []ast.Decl{
				&ast.InstDecl{Name: b.Tok("t"), Type: b.Path("Tree", b.Bin("-", b.Ref("N"), b.Num(1)))},
			},
		},
	)
	top := module(b, "Top", nil, &ast.InstDecl{Name: b.Tok("t"), Type: b.Path("Tree", b.Num(3))})

	diags := s.analyze(b.File(tree, top))
	assert.Equal(t, len(diags), 0)

	for _, name := range []string{"__Tree__3", "__Tree__2", "__Tree__1", "__Tree__0", "__Tree__?"} {
		sym := s.find(name)
		gi := sym.Kind.(*depm.GenericInstanceProperty)
		assert.Equal(t, gi.Base, s.find("Tree").ID)
	}
	assert.Equal(t, len(s.find("Tree").GenericInstances), 5)
}

func TestElaborationIsMemoized(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/memo.veryl")

	fifo := module(b, "Fifo", []*ast.GenericParam{constParam(b, "DEPTH")},
		&ast.VarDecl{Name: b.Tok("mem"), Type: b.Builtin("logic", b.Ref("DEPTH"))},
	)
	top := module(b, "Top", nil,
		&ast.InstDecl{Name: b.Tok("a"), Type: b.Path("Fifo", b.Num(4))},
		&ast.InstDecl{Name: b.Tok("b"), Type: b.Path("Fifo", b.Bin("*", b.Num(2), b.Num(2)))},
		&ast.InstDecl{Name: b.Tok("c"), Type: b.Path("Fifo", b.Num(8))},
	)

	diags := s.analyze(b.File(fifo, top))
	assert.Equal(t, len(diags), 0)
	assert.Equal(t, s.history.Total(), 2)
	assert.Equal(t, len(s.find("__Fifo__4").References), 2)
	assert.Equal(t, len(s.find("Fifo").GenericInstances), 2)
}

func TestDepthLimit(t *testing.T) {
	s := newSession(t)
	s.history.DepthLimit = 3
	b := ast.NewBuilder("src/deep.veryl")

	chain := module(b, "Chain", []*ast.GenericParam{constParam(b, "N")},
		&ast.IfDecl{
			Name: b.Tok("g"),
			Cond: b.Bin(">", b.Ref("N"), b.Num(0)),
			Then: []ast.Decl{
				&ast.InstDecl{Name: b.Tok("c"), Type: b.Path("Chain", b.Bin("-", b.Ref("N"), b.Num(1)))},
			},
		},
	)
	top := module(b, "Top", nil, &ast.InstDecl{Name: b.Tok("c"), Type: b.Path("Chain", b.Num(10))})

	diags := s.analyze(b.File(chain, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.ExceedDepthLimit})
}

func TestTotalLimit(t *testing.T) {
	s := newSession(t)
	s.history.TotalLimit = 2
	b := ast.NewBuilder("src/total.veryl")

	fifo := module(b, "Fifo", []*ast.GenericParam{constParam(b, "N")})
	top := module(b, "Top", nil,
		&ast.InstDecl{Name: b.Tok("a"), Type: b.Path("Fifo", b.Num(1))},
		&ast.InstDecl{Name: b.Tok("b"), Type: b.Path("Fifo", b.Num(2))},
		&ast.InstDecl{Name: b.Tok("c"), Type: b.Path("Fifo", b.Num(3))},
	)

	diags := s.analyze(b.File(fifo, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.ExceedTotalLimit})
}

func TestGenericArguments(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/args.veryl")

	fifo := module(b, "Fifo", []*ast.GenericParam{constParam(b, "N")})
	typed := module(b, "Typed", []*ast.GenericParam{
		{Name: b.Tok("T"), Bound: ast.BoundType},
		{Name: b.Tok("W"), Bound: ast.BoundConst, Type: b.Builtin("u32"), Default: b.Num(8)},
	})
	top := module(b, "Top", nil,
		&ast.VarDecl{Name: b.Tok("v"), Type: b.Builtin("logic")},
		&ast.StructDecl{Name: b.Tok("S")},
		&ast.InstDecl{Name: b.Tok("a"), Type: b.Path("Fifo", b.Ref("v"))},
		&ast.InstDecl{Name: b.Tok("b"), Type: b.Path("Fifo", b.Num(1), b.Num(2))},
		&ast.InstDecl{Name: b.Tok("c"), Type: b.Path("Typed", b.Ref("S"))},
		&ast.InstDecl{Name: b.Tok("d"), Type: b.Path("Typed", b.Num(3))},
		&ast.InstDecl{Name: b.Tok("e"), Type: b.Path("Typed")},
	)

	diags := s.analyze(b.File(fifo, typed, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{
		logging.InvalidGenericArgument,
		logging.MismatchGenericsArity,
		logging.InvalidGenericArgument,
	})

	// the default fills the missing argument
	s.find("__Typed__S__8")
}

func TestNonConstantFunctionArgument(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/func.veryl")

	fifo := module(b, "Fifo", []*ast.GenericParam{constParam(b, "N")})
	top := module(b, "Top", nil,
		&ast.VarDecl{Name: b.Tok("v"), Type: b.Builtin("logic")},
		&ast.FunctionDecl{Name: b.Tok("pure"), Return: b.Builtin("u32"), Body: []ast.Expr{b.Num(1)}},
		&ast.FunctionDecl{Name: b.Tok("impure"), Return: b.Builtin("u32"), Body: []ast.Expr{b.Ref("v")}},
		&ast.InstDecl{Name: b.Tok("a"), Type: b.Path("Fifo", b.Call("pure"))},
		&ast.InstDecl{Name: b.Tok("b"), Type: b.Path("Fifo", b.Call("impure"))},
	)

	diags := s.analyze(b.File(fifo, top))
	assert.DeepEqual(t, codes(diags), []logging.Code{logging.InvalidGenericArgument})
	assert.Equal(t, diags[0].Message, "`impure` can not be evaluated as a constant")
}

func TestBuiltinsAreExternal(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/sv.veryl")

	diags := s.analyze(b.File(module(b, "Top", nil,
		&ast.VarDecl{Name: b.Tok("a"), Type: b.Type("$sv::pkg::word_t")},
		&ast.AssignDecl{Target: b.Path("a"), Value: b.Call("$clog2", b.Num(8))},
	)))
	assert.Equal(t, len(diags), 0)
}

func TestElseBranchHasItsOwnScope(t *testing.T) {
	s := newSession(t)
	b := ast.NewBuilder("src/else.veryl")

	diags := s.analyze(b.File(module(b, "Top", nil,
		&ast.IfDecl{
			Name: b.Tok("g"),
			Cond: b.Num(1),
			Then: []ast.Decl{&ast.VarDecl{Name: b.Tok("x"), Type: b.Builtin("logic")}},
			Else: []ast.Decl{&ast.VarDecl{Name: b.Tok("x"), Type: b.Builtin("logic")}},
		},
	)))
	assert.Equal(t, len(diags), 0)
	s.find("Top", "g", "x")
	s.find("Top", "g#else", "x")
}
