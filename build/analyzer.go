package build

import (
	"fmt"
	"time"

	"github.com/veryl-lang/veryl-sub003/ast"
	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/inst"
	"github.com/veryl-lang/veryl-sub003/logging"
	"github.com/veryl-lang/veryl-sub003/mods"
	"github.com/veryl-lang/veryl-sub003/resource"
	"github.com/veryl-lang/veryl-sub003/typedag"
	"github.com/veryl-lang/veryl-sub003/walk"
	"go.uber.org/zap"
)

// Analyzer is the data structure responsible for maintaining all state of an
// analysis session: the symbol table, the instance history and the type DAG of
// one project together with the syntax trees of its files
type Analyzer struct {
	// project is the project being analyzed
	project *mods.Project

	// projectName is the root namespace of every declaration
	projectName resource.StrID

	Symbols *depm.SymbolTable
	History *inst.History
	Dag     *typedag.TypeDag

	rep *walk.Reporter

	// files are the trees of the project in the order they were added
	files []*ast.File
}

// NewAnalyzer creates an empty session for the given project
func NewAnalyzer(prj *mods.Project) *Analyzer {
	a := &Analyzer{
		project:     prj,
		projectName: resource.InsertStr(prj.Name),
		Symbols:     depm.NewSymbolTable(),
		History:     inst.NewHistory(),
		Dag:         typedag.NewTypeDag(),
		rep:         walk.NewReporter(),
	}

	a.History.DepthLimit = prj.InstanceDepthLimit
	a.History.TotalLimit = prj.InstanceTotalLimit
	a.insertProject()

	return a
}

// insertProject defines the project's own namespace symbol, the parent of
// every top-level declaration
func (a *Analyzer) insertProject() {
	if _, ok := a.Symbols.Find(a.projectName, depm.NewNamespace()); ok {
		return
	}

	if _, err := a.Symbols.Insert(resource.BuiltinToken(a.project.Name), &depm.NamespaceKind{}, depm.NewNamespace(), true); err != nil {
		panic(fmt.Errorf("inserting project namespace: %w", err))
	}
}

// AnalyzeFiles adds files to the session, replacing any file already present
// with the same path, and analyzes the whole project again.  It returns every
// diagnostic found.
func (a *Analyzer) AnalyzeFiles(files ...*ast.File) []*logging.Diagnostic {
	for _, f := range files {
		a.setFile(f)
	}

	return a.analyze()
}

// Update replaces a single file after an edit and re-analyzes the project
func (a *Analyzer) Update(file *ast.File) []*logging.Diagnostic {
	return a.AnalyzeFiles(file)
}

// DropFile removes the file at path from the session and re-analyzes the
// remaining files
func (a *Analyzer) DropFile(path string) []*logging.Diagnostic {
	for i, f := range a.files {
		if f.Path == path {
			a.files = append(a.files[:i], a.files[i+1:]...)
			break
		}
	}

	a.Symbols.Drop(resource.InsertPath(path))
	return a.analyze()
}

func (a *Analyzer) setFile(file *ast.File) {
	for i, f := range a.files {
		if f.Path == file.Path {
			a.files[i] = file
			return
		}
	}

	a.files = append(a.files, file)
}

// Diagnostics are the diagnostics of the last analysis
func (a *Analyzer) Diagnostics() []*logging.Diagnostic {
	return a.rep.Diagnostics()
}

// analyze runs every pass over every file.  State left by the previous
// analysis is discarded first so that no partial result is ever observed.
func (a *Analyzer) analyze() []*logging.Diagnostic {
	for _, f := range a.files {
		a.Symbols.Drop(resource.InsertPath(f.Path))
	}
	a.Symbols.ResetDerived()
	a.History.Clear()
	a.Dag.Clear()
	a.rep.Clear()

	walkers := make([]*walk.Walker, len(a.files))
	for i, f := range a.files {
		walkers[i] = walk.NewWalker(a.Symbols, a.History, a.rep, a.projectName, f)
	}

	a.phase("declare", func() {
		for _, w := range walkers {
			w.Declare()
		}
	})

	// imports may refer to any file so they wait for every declaration
	a.phase("import", func() {
		for _, w := range walkers {
			w.ApplyImports()
		}
	})

	a.phase("resolve", func() {
		for _, w := range walkers {
			w.Resolve()
		}
	})

	a.phase("type-dag", func() {
		walk.CreateTypeDag(a.Symbols, a.Dag, a.rep)
	})

	diags := a.rep.Diagnostics()
	logging.Trace().Info("analysis finished",
		zap.String("project", a.project.Name),
		zap.Int("files", len(a.files)),
		zap.Int("symbols", a.Symbols.Len()),
		zap.Int("instances", a.History.Total()),
		zap.Int("diagnostics", len(diags)),
	)

	return diags
}

func (a *Analyzer) phase(name string, fn func()) {
	start := time.Now()
	fn()
	logging.Trace().Debug("phase done", zap.String("phase", name), zap.Duration("elapsed", time.Since(start)))
}

// Check analyzes the project and displays the outcome on the console.  It
// returns a boolean indicating whether or not analysis was successful.
func (a *Analyzer) Check() bool {
	logging.LogHeader(a.project.Name)

	logging.LogBeginPhase("Analyzing")
	diags := a.analyze()
	logging.LogEndPhase()

	for _, d := range diags {
		logging.LogDiagnostic(d)
	}

	logging.LogFinished()
	return logging.ShouldProceed()
}

// Clear resets the session to a fresh state
func (a *Analyzer) Clear() {
	a.Symbols.Clear()
	a.History.Clear()
	a.Dag.Clear()
	a.rep.Clear()
	a.files = nil
	a.insertProject()
}

// Dump renders one of the session tables: `symbols`, `dag` or `files`
func (a *Analyzer) Dump(table string) (string, error) {
	switch table {
	case "symbols":
		return a.Symbols.Dump(), nil
	case "dag":
		return a.Dag.Dump(), nil
	case "files":
		return a.Dag.DumpFiles(), nil
	}

	return "", fmt.Errorf("unknown table `%s`", table)
}
