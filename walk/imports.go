package walk

import (
	"github.com/veryl-lang/veryl-sub003/depm"
	"github.com/veryl-lang/veryl-sub003/logging"
)

// ApplyImports resolves the file's import declarations and makes the imported
// symbols visible in the importing scopes.  It runs after every file has been
// declared so that imports may refer to any file.
func (w *Walker) ApplyImports() {
	for _, req := range w.imports {
		w.applyImport(req)
	}
}

func (w *Walker) applyImport(req importRequest) {
	path := req.decl.Path
	res, ok := w.resolvePath(path, scope{ns: req.ns})
	if !ok {
		return
	}

	target := res.Found
	pkg := target.ID
	if req.decl.Wildcard {
		switch target.Kind.(type) {
		case *depm.PackageProperty, *depm.ProtoPackageProperty:
			w.table.AddImportedPackage(target.InnerNamespace(), req.ns)
		default:
			w.report(logging.NewError(
				logging.InvalidImport, path.Last().Ident,
				"`%s` is a %s; only packages can be imported with `*`", target.Name(), target.Kind.KindName(),
			))
			return
		}
	} else {
		if len(res.FullPath) < 2 || !isPackage(w.table.Get(res.FullPath[len(res.FullPath)-2])) {
			w.report(logging.NewError(
				logging.InvalidImport, path.Last().Ident,
				"`%s` is not a package item", path,
			))
			return
		}

		w.table.AddImportedItem(target.ID, req.ns)
		pkg = res.FullPath[len(res.FullPath)-2]
	}

	// the importing definition depends on the imported package
	if owner, ok := ownerOf(w.table, req.ns); ok && isDagNode(owner) {
		w.table.AddDependency(owner.ID, pkg)
	}
}

func isPackage(sym *depm.Symbol) bool {
	switch sym.Kind.(type) {
	case *depm.PackageProperty, *depm.ProtoPackageProperty:
		return true
	}

	return false
}
