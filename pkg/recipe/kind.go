package recipe

import "path/filepath"

// Kind is a category of test declaration in a recipe's test section.
type Kind string

// Fragment kinds, in the order they are extracted and written.
const (
	KindImports  Kind = "imports"
	KindRequires Kind = "requires"
	KindCommands Kind = "commands"
)

// Kinds lists every fragment kind in canonical order.
var Kinds = []Kind{KindImports, KindRequires, KindCommands}

// Fragments maps a kind to its lines. Kinds with no lines are absent.
type Fragments map[Kind][]string

// Paths maps each kind to the directory its fragment files are written to.
type Paths map[Kind]string

// PathsFor returns the standard layout under root: one sibling directory per
// kind, named after the kind.
func PathsFor(root string) Paths {
	p := make(Paths, len(Kinds))
	for _, k := range Kinds {
		p[k] = filepath.Join(root, string(k))
	}
	return p
}
