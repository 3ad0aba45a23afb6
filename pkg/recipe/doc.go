// Package recipe turns conda-forge meta.yaml text into test fragment files.
//
// # Normalizing
//
// Feedstock recipes are YAML wrapped in Jinja2. [Normalize] does not render
// the template; it neutralizes it well enough for a YAML parser:
//
//  1. Every "{%" statement gets a "# " in front of it, so statement lines
//     become YAML comments.
//  2. Brace regions are replaced by the scalar PLACEHOLDER. In [BraceLine]
//     mode the region runs from the first "{" to the last "}" on a line; in
//     [BraceDocument] mode it runs from the first "{" to the last "}" of the
//     whole text.
//  3. The result is parsed with gopkg.in/yaml.v3.
//
// Both steps are heuristics. A line holding two interpolations with plain
// text between them loses that text, and document mode keeps almost nothing
// of a typical recipe.
//
// [BraceLine] is the default. It behaves like the Python re.sub(r"{.*}")
// long used to pre-process these recipes, whose "." never crosses a newline.
// [BraceDocument] is the literal reading of collapsing from the first "{" to
// the last "}" of the whole text, for callers that want exactly that.
//
// # Extracting
//
// [Extract] reads the test section of the parsed tree and returns the
// non-empty entries among imports, requires and commands as [Fragments].
// Some packages build several outputs from one recipe; for those the
// [Variants] table names the output whose test section is used instead.
//
// # Writing
//
// [Writer] stores each fragment kind under its own directory:
//
//	recipes/imports/numpy
//	recipes/commands/numpy
//
// Each file holds the fragment's lines joined with "\n" and is rewritten in
// full on every run.
package recipe
