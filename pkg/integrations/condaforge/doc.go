// Package condaforge fetches conda-forge feedstock recipes.
//
// # Overview
//
// Every conda-forge package lives in a "<name>-feedstock" repository whose
// recipe/meta.yaml declares how the package is built and tested. This
// package downloads that file as raw text:
//
//	client := condaforge.NewClient(nil, condaforge.DefaultURLTemplate, false)
//	text, err := client.FetchMeta(ctx, "numpy")
//
// The URL template contains a "{name}" placeholder. Tests and mirrors can
// point the client somewhere else by passing a different template.
//
// The returned text is Jinja2-templated YAML; see the recipe package for
// turning it into a tree.
package condaforge
