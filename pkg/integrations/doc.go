// Package integrations provides HTTP clients for upstream packaging metadata.
//
// # Overview
//
// The [Client] type holds the shared HTTP plumbing: default headers, status
// checking and [observability] hooks. Source-specific clients embed it:
//
//   - [condaforge]: conda-forge feedstock recipes (meta.yaml)
//
// # Errors
//
// Every failure wraps one of two sentinels so callers can tell them apart
// with errors.Is:
//
//   - [ErrNotFound]: the upstream answered 404
//   - [ErrNetwork]: transport failure or any other non-200 status
//
// Requests are made once. There is no retry and no response cache; a failed
// fetch is reported to the caller as-is.
//
// [condaforge]: github.com/matzehuels/recipegen/pkg/integrations/condaforge
package integrations
