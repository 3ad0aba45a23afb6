// Package pkg provides the libraries behind recipegen.
//
// # Overview
//
// Recipegen reads a Dockerfile, finds the Python packages it installs with
// $PIP_INSTALL, and dumps the test section of each package's conda-forge
// recipe as flat files a test runner can consume. The pkg directory holds:
//
//  1. [dockerfile] - Candidate package names from install sections
//  2. [integrations] - HTTP client and the conda-forge feedstock client
//  3. [recipe] - Jinja2 neutralization, YAML parsing, fragment extraction and writing
//  4. [pipeline] - Orchestration (scan → fetch → normalize → extract → write)
//  5. [config] - TOML, .env and environment configuration
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
//	Dockerfile
//	     ↓
//	[dockerfile] Scanner (candidate names, in order)
//	     ↓
//	[integrations/condaforge] FetchMeta (meta.yaml text)
//	     ↓
//	[recipe] Normalize → Extract → Writer
//	     ↓
//	recipes/{imports,requires,commands}/<name>
//
// Every package is processed on its own: a failed fetch or a malformed recipe
// is reported for that package and the run continues with the next name.
//
// # Quick Start
//
//	cfg := config.Default()
//	runner, err := pipeline.NewFromConfig(cfg, os.Stdout, log.Default())
//	if err != nil {
//	    return err
//	}
//	report, err := runner.Run(ctx, "Dockerfile")
//
// [dockerfile]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/dockerfile
// [integrations]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/integrations
// [integrations/condaforge]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/integrations/condaforge
// [recipe]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/recipe
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/recipegen/pkg/buildinfo
package pkg
