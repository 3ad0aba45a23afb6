// Package pipeline runs the build file → fragment files pipeline.
//
// # Architecture
//
// For every candidate name found in a build file the [Runner] executes four
// stages, one package at a time:
//
//  1. Fetch: download the feedstock meta.yaml
//  2. Normalize: neutralize Jinja2 and parse the YAML
//  3. Extract: pick the test fragments out of the tree
//  4. Write: store each fragment kind as a file
//
// A failure in any stage is reported for that package and the runner moves
// on to the next name. Only an unreadable build file stops the run.
//
// # Output
//
// Each attempted package produces exactly one line on the runner's output:
//
//	dumped: numpy
//	ERROR: Could not load meta for nosuchpkg: FETCH_FAILED: error https://...: resource not found: status 404
//
// Diagnostics go to the logger, never to the output writer.
//
// # Usage
//
//	runner, err := pipeline.NewFromConfig(cfg, os.Stdout, logger)
//	if err != nil {
//	    return err
//	}
//	report, err := runner.Run(ctx, "Dockerfile")
package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recipegen/pkg/config"
	"github.com/matzehuels/recipegen/pkg/dockerfile"
	"github.com/matzehuels/recipegen/pkg/integrations"
	"github.com/matzehuels/recipegen/pkg/integrations/condaforge"
	"github.com/matzehuels/recipegen/pkg/recipe"
)

// Options configures a [Runner]. Zero fields get defaults in [NewRunner].
type Options struct {
	Scanner   *dockerfile.Scanner // default: dockerfile.NewScanner(nil, nil)
	BraceMode recipe.BraceMode    // default: recipe.BraceLine
	Out       io.Writer           // default: os.Stdout
	Logger    *log.Logger         // default: log.Default()
}

// Result is the outcome of one candidate package.
type Result struct {
	Name     string
	Files    []string // fragment files written, in kind order
	Err      error
	Duration time.Duration
}

// Report collects the results of a run in candidate order.
type Report struct {
	Path    string
	Results []Result
}

// Succeeded returns the number of packages that were dumped.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of packages that reported an error.
func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Files returns the total number of fragment files written.
func (r *Report) Files() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Files)
	}
	return n
}

// NewFromConfig wires a Runner from a validated configuration: a scanner for
// the configured markers, a conda-forge client for the URL template, and a
// writer rooted at the output directory.
func NewFromConfig(cfg *config.Config, out io.Writer, logger *log.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout, err := cfg.HTTPTimeout()
	if err != nil {
		return nil, err
	}

	fetcher := condaforge.NewClient(
		integrations.NewHTTPClient(timeout),
		cfg.Fetch.URLTemplate,
		cfg.Fetch.NormalizeNames,
	)
	writer := recipe.NewWriter(recipe.PathsFor(cfg.Output.Root))

	return NewRunner(fetcher, writer, Options{
		Scanner:   dockerfile.NewScanner(cfg.Scan.Markers, cfg.Scan.Separators),
		BraceMode: recipe.BraceMode(cfg.Normalize.BraceMode),
		Out:       out,
		Logger:    logger,
	}), nil
}

func (o *Options) setDefaults() {
	if o.Scanner == nil {
		o.Scanner = dockerfile.NewScanner(nil, nil)
	}
	if o.BraceMode == "" {
		o.BraceMode = recipe.BraceLine
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}
