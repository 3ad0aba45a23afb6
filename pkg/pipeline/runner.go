package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/recipegen/pkg/errors"
	"github.com/matzehuels/recipegen/pkg/observability"
	"github.com/matzehuels/recipegen/pkg/recipe"
)

// Fetcher returns the raw meta.yaml text for a package.
type Fetcher interface {
	FetchMeta(ctx context.Context, name string) (string, error)
}

// Runner executes the pipeline for every candidate in a build file.
// It is not safe for concurrent use; packages are processed sequentially.
type Runner struct {
	fetcher Fetcher
	writer  *recipe.Writer
	opts    Options
}

// NewRunner creates a runner that fetches with fetcher and stores fragments
// with writer.
func NewRunner(fetcher Fetcher, writer *recipe.Writer, opts Options) *Runner {
	opts.setDefaults()
	return &Runner{
		fetcher: fetcher,
		writer:  writer,
		opts:    opts,
	}
}

// Scan returns the candidate package names in the build file at path.
// An empty path is an [errors.ErrCodeInvalidInput] error, a missing file is
// [errors.ErrCodeFileNotFound], and any other read failure is
// [errors.ErrCodeInvalidPath].
func (r *Runner) Scan(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "build file path cannot be empty")
	}
	names, err := r.opts.Scanner.ScanFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "build file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "build file %s", path)
	}
	return names, nil
}

// Run scans the build file at path and processes every candidate in order,
// writing one outcome line per package. Package failures are recorded in
// the report, not returned. Run returns an error only when the build file
// cannot be read or ctx is cancelled between packages; the partial report
// is returned in the latter case.
func (r *Runner) Run(ctx context.Context, path string) (*Report, error) {
	names, err := r.Scan(path)
	if err != nil {
		return nil, err
	}
	observability.Pipeline().OnScanComplete(ctx, path, len(names))
	r.opts.Logger.Debug("scanned build file", "path", path, "candidates", len(names))

	report := &Report{Path: path, Results: make([]Result, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := r.process(ctx, name)
		report.Results = append(report.Results, res)
		r.printResult(res)
	}
	return report, nil
}

func (r *Runner) process(ctx context.Context, name string) Result {
	hooks := observability.Pipeline()
	hooks.OnPackageStart(ctx, name)
	start := time.Now()

	files, err := r.generate(ctx, name)
	res := Result{Name: name, Files: files, Err: err, Duration: time.Since(start)}

	hooks.OnPackageComplete(ctx, name, len(files), res.Duration, err)
	if err != nil {
		r.opts.Logger.Debug("package failed", "pkg", name, "code", errors.GetCode(err), "duration", res.Duration)
	} else {
		r.opts.Logger.Debug("package dumped", "pkg", name, "files", len(files), "duration", res.Duration)
	}
	return res
}

// generate runs the per-package stages. Names that cannot become fragment
// file names are rejected before any request is made.
func (r *Runner) generate(ctx context.Context, name string) ([]string, error) {
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	text, err := r.fetcher.FetchMeta(ctx, name)
	if err != nil {
		return nil, err
	}
	tree, err := recipe.Normalize(text, r.opts.BraceMode)
	if err != nil {
		return nil, err
	}
	frags, err := recipe.Extract(name, tree)
	if err != nil {
		return nil, err
	}
	return r.writer.Write(name, frags)
}

func (r *Runner) printResult(res Result) {
	if res.Err != nil {
		fmt.Fprintf(r.opts.Out, "ERROR: Could not load meta for %s: %v\n", res.Name, res.Err)
		return
	}
	fmt.Fprintf(r.opts.Out, "dumped: %s\n", res.Name)
}
