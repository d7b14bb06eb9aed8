package contracts

import (
	"context"

	"github.com/crucible-dev/crucible/internal/domain"
)

// The build coordinator discovers richer collaborator capabilities by type
// asserting registered modules against these optional interfaces. A module
// that implements none of them still participates in workflows through the
// base Module contract; the corresponding integration step is simply skipped.

// BuildIntegrator reconciles an external ticketing system against a finished
// build: resolving tickets referenced by a successful build, or creating bug
// tickets for a failed one.
type BuildIntegrator interface {
	// IntegrateWithBuild performs the reconciliation and returns a summary
	// mapping stored in the build context. The result never affects the
	// build's success flag.
	IntegrateWithBuild(ctx context.Context, build *domain.BuildContext) (map[string]any, error)
}

// ResultsPublisher publishes build outcomes to an external documentation
// system.
type ResultsPublisher interface {
	// PublishTestResults publishes the build's test results and returns
	// identifiers (page id, URL) for the created document.
	PublishTestResults(ctx context.Context, build *domain.BuildContext) (map[string]any, error)

	// PublishBuildReport publishes a consolidated build report covering
	// module results, review findings, and exceptions.
	PublishBuildReport(ctx context.Context, build *domain.BuildContext) (map[string]any, error)
}

// SourceControl bundles the build's source-control side effects: the
// comprehensive commit, artifact archival, and best-effort code annotation.
type SourceControl interface {
	// ModifiedFiles lists files changed in the working tree.
	ModifiedFiles(ctx context.Context) ([]string, error)

	// CreateBuildCommit creates a single commit bundling the given files with
	// a generated description embedding build id, test summary, and review
	// summary.
	CreateBuildCommit(ctx context.Context, files []string, build *domain.BuildContext) (map[string]any, error)

	// StoreBuildArtifacts archives the build's test results and exception
	// records, returning the stored artifact paths.
	StoreBuildArtifacts(ctx context.Context, build *domain.BuildContext) ([]string, error)

	// AnnotateFiles adds build annotations to source files. Best effort.
	AnnotateFiles(ctx context.Context, build *domain.BuildContext) error
}
