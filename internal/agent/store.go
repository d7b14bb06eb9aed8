package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/domain"
	"github.com/crucible-dev/crucible/internal/errors"
	"github.com/crucible-dev/crucible/internal/messages"
)

// persistedResults is the on-disk shape of a saved execution summary. The
// configuration and execution context snapshots are included so a saved run
// can be reproduced later.
type persistedResults struct {
	Project            string                   `json:"project"`
	AgentVersion       string                   `json:"agent_version"`
	Timestamp          string                   `json:"timestamp"`
	TotalModules       int                      `json:"total_modules"`
	SuccessfulModules  int                      `json:"successful_modules"`
	FailedModules      int                      `json:"failed_modules"`
	SuccessRate        float64                  `json:"success_rate"`
	TotalExecutionTime float64                  `json:"total_execution_time"`
	Config             *config.Config           `json:"config"`
	Context            map[string]any           `json:"context"`
	Results            []domain.ExecutionResult `json:"results"`
}

// SaveResults persists the session execution summary as JSON at path.
// An empty path uses the default results file name in the current directory.
func (a *Agent) SaveResults(path string) error {
	if path == "" {
		path = constants.ResultsFileName
	}

	summary := a.Summary()
	out := persistedResults{
		Project:            a.cfg.Project.Name,
		AgentVersion:       constants.AgentVersion,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		TotalModules:       summary.TotalModules,
		SuccessfulModules:  summary.SuccessfulModules,
		FailedModules:      summary.FailedModules,
		SuccessRate:        summary.SuccessRate,
		TotalExecutionTime: summary.TotalExecutionTime,
		Config:             a.cfg,
		Context:            a.mergedContext(nil),
		Results:            summary.Results,
	}

	if err := writeJSONAtomic(path, out); err != nil {
		return errors.Wrap(err, "saving execution results")
	}

	a.logger.Info().
		Str("path", path).
		Int("modules", summary.TotalModules).
		Msg(a.msgs.Sprintf(messages.KeyResultsSaved, path))
	return nil
}

// writeBuildReport writes the consolidated build report artifact under the
// project's docs directory.
func (a *Agent) writeBuildReport(build *domain.BuildContext) error {
	dir := filepath.Join(a.cfg.Project.Root, constants.DocsDir)
	path := filepath.Join(dir, fmt.Sprintf("build_report_%s.json", build.BuildID))
	if err := writeJSONAtomic(path, build); err != nil {
		return errors.Wrap(err, "writing build report")
	}
	a.logger.Info().Str("path", path).Msg("build report written")
	return nil
}

// writeJSONAtomic marshals v with indentation and writes it to path through a
// temp file plus rename, so readers never observe a partial file. Parent
// directories are created as needed.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrapf(err, "creating directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "renaming temp file to %s", path)
	}
	return nil
}
