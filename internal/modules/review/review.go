// Package review implements the static code-review module: a per-file
// heuristic scan producing findings and a quality score checked against the
// configured threshold.
package review

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crucible-dev/crucible/internal/config"
	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/errors"
)

// Maximum file size scanned, in bytes. Larger files get a finding instead of
// a line-by-line scan.
const maxScannedFileSize = 1 << 20

// skippedDirs are directory names excluded from the walk.
var skippedDirs = map[string]bool{ //nolint:gochecknoglobals // Package-level scan policy
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"__pycache__":  true,
}

// Finding is one issue located during the scan.
type Finding struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Module is the code-review module.
type Module struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// New creates the code-review module.
func New(cfg *config.Config, logger zerolog.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger.With().Str("component", constants.ModuleCodeReview).Logger(),
	}
}

// Name implements the module contract.
func (m *Module) Name() string { return constants.ModuleCodeReview }

// ValidateConfig implements the module contract.
func (m *Module) ValidateConfig() bool {
	r := m.cfg.Review
	if !r.Enabled {
		return false
	}
	if r.QualityThreshold < 0 || r.QualityThreshold > 10 {
		return false
	}
	return len(r.Extensions) > 0 && r.MaxLineLength > 0
}

// Execute scans the project tree and scores it. The returned mapping carries
// the findings and the score; a score below the configured threshold is an
// error so the workflow runner records a failed result.
func (m *Module) Execute(ctx context.Context, execCtx map[string]any) (map[string]any, error) {
	root := m.cfg.Project.Root
	if v, ok := execCtx[constants.ContextKeyProjectRoot].(string); ok && v != "" {
		root = v
	}

	var findings []Finding
	filesScanned := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Wrap(errors.ErrOperationCanceled, "code review")
		}
		if d.IsDir() {
			if skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !m.matchesExtension(path) {
			return nil
		}

		fileFindings, scanned, scanErr := m.scanFile(path, root)
		if scanErr != nil {
			m.logger.Warn().Err(scanErr).Str("file", path).Msg("skipping unreadable file")
			return nil
		}
		if scanned {
			filesScanned++
		}
		findings = append(findings, fileFindings...)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scanning project")
	}

	score := scoreFindings(filesScanned, findings)
	data := map[string]any{
		constants.ResultKeySuccess: score >= m.cfg.Review.QualityThreshold,
		"quality_score":            score,
		"files_scanned":            filesScanned,
		"findings":                 findings,
		"findings_count":           len(findings),
	}

	m.logger.Info().
		Int("files", filesScanned).
		Int("findings", len(findings)).
		Float64("score", score).
		Msg("code review completed")

	if score < m.cfg.Review.QualityThreshold {
		data[constants.ResultKeyError] = fmt.Sprintf(
			"quality score %.2f below threshold %.2f", score, m.cfg.Review.QualityThreshold)
		return data, errors.Wrapf(errors.ErrQualityBelowThreshold,
			"score %.2f < %.2f", score, m.cfg.Review.QualityThreshold)
	}
	return data, nil
}

// matchesExtension reports whether the file is covered by the configured
// extension list.
func (m *Module) matchesExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, allowed := range m.cfg.Review.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// scanFile runs the per-file heuristics. Returns scanned=false when the file
// was only size-checked.
func (m *Module) scanFile(path, root string) ([]Finding, bool, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	if info.Size() > maxScannedFileSize {
		return []Finding{{
			File:    rel,
			Rule:    "file_size",
			Message: fmt.Sprintf("file is %d bytes, too large for review", info.Size()),
		}}, false, nil
	}

	f, err := os.Open(path) //nolint:gosec // Path comes from the project walk
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var findings []Finding
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScannedFileSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if len(line) > m.cfg.Review.MaxLineLength {
			findings = append(findings, Finding{
				File:    rel,
				Line:    lineNo,
				Rule:    "line_length",
				Message: fmt.Sprintf("line is %d characters, limit is %d", len(line), m.cfg.Review.MaxLineLength),
			})
		}
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, "TODO") || strings.Contains(trimmed, "FIXME") {
			findings = append(findings, Finding{
				File:    rel,
				Line:    lineNo,
				Rule:    "todo_marker",
				Message: "unresolved TODO/FIXME marker",
			})
		}
		if line != strings.TrimRight(line, " \t") {
			findings = append(findings, Finding{
				File:    rel,
				Line:    lineNo,
				Rule:    "trailing_whitespace",
				Message: "trailing whitespace",
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, err
	}
	return findings, true, nil
}

// scoreFindings computes the 0-10 quality score: start at 10, subtract a
// weighted penalty per finding normalized by file count.
func scoreFindings(filesScanned int, findings []Finding) float64 {
	if filesScanned == 0 {
		return 10.0
	}

	var penalty float64
	for _, f := range findings {
		switch f.Rule {
		case "file_size":
			penalty += 1.0
		case "todo_marker":
			penalty += 0.5
		default:
			penalty += 0.25
		}
	}

	score := 10.0 - penalty/float64(filesScanned)
	if score < 0 {
		return 0
	}
	return score
}
