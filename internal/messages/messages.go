// Package messages provides the localized user-facing message catalog.
//
// Log lines are always English; only messages surfaced to the user on the CLI
// go through the catalog. Unknown locales fall back to English via language
// matching.
package messages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The key doubles as the English format string's identity in
// the catalog; keep them stable, they appear in persisted reports.
const (
	KeyBuildStarted     = "build started for project %s"
	KeyBuildCompleted   = "build completed successfully in %.2fs"
	KeyBuildFailed      = "build failed: %s"
	KeyPreCommitChecks  = "running pre-commit checks"
	KeyPostBuildActions = "running post-build actions"
	KeyExceptionReport  = "exception report generated with %d exception(s)"
	KeyModuleRegistered = "registered module: %s"
	KeyModuleRejected   = "failed to register module: %s (config validation failed)"
	KeyWorkflowStarted  = "executing workflow: %s"
	KeyWorkflowStopped  = "workflow stopped due to module failure: %s"
	KeyResultsSaved     = "results saved to: %s"
)

// supportedLanguages lists the catalog locales, English first so the matcher
// falls back to it.
var supportedLanguages = []language.Tag{ //nolint:gochecknoglobals // Package-level catalog data
	language.English,
	language.Spanish,
}

// translations maps each non-English locale to its format strings.
var translations = map[language.Tag]map[string]string{ //nolint:gochecknoglobals // Package-level catalog data
	language.Spanish: {
		KeyBuildStarted:     "compilación iniciada para el proyecto %s",
		KeyBuildCompleted:   "compilación completada con éxito en %.2fs",
		KeyBuildFailed:      "compilación fallida: %s",
		KeyPreCommitChecks:  "ejecutando verificaciones previas al commit",
		KeyPostBuildActions: "ejecutando acciones posteriores a la compilación",
		KeyExceptionReport:  "informe de excepciones generado con %d excepción(es)",
		KeyModuleRegistered: "módulo registrado: %s",
		KeyModuleRejected:   "no se pudo registrar el módulo: %s (validación de configuración fallida)",
		KeyWorkflowStarted:  "ejecutando flujo de trabajo: %s",
		KeyWorkflowStopped:  "flujo de trabajo detenido por fallo del módulo: %s",
		KeyResultsSaved:     "resultados guardados en: %s",
	},
}

// buildCatalog assembles the message catalog for all supported locales.
func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	englishKeys := []string{
		KeyBuildStarted,
		KeyBuildCompleted,
		KeyBuildFailed,
		KeyPreCommitChecks,
		KeyPostBuildActions,
		KeyExceptionReport,
		KeyModuleRegistered,
		KeyModuleRejected,
		KeyWorkflowStarted,
		KeyWorkflowStopped,
		KeyResultsSaved,
	}
	for _, key := range englishKeys {
		// English message text is the key itself.
		_ = b.SetString(language.English, key, key)
	}
	for tag, msgs := range translations {
		for key, text := range msgs {
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}

// Printer formats localized messages for one configured locale.
type Printer struct {
	p *message.Printer
}

// NewPrinter creates a Printer for the given locale string (e.g. "en", "es").
// Unknown or malformed locales fall back to English.
func NewPrinter(locale string) *Printer {
	matcher := language.NewMatcher(supportedLanguages)
	tag, _ := language.MatchStrings(matcher, locale)
	return &Printer{p: message.NewPrinter(tag, message.Catalog(buildCatalog()))}
}

// Sprintf formats the message for the printer's locale.
func (pr *Printer) Sprintf(key string, args ...any) string {
	return pr.p.Sprintf(key, args...)
}
