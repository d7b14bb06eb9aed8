package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnglishIsIdentity(t *testing.T) {
	p := NewPrinter("en")
	assert.Equal(t, "build started for project crucible", p.Sprintf(KeyBuildStarted, "crucible"))
	assert.Equal(t, "exception report generated with 3 exception(s)", p.Sprintf(KeyExceptionReport, 3))
}

func TestSpanishTranslation(t *testing.T) {
	p := NewPrinter("es")
	assert.Equal(t, "compilación iniciada para el proyecto demo", p.Sprintf(KeyBuildStarted, "demo"))
}

func TestUnknownLocaleFallsBackToEnglish(t *testing.T) {
	p := NewPrinter("tlh")
	assert.Equal(t, "build failed: boom", p.Sprintf(KeyBuildFailed, "boom"))
}

func TestRegionalVariantMatches(t *testing.T) {
	p := NewPrinter("es-MX")
	assert.Contains(t, p.Sprintf(KeyWorkflowStarted, "full_automation"), "flujo de trabajo")
}
