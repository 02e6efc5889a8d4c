package looker

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/ecruzj/ga-web-scrap/internal/scraper"
)

func TestEngineConfigsCarryTuning(t *testing.T) {
	opts := scraper.Options{
		StableThreshold: 3,
		MaxScrollSteps:  120,
		MaxTablePages:   4,
		ScrollStep:      350,
		MaxMonthSteps:   24,
		SettleTimeout:   7 * time.Second,
	}

	nav, scroll := engineConfigs(opts, log.New(io.Discard))

	assert.Equal(t, 24, nav.MaxMonthSteps)
	assert.Equal(t, 7*time.Second, nav.SettleTimeout)
	assert.Equal(t, dateSelectors, nav.Selectors)

	assert.Equal(t, 3, scroll.StableThreshold)
	assert.Equal(t, 120, scroll.MaxSteps)
	assert.Equal(t, 4, scroll.MaxPages)
	assert.Equal(t, 350.0, scroll.ScrollStep)
	assert.Equal(t, 7*time.Second, scroll.SettleTimeout)
	assert.Equal(t, "looker", scroll.Source)
	assert.Equal(t, tableSelectors, scroll.Selectors)
}

func TestEngineConfigsZeroTuningKeepsDefaults(t *testing.T) {
	nav, scroll := engineConfigs(scraper.Options{}, log.New(io.Discard))
	assert.Zero(t, nav.MaxMonthSteps, "zero passes through so the component default applies")
	assert.Zero(t, scroll.StableThreshold)
	assert.Zero(t, scroll.MaxSteps)
}
