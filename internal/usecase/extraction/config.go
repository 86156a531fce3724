package extraction

// Config carries the tunable thresholds of the extraction pipeline. It is
// passed explicitly into the pipeline entry point so runs stay pure and
// independently testable.
type Config struct {
	// TopKPhrases is the number of ranked key phrases kept for topics,
	// summary scoring and requirement linking.
	TopKPhrases int
	// SummarySentences is the number of top-scored sentences in the
	// extractive summary.
	SummarySentences int
	// SpeakingRateWPM is the assumed speaking rate used to estimate the
	// meeting duration when the transcript carries no timestamps.
	SpeakingRateWPM int
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		TopKPhrases:      10,
		SummarySentences: 3,
		SpeakingRateWPM:  130,
	}
}

// withDefaults fills zero-valued fields so a partially populated Config is
// safe to use.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TopKPhrases <= 0 {
		c.TopKPhrases = def.TopKPhrases
	}
	if c.SummarySentences <= 0 {
		c.SummarySentences = def.SummarySentences
	}
	if c.SpeakingRateWPM <= 0 {
		c.SpeakingRateWPM = def.SpeakingRateWPM
	}
	return c
}
