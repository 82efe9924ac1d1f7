package rules

import "fmt"

// ConfigurationError reports an invalid catalog entry. It is only produced
// while building a Registry, never while scoring.
type ConfigurationError struct {
	Rule   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Rule == "" {
		return "rule catalog: " + e.Reason
	}
	return fmt.Sprintf("rule catalog: rule %q: %s", e.Rule, e.Reason)
}
