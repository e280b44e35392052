package prgate

import "strings"

const (
	defaultEventNameConstant           = "pull_request"
	configurationRepositoryKeyConstant = "repository"
	configurationEventNameKeyConstant  = "event_name"
)

// CommandConfiguration captures configurable defaults for the pr-gate command.
type CommandConfiguration struct {
	Repository string `mapstructure:"repository"`
	EventName  string `mapstructure:"event_name"`
}

// DefaultCommandConfiguration returns baseline pr-gate settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{EventName: defaultEventNameConstant}
}

// DefaultConfigurationValues exposes pr-gate defaults keyed for the configuration loader.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationRepositoryKeyConstant: defaults.Repository,
		rootKey + "." + configurationEventNameKeyConstant:  defaults.EventName,
	}
}

// Sanitize trims whitespace and applies defaults to the configuration.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := CommandConfiguration{
		Repository: strings.TrimSpace(configuration.Repository),
		EventName:  strings.TrimSpace(configuration.EventName),
	}
	if len(sanitized.EventName) == 0 {
		sanitized.EventName = defaultEventNameConstant
	}
	return sanitized
}
