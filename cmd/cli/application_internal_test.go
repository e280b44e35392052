package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	deployCommandNameConstant = "deploy"
	prGateCommandNameConstant = "pr-gate"
)

func TestNewApplicationRegistersCommands(t *testing.T) {
	application := NewApplication()
	require.NotNil(t, application.rootCommand)

	registeredNames := make([]string, 0, len(application.rootCommand.Commands()))
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredNames = append(registeredNames, registeredCommand.Name())
	}

	require.Contains(t, registeredNames, deployCommandNameConstant)
	require.Contains(t, registeredNames, prGateCommandNameConstant)
}

func TestNewApplicationStartsWithNopLogger(t *testing.T) {
	application := NewApplication()
	require.NotNil(t, application.logger)
}

func TestHumanReadableLoggingFollowsLogFormat(t *testing.T) {
	application := NewApplication()

	application.configuration.Common.LogFormat = "console"
	require.True(t, application.humanReadableLoggingEnabled())

	application.configuration.Common.LogFormat = "structured"
	require.False(t, application.humanReadableLoggingEnabled())
}
