package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pipelab/dspctl/internal/execshell"
)

const (
	namespaceArgumentConstant         = "pipeline-namespace"
	runnerFailureMessageConstant      = "runner exploded"
	commandStandardOutputConstant     = "namespace/pipeline-namespace created"
	commandStandardErrorConstant      = "namespaces \"pipeline-namespace\" already exists"
	expectedLogEntryCountConstant     = 2
	humanReadableStartMessageConstant = "Creating namespace pipeline-namespace"
)

type recordingCommandRunner struct {
	executedCommands []execshell.ShellCommand
	result           execshell.ExecutionResult
	failure          error
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.executedCommands = append(runner.executedCommands, command)
	if runner.failure != nil {
		return execshell.ExecutionResult{}, runner.failure
	}
	return runner.result, nil
}

type recordingCommandEventObserver struct {
	startedCommands   []execshell.ShellCommand
	completedCommands []execshell.ShellCommand
	completedResults  []execshell.ExecutionResult
	failedCommands    []execshell.ShellCommand
	failures          []error
}

func (observerInstance *recordingCommandEventObserver) CommandStarted(command execshell.ShellCommand) {
	observerInstance.startedCommands = append(observerInstance.startedCommands, command)
}

func (observerInstance *recordingCommandEventObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	observerInstance.completedCommands = append(observerInstance.completedCommands, command)
	observerInstance.completedResults = append(observerInstance.completedResults, result)
}

func (observerInstance *recordingCommandEventObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	observerInstance.failedCommands = append(observerInstance.failedCommands, command)
	observerInstance.failures = append(observerInstance.failures, failure)
}

func TestNewShellExecutorValidation(t *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		commandRunner execshell.CommandRunner
		expectedError error
	}{
		{
			name:          "missing_logger",
			logger:        nil,
			commandRunner: &recordingCommandRunner{},
			expectedError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:          "missing_command_runner",
			logger:        zap.NewNop(),
			commandRunner: nil,
			expectedError: execshell.ErrCommandRunnerNotConfigured,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executorInstance, creationError := execshell.NewShellExecutor(testCase.logger, testCase.commandRunner)
			require.Nil(t, executorInstance)
			require.ErrorIs(t, creationError, testCase.expectedError)
		})
	}
}

func TestExecuteSuccessLogsLifecycle(t *testing.T) {
	observedCore, observedLogs := observer.New(zap.InfoLevel)
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{StandardOutput: commandStandardOutputConstant, ExitCode: 0}}

	executorInstance, creationError := execshell.NewShellExecutor(zap.New(observedCore), commandRunner)
	require.NoError(t, creationError)

	executionResult, executionError := executorInstance.ExecuteKubectl(context.Background(), execshell.CommandDetails{
		Arguments: []string{"create", "namespace", namespaceArgumentConstant},
	})

	require.NoError(t, executionError)
	require.Equal(t, commandStandardOutputConstant, executionResult.StandardOutput)
	require.Len(t, commandRunner.executedCommands, 1)
	require.Equal(t, execshell.CommandKubectl, commandRunner.executedCommands[0].Name)
	require.Equal(t, expectedLogEntryCountConstant, observedLogs.Len())
}

func TestExecuteTranslatesNonZeroExitCode(t *testing.T) {
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{StandardError: commandStandardErrorConstant, ExitCode: 1}}

	executorInstance, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(t, creationError)

	executionResult, executionError := executorInstance.ExecuteKubectl(context.Background(), execshell.CommandDetails{
		Arguments: []string{"create", "namespace", namespaceArgumentConstant},
	})

	require.Error(t, executionError)
	require.Equal(t, execshell.ExecutionResult{}, executionResult)

	var failedError execshell.CommandFailedError
	require.ErrorAs(t, executionError, &failedError)
	require.Equal(t, 1, failedError.Result.ExitCode)
	require.Contains(t, failedError.Error(), namespaceArgumentConstant)
}

func TestExecuteTranslatesRunnerFailure(t *testing.T) {
	runnerFailure := errors.New(runnerFailureMessageConstant)
	commandRunner := &recordingCommandRunner{failure: runnerFailure}

	executorInstance, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(t, creationError)

	_, executionError := executorInstance.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"clone", "https://example.com/repo.git"}})

	var executionFailure execshell.CommandExecutionError
	require.ErrorAs(t, executionError, &executionFailure)
	require.ErrorIs(t, executionError, runnerFailure)
}

func TestExecuteNotifiesObserver(t *testing.T) {
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{ExitCode: 0}}
	eventObserver := &recordingCommandEventObserver{}

	executorInstance, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(t, creationError)
	executorInstance.SetCommandEventObserver(eventObserver)

	_, executionError := executorInstance.ExecuteGitHubCLI(context.Background(), execshell.CommandDetails{Arguments: []string{"pr", "view", "12"}})
	require.NoError(t, executionError)
	require.Len(t, eventObserver.startedCommands, 1)
	require.Len(t, eventObserver.completedCommands, 1)
	require.Empty(t, eventObserver.failedCommands)
}

func TestExecuteObserverReceivesExecutionFailure(t *testing.T) {
	runnerFailure := errors.New(runnerFailureMessageConstant)
	commandRunner := &recordingCommandRunner{failure: runnerFailure}
	eventObserver := &recordingCommandEventObserver{}

	executorInstance, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
	require.NoError(t, creationError)
	executorInstance.SetCommandEventObserver(eventObserver)

	_, executionError := executorInstance.ExecuteBash(context.Background(), execshell.CommandDetails{Arguments: []string{"script.sh"}})
	require.Error(t, executionError)
	require.Len(t, eventObserver.startedCommands, 1)
	require.Len(t, eventObserver.failedCommands, 1)
	require.ErrorIs(t, eventObserver.failures[0], runnerFailure)
}

func TestHumanReadableLoggingOmitsStructuredFields(t *testing.T) {
	observedCore, observedLogs := observer.New(zap.InfoLevel)
	commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{ExitCode: 0}}

	executorInstance, creationError := execshell.NewShellExecutor(zap.New(observedCore), commandRunner, true)
	require.NoError(t, creationError)

	_, executionError := executorInstance.ExecuteKubectl(context.Background(), execshell.CommandDetails{
		Arguments: []string{"create", "namespace", namespaceArgumentConstant},
	})
	require.NoError(t, executionError)

	loggedEntries := observedLogs.All()
	require.Equal(t, expectedLogEntryCountConstant, len(loggedEntries))
	require.Equal(t, humanReadableStartMessageConstant, loggedEntries[0].Message)
	require.Empty(t, loggedEntries[0].Context)
}

func TestCommandWrappersUseExpectedExecutables(t *testing.T) {
	testCases := []struct {
		name                string
		execute             func(*execshell.ShellExecutor) error
		expectedCommandName execshell.CommandName
	}{
		{
			name: "kubectl",
			execute: func(executorInstance *execshell.ShellExecutor) error {
				_, executionError := executorInstance.ExecuteKubectl(context.Background(), execshell.CommandDetails{Arguments: []string{"get", "pods"}})
				return executionError
			},
			expectedCommandName: execshell.CommandKubectl,
		},
		{
			name: "git",
			execute: func(executorInstance *execshell.ShellExecutor) error {
				_, executionError := executorInstance.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"checkout", "main"}})
				return executionError
			},
			expectedCommandName: execshell.CommandGit,
		},
		{
			name: "gh",
			execute: func(executorInstance *execshell.ShellExecutor) error {
				_, executionError := executorInstance.ExecuteGitHubCLI(context.Background(), execshell.CommandDetails{Arguments: []string{"pr", "view", "7"}})
				return executionError
			},
			expectedCommandName: execshell.CommandGitHub,
		},
		{
			name: "make",
			execute: func(executorInstance *execshell.ShellExecutor) error {
				_, executionError := executorInstance.ExecuteMake(context.Background(), execshell.CommandDetails{Arguments: []string{"deploy"}})
				return executionError
			},
			expectedCommandName: execshell.CommandMake,
		},
		{
			name: "bash",
			execute: func(executorInstance *execshell.ShellExecutor) error {
				_, executionError := executorInstance.ExecuteBash(context.Background(), execshell.CommandDetails{Arguments: []string{"deploy.sh"}})
				return executionError
			},
			expectedCommandName: execshell.CommandBash,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			commandRunner := &recordingCommandRunner{result: execshell.ExecutionResult{ExitCode: 0}}
			executorInstance, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner)
			require.NoError(t, creationError)

			require.NoError(t, testCase.execute(executorInstance))
			require.Len(t, commandRunner.executedCommands, 1)
			require.Equal(t, testCase.expectedCommandName, commandRunner.executedCommands[0].Name)
		})
	}
}
