package kubectl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pipelab/dspctl/internal/execshell"
	"github.com/pipelab/dspctl/internal/kubectl"
)

const (
	testNamespaceNameConstant      = "kubeflow"
	testDeploymentNameConstant     = "ds-pipeline-sample"
	runnerFailureMessageConstant   = "kubectl binary missing"
	alreadyExistsStandardErrorText = "namespaces \"kubeflow\" already exists"
)

type stubKubectlExecutor struct {
	recordedDetails []execshell.CommandDetails
	results         []execshell.ExecutionResult
	executionErrors []error
	callCount       int
}

func (executor *stubKubectlExecutor) ExecuteKubectl(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	callIndex := executor.callCount
	executor.callCount++

	var executionError error
	if callIndex < len(executor.executionErrors) {
		executionError = executor.executionErrors[callIndex]
	}
	var executionResult execshell.ExecutionResult
	if callIndex < len(executor.results) {
		executionResult = executor.results[callIndex]
	}
	return executionResult, executionError
}

func TestNewClientRequiresExecutor(t *testing.T) {
	clientInstance, creationError := kubectl.NewClient(nil)
	require.Nil(t, clientInstance)
	require.ErrorIs(t, creationError, kubectl.ErrExecutorNotConfigured)
}

func TestCreateNamespaceToleratesExistingNamespace(t *testing.T) {
	existingNamespaceFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandKubectl},
		Result:  execshell.ExecutionResult{ExitCode: 1, StandardError: alreadyExistsStandardErrorText},
	}

	testCases := []struct {
		name           string
		executionError error
		expectError    bool
	}{
		{
			name:           "creation_succeeds",
			executionError: nil,
			expectError:    false,
		},
		{
			name:           "namespace_already_exists",
			executionError: existingNamespaceFailure,
			expectError:    false,
		},
		{
			name:           "executable_missing",
			executionError: execshell.CommandExecutionError{Cause: errors.New(runnerFailureMessageConstant)},
			expectError:    true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubKubectlExecutor{executionErrors: []error{testCase.executionError}}
			clientInstance, creationError := kubectl.NewClient(executor)
			require.NoError(t, creationError)

			namespaceError := clientInstance.CreateNamespace(context.Background(), testNamespaceNameConstant)
			if testCase.expectError {
				require.Error(t, namespaceError)
			} else {
				require.NoError(t, namespaceError)
			}

			require.Len(t, executor.recordedDetails, 1)
			require.Equal(t, []string{"create", "namespace", testNamespaceNameConstant}, executor.recordedDetails[0].Arguments)
		})
	}
}

func TestCreateNamespaceRejectsEmptyName(t *testing.T) {
	clientInstance, creationError := kubectl.NewClient(&stubKubectlExecutor{})
	require.NoError(t, creationError)

	namespaceError := clientInstance.CreateNamespace(context.Background(), "   ")
	var invalidInput kubectl.InvalidInputError
	require.ErrorAs(t, namespaceError, &invalidInput)
}

func TestApplyManifestSendsContentThroughStandardInput(t *testing.T) {
	executor := &stubKubectlExecutor{}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	manifestContent := []byte("apiVersion: v1\nkind: ConfigMap\n")
	applyError := clientInstance.ApplyManifest(context.Background(), manifestContent, testNamespaceNameConstant)
	require.NoError(t, applyError)

	require.Len(t, executor.recordedDetails, 1)
	require.Equal(t, []string{"apply", "-f", "-", "-n", testNamespaceNameConstant}, executor.recordedDetails[0].Arguments)
	require.Equal(t, manifestContent, executor.recordedDetails[0].StandardInput)
}

func TestApplyFileOmitsNamespaceWhenEmpty(t *testing.T) {
	executor := &stubKubectlExecutor{}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	applyError := clientInstance.ApplyFile(context.Background(), "https://example.com/cert-manager.yaml", "")
	require.NoError(t, applyError)
	require.Equal(t, []string{"apply", "-f", "https://example.com/cert-manager.yaml"}, executor.recordedDetails[0].Arguments)
}

func TestWaitForConditionBuildsExpectedArguments(t *testing.T) {
	executor := &stubKubectlExecutor{}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	waitError := clientInstance.WaitForCondition(context.Background(), kubectl.WaitOptions{
		Resource:  "deployment/" + testDeploymentNameConstant,
		Condition: "Available",
		Namespace: testNamespaceNameConstant,
		Timeout:   10 * time.Minute,
	})
	require.NoError(t, waitError)
	require.Equal(t, []string{
		"wait",
		"deployment/" + testDeploymentNameConstant,
		"--for=condition=Available",
		"--timeout=600s",
		"-n",
		testNamespaceNameConstant,
	}, executor.recordedDetails[0].Arguments)
}

func TestWaitForConditionAppliesDefaultTimeoutAndSelector(t *testing.T) {
	executor := &stubKubectlExecutor{}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	waitError := clientInstance.WaitForCondition(context.Background(), kubectl.WaitOptions{
		Resource:      "pod",
		Condition:     "Ready",
		Namespace:     "cert-manager",
		LabelSelector: "app.kubernetes.io/instance=cert-manager",
	})
	require.NoError(t, waitError)
	require.Contains(t, executor.recordedDetails[0].Arguments, "--timeout=300s")
	require.Contains(t, executor.recordedDetails[0].Arguments, "-l=app.kubernetes.io/instance=cert-manager")
}

func TestDeploymentExistsReportsMissingDeploymentWithoutError(t *testing.T) {
	missingFailure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandKubectl},
		Result:  execshell.ExecutionResult{ExitCode: 1},
	}

	testCases := []struct {
		name           string
		executionError error
		expectedExists bool
		expectError    bool
	}{
		{name: "deployment_present", executionError: nil, expectedExists: true, expectError: false},
		{name: "deployment_missing", executionError: missingFailure, expectedExists: false, expectError: false},
		{name: "execution_failure", executionError: execshell.CommandExecutionError{Cause: errors.New(runnerFailureMessageConstant)}, expectedExists: false, expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubKubectlExecutor{executionErrors: []error{testCase.executionError}}
			clientInstance, creationError := kubectl.NewClient(executor)
			require.NoError(t, creationError)

			exists, existsError := clientInstance.DeploymentExists(context.Background(), testDeploymentNameConstant, testNamespaceNameConstant)
			require.Equal(t, testCase.expectedExists, exists)
			if testCase.expectError {
				require.Error(t, existsError)
			} else {
				require.NoError(t, existsError)
			}
		})
	}
}

func TestListPodStatusesParsesCustomColumns(t *testing.T) {
	executor := &stubKubectlExecutor{results: []execshell.ExecutionResult{{
		StandardOutput: "ds-pipeline-sample-0   Running\nminio-deploy-7d4f   Pending\n\n",
	}}}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	podStatuses, listError := clientInstance.ListPodStatuses(context.Background(), testNamespaceNameConstant)
	require.NoError(t, listError)
	require.Equal(t, []kubectl.PodStatus{
		{Name: "ds-pipeline-sample-0", Phase: "Running"},
		{Name: "minio-deploy-7d4f", Phase: "Pending"},
	}, podStatuses)
}

func TestListConfigMapNamesStripsResourcePrefix(t *testing.T) {
	executor := &stubKubectlExecutor{results: []execshell.ExecutionResult{{
		StandardOutput: "configmap/dspo-config\nconfigmap/kube-root-ca.crt\n",
	}}}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	configMapNames, listError := clientInstance.ListConfigMapNames(context.Background(), testNamespaceNameConstant)
	require.NoError(t, listError)
	require.Equal(t, []string{"dspo-config", "kube-root-ca.crt"}, configMapNames)
}

func TestPodLogsIncludesTailAndPreviousFlags(t *testing.T) {
	executor := &stubKubectlExecutor{results: []execshell.ExecutionResult{{StandardOutput: "log line"}}}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	logOutput, logsError := clientInstance.PodLogs(context.Background(), "ds-pipeline-sample-0", testNamespaceNameConstant, kubectl.LogOptions{TailLineCount: 50, Previous: true})
	require.NoError(t, logsError)
	require.Equal(t, "log line", logOutput)
	require.Equal(t, []string{"logs", "ds-pipeline-sample-0", "--tail=50", "--previous", "-n", testNamespaceNameConstant}, executor.recordedDetails[0].Arguments)
}

func TestListEventsSortsByLastTimestampWithLimit(t *testing.T) {
	executor := &stubKubectlExecutor{results: []execshell.ExecutionResult{{StandardOutput: "LAST SEEN   TYPE"}}}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	eventListing, eventsError := clientInstance.ListEvents(context.Background(), testNamespaceNameConstant)
	require.NoError(t, eventsError)
	require.Equal(t, "LAST SEEN   TYPE", eventListing)
	require.Equal(t, []string{"get", "events", "--sort-by=.lastTimestamp", "--limit=30", "-n", testNamespaceNameConstant}, executor.recordedDetails[0].Arguments)
}

func TestRolloutStatusWrapsExecutionFailures(t *testing.T) {
	executor := &stubKubectlExecutor{executionErrors: []error{execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandKubectl},
		Result:  execshell.ExecutionResult{ExitCode: 1},
	}}}
	clientInstance, creationError := kubectl.NewClient(executor)
	require.NoError(t, creationError)

	rolloutError := clientInstance.RolloutStatus(context.Background(), "deployment/seaweedfs", testNamespaceNameConstant, 5*time.Minute)
	var operationError kubectl.OperationError
	require.ErrorAs(t, rolloutError, &operationError)
	require.Equal(t, kubectl.OperationName("RolloutStatus"), operationError.Operation)
}
