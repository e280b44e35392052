package kubectl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pipelab/dspctl/internal/execshell"
)

const (
	createSubcommandConstant                 = "create"
	applySubcommandConstant                  = "apply"
	waitSubcommandConstant                   = "wait"
	getSubcommandConstant                    = "get"
	describeSubcommandConstant               = "describe"
	logsSubcommandConstant                   = "logs"
	patchSubcommandConstant                  = "patch"
	rolloutSubcommandConstant                = "rollout"
	statusSubcommandConstant                 = "status"
	namespaceResourceConstant                = "namespace"
	deploymentResourceConstant               = "deployment"
	podResourceConstant                      = "pods"
	podSingularResourceConstant              = "pod"
	eventResourceConstant                    = "events"
	configMapResourceConstant                = "configmap"
	namespaceFlagConstant                    = "-n"
	filenameFlagConstant                     = "-f"
	kustomizeFlagConstant                    = "-k"
	stdinReferenceConstant                   = "-"
	waitConditionFlagTemplateConstant        = "--for=condition=%s"
	timeoutFlagTemplateConstant              = "--timeout=%ds"
	selectorFlagTemplateConstant             = "-l=%s"
	outputWideFlagConstant                   = "--output=wide"
	outputNameFlagTemplateConstant           = "--output=name"
	podStatusColumnsFlagConstant             = "--output=custom-columns=NAME:.metadata.name,STATUS:.status.phase"
	noHeadersFlagConstant                    = "--no-headers"
	allResourcesFlagConstant                 = "--all"
	tailFlagTemplateConstant                 = "--tail=%d"
	previousFlagConstant                     = "--previous"
	eventSortFlagConstant                    = "--sort-by=.lastTimestamp"
	eventLimitFlagConstant                   = "--limit=30"
	patchTypeFlagTemplateConstant            = "--type=%s"
	patchPayloadFlagConstant                 = "-p"
	namespaceFieldNameConstant               = "namespace"
	resourceFieldNameConstant                = "resource"
	manifestSourceFieldNameConstant          = "manifest_source"
	manifestContentFieldNameConstant         = "manifest_content"
	conditionFieldNameConstant               = "condition"
	deploymentNameFieldNameConstant          = "deployment_name"
	podNameFieldNameConstant                 = "pod_name"
	configMapNameFieldNameConstant           = "configmap_name"
	patchPayloadFieldNameConstant            = "patch_payload"
	requiredValueMessageConstant             = "value required"
	executorNotConfiguredMessageConstant     = "kubectl executor not configured"
	operationErrorMessageTemplateConstant    = "%s operation failed"
	operationErrorWithCauseTemplateConstant  = "%s operation failed: %s"
	createNamespaceOperationNameConstant     = OperationName("CreateNamespace")
	applyManifestsOperationNameConstant      = OperationName("ApplyManifests")
	waitForConditionOperationNameConstant    = OperationName("WaitForCondition")
	deploymentExistsOperationNameConstant    = OperationName("DeploymentExists")
	listPodsOperationNameConstant            = OperationName("ListPods")
	listPodStatusesOperationNameConstant     = OperationName("ListPodStatuses")
	describePodOperationNameConstant         = OperationName("DescribePod")
	podLogsOperationNameConstant             = OperationName("PodLogs")
	listEventsOperationNameConstant          = OperationName("ListEvents")
	getConfigMapOperationNameConstant        = OperationName("GetConfigMap")
	listConfigMapNamesOperationNameConstant  = OperationName("ListConfigMapNames")
	patchDeploymentOperationNameConstant     = OperationName("PatchDeployment")
	rolloutStatusOperationNameConstant       = OperationName("RolloutStatus")
	configMapNamePrefixConstant              = "configmap/"
	podStatusColumnCountConstant             = 2
	defaultWaitTimeoutSecondsConstant        = 300
	defaultLogTailLineCountConstant          = 100
	secondsPerSecondDurationDivisorConstant  = time.Second
	patchTypeStrategicMergeValueConstant     = "strategic"
	patchTypeJSONMergeValueConstant          = "merge"
	patchTypeJSONValueConstant               = "json"
)

// OperationName describes a named kubectl workflow supported by the client.
type OperationName string

// PatchType enumerates supported kubectl patch strategies.
type PatchType string

// Patch type enumerations.
const (
	PatchTypeStrategicMerge PatchType = PatchType(patchTypeStrategicMergeValueConstant)
	PatchTypeJSONMerge      PatchType = PatchType(patchTypeJSONMergeValueConstant)
	PatchTypeJSON           PatchType = PatchType(patchTypeJSONValueConstant)
)

// PodStatus pairs a pod name with its reported phase.
type PodStatus struct {
	Name  string
	Phase string
}

// WaitOptions configures WaitForCondition invocations.
type WaitOptions struct {
	Resource      string
	Condition     string
	Namespace     string
	LabelSelector string
	AllResources  bool
	Timeout       time.Duration
}

// LogOptions configures PodLogs invocations.
type LogOptions struct {
	TailLineCount int
	Previous      bool
}

// KubectlCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type KubectlCommandExecutor interface {
	ExecuteKubectl(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates kubectl invocations through execshell.
type Client struct {
	executor KubectlCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for kubectl operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// NewClient constructs a kubectl client.
func NewClient(executor KubectlCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// CreateNamespace creates the named namespace and treats an already existing namespace as success.
func (client *Client) CreateNamespace(executionContext context.Context, namespaceName string) error {
	trimmedNamespaceName := strings.TrimSpace(namespaceName)
	if len(trimmedNamespaceName) == 0 {
		return InvalidInputError{FieldName: namespaceFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{createSubcommandConstant, namespaceResourceConstant, trimmedNamespaceName},
	}

	_, executionError := client.executor.ExecuteKubectl(executionContext, commandDetails)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return nil
		}
		return OperationError{Operation: createNamespaceOperationNameConstant, Cause: executionError}
	}

	return nil
}

// ApplyFile applies manifests from a file path or URL.
func (client *Client) ApplyFile(executionContext context.Context, manifestSource string, namespaceName string) error {
	trimmedManifestSource := strings.TrimSpace(manifestSource)
	if len(trimmedManifestSource) == 0 {
		return InvalidInputError{FieldName: manifestSourceFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{applySubcommandConstant, filenameFlagConstant, trimmedManifestSource}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	_, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return OperationError{Operation: applyManifestsOperationNameConstant, Cause: executionError}
	}

	return nil
}

// ApplyKustomize applies a kustomize directory.
func (client *Client) ApplyKustomize(executionContext context.Context, kustomizeDirectory string, namespaceName string) error {
	trimmedKustomizeDirectory := strings.TrimSpace(kustomizeDirectory)
	if len(trimmedKustomizeDirectory) == 0 {
		return InvalidInputError{FieldName: manifestSourceFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{applySubcommandConstant, kustomizeFlagConstant, trimmedKustomizeDirectory}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	_, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return OperationError{Operation: applyManifestsOperationNameConstant, Cause: executionError}
	}

	return nil
}

// ApplyManifest applies manifest content supplied through standard input.
func (client *Client) ApplyManifest(executionContext context.Context, manifestContent []byte, namespaceName string) error {
	if len(manifestContent) == 0 {
		return InvalidInputError{FieldName: manifestContentFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{applySubcommandConstant, filenameFlagConstant, stdinReferenceConstant}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	commandDetails := execshell.CommandDetails{Arguments: commandArguments, StandardInput: manifestContent}

	_, executionError := client.executor.ExecuteKubectl(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: applyManifestsOperationNameConstant, Cause: executionError}
	}

	return nil
}

// WaitForCondition blocks until the requested condition holds or the timeout elapses.
func (client *Client) WaitForCondition(executionContext context.Context, options WaitOptions) error {
	trimmedResource := strings.TrimSpace(options.Resource)
	if len(trimmedResource) == 0 {
		return InvalidInputError{FieldName: resourceFieldNameConstant, Message: requiredValueMessageConstant}
	}

	trimmedCondition := strings.TrimSpace(options.Condition)
	if len(trimmedCondition) == 0 {
		return InvalidInputError{FieldName: conditionFieldNameConstant, Message: requiredValueMessageConstant}
	}

	timeoutSeconds := int(options.Timeout / secondsPerSecondDurationDivisorConstant)
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultWaitTimeoutSecondsConstant
	}

	commandArguments := []string{waitSubcommandConstant, trimmedResource}
	if options.AllResources {
		commandArguments = append(commandArguments, allResourcesFlagConstant)
	}
	commandArguments = append(commandArguments,
		fmt.Sprintf(waitConditionFlagTemplateConstant, trimmedCondition),
		fmt.Sprintf(timeoutFlagTemplateConstant, timeoutSeconds),
	)
	if len(strings.TrimSpace(options.LabelSelector)) > 0 {
		commandArguments = append(commandArguments, fmt.Sprintf(selectorFlagTemplateConstant, strings.TrimSpace(options.LabelSelector)))
	}
	commandArguments = appendNamespaceArguments(commandArguments, options.Namespace)

	_, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return OperationError{Operation: waitForConditionOperationNameConstant, Cause: executionError}
	}

	return nil
}

// DeploymentExists reports whether the named deployment is present in the namespace.
func (client *Client) DeploymentExists(executionContext context.Context, deploymentName string, namespaceName string) (bool, error) {
	trimmedDeploymentName := strings.TrimSpace(deploymentName)
	if len(trimmedDeploymentName) == 0 {
		return false, InvalidInputError{FieldName: deploymentNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{getSubcommandConstant, deploymentResourceConstant, trimmedDeploymentName}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	_, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, OperationError{Operation: deploymentExistsOperationNameConstant, Cause: executionError}
	}

	return true, nil
}

// ListPods returns the wide pod listing for the namespace.
func (client *Client) ListPods(executionContext context.Context, namespaceName string) (string, error) {
	commandArguments := []string{getSubcommandConstant, podResourceConstant, outputWideFlagConstant}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	executionResult, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return "", OperationError{Operation: listPodsOperationNameConstant, Cause: executionError}
	}

	return executionResult.StandardOutput, nil
}

// ListPodStatuses returns pod names and phases parsed from custom-columns output.
func (client *Client) ListPodStatuses(executionContext context.Context, namespaceName string) ([]PodStatus, error) {
	commandArguments := []string{getSubcommandConstant, podResourceConstant, podStatusColumnsFlagConstant, noHeadersFlagConstant}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	executionResult, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return nil, OperationError{Operation: listPodStatusesOperationNameConstant, Cause: executionError}
	}

	return parsePodStatusLines(executionResult.StandardOutput), nil
}

// DescribePod returns the verbose description for the named pod.
func (client *Client) DescribePod(executionContext context.Context, podName string, namespaceName string) (string, error) {
	trimmedPodName := strings.TrimSpace(podName)
	if len(trimmedPodName) == 0 {
		return "", InvalidInputError{FieldName: podNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{describeSubcommandConstant, podSingularResourceConstant, trimmedPodName}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	executionResult, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return "", OperationError{Operation: describePodOperationNameConstant, Cause: executionError}
	}

	return executionResult.StandardOutput, nil
}

// PodLogs returns recent log lines from the named pod.
func (client *Client) PodLogs(executionContext context.Context, podName string, namespaceName string, options LogOptions) (string, error) {
	trimmedPodName := strings.TrimSpace(podName)
	if len(trimmedPodName) == 0 {
		return "", InvalidInputError{FieldName: podNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	tailLineCount := options.TailLineCount
	if tailLineCount <= 0 {
		tailLineCount = defaultLogTailLineCountConstant
	}

	commandArguments := []string{logsSubcommandConstant, trimmedPodName, fmt.Sprintf(tailFlagTemplateConstant, tailLineCount)}
	if options.Previous {
		commandArguments = append(commandArguments, previousFlagConstant)
	}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	executionResult, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return "", OperationError{Operation: podLogsOperationNameConstant, Cause: executionError}
	}

	return executionResult.StandardOutput, nil
}

// ListEvents returns the most recent namespace events ordered by last timestamp.
func (client *Client) ListEvents(executionContext context.Context, namespaceName string) (string, error) {
	commandArguments := []string{getSubcommandConstant, eventResourceConstant, eventSortFlagConstant, eventLimitFlagConstant}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	executionResult, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return "", OperationError{Operation: listEventsOperationNameConstant, Cause: executionError}
	}

	return executionResult.StandardOutput, nil
}

// GetConfigMap reports whether the named ConfigMap exists in the namespace.
func (client *Client) GetConfigMap(executionContext context.Context, configMapName string, namespaceName string) (bool, error) {
	trimmedConfigMapName := strings.TrimSpace(configMapName)
	if len(trimmedConfigMapName) == 0 {
		return false, InvalidInputError{FieldName: configMapNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{getSubcommandConstant, configMapResourceConstant, trimmedConfigMapName}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	_, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			return false, nil
		}
		return false, OperationError{Operation: getConfigMapOperationNameConstant, Cause: executionError}
	}

	return true, nil
}

// ListConfigMapNames returns the ConfigMap names present in the namespace.
func (client *Client) ListConfigMapNames(executionContext context.Context, namespaceName string) ([]string, error) {
	commandArguments := []string{getSubcommandConstant, configMapResourceConstant, outputNameFlagTemplateConstant}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	executionResult, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return nil, OperationError{Operation: listConfigMapNamesOperationNameConstant, Cause: executionError}
	}

	return parseConfigMapNameLines(executionResult.StandardOutput), nil
}

// PatchDeployment applies a patch payload to the named deployment.
func (client *Client) PatchDeployment(executionContext context.Context, deploymentName string, namespaceName string, patchType PatchType, patchPayload []byte) error {
	trimmedDeploymentName := strings.TrimSpace(deploymentName)
	if len(trimmedDeploymentName) == 0 {
		return InvalidInputError{FieldName: deploymentNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if len(patchPayload) == 0 {
		return InvalidInputError{FieldName: patchPayloadFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{
		patchSubcommandConstant,
		deploymentResourceConstant,
		trimmedDeploymentName,
		fmt.Sprintf(patchTypeFlagTemplateConstant, string(patchType)),
		patchPayloadFlagConstant,
		string(patchPayload),
	}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	_, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return OperationError{Operation: patchDeploymentOperationNameConstant, Cause: executionError}
	}

	return nil
}

// RolloutStatus blocks until the resource rollout completes or the timeout elapses.
func (client *Client) RolloutStatus(executionContext context.Context, resourceReference string, namespaceName string, timeout time.Duration) error {
	trimmedResourceReference := strings.TrimSpace(resourceReference)
	if len(trimmedResourceReference) == 0 {
		return InvalidInputError{FieldName: resourceFieldNameConstant, Message: requiredValueMessageConstant}
	}

	timeoutSeconds := int(timeout / secondsPerSecondDurationDivisorConstant)
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultWaitTimeoutSecondsConstant
	}

	commandArguments := []string{
		rolloutSubcommandConstant,
		statusSubcommandConstant,
		trimmedResourceReference,
		fmt.Sprintf(timeoutFlagTemplateConstant, timeoutSeconds),
	}
	commandArguments = appendNamespaceArguments(commandArguments, namespaceName)

	_, executionError := client.executor.ExecuteKubectl(executionContext, execshell.CommandDetails{Arguments: commandArguments})
	if executionError != nil {
		return OperationError{Operation: rolloutStatusOperationNameConstant, Cause: executionError}
	}

	return nil
}

func appendNamespaceArguments(commandArguments []string, namespaceName string) []string {
	trimmedNamespaceName := strings.TrimSpace(namespaceName)
	if len(trimmedNamespaceName) == 0 {
		return commandArguments
	}
	return append(commandArguments, namespaceFlagConstant, trimmedNamespaceName)
}

func parsePodStatusLines(standardOutput string) []PodStatus {
	outputLines := strings.Split(standardOutput, "\n")
	podStatuses := make([]PodStatus, 0, len(outputLines))
	for _, outputLine := range outputLines {
		columnValues := strings.Fields(outputLine)
		if len(columnValues) < podStatusColumnCountConstant {
			continue
		}
		podStatuses = append(podStatuses, PodStatus{Name: columnValues[0], Phase: columnValues[1]})
	}
	return podStatuses
}

func parseConfigMapNameLines(standardOutput string) []string {
	outputLines := strings.Split(standardOutput, "\n")
	configMapNames := make([]string, 0, len(outputLines))
	for _, outputLine := range outputLines {
		trimmedLine := strings.TrimSpace(outputLine)
		if len(trimmedLine) == 0 {
			continue
		}
		configMapNames = append(configMapNames, strings.TrimPrefix(trimmedLine, configMapNamePrefixConstant))
	}
	return configMapNames
}
