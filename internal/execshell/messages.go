package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
	defaultNamespaceLabelConstant           = "default namespace"
	flagPrefixConstant                      = "-"
)

const (
	kubectlCreateSubcommandNameConstant   = "create"
	kubectlApplySubcommandNameConstant    = "apply"
	kubectlWaitSubcommandNameConstant     = "wait"
	kubectlGetSubcommandNameConstant      = "get"
	kubectlDescribeSubcommandNameConstant = "describe"
	kubectlLogsSubcommandNameConstant     = "logs"
	kubectlPatchSubcommandNameConstant    = "patch"
	kubectlRolloutSubcommandNameConstant  = "rollout"
	kubectlNamespaceResourceNameConstant  = "namespace"
	kubectlNamespaceFlagConstant          = "-n"
	kubectlNamespaceLongFlagConstant      = "--namespace"
	kubectlFilenameFlagConstant           = "-f"
	kubectlKustomizeFlagConstant          = "-k"
	kubectlStdinReferenceConstant         = "-"
	kubectlStdinSourceLabelConstant       = "standard input"
	kubectlWaitForFlagPrefixConstant      = "--for="
	waitTargetJoinWordConstant            = " on "
)

const (
	kubectlNamespaceCreateStartTemplateConstant            = "Creating namespace %s"
	kubectlNamespaceCreateSuccessTemplateConstant          = "Created namespace %s"
	kubectlNamespaceCreateFailureTemplateConstant          = "Failed to create namespace %s (exit code %d%s)"
	kubectlNamespaceCreateExecutionFailureTemplateConstant = "Unable to create namespace %s: %s"
	kubectlApplyStartTemplateConstant                      = "Applying manifests from %s in %s"
	kubectlApplySuccessTemplateConstant                    = "Applied manifests from %s in %s"
	kubectlApplyFailureTemplateConstant                    = "Failed to apply manifests from %s in %s (exit code %d%s)"
	kubectlApplyExecutionFailureTemplateConstant           = "Unable to apply manifests from %s in %s: %s"
	kubectlWaitStartTemplateConstant                       = "Waiting for %s in %s"
	kubectlWaitSuccessTemplateConstant                     = "Condition %s satisfied in %s"
	kubectlWaitFailureTemplateConstant                     = "Timed out waiting for %s in %s (exit code %d%s)"
	kubectlWaitExecutionFailureTemplateConstant            = "Unable to wait for %s in %s: %s"
	kubectlGetStartTemplateConstant                        = "Listing %s in %s"
	kubectlGetSuccessTemplateConstant                      = "Listed %s in %s"
	kubectlGetFailureTemplateConstant                      = "Failed to list %s in %s (exit code %d%s)"
	kubectlGetExecutionFailureTemplateConstant             = "Unable to list %s in %s: %s"
	kubectlDescribeStartTemplateConstant                   = "Describing %s %s in %s"
	kubectlDescribeSuccessTemplateConstant                 = "Described %s %s in %s"
	kubectlDescribeFailureTemplateConstant                 = "Failed to describe %s %s in %s (exit code %d%s)"
	kubectlDescribeExecutionFailureTemplateConstant        = "Unable to describe %s %s in %s: %s"
	kubectlLogsStartTemplateConstant                       = "Collecting logs from %s in %s"
	kubectlLogsSuccessTemplateConstant                     = "Collected logs from %s in %s"
	kubectlLogsFailureTemplateConstant                     = "Failed to collect logs from %s in %s (exit code %d%s)"
	kubectlLogsExecutionFailureTemplateConstant            = "Unable to collect logs from %s in %s: %s"
	kubectlPatchStartTemplateConstant                      = "Patching %s %s in %s"
	kubectlPatchSuccessTemplateConstant                    = "Patched %s %s in %s"
	kubectlPatchFailureTemplateConstant                    = "Failed to patch %s %s in %s (exit code %d%s)"
	kubectlPatchExecutionFailureTemplateConstant           = "Unable to patch %s %s in %s: %s"
	kubectlRolloutStartTemplateConstant                    = "Waiting for rollout of %s in %s"
	kubectlRolloutSuccessTemplateConstant                  = "Rollout of %s completed in %s"
	kubectlRolloutFailureTemplateConstant                  = "Rollout of %s did not complete in %s (exit code %d%s)"
	kubectlRolloutExecutionFailureTemplateConstant         = "Unable to track rollout of %s in %s: %s"
)

const (
	gitCloneSubcommandNameConstant    = "clone"
	gitCheckoutSubcommandNameConstant = "checkout"
	currentDirectoryLabelConstant     = "current directory"
)

const (
	gitCloneStartTemplateConstant               = "Cloning %s"
	gitCloneSuccessTemplateConstant             = "Cloned %s"
	gitCloneFailureTemplateConstant             = "Failed to clone %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant    = "Unable to clone %s: %s"
	gitCheckoutStartTemplateConstant            = "Checking out %s in %s"
	gitCheckoutSuccessTemplateConstant          = "Checked out %s in %s"
	gitCheckoutFailureTemplateConstant          = "Failed to check out %s in %s (exit code %d%s)"
	gitCheckoutExecutionFailureTemplateConstant = "Unable to check out %s in %s: %s"
)

const (
	githubPullRequestSubcommandNameConstant     = "pr"
	githubPullRequestViewSubcommandNameConstant = "view"
	githubPullRequestEditSubcommandNameConstant = "edit"
	githubAPICommandNameConstant                = "api"
	githubRepoFlagConstant                      = "--repo"
	githubMethodFlagConstant                    = "-X"
	githubCommentsEndpointSubstringConstant     = "/comments"
	githubCommentCreateMethodConstant           = "POST"
	githubCurrentRepositoryLabelConstant        = "current repository"
	githubRepositoryEndpointPrefixConstant      = "repos/"
	githubRepositoryPathSeparatorConstant       = "/"
	githubRepositoryPathSegmentCountConstant    = 2
)

const (
	githubPullRequestViewStartTemplateConstant            = "Retrieving pull request #%d in %s"
	githubPullRequestViewSuccessTemplateConstant          = "Retrieved pull request #%d in %s"
	githubPullRequestViewFailureTemplateConstant          = "Failed to retrieve pull request #%d in %s (exit code %d%s)"
	githubPullRequestViewExecutionFailureTemplateConstant = "Unable to retrieve pull request #%d in %s: %s"
	githubPullRequestEditStartTemplateConstant            = "Updating pull request #%d in %s"
	githubPullRequestEditSuccessTemplateConstant          = "Updated pull request #%d in %s"
	githubPullRequestEditFailureTemplateConstant          = "Failed to update pull request #%d in %s (exit code %d%s)"
	githubPullRequestEditExecutionFailureTemplateConstant = "Unable to update pull request #%d in %s: %s"
	githubCommentCreateStartTemplateConstant              = "Posting comment on %s"
	githubCommentCreateSuccessTemplateConstant            = "Posted comment on %s"
	githubCommentCreateFailureTemplateConstant            = "Failed to post comment on %s (exit code %d%s)"
	githubCommentCreateExecutionFailureTemplateConstant   = "Unable to post comment on %s: %s"
	githubCommentListStartTemplateConstant                = "Listing comments on %s"
	githubCommentListSuccessTemplateConstant              = "Listed comments on %s"
	githubCommentListFailureTemplateConstant              = "Failed to list comments on %s (exit code %d%s)"
	githubCommentListExecutionFailureTemplateConstant     = "Unable to list comments on %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandKubectl:
		return formatter.describeKubectlMessage(command, result, failure, stage)
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitHub:
		return formatter.describeGitHubMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	subcommand, remainingArguments := formatter.splitKubectlSubcommand(command.Details.Arguments)
	switch subcommand {
	case kubectlCreateSubcommandNameConstant:
		return formatter.describeKubectlCreateMessage(command, remainingArguments, result, failure, stage)
	case kubectlApplySubcommandNameConstant:
		return formatter.describeKubectlApplyMessage(command, remainingArguments, result, failure, stage)
	case kubectlWaitSubcommandNameConstant:
		return formatter.describeKubectlWaitMessage(command, remainingArguments, result, failure, stage)
	case kubectlGetSubcommandNameConstant:
		return formatter.describeKubectlGetMessage(command, remainingArguments, result, failure, stage)
	case kubectlDescribeSubcommandNameConstant:
		return formatter.describeKubectlDescribeMessage(command, remainingArguments, result, failure, stage)
	case kubectlLogsSubcommandNameConstant:
		return formatter.describeKubectlLogsMessage(command, remainingArguments, result, failure, stage)
	case kubectlPatchSubcommandNameConstant:
		return formatter.describeKubectlPatchMessage(command, remainingArguments, result, failure, stage)
	case kubectlRolloutSubcommandNameConstant:
		return formatter.describeKubectlRolloutMessage(command, remainingArguments, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlCreateMessage(command ShellCommand, arguments []string, result ExecutionResult, failure error, stage messageStage) string {
	if len(arguments) < 2 || strings.TrimSpace(arguments[0]) != kubectlNamespaceResourceNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	namespaceName := formatter.ensureValue(arguments[1])
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(kubectlNamespaceCreateStartTemplateConstant, namespaceName)
	case messageStageSuccess:
		return fmt.Sprintf(kubectlNamespaceCreateSuccessTemplateConstant, namespaceName)
	case messageStageFailure:
		return fmt.Sprintf(kubectlNamespaceCreateFailureTemplateConstant, namespaceName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(kubectlNamespaceCreateExecutionFailureTemplateConstant, namespaceName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlApplyMessage(command ShellCommand, arguments []string, result ExecutionResult, failure error, stage messageStage) string {
	manifestSource := formatter.extractManifestSource(arguments)
	namespaceLabel := formatter.describeNamespace(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(kubectlApplyStartTemplateConstant, manifestSource, namespaceLabel)
	case messageStageSuccess:
		return fmt.Sprintf(kubectlApplySuccessTemplateConstant, manifestSource, namespaceLabel)
	case messageStageFailure:
		return fmt.Sprintf(kubectlApplyFailureTemplateConstant, manifestSource, namespaceLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(kubectlApplyExecutionFailureTemplateConstant, manifestSource, namespaceLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlWaitMessage(command ShellCommand, arguments []string, result ExecutionResult, failure error, stage messageStage) string {
	condition := formatter.extractFlagSuffixValue(arguments, kubectlWaitForFlagPrefixConstant)
	waitTarget := formatter.joinNonFlagArguments(arguments)
	waitLabel := formatter.ensureValue(strings.TrimSpace(condition + waitTargetJoinWordConstant + waitTarget))
	namespaceLabel := formatter.describeNamespace(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(kubectlWaitStartTemplateConstant, waitLabel, namespaceLabel)
	case messageStageSuccess:
		return fmt.Sprintf(kubectlWaitSuccessTemplateConstant, waitLabel, namespaceLabel)
	case messageStageFailure:
		return fmt.Sprintf(kubectlWaitFailureTemplateConstant, waitLabel, namespaceLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(kubectlWaitExecutionFailureTemplateConstant, waitLabel, namespaceLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlGetMessage(command ShellCommand, arguments []string, result ExecutionResult, failure error, stage messageStage) string {
	resourceLabel := formatter.ensureValue(formatter.joinNonFlagArguments(arguments))
	namespaceLabel := formatter.describeNamespace(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(kubectlGetStartTemplateConstant, resourceLabel, namespaceLabel)
	case messageStageSuccess:
		return fmt.Sprintf(kubectlGetSuccessTemplateConstant, resourceLabel, namespaceLabel)
	case messageStageFailure:
		return fmt.Sprintf(kubectlGetFailureTemplateConstant, resourceLabel, namespaceLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(kubectlGetExecutionFailureTemplateConstant, resourceLabel, namespaceLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlDescribeMessage(command ShellCommand, arguments []string, result ExecutionResult, failure error, stage messageStage) string {
	resourceKind := formatter.ensureValue(formatter.argumentAtIndex(arguments, 0))
	resourceName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
	namespaceLabel := formatter.describeNamespace(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(kubectlDescribeStartTemplateConstant, resourceKind, resourceName, namespaceLabel)
	case messageStageSuccess:
		return fmt.Sprintf(kubectlDescribeSuccessTemplateConstant, resourceKind, resourceName, namespaceLabel)
	case messageStageFailure:
		return fmt.Sprintf(kubectlDescribeFailureTemplateConstant, resourceKind, resourceName, namespaceLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(kubectlDescribeExecutionFailureTemplateConstant, resourceKind, resourceName, namespaceLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlLogsMessage(command ShellCommand, arguments []string, result ExecutionResult, failure error, stage messageStage) string {
	logSource := formatter.ensureValue(formatter.joinNonFlagArguments(arguments))
	namespaceLabel := formatter.describeNamespace(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(kubectlLogsStartTemplateConstant, logSource, namespaceLabel)
	case messageStageSuccess:
		return fmt.Sprintf(kubectlLogsSuccessTemplateConstant, logSource, namespaceLabel)
	case messageStageFailure:
		return fmt.Sprintf(kubectlLogsFailureTemplateConstant, logSource, namespaceLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(kubectlLogsExecutionFailureTemplateConstant, logSource, namespaceLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlPatchMessage(command ShellCommand, arguments []string, result ExecutionResult, failure error, stage messageStage) string {
	resourceKind := formatter.ensureValue(formatter.argumentAtIndex(arguments, 0))
	resourceName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
	namespaceLabel := formatter.describeNamespace(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(kubectlPatchStartTemplateConstant, resourceKind, resourceName, namespaceLabel)
	case messageStageSuccess:
		return fmt.Sprintf(kubectlPatchSuccessTemplateConstant, resourceKind, resourceName, namespaceLabel)
	case messageStageFailure:
		return fmt.Sprintf(kubectlPatchFailureTemplateConstant, resourceKind, resourceName, namespaceLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(kubectlPatchExecutionFailureTemplateConstant, resourceKind, resourceName, namespaceLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeKubectlRolloutMessage(command ShellCommand, arguments []string, result ExecutionResult, failure error, stage messageStage) string {
	rolloutArguments := arguments
	if len(rolloutArguments) > 0 {
		rolloutArguments = rolloutArguments[1:]
	}
	rolloutTarget := formatter.ensureValue(formatter.joinNonFlagArguments(rolloutArguments))
	namespaceLabel := formatter.describeNamespace(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(kubectlRolloutStartTemplateConstant, rolloutTarget, namespaceLabel)
	case messageStageSuccess:
		return fmt.Sprintf(kubectlRolloutSuccessTemplateConstant, rolloutTarget, namespaceLabel)
	case messageStageFailure:
		return fmt.Sprintf(kubectlRolloutFailureTemplateConstant, rolloutTarget, namespaceLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(kubectlRolloutExecutionFailureTemplateConstant, rolloutTarget, namespaceLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	switch strings.TrimSpace(arguments[0]) {
	case gitCloneSubcommandNameConstant:
		repositoryURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCloneStartTemplateConstant, repositoryURL)
		case messageStageSuccess:
			return fmt.Sprintf(gitCloneSuccessTemplateConstant, repositoryURL)
		case messageStageFailure:
			return fmt.Sprintf(gitCloneFailureTemplateConstant, repositoryURL, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCloneExecutionFailureTemplateConstant, repositoryURL, formatter.describeFailure(failure))
		}
	case gitCheckoutSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCheckoutStartTemplateConstant, branchName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, branchName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitCheckoutFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(gitCheckoutExecutionFailureTemplateConstant, branchName, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(arguments[0]) {
	case githubPullRequestSubcommandNameConstant:
		return formatter.describeGitHubPullRequestMessage(command, result, failure, stage)
	case githubAPICommandNameConstant:
		return formatter.describeGitHubAPIMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubPullRequestMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 3 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	pullRequestNumber := parseIntegerArgument(arguments[2])
	repository := formatter.ensureValue(findFlagValue(arguments, githubRepoFlagConstant))
	if repository == fallbackUnknownValueLabelConstant {
		repository = githubCurrentRepositoryLabelConstant
	}

	switch strings.TrimSpace(arguments[1]) {
	case githubPullRequestViewSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubPullRequestViewStartTemplateConstant, pullRequestNumber, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubPullRequestViewSuccessTemplateConstant, pullRequestNumber, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubPullRequestViewFailureTemplateConstant, pullRequestNumber, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubPullRequestViewExecutionFailureTemplateConstant, pullRequestNumber, repository, formatter.describeFailure(failure))
		}
	case githubPullRequestEditSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubPullRequestEditStartTemplateConstant, pullRequestNumber, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubPullRequestEditSuccessTemplateConstant, pullRequestNumber, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubPullRequestEditFailureTemplateConstant, pullRequestNumber, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubPullRequestEditExecutionFailureTemplateConstant, pullRequestNumber, repository, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitHubAPIMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	endpoint := strings.TrimSpace(arguments[1])
	if !strings.Contains(endpoint, githubCommentsEndpointSubstringConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	repository := formatter.extractRepositoryFromEndpoint(endpoint)
	method := strings.TrimSpace(findFlagValue(arguments, githubMethodFlagConstant))

	if method == githubCommentCreateMethodConstant {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubCommentCreateStartTemplateConstant, repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubCommentCreateSuccessTemplateConstant, repository)
		case messageStageFailure:
			return fmt.Sprintf(githubCommentCreateFailureTemplateConstant, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubCommentCreateExecutionFailureTemplateConstant, repository, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubCommentListStartTemplateConstant, repository)
	case messageStageSuccess:
		return fmt.Sprintf(githubCommentListSuccessTemplateConstant, repository)
	case messageStageFailure:
		return fmt.Sprintf(githubCommentListFailureTemplateConstant, repository, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(githubCommentListExecutionFailureTemplateConstant, repository, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return currentDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) describeNamespace(arguments []string) string {
	namespaceValue := findFlagValue(arguments, kubectlNamespaceFlagConstant)
	if len(namespaceValue) == 0 {
		namespaceValue = findFlagValue(arguments, kubectlNamespaceLongFlagConstant)
	}
	if len(namespaceValue) == 0 {
		return defaultNamespaceLabelConstant
	}
	return namespaceValue
}

func (formatter CommandMessageFormatter) splitKubectlSubcommand(arguments []string) (string, []string) {
	for argumentIndex, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		if argumentIndex > 0 {
			previousArgument := strings.TrimSpace(arguments[argumentIndex-1])
			if previousArgument == kubectlNamespaceFlagConstant || previousArgument == kubectlNamespaceLongFlagConstant {
				continue
			}
		}
		return trimmedArgument, arguments[argumentIndex+1:]
	}
	return emptyStringConstant, nil
}

func (formatter CommandMessageFormatter) extractManifestSource(arguments []string) string {
	for argumentIndex, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if trimmedArgument != kubectlFilenameFlagConstant && trimmedArgument != kubectlKustomizeFlagConstant {
			continue
		}
		if argumentIndex+1 >= len(arguments) {
			break
		}
		sourceValue := strings.TrimSpace(arguments[argumentIndex+1])
		if sourceValue == kubectlStdinReferenceConstant {
			return kubectlStdinSourceLabelConstant
		}
		if len(sourceValue) > 0 {
			return sourceValue
		}
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) extractFlagSuffixValue(arguments []string, flagPrefix string) string {
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmedArgument, flagPrefix) {
			return strings.TrimPrefix(trimmedArgument, flagPrefix)
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) joinNonFlagArguments(arguments []string) string {
	collectedArguments := make([]string, 0, len(arguments))
	skipNextArgument := false
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if skipNextArgument {
			skipNextArgument = false
			continue
		}
		if len(trimmedArgument) == 0 {
			continue
		}
		if trimmedArgument == kubectlNamespaceFlagConstant || trimmedArgument == kubectlNamespaceLongFlagConstant {
			skipNextArgument = true
			continue
		}
		if strings.HasPrefix(trimmedArgument, flagPrefixConstant) {
			continue
		}
		collectedArguments = append(collectedArguments, trimmedArgument)
	}
	return strings.Join(collectedArguments, commandArgumentsJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmedValue
}

func (formatter CommandMessageFormatter) extractRepositoryFromEndpoint(endpoint string) string {
	trimmedEndpoint := strings.TrimPrefix(strings.TrimSpace(endpoint), githubRepositoryEndpointPrefixConstant)
	endpointSegments := strings.Split(trimmedEndpoint, githubRepositoryPathSeparatorConstant)
	if len(endpointSegments) < githubRepositoryPathSegmentCountConstant {
		return githubCurrentRepositoryLabelConstant
	}
	return strings.Join(endpointSegments[:githubRepositoryPathSegmentCountConstant], githubRepositoryPathSeparatorConstant)
}

func findFlagValue(arguments []string, flagName string) string {
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flagName && argumentIndex+1 < len(arguments) {
			return strings.TrimSpace(arguments[argumentIndex+1])
		}
	}
	return emptyStringConstant
}

func parseIntegerArgument(argument string) int {
	trimmedArgument := strings.TrimSpace(argument)
	parsedValue := 0
	for _, argumentCharacter := range trimmedArgument {
		if argumentCharacter < '0' || argumentCharacter > '9' {
			return parsedValue
		}
		parsedValue = parsedValue*10 + int(argumentCharacter-'0')
	}
	return parsedValue
}
