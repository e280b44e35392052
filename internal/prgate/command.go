package prgate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pipelab/dspctl/internal/execshell"
	"github.com/pipelab/dspctl/internal/githubauth"
	"github.com/pipelab/dspctl/internal/githubcli"
	"github.com/pipelab/dspctl/internal/utils"
)

const (
	commandUseConstant                   = "pr-gate"
	commandShortDescriptionConstant      = "Verify the integration test checkbox on a pull request"
	commandLongDescriptionConstant       = "pr-gate fails until the pull request description confirms that the integration tests ran on an OpenShift cluster with ODH nightly, and it strips stale confirmations when new commits are pushed."
	repositoryFlagNameConstant           = "repository"
	repositoryFlagDescriptionConstant    = "Repository in owner/name form"
	pullRequestFlagNameConstant          = "pr-number"
	pullRequestFlagDescriptionConstant   = "Pull request number to evaluate"
	eventNameFlagNameConstant            = "event-name"
	eventNameFlagDescriptionConstant     = "Name of the triggering event"
	eventActionFlagNameConstant          = "event-action"
	eventActionFlagDescriptionConstant   = "Action of the triggering event"
	missingRepositoryMessageConstant     = "repository is required; supply --repository"
	missingPullRequestMessageConstant    = "pull request number is required; supply --pr-number"
	missingGitHubTokenMessageConstant    = "github token is required; set GH_TOKEN or GITHUB_TOKEN"
	checkboxRemovedOutputConstant        = "Stale verification checkbox removed from the pull request description."
	verificationConfirmedOutputConstant  = "Integration test verification confirmed."
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the pr-gate command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitHubClient                 PullRequestGateway
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the pr-gate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)
	command.Flags().Int(pullRequestFlagNameConstant, 0, pullRequestFlagDescriptionConstant)
	command.Flags().String(eventNameFlagNameConstant, "", eventNameFlagDescriptionConstant)
	command.Flags().String(eventActionFlagNameConstant, "", eventActionFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()

	repository, repositoryFlagError := command.Flags().GetString(repositoryFlagNameConstant)
	if repositoryFlagError != nil {
		return repositoryFlagError
	}
	if len(strings.TrimSpace(repository)) == 0 {
		repository = configuration.Repository
	}
	if len(strings.TrimSpace(repository)) == 0 {
		if command != nil {
			_ = command.Help()
		}
		return errors.New(missingRepositoryMessageConstant)
	}

	pullRequestNumber, pullRequestFlagError := command.Flags().GetInt(pullRequestFlagNameConstant)
	if pullRequestFlagError != nil {
		return pullRequestFlagError
	}
	if pullRequestNumber <= 0 {
		if command != nil {
			_ = command.Help()
		}
		return errors.New(missingPullRequestMessageConstant)
	}

	eventName, eventNameFlagError := command.Flags().GetString(eventNameFlagNameConstant)
	if eventNameFlagError != nil {
		return eventNameFlagError
	}
	if len(strings.TrimSpace(eventName)) == 0 {
		eventName = configuration.EventName
	}

	eventAction, eventActionFlagError := command.Flags().GetString(eventActionFlagNameConstant)
	if eventActionFlagError != nil {
		return eventActionFlagError
	}

	logger := builder.resolveLogger()

	githubClient, clientError := builder.resolveGitHubClient(logger)
	if clientError != nil {
		return clientError
	}

	service, serviceCreationError := NewService(Dependencies{Logger: logger, GitHubClient: githubClient})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	evaluationResult, evaluationError := service.Evaluate(command.Context(), Options{
		Repository:        strings.TrimSpace(repository),
		PullRequestNumber: pullRequestNumber,
		EventName:         strings.TrimSpace(eventName),
		EventAction:       strings.TrimSpace(eventAction),
	})

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	if evaluationResult.CheckboxRemoved {
		fmt.Fprintln(outputWriter, checkboxRemovedOutputConstant)
	}
	if evaluationError == nil {
		fmt.Fprintln(outputWriter, verificationConfirmedOutputConstant)
	}

	return evaluationError
}

func (builder *CommandBuilder) resolveGitHubClient(logger *zap.Logger) (PullRequestGateway, error) {
	if builder.GitHubClient != nil {
		return builder.GitHubClient, nil
	}

	if _, tokenAvailable := githubauth.ResolveToken(nil); !tokenAvailable {
		return nil, errors.New(missingGitHubTokenMessageConstant)
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	executor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), humanReadableLogging)
	if executorError != nil {
		return nil, executorError
	}

	return githubcli.NewClient(executor)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
