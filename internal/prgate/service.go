package prgate

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pipelab/dspctl/internal/githubcli"
)

const (
	synchronizeEventActionConstant              = "synchronize"
	githubClientNotConfiguredMessageConstant    = "github client not configured"
	verificationRequiredMessageConstant         = "integration test verification required"
	repositoryRequiredMessageConstant           = "repository is required"
	pullRequestNumberRequiredMessageConstant    = "pull request number must be positive"
	logFieldRepositoryConstant                  = "repository"
	logFieldPullRequestNumberConstant           = "pull_request_number"
	logFieldEventActionConstant                 = "event_action"
	checkboxRemovedLogMessageConstant           = "verification checkbox removed after new commits"
	checkboxRemovalFailedLogMessageConstant     = "could not remove verification checkbox from description"
	verificationConfirmedLogMessageConstant     = "integration test verification confirmed"
	instructionAlreadyPostedLogMessageConstant  = "instruction comment already present"
	instructionCommentPostedLogMessageConstant  = "instruction comment posted"
	verificationOutstandingLogMessageConstant   = "integration test verification outstanding"
)

// Errors returned by the verification gate.
var (
	ErrGitHubClientNotConfigured = errors.New(githubClientNotConfiguredMessageConstant)
	ErrVerificationRequired      = errors.New(verificationRequiredMessageConstant)
)

// PullRequestGateway captures the GitHub operations the gate requires.
type PullRequestGateway interface {
	ViewPullRequest(executionContext context.Context, repository string, pullRequestNumber int) (githubcli.PullRequestDetails, error)
	UpdatePullRequestBody(executionContext context.Context, repository string, pullRequestNumber int, updatedBody string) error
	ListIssueComments(executionContext context.Context, repository string, pullRequestNumber int) ([]githubcli.IssueComment, error)
	CreateIssueComment(executionContext context.Context, repository string, pullRequestNumber int, commentBody string) error
}

// Dependencies enumerates the collaborators used by the verification gate.
type Dependencies struct {
	Logger       *zap.Logger
	GitHubClient PullRequestGateway
}

// Options configures a single gate evaluation.
type Options struct {
	Repository        string
	PullRequestNumber int
	EventName         string
	EventAction       string
}

// Result reports the actions taken during an evaluation.
type Result struct {
	Verified          bool
	CheckboxRemoved   bool
	InstructionPosted bool
}

// Service evaluates the verification gate for pull requests.
type Service struct {
	logger       *zap.Logger
	githubClient PullRequestGateway
}

// NewService validates dependencies and constructs a verification gate service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitHubClient == nil {
		return nil, ErrGitHubClientNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{logger: logger, githubClient: dependencies.GitHubClient}, nil
}

// Evaluate checks the pull request description for the verification checkbox.
//
// When the triggering event is a synchronize action the checkbox is stripped
// from the description first, so authors must confirm the tests again for the
// new commits. The evaluation fails with ErrVerificationRequired until the
// checked checkbox is present.
func (service *Service) Evaluate(executionContext context.Context, options Options) (Result, error) {
	if len(strings.TrimSpace(options.Repository)) == 0 {
		return Result{}, errors.New(repositoryRequiredMessageConstant)
	}
	if options.PullRequestNumber <= 0 {
		return Result{}, errors.New(pullRequestNumberRequiredMessageConstant)
	}

	pullRequestDetails, viewError := service.githubClient.ViewPullRequest(executionContext, options.Repository, options.PullRequestNumber)
	if viewError != nil {
		return Result{}, viewError
	}

	evaluationResult := Result{}
	pullRequestBody := pullRequestDetails.Body

	if strings.EqualFold(strings.TrimSpace(options.EventAction), synchronizeEventActionConstant) && HasVerificationCheckbox(pullRequestBody) {
		strippedBody, removed := RemoveVerificationCheckbox(pullRequestBody)
		if removed {
			removalError := service.removeCheckboxFromDescription(executionContext, options, strippedBody)
			if removalError != nil {
				service.logger.Warn(
					checkboxRemovalFailedLogMessageConstant,
					zap.String(logFieldRepositoryConstant, options.Repository),
					zap.Int(logFieldPullRequestNumberConstant, options.PullRequestNumber),
					zap.Error(removalError),
				)
			} else {
				evaluationResult.CheckboxRemoved = true
				pullRequestBody = strippedBody
				service.logger.Info(
					checkboxRemovedLogMessageConstant,
					zap.String(logFieldRepositoryConstant, options.Repository),
					zap.Int(logFieldPullRequestNumberConstant, options.PullRequestNumber),
					zap.String(logFieldEventActionConstant, options.EventAction),
				)
			}
		}
	}

	if HasCheckedVerificationCheckbox(pullRequestBody) {
		evaluationResult.Verified = true
		service.logger.Info(
			verificationConfirmedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, options.Repository),
			zap.Int(logFieldPullRequestNumberConstant, options.PullRequestNumber),
		)
		return evaluationResult, nil
	}

	if !evaluationResult.CheckboxRemoved {
		instructionPosted, ensureError := service.ensureInstructionComment(executionContext, options)
		if ensureError != nil {
			return evaluationResult, ensureError
		}
		evaluationResult.InstructionPosted = instructionPosted
	}

	service.logger.Warn(
		verificationOutstandingLogMessageConstant,
		zap.String(logFieldRepositoryConstant, options.Repository),
		zap.Int(logFieldPullRequestNumberConstant, options.PullRequestNumber),
	)

	return evaluationResult, ErrVerificationRequired
}

// removeCheckboxFromDescription rewrites the pull request body and announces the
// removal. The caller continues evaluating the original body when either call
// fails, so the gate still reflects the description the author last saw.
func (service *Service) removeCheckboxFromDescription(executionContext context.Context, options Options, strippedBody string) error {
	updateError := service.githubClient.UpdatePullRequestBody(executionContext, options.Repository, options.PullRequestNumber, strippedBody)
	if updateError != nil {
		return updateError
	}
	return service.githubClient.CreateIssueComment(executionContext, options.Repository, options.PullRequestNumber, RemovalCommentBody())
}

// ensureInstructionComment posts the instruction comment unless a Bot already did.
func (service *Service) ensureInstructionComment(executionContext context.Context, options Options) (bool, error) {
	issueComments, listError := service.githubClient.ListIssueComments(executionContext, options.Repository, options.PullRequestNumber)
	if listError != nil {
		return false, listError
	}

	for _, issueComment := range issueComments {
		if issueComment.AuthorType != botAuthorTypeConstant {
			continue
		}
		if strings.Contains(issueComment.Body, InstructionCommentMarker) {
			service.logger.Info(
				instructionAlreadyPostedLogMessageConstant,
				zap.String(logFieldRepositoryConstant, options.Repository),
				zap.Int(logFieldPullRequestNumberConstant, options.PullRequestNumber),
			)
			return false, nil
		}
	}

	commentError := service.githubClient.CreateIssueComment(executionContext, options.Repository, options.PullRequestNumber, InstructionCommentBody())
	if commentError != nil {
		return false, commentError
	}

	service.logger.Info(
		instructionCommentPostedLogMessageConstant,
		zap.String(logFieldRepositoryConstant, options.Repository),
		zap.Int(logFieldPullRequestNumberConstant, options.PullRequestNumber),
	)

	return true, nil
}
