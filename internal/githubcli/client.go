package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pipelab/dspctl/internal/execshell"
)

const (
	pullRequestSubcommandConstant              = "pr"
	viewSubcommandConstant                     = "view"
	editSubcommandConstant                     = "edit"
	apiSubcommandConstant                      = "api"
	jsonFlagConstant                           = "--json"
	repoFlagConstant                           = "--repo"
	bodyFileFlagConstant                       = "--body-file"
	methodFlagConstant                         = "-X"
	inputFlagConstant                          = "--input"
	stdinReferenceConstant                     = "-"
	acceptHeaderFlagConstant                   = "-H"
	acceptHeaderValueConstant                  = "Accept: application/vnd.github+json"
	httpMethodPostConstant                     = "POST"
	pullRequestBodyJSONFieldConstant           = "body"
	repositoryFieldNameConstant                = "repository"
	pullRequestNumberFieldNameConstant         = "pull_request_number"
	commentBodyFieldNameConstant               = "comment_body"
	requiredValueMessageConstant               = "value required"
	positiveValueMessageConstant               = "positive value required"
	executorNotConfiguredMessageConstant       = "github cli executor not configured"
	operationErrorMessageTemplateConstant      = "%s operation failed"
	operationErrorWithCauseTemplateConstant    = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant      = "%s response decoding failed: %s"
	payloadEncodingErrorTemplateConstant       = "%s payload encoding failed: %s"
	invalidInputErrorTemplateConstant          = "%s: %s"
	issueCommentsEndpointTemplateConstant      = "repos/%s/issues/%d/comments"
	viewPullRequestOperationNameConstant       = OperationName("ViewPullRequest")
	updatePullRequestBodyOperationNameConstant = OperationName("UpdatePullRequestBody")
	listIssueCommentsOperationNameConstant     = OperationName("ListIssueComments")
	createIssueCommentOperationNameConstant    = OperationName("CreateIssueComment")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// PullRequestDetails contains pull request fields resolved through gh pr view.
type PullRequestDetails struct {
	Body string
}

// IssueComment represents a single issue comment with its author identity.
type IssueComment struct {
	Body        string
	AuthorLogin string
	AuthorType  string
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
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
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
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

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// PayloadEncodingError indicates JSON encoding issues.
type PayloadEncodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the encoding failure.
func (encodingError PayloadEncodingError) Error() string {
	return fmt.Sprintf(payloadEncodingErrorTemplateConstant, encodingError.Operation, encodingError.Cause)
}

// Unwrap exposes the underlying error.
func (encodingError PayloadEncodingError) Unwrap() error {
	return encodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// ViewPullRequest retrieves pull request details using gh pr view.
func (client *Client) ViewPullRequest(executionContext context.Context, repository string, pullRequestNumber int) (PullRequestDetails, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return PullRequestDetails{}, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if pullRequestNumber <= 0 {
		return PullRequestDetails{}, InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			viewSubcommandConstant,
			strconv.Itoa(pullRequestNumber),
			repoFlagConstant,
			repositoryIdentifier,
			jsonFlagConstant,
			pullRequestBodyJSONFieldConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return PullRequestDetails{}, OperationError{Operation: viewPullRequestOperationNameConstant, Cause: executionError}
	}

	var response struct {
		Body string `json:"body"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return PullRequestDetails{}, ResponseDecodingError{Operation: viewPullRequestOperationNameConstant, Cause: decodingError}
	}

	return PullRequestDetails{Body: response.Body}, nil
}

// UpdatePullRequestBody replaces the pull request description using gh pr edit.
func (client *Client) UpdatePullRequestBody(executionContext context.Context, repository string, pullRequestNumber int, updatedBody string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if pullRequestNumber <= 0 {
		return InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			editSubcommandConstant,
			strconv.Itoa(pullRequestNumber),
			repoFlagConstant,
			repositoryIdentifier,
			bodyFileFlagConstant,
			stdinReferenceConstant,
		},
		StandardInput: []byte(updatedBody),
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: updatePullRequestBodyOperationNameConstant, Cause: executionError}
	}

	return nil
}

// ListIssueComments enumerates issue comments for the pull request using gh api.
func (client *Client) ListIssueComments(executionContext context.Context, repository string, pullRequestNumber int) ([]IssueComment, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if pullRequestNumber <= 0 {
		return nil, InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(issueCommentsEndpointTemplateConstant, repositoryIdentifier, pullRequestNumber),
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listIssueCommentsOperationNameConstant, Cause: executionError}
	}

	var response []struct {
		Body string `json:"body"`
		User struct {
			Login string `json:"login"`
			Type  string `json:"type"`
		} `json:"user"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listIssueCommentsOperationNameConstant, Cause: decodingError}
	}

	issueComments := make([]IssueComment, 0, len(response))
	for _, commentEntry := range response {
		issueComments = append(issueComments, IssueComment{
			Body:        commentEntry.Body,
			AuthorLogin: commentEntry.User.Login,
			AuthorType:  commentEntry.User.Type,
		})
	}

	return issueComments, nil
}

// CreateIssueComment posts a new comment on the pull request using gh api.
func (client *Client) CreateIssueComment(executionContext context.Context, repository string, pullRequestNumber int, commentBody string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if pullRequestNumber <= 0 {
		return InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}
	if len(strings.TrimSpace(commentBody)) == 0 {
		return InvalidInputError{FieldName: commentBodyFieldNameConstant, Message: requiredValueMessageConstant}
	}

	payload := struct {
		Body string `json:"body"`
	}{Body: commentBody}

	payloadBytes, encodingError := json.Marshal(payload)
	if encodingError != nil {
		return PayloadEncodingError{Operation: createIssueCommentOperationNameConstant, Cause: encodingError}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			fmt.Sprintf(issueCommentsEndpointTemplateConstant, repositoryIdentifier, pullRequestNumber),
			methodFlagConstant,
			httpMethodPostConstant,
			inputFlagConstant,
			stdinReferenceConstant,
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
		StandardInput: payloadBytes,
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: createIssueCommentOperationNameConstant, Cause: executionError}
	}

	return nil
}
