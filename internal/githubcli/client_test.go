package githubcli_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipelab/dspctl/internal/execshell"
	"github.com/pipelab/dspctl/internal/githubcli"
)

const (
	testRepositoryConstant        = "opendatahub-io/data-science-pipelines"
	testPullRequestNumberConstant = 42
)

type stubGitHubExecutor struct {
	recordedDetails []execshell.CommandDetails
	result          execshell.ExecutionResult
	executionError  error
}

func (executor *stubGitHubExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if executor.executionError != nil {
		return execshell.ExecutionResult{}, executor.executionError
	}
	return executor.result, nil
}

func TestNewClientRequiresExecutor(t *testing.T) {
	clientInstance, creationError := githubcli.NewClient(nil)
	require.Nil(t, clientInstance)
	require.ErrorIs(t, creationError, githubcli.ErrExecutorNotConfigured)
}

func TestViewPullRequestDecodesBody(t *testing.T) {
	executor := &stubGitHubExecutor{result: execshell.ExecutionResult{StandardOutput: `{"body":"## Description\n- [x] checklist"}`}}
	clientInstance, creationError := githubcli.NewClient(executor)
	require.NoError(t, creationError)

	pullRequestDetails, viewError := clientInstance.ViewPullRequest(context.Background(), testRepositoryConstant, testPullRequestNumberConstant)
	require.NoError(t, viewError)
	require.Equal(t, "## Description\n- [x] checklist", pullRequestDetails.Body)
	require.Equal(t, []string{"pr", "view", "42", "--repo", testRepositoryConstant, "--json", "body"}, executor.recordedDetails[0].Arguments)
}

func TestViewPullRequestValidatesInputs(t *testing.T) {
	clientInstance, creationError := githubcli.NewClient(&stubGitHubExecutor{})
	require.NoError(t, creationError)

	testCases := []struct {
		name              string
		repository        string
		pullRequestNumber int
	}{
		{name: "missing_repository", repository: "  ", pullRequestNumber: testPullRequestNumberConstant},
		{name: "non_positive_number", repository: testRepositoryConstant, pullRequestNumber: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, viewError := clientInstance.ViewPullRequest(context.Background(), testCase.repository, testCase.pullRequestNumber)
			var invalidInput githubcli.InvalidInputError
			require.ErrorAs(t, viewError, &invalidInput)
		})
	}
}

func TestViewPullRequestWrapsDecodingFailures(t *testing.T) {
	executor := &stubGitHubExecutor{result: execshell.ExecutionResult{StandardOutput: "not json"}}
	clientInstance, creationError := githubcli.NewClient(executor)
	require.NoError(t, creationError)

	_, viewError := clientInstance.ViewPullRequest(context.Background(), testRepositoryConstant, testPullRequestNumberConstant)
	var decodingError githubcli.ResponseDecodingError
	require.ErrorAs(t, viewError, &decodingError)
}

func TestUpdatePullRequestBodySendsBodyThroughStandardInput(t *testing.T) {
	executor := &stubGitHubExecutor{}
	clientInstance, creationError := githubcli.NewClient(executor)
	require.NoError(t, creationError)

	updateError := clientInstance.UpdatePullRequestBody(context.Background(), testRepositoryConstant, testPullRequestNumberConstant, "updated description")
	require.NoError(t, updateError)
	require.Equal(t, []string{"pr", "edit", "42", "--repo", testRepositoryConstant, "--body-file", "-"}, executor.recordedDetails[0].Arguments)
	require.Equal(t, []byte("updated description"), executor.recordedDetails[0].StandardInput)
}

func TestListIssueCommentsDecodesAuthorIdentity(t *testing.T) {
	executor := &stubGitHubExecutor{result: execshell.ExecutionResult{StandardOutput: `[
		{"body":"first comment","user":{"login":"github-actions[bot]","type":"Bot"}},
		{"body":"second comment","user":{"login":"reviewer","type":"User"}}
	]`}}
	clientInstance, creationError := githubcli.NewClient(executor)
	require.NoError(t, creationError)

	issueComments, listError := clientInstance.ListIssueComments(context.Background(), testRepositoryConstant, testPullRequestNumberConstant)
	require.NoError(t, listError)
	require.Equal(t, []githubcli.IssueComment{
		{Body: "first comment", AuthorLogin: "github-actions[bot]", AuthorType: "Bot"},
		{Body: "second comment", AuthorLogin: "reviewer", AuthorType: "User"},
	}, issueComments)
	require.Equal(t, "repos/opendatahub-io/data-science-pipelines/issues/42/comments", executor.recordedDetails[0].Arguments[1])
}

func TestCreateIssueCommentEncodesPayload(t *testing.T) {
	executor := &stubGitHubExecutor{}
	clientInstance, creationError := githubcli.NewClient(executor)
	require.NoError(t, creationError)

	createError := clientInstance.CreateIssueComment(context.Background(), testRepositoryConstant, testPullRequestNumberConstant, "please verify")
	require.NoError(t, createError)

	recordedArguments := executor.recordedDetails[0].Arguments
	require.Contains(t, recordedArguments, "-X")
	require.Contains(t, recordedArguments, "POST")
	require.JSONEq(t, `{"body":"please verify"}`, string(executor.recordedDetails[0].StandardInput))
}

func TestCreateIssueCommentRejectsEmptyBody(t *testing.T) {
	clientInstance, creationError := githubcli.NewClient(&stubGitHubExecutor{})
	require.NoError(t, creationError)

	createError := clientInstance.CreateIssueComment(context.Background(), testRepositoryConstant, testPullRequestNumberConstant, "   ")
	var invalidInput githubcli.InvalidInputError
	require.ErrorAs(t, createError, &invalidInput)
}
