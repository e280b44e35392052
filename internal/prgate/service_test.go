package prgate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipelab/dspctl/internal/githubcli"
	"github.com/pipelab/dspctl/internal/prgate"
)

const (
	gateTestRepositoryConstant        = "opendatahub-io/data-science-pipelines"
	gateTestPullRequestNumberConstant = 42
	synchronizeActionConstant         = "synchronize"
	openedActionConstant              = "opened"
)

type stubPullRequestGateway struct {
	pullRequestBody string
	issueComments   []githubcli.IssueComment
	updateBodyError error

	updatedBodies  []string
	postedComments []string
}

func (gateway *stubPullRequestGateway) ViewPullRequest(_ context.Context, _ string, _ int) (githubcli.PullRequestDetails, error) {
	return githubcli.PullRequestDetails{Body: gateway.pullRequestBody}, nil
}

func (gateway *stubPullRequestGateway) UpdatePullRequestBody(_ context.Context, _ string, _ int, updatedBody string) error {
	if gateway.updateBodyError != nil {
		return gateway.updateBodyError
	}
	gateway.updatedBodies = append(gateway.updatedBodies, updatedBody)
	gateway.pullRequestBody = updatedBody
	return nil
}

func (gateway *stubPullRequestGateway) ListIssueComments(_ context.Context, _ string, _ int) ([]githubcli.IssueComment, error) {
	return gateway.issueComments, nil
}

func (gateway *stubPullRequestGateway) CreateIssueComment(_ context.Context, _ string, _ int, commentBody string) error {
	gateway.postedComments = append(gateway.postedComments, commentBody)
	return nil
}

func newGateService(t *testing.T, gateway *stubPullRequestGateway) *prgate.Service {
	t.Helper()
	service, creationError := prgate.NewService(prgate.Dependencies{GitHubClient: gateway})
	require.NoError(t, creationError)
	return service
}

func TestNewServiceRequiresGitHubClient(t *testing.T) {
	service, creationError := prgate.NewService(prgate.Dependencies{})
	require.Nil(t, service)
	require.ErrorIs(t, creationError, prgate.ErrGitHubClientNotConfigured)
}

func TestEvaluatePassesWhenCheckboxChecked(t *testing.T) {
	gateway := &stubPullRequestGateway{pullRequestBody: "## Description\n\n" + checkedCheckboxLineConstant}
	service := newGateService(t, gateway)

	evaluationResult, evaluationError := service.Evaluate(context.Background(), prgate.Options{
		Repository:        gateTestRepositoryConstant,
		PullRequestNumber: gateTestPullRequestNumberConstant,
		EventAction:       openedActionConstant,
	})

	require.NoError(t, evaluationError)
	require.True(t, evaluationResult.Verified)
	require.Empty(t, gateway.updatedBodies)
	require.Empty(t, gateway.postedComments)
}

func TestEvaluatePostsInstructionCommentWhenUnverified(t *testing.T) {
	gateway := &stubPullRequestGateway{pullRequestBody: "## Description\n\nNo checkbox yet."}
	service := newGateService(t, gateway)

	evaluationResult, evaluationError := service.Evaluate(context.Background(), prgate.Options{
		Repository:        gateTestRepositoryConstant,
		PullRequestNumber: gateTestPullRequestNumberConstant,
		EventAction:       openedActionConstant,
	})

	require.ErrorIs(t, evaluationError, prgate.ErrVerificationRequired)
	require.False(t, evaluationResult.Verified)
	require.True(t, evaluationResult.InstructionPosted)
	require.Len(t, gateway.postedComments, 1)
	require.Contains(t, gateway.postedComments[0], prgate.InstructionCommentMarker)
}

func TestEvaluateSkipsInstructionCommentWhenBotAlreadyPosted(t *testing.T) {
	gateway := &stubPullRequestGateway{
		pullRequestBody: "## Description\n\n" + uncheckedCheckboxLineConstant,
		issueComments: []githubcli.IssueComment{
			{Body: "## " + prgate.InstructionCommentMarker + "\n\ninstructions", AuthorLogin: "github-actions[bot]", AuthorType: "Bot"},
		},
	}
	service := newGateService(t, gateway)

	evaluationResult, evaluationError := service.Evaluate(context.Background(), prgate.Options{
		Repository:        gateTestRepositoryConstant,
		PullRequestNumber: gateTestPullRequestNumberConstant,
		EventAction:       openedActionConstant,
	})

	require.ErrorIs(t, evaluationError, prgate.ErrVerificationRequired)
	require.False(t, evaluationResult.InstructionPosted)
	require.Empty(t, gateway.postedComments)
}

func TestEvaluateIgnoresMarkerInUserComments(t *testing.T) {
	gateway := &stubPullRequestGateway{
		pullRequestBody: "## Description\n\nNo checkbox.",
		issueComments: []githubcli.IssueComment{
			{Body: "Quoting the " + prgate.InstructionCommentMarker + " comment here", AuthorLogin: "reviewer", AuthorType: "User"},
		},
	}
	service := newGateService(t, gateway)

	evaluationResult, evaluationError := service.Evaluate(context.Background(), prgate.Options{
		Repository:        gateTestRepositoryConstant,
		PullRequestNumber: gateTestPullRequestNumberConstant,
	})

	require.ErrorIs(t, evaluationError, prgate.ErrVerificationRequired)
	require.True(t, evaluationResult.InstructionPosted)
	require.Len(t, gateway.postedComments, 1)
}

func TestEvaluateStripsCheckboxOnSynchronize(t *testing.T) {
	gateway := &stubPullRequestGateway{pullRequestBody: "## Description\n\n" + checkedCheckboxLineConstant + "\n\nDetails."}
	service := newGateService(t, gateway)

	evaluationResult, evaluationError := service.Evaluate(context.Background(), prgate.Options{
		Repository:        gateTestRepositoryConstant,
		PullRequestNumber: gateTestPullRequestNumberConstant,
		EventAction:       synchronizeActionConstant,
	})

	require.ErrorIs(t, evaluationError, prgate.ErrVerificationRequired)
	require.True(t, evaluationResult.CheckboxRemoved)
	require.False(t, evaluationResult.InstructionPosted)

	require.Len(t, gateway.updatedBodies, 1)
	require.NotContains(t, gateway.updatedBodies[0], "- [x]")

	require.Len(t, gateway.postedComments, 1)
	require.Contains(t, gateway.postedComments[0], "checkbox was removed")
}

func TestEvaluateKeepsCheckedBodyWhenDescriptionUpdateFails(t *testing.T) {
	gateway := &stubPullRequestGateway{
		pullRequestBody: "## Description\n\n" + checkedCheckboxLineConstant,
		updateBodyError: errors.New("pull request edit rejected"),
	}
	service := newGateService(t, gateway)

	evaluationResult, evaluationError := service.Evaluate(context.Background(), prgate.Options{
		Repository:        gateTestRepositoryConstant,
		PullRequestNumber: gateTestPullRequestNumberConstant,
		EventAction:       synchronizeActionConstant,
	})

	require.NoError(t, evaluationError)
	require.True(t, evaluationResult.Verified)
	require.False(t, evaluationResult.CheckboxRemoved)
	require.Empty(t, gateway.postedComments)
}

func TestEvaluateLeavesCheckboxOnNonSynchronizeEvents(t *testing.T) {
	gateway := &stubPullRequestGateway{pullRequestBody: uncheckedCheckboxLineConstant}
	service := newGateService(t, gateway)

	evaluationResult, evaluationError := service.Evaluate(context.Background(), prgate.Options{
		Repository:        gateTestRepositoryConstant,
		PullRequestNumber: gateTestPullRequestNumberConstant,
		EventAction:       openedActionConstant,
	})

	require.ErrorIs(t, evaluationError, prgate.ErrVerificationRequired)
	require.False(t, evaluationResult.CheckboxRemoved)
	require.Empty(t, gateway.updatedBodies)
}

func TestEvaluateValidatesOptions(t *testing.T) {
	service := newGateService(t, &stubPullRequestGateway{})

	_, missingRepositoryError := service.Evaluate(context.Background(), prgate.Options{PullRequestNumber: 1})
	require.Error(t, missingRepositoryError)

	_, missingNumberError := service.Evaluate(context.Background(), prgate.Options{Repository: gateTestRepositoryConstant})
	require.Error(t, missingNumberError)
}
