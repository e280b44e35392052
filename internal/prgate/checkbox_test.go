package prgate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipelab/dspctl/internal/prgate"
)

const (
	checkedCheckboxLineConstant   = "- [x] I have run the integration tests on an OpenShift cluster with ODH nightly"
	uncheckedCheckboxLineConstant = "- [ ] I have run the integration tests on an OpenShift cluster with ODH nightly"
)

func TestVerificationCheckboxDetection(t *testing.T) {
	testCases := []struct {
		name            string
		pullRequestBody string
		expectedChecked bool
		expectedPresent bool
	}{
		{
			name:            "checked_checkbox",
			pullRequestBody: "## Description\n\n" + checkedCheckboxLineConstant + "\n",
			expectedChecked: true,
			expectedPresent: true,
		},
		{
			name:            "unchecked_checkbox",
			pullRequestBody: "## Description\n\n" + uncheckedCheckboxLineConstant + "\n",
			expectedChecked: false,
			expectedPresent: true,
		},
		{
			name:            "uppercase_marker",
			pullRequestBody: "- [X] I have run the INTEGRATION TESTS on an OPENSHIFT CLUSTER with ODH NIGHTLY",
			expectedChecked: true,
			expectedPresent: true,
		},
		{
			name:            "missing_checkbox",
			pullRequestBody: "## Description\n\nRegular pull request text.",
			expectedChecked: false,
			expectedPresent: false,
		},
		{
			name:            "unrelated_checkbox",
			pullRequestBody: "- [x] I updated the documentation",
			expectedChecked: false,
			expectedPresent: false,
		},
		{
			name:            "keywords_out_of_order",
			pullRequestBody: "- [x] nightly odh cluster openshift tests integration",
			expectedChecked: false,
			expectedPresent: false,
		},
		{
			name:            "keywords_split_across_lines",
			pullRequestBody: "- [x] integration tests\nopenshift cluster odh nightly",
			expectedChecked: false,
			expectedPresent: false,
		},
		{
			name:            "empty_body",
			pullRequestBody: "",
			expectedChecked: false,
			expectedPresent: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedChecked, prgate.HasCheckedVerificationCheckbox(testCase.pullRequestBody))
			require.Equal(t, testCase.expectedPresent, prgate.HasVerificationCheckbox(testCase.pullRequestBody))
		})
	}
}

func TestRemoveVerificationCheckbox(t *testing.T) {
	testCases := []struct {
		name            string
		pullRequestBody string
		expectedBody    string
		expectedRemoved bool
	}{
		{
			name:            "removes_checked_line",
			pullRequestBody: "## Description\n\n" + checkedCheckboxLineConstant + "\n\nMore text.",
			expectedBody:    "## Description\n\n\nMore text.",
			expectedRemoved: true,
		},
		{
			name:            "removes_unchecked_line",
			pullRequestBody: uncheckedCheckboxLineConstant + "\nTrailing text.",
			expectedBody:    "Trailing text.",
			expectedRemoved: true,
		},
		{
			name:            "trims_when_checkbox_is_entire_body",
			pullRequestBody: checkedCheckboxLineConstant,
			expectedBody:    "",
			expectedRemoved: true,
		},
		{
			name:            "untouched_without_checkbox",
			pullRequestBody: "## Description\n\nNothing to strip here.",
			expectedBody:    "## Description\n\nNothing to strip here.",
			expectedRemoved: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			strippedBody, removed := prgate.RemoveVerificationCheckbox(testCase.pullRequestBody)
			require.Equal(t, testCase.expectedRemoved, removed)
			require.Equal(t, testCase.expectedBody, strippedBody)
		})
	}
}
