package prgate

import (
	"regexp"
	"strings"
)

const (
	checkedCheckboxPatternConstant   = `(?i)- \[x\].*integration.*tests.*openshift.*cluster.*odh.*nightly`
	uncheckedCheckboxPatternConstant = `(?i)- \[ \].*integration.*tests.*openshift.*cluster.*odh.*nightly`
	removableCheckboxPatternConstant = `(?i)- \[[x ]\].*integration.*tests.*openshift.*cluster.*odh.*nightly.*\n?`
)

var (
	checkedCheckboxExpression   = regexp.MustCompile(checkedCheckboxPatternConstant)
	uncheckedCheckboxExpression = regexp.MustCompile(uncheckedCheckboxPatternConstant)
	removableCheckboxExpression = regexp.MustCompile(removableCheckboxPatternConstant)
)

// HasCheckedVerificationCheckbox reports whether the description confirms the integration test run.
func HasCheckedVerificationCheckbox(pullRequestBody string) bool {
	return checkedCheckboxExpression.MatchString(pullRequestBody)
}

// HasVerificationCheckbox reports whether the description contains the checkbox in either state.
func HasVerificationCheckbox(pullRequestBody string) bool {
	return checkedCheckboxExpression.MatchString(pullRequestBody) || uncheckedCheckboxExpression.MatchString(pullRequestBody)
}

// RemoveVerificationCheckbox strips the checkbox line from the description and reports whether anything was removed.
func RemoveVerificationCheckbox(pullRequestBody string) (string, bool) {
	if !removableCheckboxExpression.MatchString(pullRequestBody) {
		return pullRequestBody, false
	}
	strippedBody := removableCheckboxExpression.ReplaceAllString(pullRequestBody, "")
	return strings.TrimSpace(strippedBody), true
}
