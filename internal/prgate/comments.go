package prgate

const (
	// InstructionCommentMarker identifies a previously posted instruction comment.
	InstructionCommentMarker = "Integration Test Verification Required"

	botAuthorTypeConstant = "Bot"

	instructionCommentBodyConstant = "## Integration Test Verification Required\n\n" +
		"This pull request cannot merge until the integration tests have been run against " +
		"an OpenShift cluster with an ODH nightly build.\n\n" +
		"Once the tests pass, add the following line to the pull request description and " +
		"check the box:\n\n" +
		"```\n" +
		"- [ ] I have run the integration tests on an OpenShift cluster with ODH nightly\n" +
		"```\n\n" +
		"Checking the box re-triggers this verification."

	removalCommentBodyConstant = "New commits were pushed to this pull request, so the integration test " +
		"verification checkbox was removed from the description.\n\n" +
		"Please re-run the integration tests on an OpenShift cluster with ODH nightly and " +
		"check the box again once they pass."
)

// InstructionCommentBody returns the comment instructing authors how to confirm verification.
func InstructionCommentBody() string {
	return instructionCommentBodyConstant
}

// RemovalCommentBody returns the comment posted after stripping a stale checkbox.
func RemovalCommentBody() string {
	return removalCommentBodyConstant
}
