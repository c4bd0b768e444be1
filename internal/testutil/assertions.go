package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/ucompcheck/internal/model"
)

// IssueCodes returns the codes of issues in order, which is usually all a
// test needs to compare.
func IssueCodes(issues model.Issues) []model.Code {
	var codes []model.Code
	for _, i := range issues {
		codes = append(codes, i.Code)
	}
	return codes
}

// RequireIssue asserts that exactly one issue with code exists and returns it.
func RequireIssue(t *testing.T, result *HarnessResult, code model.Code) model.Issue {
	t.Helper()

	require.NoError(t, result.Err)
	require.NotNil(t, result.Result)
	var found []model.Issue
	for _, i := range result.Result.Issues {
		if i.Code == code {
			found = append(found, i)
		}
	}
	require.Len(t, found, 1, "expected exactly one %s issue, got %v", code, result.Result.Issues)
	return found[0]
}

// RequireNoIssues asserts a clean validation.
func RequireNoIssues(t *testing.T, result *HarnessResult) {
	t.Helper()

	require.NoError(t, result.Err)
	require.NotNil(t, result.Result)
	require.Empty(t, result.Result.Issues, "unexpected issues: %v", result.Result.Issues)
}
