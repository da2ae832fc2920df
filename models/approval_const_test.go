package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApprovalType(t *testing.T) {
	for _, approvalType := range ApprovalTypes {
		require.Equal(t, true, approvalType.IsValid())
		require.NotEqual(t, string(approvalType), approvalType.ToHuman())
	}
	require.Equal(t, false, ApprovalType("bonus").IsValid())
	require.Equal(t, "bonus", ApprovalType("bonus").ToHuman())
}

func TestApprovalStatus(t *testing.T) {
	require.Equal(t, false, ApprovalStatusPending.IsTerminal())
	require.Equal(t, true, ApprovalStatusApproved.IsTerminal())
	require.Equal(t, true, ApprovalStatusRejected.IsTerminal())
	require.Equal(t, true, ApprovalStatusExpired.IsTerminal())
}
