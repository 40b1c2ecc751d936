package main

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestTicketOverwrites(t *testing.T) {
	t.Run("everyone denied, requester allowed", func(t *testing.T) {
		overwrites := ticketOverwrites("guild-1", "user-1", "", nil)
		require.Len(t, overwrites, 2)

		everyone := overwrites[0]
		require.Equal(t, "guild-1", everyone.ID)
		require.Equal(t, discordgo.PermissionOverwriteTypeRole, everyone.Type)
		require.EqualValues(t, discordgo.PermissionViewChannel, everyone.Deny)

		requester := overwrites[1]
		require.Equal(t, "user-1", requester.ID)
		require.Equal(t, discordgo.PermissionOverwriteTypeMember, requester.Type)
		require.NotZero(t, requester.Allow&discordgo.PermissionViewChannel)
		require.NotZero(t, requester.Allow&discordgo.PermissionSendMessages)
		require.NotZero(t, requester.Allow&discordgo.PermissionReadMessageHistory)
	})

	t.Run("responsible role included when resolved", func(t *testing.T) {
		overwrites := ticketOverwrites("guild-1", "user-1", "role-1", nil)
		require.Len(t, overwrites, 3)

		staff := overwrites[2]
		require.Equal(t, "role-1", staff.ID)
		require.Equal(t, discordgo.PermissionOverwriteTypeRole, staff.Type)
		require.NotZero(t, staff.Allow&discordgo.PermissionManageMessages)
	})

	t.Run("admin roles appended", func(t *testing.T) {
		overwrites := ticketOverwrites("guild-1", "user-1", "role-1", []string{"admin-1", "admin-2"})
		require.Len(t, overwrites, 5)
		require.Equal(t, "admin-1", overwrites[3].ID)
		require.Equal(t, "admin-2", overwrites[4].ID)
		require.NotZero(t, overwrites[3].Allow&discordgo.PermissionManageChannels)
	})
}

// Closing revokes the requester's view and reopening restores exactly the
// permissions granted at creation.
func TestRequesterPermsRoundTrip(t *testing.T) {
	createAllow := int64(requesterAllow)

	closedAllow, closedDeny := closedRequesterPerms()
	require.Zero(t, closedAllow)
	require.NotZero(t, closedDeny&discordgo.PermissionViewChannel)

	openAllow, openDeny := openRequesterPerms()
	require.Equal(t, createAllow, openAllow)
	require.Zero(t, openDeny)
}
