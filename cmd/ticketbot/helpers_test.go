package main

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name        string
		member      *discordgo.Member
		adminRoles  []string
		adminUserID string
		want        bool
	}{
		{
			name:   "nil member",
			member: nil,
			want:   false,
		},
		{
			name: "holds admin role",
			member: &discordgo.Member{
				User:  &discordgo.User{ID: "user-1"},
				Roles: []string{"role-a", "role-admin"},
			},
			adminRoles: []string{"role-admin"},
			want:       true,
		},
		{
			name: "no admin role",
			member: &discordgo.Member{
				User:  &discordgo.User{ID: "user-1"},
				Roles: []string{"role-a"},
			},
			adminRoles: []string{"role-admin"},
			want:       false,
		},
		{
			name: "admin override user",
			member: &discordgo.Member{
				User: &discordgo.User{ID: "user-1"},
			},
			adminUserID: "user-1",
			want:        true,
		},
		{
			name: "no roles configured",
			member: &discordgo.Member{
				User:  &discordgo.User{ID: "user-1"},
				Roles: []string{"role-a"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAdmin(tt.member, tt.adminRoles, tt.adminUserID)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestIsTicketStaff(t *testing.T) {
	member := &discordgo.Member{
		User:  &discordgo.User{ID: "user-1"},
		Roles: []string{"role-support"},
	}

	tests := []struct {
		name         string
		ticketRoleID string
		adminRoles   []string
		adminUserID  string
		want         bool
	}{
		{
			name:         "holds responsible role",
			ticketRoleID: "role-support",
			want:         true,
		},
		{
			name:         "wrong responsible role falls back to admin",
			ticketRoleID: "role-other",
			adminRoles:   []string{"role-support"},
			want:         true,
		},
		{
			name:         "no responsible role recorded means admin only",
			ticketRoleID: "",
			want:         false,
		},
		{
			name:         "admin override user",
			ticketRoleID: "",
			adminUserID:  "user-1",
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isTicketStaff(member, tt.ticketRoleID, tt.adminRoles, tt.adminUserID)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestModalValue(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		CustomID: "some_modal",
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "first", Value: "one"},
			}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: "second", Value: "two"},
			}},
		},
	}

	require.Equal(t, "one", modalValue(data, "first"))
	require.Equal(t, "two", modalValue(data, "second"))
	require.Empty(t, modalValue(data, "missing"))
}
