package templates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	data := Data{
		UserMention: "<@123>",
		UserName:    "wolf",
		UserTag:     "wolf#0001",
		ServerName:  "Den",
		MemberCount: 42,
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "AllTokens",
			text: "{user.mention} {user.name} {user.tag} joined {server.name}, now {member.count}",
			want: "<@123> wolf wolf#0001 joined Den, now 42",
		},
		{
			name: "NoTokens",
			text: "plain text stays plain",
			want: "plain text stays plain",
		},
		{
			name: "UnrecognisedTokenPassesThrough",
			text: "hello {user.nickname}",
			want: "hello {user.nickname}",
		},
		{
			name: "Empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Render(tt.text, data))
		})
	}
}

func TestRender_Idempotent(t *testing.T) {
	data := Data{
		UserMention: "<@123>",
		UserName:    "wolf",
		UserTag:     "wolf#0001",
		ServerName:  "Den",
		MemberCount: 42,
	}

	text := "welcome {user.mention} to {server.name} {unknown.token}"
	once := Render(text, data)
	require.Equal(t, once, Render(once, data))
}
