// Package templates renders greeting text by literal token substitution.
// Unrecognised tokens pass through unchanged, so rendering is idempotent.
package templates

import (
	"strconv"
	"strings"
)

const (
	// TokenUserMention is replaced with the joining user's mention.
	TokenUserMention = "{user.mention}"

	// TokenUserName is replaced with the joining user's username.
	TokenUserName = "{user.name}"

	// TokenUserTag is replaced with the joining user's tag.
	TokenUserTag = "{user.tag}"

	// TokenServerName is replaced with the guild name.
	TokenServerName = "{server.name}"

	// TokenMemberCount is replaced with the guild member count.
	TokenMemberCount = "{member.count}"
)

// Data is the substitution set for one join event.
type Data struct {
	UserMention string
	UserName    string
	UserTag     string
	ServerName  string
	MemberCount int
}

// Render applies the substitution set to text by literal find-replace.
func Render(text string, d Data) string {
	r := strings.NewReplacer(
		TokenUserMention, d.UserMention,
		TokenUserName, d.UserName,
		TokenUserTag, d.UserTag,
		TokenServerName, d.ServerName,
		TokenMemberCount, strconv.Itoa(d.MemberCount),
	)
	return r.Replace(text)
}
