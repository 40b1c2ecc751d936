package entities

// Section is an admin-defined ticket category. Sections are keyed by a
// user-chosen number, which lives on the registry map rather than the record
// itself. Sections are never mutated in place; they are created and deleted
// whole.
type Section struct {
	// Title is the display title of the section.
	Title string `json:"title" bson:"title"`

	// Description is the description shown in the select menu and the
	// ticket welcome embed.
	Description string `json:"description" bson:"description"`

	// RoleID is the ID of the role responsible for tickets in this section.
	RoleID string `json:"role" bson:"role"`

	// CategoryID is the ID of the channel category that tickets in this
	// section are created under.
	CategoryID string `json:"category" bson:"category"`
}
