package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTicket_ChannelName(t *testing.T) {
	tests := []struct {
		name   string
		ticket *Ticket
		want   string
	}{
		{
			name:   "Open",
			ticket: &Ticket{Number: 1, Status: TicketStatusOpen},
			want:   "\U0001F3AB・1",
		},
		{
			name:   "Closed",
			ticket: &Ticket{Number: 42, Status: TicketStatusClosed},
			want:   "\U0001F510・42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.ticket.ChannelName())
		})
	}
}

func TestTicket_CloseReopen(t *testing.T) {
	ticket := &Ticket{Number: 7, Status: TicketStatusOpen}

	require.NoError(t, ticket.Close("staff-1", "resolved"))
	require.Equal(t, TicketStatusClosed, ticket.Status)
	require.Equal(t, "staff-1", ticket.ClosedBy)
	require.Equal(t, "resolved", ticket.CloseReason)

	// Closing twice fails.
	require.Error(t, ticket.Close("staff-2", "again"))

	require.NoError(t, ticket.Reopen())
	require.Equal(t, TicketStatusOpen, ticket.Status)
	require.Empty(t, ticket.ClosedBy)
	require.Empty(t, ticket.CloseReason)

	// Reopening an open ticket fails.
	require.Error(t, ticket.Reopen())
}
