package mongostore

import (
	"github.com/wardenbot/warden/pkg/dataaccess"
)

// The Mongo backend must satisfy the same contracts as the file store.
var (
	_ dataaccess.TicketStore  = (*Store)(nil)
	_ dataaccess.WelcomeStore = (*Store)(nil)
)
