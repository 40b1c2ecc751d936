package logging

const (
	// KeyError is the key for an error.
	KeyError = "err"

	// KeyAppName is the key for the application name.
	KeyAppName = "app"

	// KeyStore is the key for the store that a record originated from.
	KeyStore = "store"

	// KeySignal is the key for an OS signal.
	KeySignal = "signal"

	// KeyGuild is the key for a guild ID.
	KeyGuild = "guild"

	// KeyChannel is the key for a channel ID.
	KeyChannel = "channel"

	// KeyUser is the key for a user ID.
	KeyUser = "user"

	// KeyTicket is the key for a ticket number.
	KeyTicket = "ticket"

	// EnvDebug is the environment variable that enables debug logging.
	EnvDebug = "LOG_DEBUG"
)
