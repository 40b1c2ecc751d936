package config

const (
	// AppName is the name of the application.
	AppName = "ticketbot"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvApplicationId is the environment variable for the application ID.
	EnvApplicationId = `APPLICATION_ID`

	// EnvGuildId is the environment variable for the guild the bot serves.
	EnvGuildId = `GUILD_ID`

	// EnvAdminRoles is the environment variable for the comma-separated
	// list of admin role IDs.
	EnvAdminRoles = `ADMIN_ROLES`

	// EnvAdminUserId is the environment variable for the optional
	// admin-override user ID.
	EnvAdminUserId = `ADMIN_USER_ID`

	// EnvLogsChannelId is the environment variable for the audit log
	// channel.
	EnvLogsChannelId = `LOGS_CHANNEL_ID`

	// EnvDataDir is the environment variable for the JSON store directory.
	EnvDataDir = `DATA_DIR`

	// EnvMongoUri is the environment variable for the optional MongoDB
	// URI. When set, the Mongo store backend is used instead of the flat
	// JSON files.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring
	// port.
	EnvMonitoringPort = `MONITORING_PORT`
)

var (
	// BotToken is the token for the bot.
	BotToken string

	// ApplicationId is the ID of the application.
	ApplicationId string

	// GuildId is the ID of the guild that the bot serves.
	GuildId string

	// AdminRoles are the role IDs with full administrative access to the
	// ticket system.
	AdminRoles []string

	// AdminUserId is an optional user ID that passes every capability
	// check regardless of roles.
	AdminUserId string

	// LogsChannelId is the channel that audit log embeds are sent to.
	// Empty disables audit logging.
	LogsChannelId string

	// DataDir is the directory that the JSON store documents live in.
	DataDir string

	// MongoUri is the URI for the optional MongoDB backend.
	MongoUri string

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string
)
