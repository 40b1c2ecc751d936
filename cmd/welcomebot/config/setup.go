package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/wardenbot/warden/pkg/logging"
)

// Parse loads the configuration from the environment, preferring a local
// .env file when one exists. The process exits if a required value is
// missing.
func Parse(l *slog.Logger) {
	// Best effort; deployments normally provide real environment variables.
	if err := godotenv.Load(); err == nil {
		l.Debug("Loaded configuration from .env file")
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envGuildId := os.Getenv(EnvGuildId); envGuildId != "" {
		l.Debug("Found guild ID in environment", slog.String("key", EnvGuildId))
		GuildId = envGuildId
	}

	if envRoles := os.Getenv(EnvAdminRoles); envRoles != "" {
		for _, role := range strings.Split(envRoles, ",") {
			if role = strings.TrimSpace(role); role != "" {
				AdminRoles = append(AdminRoles, role)
			}
		}
	}

	AdminUserId = os.Getenv(EnvAdminUserId)
	LogsChannelId = os.Getenv(EnvLogsChannelId)
	MongoUri = os.Getenv(EnvMongoUri)

	if envDataDir := os.Getenv(EnvDataDir); envDataDir != "" {
		DataDir = envDataDir
	} else {
		DataDir = "data"
		l.Info("No data directory provided in environment, defaulting to ./data", slog.String("key", EnvDataDir))
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		MonitoringPort = envMonitoringPort
	} else {
		// Default to 8080 if not provided.
		MonitoringPort = "8080"
		l.Info("No monitoring port provided in environment, defaulting to 8080", slog.String("key", EnvMonitoringPort))
	}

	if BotToken != "" &&
		ApplicationId != "" &&
		GuildId != "" {

		// All required environment variables have been provided.
		l.Debug("All required environment variables have been provided")
		return
	}

	l.Error("Not all required environment variables have been provided", slog.String(logging.KeyError, "Incomplete configuration"))
	os.Exit(1)
}
