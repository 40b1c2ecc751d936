package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/wardenbot/warden/cmd/ticketbot/config"
	"github.com/wardenbot/warden/pkg/logging"
)

func main() {
	a, err := InitializeApp()
	if err != nil {
		log.Fatalln(err)
	}
	config.Parse(a.Log())
	a.Log().Info("Starting application")
	if err := a.Run(); err != nil {
		a.Log().Error("Error running application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
}
