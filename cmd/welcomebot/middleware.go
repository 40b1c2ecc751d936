package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wardenbot/warden/pkg/logging"
	"github.com/wardenbot/warden/pkg/request"
)

// commandController resolves a slash command interaction to its processor.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

// commandProcessor handles one interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

// Controller is a http handler.
type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage("Internal server error")); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				path = r.URL.Path
			}
		} else {
			path = r.URL.Path
		}

		defer func() {
			// Run after the handler, as the status code is not available until then.
			HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches each inbound interaction by kind and
// identifier. Any error from a processor is caught here and surfaced to the
// invoking user as a generic ephemeral failure; the process never exits on
// handler errors.
func interactionHandler(
	a IApp,
	slashControllers map[string]commandController,
	buttonProcessors map[string]commandProcessor,
	selectProcessors map[string]commandProcessor,
	modalProcessors map[string]commandProcessor,
) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.GuildID == "" || i.Member == nil {
			// Interactions outside the guild context are not served.
			return
		}

		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			name := i.ApplicationCommandData().Name
			controller, ok := slashControllers[name]
			if !ok {
				a.Log().Error("No controller found for command", slog.String("command", name))
				respondProcessingError(a, i)
				return
			}

			t := prometheus.NewTimer(InteractionDuration.WithLabelValues(name))
			defer t.ObserveDuration()

			processor, err := controller(a, i)
			if err != nil {
				a.Log().Error(fmt.Sprintf("Error getting processor for command %s", name),
					slog.String(logging.KeyError, err.Error()))
				respondProcessingError(a, i)
				return
			} else if processor == nil {
				// The controller already responded (capability rejection).
				return
			}

			if err := processor(a, i); err != nil {
				a.Log().Error(fmt.Sprintf("Error processing command %s", name),
					slog.String(logging.KeyError, err.Error()))
				respondProcessingError(a, i)
			}

		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID

			processors := buttonProcessors
			switch i.MessageComponentData().ComponentType {
			case discordgo.SelectMenuComponent,
				discordgo.ChannelSelectMenuComponent,
				discordgo.RoleSelectMenuComponent:
				processors = selectProcessors
			}

			dispatchComponent(a, i, customID, processors)

		case discordgo.InteractionModalSubmit:
			dispatchComponent(a, i, i.ModalSubmitData().CustomID, modalProcessors)
		}
	}
}

// dispatchComponent routes a component or modal interaction by its custom
// ID. Identifiers carrying a parameter after a colon are matched on the
// prefix.
func dispatchComponent(a IApp, i *discordgo.InteractionCreate, customID string, processors map[string]commandProcessor) {
	key := customID
	if idx := strings.IndexByte(customID, ':'); idx >= 0 {
		key = customID[:idx]
	}

	processor, ok := processors[key]
	if !ok {
		a.Log().Error("No processor found for component", slog.String("custom_id", customID))
		respondProcessingError(a, i)
		return
	}

	t := prometheus.NewTimer(InteractionDuration.WithLabelValues(key))
	defer t.ObserveDuration()

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing component %s", customID),
			slog.String(logging.KeyError, err.Error()))
		respondProcessingError(a, i)
	}
}

// respondProcessingError reports a generic failure to the invoking user.
// Errors responding are only logged; there is nothing else to do with them.
func respondProcessingError(a IApp, i *discordgo.InteractionCreate) {
	if err := respondEphemeral(a, i, "Something went wrong while processing your request."); err != nil {
		a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
	}
}
