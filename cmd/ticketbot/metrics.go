package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wardenbot/warden/cmd/ticketbot/config"
)

var (
	// TotalDiscordEvents is the total number of gateway events.
	TotalDiscordEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_total_discord_events", config.AppName),
			Help: "Total number of events",
		},
		[]string{"event"},
	)

	// HttpTotalRequests is the total number of http requests.
	HttpTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_http_total_requests", config.AppName),
			Help: "Total number of http requests",
		},
		[]string{"path", "method", "status_code"},
	)

	// HttpRequestDuration is the duration of the http request.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_http_request_duration", config.AppName),
			Help: "Duration of the http request",
		},
		[]string{"path", "method", "status_code"},
	)

	// TicketsCreated is the total number of tickets created.
	TicketsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_tickets_created", config.AppName),
			Help: "Total number of tickets created",
		},
	)

	// TicketsClosed is the total number of tickets closed.
	TicketsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_tickets_closed", config.AppName),
			Help: "Total number of tickets closed",
		},
	)

	// InteractionDuration is the duration of interaction handling by
	// identifier.
	InteractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_interaction_duration", config.AppName),
			Help: "Duration of interaction handling",
		},
		[]string{"interaction"},
	)
)
