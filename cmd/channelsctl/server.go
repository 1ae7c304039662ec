package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	channels "go.pushkit.dev/channels-sdk"
	"go.pushkit.dev/channels-sdk/pkg/auth"
	"go.pushkit.dev/channels-sdk/rest"
	"go.pushkit.dev/channels-sdk/rest/types"
)

// userIDHeader carries the authenticated user, set by the proxy in front of
// channelsctl. Presence subscriptions without it are refused.
const userIDHeader = "X-User-ID"

func newRouter(sdk *channels.SDK, logger *zerolog.Logger, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Post("/channels/auth", sdk.REST.CreateAuthHandler(logger, headerMember))
	r.Post("/channels/webhook", sdk.REST.CreateWebhookHandler(logger, func(ctx context.Context, webhook *types.Webhook) error {
		for _, e := range webhook.Events {
			logger.Info().
				Str("request_id", middleware.GetReqID(ctx)).
				Str("name", e.Name).
				Str("channel", e.Channel).
				Str("user_id", e.UserID).
				Time("time", webhook.Time()).
				Msg("webhook event")
		}
		return nil
	}))

	return r
}

func headerMember(r *http.Request, _, _ string) (*auth.MemberData, error) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		return nil, rest.ErrForbidden
	}
	return &auth.MemberData{UserID: userID}, nil
}

func serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
