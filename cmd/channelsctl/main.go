// Command channelsctl publishes events, inspects channels and serves the
// channel authorization and webhook endpoints for a Channels application.
//
// Usage:
//
//	channelsctl trigger -channel news -event update -data '{"id":1}'
//	channelsctl channels -prefix presence- -info user_count
//	channelsctl channel -name presence-room -info user_count,subscription_count
//	channelsctl users -channel presence-room
//	channelsctl serve
//
// Credentials come from CHANNELS_URL or CHANNELS_APP_ID, CHANNELS_KEY and
// CHANNELS_SECRET (optionally via .env or a CHANNELS_APPS_FILE).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	channels "go.pushkit.dev/channels-sdk"
	"go.pushkit.dev/channels-sdk/internal/config"
	"go.pushkit.dev/channels-sdk/rest/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errUsage = errors.New("usage: channelsctl <trigger|channels|channel|users|serve> [flags]")

func main() {
	cfg, err := config.Load()
	logger := newLogger(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to load configuration")
	}
	logger.Debug().Fields(cfg.Redacted()).Msg("configuration loaded")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sdk, err := newSDK(cfg, logger, reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to create channels SDK")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, errUsage)
		os.Exit(2)
	}
	if err := run(ctx, sdk, cfg, logger, reg, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logger.Fatal().Err(err).Str("command", os.Args[1]).Msg("command failed")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func newSDK(cfg config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*channels.SDK, error) {
	options := []channels.Option{
		channels.WithLogger(logger),
		channels.WithMetrics(reg),
		channels.WithTimeout(cfg.Timeout),
	}
	if cfg.URL != "" {
		options = append(options, channels.WithURL(cfg.URL))
	} else {
		options = append(options, channels.WithCredentials(cfg.App.AppID, cfg.App.Key, cfg.App.Secret))
		if cfg.App.Cluster != "" {
			options = append(options, channels.WithCluster(cfg.App.Cluster))
		}
		if cfg.App.Host != "" {
			options = append(options, channels.WithHost(cfg.App.Host))
		}
	}
	if cfg.App.EncryptionMasterKey != "" {
		options = append(options, channels.WithEncryptionMasterKey(cfg.App.EncryptionMasterKey))
	}
	return channels.NewSDK(options...)
}

func run(ctx context.Context, sdk *channels.SDK, cfg config.Config, logger zerolog.Logger, reg *prometheus.Registry, command string, args []string, out io.Writer) error {
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	switch command {
	case "trigger":
		channel := flags.String("channel", "", "comma separated channels to publish to")
		event := flags.String("event", "", "event name")
		data := flags.String("data", "", "event data, sent verbatim")
		socketID := flags.String("socket-id", "", "connection to exclude")
		info := flags.String("info", "", "comma separated attributes to return")
		if err := flags.Parse(args); err != nil {
			return err
		}
		resp, err := sdk.REST.Trigger(ctx, types.TriggerParams{
			Channels: splitList(*channel),
			Event:    *event,
			Data:     types.StringData(*data),
			SocketID: *socketID,
			Info:     splitList(*info),
		})
		if err != nil {
			return err
		}
		return printJSON(out, resp)

	case "channels":
		prefix := flags.String("prefix", "", "only list channels with this prefix")
		info := flags.String("info", "", "comma separated attributes to return")
		if err := flags.Parse(args); err != nil {
			return err
		}
		list, err := sdk.REST.GetChannels(ctx, types.ChannelsParams{FilterByPrefix: *prefix, Info: splitList(*info)})
		if err != nil {
			return err
		}
		return printJSON(out, list)

	case "channel":
		name := flags.String("name", "", "channel name")
		info := flags.String("info", "", "comma separated attributes to return")
		if err := flags.Parse(args); err != nil {
			return err
		}
		ch, err := sdk.REST.GetChannel(ctx, *name, types.ChannelParams{Info: splitList(*info)})
		if err != nil {
			return err
		}
		return printJSON(out, ch)

	case "users":
		channel := flags.String("channel", "", "presence channel name")
		if err := flags.Parse(args); err != nil {
			return err
		}
		users, err := sdk.REST.GetPresenceUsers(ctx, *channel)
		if err != nil {
			return err
		}
		return printJSON(out, users)

	case "serve":
		addr := flags.String("addr", cfg.ListenAddr, "listen address")
		if err := flags.Parse(args); err != nil {
			return err
		}
		return serve(ctx, *addr, newRouter(sdk, &logger, reg), logger)

	default:
		return errUsage
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
