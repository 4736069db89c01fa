// Copyright (c) 2025 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/helixdb/driverconf"
)

var requestTimeout = driverconf.NewOption("basic.request.timeout", driverconf.KindDuration)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{})

	loader, err := driverconf.NewBuilder(
		driverconf.FromFile(os.DirFS("."), "config.yaml"),
	).Build(
		driverconf.LogHandler(logHandler),
		driverconf.OnReloadError(func(err error) {
			slog.Default().Error("reload failed, keeping last good config", slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		slog.Default().Error("failed to build loader", slog.String("error", err.Error()))
		return
	}

	cfg, err := loader.InitialConfig(ctx)
	if err != nil {
		slog.Default().Error("failed to resolve config", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
			p := cfg.DefaultProfile()
			timeout, err := p.GetDuration(requestTimeout)
			if err != nil {
				fmt.Println("generation", p.Generation(), "error:", err)
				continue
			}
			fmt.Println("generation", p.Generation(), "timeout:", timeout)
		}
	}()

	err = loader.Watch(ctx, "config.yaml")
	if err != nil {
		slog.Default().Error("failed to watch config file", slog.String("error", err.Error()))
	}
}
