// Copyright (c) 2025 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helixdb/driverconf"
)

var (
	requestTimeout     = driverconf.NewOption("basic.request.timeout", driverconf.KindDuration)
	requestConsistency = driverconf.NewOption("basic.request.consistency", driverconf.KindString)
)

func main() {
	slow := driverconf.NewProfileBuilder().
		WithString(requestConsistency, "EACH_QUORUM").
		Build()

	loader, err := driverconf.NewBuilder().
		WithDuration(requestTimeout, 500*time.Millisecond).
		WithProfile("slow", slow).
		Build()
	if err != nil {
		slog.Default().Error("failed to build loader", slog.String("error", err.Error()))
		return
	}

	cfg, err := loader.InitialConfig(context.Background())
	if err != nil {
		slog.Default().Error("failed to resolve config", slog.String("error", err.Error()))
		return
	}

	slowProfile, err := cfg.Profile("slow")
	if err != nil {
		slog.Default().Error("failed to get profile", slog.String("error", err.Error()))
		return
	}

	// Inherited from the default profile.
	timeout, _ := slowProfile.GetDuration(requestTimeout)
	consistency, _ := slowProfile.GetString(requestConsistency)
	fmt.Println("slow profile:", timeout, consistency)

	// Derive an on-the-fly variant without touching the base profile.
	patched, _ := slowProfile.WithDuration(requestTimeout, 2*time.Second).GetDuration(requestTimeout)
	fmt.Println("derived timeout:", patched)

	for _, e := range slowProfile.EntrySet() {
		fmt.Printf("%s = %v\n", e.Path, e.Value)
	}
}
