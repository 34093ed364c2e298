package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whaletrack/internal/app"
	"whaletrack/internal/common"
	"whaletrack/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: whaletrack.toml next to the binary)")
	once := flag.Bool("once", false, "run a single analysis cycle and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		common.LoadVersionFromFile()
		fmt.Printf("whaletrack %s (%s)\n", common.GetVersion(), common.GetGitCommit())
		return
	}

	a, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config, a.Logger)

	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		err := a.RunAnalysisCycle(ctx)
		a.Close()
		if err != nil {
			a.Logger.Error().Err(err).Msg("Analysis cycle failed")
			os.Exit(1)
		}
		return
	}

	if err := a.ScheduleAnalysis(); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to start scheduler")
		a.Close()
		os.Exit(1)
	}

	if a.Config.Schedule.RunOnStart {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
			defer cancel()
			if err := a.RunAnalysisCycle(ctx); err != nil {
				a.Logger.Error().Err(err).Msg("Initial analysis cycle failed")
			}
		}()
	}

	var srv *server.Server
	if a.Config.Server.Enabled {
		srv = server.NewServer(a.Config, a.Storage.Internal(), a.Logger.WithComponent("server"))
		go func() {
			if err := srv.Start(); err != nil && err != http.ErrServerClosed {
				a.Logger.Fatal().Err(err).Msg("HTTP server failed")
			}
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	a.Logger.Info().Msg("Shutdown signal received")

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		}
	}

	a.Close()
	common.PrintShutdownBanner(a.Logger)
}
