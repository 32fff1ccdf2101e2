package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/wtaylor/mumble-telegram-bot/bridge"
	"github.com/wtaylor/mumble-telegram-bot/client"
	"github.com/wtaylor/mumble-telegram-bot/logs"
	"github.com/wtaylor/mumble-telegram-bot/repositories"
	"github.com/wtaylor/mumble-telegram-bot/runtime/workers"
	"github.com/wtaylor/mumble-telegram-bot/sink"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bridge terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return exitConfig, fmt.Errorf("config validation error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB) for the message archive
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Mumble connection
	mumble, err := client.Connect(ctx, client.Config{
		ServerAddress:      config.MumbleAddress,
		ServerPort:         config.MumblePort,
		TLSServerName:      config.MumbleTLSServerName,
		InsecureSkipVerify: config.MumbleInsecureSkipVerify,
		Username:           config.MumbleUsername,
		Password:           config.MumblePassword,
	}, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("mumble connection failed: %w", err)
	}
	defer func() {
		logger.Info("Closing Mumble connection...")
		_ = mumble.Close()
	}()

	// 5. Bridge wiring: Telegram notifier plus message archive
	telegram := bridge.NewTelegram(config.TelegramToken, config.TelegramChatID)
	states := bridge.NewStateFile(config.StateFilepath)
	notifier := bridge.NewTelegramNotifier(logger, telegram, states, mumble.OnlineUsers, config.IgnoreBots)
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	archive := sink.NewArchiveSink(messageRepository, logger)

	forwarder := bridge.NewBridge(logger, mumble.SubscribeEvents(), config.SinkTimeout).
		Add(notifier, archive)
	commands := bridge.NewCommandListener(logger, telegram)

	sup := workers.NewSupervisor(logger)
	sup.Add(forwarder, commands)
	go sup.Run(ctx)
	defer sup.Stop()

	// 6. Wait for Stop or Disconnect
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		return exitOK, nil
	case <-mumble.Done():
		return exitRuntime, fmt.Errorf("connection to %s lost", config.MumbleAddress)
	}
}
