package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nullkey/goradieschen/server"
	"github.com/nullkey/goradieschen/store"
)

var version = "0.1.0"

const banner = `
   ___                  _ _           _
  / _ \___  _ __ __ _ __| (_) ___ ___ | |__   ___ _ __
 / /_\/ _ \| '__/ _` + "`" + ` / _` + "`" + ` | |/ __/ __|| '_ \ / _ \ '_ \
/ /_\\ (_) | | | (_| | (_| | | (__\__ \| | | |  __/ | | |
\____/\___/|_|  \__,_|\__,_|_|\___|___/|_| |_|\___|_| |_|
`

var rootCmd = &cobra.Command{
	Use:     "goradieschen-server",
	Short:   "goradieschen is a small in-memory key-value server",
	Version: version,
	RunE:    runServer,
}

func init() {
	rootCmd.Flags().StringP("host", "H", "127.0.0.1", "listen host")
	rootCmd.Flags().IntP("port", "p", 8888, "listen port")
	rootCmd.Flags().IntP("max-clients", "m", 1024, "concurrency cap")
	rootCmd.Flags().BoolP("use-threads", "t", false, "use OS threads instead of cooperative tasks")
	rootCmd.Flags().BoolP("debug", "d", false, "debug logging")
	rootCmd.Flags().BoolP("errors", "e", false, "error-only logging")
	rootCmd.Flags().StringP("log-file", "l", "", "append logs to a file in addition to stderr")

	viper.BindPFlag("host", rootCmd.Flags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.Flags().Lookup("port"))
	viper.BindPFlag("max_clients", rootCmd.Flags().Lookup("max-clients"))
	viper.BindPFlag("use_threads", rootCmd.Flags().Lookup("use-threads"))
	viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	viper.BindPFlag("errors", rootCmd.Flags().Lookup("errors"))
	viper.BindPFlag("log_file", rootCmd.Flags().Lookup("log-file"))
}

func configureLogging(cfg *Config) error {
	switch {
	case cfg.Debug:
		logrus.SetLevel(logrus.DebugLevel)
	case cfg.Errors:
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	if cfg.LogFile == "" {
		return nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	return nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if err := configureLogging(cfg); err != nil {
		return err
	}

	fmt.Println(banner)
	logrus.Infof("goradieschen-server v%s starting on %s (max_clients=%d, use_threads=%v)",
		version, cfg.addr(), cfg.MaxClients, cfg.UseThreads)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logrus.Info("shutdown signal received")
		cancel()
	}()

	s := store.NewStore()

	return server.Start(ctx, server.Config{
		Addr:       cfg.addr(),
		MaxClients: cfg.MaxClients,
		UseThreads: cfg.UseThreads,
	}, s)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("fatal startup error")
		os.Exit(1)
	}
}
