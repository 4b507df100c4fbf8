package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"StockWatch/internal/app"
	"StockWatch/internal/logging"
	"StockWatch/internal/notifier"
	"StockWatch/internal/scraper/shopify"
	"StockWatch/internal/snapshot"
	"StockWatch/pkg/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

func main() {
	task := flag.String("task", "run", "Task to run: run (one monitoring cycle) or check-url (debug a single product page)")
	configPath := flag.String("config", "config.yml", "Path to the YAML configuration file")
	debugURL := flag.String("url", "", "Product URL for the check-url task")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)

	browser, cleanup, err := connectBrowser(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not launch browser")
	}
	defer cleanup()

	scraper := shopify.New(browser, cfg.Site, cfg.Scraper, logger)

	switch *task {
	case "run":
		store := snapshot.NewStore(cfg.Snapshot.Path, logger)
		discord := notifier.NewDiscordNotifier(
			cfg.Notify.WebhookURL,
			time.Duration(cfg.Notify.TimeoutMS)*time.Millisecond,
			logger,
		)
		application := app.New(cfg, logger, scraper, store, discord)
		if err := application.RunOnce(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("Run failed")
		}

	case "check-url":
		if *debugURL == "" {
			logger.Fatal().Msg("check-url requires -url")
		}
		product, err := scraper.ScrapeProduct(*debugURL)
		if err != nil {
			logger.Fatal().Err(err).Str("url", *debugURL).Msg("Scrape failed")
		}
		out, err := json.MarshalIndent(product, "", "  ")
		if err != nil {
			logger.Fatal().Err(err).Msg("Could not encode product")
		}
		fmt.Println(string(out))

	default:
		logger.Fatal().Str("task", *task).Msg("Unknown task")
	}
}

func connectBrowser(cfg *config.Config) (*rod.Browser, func(), error) {
	l := launcher.New().
		Headless(cfg.Scraper.Headless).
		NoSandbox(true)
	if cfg.Site.UserAgent != "" {
		l = l.Set("user-agent", cfg.Site.UserAgent)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, nil, err
	}
	return browser, func() { _ = browser.Close() }, nil
}
