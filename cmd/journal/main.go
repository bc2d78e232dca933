package main

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-journal-go/internal/analyzer"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/logger"
	"trading-journal-go/internal/sheet"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to the database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	repo := journal.NewRepository(db)

	// The spreadsheet mirror is optional
	var sheets sheet.ClientInterface
	if cfg.Sheet.Endpoint != "" {
		sheets = sheet.NewClient(&cfg.Sheet, log)
		log.Info("Spreadsheet mirroring enabled", zap.String("sheet", cfg.Sheet.SheetName))
	}

	analyzerCfg := analyzer.Config{
		WindowSize:           cfg.Analyzer.WindowSize,
		GoodWinRateThreshold: cfg.Analyzer.GoodWinRateThreshold,
		StreakThreshold:      cfg.Analyzer.StreakThreshold,
		Predictor:            cfg.Analyzer.Predictor,
		ShortHistory:         analyzer.ShortHistoryPolicy(cfg.Analyzer.ShortHistory),
	}

	j, err := journal.New(analyzerCfg, repo, sheets, cfg.Journal.CSVPath, log)
	if err != nil {
		log.Fatal("Failed to create journal", zap.Error(err))
	}
	if err := j.Load(context.Background()); err != nil {
		log.Fatal("Failed to load trade history", zap.Error(err))
	}
	log.Info("Trade history loaded",
		zap.Int("trades", j.Summary().TotalTrades),
		zap.String("predictor", cfg.Analyzer.Predictor),
	)

	tmpl, err := template.ParseFiles("web/templates/index.html")
	if err != nil {
		log.Fatal("Failed to parse dashboard template", zap.Error(err))
	}

	// Setup HTTP server
	mux := http.NewServeMux()

	apiHandler := NewAPIHandler(log, j, tmpl)

	mux.HandleFunc("/", apiHandler.IndexHandler)
	mux.HandleFunc("/trades", apiHandler.SubmitHandler)
	mux.HandleFunc("/api/trades", apiHandler.TradesHandler)
	mux.HandleFunc("/api/summary", apiHandler.SummaryHandler)
	mux.HandleFunc("/api/calendar", apiHandler.CalendarHandler)

	// Static file serving for CSS, JS, etc.
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Starting web server", zap.String("address", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Web server failed", zap.Error(err))
	}
	log.Info("Server stopped.")
}
