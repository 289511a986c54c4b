package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asknotes/asknotes/internal/api"
	"github.com/asknotes/asknotes/internal/config"
	"github.com/asknotes/asknotes/internal/core"
	"github.com/asknotes/asknotes/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize the trace sink
	traceStore, err := store.NewTraceStore(config.AppConfig.TraceDBPath)
	if err != nil {
		log.Fatalf("Failed to initialize trace store: %v", err)
	}
	defer traceStore.Close()

	// Initialize LLM service
	llmService := core.NewLLMService()
	defer llmService.Close()

	tuning := config.AppConfig.Tuning
	timeout := time.Duration(tuning.RequestTimeout) * time.Second

	extractor := core.NewPDFExtractor()
	builder := core.NewIndexBuilder(llmService, tuning.ChunkSize, tuning.ChunkOverlap)
	mediator := core.NewQueryMediator(llmService, llmService, tuning.TopK, timeout)
	sessionManager := core.NewSessionManager(extractor, builder, mediator, traceStore, timeout)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(sessionManager)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,  // Multi-megabyte PDF uploads take a while
		WriteTimeout: 120 * time.Second, // Embedding a whole batch can take longer than one LLM call
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
