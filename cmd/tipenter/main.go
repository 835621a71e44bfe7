package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/tipenter/tipenter/internal/batch"
	"github.com/tipenter/tipenter/internal/export"
	"github.com/tipenter/tipenter/internal/scanning"
	"github.com/tipenter/tipenter/internal/server"
	"github.com/tipenter/tipenter/internal/upload"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("tipenter")
	var (
		port            = fs.IntLong("port", 8080, "HTTP server port")
		dbPath          = fs.StringLong("db", "tipenter.db", "Batch history database file path")
		recognizerType  = fs.StringLong("recognizer", "gemini", "Recognizer type: 'gemini' or 'simulated'")
		geminiKey       = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel     = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		recognizeWait   = fs.DurationLong("recognition-timeout", scanning.DefaultRecognitionTimeout, "Timeout for one live recognition call")
		minioEndpoint   = fs.StringLong("minio-endpoint", "", "Object store endpoint (host:port)")
		minioAccessKey  = fs.StringLong("minio-access-key", "", "Object store access key")
		minioSecretKey  = fs.StringLong("minio-secret-key", "", "Object store secret key")
		minioBucket     = fs.StringLong("minio-bucket", "tipenter-receipts", "Object store bucket name")
		minioUseSSL     = fs.BoolLong("minio-use-ssl", "Use TLS for the object store connection")
		queueSize       = fs.IntLong("queue-size", 16, "Bulk upload queue capacity in batches")
		perFileEstimate = fs.DurationLong("per-file-estimate", 4*time.Second, "Estimated processing cost per file")
		authUser        = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass        = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion     = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("TIPENTER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize batch history store
	slog.Info("Initializing batch history store...")
	store, err := batch.NewBoltStore(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize batch history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Initialize object storage
	slog.Info("Initializing object storage...", "endpoint", *minioEndpoint, "bucket", *minioBucket)
	objectStore, err := upload.NewMinioStore(upload.MinioConfig{
		Endpoint:  *minioEndpoint,
		AccessKey: *minioAccessKey,
		SecretKey: *minioSecretKey,
		Bucket:    *minioBucket,
		UseSSL:    *minioUseSSL,
	})
	if err != nil {
		slog.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	// Initialize recognition
	simulator := scanning.NewSimulated()
	var live scanning.Recognizer
	switch *recognizerType {
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini recognizer...", "model", *geminiModel)
		live, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "simulated":
		slog.Info("Running with simulated recognition only")
	default:
		slog.Error("Invalid recognizer type", "type", *recognizerType, "valid", "gemini or simulated")
		os.Exit(1)
	}
	recognizer := scanning.NewFallback(live, simulator, *recognizeWait)
	defer recognizer.Close()

	// Initialize persistence fan-out
	queue := upload.NewBulkQueue(upload.NewObjectBulkSink(objectStore), *queueSize)
	fanout := upload.NewFanout(queue, objectStore)

	// Initialize pipeline
	estimator := batch.Estimator{Overhead: 5 * time.Second, PerFile: *perFileEstimate}
	pipeline := batch.NewPipelineWithDeps(recognizer, simulator, fanout, store,
		estimator, batch.UUIDGenerator{}, batch.SystemClock{})

	// Initialize server
	basicAuth := server.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	srv := server.NewServer(pipeline, store, export.LogPrinter{}, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := srv.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	pipeline.Wait()
	queue.Close()
}
