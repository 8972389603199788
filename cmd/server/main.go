// Command server starts the consent-video partner API HTTP service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"consentgate/internal/api"
	"consentgate/internal/auth"
	"consentgate/internal/catalog"
	"consentgate/internal/config"
	"consentgate/internal/media"
	"consentgate/internal/observability/logging"
	"consentgate/internal/observability/metrics"
	"consentgate/internal/server"
	"consentgate/internal/store"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "log output format (json or text)")
	region := flag.String("region", "", "AWS region for the document and object stores")
	videosTable := flag.String("videos-table", "", "DynamoDB table holding video records")
	partnersTable := flag.String("partners-table", "", "DynamoDB table holding partner records")
	uploadBucket := flag.String("upload-bucket", "", "S3 bucket receiving new video uploads")
	mediaBucket := flag.String("media-bucket", "", "S3 bucket holding published media for streaming")
	realData := flag.Bool("real-data", false, "serve live data from the document store")
	tlsCert := flag.String("tls-cert", "", "path to TLS certificate file")
	tlsKey := flag.String("tls-key", "", "path to TLS private key file")
	globalRPS := flag.Float64("rate-global-rps", 0, "global request rate limit in requests per second")
	globalBurst := flag.Int("rate-global-burst", 0, "global rate limit burst allowance")
	grantLimit := flag.Int("rate-grant-limit", 0, "maximum grant issuances per window for a single client")
	grantWindow := flag.Duration("rate-grant-window", 0, "window for counting grant issuances")
	trustProxy := flag.Bool("rate-trust-proxy", false, "key the grant throttle on forwarded headers set by a trusted proxy")
	redisAddr := flag.String("rate-redis-addr", "", "Redis address for distributed grant throttling")
	redisPassword := flag.String("rate-redis-password", "", "Redis password for distributed grant throttling")
	redisTimeout := flag.Duration("rate-redis-timeout", 0, "timeout for Redis operations")
	partnerOrigins := flag.String("cors-partner-origins", "", "comma separated origins of partner integrations")
	adminOrigins := flag.String("cors-admin-origins", "", "comma separated origins of the upload console")
	flag.Parse()

	logger := logging.Init(logging.Config{
		Level:  firstNonEmpty(*logLevel, os.Getenv("CONSENTGATE_LOG_LEVEL")),
		Format: firstNonEmpty(*logFormat, os.Getenv("CONSENTGATE_LOG_FORMAT")),
	})
	recorder := metrics.Default()

	cfg := config.FromEnv()
	if v := strings.TrimSpace(*region); v != "" {
		cfg.Region = v
	}
	if v := strings.TrimSpace(*videosTable); v != "" {
		cfg.VideosTable = v
	}
	if v := strings.TrimSpace(*partnersTable); v != "" {
		cfg.PartnersTable = v
	}
	if v := strings.TrimSpace(*uploadBucket); v != "" {
		cfg.UploadBucket = v
	}
	if v := strings.TrimSpace(*mediaBucket); v != "" {
		cfg.MediaBucket = v
	}
	if *realData {
		cfg.RealDataEnabled = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed store or signer build degrades the service instead of
	// refusing to start: the catalog falls back to placeholder data and
	// stream grants are simply absent.
	var documentStore store.Store
	dynamo, err := store.NewDynamo(ctx, store.DynamoConfig{
		Region:          cfg.Region,
		VideosTable:     cfg.VideosTable,
		PartnersTable:   cfg.PartnersTable,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
	if err != nil {
		logger.Warn("document store unavailable, serving placeholder data", "error", err)
	} else {
		documentStore = dynamo
	}

	var signer media.Signer
	s3Signer, err := media.NewS3Signer(ctx, media.SignerConfig{
		Region:          cfg.Region,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
	if err != nil {
		logger.Warn("object store signer unavailable, grants disabled", "error", err)
	} else {
		signer = s3Signer
	}

	validator := auth.NewValidator(cfg.StandardAPIKeys, cfg.AdminAPIKeys,
		auth.WithPartnerLookup(documentStore, cfg.RealDataEnabled),
		auth.WithLogger(logging.WithComponent(logger, "auth")))

	service := catalog.NewService(documentStore, cfg.RealDataEnabled,
		catalog.WithLogger(logging.WithComponent(logger, "catalog")),
		catalog.WithMetrics(recorder))

	broker := media.NewBroker(signer, cfg.UploadBucket, cfg.MediaBucket, cfg.Region,
		media.WithLogger(logging.WithComponent(logger, "media")),
		media.WithMetrics(recorder))

	handler := api.NewHandler(validator, service, broker, documentStore, cfg, logger)

	srv, err := server.New(handler, server.Config{
		Addr: resolveListenAddr(*addr, os.Getenv("CONSENTGATE_ADDR")),
		TLS: server.TLSConfig{
			CertFile: firstNonEmpty(*tlsCert, os.Getenv("CONSENTGATE_TLS_CERT")),
			KeyFile:  firstNonEmpty(*tlsKey, os.Getenv("CONSENTGATE_TLS_KEY")),
		},
		RateLimit: server.RateLimitConfig{
			GlobalRPS:         resolveFloat(*globalRPS, "CONSENTGATE_RATE_GLOBAL_RPS"),
			GlobalBurst:       resolveInt(*globalBurst, "CONSENTGATE_RATE_GLOBAL_BURST"),
			GrantLimit:        resolveInt(*grantLimit, "CONSENTGATE_RATE_GRANT_LIMIT"),
			GrantWindow:       resolveDuration(*grantWindow, "CONSENTGATE_RATE_GRANT_WINDOW", time.Minute),
			TrustProxyHeaders: resolveBool(*trustProxy, "CONSENTGATE_RATE_TRUST_PROXY"),
			RedisAddr:         firstNonEmpty(*redisAddr, os.Getenv("CONSENTGATE_RATE_REDIS_ADDR")),
			RedisPassword:     firstNonEmpty(*redisPassword, os.Getenv("CONSENTGATE_RATE_REDIS_PASSWORD")),
			RedisTimeout:      resolveDuration(*redisTimeout, "CONSENTGATE_RATE_REDIS_TIMEOUT", 2*time.Second),
		},
		CORS: server.CORSConfig{
			PartnerOrigins: splitAndTrim(firstNonEmpty(*partnerOrigins, os.Getenv("CONSENTGATE_CORS_PARTNER_ORIGINS"))),
			AdminOrigins:   splitAndTrim(firstNonEmpty(*adminOrigins, os.Getenv("CONSENTGATE_CORS_ADMIN_ORIGINS"))),
		},
		Logger:  logger,
		Metrics: recorder,
	})
	if err != nil {
		logger.Error("failed to initialise server", "error", err)
		os.Exit(1)
	}

	logger.Info("consent gateway listening",
		"addr", resolveListenAddr(*addr, os.Getenv("CONSENTGATE_ADDR")),
		"region", cfg.Region,
		"real_data", cfg.RealDataEnabled,
		"store_configured", documentStore != nil,
		"signer_configured", signer != nil)
	logger.Info("metrics endpoint available", "path", "/metrics")

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func resolveListenAddr(flagValue, envAddr string) string {
	listenAddr := strings.TrimSpace(flagValue)
	if listenAddr == "" {
		listenAddr = strings.TrimSpace(envAddr)
	}
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	return listenAddr
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func splitAndTrim(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func resolveFloat(flagValue float64, envKey string) float64 {
	if flagValue > 0 {
		return flagValue
	}
	if env := os.Getenv(envKey); env != "" {
		if value, err := strconv.ParseFloat(strings.TrimSpace(env), 64); err == nil {
			return value
		}
	}
	return 0
}

func resolveBool(flagValue bool, envKey string) bool {
	if flagValue {
		return true
	}
	if env := os.Getenv(envKey); env != "" {
		if value, err := strconv.ParseBool(strings.TrimSpace(env)); err == nil {
			return value
		}
	}
	return false
}

func resolveInt(flagValue int, envKey string) int {
	if flagValue > 0 {
		return flagValue
	}
	if env := os.Getenv(envKey); env != "" {
		if value, err := strconv.Atoi(strings.TrimSpace(env)); err == nil {
			return value
		}
	}
	return 0
}

func resolveDuration(flagValue time.Duration, envKey string, fallback time.Duration) time.Duration {
	if flagValue > 0 {
		return flagValue
	}
	if env := os.Getenv(envKey); env != "" {
		if value, err := time.ParseDuration(env); err == nil {
			return value
		}
	}
	if fallback > 0 {
		return fallback
	}
	return 0
}
