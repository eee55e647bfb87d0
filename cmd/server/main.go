package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	anprovider "github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/provider"
	antypes "github.com/Takeshi-Yoshimura-park/design-ai/internal/analyzer/types"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/conf"
	isprovider "github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/provider"
	istypes "github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/pkg/cache"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/pkg/logger"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/proxy"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/server"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/service"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Local development credentials; absence is fine.
	_ = godotenv.Load()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	// Analyzer provider (nil when no credentials are configured; the
	// handler reports the distinct configuration error).
	analyzerProvider := buildAnalyzer(config, log)

	// Image search providers
	searchProviders, searchConfigs := buildSearchProviders(config, log)

	// Image proxy with optional Redis byte cache
	var proxyCache proxy.Cache
	cacheCfg := &cache.Config{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	}
	if cacheCfg.Enabled() {
		imageCache, err := cache.New(cacheCfg, log)
		if err != nil {
			log.Warn("image cache unavailable, proxying without cache", zap.Error(err))
		} else {
			defer imageCache.Close()
			proxyCache = imageCache
		}
	}

	forwarder := proxy.New(&proxy.Config{
		Timeout:      config.Proxy.Timeout,
		MaxBodySize:  config.Proxy.MaxBodySize,
		AllowedHosts: config.Proxy.AllowedHosts,
		CacheMaxAge:  config.Proxy.CacheMaxAge,
	}, proxyCache, log)

	// Services
	sitePrefix := ""
	if config.Search.PreferPinterest {
		sitePrefix = "pinterest.com"
	}

	analyzeService := service.NewAnalyzeService(analyzerProvider, log, config.Server.Debug)
	searchService := service.NewSearchService(searchProviders, searchConfigs, service.SearchOptions{
		SitePrefix: sitePrefix,
		Limit:      config.Search.Limit,
	}, log, config.Server.Debug)
	proxyService := service.NewProxyService(forwarder, log)

	httpServer := server.NewHTTPServer(config, log, analyzeService, searchService, proxyService)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func buildAnalyzer(config *conf.Config, log *logger.Logger) anprovider.Provider {
	id := antypes.ProviderID(config.Analyzer.Provider)

	cfg := &antypes.Config{
		ID:              id,
		BaseURL:         config.Analyzer.BaseURL,
		Models:          config.Analyzer.Models,
		Timeout:         config.Analyzer.Timeout,
		MaxOutputTokens: config.Analyzer.MaxOutputTokens,
	}

	switch id {
	case antypes.ProviderOpenAI:
		cfg.APIKey = config.Analyzer.OpenAIAPIKey
	default:
		cfg.APIKey = config.Analyzer.GeminiAPIKey
	}

	if !cfg.Configured() {
		log.Warn("analyzer credentials missing, /api/analyze will report not configured",
			zap.String("provider", string(id)))
		return nil
	}

	provider, err := anprovider.NewFactory().Create(cfg)
	if err != nil {
		log.Warn("analyzer provider unavailable", zap.Error(err))
		return nil
	}

	log.Info("analyzer provider ready", zap.String("provider", string(id)))
	return provider
}

func buildSearchProviders(config *conf.Config, log *logger.Logger) (
	map[istypes.ProviderID]isprovider.Provider,
	map[istypes.ProviderID]*istypes.ProviderConfig,
) {
	configs := map[istypes.ProviderID]*istypes.ProviderConfig{
		istypes.ProviderGoogleImages: {
			ID:         istypes.ProviderGoogleImages,
			Name:       "Google Images",
			APIHost:    config.Search.GoogleAPIHost,
			APIKey:     config.Search.GoogleAPIKey,
			EngineID:   config.Search.GoogleEngineID,
			Timeout:    config.Search.Timeout,
			SafeSearch: true,
		},
		istypes.ProviderPinterest: {
			ID:      istypes.ProviderPinterest,
			Name:    "Pinterest",
			APIHost: config.Search.PinterestHost,
			Timeout: config.Search.Timeout,
		},
	}

	factory := isprovider.NewFactory()
	providers := make(map[istypes.ProviderID]isprovider.Provider)

	for id, cfg := range configs {
		if !cfg.Configured() {
			log.Warn("search provider credentials missing", zap.String("provider", string(id)))
			continue
		}
		provider, err := factory.Create(cfg)
		if err != nil {
			log.Warn("search provider unavailable",
				zap.String("provider", string(id)), zap.Error(err))
			continue
		}
		providers[id] = provider
		log.Info("search provider ready", zap.String("provider", string(id)))
	}

	return providers, configs
}
