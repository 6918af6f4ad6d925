package cmd

import (
	"fmt"
	"log/slog"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/config"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/currency"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/ebay"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/engine"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/extract"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/lots"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/store"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/logger"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/words"
)

// app holds the wired application components every command works with.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *store.FileStore
	engine  *engine.Engine
	creator *lots.Creator
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	slog.SetDefault(log)

	tokens := ebay.NewOAuthTokenProvider(
		cfg.Ebay.ClientID,
		cfg.Ebay.ClientSecret,
		ebay.WithTokenURL(cfg.Ebay.TokenURL),
	)
	limiter := ebay.NewRateLimiter(
		cfg.Ebay.RateLimit.PerSecond,
		cfg.Ebay.RateLimit.Burst,
		cfg.Ebay.RateLimit.DailyLimit,
	)
	client := ebay.NewBrowseClient(
		tokens,
		ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
		ebay.WithMarketplace(cfg.Ebay.Marketplace),
		ebay.WithRateLimiter(limiter),
	)

	conv := currency.NewFrankfurterConverter(
		currency.WithAPIURL(cfg.Currency.APIURL),
		currency.WithBaseCurrency(cfg.Currency.Base),
		currency.WithRateTTL(cfg.Currency.CacheTTL),
	)

	eng := engine.New(
		ebay.NewWidener(client, log),
		conv,
		words.NewProseTagger(),
		engine.WithLogger(log),
		engine.WithPricingConfig(cfg.Pricing),
	)

	extractor, err := extract.NewOpenAIExtractor(
		cfg.Extractor.APIKey,
		extract.WithTextModel(cfg.Extractor.TextModel),
		extract.WithImageModel(cfg.Extractor.ImageModel),
		extract.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("creating extractor: %w", err)
	}

	st, err := store.NewFileStore(cfg.Store.Dir, store.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	creator := lots.New(
		client, conv, extractor, eng, st,
		lots.WithSearchLimit(cfg.Ebay.SearchLimit),
		lots.WithLogger(log),
	)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		engine:  eng,
		creator: creator,
	}, nil
}
