package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "studypal/config"
	"studypal/conversation"
	convinmemory "studypal/conversation/inmemory"
	convredis "studypal/conversation/redisstore"
	"studypal/internal/chat"
	"studypal/internal/docstore"
	"studypal/provider"
)

// Run wires the service together and serves HTTP until the listener fails.
// A missing provider API key is not fatal: the service starts, the health
// endpoint reports degraded, and chat endpoints answer 503.
func Run(cfg *appconfig.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))
	e.Use(requestMetrics)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	store, err := docstore.New()
	if err != nil {
		return fmt.Errorf("document store init: %w", err)
	}

	llm := provider.NewProvider(cfg.Provider)
	if llm == nil {
		log.Printf("provider API key missing; chat endpoints will report unavailable")
	}

	retrieverLogger := log.New(log.Writer(), "[RETRIEVER] ", log.LstdFlags)
	retriever := docstore.NewRetriever(store, llm, cfg.Chat.ChunkSize, cfg.Chat.ChunkOverlap, cfg.Chat.Hybrid, retrieverLogger)

	var conversations conversation.Store
	switch cfg.Storage.Conversations {
	case "redis":
		rdb, err := convredis.Conn(context.Background(), cfg.Storage.Redis.Host, cfg.Storage.Redis.Port,
			cfg.Storage.Redis.Password, cfg.Storage.Redis.DB, cfg.Storage.Redis.Timeout)
		if err != nil {
			return err
		}
		conversations = convredis.NewStore(rdb)
	default:
		conversations = convinmemory.NewStore()
	}

	orch := chat.NewOrchestrator(conversations, retriever, llm, cfg.Chat.TopK, cfg.Chat.HistoryWindow, nil)

	api := e.Group("/api")
	api.GET("/health", healthHandler(orch))

	ch := &ChatHandler{Orch: orch, Index: retriever}
	ch.Register(api.Group("/chat"))

	gh := &GPAHandler{}
	gh.Register(api.Group("/gpa"))

	addr := cfg.General.Listen
	if addr == "" {
		addr = ":8000"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

func healthHandler(orch Chatter) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !orch.Ready() {
			return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", RAGAvailable: false})
		}
		return c.JSON(http.StatusOK, HealthResponse{Status: "healthy", RAGAvailable: true})
	}
}
