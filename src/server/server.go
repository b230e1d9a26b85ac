package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"stock-digest/src/config"
	"stock-digest/src/interfaces"
	"stock-digest/src/logger"
	"stock-digest/src/models"
	"stock-digest/src/scheduler"
	"stock-digest/src/watchlist"

	"github.com/gin-gonic/gin"
)

// How many symbols the cheap preview endpoint quotes.
const previewLimit = 5

// -----------------------------------------------------------------------------
// WebServer
// -----------------------------------------------------------------------------

type WebServer struct {
	Config *config.Config
	Logger *logger.Logger
	engine *gin.Engine

	Store  *watchlist.Store
	Quotes interfaces.IQuoteSource
	News   interfaces.INewsSource

	// Runner is nil until the pipeline is wired; manual send returns 503 then.
	Runner interfaces.IReportRunner

	// History is nil when no run-history DB is configured.
	History interfaces.IRunHistory

	// WebSocket live feed
	clients     map[*Client]struct{}
	clientCount atomic.Int32
	broadcast   chan *models.MLiveUpdate
	register    chan *Client
	unregister  chan *Client
	done        chan struct{}

	// Local cache of the last live snapshot
	latest     *models.MLiveUpdate
	stateMutex sync.RWMutex

	startedAt time.Time
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewWebServer(
	cfg *config.Config,
	store *watchlist.Store,
	quotes interfaces.IQuoteSource,
	news interfaces.INewsSource,
	runner interfaces.IReportRunner,
	history interfaces.IRunHistory,
) *WebServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &WebServer{
		Config:     cfg,
		Logger:     logger.NewLogger("WebServer"),
		engine:     gin.Default(),
		Store:      store,
		Quotes:     quotes,
		News:       news,
		Runner:     runner,
		History:    history,
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan *models.MLiveUpdate, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		startedAt:  time.Now().UTC(),
	}

	s.engine.Use(corsMiddleware())
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *WebServer) setupRoutes() {
	// REST API endpoints
	s.engine.GET("/api/stocks", s.getStocks)
	s.engine.POST("/api/stocks", s.addStock)
	s.engine.DELETE("/api/stocks/:symbol", s.removeStock)
	s.engine.PUT("/api/stocks", s.replaceStocks)
	s.engine.GET("/api/stocks/preview", s.previewStocks)
	s.engine.GET("/api/stocks/live", s.liveStocks)
	s.engine.GET("/api/news/preview", s.previewNews)
	s.engine.GET("/api/config", s.getConfig)
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/history", s.getHistory)
	s.engine.POST("/api/email/send", s.sendEmail)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.runHub()
	go s.liveRefresher()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *WebServer) Stop() error {
	close(s.done)
	return nil
}

// -----------------------------------------------------------------------------
// Watchlist Handlers
// -----------------------------------------------------------------------------

func (s *WebServer) getStocks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "symbols": s.Store.List()})
}

// -----------------------------------------------------------------------------

func (s *WebServer) addStock(c *gin.Context) {
	var body struct {
		Symbol string `json:"symbol"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Symbol) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Symbol is required"})
		return
	}

	symbols, err := s.Store.Add(body.Symbol)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "symbols": symbols})
}

// -----------------------------------------------------------------------------

func (s *WebServer) removeStock(c *gin.Context) {
	symbols, err := s.Store.Remove(c.Param("symbol"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "symbols": symbols})
}

// -----------------------------------------------------------------------------

func (s *WebServer) replaceStocks(c *gin.Context) {
	var body struct {
		Symbols []string `json:"symbols"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Symbols == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Symbols must be an array"})
		return
	}

	symbols, err := s.Store.Replace(body.Symbols)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "symbols": symbols})
}

// -----------------------------------------------------------------------------
// Quote / News Handlers
// -----------------------------------------------------------------------------

func (s *WebServer) previewStocks(c *gin.Context) {
	symbols := s.Store.List()
	if len(symbols) > previewLimit {
		symbols = symbols[:previewLimit]
	}

	quotes, err := s.Quotes.FetchQuotes(c.Request.Context(), symbols)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": quotes})
}

// -----------------------------------------------------------------------------

func (s *WebServer) liveStocks(c *gin.Context) {
	quotes, err := s.Quotes.FetchQuotes(c.Request.Context(), s.Store.List())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	update := &models.MLiveUpdate{
		Type:      "UPDATE",
		Data:      quotes,
		Timestamp: time.Now().Unix(),
	}
	s.Broadcast(update)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": quotes, "timestamp": update.Timestamp})
}

// -----------------------------------------------------------------------------

func (s *WebServer) previewNews(c *gin.Context) {
	articles, err := s.News.FetchNews(c.Request.Context(), s.Store.List(), s.Config.News.WindowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if articles == nil {
		articles = []models.MNewsArticle{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": articles})
}

// -----------------------------------------------------------------------------
// Config / Health / History Handlers
// -----------------------------------------------------------------------------

// getConfig exposes a safe subset only; never raw secrets.
func (s *WebServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"config": gin.H{
			"emailTo":             s.Config.Email.To,
			"cronSchedule":        s.Config.Schedule,
			"scheduleDescription": scheduler.DescribeCron(s.Config.Schedule),
			"stockCount":          s.Store.Count(),
			"hasEmailConfig":      s.Config.HasEmailConfig(),
			"hasNewsApi":          s.Config.HasNewsAPI(),
		},
	})
}

// -----------------------------------------------------------------------------

func (s *WebServer) getHealth(c *gin.Context) {
	now := time.Now().UTC()

	payload := gin.H{
		"success":    true,
		"serverTime": now.Format(time.RFC3339),
		"timezone":   "UTC",
		"uptime":     now.Sub(s.startedAt).Round(time.Second).String(),
	}
	if s.Runner != nil {
		payload["status"] = s.Runner.RunStatus()
	}

	c.JSON(http.StatusOK, payload)
}

// -----------------------------------------------------------------------------

func (s *WebServer) getHistory(c *gin.Context) {
	if s.History == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": []models.MRunRecord{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	records, err := s.History.RecentRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if records == nil {
		records = []models.MRunRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": records})
}

// -----------------------------------------------------------------------------

// sendEmail triggers one pipeline run asynchronously. Progress is observable
// via /api/health; the run outcome does not block this response.
func (s *WebServer) sendEmail(c *gin.Context) {
	if s.Runner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "report pipeline not configured"})
		return
	}

	s.Runner.TriggerReport()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "report generation started"})
}
