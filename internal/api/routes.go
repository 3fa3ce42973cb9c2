package api

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// RouterOptions configures the middleware around the routes.
type RouterOptions struct {
	AllowedOrigins []string
	StaticDir      string
}

// NewRouter builds the engine with logging, recovery, request ids, CORS and
// static assets.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestID())
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
			ExposeHeaders: []string{RequestIDHeader, "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}
	RegisterRoutes(r, h)

	if opts.StaticDir != "" {
		if fi, err := os.Stat(opts.StaticDir); err == nil && fi.IsDir() {
			r.Static("/assets", opts.StaticDir)
		} else {
			log.Printf("static dir %s not found, /assets disabled", opts.StaticDir)
		}
	}
	return r
}

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/health", h.health)
	r.POST("/generate", h.generate)

	cardsGroup := r.Group("/cards")
	{
		cardsGroup.POST("/render", h.renderCard)
		cardsGroup.POST("/print", h.printCard)
		cardsGroup.GET("/back", h.cardBack)
	}

	r.GET("/qr", h.qr)
	r.GET("/teams", h.teams)
	r.GET("/sports", h.sports)
	r.GET("/loading-messages", h.loadingMessages)
	r.GET("/special-properties", h.specialProperties)
	r.GET("/vip", h.vipLookup)

	captureGroup := r.Group("/capture")
	{
		captureGroup.GET("/constraints", h.captureConstraints)
		captureGroup.GET("/error", h.captureError)
		captureGroup.POST("", h.captureFrame)
	}
}

// RequestID reuses an incoming X-Request-ID or assigns a new one, and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
