package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/youruser/tradingcard/internal/capture"
	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/generator"
	imagepkg "github.com/youruser/tradingcard/internal/image"
	"github.com/youruser/tradingcard/internal/render"
	"github.com/youruser/tradingcard/internal/vip"
)

// Generator produces card images from a photo.
type Generator interface {
	Generate(ctx context.Context, req *cards.GenerateCardRequest) (*cards.GenerateCardResponse, error)
}

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	Generator    Generator
	Renderer     *render.Renderer
	Catalog      *cards.Catalog
	VIP          *vip.Directory
	QRText       string
	MaxBodyBytes int64
}

// health
func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// limitBody caps the request body at n times MaxBodyBytes.
func (h *Handlers) limitBody(c *gin.Context, n int64) {
	if h.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n*h.MaxBodyBytes)
	}
}

func (h *Handlers) generate(c *gin.Context) {
	h.limitBody(c, 1)
	var req cards.GenerateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	resp, err := h.Generator.Generate(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "generate", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) renderCard(c *gin.Context) {
	h.limitBody(c, 1)
	var req cards.RenderCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	out, err := h.Renderer.Front(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "render", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trading-card.png"`)
	c.Data(http.StatusOK, "image/png", out)
}

func (h *Handlers) printCard(c *gin.Context) {
	// front and back image
	h.limitBody(c, 2)
	var req cards.RenderCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	out, err := h.Renderer.Print(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "print", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trading-card.pdf"`)
	c.Data(http.StatusOK, "application/pdf", out)
}

func (h *Handlers) cardBack(c *gin.Context) {
	out, err := h.Renderer.Back(c.Query("teamColor"))
	if err != nil {
		h.fail(c, "card back", err)
		return
	}
	c.Data(http.StatusOK, "image/png", out)
}

// qr returns a PNG of a QR code for the "text" query param.
func (h *Handlers) qr(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		text = h.QRText
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 400
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 && v <= 2048 {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func (h *Handlers) teams(c *gin.Context) {
	filter := cards.TeamFilter{FreeWords: c.Query("q")}
	if g := c.Query("group"); g != "" {
		filter.Groups = strings.Split(g, ",")
	}
	out := h.Catalog.FilterTeams(filter)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "teams": out, "groups": h.Catalog.Groups})
}

func (h *Handlers) sports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sports": h.Catalog.Sports})
}

func (h *Handlers) loadingMessages(c *gin.Context) {
	if idx := c.Query("index"); idx != "" {
		i, err := strconv.Atoi(idx)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a number"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": h.Catalog.LoadingMessage(i)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": h.Catalog.LoadingMessages})
}

func (h *Handlers) specialProperties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"specialProperties": h.Catalog.SpecialProperties})
}

func (h *Handlers) vipLookup(c *gin.Context) {
	first, last := c.Query("firstName"), c.Query("lastName")
	c.JSON(http.StatusOK, cards.VIPResponse{
		FirstName: first,
		LastName:  last,
		VIP:       h.VIP.IsVIP(first, last),
	})
}

func (h *Handlers) captureConstraints(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"video": capture.DefaultConstraints(),
		"output": gin.H{
			"width":    capture.DefaultWidth,
			"height":   capture.DefaultHeight,
			"mimeType": "image/jpeg",
			"quality":  capture.DefaultQuality,
		},
	})
}

func (h *Handlers) captureError(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": capture.ErrorMessage(c.Query("name"))})
}

// captureFrame crops and encodes an uploaded camera frame the same way the
// browser does before it calls /generate.
func (h *Handlers) captureFrame(c *gin.Context) {
	h.limitBody(c, 1)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badBody(c, err)
		return
	}
	frame, _, err := imagepkg.Decode(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts := capture.DefaultOptions()
	if v, err := strconv.Atoi(c.Query("width")); err == nil {
		opts.Width = v
	}
	if v, err := strconv.Atoi(c.Query("height")); err == nil {
		opts.Height = v
	}
	if v, err := strconv.ParseFloat(c.Query("quality"), 64); err == nil {
		opts.Quality = v
	}
	if f := c.Query("format"); f != "" {
		opts.Format = capture.Format(f)
	}
	opts.Mirror = c.Query("mirror") == "true"

	blob, err := capture.Capture(frame, opts)
	if err != nil {
		h.fail(c, "capture", err)
		return
	}
	c.Data(http.StatusOK, blob.MimeType, blob.Data)
}

func (h *Handlers) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", RequestIDFrom(c), op, err)
	}
	c.JSON(status, gin.H{"error": publicMessage(status, err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, generator.ErrUpstream) && errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, generator.ErrUpstream), errors.Is(err, generator.ErrEmptyResult):
		return http.StatusBadGateway
	case errors.Is(err, cards.ErrMissingSport),
		errors.Is(err, cards.ErrMissingTeam),
		errors.Is(err, cards.ErrMissingPhoto),
		errors.Is(err, generator.ErrInvalidPhoto),
		errors.Is(err, generator.ErrPhotoTooLarge),
		errors.Is(err, imagepkg.ErrNoImage),
		errors.Is(err, render.ErrInvalidImage),
		errors.Is(err, render.ErrInvalidColor),
		errors.Is(err, render.ErrUnknownProperty),
		errors.Is(err, render.ErrAsset),
		errors.Is(err, capture.ErrNoFrame),
		errors.Is(err, capture.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps upstream details out of responses.
func publicMessage(status int, err error) string {
	switch status {
	case http.StatusGatewayTimeout:
		return "image model timed out"
	case http.StatusBadGateway:
		if errors.Is(err, generator.ErrEmptyResult) {
			return generator.ErrEmptyResult.Error()
		}
		return generator.ErrUpstream.Error()
	case http.StatusInternalServerError:
		return "internal error"
	}
	var assetErr *render.AssetError
	if errors.As(err, &assetErr) {
		return assetErr.Asset + " could not be loaded"
	}
	return err.Error()
}

// badBody answers a body that could not be read or bound.
func badBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}
