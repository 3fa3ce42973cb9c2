package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/generator"
	imagepkg "github.com/youruser/tradingcard/internal/image"
	"github.com/youruser/tradingcard/internal/render"
	"github.com/youruser/tradingcard/internal/vip"
)

type fakeGenerator struct {
	resp *cards.GenerateCardResponse
	err  error
	got  *cards.GenerateCardRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, req *cards.GenerateCardRequest) (*cards.GenerateCardResponse, error) {
	f.got = req
	return f.resp, f.err
}

func pngB64(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(w, h, color.White)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestRouter(t *testing.T, gen Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir, err := vip.Default()
	if err != nil {
		t.Fatalf("vip: %v", err)
	}
	catalog := cards.MustDefaultCatalog()
	h := &Handlers{
		Generator: gen,
		Renderer: &render.Renderer{
			Catalog:        catalog,
			Assets:         imagepkg.AssetLoader{StaticDir: t.TempDir()},
			CardBackURL:    "https://example.com",
			InjectMetadata: true,
		},
		Catalog:      catalog,
		VIP:          dir,
		QRText:       "https://example.com",
		MaxBodyBytes: 1 << 20,
	}
	return NewRouter(h, RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}})
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	case []byte:
		rd = bytes.NewReader(b)
	default:
		buf, _ := json.Marshal(b)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t, &fakeGenerator{}), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected echoed id, got %q", got)
	}
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{resp: &cards.GenerateCardResponse{Image: "aW1hZ2U="}}
	req := cards.GenerateCardRequest{
		Sport:  cards.Sport{Type: "Soccer"},
		Team:   cards.Team{Name: "Ajax", Color: "red"},
		Player: cards.Player{Photo: "cGhvdG8="},
	}
	w := do(newTestRouter(t, gen), http.MethodPost, "/generate", req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
	var resp cards.GenerateCardResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Image != "aW1hZ2U=" {
		t.Fatalf("unexpected image %q", resp.Image)
	}
	if *gen.got != req {
		t.Fatalf("generator saw %+v", gen.got)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		err     error
		status  int
		message string
	}{
		{"bad json", "{", nil, http.StatusBadRequest, "invalid request body"},
		{"validation", cards.GenerateCardRequest{}, cards.ErrMissingSport, http.StatusBadRequest, cards.ErrMissingSport.Error()},
		{"invalid photo", cards.GenerateCardRequest{}, fmt.Errorf("%w: bad", generator.ErrInvalidPhoto), http.StatusBadRequest, "not a valid image"},
		{"too large", cards.GenerateCardRequest{}, generator.ErrPhotoTooLarge, http.StatusBadRequest, "too large"},
		{"upstream", cards.GenerateCardRequest{}, fmt.Errorf("%w: status 500: secret detail", generator.ErrUpstream), http.StatusBadGateway, generator.ErrUpstream.Error()},
		{"empty", cards.GenerateCardRequest{}, generator.ErrEmptyResult, http.StatusBadGateway, generator.ErrEmptyResult.Error()},
		{"timeout", cards.GenerateCardRequest{}, fmt.Errorf("%w: %w", generator.ErrUpstream, context.DeadlineExceeded), http.StatusGatewayTimeout, "timed out"},
		{"unexpected", cards.GenerateCardRequest{}, errors.New("disk on fire"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(newTestRouter(t, &fakeGenerator{err: tc.err}), http.MethodPost, "/generate", tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if msg := errorBody(t, w); !strings.Contains(msg, tc.message) {
				t.Fatalf("expected message containing %q, got %q", tc.message, msg)
			}
			if strings.Contains(w.Body.String(), "secret detail") {
				t.Fatal("upstream detail leaked into response")
			}
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	body := `{"image":"` + strings.Repeat("A", 3<<20) + `"}`
	for _, path := range []string{"/generate", "/cards/render", "/cards/print", "/capture"} {
		t.Run(path, func(t *testing.T) {
			w := do(newTestRouter(t, &fakeGenerator{}), http.MethodPost, path, body)
			if w.Code != http.StatusRequestEntityTooLarge || !strings.Contains(errorBody(t, w), "too large") {
				t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestRenderCardRemoteLogo(t *testing.T) {
	hits := 0
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("admin console"))
	}))
	defer internal.Close()

	r := newTestRouter(t, &fakeGenerator{})
	for _, path := range []string{"/cards/render", "/cards/print"} {
		w := do(r, http.MethodPost, path, cards.RenderCardRequest{Image: pngB64(t, 8, 8), TeamLogo: internal.URL + "/admin"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, w.Code)
		}
		if msg := errorBody(t, w); msg != "team logo could not be loaded" {
			t.Fatalf("%s: unexpected message %q", path, msg)
		}
		if strings.Contains(w.Body.String(), "127.0.0.1") {
			t.Fatalf("%s: asset reference leaked: %s", path, w.Body.String())
		}
	}
	if hits != 0 {
		t.Fatalf("internal url fetched %d times", hits)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"model timeout", fmt.Errorf("%w: %w", generator.ErrUpstream, context.DeadlineExceeded), http.StatusGatewayTimeout, "image model timed out"},
		{"asset timeout", &render.AssetError{Asset: "team logo", Err: context.DeadlineExceeded}, http.StatusBadRequest, "team logo could not be loaded"},
		{"badge", &render.AssetError{Asset: "mvp badge", Err: errors.New("decode image: unknown format")}, http.StatusBadRequest, "mvp badge could not be loaded"},
		{"bare deadline", context.DeadlineExceeded, http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status := statusFor(tc.err)
			if status != tc.status {
				t.Fatalf("status = %d, want %d", status, tc.status)
			}
			if msg := publicMessage(status, tc.err); msg != tc.message {
				t.Fatalf("message = %q, want %q", msg, tc.message)
			}
		})
	}
}

func TestRenderCard(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{})
	w := do(r, http.MethodPost, "/cards/render", cards.RenderCardRequest{Image: pngB64(t, 64, 64), PlayerName: "Ada", TeamColor: "green"})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if sw, err := imagepkg.ReadSoftware(w.Body.Bytes()); err != nil || sw != imagepkg.WatermarkText {
		t.Fatalf("expected watermark, got %q (%v)", sw, err)
	}

	w = do(r, http.MethodPost, "/cards/render", cards.RenderCardRequest{PlayerName: "Ada"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without image, got %d", w.Code)
	}
	w = do(r, http.MethodPost, "/cards/render", cards.RenderCardRequest{Image: pngB64(t, 8, 8), TeamLogo: "missing.png"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing logo, got %d", w.Code)
	}
}

func TestPrintCard(t *testing.T) {
	w := do(newTestRouter(t, &fakeGenerator{}), http.MethodPost, "/cards/print", cards.RenderCardRequest{Image: pngB64(t, 64, 64)})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("expected pdf body")
	}
}

func TestCardBack(t *testing.T) {
	w := do(newTestRouter(t, &fakeGenerator{}), http.MethodGet, "/cards/back?teamColor=red", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != imagepkg.CardWidth || b.Dy() != imagepkg.CardHeight {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestQR(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{})
	w := do(r, http.MethodGet, "/qr?text=hello&size=128", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected %d", w.Code)
	}
	cfg, err := png.DecodeConfig(w.Body)
	if err != nil || cfg.Width != 128 {
		t.Fatalf("unexpected qr %+v (%v)", cfg, err)
	}
	if w := do(r, http.MethodGet, "/qr", nil); w.Code != http.StatusOK {
		t.Fatalf("expected default text to be used, got %d", w.Code)
	}
}

func TestReferenceData(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{})
	tests := []struct {
		path string
		key  string
	}{
		{"/teams", "teams"},
		{"/sports", "sports"},
		{"/loading-messages", "messages"},
		{"/loading-messages?index=16", "message"},
		{"/special-properties", "specialProperties"},
		{"/capture/constraints", "video"},
		{"/capture/error?name=NotFoundError", "message"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tc.path, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := body[tc.key]; !ok {
				t.Fatalf("missing %q in %s", tc.key, w.Body.String())
			}
		})
	}
	if w := do(r, http.MethodGet, "/loading-messages?index=x", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad index, got %d", w.Code)
	}
}

func TestTeamsFilter(t *testing.T) {
	w := do(newTestRouter(t, &fakeGenerator{}), http.MethodGet, "/teams?group=red", nil)
	var body struct {
		Count int              `json:"count"`
		Teams []cards.TeamInfo `json:"teams"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 4 || len(body.Teams) != 4 {
		t.Fatalf("expected the 4 red teams, got %d", body.Count)
	}
	for _, team := range body.Teams {
		if team.Group != "red" {
			t.Fatalf("unexpected team %+v", team)
		}
	}
}

func TestVIP(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{})
	tests := []struct {
		query string
		want  bool
	}{
		{"firstName=ada&lastName=LOVELACE", true},
		{"firstName=Juergen&lastName=Mueller", true},
		{"firstName=Nobody&lastName=Here", false},
		{"firstName=Ada", false},
	}
	for _, tc := range tests {
		w := do(r, http.MethodGet, "/vip?"+tc.query, nil)
		var resp cards.VIPResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.VIP != tc.want {
			t.Errorf("%s: vip = %v, want %v", tc.query, resp.VIP, tc.want)
		}
	}
}

func TestCaptureFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(640, 480, color.White)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	r := newTestRouter(t, &fakeGenerator{})
	w := do(r, http.MethodPost, "/capture?mirror=true", buf.Bytes())
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected %d %s", w.Code, w.Body.String())
	}
	cfg, err := jpeg.DecodeConfig(w.Body)
	if err != nil || cfg.Width != 400 || cfg.Height != 560 {
		t.Fatalf("unexpected capture %+v (%v)", cfg, err)
	}

	w = do(r, http.MethodPost, "/capture?format=webp", buf.Bytes())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for webp, got %d", w.Code)
	}
	w = do(r, http.MethodPost, "/capture", "not an image")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for garbage, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t, &fakeGenerator{})
	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown origin, got %d", w.Code)
	}
}
