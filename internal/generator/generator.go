// Package generator turns a player photo into a themed trading card image by
// forwarding it, together with a rendered prompt, to an image-editing model.
package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/config"
	imagepkg "github.com/youruser/tradingcard/internal/image"
	"github.com/youruser/tradingcard/internal/prompt"
	"github.com/youruser/tradingcard/internal/util"
)

// DefaultSize is the square output size requested from the model.
const DefaultSize = "1024x1024"

var (
	ErrInvalidPhoto  = errors.New("player photo is not a valid image")
	ErrPhotoTooLarge = errors.New("player photo is too large")
	ErrUpstream      = errors.New("image model request failed")
	ErrEmptyResult   = errors.New("image model returned no image")
)

// ImageEditor edits a photo according to a prompt and returns the encoded result.
type ImageEditor interface {
	EditImage(ctx context.Context, photo []byte, filename, prompt, size string) ([]byte, error)
}

// Service generates card images. The zero values of MaxPhotoBytes, Size and
// Timeout mean no limit, DefaultSize and no deadline.
type Service struct {
	Editor         ImageEditor
	Prompt         *prompt.Template
	MaxPhotoBytes  int64
	InjectMetadata bool
	Size           string
	Timeout        time.Duration
}

// New builds a Service from the server configuration.
func New(editor ImageEditor, cfg config.Config) (*Service, error) {
	tmpl, err := prompt.Load(cfg.PromptFile)
	if err != nil {
		return nil, err
	}
	return &Service{
		Editor:         editor,
		Prompt:         tmpl,
		MaxPhotoBytes:  cfg.MaxPhotoBytes,
		InjectMetadata: cfg.InjectMetadata,
		Size:           cfg.Model.Size,
		Timeout:        cfg.Model.Timeout,
	}, nil
}

var tracer = otel.Tracer("github.com/youruser/tradingcard/internal/generator")

// Generate validates the request, asks the model for a card image and returns
// it base64 encoded.
func (s *Service) Generate(ctx context.Context, req *cards.GenerateCardRequest) (_ *cards.GenerateCardResponse, err error) {
	ctx, span := tracer.Start(ctx, "generator.Generate", trace.WithAttributes(
		attribute.String("card.sport", req.Sport.Type),
		attribute.String("card.team", req.Team.Name),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	photo, format, err := s.decodePhoto(req.Player.Photo)
	if err != nil {
		return nil, err
	}

	tmpl := s.Prompt
	if tmpl == nil {
		tmpl = prompt.Default()
	}
	text, err := tmpl.Render(prompt.Data{
		SportName: req.Sport.Type,
		TeamColor: req.Team.Color,
		TeamName:  req.Team.Name,
	})
	if err != nil {
		return nil, err
	}

	size := s.Size
	if size == "" {
		size = DefaultSize
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := s.Editor.EditImage(ctx, photo, "photo."+format, text, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	log.Printf("generated %s card for %s in %s", req.Sport.Type, req.Team.Name, time.Since(start).Round(time.Millisecond))

	if s.InjectMetadata {
		if out, err = imagepkg.InjectMetadata(out); err != nil {
			return nil, fmt.Errorf("inject metadata: %w", err)
		}
	}
	return &cards.GenerateCardResponse{Image: base64.StdEncoding.EncodeToString(out)}, nil
}

func (s *Service) decodePhoto(encoded string) ([]byte, string, error) {
	photo, err := util.DecodeBase64(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidPhoto, err)
	}
	if s.MaxPhotoBytes > 0 && int64(len(photo)) > s.MaxPhotoBytes {
		return nil, "", fmt.Errorf("%w: %d bytes, limit %d", ErrPhotoTooLarge, len(photo), s.MaxPhotoBytes)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(photo))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidPhoto, err)
	}
	return photo, format, nil
}
