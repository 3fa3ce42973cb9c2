package generator

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/youruser/tradingcard/internal/config"
)

// OpenAIEditor calls the image edit endpoint of Azure OpenAI or OpenAI.
type OpenAIEditor struct {
	client *openai.Client
	model  string
}

// NewOpenAIEditor configures a client for the provider named in cfg.
func NewOpenAIEditor(cfg config.ModelConfig) (*OpenAIEditor, error) {
	var oc openai.ClientConfig
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderAzure, "":
		if cfg.Endpoint == "" {
			return nil, errors.New("azure endpoint is required")
		}
		oc = openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
		if cfg.APIVersion != "" {
			oc.APIVersion = cfg.APIVersion
		}
		// The deployment is named after the image model.
		oc.HTTPClient = deploymentDoer{next: oc.HTTPClient, deployment: cfg.ImageModel}
	case config.ProviderOpenAI:
		oc = openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			oc.BaseURL = strings.TrimRight(cfg.Endpoint, "/")
		}
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
	return &OpenAIEditor{client: openai.NewClientWithConfig(oc), model: cfg.ImageModel}, nil
}

// EditImage uploads the photo with the prompt and returns the decoded result.
func (e *OpenAIEditor) EditImage(ctx context.Context, photo []byte, filename, prompt, size string) ([]byte, error) {
	upload := openai.WrapReader(bytes.NewReader(photo), filename, mime.TypeByExtension(filepath.Ext(filename)))
	req := openai.ImageEditRequest{
		Image:  upload,
		Prompt: prompt,
		Model:  e.model,
		N:      1,
		Size:   size,
	}
	// gpt-image models always answer with b64_json and accept no format.
	if strings.HasPrefix(e.model, "dall-e") {
		req.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}
	resp, err := e.client.CreateEditImage(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return nil, err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, nil
	}
	out, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode model image: %w", err)
	}
	return out, nil
}

// deploymentDoer sends image edits to the Azure deployment path. go-openai
// only inserts the deployment for a fixed list of endpoints.
type deploymentDoer struct {
	next       openai.HTTPDoer
	deployment string
}

func (d deploymentDoer) Do(req *http.Request) (*http.Response, error) {
	if prefix, ok := strings.CutSuffix(req.URL.Path, "/openai/images/edits"); ok {
		req = req.Clone(req.Context())
		req.URL.Path = prefix + "/openai/deployments/" + d.deployment + "/images/edits"
		req.URL.RawPath = ""
	}
	return d.next.Do(req)
}
