package generation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/adforge/adforge-backend/pkg/config"
	"github.com/adforge/adforge-backend/pkg/enums"
	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
	"github.com/adforge/adforge-backend/pkg/logger"
	"github.com/adforge/adforge-backend/pkg/metrics"
)

const (
	settingUseLLM        = "use_llm"
	settingLLMProvider   = "llm_provider"
	settingUseImageModel = "use_image_model"
	settingImageProvider = "image_provider"

	defaultTextProvider  = "OpenAI"
	defaultImageProvider = "OpenAI"

	creativeScope = "creatives"
)

type settingsReader interface {
	Value(ctx context.Context, key string) (string, bool, error)
}

type artifactStore interface {
	SaveBytes(scope, filename string, data []byte) (string, int64, error)
}

// IdeaRequest carries the inputs for one (region, demographic) text generation.
type IdeaRequest struct {
	BriefContent    string
	CampaignMessage string
	Region          string
	Demographic     string
}

// IdeaResult is the generated copy plus the language it targets.
type IdeaResult struct {
	Content      string
	LanguageCode string
}

// CreativeRequest carries the inputs for one image render.
type CreativeRequest struct {
	IdeaContent     string
	CampaignMessage string
	Region          string
	Demographic     string
	AspectRatio     enums.AspectRatio
	BrandColors     []string
	LanguageCode    string
	BrandName       string
	BrandLogoRef    string
}

// CreativeResult describes the stored artifact.
type CreativeResult struct {
	FileRef   string
	MimeType  string
	SizeBytes int64
	JobID     *string
}

// Service is the gateway to external text and image providers. Provider
// selection and credentials come from settings with an env fallback; with no
// credential at all the service produces deterministic mock output so the
// pipeline stays usable offline.
type Service struct {
	settings settingsReader
	store    artifactStore
	client   *http.Client
	cfg      config.GenerationConfig
	metrics  *metrics.GenerationMetrics
	logg     *logger.Logger
}

// NewService constructs the generation gateway.
func NewService(settings settingsReader, store artifactStore, cfg config.GenerationConfig, gm *metrics.GenerationMetrics, logg *logger.Logger) (*Service, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings reader required")
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		settings: settings,
		store:    store,
		client:   &http.Client{Timeout: timeout},
		cfg:      cfg,
		metrics:  gm,
		logg:     logg,
	}, nil
}

type textProviderConfig struct {
	url   string
	model string
}

var textProviders = map[string]textProviderConfig{
	"OpenAI":    {url: "https://api.openai.com/v1/chat/completions", model: "gpt-4"},
	"Anthropic": {url: "https://api.anthropic.com/v1/messages", model: "claude-3-opus-20240229"},
	"Gemini":    {url: "https://generativelanguage.googleapis.com/v1/models/gemini-pro:generateContent", model: "gemini-pro"},
	"Grok":      {url: "https://api.x.ai/v1/chat/completions", model: "grok-beta"},
	"DeepSeek":  {url: "https://api.deepseek.com/v1/chat/completions", model: "deepseek-chat"},
}

var imageProviders = map[string]string{
	"Adobe Firefly":    "https://firefly-api.adobe.io/v3/images/generate",
	"Midjourney":       "https://api.midjourney.com/v1/imagine",
	"DALL-E":           "https://api.openai.com/v1/images/generations",
	"OpenAI":           "https://api.openai.com/v1/images/generations",
	"Stable Diffusion": "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image",
	"Freepik":          "https://api.freepik.com/v1/ai/text-to-image",
}

// GenerateIdea produces campaign copy for one (region, demographic) pair.
func (s *Service) GenerateIdea(ctx context.Context, req IdeaRequest) (*IdeaResult, error) {
	languageCode := LanguageForRegion(req.Region)

	provider, apiKey, err := s.textProvider(ctx)
	if err != nil {
		return nil, err
	}

	if apiKey == "" {
		s.logg.Warn(s.logg.WithField(ctx, "provider", provider), "no text credential configured, using mock idea")
		return &IdeaResult{
			Content:      mockIdea(req.Region, req.Demographic, req.CampaignMessage, languageCode),
			LanguageCode: languageCode,
		}, nil
	}

	pc, ok := textProviders[provider]
	if !ok {
		pc = textProviders[defaultTextProvider]
	}

	started := time.Now()
	content, err := s.callChatCompletion(ctx, pc, apiKey, buildIdeaPrompt(req.BriefContent, req.CampaignMessage, req.Region, req.Demographic))
	s.metrics.ObserveDuration("idea", provider, time.Since(started))
	if err != nil {
		s.metrics.IncFailure("idea", provider)
		return nil, err
	}
	s.metrics.IncSuccess("idea", provider)

	return &IdeaResult{Content: content, LanguageCode: languageCode}, nil
}

// GenerateCreative renders one image artifact and stores it. Provider
// failures other than rate limiting fall back to the placeholder renderer so
// a creative is always produced.
func (s *Service) GenerateCreative(ctx context.Context, req CreativeRequest) (*CreativeResult, error) {
	if !req.AspectRatio.IsValid() {
		req.AspectRatio = enums.AspectRatioSquare
	}
	if req.LanguageCode == "" {
		req.LanguageCode = LanguageForRegion(req.Region)
	}

	provider, apiKey, err := s.imageProvider(ctx)
	if err != nil {
		return nil, err
	}

	prompt := buildImagePrompt(req)

	if apiKey == "" {
		s.logg.Warn(s.logg.WithField(ctx, "provider", provider), "no image credential configured, using placeholder creative")
		return s.saveMockCreative(req.AspectRatio)
	}

	started := time.Now()
	data, jobID, err := s.callImageAPI(ctx, provider, apiKey, prompt, req.AspectRatio)
	s.metrics.ObserveDuration("creative", provider, time.Since(started))
	if err != nil {
		s.metrics.IncFailure("creative", provider)
		if pkgerrors.IsCode(err, pkgerrors.CodeRateLimit) {
			return nil, err
		}
		s.logg.Error(ctx, "image provider call failed, falling back to placeholder", err)
		return s.saveMockCreative(req.AspectRatio)
	}
	s.metrics.IncSuccess("creative", provider)

	ref, size, err := s.store.SaveBytes(creativeScope, "creative.png", data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store creative artifact")
	}
	return &CreativeResult{FileRef: ref, MimeType: "image/png", SizeBytes: size, JobID: jobID}, nil
}

func (s *Service) textProvider(ctx context.Context) (provider, apiKey string, err error) {
	provider, err = s.lookupSetting(ctx, settingUseLLM, settingLLMProvider, defaultTextProvider)
	if err != nil {
		return "", "", err
	}
	apiKey, err = s.lookupKey(ctx, provider, s.cfg.TextAPIKey)
	return provider, apiKey, err
}

func (s *Service) imageProvider(ctx context.Context) (provider, apiKey string, err error) {
	provider, err = s.lookupSetting(ctx, settingUseImageModel, settingImageProvider, defaultImageProvider)
	if err != nil {
		return "", "", err
	}
	apiKey, err = s.lookupKey(ctx, provider, s.cfg.ImageAPIKey)
	return provider, apiKey, err
}

func (s *Service) lookupSetting(ctx context.Context, key, fallbackKey, def string) (string, error) {
	for _, k := range []string{key, fallbackKey} {
		value, ok, err := s.settings.Value(ctx, k)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read provider setting")
		}
		if ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), nil
		}
	}
	return def, nil
}

// lookupKey resolves the credential stored under the provider's own name,
// falling back to the environment-provided key. Placeholder values count as
// absent.
func (s *Service) lookupKey(ctx context.Context, provider, envFallback string) (string, error) {
	value, ok, err := s.settings.Value(ctx, provider)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read provider credential")
	}
	key := strings.TrimSpace(value)
	if !ok || key == "" {
		key = strings.TrimSpace(envFallback)
	}
	if strings.HasPrefix(key, "your_") && strings.HasSuffix(key, "_here") {
		key = ""
	}
	return key, nil
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *Service) callChatCompletion(ctx context.Context, pc textProviderConfig, apiKey, prompt string) (string, error) {
	payload := chatCompletionRequest{
		Model: pc.model,
		Messages: []chatMessage{
			{Role: "system", Content: ideaSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   150,
		Temperature: 0.8,
	}

	body, err := s.post(ctx, pc.url, apiKey, payload)
	if err != nil {
		return "", err
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode completion response")
	}
	if len(parsed.Choices) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "completion response contained no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

type imageGenerationRequest struct {
	Model          string `json:"model,omitempty"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n,omitempty"`
	Size           string `json:"size,omitempty"`
	Quality        string `json:"quality,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type imageGenerationResponse struct {
	ID   string `json:"id"`
	Data []struct {
		B64JSON string `json:"b64_json"`
		Base64  string `json:"base64"`
	} `json:"data"`
	Outputs []struct {
		Image struct {
			URL string `json:"url"`
		} `json:"image"`
	} `json:"outputs"`
}

var dalleSizeByRatio = map[enums.AspectRatio]string{
	enums.AspectRatioLandscape: "1792x1024",
	enums.AspectRatioPortrait:  "1024x1792",
	enums.AspectRatioSquare:    "1024x1024",
}

func (s *Service) callImageAPI(ctx context.Context, provider, apiKey, prompt string, ratio enums.AspectRatio) ([]byte, *string, error) {
	url, ok := imageProviders[provider]
	if !ok {
		url = imageProviders[defaultImageProvider]
	}

	payload := imageGenerationRequest{Prompt: prompt}
	switch provider {
	case "OpenAI", "DALL-E":
		payload.Model = "dall-e-3"
		payload.N = 1
		payload.Size = dalleSizeByRatio[ratio]
		payload.Quality = "standard"
		payload.ResponseFormat = "b64_json"
	}

	body, err := s.post(ctx, url, apiKey, payload)
	if err != nil {
		return nil, nil, err
	}

	var parsed imageGenerationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode image response")
	}

	var jobID *string
	if parsed.ID != "" {
		id := parsed.ID
		jobID = &id
	}

	switch {
	case len(parsed.Data) > 0:
		encoded := parsed.Data[0].B64JSON
		if encoded == "" {
			encoded = parsed.Data[0].Base64
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode image payload")
		}
		if len(data) == 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeDependency, "image provider returned empty payload")
		}
		return data, jobID, nil

	case len(parsed.Outputs) > 0:
		data, err := s.download(ctx, parsed.Outputs[0].Image.URL)
		if err != nil {
			return nil, nil, err
		}
		return data, jobID, nil
	}

	return nil, nil, pkgerrors.New(pkgerrors.CodeDependency, "image provider returned no output")
}

func (s *Service) post(ctx context.Context, url, apiKey string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode provider payload")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build provider request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call generation provider")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read provider response")
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "provider quota or rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("provider returned status %d", resp.StatusCode)).WithDetails(truncate(string(body), 500))
	}
	return body, nil
}

func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image provider returned empty url")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build download request")
	}
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "download generated image")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("image download returned status %d", resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}

func (s *Service) saveMockCreative(ratio enums.AspectRatio) (*CreativeResult, error) {
	data, err := mockImagePNG(ratio)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render placeholder creative")
	}
	ref, size, err := s.store.SaveBytes(creativeScope, "creative.png", data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store placeholder creative")
	}
	return &CreativeResult{FileRef: ref, MimeType: "image/png", SizeBytes: size}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
