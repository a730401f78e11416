package services

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "math/rand"
  "net"
  "net/http"
  "regexp"
  "strings"
  "time"

  "github.com/bionet-project/bionet-backend/internal/logger"
  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
  "github.com/bionet-project/bionet-backend/internal/types"
  "github.com/bionet-project/bionet-backend/internal/utils"
)

// GeneAnnotation is the classifier's suggestion for one gene: a short
// description and a free-text functional category (not constrained to an
// enum; the reconciliation engine decides whether it is new).
type GeneAnnotation struct {
  Description string `json:"description"`
  Category    string `json:"category"`
}

// GeneAIClient wraps the external model used for classification and
// enrichment. Both calls block; timeouts are client configuration.
type GeneAIClient interface {
  Classify(ctx context.Context, symbol string, diseaseContext string) (*GeneAnnotation, error)
  Enrich(ctx context.Context, symbol string, diseaseContext string) (*types.GeneDetails, error)
}

type geneAIClient struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  model      string
  httpClient *http.Client

  maxRetries int
}

func NewGeneAIClient(log *logger.Logger) (GeneAIClient, error) {
  apiKey := utils.GetEnv("OPENAI_API_KEY", "", nil)
  if apiKey == "" {
    return nil, fmt.Errorf("missing OPENAI_API_KEY")
  }

  baseURL := utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log)
  model := utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log)
  timeoutSec := utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 30, log)
  maxRetries := utils.GetEnvAsInt("OPENAI_MAX_RETRIES", 2, log)

  return &geneAIClient{
    log:        log.With("service", "GeneAIClient"),
    baseURL:    strings.TrimRight(baseURL, "/"),
    apiKey:     apiKey,
    model:      model,
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    maxRetries: maxRetries,
  }, nil
}

type aiHTTPError struct {
  StatusCode int
  Body       string
}

func (e *aiHTTPError) Error() string {
  return fmt.Sprintf("ai http %d: %s", e.StatusCode, e.Body)
}

func isRetryableStatus(code int) bool {
  if code == 408 || code == 429 {
    return true
  }
  return code >= 500 && code <= 599
}

func isRetryableAIErr(err error) bool {
  if err == nil {
    return false
  }
  var netErr net.Error
  if errors.As(err, &netErr) && netErr.Timeout() {
    return true
  }
  var httpErr *aiHTTPError
  if errors.As(err, &httpErr) {
    return isRetryableStatus(httpErr.StatusCode)
  }
  return false
}

func aiJitterSleep(base time.Duration) time.Duration {
  // +/- 20%
  if base <= 0 {
    return 0
  }
  j := 0.2
  delta := base.Seconds() * j
  low := base.Seconds() - delta
  high := base.Seconds() + delta
  v := low + rand.Float64()*(high-low)
  return time.Duration(v * float64(time.Second))
}

type chatRequest struct {
  Model    string        `json:"model"`
  Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
  Role    string `json:"role"`
  Content string `json:"content"`
}

type chatResponse struct {
  Choices []struct {
    Message struct {
      Content string `json:"content"`
    } `json:"message"`
  } `json:"choices"`
}

func (c *geneAIClient) doOnce(ctx context.Context, body any) ([]byte, error) {
  var buf bytes.Buffer
  if err := json.NewEncoder(&buf).Encode(body); err != nil {
    return nil, err
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
  if err != nil {
    return nil, err
  }
  req.Header.Set("Authorization", "Bearer "+c.apiKey)
  req.Header.Set("Content-Type", "application/json")

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, err
  }
  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return nil, readErr
  }
  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return nil, &aiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
  }
  return raw, nil
}

func (c *geneAIClient) complete(ctx context.Context, system, user string) (string, error) {
  req := chatRequest{
    Model: c.model,
    Messages: []chatMessage{
      {Role: "system", Content: system},
      {Role: "user", Content: user},
    },
  }

  backoff := 1 * time.Second
  var lastErr error
  for attempt := 0; attempt <= c.maxRetries; attempt++ {
    if ctx.Err() != nil {
      return "", ctx.Err()
    }

    raw, err := c.doOnce(ctx, req)
    if err == nil {
      var parsed chatResponse
      if uErr := json.Unmarshal(raw, &parsed); uErr != nil {
        return "", fmt.Errorf("ai decode error: %w", uErr)
      }
      if len(parsed.Choices) == 0 {
        return "", fmt.Errorf("ai returned no choices")
      }
      return parsed.Choices[0].Message.Content, nil
    }

    lastErr = err
    if !isRetryableAIErr(err) || attempt == c.maxRetries {
      return "", err
    }

    sleepFor := backoff
    if sleepFor > 10*time.Second {
      sleepFor = 10 * time.Second
    }
    sleepFor = aiJitterSleep(sleepFor)
    c.log.Warn("AI request retrying", "attempt", attempt+1, "max_retries", c.maxRetries, "sleep", sleepFor.String(), "error", err.Error())
    time.Sleep(sleepFor)
    backoff *= 2
  }
  return "", lastErr
}

var fenceOpen = regexp.MustCompile("^```(?:json)?\\s*")
var fenceClose = regexp.MustCompile("\\s*```$")

// stripFences removes markdown code fences the model sometimes wraps its
// JSON in despite instructions.
func stripFences(s string) string {
  s = strings.TrimSpace(s)
  s = fenceOpen.ReplaceAllString(s, "")
  s = fenceClose.ReplaceAllString(s, "")
  return strings.TrimSpace(s)
}

const maxDescriptionLen = 150

func (c *geneAIClient) Classify(ctx context.Context, symbol string, diseaseContext string) (*GeneAnnotation, error) {
  system := "You are a biomedical annotation assistant. Respond with valid JSON only: no markdown, no backticks, no extra text."
  user := fmt.Sprintf(`Provide information about the human gene %s in the context of %s.

Return ONLY valid JSON in this exact format:
{
  "description": "Brief biological function in max 15 words",
  "category": "Concise functional category (max 2 words, e.g., 'Ion Channel', 'Cytokine', 'Enzyme', 'Tumor Suppressor')"
}

Important:
- Category should be a general functional class (e.g., 'Receptor', 'Kinase', 'Transcription Factor')
- Use standard biological terminology
- Keep it concise (max 2 words)`, symbol, diseaseContext)

  content, err := c.complete(ctx, system, user)
  if err != nil {
    return nil, fmt.Errorf("%w: classify %s: %v", apperrors.ErrUpstreamUnavailable, symbol, err)
  }

  var ann GeneAnnotation
  if err := json.Unmarshal([]byte(stripFences(content)), &ann); err != nil {
    return nil, fmt.Errorf("%w: classify %s: malformed response: %v", apperrors.ErrUpstreamUnavailable, symbol, err)
  }
  if ann.Category == "" || ann.Description == "" {
    return nil, fmt.Errorf("classify %s: missing required fields", symbol)
  }

  ann.Category = types.NormalizeCategoryName(ann.Category)
  if len(ann.Description) > maxDescriptionLen {
    ann.Description = ann.Description[:maxDescriptionLen-3] + "..."
  }
  c.log.Debug("Classified gene", "symbol", symbol, "category", ann.Category)
  return &ann, nil
}

func (c *geneAIClient) Enrich(ctx context.Context, symbol string, diseaseContext string) (*types.GeneDetails, error) {
  system := "You are a biomedical annotation assistant. Respond with valid JSON only: no markdown, no backticks, no extra text."
  user := fmt.Sprintf(`Provide detailed information about the human gene %s in the context of %s.

Return ONLY valid JSON in this exact format:
{
  "full_name": "Full gene name",
  "function_summary": "Molecular function in 2-3 sentences",
  "disease_relevance": "Role in disease in 2-3 sentences",
  "known_drugs": ["drug1", "drug2"],
  "clinical_significance": "Low, Moderate, or High"
}`, symbol, diseaseContext)

  content, err := c.complete(ctx, system, user)
  if err != nil {
    return nil, fmt.Errorf("%w: enrich %s: %v", apperrors.ErrUpstreamUnavailable, symbol, err)
  }

  var details types.GeneDetails
  if err := json.Unmarshal([]byte(stripFences(content)), &details); err != nil {
    return nil, fmt.Errorf("%w: enrich %s: malformed response: %v", apperrors.ErrUpstreamUnavailable, symbol, err)
  }
  if details.FunctionSummary == "" {
    return nil, fmt.Errorf("enrich %s: missing required fields", symbol)
  }
  switch details.ClinicalSignificance {
  case "Low", "Moderate", "High":
  default:
    details.ClinicalSignificance = "Moderate"
  }
  if details.KnownDrugs == nil {
    details.KnownDrugs = []string{}
  }
  c.log.Debug("Enriched gene", "symbol", symbol)
  return &details, nil
}
