package stringdb

import (
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "net/url"
  "strconv"
  "strings"
  "time"

  "github.com/bionet-project/bionet-backend/internal/logger"
  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
  "github.com/bionet-project/bionet-backend/internal/utils"
)

// Client talks to a STRING-style protein interaction source. Calls are a
// single attempt; retrying a failed batch is a caller decision.
type Client interface {
  ResolveIdentifiers(ctx context.Context, symbols []string) (map[string]string, error)
  GetInteractions(ctx context.Context, ids []string, minScore float64) ([]Interaction, error)
  GetAnnotation(ctx context.Context, symbol string) (*ProteinInfo, error)
}

// Interaction is one scored pair as returned by the source. Names are the
// source's preferred gene symbols; Score is already mapped to [0,1].
type Interaction struct {
  IDA   string
  IDB   string
  NameA string
  NameB string
  Score float64
}

type ProteinInfo struct {
  Symbol        string `json:"gene"`
  ProteinID     string `json:"protein_id"`
  PreferredName string `json:"preferred_name"`
  Annotation    string `json:"annotation"`
}

type client struct {
  log        *logger.Logger
  baseURL    string
  species    string
  caller     string
  httpClient *http.Client
}

func NewClient(log *logger.Logger) Client {
  baseURL := utils.GetEnv("STRING_API_URL", "https://string-db.org/api", log)
  species := utils.GetEnv("STRING_SPECIES", "9606", log)
  timeoutSec := utils.GetEnvAsInt("STRING_TIMEOUT_SECONDS", 30, log)

  return &client{
    log:        log.With("client", "StringDBClient"),
    baseURL:    strings.TrimRight(baseURL, "/"),
    species:    species,
    caller:     "bionet_backend",
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
  }
}

func (c *client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
  reqURL := fmt.Sprintf("%s/json/%s?%s", c.baseURL, endpoint, params.Encode())
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
  if err != nil {
    return fmt.Errorf("%w: build request: %v", apperrors.ErrUpstreamUnavailable, err)
  }

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstreamUnavailable, endpoint, err)
  }
  defer resp.Body.Close()

  body, err := io.ReadAll(resp.Body)
  if err != nil {
    return fmt.Errorf("%w: %s: read body: %v", apperrors.ErrUpstreamUnavailable, endpoint, err)
  }
  if resp.StatusCode != http.StatusOK {
    return fmt.Errorf("%w: %s: http %d: %s", apperrors.ErrUpstreamUnavailable, endpoint, resp.StatusCode, truncate(string(body), 200))
  }
  if err := json.Unmarshal(body, out); err != nil {
    return fmt.Errorf("%w: %s: malformed payload: %v", apperrors.ErrUpstreamUnavailable, endpoint, err)
  }
  return nil
}

type resolveEntry struct {
  QueryItem     string `json:"queryItem"`
  StringID      string `json:"stringId"`
  PreferredName string `json:"preferredName"`
}

func (c *client) ResolveIdentifiers(ctx context.Context, symbols []string) (map[string]string, error) {
  if len(symbols) == 0 {
    return map[string]string{}, nil
  }

  params := url.Values{}
  params.Set("identifiers", strings.Join(symbols, "\r"))
  params.Set("species", c.species)
  params.Set("caller_identity", c.caller)
  params.Set("echo_query", "1")

  var entries []resolveEntry
  if err := c.getJSON(ctx, "get_string_ids", params, &entries); err != nil {
    return nil, err
  }

  resolved := map[string]string{}
  for _, e := range entries {
    query := strings.ToUpper(strings.TrimSpace(e.QueryItem))
    if query == "" {
      query = strings.ToUpper(strings.TrimSpace(e.PreferredName))
    }
    if query == "" || e.StringID == "" {
      continue
    }
    if _, seen := resolved[query]; !seen {
      resolved[query] = e.StringID
    }
  }
  c.log.Debug("Resolved identifiers", "requested", len(symbols), "resolved", len(resolved))
  return resolved, nil
}

type networkEntry struct {
  StringIDA      string  `json:"stringId_A"`
  StringIDB      string  `json:"stringId_B"`
  PreferredNameA string  `json:"preferredName_A"`
  PreferredNameB string  `json:"preferredName_B"`
  Score          float64 `json:"score"`
}

func (c *client) GetInteractions(ctx context.Context, ids []string, minScore float64) ([]Interaction, error) {
  if len(ids) == 0 {
    return []Interaction{}, nil
  }

  params := url.Values{}
  params.Set("identifiers", strings.Join(ids, "\r"))
  params.Set("species", c.species)
  params.Set("caller_identity", c.caller)
  // The source scores on a 0-1000 scale.
  params.Set("required_score", strconv.Itoa(int(minScore*1000)))

  var entries []networkEntry
  if err := c.getJSON(ctx, "network", params, &entries); err != nil {
    return nil, err
  }

  interactions := make([]Interaction, 0, len(entries))
  for _, e := range entries {
    interactions = append(interactions, Interaction{
      IDA:   e.StringIDA,
      IDB:   e.StringIDB,
      NameA: strings.ToUpper(strings.TrimSpace(e.PreferredNameA)),
      NameB: strings.ToUpper(strings.TrimSpace(e.PreferredNameB)),
      Score: e.Score,
    })
  }
  c.log.Debug("Retrieved interactions", "count", len(interactions))
  return interactions, nil
}

type annotationEntry struct {
  Annotation string `json:"annotation"`
}

func (c *client) GetAnnotation(ctx context.Context, symbol string) (*ProteinInfo, error) {
  params := url.Values{}
  params.Set("identifiers", symbol)
  params.Set("species", c.species)
  params.Set("caller_identity", c.caller)

  var entries []resolveEntry
  if err := c.getJSON(ctx, "get_string_ids", params, &entries); err != nil {
    return nil, err
  }
  if len(entries) == 0 {
    return nil, fmt.Errorf("%w: protein %s", apperrors.ErrNotFound, symbol)
  }

  info := &ProteinInfo{
    Symbol:        symbol,
    ProteinID:     entries[0].StringID,
    PreferredName: entries[0].PreferredName,
  }
  if info.PreferredName == "" {
    info.PreferredName = symbol
  }

  annParams := url.Values{}
  annParams.Set("identifiers", entries[0].StringID)
  annParams.Set("species", c.species)
  annParams.Set("caller_identity", c.caller)

  var anns []annotationEntry
  if err := c.getJSON(ctx, "get_annotation", annParams, &anns); err == nil && len(anns) > 0 {
    info.Annotation = anns[0].Annotation
  }
  if info.Annotation == "" {
    info.Annotation = "No description available"
  }
  return info, nil
}

func truncate(s string, max int) string {
  if len(s) <= max {
    return s
  }
  return s[:max] + "..."
}
