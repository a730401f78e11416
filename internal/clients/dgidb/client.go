package dgidb

import (
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "net/url"
  "sort"
  "strings"
  "time"

  "github.com/bionet-project/bionet-backend/internal/logger"
  apperrors "github.com/bionet-project/bionet-backend/internal/pkg/errors"
  "github.com/bionet-project/bionet-backend/internal/utils"
)

// Client looks up drug-gene interactions from a DGIdb-style source.
type Client interface {
  GetInteractions(ctx context.Context, symbol string) (*DrugReport, error)
}

type DrugInteraction struct {
  DrugName         string   `json:"drug_name"`
  InteractionTypes []string `json:"interaction_types"`
  Sources          []string `json:"sources"`
}

type DrugReport struct {
  Gene       string            `json:"gene"`
  Druggable  bool              `json:"druggable"`
  DrugCount  int               `json:"drug_count"`
  Drugs      []DrugInteraction `json:"drugs"`
  Categories []string          `json:"categories"`
  Message    string            `json:"message,omitempty"`
}

type client struct {
  log        *logger.Logger
  baseURL    string
  httpClient *http.Client
}

func NewClient(log *logger.Logger) Client {
  baseURL := utils.GetEnv("DGIDB_API_URL", "https://dgidb.org/api/v2", log)
  timeoutSec := utils.GetEnvAsInt("DGIDB_TIMEOUT_SECONDS", 15, log)

  return &client{
    log:        log.With("client", "DGIdbClient"),
    baseURL:    strings.TrimRight(baseURL, "/"),
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
  }
}

type interactionsResponse struct {
  MatchedTerms []struct {
    Interactions []struct {
      DrugName         string   `json:"drugName"`
      InteractionTypes []string `json:"interactionTypes"`
      Sources          []string `json:"sources"`
    } `json:"interactions"`
  } `json:"matchedTerms"`
}

const maxDrugsReturned = 10

func (c *client) GetInteractions(ctx context.Context, symbol string) (*DrugReport, error) {
  params := url.Values{}
  params.Set("genes", symbol)
  reqURL := fmt.Sprintf("%s/interactions.json?%s", c.baseURL, params.Encode())

  req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
  if err != nil {
    return nil, fmt.Errorf("%w: build request: %v", apperrors.ErrUpstreamUnavailable, err)
  }

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, fmt.Errorf("%w: interactions: %v", apperrors.ErrUpstreamUnavailable, err)
  }
  defer resp.Body.Close()

  body, err := io.ReadAll(resp.Body)
  if err != nil {
    return nil, fmt.Errorf("%w: interactions: read body: %v", apperrors.ErrUpstreamUnavailable, err)
  }
  if resp.StatusCode != http.StatusOK {
    return nil, fmt.Errorf("%w: interactions: http %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
  }

  var parsed interactionsResponse
  if err := json.Unmarshal(body, &parsed); err != nil {
    return nil, fmt.Errorf("%w: interactions: malformed payload: %v", apperrors.ErrUpstreamUnavailable, err)
  }

  report := &DrugReport{Gene: symbol, Drugs: []DrugInteraction{}, Categories: []string{}}
  if len(parsed.MatchedTerms) == 0 {
    report.Message = fmt.Sprintf("No drug interactions found for %s", symbol)
    return report, nil
  }

  categorySet := map[string]struct{}{}
  total := 0
  for _, match := range parsed.MatchedTerms {
    for _, in := range match.Interactions {
      total++
      if len(report.Drugs) < maxDrugsReturned {
        report.Drugs = append(report.Drugs, DrugInteraction{
          DrugName:         in.DrugName,
          InteractionTypes: in.InteractionTypes,
          Sources:          in.Sources,
        })
      }
      for _, t := range in.InteractionTypes {
        categorySet[t] = struct{}{}
      }
    }
  }
  for t := range categorySet {
    report.Categories = append(report.Categories, t)
  }
  sort.Strings(report.Categories)

  report.Druggable = total > 0
  report.DrugCount = total
  c.log.Debug("Drug interactions retrieved", "gene", symbol, "count", total)
  return report, nil
}
