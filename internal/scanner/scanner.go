// Package scanner talks to the card identification backend and falls
// back to locally generated mock data when the backend is unreachable.
package scanner

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/codyseavey/card-vault/internal/metrics"
	"github.com/codyseavey/card-vault/internal/mockgen"
	"github.com/codyseavey/card-vault/internal/models"
)

const (
	// identifyTimeout bounds one backend round trip, image upload
	// included.
	identifyTimeout = 30 * time.Second

	// cacheSize caps the identification response cache, keyed by image
	// digest.
	cacheSize = 50
)

// Service uploads card images to the identification backend. Responses
// are cached by image digest and requests are rate limited client-side
// so a scanning burst cannot hammer the backend.
type Service struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	cache   *lru.Cache[string, *models.ScanResponse]
	gen     *mockgen.Generator
}

// NewService creates a scanner. An empty baseURL means no backend is
// configured and every scan resolves through the mock generator.
func NewService(baseURL string, gen *mockgen.Generator) *Service {
	cache, err := lru.New[string, *models.ScanResponse](cacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &Service{
		client:  &http.Client{Timeout: identifyTimeout},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		cache:   cache,
		gen:     gen,
	}
}

// Identify resolves an image to a scan result. Network failure,
// timeout, or a non-OK status from the backend falls back to mock
// generation rather than surfacing an error; only context cancellation
// is returned to the caller.
func (s *Service) Identify(ctx context.Context, image []byte) (*models.ScanResponse, error) {
	start := time.Now()
	defer func() {
		metrics.IdentifyDuration.Observe(time.Since(start).Seconds())
	}()

	digest := sha256.Sum256(image)
	key := hex.EncodeToString(digest[:])
	if cached, ok := s.cache.Get(key); ok {
		metrics.IdentifyRequestsTotal.WithLabelValues("cached").Inc()
		return cached, nil
	}

	if s.baseURL == "" {
		resp := s.MockScan()
		s.cache.Add(key, resp)
		metrics.IdentifyRequestsTotal.WithLabelValues("mock").Inc()
		return resp, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.IdentifyRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	resp, err := s.upload(ctx, image)
	if err != nil {
		if ctx.Err() != nil {
			metrics.IdentifyRequestsTotal.WithLabelValues("error").Inc()
			return nil, ctx.Err()
		}
		log.Printf("Identification backend unavailable, using mock data: %v", err)
		// The fallback covers this call only. Caching it would keep
		// serving synthetic data for this image after the backend
		// recovers, so only authoritative responses go in the cache.
		mock := s.MockScan()
		metrics.IdentifyRequestsTotal.WithLabelValues("mock").Inc()
		return mock, nil
	}

	resp.Source = models.ScanSourceBackend
	s.cache.Add(key, resp)
	metrics.IdentifyRequestsTotal.WithLabelValues("backend").Inc()
	return resp, nil
}

func (s *Service) upload(ctx context.Context, image []byte) (*models.ScanResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", uuid.New().String()+".jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	reqURL := s.baseURL + "/api/identify"
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach identification backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identification backend returned status %d", resp.StatusCode)
	}

	var scan models.ScanResponse
	if err := json.NewDecoder(resp.Body).Decode(&scan); err != nil {
		return nil, fmt.Errorf("failed to decode identification response: %w", err)
	}
	return &scan, nil
}

// MockScan builds a full scan result from the demo pool: a pool card,
// name-derived grading, and synthetic pricing.
func (s *Service) MockScan() *models.ScanResponse {
	card := s.gen.PickCard()
	pricing := s.gen.Pricing(card.Name, card.Rarity)
	grading := s.gen.GradingMap(card.Name)

	return &models.ScanResponse{
		Success: true,
		IdentifiedInfo: &models.IdentifiedInfo{
			Name:      card.Name,
			HP:        card.HP,
			SetNumber: card.SetNumber,
		},
		CVConfidence: 0.85,
		Matches: []models.ScanMatch{
			{
				Card: models.CardDetails{
					Name:        card.Name,
					SetName:     card.SetName,
					SetNumber:   card.SetNumber,
					Rarity:      card.Rarity,
					HP:          card.HP,
					CardType:    card.CardType,
					ReleaseDate: card.ReleaseDate,
				},
				Confidence: 0.85,
				Pricing:    &pricing,
			},
		},
		Grading: grading,
		Source:  models.ScanSourceMock,
	}
}

// EntryFromScan converts a scan result into an add-card request for
// the vault. The overall grade is seeded from the subgrade mean; after
// that the two fields live independently. Returns false when the scan
// carries no usable match.
func EntryFromScan(resp *models.ScanResponse) (models.CardInput, bool) {
	if resp == nil || !resp.Success {
		return models.CardInput{}, false
	}
	match := resp.BestMatch()
	if match == nil {
		return models.CardInput{}, false
	}

	input := models.CardInput{
		Name:       match.Card.Name,
		Set:        match.Card.SetName,
		SetNumber:  match.Card.SetNumber,
		Confidence: match.Confidence,
	}
	if input.Confidence == 0 {
		input.Confidence = resp.CVConfidence
	}
	if match.Pricing != nil {
		input.MarketValue = mockgen.UngradedValue(*match.Pricing)
	}
	if len(resp.Grading) > 0 {
		input.Subgrades = orderedSubgrades(resp.Grading)
		sum := 0.0
		for _, sg := range input.Subgrades {
			sum += sg.Value
		}
		mean := sum / float64(len(input.Subgrades))
		input.OverallGrade = fmt.Sprintf("%.1f", mean)
	}
	return input, true
}

// orderedSubgrades turns the backend's grading map into an ordered
// list: canonical condition axes first, anything else alphabetically.
func orderedSubgrades(grading map[string]float64) []models.Subgrade {
	seen := make(map[string]bool, len(grading))
	out := make([]models.Subgrade, 0, len(grading))
	for _, axis := range mockgen.DefaultAxes {
		if v, ok := grading[axis]; ok {
			out = append(out, models.Subgrade{Label: axis, Value: v})
			seen[axis] = true
		}
	}
	rest := make([]string, 0, len(grading))
	for axis := range grading {
		if !seen[axis] {
			rest = append(rest, axis)
		}
	}
	sort.Strings(rest)
	for _, axis := range rest {
		out = append(out, models.Subgrade{Label: axis, Value: grading[axis]})
	}
	return out
}
