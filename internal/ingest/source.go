// Package ingest fetches video transcripts from the transcript
// sidecar service.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/hammamikhairi/souschef/internal/domain"
)

const defaultTimeout = 30 * time.Second

// videoIDPatterns match the usual YouTube URL shapes plus a bare ID.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^([A-Za-z0-9_-]{11})$`),
}

// HTTPSource fetches transcripts over HTTP from a sidecar that wraps
// the actual transcript provider.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

var _ domain.TranscriptSource = (*HTTPSource)(nil)

func NewHTTPSource(baseURL string, log zerolog.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

// Fetch resolves ref (a video URL or bare ID) and returns its
// transcript. Upstream failures are reported as ErrUpstream.
func (s *HTTPSource) Fetch(ctx context.Context, ref string) (*domain.Transcript, error) {
	videoID, err := extractVideoID(ref)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/transcript?video_id=%s", s.baseURL, url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("transcript for %q: %w", videoID, domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: transcript service returned %d: %s", domain.ErrUpstream, resp.StatusCode, body)
	}

	var t domain.Transcript
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decode transcript: %v", domain.ErrUpstream, err)
	}
	if t.ID == "" {
		t.ID = videoID
	}
	s.log.Debug().Str("video_id", t.ID).Int("chars", len(t.Text)).Msg("transcript fetched")
	return &t, nil
}

// extractVideoID pulls the 11-character video ID out of ref.
func extractVideoID(ref string) (string, error) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(ref); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("no video id in %q: %w", ref, domain.ErrNotFound)
}
