package imaging

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed placeholder.svg
var placeholderSVG []byte

// Policy controls what happens when an image reference cannot be resolved.
type Policy string

const (
	// PolicyExclude drops the candidate from the comparison request.
	PolicyExclude Policy = "exclude"
	// PolicyPlaceholder substitutes bundled placeholder art and marks the
	// payload as degraded so it is never presented as real character art.
	PolicyPlaceholder Policy = "placeholder"
)

// ParsePolicy validates a policy string, defaulting to PolicyExclude.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return PolicyExclude, nil
	case PolicyExclude, PolicyPlaceholder:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown image policy %q (want %q or %q)", s, PolicyExclude, PolicyPlaceholder)
	}
}

const (
	maxFetchBytes  = 20 << 20
	fetchTimeout   = 15 * time.Second
	defaultMaxEdge = 800
)

// Materializer resolves image references into gateway-ready payloads.
// It performs I/O but keeps no state, so a single instance is safe for
// concurrent use.
type Materializer struct {
	policy   Policy
	assetDir string
	maxEdge  int
	client   *http.Client
	log      *slog.Logger
}

// NewMaterializer builds a materializer. Root-relative references resolve
// under assetDir; maxEdge <= 0 falls back to the default edge cap.
func NewMaterializer(policy Policy, assetDir string, maxEdge int, log *slog.Logger) *Materializer {
	if maxEdge <= 0 {
		maxEdge = defaultMaxEdge
	}
	if log == nil {
		log = slog.Default()
	}
	return &Materializer{
		policy:   policy,
		assetDir: assetDir,
		maxEdge:  maxEdge,
		client:   &http.Client{Timeout: fetchTimeout},
		log:      log,
	}
}

// Placeholder returns the bundled fallback art, already marked degraded.
func Placeholder() Payload {
	return Payload{MediaType: "image/svg+xml", Data: placeholderSVG, Degraded: true}
}

// Materialize resolves ref to an embeddable payload. Under PolicyPlaceholder
// a resolution failure yields placeholder art and a nil error; under
// PolicyExclude the failure is returned to the caller.
func (m *Materializer) Materialize(ctx context.Context, ref string) (Payload, error) {
	payload, err := m.resolve(ctx, ref)
	if err == nil {
		return payload, nil
	}

	if m.policy == PolicyPlaceholder {
		m.log.Warn("image materialization failed, using placeholder",
			slog.String("ref", ref), slog.Any("error", err))
		return Placeholder(), nil
	}
	return Payload{}, fmt.Errorf("materializing %s: %w", ref, err)
}

func (m *Materializer) resolve(ctx context.Context, ref string) (Payload, error) {
	var data []byte
	var err error
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		data, err = m.fetch(ctx, ref)
	} else {
		data, err = os.ReadFile(m.localPath(ref))
	}
	if err != nil {
		return Payload{}, err
	}

	return m.encode(ref, data)
}

// encode turns raw image bytes into the wire payload. Vector art passes
// through untouched; raster formats are resized and re-encoded as JPEG.
func (m *Materializer) encode(ref string, data []byte) (Payload, error) {
	mediaType := mediaTypeForRef(ref)
	if mediaType == "image/svg+xml" {
		return Payload{MediaType: mediaType, Data: data}, nil
	}

	resized, err := Resize(data, m.maxEdge)
	if err != nil {
		return Payload{}, err
	}
	return Payload{MediaType: "image/jpeg", Data: resized}, nil
}

func (m *Materializer) localPath(ref string) string {
	cleaned := filepath.FromSlash(strings.TrimPrefix(ref, "/"))
	return filepath.Join(m.assetDir, cleaned)
}

func (m *Materializer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("could not read image body: %w", err)
	}
	return data, nil
}

// FromBytes prepares an uploaded subject photo for the gateway: decoded,
// resized to the edge cap, and re-encoded as JPEG.
func FromBytes(data []byte, maxEdge int) (Payload, error) {
	if maxEdge <= 0 {
		maxEdge = defaultMaxEdge
	}
	resized, err := Resize(data, maxEdge)
	if err != nil {
		return Payload{}, fmt.Errorf("preparing subject photo: %w", err)
	}
	return Payload{MediaType: "image/jpeg", Data: resized}, nil
}
