package emailhook

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const (
	secretPrefix     = "whsec_"
	DefaultTolerance = 5 * time.Minute
)

// Verifier checks Standard Webhooks signatures ("v1,<base64 hmac-sha256>").
type Verifier struct {
	wh        *svix.Webhook
	tolerance time.Duration
}

// NewVerifier creates a Verifier. A secret with the whsec_ prefix carries a base64 key,
// anything else is used as the raw key.
func NewVerifier(secret string, tolerance time.Duration) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("email webhook secret is empty")
	}

	var (
		wh  *svix.Webhook
		err error
	)
	if strings.HasPrefix(secret, secretPrefix) {
		wh, err = svix.NewWebhook(secret)
	} else {
		wh, err = svix.NewWebhookRaw([]byte(secret))
	}
	if err != nil {
		return nil, fmt.Errorf("decode email webhook secret: %w", err)
	}

	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Verifier{wh: wh, tolerance: tolerance}, nil
}

// Sign returns the v1 signature for a message sent at the given time.
func (v *Verifier) Sign(id string, at time.Time, body []byte) (string, error) {
	return v.wh.Sign(id, at, body)
}

// Verify checks the timestamp window against now and that one of the
// space-separated signatures in header matches.
func (v *Verifier) Verify(id, timestamp string, body []byte, header string, now time.Time) error {
	if id == "" || timestamp == "" || header == "" {
		return domain.NewValidationError("headers", "webhook-id, webhook-timestamp and webhook-signature are required")
	}

	// Window checked against the caller's clock and the configured tolerance.
	secs, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return domain.NewValidationError("webhook-timestamp", "must be unix seconds")
	}
	skew := now.Sub(time.Unix(secs, 0))
	if skew > v.tolerance || skew < -v.tolerance {
		return domain.NewValidationError("webhook-timestamp", "outside tolerance")
	}

	h := http.Header{}
	h.Set("webhook-id", id)
	h.Set("webhook-timestamp", timestamp)
	h.Set("webhook-signature", header)
	if err := v.wh.VerifyIgnoringTimestamp(body, h); err != nil {
		return fmt.Errorf("webhook signature: %v: %w", err, domain.ErrUnauthorized)
	}
	return nil
}
