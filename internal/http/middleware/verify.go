package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tendant/channel-keeper/internal/httputil"
)

const (
	signatureVersion = "v0"
	// maxTimestampSkew bounds how old (or how far ahead) a signed
	// request may be before it is rejected as a replay.
	maxTimestampSkew = 5 * time.Minute
)

// VerifySlackSignature creates middleware that authenticates requests
// using Slack's signing scheme: X-Slack-Signature must carry
// "v0=" + hex HMAC-SHA256 of "v0:<timestamp>:<body>" keyed with the
// signing secret. The body is restored for downstream handlers.
func VerifySlackSignature(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				httputil.Error(w, http.StatusBadRequest, "cannot read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")
			if err := verifySignature(secret, timestamp, signature, body, time.Now()); err != nil {
				logger.Warn("rejected unsigned request",
					"ip", r.RemoteAddr,
					"path", r.URL.Path,
					"error", err,
				)
				httputil.Error(w, http.StatusUnauthorized, "invalid request signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func verifySignature(secret, timestamp, signature string, body []byte, now time.Time) error {
	if timestamp == "" || signature == "" {
		return errors.New("missing signature headers")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	skew := now.Sub(time.Unix(ts, 0))
	if skew > maxTimestampSkew || skew < -maxTimestampSkew {
		return errors.New("timestamp outside allowed window")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%s:", signatureVersion, timestamp)
	mac.Write(body)
	expected := signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.New("signature mismatch")
	}
	return nil
}
