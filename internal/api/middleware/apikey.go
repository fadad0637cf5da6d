package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/rs/zerolog/log"
)

// Header names for administrative authentication.
const (
	APIKeyHeader    = "X-API-Key"
	TimeTokenHeader = "X-Time-Token"
)

// TimeTokenTTL is how long a generated time token stays valid.
const TimeTokenTTL = 5 * time.Minute

// APIKeyMiddleware guards administrative endpoints. A request must carry the
// configured key in X-API-Key and a fernet token minted from that key in
// X-Time-Token that is younger than TimeTokenTTL.
// With an empty apiKey every request is refused with 500.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				response.RespondError(w, http.StatusInternalServerError, "Internal server error", "Authentication not loaded")
				return
			}

			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Invalid API key")
				return
			}

			token := r.Header.Get(TimeTokenHeader)
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing Time token")
				return
			}
			if fernet.VerifyAndDecrypt([]byte(token), TimeTokenTTL, []*fernet.Key{deriveKey(apiKey)}) == nil {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateTimeToken mints a time token for apiKey. It returns "" if encryption fails.
func GenerateTimeToken(apiKey string) string {
	msg := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	tok, err := fernet.EncryptAndSign(msg, deriveKey(apiKey))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate time token")
		return ""
	}
	return string(tok)
}

func deriveKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	k := fernet.Key(sum)
	return &k
}
