package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/syedukkashah/university-library/internal/core/domain"
	"github.com/syedukkashah/university-library/internal/infra/security"
)

var (
	// ErrSessionTokenInvalid indicates the token failed signature or expiry checks.
	ErrSessionTokenInvalid = errors.New("session token invalid")
	// ErrMalformedSessionClaim indicates the subject claim could not be
	// reduced to a usable user id.
	ErrMalformedSessionClaim = errors.New("malformed session claim")
)

// Older tokens have been observed carrying structured values where plain
// strings were expected, so subjects shorter than this are treated as
// normalization artifacts rather than real ids.
const minSubjectLength = 10

var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// SessionService issues and resolves session tokens. Resolution is
// deliberately tolerant of claim shape: tokens minted by earlier releases
// sometimes embedded whole objects in the subject claim, and those
// sessions must keep working until they expire.
type SessionService struct {
	codec  *security.SessionTokenCodec
	logger *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(codec *security.SessionTokenCodec, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{codec: codec, logger: logger}
}

// Issue signs a session token for the supplied identity. All claims are
// written as plain strings so freshly issued tokens never need the
// resolver's fallback paths.
func (s *SessionService) Issue(identity domain.Identity) (string, error) {
	if strings.TrimSpace(identity.ID) == "" {
		return "", fmt.Errorf("identity id is required")
	}

	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"name":  identity.FullName,
	}

	token, err := s.codec.SignClaims(claims)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}

	return token, nil
}

// Resolve validates the token and normalizes its claims into a Session.
// Returns ErrSessionTokenInvalid for signature or expiry failures and
// ErrMalformedSessionClaim when the subject cannot be recovered.
func (s *SessionService) Resolve(token string) (*domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrSessionTokenInvalid
	}

	claims, err := s.codec.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrExpiredSessionToken) {
			return nil, fmt.Errorf("%w: expired", ErrSessionTokenInvalid)
		}
		return nil, ErrSessionTokenInvalid
	}

	userID := normalizeClaim(claims["sub"])
	if !plausibleUserID(userID) {
		s.logger.Warn("Session subject claim could not be normalized",
			zap.String("subject", userID),
		)
		return nil, ErrMalformedSessionClaim
	}

	return &domain.Session{
		UserID: userID,
		Email:  normalizeClaim(claims["email"]),
		Name:   normalizeClaim(claims["name"]),
	}, nil
}

// normalizeClaim reduces a claim of unknown shape to a string. Strings
// pass through untouched. Structured values are unwrapped in order of
// decreasing confidence: a conventional value/id property, any property
// holding a UUID-shaped string, a UUID-shaped substring of the JSON
// serialization, and finally the stringified value itself.
func normalizeClaim(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if s := unwrapWellKnownKeys(v); s != "" {
			return s
		}
		if s := scanForUUID(v); s != "" {
			return s
		}
		if s := extractUUIDFromJSON(v); s != "" {
			return s
		}
		return fmt.Sprint(v)
	default:
		if s := extractUUIDFromJSON(v); s != "" {
			return s
		}
		return fmt.Sprint(v)
	}
}

func unwrapWellKnownKeys(m map[string]any) string {
	for _, key := range []string{"value", "id"} {
		inner, ok := m[key]
		if !ok {
			continue
		}
		if s, ok := inner.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// scanForUUID walks properties in key order so the result is stable
// regardless of map iteration order.
func scanForUUID(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		s, ok := m[k].(string)
		if !ok {
			continue
		}
		if uuidPattern.MatchString(s) && len(uuidPattern.FindString(s)) == len(s) {
			return s
		}
	}
	return ""
}

func extractUUIDFromJSON(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return uuidPattern.FindString(string(raw))
}

// plausibleUserID rejects subjects that are empty, carry the Go map
// placeholder produced by the stringify fallback, or are too short to be
// a real id.
func plausibleUserID(id string) bool {
	if id == "" {
		return false
	}
	if strings.HasPrefix(id, "map[") {
		return false
	}
	return len(id) >= minSubjectLength
}
