package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

const (
	VoiceActionLogin = "login"
	VoiceActionJoin  = "join"
)

// DefaultVoiceTokenTTL bounds how long a voice token stays valid.
const DefaultVoiceTokenTTL = time.Hour

var (
	ErrVoiceNotConfigured = errors.New("voice config is incomplete")
	ErrVoiceAction        = errors.New("unsupported voice action")
)

// VoiceService signs Vivox access tokens so the three seats of a table can
// share one voice channel.
type VoiceService struct {
	secret string
	issuer string
	domain string
	ttl    time.Duration
	now    func() time.Time
}

func NewVoiceService(secret, issuer, domain string) *VoiceService {
	return &VoiceService{
		secret: secret,
		issuer: issuer,
		domain: domain,
		ttl:    DefaultVoiceTokenTTL,
		now:    time.Now,
	}
}

// Configured reports whether tokens can be signed.
func (s *VoiceService) Configured() bool {
	return s != nil && s.secret != "" && s.issuer != "" && s.domain != ""
}

// TableChannel names the voice channel of a match. Nakama match ids carry a
// node suffix after a dot which channel names may not contain.
func TableChannel(matchID string) string {
	return "ddz-" + strings.ReplaceAll(matchID, ".", "-")
}

// Token signs a login token, or a join token for the table channel of matchID.
func (s *VoiceService) Token(userID, action, matchID string) (string, error) {
	if !s.Configured() {
		return "", ErrVoiceNotConfigured
	}
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	from := s.userURI(userID)
	var to string
	switch action {
	case VoiceActionLogin:
		to = from
	case VoiceActionJoin:
		if matchID == "" {
			return "", fmt.Errorf("match id is required for join tokens")
		}
		to = s.channelURI(TableChannel(matchID))
	default:
		return "", fmt.Errorf("%w: %s", ErrVoiceAction, action)
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"exp": s.now().Add(s.ttl).Unix(),
		"vxa": action,
		"vxi": uuid.NewString(),
		"f":   from,
		"t":   to,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func (s *VoiceService) userURI(userID string) string {
	return "sip:." + s.issuer + "." + userID + ".@" + s.domain
}

func (s *VoiceService) channelURI(channel string) string {
	return "sip:confctl-g-" + channel + "@" + s.domain
}
