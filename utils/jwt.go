package utils

import (
	"errors"
	"time"

	"screenqa/config"

	"github.com/golang-jwt/jwt"
)

// videoGrant mirrors the LiveKit access-token "video" claim.
type videoGrant struct {
	Room           string `json:"room"`
	RoomJoin       bool   `json:"roomJoin"`
	CanPublish     bool   `json:"canPublish"`
	CanSubscribe   bool   `json:"canSubscribe"`
	CanPublishData bool   `json:"canPublishData"`
}

// BuildJoinToken creates a signed LiveKit join token for the given room and
// participant identity. The token expires after the specified duration.
func BuildJoinToken(room, identity string, duration time.Duration) (string, error) {
	apiKey := config.AppConfig.LiveKitAPIKey
	apiSecret := config.AppConfig.LiveKitAPISecret
	if apiKey == "" || apiSecret == "" {
		return "", errors.New("livekit api key/secret not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": apiKey,
		"sub": identity,
		"nbf": now.Unix(),
		"exp": now.Add(duration).Unix(),
		"video": videoGrant{
			Room:           room,
			RoomJoin:       true,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(apiSecret))
}

// ValidateToken parses and validates a join token and returns it if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.LiveKitAPISecret), nil
	})
}
