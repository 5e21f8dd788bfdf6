package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SessionConfig for the Redis-backed console session.
type SessionConfig struct {
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	SessionCookieName  = "infera.sid"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour

	sessionDataLocal = "session_data"
	sessionIDLocal   = "session_id"
)

// Session returns a Fiber middleware that loads/saves session data from Redis.
// A request without a session cookie gets a fresh session id and cookie.
func Session(cfg SessionConfig, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := utils.CopyString(c.Cookies(SessionCookieName))

		var data map[string]interface{}
		if sessionID != "" {
			b, err := rdb.Get(c.UserContext(), SessionRedisPrefix+sessionID).Bytes()
			if err == nil {
				_ = json.Unmarshal(b, &data)
			} else if err != redis.Nil {
				log.Warn().Err(err).Str("session_id", sessionID).Msg("Session load failed")
			}
		}
		if data == nil {
			data = make(map[string]interface{})
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			cookie := SessionCookieConfig(cfg)
			cookie.Value = sessionID
			c.Cookie(&cookie)
		}

		c.Locals(sessionDataLocal, data)
		c.Locals(sessionIDLocal, sessionID)

		if err := c.Next(); err != nil {
			return err
		}

		if sid, _ := c.Locals(sessionIDLocal).(string); sid != "" {
			updated, _ := c.Locals(sessionDataLocal).(map[string]interface{})
			if updated != nil {
				b, _ := json.Marshal(updated)
				if err := rdb.Set(context.Background(), SessionRedisPrefix+sid, b, sessionMaxAge).Err(); err != nil {
					log.Warn().Err(err).Str("session_id", sid).Msg("Session save failed")
				}
			}
		}
		return nil
	}
}

// GetSessionID returns the current session ID from context.
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}

// GetSessionValue returns a value stored in the session.
func GetSessionValue(c *fiber.Ctx, key string) (interface{}, bool) {
	data, _ := c.Locals(sessionDataLocal).(map[string]interface{})
	if data == nil {
		return nil, false
	}
	v, ok := data[key]
	return v, ok
}

// SetSessionValue stores a value in the session; it is saved when the request completes.
func SetSessionValue(c *fiber.Ctx, key string, value interface{}) {
	data, _ := c.Locals(sessionDataLocal).(map[string]interface{})
	if data == nil {
		data = make(map[string]interface{})
	}
	data[key] = value
	c.Locals(sessionDataLocal, data)
}

// SessionCookieConfig returns the session cookie options (for Cookie/ClearCookie).
func SessionCookieConfig(cfg SessionConfig) fiber.Cookie {
	sameSite := "Lax"
	if cfg.AllowCrossSiteDev {
		sameSite = "None"
	}
	secure := cfg.IsProduction && cfg.AllowCrossSiteDev
	return fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}
