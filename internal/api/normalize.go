package api

import (
	"encoding/json"
	"math"
	"time"

	"github.com/addalive/admin_console/internal/models"
)

// rawUser accepts every alias the backend has been seen to emit.
type rawUser struct {
	MongoID          string          `json:"_id"`
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	UserRole         string          `json:"userRole"`
	Role             string          `json:"role"`
	ActivityZone     *rawZone        `json:"activityZone"`
	Stats            *rawStats       `json:"stats"`
	Stars            *float64        `json:"stars"`
	Diamonds         *float64        `json:"diamonds"`
	Coins            *float64        `json:"coins"`
	TotalBoughtCoins *float64        `json:"totalBoughtCoins"`
	ProfileImage     json.RawMessage `json:"profileImage"`
	Avatar           json.RawMessage `json:"avatar"`
	Level            *float64        `json:"level"`
	CreatedAt        string          `json:"createdAt"`
}

type rawZone struct {
	Zone   string `json:"zone"`
	Expire string `json:"expire"`
}

type rawStats struct {
	Stars    *float64 `json:"stars"`
	Diamonds *float64 `json:"diamonds"`
	Coins    *float64 `json:"coins"`
}

// normalizeUser collapses field aliases into models.User. Zero counters
// fall through to the next alias.
func normalizeUser(r rawUser) models.User {
	u := models.User{
		ID:       firstString(r.MongoID, r.ID),
		Username: firstString(r.Username, r.Name),
		Email:    r.Email,
		Role:     firstString(r.UserRole, r.Role, "user"),
		Zone:     models.ActivityZone{Zone: "safe"},
		Avatar:   firstString(imageURL(r.ProfileImage), imageURL(r.Avatar)),
	}
	if r.ActivityZone != nil {
		u.Zone.Zone = firstString(r.ActivityZone.Zone, "safe")
		u.Zone.Expire = r.ActivityZone.Expire
	}

	var s rawStats
	if r.Stats != nil {
		s = *r.Stats
	}
	u.Stats = models.UserStats{
		Stars:    firstCount(s.Stars, r.Stars),
		Diamonds: firstCount(s.Diamonds, r.Diamonds),
		Coins:    firstCount(s.Coins, r.TotalBoughtCoins, r.Coins),
	}
	if r.Level != nil {
		u.Level = int(*r.Level)
	}
	if t, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		u.CreatedAt = &t
	}
	return u
}

func normalizeUsers(raw []rawUser) []models.User {
	users := make([]models.User, 0, len(raw))
	for _, r := range raw {
		users = append(users, normalizeUser(r))
	}
	return users
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstCount(vals ...*float64) int64 {
	for _, v := range vals {
		if v != nil && *v != 0 {
			return int64(math.Round(*v))
		}
	}
	return 0
}

// imageURL reads either a bare URL or an {url, thumbUrl} object.
func imageURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		URL      string `json:"url"`
		ThumbURL string `json:"thumbUrl"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return firstString(obj.URL, obj.ThumbURL)
	}
	return ""
}
