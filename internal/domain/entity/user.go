package entity

import (
	"time"
)

const (
	RoleOwner           = "owner"
	AuthProviderEmail   = "email"
	MaxRecentlyViewed   = 10
	AnonymousAuthorName = "Anonymous User"
)

type UserSettings struct {
	Notifications bool `json:"notifications" firestore:"notifications"`
	RememberMe    bool `json:"remember_me" firestore:"rememberMe"`
}

type User struct {
	UID         string `json:"uid" firestore:"uid"`
	DisplayName string `json:"display_name" firestore:"displayName"`
	FirstName   string `json:"first_name" firestore:"firstName"`
	LastName    string `json:"last_name" firestore:"lastName"`
	Email       string `json:"email" firestore:"email"`
	PhoneNumber string `json:"phone_number" firestore:"phoneNumber"`
	Username    string `json:"username" firestore:"username"`
	Role        string `json:"role" firestore:"role"`
	FarmName    string `json:"farm_name,omitempty" firestore:"farmName,omitempty"`

	AuthProvider    string       `json:"auth_provider" firestore:"authProvider"`
	ProfileComplete bool         `json:"profile_complete" firestore:"profileComplete"`
	AgreedToTerms   bool         `json:"agreed_to_terms" firestore:"agreedToTerms"`
	Settings        UserSettings `json:"settings" firestore:"settings"`
	Farms           []string     `json:"farms" firestore:"farms"`
	RecentlyViewed  []string     `json:"recently_viewed,omitempty" firestore:"recentlyViewed,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	LastLogin time.Time `json:"last_login" firestore:"lastLogin"`
	UpdatedAt time.Time `json:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
}

// UsernameRecord is the lookup document keyed by uid.
type UsernameRecord struct {
	UID       string    `json:"uid" firestore:"uid"`
	Username  string    `json:"username" firestore:"username"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// AuthorName is the name shown on posts and comments.
func (u *User) AuthorName() string {
	if u == nil {
		return AnonymousAuthorName
	}
	if u.Username != "" {
		return u.Username
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return AnonymousAuthorName
}

// CallName is the name shown in a video meeting.
func (u *User) CallName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.DisplayName
}

// PushRecent moves id to the front of list, dropping any earlier copy and
// keeping at most limit entries. The input slice is not modified.
func PushRecent(list []string, id string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, id)
	for _, existing := range list {
		if len(out) >= limit {
			break
		}
		if existing == id {
			continue
		}
		out = append(out, existing)
	}
	return out
}
