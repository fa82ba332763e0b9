package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UserID is the provider-assigned numeric user identifier. The API encodes it
// as a JSON string; plain JSON numbers are accepted as well.
type UserID int64

// UnmarshalJSON accepts both "141981764" and 141981764.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*id = 0
			return nil
		}
		data = []byte(s)
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", data, err)
	}
	*id = UserID(n)
	return nil
}

// String returns the decimal form of the id.
func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// User is the authenticated principal as returned by GET /users.
type User struct {
	ID              UserID `json:"id"`
	Login           string `json:"login,omitempty"`
	DisplayName     string `json:"display_name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profile_image_url"`
}

// IsZero reports whether u is the empty user.
func (u User) IsZero() bool {
	return u == User{}
}
