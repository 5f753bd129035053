package rpc

// Location is the wire form of a coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Entry is the wire form of a diary document. Timestamp is unix milliseconds.
type Entry struct {
	ID           string    `json:"id,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Timestamp    int64     `json:"timestamp"`
	Location     *Location `json:"location,omitempty"`
	Weather      string    `json:"weather,omitempty"`
	Temperature  *float64  `json:"temperature,omitempty"`
	LocationName string    `json:"locationName,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	CreatedAt    int64  `json:"created_at"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type AddEntryRequest struct {
	Entry Entry `json:"entry"`
}

type AddEntryResponse struct {
	ID string `json:"id"`
}

type UpdateEntryRequest struct {
	ID    string `json:"id"`
	Entry Entry  `json:"entry"`
}

type UpdateEntryResponse struct{}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}

type DeleteEntryResponse struct{}

type WatchEntriesRequest struct{}

// EntriesSnapshot is one full, ordered snapshot of a user's entries.
type EntriesSnapshot struct {
	Entries []Entry `json:"entries"`
}

type ExportEntriesRequest struct{}

type ExportEntriesResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
