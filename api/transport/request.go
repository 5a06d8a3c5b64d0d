package transport

type TaskRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	IsCompleted bool   `json:"is_completed"`
	DueDate     string `json:"due_date"`
}

type CompleteRequest struct {
	Completed bool `json:"completed"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type ProfileUpdateRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
	Status      string `json:"status"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}

// LoginResponse pairs the stored session with its signed bearer token.
type LoginResponse struct {
	Session interface{} `json:"session"`
	Token   string      `json:"token"`
}
