package trigger

import "time"

// Trigger is a pending local notification: an integer id, the rendered
// message and the moment it should fire.
type Trigger struct {
	ID     int       `json:"id"`
	UserID string    `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	FireAt time.Time `json:"fire_at"`
}
