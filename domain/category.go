package domain

import "time"

// Builtin category names available to every user.
const (
	CategoryWork     = "Work"
	CategoryHome     = "Home"
	CategoryPersonal = "Personal"
	CategoryOther    = "Other"
)

// BuiltinCategories returns the fixed set offered alongside user-defined ones.
func BuiltinCategories() []string {
	return []string{CategoryWork, CategoryHome, CategoryPersonal, CategoryOther}
}

// Category is a user-defined task grouping. Builtin categories are not
// persisted; only custom ones live in storage.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
