package monitor

import "time"

type Status struct {
	PostgreSQL      bool      `json:"postgresql"`
	Redis           bool      `json:"redis"`
	TriggerStore    bool      `json:"trigger_store"`
	PendingTriggers int       `json:"pending_triggers"`
	LastCheck       time.Time `json:"last_check"`
}
