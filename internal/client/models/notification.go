package models

import (
	"encoding/json"
	"time"
)

// Notification is a backend-owned message for the current user.
type Notification struct {
	ID        ID        `json:"_id,omitzero"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
	Type      string    `json:"type,omitempty"`
	Link      string    `json:"link,omitempty"`
}

type notificationAlias Notification

// UnmarshalJSON accepts both "_id" and "id".
func (n *Notification) UnmarshalJSON(b []byte) error {
	var aux struct {
		notificationAlias
		PlainID ID `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*n = Notification(aux.notificationAlias)
	if n.ID.IsZero() {
		n.ID = aux.PlainID
	}
	return nil
}

// CountUnread returns how many notifications have Read == false.
func CountUnread(list []Notification) int {
	n := 0
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}
