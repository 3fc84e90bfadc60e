package session

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
)

func encodeUser(u *models.User) ([]byte, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	return b, nil
}

func decodeUser(b []byte) (*models.User, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptUser, err)
	}
	return &u, nil
}
