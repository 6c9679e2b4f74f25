// Package models defines the user record and the sort, filter and form
// types exchanged between the store client, the coordinator and the CLI.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// User is a person record held by the remote collection. ID is assigned by
// the store and never changes; the rest is replaced as a whole.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Zipcode  string `json:"zipcode"`
	Photo    string `json:"photo"`
}

// UnmarshalJSON accepts the id either as a JSON number or as a numeric
// string; mock backends commonly return "id": "12".
func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(u)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	raw := bytes.Trim(bytes.TrimSpace(aux.ID), `"`)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		u.ID = 0
		return nil
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("user id %s: %w", string(aux.ID), err)
	}
	u.ID = id
	return nil
}

// NewUser is the create payload: a User without the store-assigned id.
type NewUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Zipcode  string `json:"zipcode"`
	Photo    string `json:"photo"`
}

// WithDerivedPhoto returns a copy of n whose Photo is computed from Name.
func (n NewUser) WithDerivedPhoto() NewUser {
	n.Photo = AvatarURL(n.Name)
	return n
}

// IDs returns the ids of users in order.
func IDs(users []User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
