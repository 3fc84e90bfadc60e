// Package models defines the records the HireHub client exchanges with the
// backend and keeps in its session store.
package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role is the account type. Unknown roles coming from the backend are kept
// verbatim.
type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

var roleLabels = map[Role]string{
	RoleJobSeeker: "Job Seeker",
	RoleEmployer:  "Employer",
	RoleAdmin:     "Admin",
}

var titleCaser = cases.Title(language.English)

// Label renders the role for display.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return titleCaser.String(strings.NewReplacer("_", " ", "-", " ").Replace(string(r)))
}

// User is the profile of the signed-in account. It is always replaced as a
// whole; fields the client does not model are carried in Extra so nothing
// the backend sent is lost when the profile is cached.
type User struct {
	ID         ID       `json:"id,omitzero"`
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Role       Role     `json:"role,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Location   string   `json:"location,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Company    string   `json:"company,omitempty"`
	Website    string   `json:"website,omitempty"`
	IsVerified bool     `json:"isVerified,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownUserKeys = map[string]struct{}{
	"id": {}, "_id": {}, "name": {}, "email": {}, "role": {}, "phone": {},
	"location": {}, "bio": {}, "skills": {}, "company": {}, "website": {},
	"isVerified": {},
}

type userAlias User

// Initial returns the upper-cased first letter of the name, or "U".
func (u *User) Initial() string {
	for _, r := range u.Name {
		return strings.ToUpper(string(r))
	}
	return "U"
}

// Clone returns a deep copy; nil stays nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Skills != nil {
		c.Skills = append([]string(nil), u.Skills...)
	}
	if u.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, v := range u.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

func (u User) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(userAlias(u))
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return b, nil
	}

	keys := make([]string, 0, len(u.Extra))
	for k := range u.Extra {
		if _, known := knownUserKeys[k]; !known {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	for i, k := range keys {
		if i > 0 || len(b) > 2 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(u.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (u *User) UnmarshalJSON(b []byte) error {
	var aux struct {
		userAlias
		MongoID ID `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*u = User(aux.userAlias)
	if u.ID.IsZero() {
		u.ID = aux.MongoID
	}
	for k, v := range raw {
		if _, known := knownUserKeys[k]; known {
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]json.RawMessage)
		}
		u.Extra[k] = v
	}
	return nil
}
