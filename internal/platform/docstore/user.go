package docstore

import "encoding/json"

// User is a registered patient. Password is stored as given.
type User struct {
	ID        string `json:"id"`
	INN       string `json:"inn"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`

	kept map[string]json.RawMessage
}

func (u *User) fields() []field {
	return []field{
		{key: "id", val: &u.ID},
		{key: "inn", val: &u.INN},
		{key: "password", val: &u.Password},
		{key: "name", val: &u.Name},
		{key: "phone", val: &u.Phone},
		{key: "createdAt", val: &u.CreatedAt},
	}
}

func (u User) MarshalJSON() ([]byte, error) {
	fields := u.fields()
	var w objectWriter
	w.fields(fields, u.kept)
	w.rest(fields, u.kept)
	return w.finish(), nil
}

func (u *User) UnmarshalJSON(data []byte) error {
	var out User
	kept, err := decodeRecord(data, out.fields())
	if err != nil {
		return err
	}
	if len(kept) > 0 {
		out.kept = kept
	}
	*u = out
	return nil
}

// PublicUser is the user view returned to clients; it never carries the password.
type PublicUser struct {
	ID    string `json:"id"`
	INN   string `json:"inn"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, INN: u.INN, Name: u.Name, Phone: u.Phone}
}
