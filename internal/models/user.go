package models

const DefaultTheme = "light"

// User is the owner of every other record. Password is stored as supplied;
// there is no authentication layer.
type User struct {
	ID          int    `json:"id" db:"id"`
	Username    string `json:"username" db:"username"`
	Password    string `json:"password" db:"password"`
	DisplayName string `json:"displayName,omitempty" db:"display_name"`
	Avatar      string `json:"avatar,omitempty" db:"avatar"`
	Theme       string `json:"theme,omitempty" db:"theme"`
}

type UserPatch struct {
	Username    *string `json:"username,omitempty"`
	Password    *string `json:"password,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	Theme       *string `json:"theme,omitempty"`
}

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Theme != nil {
		u.Theme = *p.Theme
	}
}
