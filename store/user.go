package store

// User account allowed to log in, Password holds the bcrypt hash
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Active      bool   `gorm:"not null"`
	Email       string `gorm:"size:40"`
	Password    string `gorm:"size:512"`
	Permissions []int  `gorm:"serializer:json"`
	Username    string `gorm:"size:20;uniqueIndex"`
}

// TableName table shared by every form
func (User) TableName() string {
	return "users"
}

// HasPermission reports whether the user holds permission, NoPermission is always held
func (u *User) HasPermission(permission int) bool {
	if permission < 0 {
		return true
	}
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
