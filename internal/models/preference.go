package models

// UserPreference is a free-form key/value setting owned by a user.
type UserPreference struct {
	UserID string `gorm:"primaryKey"                        json:"-"`
	Key    string `gorm:"primaryKey;column:pref_key;size:255" json:"key"`
	Value  string `gorm:"type:varchar(255);not null"         json:"value"`
}

// MaxPreferenceLength bounds both keys and values.
const MaxPreferenceLength = 255

// TableName overrides the table name used by UserPreference to `user_preferences`
func (UserPreference) TableName() string {
	return "user_preferences"
}
