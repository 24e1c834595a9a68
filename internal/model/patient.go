package model

// Patient records are looked up by the (FullName, Phone) compound key and
// created lazily on first booking. Name or phone variations therefore
// produce distinct patient records.
type Patient struct {
	Base
	FullName string `db:"full_name" json:"full_name"`
	Phone    string `db:"phone" json:"phone"`
	Email    string `db:"email" json:"email,omitempty"`
}
