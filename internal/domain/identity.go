package domain

// Identity is the optional logged-in customer behind a request
type Identity struct {
	UserID *string
	Email  *string
}

// IsEmpty returns true if the request carried no identity
func (i *Identity) IsEmpty() bool {
	return i == nil || (i.UserID == nil && i.Email == nil)
}
