// Package domain defines the core domain models for ipadmin.
package domain

import (
	"net/url"
	"strings"
	"time"
)

// IP record field limits enforced before submission.
const (
	MaxLabelLength   = 255
	MaxCommentLength = 1000
)

// IPAddress is an IP record owned by a user.
type IPAddress struct {
	ID        ID           `json:"id"`
	IPAddress string       `json:"ip_address"`
	Label     string       `json:"label"`
	Comment   string       `json:"comment,omitempty"`
	UserID    ID           `json:"user_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	User      *UserDetails `json:"user,omitempty"`
}

// OwnerID returns the owning user's ID, preferring the explicit user_id field.
func (ip *IPAddress) OwnerID() ID {
	if !ip.UserID.IsZero() {
		return ip.UserID
	}
	if ip.User != nil {
		return ip.User.ID
	}
	return ""
}

// IPAddressForm is the create/update payload. The same shape is sent for POST
// and PUT.
type IPAddressForm struct {
	IPAddress string  `json:"ip_address" validate:"required,ipaddr"`
	Label     string  `json:"label" validate:"required,max=255"`
	Comment   *string `json:"comment" validate:"omitempty,max=1000"`
}

// NewIPAddressForm builds a form, mapping an empty comment to null.
func NewIPAddressForm(address, label, comment string) IPAddressForm {
	f := IPAddressForm{
		IPAddress: strings.TrimSpace(address),
		Label:     strings.TrimSpace(label),
	}
	if c := strings.TrimSpace(comment); c != "" {
		f.Comment = &c
	}
	return f
}

// IPFilter narrows the server-side IP list.
type IPFilter struct {
	Label   string
	Comment string
	IPStart string
	IPEnd   string
}

// IsZero reports whether no filter field is set.
func (f IPFilter) IsZero() bool {
	return f == IPFilter{}
}

// Apply writes the non-empty filter fields into q.
func (f IPFilter) Apply(q url.Values) {
	if f.Label != "" {
		q.Set("label", f.Label)
	}
	if f.Comment != "" {
		q.Set("comment", f.Comment)
	}
	if f.IPStart != "" {
		q.Set("ipStart", f.IPStart)
	}
	if f.IPEnd != "" {
		q.Set("ipEnd", f.IPEnd)
	}
}

// MatchesSearch reports whether the record contains term (case-insensitive)
// in its address, label, comment or owner name.
func (ip *IPAddress) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	fields := []string{ip.IPAddress, ip.Label, ip.Comment}
	if ip.User != nil {
		fields = append(fields, ip.User.Name, ip.User.Email)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
