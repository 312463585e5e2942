// Package domain defines the core domain models for ipadmin.
package domain

// PageLink is one entry of the pagination link bar.
type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Page is the paginated list envelope returned by the backend.
type Page[T any] struct {
	Data         []T        `json:"data"`
	CurrentPage  int        `json:"current_page"`
	LastPage     int        `json:"last_page"`
	PerPage      int        `json:"per_page"`
	Total        int        `json:"total"`
	FirstPageURL string     `json:"first_page_url,omitempty"`
	LastPageURL  string     `json:"last_page_url,omitempty"`
	NextPageURL  *string    `json:"next_page_url"`
	PrevPageURL  *string    `json:"prev_page_url"`
	Path         string     `json:"path,omitempty"`
	From         *int       `json:"from"`
	To           *int       `json:"to"`
	Links        []PageLink `json:"links,omitempty"`
}

// HasNext reports whether a later page exists.
func (p *Page[T]) HasNext() bool {
	return p != nil && p.CurrentPage < p.LastPage
}

// HasPrev reports whether an earlier page exists.
func (p *Page[T]) HasPrev() bool {
	return p != nil && p.CurrentPage > 1
}

// Stats is the aggregate summary shown on the dashboard.
type Stats struct {
	TotalIPAddresses int `json:"total_ip_addresses"`
	AddedThisMonth   int `json:"added_this_month"`
	ActiveUsers      int `json:"active_users"`
}
