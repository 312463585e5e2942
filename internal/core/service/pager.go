package service

import "sync"

// Pager tracks the requested page of a list view. Next only moves forward
// when the last fetched page reported a later page; Prev never goes below 1.
type Pager struct {
	mu      sync.Mutex
	page    int
	current int
	last    int
}

// NewPager starts at page 1.
func NewPager() *Pager {
	return &Pager{page: 1}
}

// Page returns the page to request next.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Observe records the position reported by the last fetched page.
func (p *Pager) Observe(current, last int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
	p.last = last
}

// Next advances one page if the last observed page was not the final one.
func (p *Pager) Next() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < p.last {
		p.page++
		p.current++
	}
	return p.page
}

// Prev steps back one page, stopping at 1.
func (p *Pager) Prev() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.page > 1 {
		p.page--
	}
	return p.page
}

// Set jumps to page, clamped to at least 1.
func (p *Pager) Set(page int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if page < 1 {
		page = 1
	}
	p.page = page
	return p.page
}

// Reset returns to page 1, used when filters change.
func (p *Pager) Reset() {
	p.Set(1)
}
