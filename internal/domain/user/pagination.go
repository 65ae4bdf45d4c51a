package user

// PageResult is one page of users as returned by the remote API.
type PageResult struct {
	Items      []User
	TotalPages int
}

// PageState is the locally held page of users. It is replaced wholesale on
// every fetch and never merged.
type PageState struct {
	CurrentPage int    // 1-based
	TotalPages  int    // always >= 1
	Items       []User // ordered as returned by the remote API
}

// NewPageState returns the state before anything has been fetched.
func NewPageState() PageState {
	return PageState{CurrentPage: 1, TotalPages: 1}
}

// HasPrevious reports whether a previous page exists.
func (p PageState) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a next page exists.
func (p PageState) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Clamp bounds page to [1, TotalPages].
func (p PageState) Clamp(page int) int {
	if page < 1 {
		return 1
	}
	if page > p.TotalPages {
		return p.TotalPages
	}
	return page
}

// IndexOf returns the position of the user with id, or -1.
func (p PageState) IndexOf(id int64) int {
	for i, u := range p.Items {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// Replace returns a copy of the state where the item with u.ID is replaced by u.
// The second result is false when no item carries that id.
func (p PageState) Replace(u User) (PageState, bool) {
	i := p.IndexOf(u.ID)
	if i < 0 {
		return p, false
	}
	items := make([]User, len(p.Items))
	copy(items, p.Items)
	items[i] = u
	p.Items = items
	return p, true
}

// Remove returns a copy of the state without the item with id.
// The second result is false when no item carries that id.
func (p PageState) Remove(id int64) (PageState, bool) {
	i := p.IndexOf(id)
	if i < 0 {
		return p, false
	}
	items := make([]User, 0, len(p.Items)-1)
	items = append(items, p.Items[:i]...)
	items = append(items, p.Items[i+1:]...)
	p.Items = items
	return p, true
}
