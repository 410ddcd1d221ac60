package branch

import "time"

type Branch struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// SimpleBranch is the {id, name, code} shape served to pickers.
type SimpleBranch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (b Branch) Simple() SimpleBranch {
	return SimpleBranch{ID: b.ID, Name: b.Name, Code: b.Code}
}
