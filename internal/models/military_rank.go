package models

// MilitaryRank is a position in the corporation hierarchy. Lower Order ranks first.
type MilitaryRank struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Name  string `json:"name"`
}

type MilitaryRankInput struct {
	Order int    `json:"order" validate:"required,min=1,max=1000"`
	Name  string `json:"name" validate:"required,max=80"`
}
