package domain

// KnowledgeFact maps a keyword to a canned answer. Facts are independent of
// users and conversations; a query matches a fact when the case-normalized
// query contains the keyword as a substring.
type KnowledgeFact struct {
	ID      uint   `json:"id" gorm:"primarykey"`
	Keyword string `json:"keyword" gorm:"not null;index"`
	Answer  string `json:"answer" gorm:"not null"`
}
