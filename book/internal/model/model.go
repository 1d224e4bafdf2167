package model

// Book is an inventory record. availableCopies is owned here and only
// ever changes through signed deltas, kept inside [0, totalCopies] by
// the database.
type Book struct {
	ID              int64  `json:"id" db:"id"`
	ISBN            string `json:"isbn" db:"isbn"`
	Title           string `json:"title" db:"title"`
	Description     string `json:"description,omitempty" db:"description"`
	Author          string `json:"author" db:"author"`
	Publisher       string `json:"publisher,omitempty" db:"publisher"`
	PublicationYear int    `json:"publicationYear,omitempty" db:"publication_year"`
	Category        string `json:"category,omitempty" db:"category"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
}

type CreateBookRequest struct {
	ISBN            string `json:"isbn" validate:"required"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	Author          string `json:"author" validate:"required"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publicationYear" validate:"omitempty,gte=1450"`
	Category        string `json:"category"`
	TotalCopies     int    `json:"totalCopies" validate:"required,gte=1"`
}

type UpdateBookRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Author          *string `json:"author"`
	Publisher       *string `json:"publisher"`
	PublicationYear *int    `json:"publicationYear" validate:"omitempty,gte=1450"`
	Category        *string `json:"category"`
}

// UpdateCopiesRequest carries signed deltas for the copy counters.
// At least one delta must be non-zero.
type UpdateCopiesRequest struct {
	DeltaAvailable int `json:"deltaAvailable" validate:"required_without=DeltaTotal"`
	DeltaTotal     int `json:"deltaTotal"`
}

// ListFilter narrows a catalog listing. Empty fields match everything.
type ListFilter struct {
	Title    string `query:"title"`
	Author   string `query:"author"`
	Category string `query:"category"`
}
