package dto

// CreateCategoryDTO — name and description are validated by the service so
// both missing-field failures surface with the same message.
type CreateCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentId    string `json:"parentId"`
	ImageUrl    string `json:"imageUrl"`
}

// UpdateCategoryDTO — empty fields leave the stored values untouched, so an
// explicit empty string cannot clear a field.
type UpdateCategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentId    string `json:"parentId"`
	ImageUrl    string `json:"imageUrl"`
}
