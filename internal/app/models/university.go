package models

// University defines the university model based on the 'universities' table
type University struct {
	ID           int64        `json:"id" db:"id" example:"1"`                                 // Unique identifier for the university
	Name         string       `json:"name" db:"name" example:"Istanbul Technical University"` // Name of the university
	Slug         string       `json:"slug" db:"slug" example:"istanbul-technical-university"` // URL-safe identifier derived from the name
	Abbreviation string       `json:"abbreviation" db:"abbreviation" example:"ITU"`           // Abbreviation of the university name
	Departments  []Department `json:"departments,omitempty"`                                  // Relation, no db tag
}

// Department defines the department model based on the 'departments' table
type Department struct {
	ID           int64  `json:"id" db:"id" example:"1"`                           // Unique identifier for the department
	UniversityID int64  `json:"universityId" db:"university_id" example:"1"`      // ID of the university this department belongs to
	Name         string `json:"name" db:"name" example:"Computer Engineering"`    // Name of the department
	Code         string `json:"code,omitempty" db:"code" example:"BLG"`           // Short code of the department
}
