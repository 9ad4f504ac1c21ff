package dto

import "github.com/emre/uninews/internal/app/models"

// DepartmentResponse represents department information
type DepartmentResponse struct {
	ID           int64  `json:"id"`
	UniversityID int64  `json:"universityId"`
	Name         string `json:"name"`
	Code         string `json:"code,omitempty"`
}

// FromDepartment converts a models.Department to a DepartmentResponse
func FromDepartment(department *models.Department) DepartmentResponse {
	if department == nil {
		return DepartmentResponse{}
	}
	return DepartmentResponse{
		ID:           department.ID,
		UniversityID: department.UniversityID,
		Name:         department.Name,
		Code:         department.Code,
	}
}

// FromDepartments converts a slice of departments
func FromDepartments(departments []models.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for i := range departments {
		out = append(out, FromDepartment(&departments[i]))
	}
	return out
}

// UniversityResponse represents university information
type UniversityResponse struct {
	ID           int64                `json:"id"`
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Abbreviation string               `json:"abbreviation,omitempty"`
	Departments  []DepartmentResponse `json:"departments,omitempty"`
}

// FromUniversity converts a models.University to a UniversityResponse
func FromUniversity(university *models.University) UniversityResponse {
	if university == nil {
		return UniversityResponse{}
	}
	return UniversityResponse{
		ID:           university.ID,
		Name:         university.Name,
		Slug:         university.Slug,
		Abbreviation: university.Abbreviation,
		Departments:  FromDepartments(university.Departments),
	}
}
