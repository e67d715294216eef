package entities

import "time"

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

type JobLevel string

const (
	JobLevelJunior JobLevel = "junior"
	JobLevelMid    JobLevel = "mid"
	JobLevelSenior JobLevel = "senior"
	JobLevelLead   JobLevel = "lead"
)

type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Salary       string    `json:"salary,omitempty"`
	Type         JobType   `json:"type"`
	Level        JobLevel  `json:"level"`
	EmployerID   string    `json:"employerId"`
	EmployerName string    `json:"employerName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// JobForm carries the raw employer submission. Requirements is free text,
// one requirement per non-blank line.
type JobForm struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Requirements string   `json:"requirements" validate:"required"`
	Company      string   `json:"company" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Salary       string   `json:"salary"`
	Type         JobType  `json:"type" validate:"required,oneof=full-time part-time contract internship"`
	Level        JobLevel `json:"level" validate:"required,oneof=junior mid senior lead"`
}
