package models

import "github.com/google/uuid"

const (
	ClientRole  = "client"
	TeacherRole = "teacher"
	AdminRole   = "admin"
)

type User struct {
	ID       uuid.UUID
	Username string
	Password string
	Email    string
	Roles    []string
}
