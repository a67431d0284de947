package app_errors

import (
	"errors"
	"fmt"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrTokenNotFound = errors.New("token not found")
var ErrTokenExpired = errors.New("token expired")
var ErrCourseNotFound = errors.New("course not found")
var ErrCourseNotPublished = errors.New("course not published")
var ErrAlreadyEnrolled = errors.New("user is already enrolled in course")
var ErrNotEnrolled = errors.New("user is not enrolled in course")
var ErrTeacherNotAssigned = errors.New("teacher is not assigned to course")
var ErrIntentNotFound = errors.New("payment intent not found")
var ErrMessageNotFound = errors.New("message not found")
var ErrEmptyContent = errors.New("message content is empty")
var ErrInvalidPrice = errors.New("invalid course price")
var ErrNotReceiver = errors.New("only the receiver can mark a message as read")

// GatewayError wraps a failure from the payment gateway adapter. It is
// surfaced to the caller and never retried automatically.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
