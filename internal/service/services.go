package service

import (
	"github.com/samidafali/education-backend/internal/service/access"
	"github.com/samidafali/education-backend/internal/service/auth"
	"github.com/samidafali/education-backend/internal/service/enrollment"
	"github.com/samidafali/education-backend/internal/service/messaging"
	"github.com/samidafali/education-backend/internal/service/payment"
)

type Collection struct {
	*auth.AuthService
	*access.AccessService
	*enrollment.EnrollmentService
	*payment.PaymentService
	*messaging.MessagingService
}
