package services

import (
	"fmt"
	"lifevault/internal/models"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendWelcomeEmail greets a freshly registered user
func (s *EmailService) SendWelcomeEmail(user *models.User) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(user.Username, user.Email)
	subject := "Welcome to LifeVault"
	plainContent := fmt.Sprintf("Hello %s, your account is ready. Add a profile to start tracking health records, vehicles and expenses.", user.Username)
	htmlContent := fmt.Sprintf("<p>Hello %s,</p><p>Your account is ready. Add a profile to start tracking health records, vehicles and expenses.</p>", user.Username)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send welcome email to %s: %d", user.Email, response.StatusCode)
	}
	return nil
}

// SendRegistrationExpiryEmail warns about a vehicle registration about to lapse
func (s *EmailService) SendRegistrationExpiryEmail(user *models.User, vehicle *models.Vehicle) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(user.Username, user.Email)
	subject := fmt.Sprintf("Registration expiring: %s %s", vehicle.Make, vehicle.Model)

	expiry := "soon"
	if vehicle.RegistrationExpiryDate != nil {
		expiry = vehicle.RegistrationExpiryDate.Format("Mon Jan 2, 2006")
	}

	plainContent := fmt.Sprintf("Hello %s, the registration for your %s %s expires %s.",
		user.Username, vehicle.Make, vehicle.Model, expiry)
	htmlContent := fmt.Sprintf("<p>Hello %s,</p><p>The registration for your <strong>%s %s</strong> expires %s.</p>",
		user.Username, vehicle.Make, vehicle.Model, expiry)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send expiry email to %s: %d", user.Email, response.StatusCode)
	}
	return nil
}
