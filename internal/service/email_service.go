package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
	}

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create SES client
	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWaiverRequestEmail asks a registered participant to review and accept
// the zipline liability waiver
func (s *EmailService) SendWaiverRequestEmail(ctx context.Context, toEmail, toName, participantID string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): waiver request to %s", toEmail)
		return nil
	}

	waiverLink := fmt.Sprintf("%s/waiver?participant=%s", s.appBaseURL, participantID)
	if s.debug {
		log.Printf("[DEBUG] Waiver link generated: %s", waiverLink)
	}

	subject := "Legendários TOP: Termo de Responsabilidade da Tirolesa"
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #1f3a5f; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #1f3a5f; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Termo de Responsabilidade</h1>
		</div>
		<div class="content">
			<p>Olá %s,</p>
			<p>Sua inscrição no Legendários TOP foi recebida. Para participar da tirolesa você precisa aceitar o termo de responsabilidade.</p>
			<p style="text-align: center;">
				<a href="%s" class="button">Revisar e Aceitar</a>
			</p>
			<p>Ou copie e cole este link no seu navegador:</p>
			<p style="word-break: break-all; font-size: 12px; color: #666;">%s</p>
			<p>Sem o aceite, seu nome não entra na geração oficial de duplas.</p>
		</div>
		<div class="footer">
			<p>Este é um e-mail automático do Legendários TOP. Não responda.</p>
		</div>
	</div>
</body>
</html>
`, toName, waiverLink, waiverLink)

	textBody := fmt.Sprintf(`Olá %s,

Sua inscrição no Legendários TOP foi recebida. Para participar da tirolesa você precisa aceitar o termo de responsabilidade.

Revise e aceite aqui:
%s

Sem o aceite, seu nome não entra na geração oficial de duplas.

---
Este é um e-mail automático do Legendários TOP. Não responda.
`, toName, waiverLink)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendFamilyAssignmentEmail tells a participant which family they were
// placed in after a distribution run
func (s *EmailService) SendFamilyAssignmentEmail(ctx context.Context, toEmail, toName, familyName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): family assignment to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Legendários TOP: você está na %s", familyName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #1f3a5f; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Olá %s,</p>
			<p>A distribuição das famílias foi concluída e você faz parte da <strong>%s</strong>.</p>
			<p>Procure a bandeira da sua família na chegada ao evento.</p>
		</div>
		<div class="footer">
			<p>Este é um e-mail automático do Legendários TOP. Não responda.</p>
		</div>
	</div>
</body>
</html>
`, familyName, toName, familyName)

	textBody := fmt.Sprintf(`Olá %s,

A distribuição das famílias foi concluída e você faz parte da %s.

Procure a bandeira da sua família na chegada ao evento.

---
Este é um e-mail automático do Legendários TOP. Não responda.
`, toName, familyName)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] sendEmail: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
