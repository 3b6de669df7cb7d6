package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"portfolio-be/pkg/portfolio"
)

type IEmailService interface {
	SendBriefingNotification(b portfolio.Briefing) error
}

// Sender abstracts the SMTP dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
	notifyTo    string
}

func NewEmailService(host string, port int, username, password, senderName, notifyTo string) IEmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(host, port, username, password), username, senderName, notifyTo)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName, notifyTo string) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
		notifyTo:    notifyTo,
	}
}

var briefingTemplate = template.Must(template.New("briefing").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Novo briefing: {{.ProjectName}}</h2>
	<p>{{.ProjectSummary}}</p>
	<table cellpadding="4">
		{{if .CompanyName}}<tr><td><b>Empresa</b></td><td>{{.CompanyName}}</td></tr>{{end}}
		{{if .ContactName}}<tr><td><b>Contato</b></td><td>{{.ContactName}}</td></tr>{{end}}
		{{if .Email}}<tr><td><b>Email</b></td><td>{{.Email}}</td></tr>{{end}}
		{{if .Phone}}<tr><td><b>Telefone</b></td><td>{{.Phone}}</td></tr>{{end}}
		{{if .ScopeFeatures}}<tr><td><b>Escopo</b></td><td>{{.ScopeFeatures}}</td></tr>{{end}}
		{{if .TargetPlatforms}}<tr><td><b>Plataformas</b></td><td>{{.TargetPlatforms}}</td></tr>{{end}}
		{{if .DeadlineWeeks}}<tr><td><b>Prazo</b></td><td>{{.DeadlineWeeks}} semanas</td></tr>{{end}}
		{{if .BudgetRange}}<tr><td><b>Orçamento</b></td><td>{{.BudgetRange}}</td></tr>{{end}}
	</table>
</div>
`))

type briefingView struct {
	portfolio.Briefing
	DeadlineWeeks int
}

func renderBriefing(b portfolio.Briefing) (string, error) {
	view := briefingView{Briefing: b}
	if b.DeadlineWeeks != nil {
		view.DeadlineWeeks = *b.DeadlineWeeks
	}

	var body bytes.Buffer
	if err := briefingTemplate.Execute(&body, view); err != nil {
		return "", fmt.Errorf("render briefing email: %w", err)
	}
	return body.String(), nil
}

func (s *emailService) SendBriefingNotification(b portfolio.Briefing) error {
	body, err := renderBriefing(b)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.notifyTo)
	if b.Email != "" {
		m.SetHeader("Reply-To", b.Email)
	}
	m.SetHeader("Subject", "Novo briefing: "+b.ProjectName)
	m.SetBody("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send briefing notification to %s: %w", s.notifyTo, err)
	}
	return nil
}
