package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"library-backend/internal/config"
	"library-backend/internal/domains/loanrequest"
	"library-backend/pkg/logger"
)

// SMTPNotifier delivers the loan-request workflow emails over plain
// SMTP. Delivery results are reported as bools; the services own the
// decision of whether a lost email aborts their flow.
type SMTPNotifier struct {
	cfg config.EmailConfig

	// frontendURL is the base the review links point at.
	frontendURL string
}

func NewSMTPNotifier(cfg config.EmailConfig, frontendURL string) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:         cfg,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

var _ loanrequest.Notifier = (*SMTPNotifier)(nil)

// SendLoanRequest mails the librarian inbox with the requester in cc.
func (n *SMTPNotifier) SendLoanRequest(_ context.Context, data loanrequest.RequestNotification) bool {
	reviewURL := fmt.Sprintf("%s/librarian/loan-request/%s", n.frontendURL, data.Token)

	subject := fmt.Sprintf("Nueva solicitud de préstamo: %s", data.BookTitle)
	body := fmt.Sprintf(
		"Se ha recibido una nueva solicitud de préstamo.\r\n\r\n"+
			"Usuario: %s (%s)\r\n"+
			"Libro: %s (%s)\r\n"+
			"Fecha de solicitud: %s\r\n\r\n"+
			"Revisar la solicitud: %s\r\n",
		data.UserName, data.UserEmail,
		data.BookTitle, data.BookAuthor,
		data.RequestDate.Format("2006-01-02 15:04"),
		reviewURL,
	)

	return n.send([]string{n.cfg.LibrarianInbox, data.UserEmail}, n.cfg.LibrarianInbox, data.UserEmail, subject, body)
}

// SendApproval mails the requester that the loan was granted.
func (n *SMTPNotifier) SendApproval(_ context.Context, data loanrequest.ApprovalNotification) bool {
	subject := fmt.Sprintf("Solicitud aprobada: %s", data.BookTitle)
	body := fmt.Sprintf(
		"Hola %s,\r\n\r\n"+
			"Tu solicitud de préstamo de \"%s\" ha sido aprobada.\r\n"+
			"Fecha de devolución: %s\r\n",
		data.UserName, data.BookTitle, data.DueDate.Format("2006-01-02"),
	)
	return n.send([]string{data.UserEmail}, data.UserEmail, "", subject, body)
}

// SendRejection mails the requester that the loan was declined.
func (n *SMTPNotifier) SendRejection(_ context.Context, data loanrequest.RejectionNotification) bool {
	subject := fmt.Sprintf("Solicitud rechazada: %s", data.BookTitle)
	body := fmt.Sprintf("Hola %s,\r\n\r\nTu solicitud de préstamo de \"%s\" ha sido rechazada.\r\n", data.UserName, data.BookTitle)
	if data.Reason != "" {
		body += fmt.Sprintf("Motivo: %s\r\n", data.Reason)
	}
	return n.send([]string{data.UserEmail}, data.UserEmail, "", subject, body)
}

func (n *SMTPNotifier) send(recipients []string, to, cc, subject, body string) bool {
	headers := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\n", n.cfg.FromName, n.cfg.From, to)
	if cc != "" {
		headers += fmt.Sprintf("Cc: %s\r\n", cc)
	}
	headers += fmt.Sprintf("Subject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n", subject)

	addr := n.cfg.SMTPHost + ":" + n.cfg.SMTPPort
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, n.cfg.From, recipients, []byte(headers+body)); err != nil {
		logger.Error("email delivery failed", err)
		return false
	}
	return true
}
