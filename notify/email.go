// Package notify sends run-completion reports.
package notify

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// RunReport summarizes one finished scraper run for the catalog team.
type RunReport struct {
	Retailer         string
	Scraped          int
	Valid            int
	Invalid          int
	VariantsFiltered int
	Persisted        int
	Duration         time.Duration
	OutputDir        string
}

// Mailer delivers run reports through SendGrid.
type Mailer struct {
	apiKey string
	from   string
	to     string
	log    *zap.SugaredLogger
}

func NewMailer(apiKey, from, to string, log *zap.SugaredLogger) *Mailer {
	return &Mailer{apiKey: apiKey, from: from, to: to, log: log}
}

// SendRunReport emails the summary. Notification failures are reported to
// the caller but should not fail the run that produced the catalog.
func (m *Mailer) SendRunReport(report RunReport) error {
	subject := fmt.Sprintf("Catalog run: %s (%d products)", report.Retailer, report.Valid)
	text := fmt.Sprintf(
		"Retailer: %s\nScraped: %d\nValid: %d\nInvalid: %d\nVariants filtered: %d\nPersisted: %d\nDuration: %s\nOutput: %s\n",
		report.Retailer, report.Scraped, report.Valid, report.Invalid,
		report.VariantsFiltered, report.Persisted, report.Duration.Round(time.Second), report.OutputDir,
	)

	from := mail.NewEmail("Catalog Scraper", m.from)
	to := mail.NewEmail("", m.to)
	message := mail.NewSingleEmail(from, subject, to, text, "<pre>"+text+"</pre>")

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send run report: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected run report: status %d, body %s", response.StatusCode, response.Body)
	}

	m.log.Infow("run report sent", "to", m.to, "retailer", report.Retailer)
	return nil
}
