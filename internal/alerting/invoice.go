package alerting

import (
	"fmt"
	"time"

	"github.com/mamadbah2/farmpulse/internal/domain/models"
)

// EvaluateInvoiceDue fires for unpaid invoices that are overdue or fall due
// within the tenant look-ahead horizon.
func EvaluateInvoiceDue(invoice models.Invoice, settings models.AlertSettings, now time.Time) *models.AlertCandidate {
	if invoice.Paid {
		return nil
	}

	horizon := now.AddDate(0, 0, settings.InvoiceDueSoonDays)
	if invoice.DueDate.After(horizon) {
		return nil
	}

	overdue := invoice.DueDate.Before(now)
	message := fmt.Sprintf("Invoice for %s (%.2f) is due on %s.",
		invoice.Client, invoice.Amount, invoice.DueDate.Format("2006-01-02"))
	if overdue {
		message = fmt.Sprintf("Invoice for %s (%.2f) was due on %s and is unpaid.",
			invoice.Client, invoice.Amount, invoice.DueDate.Format("2006-01-02"))
	}

	return &models.AlertCandidate{
		Title:   "Invoice due",
		Message: message,
		Payload: models.InvoiceDuePayload{
			InvoiceID: invoice.ID,
			Client:    invoice.Client,
			Amount:    invoice.Amount,
			DueDate:   invoice.DueDate,
			Overdue:   overdue,
		},
	}
}
