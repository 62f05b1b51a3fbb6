package domain

// InvoiceWithPayment is the outcome of creating an invoice, together with the
// payment transaction and allocation posted for its initial paid amount.
type InvoiceWithPayment struct {
	Invoice     Invoice
	Transaction *Transaction
	Allocation  *Allocation
}

// RecordedPayment is the outcome of recording or editing a payment.
type RecordedPayment struct {
	Transaction Transaction
	Allocations []Allocation
	// Invoices holds the settled invoices after the payment was applied.
	Invoices []Invoice
}
