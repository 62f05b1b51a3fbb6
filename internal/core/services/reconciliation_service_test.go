package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/SscSPs/backoffice_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/backoffice_ledger/internal/core/ports/services"
	"github.com/SscSPs/backoffice_ledger/internal/core/services"
	"github.com/SscSPs/backoffice_ledger/internal/dto"
	"github.com/SscSPs/backoffice_ledger/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testWorkplaceID = "wp-1"
	testUserID      = "user-1"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

type ReconciliationServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	ledger *memLedger
	svc    portssvc.ReconciliationSvcFacade

	bank     domain.AccountRef
	drawer   domain.AccountRef
	customer domain.CounterpartyRef
	other    domain.CounterpartyRef
	supplier domain.CounterpartyRef
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ledger = newMemLedger(testWorkplaceID)
	s.bank = s.ledger.addAccount(domain.BankAccount, "bank-1", "1000")
	s.drawer = s.ledger.addAccount(domain.CashDrawer, "drawer-1", "0")
	s.customer = s.ledger.addCounterparty(domain.Customer, "cust-1", "0")
	s.other = s.ledger.addCounterparty(domain.Customer, "cust-2", "0")
	s.supplier = s.ledger.addCounterparty(domain.Supplier, "supp-1", "0")
	s.ledger.settings.DefaultCashDrawerID = strPtr(s.drawer.ID)
	s.ledger.settings.DefaultBankAccountID = strPtr(s.bank.ID)
	s.svc = s.newService()
}

func (s *ReconciliationServiceTestSuite) newService(opts ...services.ReconciliationOption) portssvc.ReconciliationSvcFacade {
	deps := services.ReconciliationDeps{
		TxManager:      s.ledger,
		Accounts:       s.ledger,
		Counterparties: s.ledger,
		Invoices:       s.ledger,
		Transactions:   s.ledger,
		Allocations:    s.ledger,
		Reference:      s.ledger,
		Settings:       s.ledger,
	}
	opts = append([]services.ReconciliationOption{services.WithClock(func() time.Time { return fixedNow })}, opts...)
	return services.NewReconciliationService(deps, opts...)
}

func (s *ReconciliationServiceTestSuite) assertMoney(expected string, actual decimal.Decimal, msgAndArgs ...any) {
	s.Truef(money(expected).Equal(actual), "expected %s, got %s %v", expected, actual.String(), msgAndArgs)
}

func (s *ReconciliationServiceTestSuite) invoiceRequest(number, cpID, total, paid string, method *string) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		InvoiceNumber:   number,
		CounterpartyID:  cpID,
		IssueDate:       "2024-03-01",
		DueDate:         "2024-03-31",
		TotalAmount:     money(total),
		PaidAmount:      money(paid),
		PaymentMethodID: method,
	}
}

func (s *ReconciliationServiceTestSuite) createSalesInvoice(number, total string) domain.Invoice {
	res, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice, s.invoiceRequest(number, s.customer.ID, total, "0", nil), testUserID)
	s.Require().NoError(err)
	return res.Invoice
}

func (s *ReconciliationServiceTestSuite) customerPayment(amount string, allocs ...dto.AllocationRequest) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		TransactionDate: "2024-03-10",
		TypeID:          "tt-cust",
		Amount:          money(amount),
		Account:         &dto.AccountRefRequest{Kind: domain.BankAccount, ID: s.bank.ID},
		Counterparty:    &dto.CounterpartyRefRequest{Kind: domain.Customer, ID: s.customer.ID},
		Allocations:     allocs,
	}
}

func salesAllocation(invoiceID, amount string) dto.AllocationRequest {
	return dto.AllocationRequest{TargetKind: string(domain.SalesInvoice), TargetID: invoiceID, Amount: money(amount)}
}

// --- invoice creation ---

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_PartialPaymentPostsToDefaultDrawer() {
	res, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "400", strPtr("pm-cash")), testUserID)

	s.Require().NoError(err)
	s.Equal(domain.StatusPartiallyPaid, res.Invoice.Status)
	s.assertMoney("600", res.Invoice.Balance)
	s.Require().NotNil(res.Transaction)
	s.Require().NotNil(res.Allocation)
	s.assertMoney("400", res.Transaction.Amount)
	s.Equal(s.drawer, *res.Transaction.Account)
	s.Equal("2024-03-01", res.Transaction.TransactionDate.Format(dto.DateLayout))
	s.assertMoney("400", res.Allocation.Amount)
	s.Equal(res.Invoice.Target(), res.Allocation.Target)

	s.assertMoney("400", s.ledger.balance(s.drawer))
	s.assertMoney("1000", s.ledger.balance(s.bank))
	s.assertMoney("600", s.ledger.counterparty(s.customer).OutstandingBalance)
	s.Equal(1, s.ledger.commits)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_UnpaidTouchesNoAccount() {
	res, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "0", nil), testUserID)

	s.Require().NoError(err)
	s.Equal(domain.StatusUnpaid, res.Invoice.Status)
	s.Nil(res.Transaction)
	s.Nil(res.Allocation)
	s.Empty(s.ledger.lockedAccounts)
	s.Empty(s.ledger.transactions)
	s.assertMoney("1000", s.ledger.counterparty(s.customer).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_PurchaseInvoicePaysOutOfBank() {
	res, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.PurchaseInvoice,
		s.invoiceRequest("BILL-7", s.supplier.ID, "800", "300", strPtr("pm-bank")), testUserID)

	s.Require().NoError(err)
	s.Equal("tt-supp", res.Transaction.TypeID)
	s.assertMoney("700", s.ledger.balance(s.bank))
	s.assertMoney("500", s.ledger.counterparty(s.supplier).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_MissingDefaultAccount() {
	s.ledger.settings.DefaultCashDrawerID = nil

	res, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "400", strPtr("pm-cash")), testUserID)

	s.Nil(res)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal("resolve default account", apperrors.StepOf(err))
	s.Zero(s.ledger.begins)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_PaymentMethodRequiredForPaidAmount() {
	_, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "400", nil), testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.ledger.begins)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_DueBeforeIssue() {
	req := s.invoiceRequest("INV-1", s.customer.ID, "1000", "0", nil)
	req.DueDate = "2024-02-01"

	_, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_CreditLimitExceeded() {
	cp := s.ledger.counterparties[s.customer]
	cp.CreditLimit = money("500")
	s.ledger.counterparties[s.customer] = cp

	_, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "0", nil), testUserID)

	s.ErrorIs(err, apperrors.ErrCreditLimitExceeded)
	s.Equal(apperrors.KindValidation, apperrors.Kind(err))
	s.Empty(s.ledger.invoices)
	s.Equal(1, s.ledger.rollbacks)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_UnknownCounterparty() {
	_, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", "nobody", "1000", "0", nil), testUserID)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal("lock counterparty", apperrors.StepOf(err))
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_OverpaidCreditsCustomer() {
	res, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "100", "150", strPtr("pm-cash")), testUserID)

	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, res.Invoice.Status)
	s.assertMoney("100", res.Invoice.PaidAmount)
	s.assertMoney("0", res.Invoice.Balance)
	s.assertMoney("150", res.Transaction.Amount)
	s.assertMoney("100", res.Allocation.Amount)
	s.assertMoney("50", res.Allocation.CreditedAmount)

	s.assertMoney("150", s.ledger.balance(s.drawer))
	cp := s.ledger.counterparty(s.customer)
	s.assertMoney("0", cp.OutstandingBalance)
	s.assertMoney("50", cp.CreditBalance)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_OverpaidRejectedByPolicy() {
	svc := s.newService(services.WithOverpaymentPolicy(config.OverpaymentReject))

	_, err := svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "100", "150", strPtr("pm-cash")), testUserID)

	s.ErrorIs(err, apperrors.ErrOverpayment)
	s.Zero(s.ledger.begins)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_RollsBackWhenPostingFails() {
	s.ledger.failOn["ApplyBalanceDeltaInTx"] = errors.New("connection reset")

	_, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "400", strPtr("pm-cash")), testUserID)

	s.Require().Error(err)
	s.Equal("post transaction", apperrors.StepOf(err))
	s.Equal(apperrors.KindInternal, apperrors.Kind(err))
	s.Empty(s.ledger.invoices)
	s.Empty(s.ledger.transactions)
	s.assertMoney("0", s.ledger.counterparty(s.customer).OutstandingBalance)
	s.Equal(1, s.ledger.rollbacks)
	s.Zero(s.ledger.commits)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_BeginFailure() {
	s.ledger.failOn["Begin"] = errors.New("pool closed")

	_, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "0", nil), testUserID)

	s.Equal("begin unit of work", apperrors.StepOf(err))
	s.Zero(s.ledger.rollbacks)
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_CommitFailureRollsBack() {
	txm := new(MockTxManager)
	tx := fakeTx{}
	txm.On("Begin", mock.Anything).Return(tx, nil).Once()
	txm.On("Commit", mock.Anything, tx).Return(errors.New("serialization failure")).Once()
	txm.On("Rollback", mock.Anything, tx).Return(nil).Once()

	svc := services.NewReconciliationService(services.ReconciliationDeps{
		TxManager:      txm,
		Accounts:       s.ledger,
		Counterparties: s.ledger,
		Invoices:       s.ledger,
		Transactions:   s.ledger,
		Allocations:    s.ledger,
		Reference:      s.ledger,
		Settings:       s.ledger,
	}, services.WithClock(func() time.Time { return fixedNow }))

	_, err := svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "0", nil), testUserID)

	s.Equal("commit unit of work", apperrors.StepOf(err))
	txm.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestCreateInvoice_ForbiddenNeverOpensUnit() {
	authz := new(MockWorkplaceAuthorizer)
	authz.On("AuthorizeUserAction", mock.Anything, testUserID, testWorkplaceID, domain.RoleMember).Return(apperrors.ErrForbidden).Once()
	svc := s.newService(services.WithReconciliationAuthorizer(authz))

	_, err := svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-1", s.customer.ID, "1000", "0", nil), testUserID)

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Zero(s.ledger.begins)
	authz.AssertExpectations(s.T())
}

// --- invoice edits ---

func (s *ReconciliationServiceTestSuite) TestUpdateInvoice_TotalChangeMovesOutstandingByDelta() {
	inv := s.createSalesInvoice("INV-1", "1000")

	updated, err := s.svc.UpdateInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID,
		dto.UpdateInvoiceRequest{TotalAmount: decimalPtr("1200")}, testUserID)

	s.Require().NoError(err)
	s.assertMoney("1200", updated.Balance)
	s.assertMoney("1200", s.ledger.counterparty(s.customer).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestUpdateInvoice_MarkPaidShortcut() {
	inv := s.createSalesInvoice("INV-1", "1000")

	updated, err := s.svc.UpdateInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID,
		dto.UpdateInvoiceRequest{Status: strPtr("paid")}, testUserID)

	s.Require().NoError(err)
	s.Equal(domain.StatusPaid, updated.Status)
	s.assertMoney("1000", updated.PaidAmount)
	s.assertMoney("0", s.ledger.counterparty(s.customer).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestUpdateInvoice_CounterpartyChangeMovesOutstanding() {
	inv := s.createSalesInvoice("INV-1", "1000")

	_, err := s.svc.UpdateInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID,
		dto.UpdateInvoiceRequest{CounterpartyID: strPtr(s.other.ID)}, testUserID)

	s.Require().NoError(err)
	s.assertMoney("0", s.ledger.counterparty(s.customer).OutstandingBalance)
	s.assertMoney("1000", s.ledger.counterparty(s.other).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestUpdateInvoice_CancelledIsRejected() {
	inv := s.createSalesInvoice("INV-1", "1000")
	_, err := s.svc.CancelInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID, testUserID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID,
		dto.UpdateInvoiceRequest{Notes: strPtr("late")}, testUserID)

	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *ReconciliationServiceTestSuite) TestCancelInvoice_ReleasesOutstanding() {
	inv := s.createSalesInvoice("INV-1", "1000")

	cancelled, err := s.svc.CancelInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID, testUserID)

	s.Require().NoError(err)
	s.Equal(domain.StatusCancelled, cancelled.Status)
	s.assertMoney("0", s.ledger.counterparty(s.customer).OutstandingBalance)

	_, err = s.svc.CancelInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID, testUserID)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *ReconciliationServiceTestSuite) TestDeleteInvoice_RemovesOutstanding() {
	inv := s.createSalesInvoice("INV-1", "1000")

	err := s.svc.DeleteInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID, testUserID)

	s.Require().NoError(err)
	s.Empty(s.ledger.invoices)
	s.assertMoney("0", s.ledger.counterparty(s.customer).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestDeleteInvoice_WithAllocationsConflicts() {
	inv := s.createSalesInvoice("INV-1", "1000")
	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("200", salesAllocation(inv.InvoiceID, "200")), testUserID)
	s.Require().NoError(err)

	err = s.svc.DeleteInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID, testUserID)

	s.ErrorIs(err, apperrors.ErrConflict)
	s.Len(s.ledger.invoices, 1)
	s.assertMoney("800", s.ledger.counterparty(s.customer).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestUpdateInvoice_RepeatedOverpaidEditNeverCredits() {
	inv := s.createSalesInvoice("INV-1", "1000")

	for i := 0; i < 3; i++ {
		updated, err := s.svc.UpdateInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID,
			dto.UpdateInvoiceRequest{PaidAmount: decimalPtr("1500")}, testUserID)
		s.Require().NoError(err)
		s.assertMoney("1000", updated.PaidAmount)
		s.Equal(domain.StatusPaid, updated.Status)
	}

	cp := s.ledger.counterparty(s.customer)
	s.assertMoney("0", cp.CreditBalance)
	s.assertMoney("0", cp.OutstandingBalance)
	s.Empty(s.ledger.transactions)
	s.assertMoney("1000", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestUpdateInvoice_OverpaidEditRejectedByPolicy() {
	inv := s.createSalesInvoice("INV-1", "1000")
	svc := s.newService(services.WithOverpaymentPolicy(config.OverpaymentReject))

	_, err := svc.UpdateInvoice(s.ctx, testWorkplaceID, domain.SalesInvoice, inv.InvoiceID,
		dto.UpdateInvoiceRequest{PaidAmount: decimalPtr("1500")}, testUserID)

	s.ErrorIs(err, apperrors.ErrOverpayment)
	s.Equal(domain.StatusUnpaid, s.ledger.invoice(domain.SalesInvoice, inv.InvoiceID).Status)
	s.assertMoney("1000", s.ledger.counterparty(s.customer).OutstandingBalance)
}

// --- payments ---

func (s *ReconciliationServiceTestSuite) TestRecordPayment_SettlesInvoice() {
	inv := s.createSalesInvoice("INV-1", "1000")

	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("1000", salesAllocation(inv.InvoiceID, "1000")), testUserID)

	s.Require().NoError(err)
	s.Require().Len(res.Invoices, 1)
	s.Equal(domain.StatusPaid, res.Invoices[0].Status)
	s.Require().Len(res.Allocations, 1)
	s.assertMoney("1000", res.Allocations[0].Amount)
	s.assertMoney("0", res.Allocations[0].CreditedAmount)

	s.assertMoney("2000", s.ledger.balance(s.bank))
	s.assertMoney("0", s.ledger.counterparty(s.customer).OutstandingBalance)
	s.Equal(domain.StatusPaid, s.ledger.invoice(domain.SalesInvoice, inv.InvoiceID).Status)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_SplitAcrossInvoices() {
	a := s.createSalesInvoice("INV-A", "300")
	b := s.createSalesInvoice("INV-B", "500")

	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("600",
		salesAllocation(a.InvoiceID, "300"), salesAllocation(b.InvoiceID, "300")), testUserID)

	s.Require().NoError(err)
	s.Len(res.Allocations, 2)
	s.Equal(domain.StatusPaid, s.ledger.invoice(domain.SalesInvoice, a.InvoiceID).Status)
	s.Equal(domain.StatusPartiallyPaid, s.ledger.invoice(domain.SalesInvoice, b.InvoiceID).Status)
	s.assertMoney("200", s.ledger.counterparty(s.customer).OutstandingBalance)
	s.assertMoney("1600", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_OverpaymentCredited() {
	inv := s.createSalesInvoice("INV-1", "100")

	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("150", salesAllocation(inv.InvoiceID, "150")), testUserID)

	s.Require().NoError(err)
	s.assertMoney("100", res.Allocations[0].Amount)
	s.assertMoney("50", res.Allocations[0].CreditedAmount)
	s.assertMoney("1150", s.ledger.balance(s.bank))
	cp := s.ledger.counterparty(s.customer)
	s.assertMoney("0", cp.OutstandingBalance)
	s.assertMoney("50", cp.CreditBalance)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_OverpaymentRejectedRollsBack() {
	inv := s.createSalesInvoice("INV-1", "100")
	svc := s.newService(services.WithOverpaymentPolicy(config.OverpaymentReject))

	_, err := svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("150", salesAllocation(inv.InvoiceID, "150")), testUserID)

	s.ErrorIs(err, apperrors.ErrOverpayment)
	s.Equal("apply allocation", apperrors.StepOf(err))
	s.assertMoney("1000", s.ledger.balance(s.bank))
	s.Empty(s.ledger.transactions)
	s.Equal(domain.StatusUnpaid, s.ledger.invoice(domain.SalesInvoice, inv.InvoiceID).Status)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_Transfer() {
	req := dto.CreateTransactionRequest{
		TransactionDate: "2024-03-10",
		TypeID:          "tt-xfer",
		Amount:          money("200"),
		Account:         &dto.AccountRefRequest{Kind: domain.BankAccount, ID: s.bank.ID},
		TransferTo:      &dto.AccountRefRequest{Kind: domain.CashDrawer, ID: s.drawer.ID},
	}

	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)

	s.Require().NoError(err)
	s.Empty(res.Allocations)
	s.assertMoney("800", s.ledger.balance(s.bank))
	s.assertMoney("200", s.ledger.balance(s.drawer))
	s.Require().NotEmpty(s.ledger.lockedAccounts)
	s.Equal([]domain.AccountRef{s.bank, s.drawer}, s.ledger.lockedAccounts[len(s.ledger.lockedAccounts)-1])
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_TransferToSameAccount() {
	req := dto.CreateTransactionRequest{
		TransactionDate: "2024-03-10",
		TypeID:          "tt-xfer",
		Amount:          money("200"),
		Account:         &dto.AccountRefRequest{Kind: domain.BankAccount, ID: s.bank.ID},
		TransferTo:      &dto.AccountRefRequest{Kind: domain.BankAccount, ID: s.bank.ID},
	}

	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Zero(s.ledger.begins)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_TransferCannotSettleInvoices() {
	inv := s.createSalesInvoice("INV-1", "100")
	req := dto.CreateTransactionRequest{
		TransactionDate: "2024-03-10",
		TypeID:          "tt-xfer",
		Amount:          money("100"),
		Account:         &dto.AccountRefRequest{Kind: domain.BankAccount, ID: s.bank.ID},
		TransferTo:      &dto.AccountRefRequest{Kind: domain.CashDrawer, ID: s.drawer.ID},
		Allocations:     []dto.AllocationRequest{salesAllocation(inv.InvoiceID, "100")},
	}

	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_AllocationsExceedAmount() {
	inv := s.createSalesInvoice("INV-1", "1000")
	begins := s.ledger.begins

	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("100", salesAllocation(inv.InvoiceID, "150")), testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(begins, s.ledger.begins)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_DuplicateTarget() {
	inv := s.createSalesInvoice("INV-1", "1000")

	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("200",
		salesAllocation(inv.InvoiceID, "100"), salesAllocation(inv.InvoiceID, "100")), testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_PurchaseInvoiceNeedsOutflow() {
	req := s.customerPayment("100", dto.AllocationRequest{TargetKind: string(domain.PurchaseInvoice), TargetID: "bill-1", Amount: money("100")})

	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_InvoiceOfAnotherCustomer() {
	inv := s.createSalesInvoice("INV-1", "1000")
	req := s.customerPayment("100", salesAllocation(inv.InvoiceID, "100"))
	req.Counterparty.ID = s.other.ID

	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal("apply allocation", apperrors.StepOf(err))
	s.assertMoney("1000", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_DefaultAccountFromMethod() {
	req := dto.CreateTransactionRequest{
		TransactionDate: "2024-03-10",
		TypeID:          "tt-exp",
		PaymentMethodID: "pm-bank",
		Amount:          money("75.50"),
	}

	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)

	s.Require().NoError(err)
	s.Equal(s.bank, *res.Transaction.Account)
	s.Equal("12:00", res.Transaction.TransactionTime)
	s.assertMoney("924.50", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_NonPositiveAmount() {
	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("0"), testUserID)

	s.ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_UnknownCounterpartyRollsBack() {
	req := s.customerPayment("250")
	req.Counterparty.ID = "cust-missing"
	rollbacks := s.ledger.rollbacks

	_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal("resolve counterparty", apperrors.StepOf(err))
	s.Equal(rollbacks+1, s.ledger.rollbacks)
	s.Zero(s.ledger.commits)
	s.Empty(s.ledger.transactions)
	s.assertMoney("1000", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_CounterpartyKindMustMatchFlow() {
	incoming := s.customerPayment("100")
	incoming.Counterparty = &dto.CounterpartyRefRequest{Kind: domain.Supplier, ID: s.supplier.ID}
	outgoing := dto.CreateTransactionRequest{
		TransactionDate: "2024-03-10",
		TypeID:          "tt-supp",
		Amount:          money("100"),
		Account:         &dto.AccountRefRequest{Kind: domain.BankAccount, ID: s.bank.ID},
		Counterparty:    &dto.CounterpartyRefRequest{Kind: domain.Customer, ID: s.customer.ID},
	}

	for _, req := range []dto.CreateTransactionRequest{incoming, outgoing} {
		_, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)
		s.ErrorIs(err, apperrors.ErrValidation)
		s.Equal("resolve counterparty", apperrors.StepOf(err))
	}
	s.Empty(s.ledger.transactions)
	s.assertMoney("1000", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestRecordPayment_SupplierPaymentOut() {
	req := dto.CreateTransactionRequest{
		TransactionDate: "2024-03-10",
		TypeID:          "tt-supp",
		Amount:          money("100"),
		Account:         &dto.AccountRefRequest{Kind: domain.BankAccount, ID: s.bank.ID},
		Counterparty:    &dto.CounterpartyRefRequest{Kind: domain.Supplier, ID: s.supplier.ID},
	}

	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, req, testUserID)

	s.Require().NoError(err)
	s.Equal(s.supplier, *res.Transaction.Counterparty)
	s.assertMoney("900", s.ledger.balance(s.bank))
}

// --- transaction edits and deletes ---

func (s *ReconciliationServiceTestSuite) TestUpdateTransaction_AmountChangeNetsBalance() {
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("300"), testUserID)
	s.Require().NoError(err)

	updated, err := s.svc.UpdateTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID,
		dto.UpdateTransactionRequest{Amount: decimalPtr("500")}, testUserID)

	s.Require().NoError(err)
	s.assertMoney("500", updated.Transaction.Amount)
	s.assertMoney("1500", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestUpdateTransaction_MovesAccount() {
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("300"), testUserID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID,
		dto.UpdateTransactionRequest{Account: &dto.AccountRefRequest{Kind: domain.CashDrawer, ID: s.drawer.ID}}, testUserID)

	s.Require().NoError(err)
	s.assertMoney("1000", s.ledger.balance(s.bank))
	s.assertMoney("300", s.ledger.balance(s.drawer))
}

func (s *ReconciliationServiceTestSuite) TestUpdateTransaction_ReplacesAllocations() {
	a := s.createSalesInvoice("INV-A", "500")
	b := s.createSalesInvoice("INV-B", "500")
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("300", salesAllocation(a.InvoiceID, "300")), testUserID)
	s.Require().NoError(err)

	replacement := []dto.AllocationRequest{salesAllocation(b.InvoiceID, "300")}
	updated, err := s.svc.UpdateTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID,
		dto.UpdateTransactionRequest{Allocations: &replacement}, testUserID)

	s.Require().NoError(err)
	s.Require().Len(updated.Allocations, 1)
	s.Equal(b.InvoiceID, updated.Allocations[0].Target.ID)

	invA := s.ledger.invoice(domain.SalesInvoice, a.InvoiceID)
	invB := s.ledger.invoice(domain.SalesInvoice, b.InvoiceID)
	s.Equal(domain.StatusUnpaid, invA.Status)
	s.assertMoney("500", invA.Balance)
	s.Equal(domain.StatusPartiallyPaid, invB.Status)
	s.assertMoney("200", invB.Balance)
	s.assertMoney("700", s.ledger.counterparty(s.customer).OutstandingBalance)
	s.Len(s.ledger.activeAllocations(res.Transaction.TransactionID), 1)
	s.assertMoney("1300", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestUpdateTransaction_AmountBelowAllocationsRollsBack() {
	inv := s.createSalesInvoice("INV-1", "1000")
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("300", salesAllocation(inv.InvoiceID, "300")), testUserID)
	s.Require().NoError(err)
	rollbacks := s.ledger.rollbacks

	_, err = s.svc.UpdateTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID,
		dto.UpdateTransactionRequest{Amount: decimalPtr("100")}, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(rollbacks+1, s.ledger.rollbacks)
	s.assertMoney("1300", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestUpdateTransaction_UnknownCounterpartyRollsBack() {
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("300"), testUserID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID, dto.UpdateTransactionRequest{
		Amount:       decimalPtr("500"),
		Counterparty: &dto.CounterpartyRefRequest{Kind: domain.Customer, ID: "cust-missing"},
	}, testUserID)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal("resolve counterparty", apperrors.StepOf(err))
	s.assertMoney("1300", s.ledger.balance(s.bank))
	s.Equal(s.customer, *s.ledger.transactions[res.Transaction.TransactionID].Counterparty)
}

func (s *ReconciliationServiceTestSuite) TestUpdateTransaction_CounterpartyPinnedByKeptAllocations() {
	inv := s.createSalesInvoice("INV-1", "1000")
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("300", salesAllocation(inv.InvoiceID, "300")), testUserID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID, dto.UpdateTransactionRequest{
		Counterparty: &dto.CounterpartyRefRequest{Kind: domain.Customer, ID: s.other.ID},
	}, testUserID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(s.customer, *s.ledger.transactions[res.Transaction.TransactionID].Counterparty)
	s.assertMoney("300", s.ledger.invoice(domain.SalesInvoice, inv.InvoiceID).PaidAmount)
	s.assertMoney("700", s.ledger.counterparty(s.customer).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestUpdateTransaction_CounterpartyChangesWithNewAllocations() {
	mine := s.createSalesInvoice("INV-1", "1000")
	created, err := s.svc.CreateInvoiceWithPayment(s.ctx, testWorkplaceID, domain.SalesInvoice,
		s.invoiceRequest("INV-2", s.other.ID, "500", "0", nil), testUserID)
	s.Require().NoError(err)
	theirs := created.Invoice
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("300", salesAllocation(mine.InvoiceID, "300")), testUserID)
	s.Require().NoError(err)

	replacement := []dto.AllocationRequest{salesAllocation(theirs.InvoiceID, "300")}
	updated, err := s.svc.UpdateTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID, dto.UpdateTransactionRequest{
		Counterparty: &dto.CounterpartyRefRequest{Kind: domain.Customer, ID: s.other.ID},
		Allocations:  &replacement,
	}, testUserID)

	s.Require().NoError(err)
	s.Equal(s.other, *updated.Transaction.Counterparty)
	s.assertMoney("1000", s.ledger.counterparty(s.customer).OutstandingBalance)
	s.assertMoney("200", s.ledger.counterparty(s.other).OutstandingBalance)
}

func (s *ReconciliationServiceTestSuite) TestDeleteTransaction_RestoresBalances() {
	inv := s.createSalesInvoice("INV-1", "1000")
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("600", salesAllocation(inv.InvoiceID, "600")), testUserID)
	s.Require().NoError(err)
	s.assertMoney("400", s.ledger.counterparty(s.customer).OutstandingBalance)

	err = s.svc.DeleteTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID, testUserID)

	s.Require().NoError(err)
	s.assertMoney("1000", s.ledger.balance(s.bank))
	s.assertMoney("1000", s.ledger.counterparty(s.customer).OutstandingBalance)
	restored := s.ledger.invoice(domain.SalesInvoice, inv.InvoiceID)
	s.Equal(domain.StatusUnpaid, restored.Status)
	s.assertMoney("0", restored.PaidAmount)
	s.True(s.ledger.transactions[res.Transaction.TransactionID].IsVoid())
	s.Empty(s.ledger.activeAllocations(res.Transaction.TransactionID))
}

func (s *ReconciliationServiceTestSuite) TestDeleteTransaction_ReversesCredit() {
	inv := s.createSalesInvoice("INV-1", "100")
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("150", salesAllocation(inv.InvoiceID, "150")), testUserID)
	s.Require().NoError(err)

	err = s.svc.DeleteTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID, testUserID)

	s.Require().NoError(err)
	cp := s.ledger.counterparty(s.customer)
	s.assertMoney("0", cp.CreditBalance)
	s.assertMoney("100", cp.OutstandingBalance)
	s.assertMoney("1000", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestDeleteTransaction_Twice() {
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("100"), testUserID)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.DeleteTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID, testUserID))

	err = s.svc.DeleteTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID, testUserID)

	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.Equal(apperrors.KindConflict, apperrors.Kind(err))
	s.assertMoney("1000", s.ledger.balance(s.bank))
}

func (s *ReconciliationServiceTestSuite) TestDeleteTransaction_VoidFailureKeepsEverything() {
	inv := s.createSalesInvoice("INV-1", "1000")
	res, err := s.svc.RecordPayment(s.ctx, testWorkplaceID, s.customerPayment("600", salesAllocation(inv.InvoiceID, "600")), testUserID)
	s.Require().NoError(err)
	s.ledger.failOn["VoidTransactionInTx"] = errors.New("disk full")

	err = s.svc.DeleteTransaction(s.ctx, testWorkplaceID, res.Transaction.TransactionID, testUserID)

	s.Equal("void transaction", apperrors.StepOf(err))
	s.assertMoney("1600", s.ledger.balance(s.bank))
	s.assertMoney("400", s.ledger.counterparty(s.customer).OutstandingBalance)
	s.Len(s.ledger.activeAllocations(res.Transaction.TransactionID), 1)
}

func decimalPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}
