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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAccountRepository
	authorizer *MockWorkplaceAuthorizer
	service    portssvc.AccountSvcFacade
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.authorizer = new(MockWorkplaceAuthorizer)
	suite.service = services.NewAccountService(suite.mockRepo, services.WithWorkplaceAuthorizer(suite.authorizer))
}

func (suite *AccountServiceTestSuite) allow(role domain.UserWorkplaceRole) {
	suite.authorizer.On("AuthorizeUserAction", mock.Anything, testUserID, testWorkplaceID, role).Return(nil)
}

func (suite *AccountServiceTestSuite) TestCreateBankAccount_Success() {
	ctx := context.Background()
	suite.allow(domain.RoleMember)
	req := dto.CreateBankAccountRequest{
		BankName:       "First Bank",
		AccountNumber:  "0001",
		AccountName:    "Operating",
		AccountType:    domain.Checking,
		OpeningBalance: money("2500"),
	}
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateBankAccount(ctx, testWorkplaceID, req, testUserID)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal(domain.BankAccount, account.Kind)
	suite.Equal("Operating", account.Name)
	suite.True(money("2500").Equal(account.Balance))
	suite.True(account.IsActive)
	suite.Equal(testUserID, account.CreatedBy)
	suite.WithinDuration(time.Now(), account.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateCashDrawer_SaveError() {
	ctx := context.Background()
	suite.allow(domain.RoleMember)
	expectedErr := errors.New("database error")
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(expectedErr).Once()

	account, err := suite.service.CreateCashDrawer(ctx, testWorkplaceID, dto.CreateCashDrawerRequest{Name: "Till 1"}, testUserID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, expectedErr)
}

func (suite *AccountServiceTestSuite) TestCreate_Forbidden() {
	suite.authorizer.On("AuthorizeUserAction", mock.Anything, testUserID, testWorkplaceID, domain.RoleMember).Return(apperrors.ErrForbidden)

	_, err := suite.service.CreateCashDrawer(context.Background(), testWorkplaceID, dto.CreateCashDrawerRequest{Name: "Till 1"}, testUserID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotFound() {
	ctx := context.Background()
	suite.allow(domain.RoleReadOnly)
	ref := domain.AccountRef{Kind: domain.BankAccount, ID: "nope"}
	suite.mockRepo.On("FindAccountByID", ctx, testWorkplaceID, ref).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccount(ctx, testWorkplaceID, ref, testUserID)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_AppliesKindFields() {
	ctx := context.Background()
	suite.allow(domain.RoleMember)
	ref := domain.AccountRef{Kind: domain.CashDrawer, ID: "drawer-1"}
	suite.mockRepo.On("FindAccountByID", ctx, testWorkplaceID, ref).
		Return(&domain.Account{AccountID: "drawer-1", Kind: domain.CashDrawer, Name: "Till", Balance: money("40")}, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	counted := time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)
	account, err := suite.service.UpdateAccount(ctx, testWorkplaceID, ref, dto.UpdateAccountRequest{
		Location:      strPtr("Back office"),
		BankName:      strPtr("ignored for drawers"),
		LastCountedAt: &counted,
	}, testUserID)

	suite.Require().NoError(err)
	suite.Equal("Back office", account.Location)
	suite.Empty(account.BankName)
	suite.Equal(counted, *account.LastCountedAt)
	suite.True(money("40").Equal(account.Balance))
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_EmptyName() {
	ctx := context.Background()
	suite.allow(domain.RoleMember)
	ref := domain.AccountRef{Kind: domain.BankAccount, ID: "bank-1"}
	suite.mockRepo.On("FindAccountByID", ctx, testWorkplaceID, ref).
		Return(&domain.Account{AccountID: "bank-1", Kind: domain.BankAccount, Name: "Operating"}, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, testWorkplaceID, ref, dto.UpdateAccountRequest{Name: strPtr("")}, testUserID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts_NilBecomesEmpty() {
	ctx := context.Background()
	suite.allow(domain.RoleReadOnly)
	suite.mockRepo.On("ListAccounts", ctx, testWorkplaceID, domain.BankAccount, 20, 0).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, testWorkplaceID, domain.BankAccount, 20, 0, testUserID)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}
