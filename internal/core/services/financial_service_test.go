package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/voltcraft/jobledger/internal/apperrors"
	"github.com/voltcraft/jobledger/internal/core/domain"
	portssvc "github.com/voltcraft/jobledger/internal/core/ports/services"
	"github.com/voltcraft/jobledger/internal/core/services"
	"github.com/voltcraft/jobledger/internal/dto"
	"github.com/voltcraft/jobledger/internal/utils/finance"
)

// --- Mock FinancialRepository ---
type MockFinancialRepository struct {
	mock.Mock
}

func (m *MockFinancialRepository) FindFinancialByJobID(ctx context.Context, jobID string) (*domain.JobFinancial, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobFinancial), args.Error(1)
}

func (m *MockFinancialRepository) ListCostEntries(ctx context.Context, jobID string, limit int, offset int) ([]domain.CostEntry, error) {
	args := m.Called(ctx, jobID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostEntry), args.Error(1)
}

func (m *MockFinancialRepository) ReplaceBudget(ctx context.Context, jobID string, budget domain.JobFinancial, userID string, now time.Time) (*domain.JobFinancial, error) {
	args := m.Called(ctx, jobID, budget, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobFinancial), args.Error(1)
}

func (m *MockFinancialRepository) ApplyCostEntry(ctx context.Context, entry domain.CostEntry) (*domain.JobFinancial, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobFinancial), args.Error(1)
}

func (m *MockFinancialRepository) AddInvoiced(ctx context.Context, jobID string, amount decimal.Decimal, userID string, now time.Time) (*domain.JobFinancial, error) {
	args := m.Called(ctx, jobID, amount, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobFinancial), args.Error(1)
}

func (m *MockFinancialRepository) AddPayment(ctx context.Context, jobID string, amount decimal.Decimal, userID string, now time.Time) (*domain.JobFinancial, error) {
	args := m.Called(ctx, jobID, amount, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobFinancial), args.Error(1)
}

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType string, jobID string, actorID string, payload map[string]any) {
	m.Called(ctx, eventType, jobID, actorID, payload)
}

// --- Test Suite ---
type FinancialServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockFinancialRepository
	mockOrderRepo *MockVariationOrderRepository
	service       portssvc.FinancialSvcFacade
}

func (suite *FinancialServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockFinancialRepository)
	suite.mockOrderRepo = new(MockVariationOrderRepository)
	suite.service = services.NewFinancialService(suite.mockRepo, suite.mockOrderRepo)
}

func newTestFinancial(jobID string) *domain.JobFinancial {
	return &domain.JobFinancial{
		JobID:           jobID,
		BudgetLabour:    decimal.NewFromInt(8000),
		BudgetMaterials: decimal.NewFromInt(6500),
		BudgetEquipment: decimal.NewFromInt(1200),
		BudgetOverheads: decimal.NewFromInt(1800),
		BudgetProfit:    decimal.NewFromInt(3500),
		ActualLabour:    decimal.Zero,
		ActualMaterials: decimal.Zero,
		ActualEquipment: decimal.Zero,
		ActualOverheads: decimal.Zero,
		Invoiced:        decimal.Zero,
		Paid:            decimal.Zero,
	}
}

// --- GetFinancial ---

func (suite *FinancialServiceTestSuite) TestGetFinancial_Success() {
	ctx := context.Background()
	jobID := "job-1"
	financial := newTestFinancial(jobID)
	orders := []domain.VariationOrder{
		{OrderID: "vo-1", JobID: jobID, Value: decimal.NewFromInt(5000), Status: domain.VariationApproved},
		{OrderID: "vo-2", JobID: jobID, Value: decimal.NewFromInt(900), Status: domain.VariationPending},
	}

	suite.mockRepo.On("FindFinancialByJobID", ctx, jobID).Return(financial, nil).Once()
	suite.mockOrderRepo.On("ListVariationOrdersByJobID", ctx, jobID).Return(orders, nil).Once()

	resp, err := suite.service.GetFinancial(ctx, jobID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	// 21000 base budget plus the approved order only; the pending one must
	// not contribute.
	suite.True(resp.Summary.BudgetTotal.Equal(decimal.NewFromInt(26000)),
		"budget total was %s", resp.Summary.BudgetTotal)
	suite.Require().NotNil(resp.Summary.Margin)
	suite.True(resp.Summary.Margin.Equal(decimal.NewFromInt(100)))
	suite.Equal(jobID, resp.JobID)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *FinancialServiceTestSuite) TestGetFinancial_NotFound() {
	ctx := context.Background()
	jobID := "missing"

	suite.mockRepo.On("FindFinancialByJobID", ctx, jobID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.GetFinancial(ctx, jobID)

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- UpdateBudget ---

func (suite *FinancialServiceTestSuite) TestUpdateBudget_NegativeComponentRejected() {
	ctx := context.Background()
	req := dto.UpdateBudgetRequest{
		Labour:    decimal.NewFromInt(-1),
		Materials: decimal.Zero,
		Equipment: decimal.Zero,
		Overheads: decimal.Zero,
		Profit:    decimal.Zero,
	}

	resp, err := suite.service.UpdateBudget(ctx, "job-1", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ReplaceBudget", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinancialServiceTestSuite) TestUpdateBudget_AdvisoryWhenActualsExist() {
	ctx := context.Background()
	jobID := "job-1"
	userID := "user-1"
	req := dto.UpdateBudgetRequest{
		Labour:    decimal.NewFromInt(9000),
		Materials: decimal.NewFromInt(6500),
		Equipment: decimal.NewFromInt(1200),
		Overheads: decimal.NewFromInt(1800),
		Profit:    decimal.NewFromInt(3500),
	}
	updated := newTestFinancial(jobID)
	updated.BudgetLabour = decimal.NewFromInt(9000)
	updated.ActualMaterials = decimal.NewFromInt(1250)

	suite.mockRepo.On("ReplaceBudget", ctx, jobID, mock.MatchedBy(func(b domain.JobFinancial) bool {
		return b.BudgetLabour.Equal(req.Labour) && b.BudgetProfit.Equal(req.Profit)
	}), userID, mock.AnythingOfType("time.Time")).Return(updated, nil).Once()
	suite.mockOrderRepo.On("ListVariationOrdersByJobID", ctx, jobID).Return([]domain.VariationOrder{}, nil).Once()

	resp, err := suite.service.UpdateBudget(ctx, jobID, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.True(resp.ActualsRecorded)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FinancialServiceTestSuite) TestUpdateBudget_NoAdvisoryWithoutActuals() {
	ctx := context.Background()
	jobID := "job-1"
	req := dto.UpdateBudgetRequest{
		Labour:    decimal.NewFromInt(9000),
		Materials: decimal.Zero,
		Equipment: decimal.Zero,
		Overheads: decimal.Zero,
		Profit:    decimal.Zero,
	}
	updated := newTestFinancial(jobID)

	suite.mockRepo.On("ReplaceBudget", ctx, jobID, mock.AnythingOfType("domain.JobFinancial"), "user-1", mock.AnythingOfType("time.Time")).Return(updated, nil).Once()
	suite.mockOrderRepo.On("ListVariationOrdersByJobID", ctx, jobID).Return([]domain.VariationOrder{}, nil).Once()

	resp, err := suite.service.UpdateBudget(ctx, jobID, req, "user-1")

	suite.Require().NoError(err)
	suite.False(resp.ActualsRecorded)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FinancialServiceTestSuite) TestUpdateBudget_PublishesEvent() {
	ctx := context.Background()
	jobID := "job-1"
	userID := "user-1"
	publisher := new(MockEventPublisher)
	service := services.NewFinancialService(suite.mockRepo, suite.mockOrderRepo,
		services.WithFinancialEventPublisher(publisher))
	req := dto.UpdateBudgetRequest{
		Labour:    decimal.NewFromInt(100),
		Materials: decimal.Zero,
		Equipment: decimal.Zero,
		Overheads: decimal.Zero,
		Profit:    decimal.Zero,
	}
	updated := newTestFinancial(jobID)

	suite.mockRepo.On("ReplaceBudget", ctx, jobID, mock.AnythingOfType("domain.JobFinancial"), userID, mock.AnythingOfType("time.Time")).Return(updated, nil).Once()
	suite.mockOrderRepo.On("ListVariationOrdersByJobID", ctx, jobID).Return([]domain.VariationOrder{}, nil).Once()
	publisher.On("Publish", ctx, "budget_updated", jobID, userID, mock.Anything).Once()

	_, err := service.UpdateBudget(ctx, jobID, req, userID)

	suite.Require().NoError(err)
	publisher.AssertExpectations(suite.T())
}

// --- RecordCost ---

func (suite *FinancialServiceTestSuite) TestRecordCost_UnknownCategory() {
	ctx := context.Background()
	req := dto.RecordCostRequest{
		Category: domain.CostCategory("PROFIT"),
		Amount:   decimal.NewFromInt(100),
		Date:     "2026-03-01",
	}

	resp, err := suite.service.RecordCost(ctx, "job-1", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyCostEntry", mock.Anything, mock.Anything)
}

func (suite *FinancialServiceTestSuite) TestRecordCost_NonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		req := dto.RecordCostRequest{
			Category: domain.CostMaterials,
			Amount:   amount,
			Date:     "2026-03-01",
		}

		resp, err := suite.service.RecordCost(ctx, "job-1", req, "user-1")

		suite.Require().Error(err)
		suite.Nil(resp)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyCostEntry", mock.Anything, mock.Anything)
}

func (suite *FinancialServiceTestSuite) TestRecordCost_InvalidDate() {
	ctx := context.Background()
	req := dto.RecordCostRequest{
		Category: domain.CostLabour,
		Amount:   decimal.NewFromInt(100),
		Date:     "01/03/2026",
	}

	resp, err := suite.service.RecordCost(ctx, "job-1", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyCostEntry", mock.Anything, mock.Anything)
}

func (suite *FinancialServiceTestSuite) TestRecordCost_Success() {
	ctx := context.Background()
	jobID := "job-1"
	userID := "user-1"
	req := dto.RecordCostRequest{
		Category: domain.CostMaterials,
		Amount:   decimal.NewFromInt(1250),
		Date:     "2026-03-01",
		Notes:    "cable drums",
	}
	updated := newTestFinancial(jobID)
	updated.ActualMaterials = decimal.NewFromInt(1250)

	suite.mockRepo.On("ApplyCostEntry", ctx, mock.MatchedBy(func(e domain.CostEntry) bool {
		return e.JobID == jobID &&
			e.Category == domain.CostMaterials &&
			e.Amount.Equal(req.Amount) &&
			e.EntryDate.Format("2006-01-02") == req.Date &&
			e.Notes == req.Notes &&
			e.CreatedBy == userID &&
			e.EntryID != ""
	})).Return(updated, nil).Once()
	suite.mockOrderRepo.On("ListVariationOrdersByJobID", ctx, jobID).Return([]domain.VariationOrder{}, nil).Once()

	resp, err := suite.service.RecordCost(ctx, jobID, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.True(resp.ActualMaterials.Equal(decimal.NewFromInt(1250)))
	suite.True(resp.Summary.ActualTotal.Equal(decimal.NewFromInt(1250)))
	suite.Equal(finance.StatusOnBudget, resp.Summary.Status)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *FinancialServiceTestSuite) TestRecordCost_UnknownJob() {
	ctx := context.Background()
	req := dto.RecordCostRequest{
		Category: domain.CostLabour,
		Amount:   decimal.NewFromInt(100),
		Date:     "2026-03-01",
	}

	suite.mockRepo.On("ApplyCostEntry", ctx, mock.AnythingOfType("domain.CostEntry")).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := suite.service.RecordCost(ctx, "missing", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- RecordInvoiced / RecordPayment ---

func (suite *FinancialServiceTestSuite) TestRecordInvoiced_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.RecordAmountRequest{Amount: decimal.Zero}

	resp, err := suite.service.RecordInvoiced(ctx, "job-1", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "AddInvoiced", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinancialServiceTestSuite) TestRecordInvoiced_Success() {
	ctx := context.Background()
	jobID := "job-1"
	amount := decimal.NewFromInt(12000)
	updated := newTestFinancial(jobID)
	updated.Invoiced = amount

	suite.mockRepo.On("AddInvoiced", ctx, jobID, amount, "user-1", mock.AnythingOfType("time.Time")).Return(updated, nil).Once()
	suite.mockOrderRepo.On("ListVariationOrdersByJobID", ctx, jobID).Return([]domain.VariationOrder{}, nil).Once()

	resp, err := suite.service.RecordInvoiced(ctx, jobID, dto.RecordAmountRequest{Amount: amount}, "user-1")

	suite.Require().NoError(err)
	suite.True(resp.Invoiced.Equal(amount))
	suite.True(resp.Summary.Outstanding.Equal(amount))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FinancialServiceTestSuite) TestRecordPayment_ExceedsInvoiced() {
	ctx := context.Background()
	jobID := "job-1"
	amount := decimal.NewFromInt(99999)

	suite.mockRepo.On("AddPayment", ctx, jobID, amount, "user-1", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrValidation).Once()

	resp, err := suite.service.RecordPayment(ctx, jobID, dto.RecordAmountRequest{Amount: amount}, "user-1")

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FinancialServiceTestSuite) TestRecordPayment_Success() {
	ctx := context.Background()
	jobID := "job-1"
	amount := decimal.NewFromInt(5000)
	updated := newTestFinancial(jobID)
	updated.Invoiced = decimal.NewFromInt(12000)
	updated.Paid = amount

	suite.mockRepo.On("AddPayment", ctx, jobID, amount, "user-1", mock.AnythingOfType("time.Time")).Return(updated, nil).Once()
	suite.mockOrderRepo.On("ListVariationOrdersByJobID", ctx, jobID).Return([]domain.VariationOrder{}, nil).Once()

	resp, err := suite.service.RecordPayment(ctx, jobID, dto.RecordAmountRequest{Amount: amount}, "user-1")

	suite.Require().NoError(err)
	suite.True(resp.Paid.Equal(amount))
	suite.True(resp.Summary.Outstanding.Equal(decimal.NewFromInt(7000)))
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- ListCostEntries ---

func (suite *FinancialServiceTestSuite) TestListCostEntries_UnknownJob() {
	ctx := context.Background()

	suite.mockRepo.On("FindFinancialByJobID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	entries, err := suite.service.ListCostEntries(ctx, "missing", 50, 0)

	suite.Require().Error(err)
	suite.Nil(entries)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListCostEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FinancialServiceTestSuite) TestListCostEntries_ClampsPagination() {
	ctx := context.Background()
	jobID := "job-1"
	expected := []domain.CostEntry{{EntryID: "e-1", JobID: jobID}}

	suite.mockRepo.On("FindFinancialByJobID", ctx, jobID).Return(newTestFinancial(jobID), nil).Once()
	suite.mockRepo.On("ListCostEntries", ctx, jobID, 50, 0).Return(expected, nil).Once()

	entries, err := suite.service.ListCostEntries(ctx, jobID, 0, -5)

	suite.Require().NoError(err)
	suite.Equal(expected, entries)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FinancialServiceTestSuite) TestListCostEntries_RepoError() {
	ctx := context.Background()
	jobID := "job-1"
	expectedErr := assert.AnError

	suite.mockRepo.On("FindFinancialByJobID", ctx, jobID).Return(newTestFinancial(jobID), nil).Once()
	suite.mockRepo.On("ListCostEntries", ctx, jobID, 25, 0).Return(nil, expectedErr).Once()

	entries, err := suite.service.ListCostEntries(ctx, jobID, 25, 0)

	suite.Require().Error(err)
	suite.Nil(entries)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestFinancialService(t *testing.T) {
	suite.Run(t, new(FinancialServiceTestSuite))
}
