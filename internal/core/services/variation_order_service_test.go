package services_test

import (
	"context"
	"strings"
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
)

// --- Mock VariationOrderRepository ---
type MockVariationOrderRepository struct {
	mock.Mock
}

func (m *MockVariationOrderRepository) FindVariationOrderByID(ctx context.Context, orderID string) (*domain.VariationOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VariationOrder), args.Error(1)
}

func (m *MockVariationOrderRepository) ListVariationOrdersByJobID(ctx context.Context, jobID string) ([]domain.VariationOrder, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VariationOrder), args.Error(1)
}

func (m *MockVariationOrderRepository) SaveVariationOrder(ctx context.Context, order domain.VariationOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockVariationOrderRepository) TransitionStatus(ctx context.Context, orderID string, to domain.VariationOrderStatus, actorID string, reason string, now time.Time) (*domain.VariationOrder, error) {
	args := m.Called(ctx, orderID, to, actorID, reason, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VariationOrder), args.Error(1)
}

func (m *MockVariationOrderRepository) UpdateVariationOrder(ctx context.Context, order domain.VariationOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockVariationOrderRepository) DeleteVariationOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// --- Test Suite ---
type VariationOrderServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockVariationOrderRepository
	mockFinRepo *MockFinancialRepository
	service     portssvc.VariationOrderSvcFacade
}

func (suite *VariationOrderServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockVariationOrderRepository)
	suite.mockFinRepo = new(MockFinancialRepository)
	suite.service = services.NewVariationOrderService(suite.mockRepo, suite.mockFinRepo)
}

// --- Create ---

func (suite *VariationOrderServiceTestSuite) TestCreateVariationOrder_Success() {
	ctx := context.Background()
	jobID := "job-1"
	userID := "user-1"
	req := dto.CreateVariationOrderRequest{
		Description: "Additional distribution board",
		Value:       decimal.NewFromInt(5000),
	}

	suite.mockFinRepo.On("FindFinancialByJobID", ctx, jobID).Return(newTestFinancial(jobID), nil).Once()
	suite.mockRepo.On("SaveVariationOrder", ctx, mock.MatchedBy(func(o domain.VariationOrder) bool {
		return o.JobID == jobID &&
			o.Description == req.Description &&
			o.Value.Equal(req.Value) &&
			o.Status == domain.VariationPending &&
			o.CreatedBy == userID &&
			o.OrderID != ""
	})).Return(nil).Once()

	order, err := suite.service.CreateVariationOrder(ctx, jobID, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(order)
	suite.Equal(domain.VariationPending, order.Status)
	suite.Empty(order.ApprovedBy)
	suite.Nil(order.ApprovedAt)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockFinRepo.AssertExpectations(suite.T())
}

func (suite *VariationOrderServiceTestSuite) TestCreateVariationOrder_EmptyDescription() {
	ctx := context.Background()
	req := dto.CreateVariationOrderRequest{Description: "   "}

	order, err := suite.service.CreateVariationOrder(ctx, "job-1", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVariationOrder", mock.Anything, mock.Anything)
}

func (suite *VariationOrderServiceTestSuite) TestCreateVariationOrder_JobNotFound() {
	ctx := context.Background()
	req := dto.CreateVariationOrderRequest{Description: "Extra"}

	suite.mockFinRepo.On("FindFinancialByJobID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	order, err := suite.service.CreateVariationOrder(ctx, "missing", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVariationOrder", mock.Anything, mock.Anything)
}

// --- Approve / Reject ---

func (suite *VariationOrderServiceTestSuite) TestApproveVariationOrder_Success() {
	ctx := context.Background()
	orderID := "vo-1"
	userID := "approver-1"
	now := time.Now()
	approved := &domain.VariationOrder{
		OrderID:    orderID,
		JobID:      "job-1",
		Value:      decimal.NewFromInt(5000),
		Status:     domain.VariationApproved,
		ApprovedBy: userID,
		ApprovedAt: &now,
	}

	suite.mockRepo.On("TransitionStatus", ctx, orderID, domain.VariationApproved, userID, "", mock.AnythingOfType("time.Time")).Return(approved, nil).Once()

	order, err := suite.service.ApproveVariationOrder(ctx, orderID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.VariationApproved, order.Status)
	suite.Equal(userID, order.ApprovedBy)
	suite.NotNil(order.ApprovedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VariationOrderServiceTestSuite) TestApproveVariationOrder_AlreadyClosed() {
	ctx := context.Background()
	orderID := "vo-1"

	suite.mockRepo.On("TransitionStatus", ctx, orderID, domain.VariationApproved, "user-1", "", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrConflict).Once()

	order, err := suite.service.ApproveVariationOrder(ctx, orderID, "user-1")

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VariationOrderServiceTestSuite) TestRejectVariationOrder_RequiresReason() {
	ctx := context.Background()

	order, err := suite.service.RejectVariationOrder(ctx, "vo-1", dto.RejectVariationOrderRequest{Reason: " "}, "user-1")

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VariationOrderServiceTestSuite) TestRejectVariationOrder_Success() {
	ctx := context.Background()
	orderID := "vo-1"
	userID := "user-1"
	reason := "out of scope"
	rejected := &domain.VariationOrder{
		OrderID: orderID,
		JobID:   "job-1",
		Status:  domain.VariationRejected,
		Notes:   "Rejected: out of scope",
	}

	suite.mockRepo.On("TransitionStatus", ctx, orderID, domain.VariationRejected, userID, reason, mock.AnythingOfType("time.Time")).Return(rejected, nil).Once()

	order, err := suite.service.RejectVariationOrder(ctx, orderID, dto.RejectVariationOrderRequest{Reason: reason}, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.VariationRejected, order.Status)
	suite.Contains(order.Notes, reason)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VariationOrderServiceTestSuite) TestRejectVariationOrder_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("TransitionStatus", ctx, "missing", domain.VariationRejected, "user-1", "nope", mock.AnythingOfType("time.Time")).Return(nil, apperrors.ErrNotFound).Once()

	order, err := suite.service.RejectVariationOrder(ctx, "missing", dto.RejectVariationOrderRequest{Reason: "nope"}, "user-1")

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Update ---

func (suite *VariationOrderServiceTestSuite) TestUpdateVariationOrder_Success() {
	ctx := context.Background()
	orderID := "vo-1"
	existing := &domain.VariationOrder{
		OrderID:     orderID,
		JobID:       "job-1",
		Description: "Initial scope",
		Value:       decimal.NewFromInt(1000),
		Status:      domain.VariationPending,
	}
	newValue := decimal.NewFromInt(1500)
	newDesc := "Revised scope"
	req := dto.UpdateVariationOrderRequest{Description: &newDesc, Value: &newValue}

	suite.mockRepo.On("FindVariationOrderByID", ctx, orderID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateVariationOrder", ctx, mock.MatchedBy(func(o domain.VariationOrder) bool {
		return o.OrderID == orderID &&
			o.Description == newDesc &&
			o.Value.Equal(newValue) &&
			o.Status == domain.VariationPending
	})).Return(nil).Once()

	order, err := suite.service.UpdateVariationOrder(ctx, orderID, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(newDesc, order.Description)
	suite.True(order.Value.Equal(newValue))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VariationOrderServiceTestSuite) TestUpdateVariationOrder_ValueChangeOnClosedOrder() {
	ctx := context.Background()
	orderID := "vo-1"
	existing := &domain.VariationOrder{
		OrderID: orderID,
		JobID:   "job-1",
		Value:   decimal.NewFromInt(5000),
		Status:  domain.VariationApproved,
	}
	newValue := decimal.NewFromInt(6000)

	suite.mockRepo.On("FindVariationOrderByID", ctx, orderID).Return(existing, nil).Once()

	order, err := suite.service.UpdateVariationOrder(ctx, orderID, dto.UpdateVariationOrderRequest{Value: &newValue}, "user-1")

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateVariationOrder", mock.Anything, mock.Anything)
}

func (suite *VariationOrderServiceTestSuite) TestUpdateVariationOrder_NotesOnClosedOrder() {
	ctx := context.Background()
	orderID := "vo-1"
	existing := &domain.VariationOrder{
		OrderID: orderID,
		JobID:   "job-1",
		Value:   decimal.NewFromInt(5000),
		Status:  domain.VariationRejected,
	}
	notes := "client follow-up logged"

	suite.mockRepo.On("FindVariationOrderByID", ctx, orderID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateVariationOrder", ctx, mock.MatchedBy(func(o domain.VariationOrder) bool {
		return o.Notes == notes && o.Value.Equal(decimal.NewFromInt(5000))
	})).Return(nil).Once()

	order, err := suite.service.UpdateVariationOrder(ctx, orderID, dto.UpdateVariationOrderRequest{Notes: &notes}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(notes, order.Notes)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VariationOrderServiceTestSuite) TestUpdateVariationOrder_ConcurrentStatusChange() {
	ctx := context.Background()
	orderID := "vo-1"
	existing := &domain.VariationOrder{
		OrderID: orderID,
		JobID:   "job-1",
		Status:  domain.VariationPending,
	}
	newValue := decimal.NewFromInt(700)

	suite.mockRepo.On("FindVariationOrderByID", ctx, orderID).Return(existing, nil).Once()
	// The order was approved between the read and the write; the optimistic
	// guard in the repository reports a conflict.
	suite.mockRepo.On("UpdateVariationOrder", ctx, mock.AnythingOfType("domain.VariationOrder")).Return(apperrors.ErrConflict).Once()

	order, err := suite.service.UpdateVariationOrder(ctx, orderID, dto.UpdateVariationOrderRequest{Value: &newValue}, "user-1")

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Amend ---

func (suite *VariationOrderServiceTestSuite) TestAmendVariationOrderValue_Success() {
	ctx := context.Background()
	orderID := "vo-1"
	userID := "user-1"
	existing := &domain.VariationOrder{
		OrderID: orderID,
		JobID:   "job-1",
		Value:   decimal.NewFromInt(5000),
		Status:  domain.VariationApproved,
		Notes:   "original note",
	}
	req := dto.AmendVariationOrderRequest{
		Value:  decimal.NewFromInt(6200),
		Reason: "steel price increase",
	}

	suite.mockRepo.On("FindVariationOrderByID", ctx, orderID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateVariationOrder", ctx, mock.MatchedBy(func(o domain.VariationOrder) bool {
		return o.Value.Equal(req.Value) &&
			strings.HasPrefix(o.Notes, "Amended: value 5000 -> 6200 (steel price increase)") &&
			strings.Contains(o.Notes, "original note") &&
			o.Status == domain.VariationApproved
	})).Return(nil).Once()

	order, err := suite.service.AmendVariationOrderValue(ctx, orderID, req, userID)

	suite.Require().NoError(err)
	suite.True(order.Value.Equal(req.Value))
	suite.Contains(order.Notes, "Amended: value")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VariationOrderServiceTestSuite) TestAmendVariationOrderValue_NotApproved() {
	ctx := context.Background()
	orderID := "vo-1"

	for _, status := range []domain.VariationOrderStatus{domain.VariationPending, domain.VariationRejected} {
		existing := &domain.VariationOrder{
			OrderID: orderID,
			JobID:   "job-1",
			Value:   decimal.NewFromInt(5000),
			Status:  status,
		}
		req := dto.AmendVariationOrderRequest{Value: decimal.NewFromInt(100), Reason: "r"}

		suite.mockRepo.On("FindVariationOrderByID", ctx, orderID).Return(existing, nil).Once()

		order, err := suite.service.AmendVariationOrderValue(ctx, orderID, req, "user-1")

		suite.Require().Error(err)
		suite.Nil(order)
		suite.ErrorIs(err, apperrors.ErrConflict)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateVariationOrder", mock.Anything, mock.Anything)
}

func (suite *VariationOrderServiceTestSuite) TestAmendVariationOrderValue_RequiresReason() {
	ctx := context.Background()
	req := dto.AmendVariationOrderRequest{Value: decimal.NewFromInt(100)}

	order, err := suite.service.AmendVariationOrderValue(ctx, "vo-1", req, "user-1")

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindVariationOrderByID", mock.Anything, mock.Anything)
}

// --- Delete ---

func (suite *VariationOrderServiceTestSuite) TestDeleteVariationOrder_Success() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteVariationOrder", ctx, "vo-1").Return(nil).Once()

	err := suite.service.DeleteVariationOrder(ctx, "vo-1", "user-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VariationOrderServiceTestSuite) TestDeleteVariationOrder_PendingConflict() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteVariationOrder", ctx, "vo-1").Return(apperrors.ErrConflict).Once()

	err := suite.service.DeleteVariationOrder(ctx, "vo-1", "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Reads ---

func (suite *VariationOrderServiceTestSuite) TestListVariationOrders_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("ListVariationOrdersByJobID", ctx, "job-1").Return(nil, expectedErr).Once()

	orders, err := suite.service.ListVariationOrders(ctx, "job-1")

	suite.Require().Error(err)
	suite.Nil(orders)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestVariationOrderService(t *testing.T) {
	suite.Run(t, new(VariationOrderServiceTestSuite))
}
