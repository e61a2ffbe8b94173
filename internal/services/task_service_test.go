package services

import (
	"context"
	"testing"

	"moldmes/internal/common"
	"moldmes/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type TaskServiceTestSuite struct {
	suite.Suite
	repos     *mockRepos
	tx        *fakeTransactor
	service   TaskService
	ctx       context.Context
	moldID    uuid.UUID
	productID uuid.UUID
}

func (suite *TaskServiceTestSuite) SetupTest() {
	repos, bound := newMockRepos()
	suite.repos = repos
	suite.tx = &fakeTransactor{repos: bound}
	suite.service = NewTaskService(suite.tx, bound, zap.NewNop())
	suite.ctx = context.Background()
	suite.moldID = uuid.New()
	suite.productID = uuid.New()
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	suite.repos.AssertExpectations(suite.T())
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (suite *TaskServiceTestSuite) idleMold() *models.Mold {
	return &models.Mold{ID: suite.moldID, Code: "MD1", Status: models.MoldStatusIdle}
}

func (suite *TaskServiceTestSuite) createRequest() *models.TaskCreate {
	productID := suite.productID
	return &models.TaskCreate{
		TaskNo:       " T1 ",
		MoldID:       suite.moldID,
		ProductID:    &productID,
		OperatorName: "Li",
		TargetQty:    5,
	}
}

func (suite *TaskServiceTestSuite) TestCreate_OccupiesMoldAndExplodesBOM() {
	materialID := uuid.New()
	var createdID uuid.UUID

	suite.repos.Molds.On("GetByIDForUpdate", suite.ctx, suite.moldID).Return(suite.idleMold(), nil).Once()
	suite.repos.Products.On("GetByID", suite.ctx, suite.productID).Return(&models.Product{ID: suite.productID, Code: "P1"}, nil).Once()
	suite.repos.Tasks.On("Create", suite.ctx, mock.MatchedBy(func(t *models.Task) bool {
		createdID = t.ID
		return t.TaskNo == "T1" && t.Status == models.TaskStatusInProgress && t.DoneQty == 0 && t.TargetQty == 5
	})).Return(nil).Once()
	suite.repos.Molds.On("Occupy", suite.ctx, suite.moldID).Return(true, nil).Once()
	suite.repos.BOM.On("ListByProduct", suite.ctx, suite.productID).
		Return([]*models.BOMItem{{ProductID: suite.productID, MaterialID: materialID, MaterialCode: "M1", QtyPerUnit: 2}}, nil).Once()
	suite.repos.Requirements.On("Upsert", suite.ctx, mock.MatchedBy(func(r *models.TaskMaterialRequirement) bool {
		return r.TaskID == createdID && r.MaterialID == materialID && r.RequiredQty == 10 && r.IssuedQty == 0
	})).Return(true, nil).Once()
	suite.repos.Tasks.On("GetByID", suite.ctx, mock.AnythingOfType("uuid.UUID")).
		Return(&models.Task{TaskNo: "T1", MoldID: suite.moldID, TargetQty: 5, Status: models.TaskStatusInProgress}, nil).Once()

	task, err := suite.service.Create(suite.ctx, suite.createRequest())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "T1", task.TaskNo)
	assert.Equal(suite.T(), models.TaskStatusInProgress, task.Status)
	assert.Equal(suite.T(), 1, suite.tx.calls)
}

func (suite *TaskServiceTestSuite) TestCreate_WithoutProductSkipsExplosion() {
	req := suite.createRequest()
	req.ProductID = nil

	suite.repos.Molds.On("GetByIDForUpdate", suite.ctx, suite.moldID).Return(suite.idleMold(), nil).Once()
	suite.repos.Tasks.On("Create", suite.ctx, mock.Anything).Return(nil).Once()
	suite.repos.Molds.On("Occupy", suite.ctx, suite.moldID).Return(true, nil).Once()
	suite.repos.Tasks.On("GetByID", suite.ctx, mock.Anything).Return(&models.Task{TaskNo: "T1"}, nil).Once()

	_, err := suite.service.Create(suite.ctx, req)
	require.NoError(suite.T(), err)
	suite.repos.BOM.AssertNotCalled(suite.T(), "ListByProduct", mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestCreate_MissingMoldIsConflict() {
	suite.repos.Molds.On("GetByIDForUpdate", suite.ctx, suite.moldID).Return(nil, common.NotFoundf("mold not found")).Once()

	_, err := suite.service.Create(suite.ctx, suite.createRequest())
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
}

func (suite *TaskServiceTestSuite) TestCreate_BusyMoldIsConflict() {
	for _, status := range []models.MoldStatus{models.MoldStatusInUse, models.MoldStatusMaintenance} {
		suite.repos.Molds.On("GetByIDForUpdate", suite.ctx, suite.moldID).
			Return(&models.Mold{ID: suite.moldID, Code: "MD1", Status: status}, nil).Once()

		_, err := suite.service.Create(suite.ctx, suite.createRequest())
		assert.ErrorIs(suite.T(), err, common.ErrConflict)
		assert.Contains(suite.T(), err.Error(), string(status))
	}
	suite.repos.Tasks.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestCreate_LostOccupyRaceIsConflict() {
	suite.repos.Molds.On("GetByIDForUpdate", suite.ctx, suite.moldID).Return(suite.idleMold(), nil).Once()
	suite.repos.Products.On("GetByID", suite.ctx, suite.productID).Return(&models.Product{ID: suite.productID}, nil).Once()
	suite.repos.Tasks.On("Create", suite.ctx, mock.Anything).Return(nil).Once()
	suite.repos.Molds.On("Occupy", suite.ctx, suite.moldID).Return(false, nil).Once()

	_, err := suite.service.Create(suite.ctx, suite.createRequest())
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
}

func (suite *TaskServiceTestSuite) TestCreate_UnknownProduct() {
	suite.repos.Molds.On("GetByIDForUpdate", suite.ctx, suite.moldID).Return(suite.idleMold(), nil).Once()
	suite.repos.Products.On("GetByID", suite.ctx, suite.productID).Return(nil, common.NotFoundf("product not found")).Once()

	_, err := suite.service.Create(suite.ctx, suite.createRequest())
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *TaskServiceTestSuite) TestCreate_Validation() {
	cases := map[string]func(r *models.TaskCreate){
		"empty task_no":  func(r *models.TaskCreate) { r.TaskNo = "  " },
		"nil mold":       func(r *models.TaskCreate) { r.MoldID = uuid.Nil },
		"empty operator": func(r *models.TaskCreate) { r.OperatorName = "" },
		"zero target":    func(r *models.TaskCreate) { r.TargetQty = 0 },
		"negative":       func(r *models.TaskCreate) { r.TargetQty = -1 },
	}
	for name, mutate := range cases {
		req := suite.createRequest()
		mutate(req)
		_, err := suite.service.Create(suite.ctx, req)
		assert.ErrorIs(suite.T(), err, common.ErrValidation, name)
	}
	assert.Zero(suite.T(), suite.tx.calls)
}

func (suite *TaskServiceTestSuite) TestReportProgress_CompletesTaskAndFreesMold() {
	task := &models.Task{ID: uuid.New(), TaskNo: "T1", MoldID: suite.moldID, TargetQty: 5, Status: models.TaskStatusInProgress}

	suite.repos.Tasks.On("GetByTaskNoForUpdate", suite.ctx, "T1").Return(task, nil).Once()
	suite.repos.Tasks.On("UpdateProgress", suite.ctx, mock.MatchedBy(func(t *models.Task) bool {
		return t.DoneQty == 5 && t.Status == models.TaskStatusCompleted
	})).Return(nil).Once()
	suite.repos.Molds.On("AddUsage", suite.ctx, suite.moldID, 5, true).
		Return(&models.Mold{ID: suite.moldID, UsedCount: 5, Status: models.MoldStatusIdle}, nil).Once()
	suite.repos.Reports.On("Create", suite.ctx, mock.MatchedBy(func(r *models.Report) bool {
		return r.TaskID == task.ID && r.Qty == 5
	})).Return(nil).Once()

	result, err := suite.service.ReportProgress(suite.ctx, &models.WorkReport{TaskNo: "T1", Qty: 5})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusCompleted, result.Task.Status)
	assert.Equal(suite.T(), 5, result.Task.DoneQty)
	assert.Equal(suite.T(), models.MoldStatusIdle, result.Mold.Status)
	assert.Equal(suite.T(), 5, result.Mold.UsedCount)
}

func (suite *TaskServiceTestSuite) TestReportProgress_PartialKeepsMoldBusy() {
	task := &models.Task{ID: uuid.New(), TaskNo: "T1", MoldID: suite.moldID, TargetQty: 5, Status: models.TaskStatusInProgress}

	suite.repos.Tasks.On("GetByTaskNoForUpdate", suite.ctx, "T1").Return(task, nil).Once()
	suite.repos.Tasks.On("UpdateProgress", suite.ctx, mock.Anything).Return(nil).Once()
	suite.repos.Molds.On("AddUsage", suite.ctx, suite.moldID, 2, false).
		Return(&models.Mold{ID: suite.moldID, UsedCount: 2, Status: models.MoldStatusInUse}, nil).Once()
	suite.repos.Reports.On("Create", suite.ctx, mock.Anything).Return(nil).Once()

	result, err := suite.service.ReportProgress(suite.ctx, &models.WorkReport{TaskNo: "T1", Qty: 2})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusInProgress, result.Task.Status)
	assert.Equal(suite.T(), 2, result.Task.DoneQty)
}

func (suite *TaskServiceTestSuite) TestReportProgress_OverReportClampsDoneButCountsUsage() {
	task := &models.Task{ID: uuid.New(), TaskNo: "T1", MoldID: suite.moldID, TargetQty: 5, DoneQty: 4, Status: models.TaskStatusInProgress}

	suite.repos.Tasks.On("GetByTaskNoForUpdate", suite.ctx, "T1").Return(task, nil).Once()
	suite.repos.Tasks.On("UpdateProgress", suite.ctx, mock.Anything).Return(nil).Once()
	suite.repos.Molds.On("AddUsage", suite.ctx, suite.moldID, 3, true).Return(&models.Mold{ID: suite.moldID}, nil).Once()
	suite.repos.Reports.On("Create", suite.ctx, mock.Anything).Return(nil).Once()

	result, err := suite.service.ReportProgress(suite.ctx, &models.WorkReport{TaskNo: "T1", Qty: 3})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 5, result.Task.DoneQty)
}

func (suite *TaskServiceTestSuite) TestReportProgress_CompletedTaskIsConflict() {
	task := &models.Task{ID: uuid.New(), TaskNo: "T1", TargetQty: 5, DoneQty: 5, Status: models.TaskStatusCompleted}
	suite.repos.Tasks.On("GetByTaskNoForUpdate", suite.ctx, "T1").Return(task, nil).Once()

	_, err := suite.service.ReportProgress(suite.ctx, &models.WorkReport{TaskNo: "T1", Qty: 1})
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
	suite.repos.Molds.AssertNotCalled(suite.T(), "AddUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestReportProgress_UnknownTask() {
	suite.repos.Tasks.On("GetByTaskNoForUpdate", suite.ctx, "NOPE").Return(nil, common.NotFoundf("task not found")).Once()

	_, err := suite.service.ReportProgress(suite.ctx, &models.WorkReport{TaskNo: "NOPE", Qty: 1})
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *TaskServiceTestSuite) TestReportProgress_RejectsNonPositiveQty() {
	_, err := suite.service.ReportProgress(suite.ctx, &models.WorkReport{TaskNo: "T1", Qty: 0})
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
	assert.Zero(suite.T(), suite.tx.calls)
}

func (suite *TaskServiceTestSuite) TestDelete_InProgressReleasesMold() {
	id := uuid.New()
	suite.repos.Tasks.On("GetByIDForUpdate", suite.ctx, id).
		Return(&models.Task{ID: id, TaskNo: "T1", MoldID: suite.moldID, Status: models.TaskStatusInProgress}, nil).Once()
	suite.repos.Molds.On("Release", suite.ctx, suite.moldID).Return(true, nil).Once()
	suite.repos.Requirements.On("DeleteByTask", suite.ctx, id).Return(int64(2), nil).Once()
	suite.repos.Reports.On("DeleteByTask", suite.ctx, id).Return(int64(0), nil).Once()
	suite.repos.Tasks.On("Delete", suite.ctx, id).Return(nil).Once()

	require.NoError(suite.T(), suite.service.Delete(suite.ctx, id))
}

func (suite *TaskServiceTestSuite) TestDelete_CompletedLeavesMoldAlone() {
	id := uuid.New()
	suite.repos.Tasks.On("GetByIDForUpdate", suite.ctx, id).
		Return(&models.Task{ID: id, TaskNo: "T1", MoldID: suite.moldID, Status: models.TaskStatusCompleted}, nil).Once()
	suite.repos.Requirements.On("DeleteByTask", suite.ctx, id).Return(int64(1), nil).Once()
	suite.repos.Reports.On("DeleteByTask", suite.ctx, id).Return(int64(1), nil).Once()
	suite.repos.Tasks.On("Delete", suite.ctx, id).Return(nil).Once()

	require.NoError(suite.T(), suite.service.Delete(suite.ctx, id))
	suite.repos.Molds.AssertNotCalled(suite.T(), "Release", mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestMaterials_UnknownTask() {
	id := uuid.New()
	suite.repos.Tasks.On("GetByID", suite.ctx, id).Return(nil, common.NotFoundf("task not found")).Once()

	_, err := suite.service.Materials(suite.ctx, id)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}
