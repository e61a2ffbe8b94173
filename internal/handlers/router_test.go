package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"moldmes/internal/common"
	"moldmes/internal/importer"
	"moldmes/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const testMaxImportBytes = 256

type RouterTestSuite struct {
	suite.Suite
	tasks     *MockTaskService
	inventory *MockInventoryService
	importer  *MockTreeImporter
	dbErr     error
	cacheErr  error
	e         *echo.Echo
}

func (s *RouterTestSuite) SetupTest() {
	s.tasks = new(MockTaskService)
	s.inventory = new(MockInventoryService)
	s.importer = new(MockTreeImporter)
	s.dbErr, s.cacheErr = nil, nil

	db := CheckerFunc(func(context.Context) error { return s.dbErr })
	cache := CheckerFunc(func(context.Context) error { return s.cacheErr })

	s.e = NewRouter(&Handlers{
		Molds:     NewMoldHandlers(nil),
		Materials: NewMaterialHandlers(nil),
		Products:  NewProductHandlers(nil, nil),
		Imports:   NewImportHandlers(s.importer, testMaxImportBytes),
		Inventory: NewInventoryHandlers(s.inventory),
		Tasks:     NewTaskHandlers(s.tasks, s.inventory),
		Health:    NewHealthHandlers(db, cache, nil, "test"),
	}, zap.NewNop())
}

func (s *RouterTestSuite) TearDownTest() {
	s.tasks.AssertExpectations(s.T())
	s.inventory.AssertExpectations(s.T())
	s.importer.AssertExpectations(s.T())
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) do(method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) errorBody(rec *httptest.ResponseRecorder) common.ErrorResponse {
	var body common.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func (s *RouterTestSuite) TestIssueMaterial_Success() {
	taskID, materialID := uuid.New(), uuid.New()
	result := &models.IssueResult{
		Inventory:   &models.Inventory{MaterialID: materialID, OnHand: 7},
		Requirement: &models.TaskMaterialRequirement{TaskID: taskID, MaterialID: materialID, RequiredQty: 10, IssuedQty: 3},
	}
	s.inventory.On("Issue", mock.Anything, taskID, mock.MatchedBy(func(req *models.StockIssue) bool {
		return req.MaterialID == materialID && req.Qty == 3
	})).Return(result, nil).Once()

	body := []byte(`{"material_id":"` + materialID.String() + `","qty":3}`)
	rec := s.do(http.MethodPost, "/v1/tasks/"+taskID.String()+"/issue", echo.MIMEApplicationJSON, body)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("v1", rec.Header().Get("X-API-Version"))
	s.Contains(rec.Body.String(), `"on_hand":7`)
	s.Contains(rec.Body.String(), `"shortage_qty":7`)
}

func (s *RouterTestSuite) TestIssueMaterial_StatusMapping() {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{common.InsufficientStockf("on hand 2, requested 3"), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{common.NotFoundf("task not found"), http.StatusNotFound, "NOT_FOUND"},
		{common.Validationf("qty must be positive"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{common.Conflictf("transaction contention after 3 attempts"), http.StatusConflict, "CONFLICT"},
		{errors.New("conn refused"), http.StatusInternalServerError, "SERVER_ERROR"},
	}
	for _, tt := range tests {
		taskID := uuid.New()
		s.inventory.On("Issue", mock.Anything, taskID, mock.Anything).Return(nil, tt.err).Once()

		rec := s.do(http.MethodPost, "/v1/tasks/"+taskID.String()+"/issue", echo.MIMEApplicationJSON, []byte(`{"qty":3}`))

		s.Equal(tt.status, rec.Code, tt.code)
		s.Equal(tt.code, s.errorBody(rec).Error.Code)
	}
}

func (s *RouterTestSuite) TestInternalErrorsAreNotEchoed() {
	s.tasks.On("ReportProgress", mock.Anything, mock.Anything).Return(nil, errors.New("pq: password authentication failed")).Once()

	rec := s.do(http.MethodPost, "/v1/report", echo.MIMEApplicationJSON, []byte(`{"task_no":"T1","qty":5}`))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "password")
}

func (s *RouterTestSuite) TestInvalidIDAndBody() {
	rec := s.do(http.MethodGet, "/v1/tasks/not-a-uuid", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/v1/tasks", echo.MIMEApplicationJSON, []byte(`{"target_qty":"ten"`))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", s.errorBody(rec).Error.Code)
}

func (s *RouterTestSuite) TestCreateTask_MoldBusy() {
	s.tasks.On("Create", mock.Anything, mock.MatchedBy(func(req *models.TaskCreate) bool {
		return req.TaskNo == "T1" && req.TargetQty == 5
	})).Return(nil, common.Conflictf("mold M-01 is InUse")).Once()

	body := []byte(`{"task_no":"T1","mold_id":"` + uuid.NewString() + `","operator_name":"li","target_qty":5}`)
	rec := s.do(http.MethodPost, "/v1/tasks", echo.MIMEApplicationJSON, body)

	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(s.errorBody(rec).Error.Message, "M-01")
}

func (s *RouterTestSuite) TestListTasks_Pagination() {
	s.tasks.On("List", mock.Anything, 500, 20).Return(nil, nil).Once()

	rec := s.do(http.MethodGet, "/v1/tasks?limit=1000&offset=20", "", nil)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"tasks":[],"limit":500,"offset":20}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/v1/tasks?limit=many", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestDeleteTask_TrailingSlash() {
	id := uuid.New()
	s.tasks.On("Delete", mock.Anything, id).Return(nil).Once()

	rec := s.do(http.MethodDelete, "/v1/tasks/"+id.String()+"/", "", nil)

	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *RouterTestSuite) TestUnknownRouteAndVersion() {
	rec := s.do(http.MethodGet, "/v1/nowhere", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", s.errorBody(rec).Error.Code)

	rec = s.do(http.MethodGet, "/v2/tasks", "", nil)
	s.Equal(http.StatusNotFound, rec.Code)
	body := s.errorBody(rec)
	s.Equal("UNSUPPORTED_VERSION", body.Error.Code)
	s.Equal("v1", body.Error.Details["supported_versions"])
}

func (s *RouterTestSuite) TestImportTree_JSON() {
	tsv := "层级\t物料编码\t名称\t图号\t数量\t单位\t类型\t备注\n0\tP1\tHousing\t\t1\t\t\t"
	s.importer.On("Import", mock.Anything, importer.Source{
		Filename:    "import.tsv",
		ContentType: "text/tab-separated-values",
		Payload:     []byte(tsv),
	}).Return(&models.TreeImportResult{Rows: 1}, nil).Once()

	payload, err := json.Marshal(map[string]string{"tsv": tsv})
	s.Require().NoError(err)
	rec := s.do(http.MethodPost, "/v1/bom/import_tree", echo.MIMEApplicationJSON, payload)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"rows":1`)
}

func (s *RouterTestSuite) TestImportTree_JSONMissingTSV() {
	rec := s.do(http.MethodPost, "/v1/bom/import_tree", echo.MIMEApplicationJSON, []byte(`{"tsv":"  "}`))
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/v1/bom/import_tree", echo.MIMEApplicationJSON, []byte(`{`))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestImportTree_RawText() {
	s.importer.On("Import", mock.Anything, mock.MatchedBy(func(src importer.Source) bool {
		return string(src.Payload) == "raw table"
	})).Return(nil, common.Validationf("header must be ...")).Once()

	rec := s.do(http.MethodPost, "/v1/bom/import_tree", echo.MIMETextPlain, []byte("raw table"))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestImportTree_EmptyBody() {
	rec := s.do(http.MethodPost, "/v1/bom/import_tree", echo.MIMETextPlain, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestImportTree_TooLarge() {
	rec := s.do(http.MethodPost, "/v1/bom/import_tree", echo.MIMETextPlain, bytes.Repeat([]byte("x"), testMaxImportBytes+1))

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Equal("PAYLOAD_TOO_LARGE", s.errorBody(rec).Error.Code)
}

func multipartBody(t *testing.T, filename string, content []byte) (string, []byte) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType(), buf.Bytes()
}

func (s *RouterTestSuite) TestImportTree_Multipart() {
	contentType, body := multipartBody(s.T(), "tree.tsv", []byte("table"))
	s.importer.On("Import", mock.Anything, mock.MatchedBy(func(src importer.Source) bool {
		return src.Filename == "tree.tsv" && string(src.Payload) == "table"
	})).Return(&models.TreeImportResult{Rows: 3, BOMCreated: 2}, nil).Once()

	rec := s.do(http.MethodPost, "/v1/bom/import_tree", contentType, body)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"bom_created":2`)
}

func (s *RouterTestSuite) TestImportTree_MultipartRejectsExtension() {
	contentType, body := multipartBody(s.T(), "tree.csv", []byte("table"))

	rec := s.do(http.MethodPost, "/v1/bom/import_tree", contentType, body)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(s.errorBody(rec).Error.Message, ".csv")
}

func (s *RouterTestSuite) TestImportTree_MultipartTooLarge() {
	contentType, body := multipartBody(s.T(), "tree.tsv", bytes.Repeat([]byte("x"), testMaxImportBytes+10))

	rec := s.do(http.MethodPost, "/v1/bom/import_tree", contentType, body)

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
}

func (s *RouterTestSuite) TestReconcile() {
	s.inventory.On("Reconcile", mock.Anything).Return([]models.LedgerBalance{
		{MaterialID: uuid.New(), MaterialCode: "M1", OnHand: 7, MovesTotal: 7},
		{MaterialID: uuid.New(), MaterialCode: "M2", OnHand: 5, MovesTotal: 4},
	}, nil).Once()

	rec := s.do(http.MethodGet, "/v1/inventory/reconcile", "", nil)

	s.Equal(http.StatusOK, rec.Code)
	var body struct {
		Checked    int                    `json:"checked"`
		Consistent bool                   `json:"consistent"`
		Drifted    []models.LedgerBalance `json:"drifted"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(2, body.Checked)
	s.False(body.Consistent)
	s.Require().Len(body.Drifted, 1)
	s.Equal("M2", body.Drifted[0].MaterialCode)
}

func (s *RouterTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, rec.Code)
	var health HealthStatus
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &health))
	s.Equal("healthy", health.Status)
	s.Equal("disabled", health.Services["storage"])
	s.Equal("test", health.Version)

	s.cacheErr = errors.New("redis down")
	rec = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusPartialContent, rec.Code)
	s.Contains(rec.Body.String(), `"degraded"`)

	s.dbErr = errors.New("db down")
	rec = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	rec = s.do(http.MethodGet, "/health/ready", "", nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)

	rec = s.do(http.MethodGet, "/health/live", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}
