//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"venuebook/internal/domain/user"
	"venuebook/internal/handler/api"
	resdto "venuebook/internal/handler/dto/response"
	"venuebook/internal/pkg/jwt"
	"venuebook/internal/usecase/commands"
	"venuebook/internal/usecase/queries"
	"venuebook/tests/common/builder"
	"venuebook/tests/common/httptest"
	"venuebook/tests/common/testutil"
	commandsmock "venuebook/tests/mock/commands"
	queriesmock "venuebook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	tokens       *jwt.Service
	handler      *api.BookingHandler
	actorID      uuid.UUID
	actorRole    user.Role
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.tokens = jwt.NewService("test-secret", time.Hour, time.Hour)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries, s.tokens)

	s.actorID = uuid.New()
	s.actorRole = user.RoleUser

	// Mock middleware behavior: inject the acting user into the context.
	s.router.Use(func(c *gin.Context) {
		c.Set("user_id", s.actorID)
		c.Set("user_role", s.actorRole)
	})

	s.router.POST("/bookings", s.handler.Create)
	s.router.GET("/bookings", s.handler.List)
	s.router.GET("/bookings/export", s.handler.ExportCSV)
	s.router.GET("/bookings/:id", s.handler.Get)
	s.router.DELETE("/bookings/:id", s.handler.Cancel)
	s.router.POST("/bookings/:id/approve", s.handler.Approve)
	s.router.POST("/bookings/:id/reject", s.handler.Reject)
	s.router.GET("/bookings/:id/approve", s.handler.ApproveViaLink)
	s.router.GET("/bookings/:id/reject", s.handler.RejectViaLink)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"

	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	returnView := builder.NewBookingBuilder().BuildView()

	s.Run("success: returns 201 Created with one record per venue", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), reqBody.ToParams(s.actorID)).
			Return([]*queries.BookingView{returnView}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response []resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Require().Len(response, 1)
		s.Equal(returnView.ID, response[0].ID)
		s.Equal(returnView.BatchID, response[0].BatchID)
		s.Equal("pending_level_1", response[0].Status)
	})

	s.Run("error: 409 Conflict when a venue is already booked", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, &commands.ConflictError{
				VenueName:          "Main Hall",
				ConflictingPurpose: "Board meeting",
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already booked")
	})

	s.Run("error: 409 Conflict names the waiting list for a pending collision", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, &commands.ConflictError{VenueName: "Main Hall", Pending: true}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "waiting list")
	})

	s.Run("error: 404 Not Found for an unknown venue", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrVenueNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Venue not found")
	})

	s.Run("error: 400 Bad Request on domain validation failure", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrDomainValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking data")
	})

	s.Run("error: 400 Bad Request on binding errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: venue_ids", mutate: testutil.Field("venue_ids", nil)},
			{name: "empty venue list", mutate: testutil.Field("venue_ids", []string{})},
			{name: "missing field: start_time", mutate: testutil.Field("start_time", nil)},
			{name: "missing field: end_time", mutate: testutil.Field("end_time", nil)},
			{name: "missing field: purpose", mutate: testutil.Field("purpose", nil)},
			{name: "missing field: document_ref", mutate: testutil.Field("document_ref", nil)},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	url := "/bookings"
	items := []*queries.BookingListItem{
		{ID: uuid.New(), VenueName: "Main Hall", Status: "pending_level_2", ApprovalLevel: 2},
	}

	s.Run("regular users see only their own bookings", func() {
		s.mockQueries.EXPECT().ListVisible(gomock.Any(), s.actorID, false).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal("pending_level_2", response[0].Status)
		s.Equal(2, response[0].ApprovalLevel)
	})

	s.Run("admins see every booking", func() {
		s.actorRole = user.RoleAdmin
		s.mockQueries.EXPECT().ListVisible(gomock.Any(), s.actorID, true).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *BookingHandlerTestSuite) TestGet() {
	s.Run("success: requester reads their own booking", func() {
		view := builder.NewBookingBuilder().WithRequesterID(s.actorID).BuildView()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
	})

	s.Run("error: 403 Forbidden for someone else's booking", func() {
		view := builder.NewBookingBuilder().BuildView()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Access denied")
	})

	s.Run("admins read anyone's booking", func() {
		s.actorRole = user.RoleAdmin
		view := builder.NewBookingBuilder().BuildView()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 404 Not Found", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).
			Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: 400 Bad Request on a malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})
}

func (s *BookingHandlerTestSuite) TestApprove() {
	s.Run("success: reports the clearance state of the batch", func() {
		view := builder.NewBookingBuilder().BuildView()
		s.mockCommands.EXPECT().Approve(gomock.Any(), view.ID).
			Return(&commands.ApproveResult{
				Booking:          view,
				ClearedLevel:     2,
				AwaitingSiblings: 1,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+view.ID.String()+"/approve", nil, "")

		var response resdto.ApproveBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(2, response.ClearedLevel)
		s.Equal(1, response.AwaitingSiblings)
		s.False(response.Confirmed)
	})

	s.Run("success: final approval confirms the booking", func() {
		view := builder.NewBookingBuilder().BuildView()
		s.mockCommands.EXPECT().Approve(gomock.Any(), view.ID).
			Return(&commands.ApproveResult{Booking: view, ClearedLevel: 4, Confirmed: true}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+view.ID.String()+"/approve", nil, "")

		var response resdto.ApproveBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Confirmed)
	})

	s.Run("error: 409 Conflict for an already confirmed booking", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Approve(gomock.Any(), id).
			Return(nil, commands.ErrAlreadyConfirmed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id.String()+"/approve", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already confirmed")
	})

	s.Run("error: 404 Not Found", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Approve(gomock.Any(), id).
			Return(nil, commands.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id.String()+"/approve", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

func (s *BookingHandlerTestSuite) TestReject() {
	s.Run("success: returns 204 No Content", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Reject(gomock.Any(), id, "venue under maintenance").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id.String()+"/reject",
			map[string]any{"reason": "venue under maintenance"}, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request without a reason", func() {
		id := uuid.New()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id.String()+"/reject",
			map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Rejection reason is required")
	})

	s.Run("error: 409 Conflict for an already cancelled booking", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Reject(gomock.Any(), id, "late").
			Return(commands.ErrAlreadyCancelled).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+id.String()+"/reject",
			map[string]any{"reason": "late"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already cancelled")
	})
}

func (s *BookingHandlerTestSuite) TestApproveViaLink() {
	s.Run("success: a signed link approves without a session", func() {
		view := builder.NewBookingBuilder().BuildView()
		token, err := s.tokens.GenerateActionToken(view.ID, jwt.ActionApprove)
		s.Require().NoError(err)

		s.mockCommands.EXPECT().Approve(gomock.Any(), view.ID).
			Return(&commands.ApproveResult{Booking: view, ClearedLevel: 1}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings/"+view.ID.String()+"/approve?token="+token, nil, "")

		var response resdto.ApproveBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(1, response.ClearedLevel)
	})

	s.Run("error: 401 Unauthorized without a token", func() {
		id := uuid.New()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings/"+id.String()+"/approve", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired action link")
	})

	s.Run("error: 401 Unauthorized for a garbage token", func() {
		id := uuid.New()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings/"+id.String()+"/approve?token=not-a-token", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired action link")
	})

	s.Run("error: 401 Unauthorized when a reject token hits the approve link", func() {
		id := uuid.New()
		token, err := s.tokens.GenerateActionToken(id, jwt.ActionReject)
		s.Require().NoError(err)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings/"+id.String()+"/approve?token="+token, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired action link")
	})

	s.Run("error: 401 Unauthorized when the token names another booking", func() {
		token, err := s.tokens.GenerateActionToken(uuid.New(), jwt.ActionApprove)
		s.Require().NoError(err)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings/"+uuid.New().String()+"/approve?token="+token, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired action link")
	})
}

func (s *BookingHandlerTestSuite) TestRejectViaLink() {
	s.Run("success: forwards the reason from the link", func() {
		id := uuid.New()
		token, err := s.tokens.GenerateActionToken(id, jwt.ActionReject)
		s.Require().NoError(err)

		s.mockCommands.EXPECT().Reject(gomock.Any(), id, "double booked").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings/"+id.String()+"/reject?token="+token+"&reason=double+booked", nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("success: falls back to a stock reason", func() {
		id := uuid.New()
		token, err := s.tokens.GenerateActionToken(id, jwt.ActionReject)
		s.Require().NoError(err)

		s.mockCommands.EXPECT().Reject(gomock.Any(), id, "Rejected by approver").
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings/"+id.String()+"/reject?token="+token, nil, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 401 Unauthorized without a token", func() {
		id := uuid.New()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings/"+id.String()+"/reject", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired action link")
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	s.Run("success: returns 204 No Content", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id, s.actorID, false).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/"+id.String(), nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 403 Forbidden for someone else's booking", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id, s.actorID, false).
			Return(commands.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "your own bookings")
	})

	s.Run("error: 404 Not Found", func() {
		id := uuid.New()
		s.mockCommands.EXPECT().Cancel(gomock.Any(), id, s.actorID, false).
			Return(commands.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})
}

func (s *BookingHandlerTestSuite) TestExportCSV() {
	start := time.Date(2030, 6, 1, 9, 0, 0, 0, time.UTC)
	items := []*queries.BookingListItem{
		{
			ID:                uuid.New(),
			BatchID:           uuid.New(),
			VenueName:         "Main Hall",
			RequesterUsername: "testuser",
			StartTime:         start,
			EndTime:           start.Add(2 * time.Hour),
			Purpose:           "Department seminar",
			Status:            "confirmed",
		},
	}
	s.mockQueries.EXPECT().ListAll(gomock.Any()).Return(items, nil).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/export", nil, "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("text/csv", rec.Header().Get("Content-Type"))
	s.Contains(rec.Header().Get("Content-Disposition"), "attachment")
	s.Contains(rec.Body.String(), "ID,Batch,Venue,Requested By,Start,End,Purpose,Status")
	s.Contains(rec.Body.String(), "Main Hall")
}
