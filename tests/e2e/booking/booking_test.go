//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"venuebook/internal/handler/dto/request"
	"venuebook/internal/handler/dto/response"
	"venuebook/internal/pkg/jwt"
	"venuebook/tests/common/authtest"
	"venuebook/tests/common/dbtest"
	"venuebook/tests/common/httptest"
	"venuebook/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL      = "/api/bookings"
	venueBookingsURL = "/api/venues/%s/bookings"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func (s *BookingSuite) createRequest(venueIDs ...uuid.UUID) request.CreateBookingRequest {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	return request.CreateBookingRequest{
		VenueIDs:    venueIDs,
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Purpose:     "Department seminar",
		DocumentRef: "documents/seminar-request.pdf",
	}
}

func (s *BookingSuite) approve(t *testing.T, token string, id uuid.UUID) response.ApproveBookingResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL+"/"+id.String()+"/approve", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response.ApproveBookingResponse
	err := httptest.DecodeResponseBody(t, w.Body, &resp)
	require.NoError(t, err)
	return resp
}

func (s *BookingSuite) TestBookingWorkflow() {
	s.Run("full approval chain confirms a multi-venue submission", func() {
		t := s.T()

		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "approver", "admin")
		userToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "user")

		venueA := dbtest.CreateTestVenue(t, s.DB, "Auditorium", 300)
		venueB := dbtest.CreateTestVenue(t, s.DB, "Seminar Room", 40)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(venueA, venueB), userToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created []response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.Len(t, created, 2)
		require.Equal(t, created[0].BatchID, created[1].BatchID, "siblings must share a batch ID")
		for _, b := range created {
			require.Equal(t, "pending_level_1", b.Status)
			require.Equal(t, 1, b.ApprovalLevel)
		}

		// The first approval at each level must wait for its sibling.
		first := s.approve(t, adminToken, created[0].ID)
		require.False(t, first.Confirmed)
		require.Equal(t, 1, first.ClearedLevel)
		require.Equal(t, 1, first.AwaitingSiblings)

		second := s.approve(t, adminToken, created[1].ID)
		require.Zero(t, second.AwaitingSiblings)
		require.Equal(t, 2, second.Forwarded)

		// Walk both records through the remaining levels.
		for level := 2; level <= 4; level++ {
			a := s.approve(t, adminToken, created[0].ID)
			b := s.approve(t, adminToken, created[1].ID)
			if level < 4 {
				require.Equal(t, fmt.Sprintf("pending_level_%d", level+1), a.Booking.Status)
			} else {
				require.True(t, a.Confirmed)
				require.True(t, b.Confirmed)
				require.Equal(t, "confirmed", b.Booking.Status)
			}
		}

		// Confirmed bookings show up on the venue availability display.
		vw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(venueBookingsURL, venueA), nil, userToken)
		require.Equal(t, http.StatusOK, vw.Code)

		var confirmed []response.BookingListResponse
		err = httptest.DecodeResponseBody(t, vw.Body, &confirmed)
		require.NoError(t, err)
		require.Len(t, confirmed, 1)

		expected := response.BookingListResponse{
			ID:        created[0].ID,
			BatchID:   created[0].BatchID,
			VenueID:   venueA,
			VenueName: "Auditorium",
			Purpose:   "Department seminar",
			Status:    "confirmed",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.BookingListResponse{}, "StartTime", "EndTime", "CreatedAt"),
		}
		if diff := cmp.Diff(expected, confirmed[0], opts...); diff != "" {
			t.Errorf("Confirmed booking mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("a conflicting submission creates nothing", func() {
		t := s.T()

		aliceToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "user")
		bobToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob", "user")

		venueA := dbtest.CreateTestVenue(t, s.DB, "Auditorium", 300)
		venueB := dbtest.CreateTestVenue(t, s.DB, "Seminar Room", 40)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(venueA), aliceToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// Bob wants the free venue B too, but venue A overlaps: the whole
		// submission must be turned away.
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(venueB, venueA), bobToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		lw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, bobToken)
		require.Equal(t, http.StatusOK, lw.Code)

		var visible []response.BookingListResponse
		err := httptest.DecodeResponseBody(t, lw.Body, &visible)
		require.NoError(t, err)
		require.Empty(t, visible, "no record of the rejected submission may persist")
	})

	s.Run("touching slots on the same venue do not conflict", func() {
		t := s.T()

		aliceToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "user")
		venueA := dbtest.CreateTestVenue(t, s.DB, "Auditorium", 300)

		first := s.createRequest(venueA)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, first, aliceToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		next := first
		next.StartTime = first.EndTime
		next.EndTime = first.EndTime.Add(time.Hour)
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, next, aliceToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("rejection cancels one record and forwards the survivors", func() {
		t := s.T()

		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "approver", "admin")
		userToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "user")

		venueA := dbtest.CreateTestVenue(t, s.DB, "Auditorium", 300)
		venueB := dbtest.CreateTestVenue(t, s.DB, "Seminar Room", 40)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(venueA, venueB), userToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created []response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.Len(t, created, 2)

		survivor := s.approve(t, adminToken, created[0].ID)
		require.Equal(t, 1, survivor.AwaitingSiblings)

		rw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+created[1].ID.String()+"/reject",
			request.RejectBookingRequest{Reason: "venue under maintenance"}, adminToken)
		require.Equal(t, http.StatusNoContent, rw.Code, rw.Body.String())

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			bookingsURL+"/"+created[1].ID.String(), nil, adminToken)
		require.Equal(t, http.StatusOK, gw.Code)

		var rejected response.BookingResponse
		err = httptest.DecodeResponseBody(t, gw.Body, &rejected)
		require.NoError(t, err)
		require.Equal(t, "cancelled", rejected.Status)
		require.NotNil(t, rejected.RejectionReason)
		require.Equal(t, "venue under maintenance", *rejected.RejectionReason)

		// A second rejection of the same record is a conflict.
		rw = httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+created[1].ID.String()+"/reject",
			request.RejectBookingRequest{Reason: "again"}, adminToken)
		require.Equal(t, http.StatusConflict, rw.Code)

		// The surviving record moved on and can keep advancing.
		adv := s.approve(t, adminToken, created[0].ID)
		require.Equal(t, 2, adv.ClearedLevel)
	})

	s.Run("emailed action links approve without a session", func() {
		t := s.T()

		userToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "user")
		venueA := dbtest.CreateTestVenue(t, s.DB, "Auditorium", 300)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(venueA), userToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created []response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.Len(t, created, 1)
		id := created[0].ID

		// Without a token the link endpoint must turn the request away.
		lw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			bookingsURL+"/"+id.String()+"/approve", nil, "")
		require.Equal(t, http.StatusUnauthorized, lw.Code, lw.Body.String())

		// Mint the same token the approval mail embeds.
		tokens := jwt.NewService(s.Config.JWT.Secret, time.Hour, time.Hour)
		actionToken, err := tokens.GenerateActionToken(id, jwt.ActionApprove)
		require.NoError(t, err)

		lw = httptest.PerformRequest(t, s.Router, http.MethodGet,
			bookingsURL+"/"+id.String()+"/approve?token="+actionToken, nil, "")
		require.Equal(t, http.StatusOK, lw.Code, lw.Body.String())

		var approved response.ApproveBookingResponse
		err = httptest.DecodeResponseBody(t, lw.Body, &approved)
		require.NoError(t, err)
		require.Equal(t, 1, approved.ClearedLevel)
		require.Equal(t, "pending_level_2", approved.Booking.Status)

		// An approve token is no good on the reject link.
		lw = httptest.PerformRequest(t, s.Router, http.MethodGet,
			bookingsURL+"/"+id.String()+"/reject?token="+actionToken, nil, "")
		require.Equal(t, http.StatusUnauthorized, lw.Code, lw.Body.String())
	})

	s.Run("requester cancels their own booking, strangers may not", func() {
		t := s.T()

		aliceToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "user")
		bobToken := authtest.CreateAndLogin(t, s.DB, s.Router, "bob", "user")
		venueA := dbtest.CreateTestVenue(t, s.DB, "Auditorium", 300)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(venueA), aliceToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created []response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.Len(t, created, 1)
		id := created[0].ID.String()

		dw := httptest.PerformRequest(t, s.Router, http.MethodDelete, bookingsURL+"/"+id, nil, bobToken)
		require.Equal(t, http.StatusForbidden, dw.Code, dw.Body.String())

		dw = httptest.PerformRequest(t, s.Router, http.MethodDelete, bookingsURL+"/"+id, nil, aliceToken)
		require.Equal(t, http.StatusNoContent, dw.Code, dw.Body.String())

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+id, nil, aliceToken)
		require.Equal(t, http.StatusNotFound, gw.Code)
	})

	s.Run("admins export every booking as CSV", func() {
		t := s.T()

		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "approver", "admin")
		userToken := authtest.CreateAndLogin(t, s.DB, s.Router, "alice", "user")
		venueA := dbtest.CreateTestVenue(t, s.DB, "Auditorium", 300)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createRequest(venueA), userToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		ew := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/export", nil, adminToken)
		require.Equal(t, http.StatusOK, ew.Code)
		require.Equal(t, "text/csv", ew.Header().Get("Content-Type"))
		require.Contains(t, ew.Body.String(), "Auditorium")

		// Regular users may not export.
		ew = httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/export", nil, userToken)
		require.Equal(t, http.StatusForbidden, ew.Code)
	})
}
