package calendar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/calendar"
	mock_calendar "github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/calendar/mocks"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/fulfillment"
	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

func laLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	return loc
}

func at(loc *time.Location, hour, min int) time.Time {
	return time.Date(2025, time.September, 10, hour, min, 0, 0, loc)
}

func booked(loc *time.Location, startHour, startMin, endHour, endMin int) repository.Appointment {
	return repository.Appointment{
		ID:       "appt-" + time.Now().Format("150405.000"),
		OrderID:  "ORD-x",
		StartsAt: at(loc, startHour, startMin),
		EndsAt:   at(loc, endHour, endMin),
		Status:   repository.AppointmentBooked,
	}
}

func TestScheduler_QueryFreeSlots(t *testing.T) {
	loc := laLoc(t)
	window := fulfillment.TimeRange{Start: at(loc, 9, 0), End: at(loc, 12, 0)}

	tests := []struct {
		name string
		busy []repository.Appointment
		want []fulfillment.TimeRange
	}{
		{
			name: "empty calendar",
			busy: nil,
			want: []fulfillment.TimeRange{{Start: at(loc, 9, 0), End: at(loc, 12, 0)}},
		},
		{
			name: "one booking splits the window",
			busy: []repository.Appointment{booked(loc, 10, 0, 10, 30)},
			want: []fulfillment.TimeRange{
				{Start: at(loc, 9, 0), End: at(loc, 10, 0)},
				{Start: at(loc, 10, 30), End: at(loc, 12, 0)},
			},
		},
		{
			name: "overlapping bookings merge",
			busy: []repository.Appointment{
				booked(loc, 9, 30, 10, 30),
				booked(loc, 10, 0, 11, 0),
			},
			want: []fulfillment.TimeRange{
				{Start: at(loc, 9, 0), End: at(loc, 9, 30)},
				{Start: at(loc, 11, 0), End: at(loc, 12, 0)},
			},
		},
		{
			name: "booking at the window start",
			busy: []repository.Appointment{booked(loc, 9, 0, 9, 30)},
			want: []fulfillment.TimeRange{{Start: at(loc, 9, 30), End: at(loc, 12, 0)}},
		},
		{
			name: "booking pokes out of the window",
			busy: []repository.Appointment{booked(loc, 8, 0, 9, 45)},
			want: []fulfillment.TimeRange{{Start: at(loc, 9, 45), End: at(loc, 12, 0)}},
		},
		{
			name: "fully booked",
			busy: []repository.Appointment{booked(loc, 8, 0, 13, 0)},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mock_calendar.NewMockAppointmentStore(ctrl)
			store.EXPECT().ListBetween(gomock.Any(), gomock.Eq(window.Start), gomock.Eq(window.End)).
				Return(tc.busy, nil)

			s := calendar.NewScheduler(store, loc)
			free, err := s.QueryFreeSlots(context.Background(), window)

			require.NoError(t, err)
			require.Len(t, free, len(tc.want))
			for i := range tc.want {
				assert.True(t, free[i].Start.Equal(tc.want[i].Start), "slot %d start: want %s, got %s", i, tc.want[i].Start, free[i].Start)
				assert.True(t, free[i].End.Equal(tc.want[i].End), "slot %d end: want %s, got %s", i, tc.want[i].End, free[i].End)
			}
		})
	}

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_calendar.NewMockAppointmentStore(ctrl)
		store.EXPECT().ListBetween(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))

		s := calendar.NewScheduler(store, loc)
		_, err := s.QueryFreeSlots(context.Background(), window)

		assert.Error(t, err)
	})

	t.Run("empty window needs no store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_calendar.NewMockAppointmentStore(ctrl)

		s := calendar.NewScheduler(store, loc)
		free, err := s.QueryFreeSlots(context.Background(), fulfillment.TimeRange{Start: at(loc, 12, 0), End: at(loc, 12, 0)})

		require.NoError(t, err)
		assert.Empty(t, free)
	})
}

func TestScheduler_CreateAppointment(t *testing.T) {
	loc := laLoc(t)
	slot := fulfillment.TimeRange{Start: at(loc, 9, 0), End: at(loc, 9, 30)}
	details := fulfillment.AppointmentDetails{
		OrderID:     "ORD12345",
		Location:    "742 Evergreen Terrace, Portland, OR",
		Description: "24 x Chocolate Chip",
	}

	t.Run("books a fresh slot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_calendar.NewMockAppointmentStore(ctrl)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, appt *repository.Appointment) (string, error) {
				assert.NotEmpty(t, appt.ID)
				assert.Equal(t, "ORD12345", appt.OrderID)
				assert.Equal(t, "Cookie delivery for ORD12345", appt.Label)
				assert.Equal(t, details.Location, appt.Location)
				assert.Equal(t, repository.AppointmentBooked, appt.Status)
				assert.True(t, appt.StartsAt.Equal(slot.Start))
				assert.True(t, appt.EndsAt.Equal(slot.End))
				return appt.ID, nil
			})

		s := calendar.NewScheduler(store, loc)
		id, err := s.CreateAppointment(context.Background(), slot, "Cookie delivery for ORD12345", details)

		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("replay returns the existing appointment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_calendar.NewMockAppointmentStore(ctrl)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).Return("appt-original", nil)

		s := calendar.NewScheduler(store, loc)
		id, err := s.CreateAppointment(context.Background(), slot, "Cookie delivery for ORD12345", details)

		require.NoError(t, err)
		assert.Equal(t, "appt-original", id)
	})

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mock_calendar.NewMockAppointmentStore(ctrl)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).Return("", errors.New("connection refused"))

		s := calendar.NewScheduler(store, loc)
		_, err := s.CreateAppointment(context.Background(), slot, "label", details)

		assert.Error(t, err)
	})
}

func TestScheduler_DayLoad(t *testing.T) {
	loc := laLoc(t)
	ctrl := gomock.NewController(t)
	store := mock_calendar.NewMockAppointmentStore(ctrl)

	midnight := time.Date(2025, time.September, 10, 0, 0, 0, 0, loc)
	store.EXPECT().DayLoad(gomock.Any(), gomock.Eq(midnight), gomock.Eq(midnight.AddDate(0, 0, 1))).
		Return(7, nil)

	s := calendar.NewScheduler(store, loc)
	// The UTC instant is the previous evening in Los Angeles; the calendar
	// date is what counts.
	load, err := s.DayLoad(context.Background(), time.Date(2025, time.September, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 7, load)
}
