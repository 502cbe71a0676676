package booking

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/schedule"
	"github.com/mark3labs/handyhire/internal/store"
	"github.com/mark3labs/handyhire/internal/wizard"
)

var testNow = time.Date(2026, time.March, 10, 10, 30, 0, 0, time.Local)

func clock() time.Time { return testNow }

var ram = api.Provider{
	ID: "p-ram", Name: "Ram", ServiceType: "Electrician", Experience: 6,
	WorkingFrom: "09:00 AM", WorkingTo: "05:00 PM", RateCharge: 600,
}

type fakeOrders struct {
	calls []api.OrderRequest
	resp  *api.OrderResponse
	err   error
}

func (f *fakeOrders) CreateOrder(_ context.Context, o api.OrderRequest) (*api.OrderResponse, error) {
	f.calls = append(f.calls, o)
	return f.resp, f.err
}

type fakeRecorder struct{ events []store.Event }

func (f *fakeRecorder) Record(_ context.Context, ev store.Event) error {
	f.events = append(f.events, ev)
	return nil
}

func TestParseServiceType(t *testing.T) {
	st, err := ParseServiceType("plumber")
	require.NoError(t, err)
	require.Equal(t, Plumber, st)
	_, err = ParseServiceType("Carpenter")
	require.Error(t, err)
}

func TestApplyProfile(t *testing.T) {
	f := FormData{Name: "old"}
	ApplyProfile(api.Profile{Name: "Sita", PhoneNo: "9800", Municipality: "Godawari", Province: "Bagmati"})(&f)
	require.Equal(t, "Sita", f.Name)
	require.Equal(t, "9800", f.Phone)
	require.Equal(t, "Godawari, Bagmati", f.Address)
	require.True(t, f.AddressSelected)
}

func TestSetServiceType_ClearsDependentSelections(t *testing.T) {
	f := FormData{ServiceType: Electrician}
	SelectProvider(ram)(&f)
	SetDate(schedule.DateOf(testNow))(&f)
	SetSlot("2:00 PM - 3:00 PM")(&f)

	SetServiceType(Electrician)(&f)
	require.Equal(t, "p-ram", f.ProviderID, "same trade keeps the selection")

	SetServiceType(Plumber)(&f)
	want := FormData{ServiceType: Plumber}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("after trade change (-want +got):\n%s", diff)
	}
}

func TestSelectProvider(t *testing.T) {
	f := FormData{}
	SelectProvider(ram)(&f)
	require.Equal(t, "p-ram", f.ProviderID)
	require.Equal(t, 600.0, f.RateCharge)
	require.Equal(t, "Ram", f.ProviderName())

	SetDate(schedule.DateOf(testNow))(&f)
	SetSlot("2:00 PM - 3:00 PM")(&f)

	// Reselecting the same provider keeps the schedule.
	SelectProvider(ram)(&f)
	require.Equal(t, "2:00 PM - 3:00 PM", f.TimeSlot)

	other := ram
	other.ID, other.RateCharge = "p-shyam", 450
	SelectProvider(other)(&f)
	require.Empty(t, f.TimeSlot)
	require.True(t, f.BookingDate.IsZero())
	require.Equal(t, 450.0, f.RateCharge)

	// The snapshot is a copy.
	other.Name = "changed"
	require.NotEqual(t, "changed", f.ProviderName())
}

func TestStepValidation(t *testing.T) {
	valid := func() FormData {
		f := FormData{}
		SetName("Sita")(&f)
		SetPhone("9800000000")(&f)
		SetAddress("Lalitpur")(&f)
		SetServiceType(Electrician)(&f)
		SelectProvider(ram)(&f)
		SetDate(schedule.DateOf(testNow))(&f)
		SetSlot("2:00 PM - 3:00 PM")(&f)
		return f
	}

	tests := []struct {
		name    string
		step    wizard.Step[FormData]
		mutate  func(*FormData)
		wantErr string
	}{
		{"personal ok", PersonalStep{}, nil, ""},
		{"personal no name", PersonalStep{}, SetName(" "), "name"},
		{"personal no phone", PersonalStep{}, SetPhone(""), "phone"},
		{"personal no address", PersonalStep{}, SetAddress(""), "address"},
		{"service ok", ServiceStep{}, nil, ""},
		{"service empty", ServiceStep{}, func(f *FormData) { f.ServiceType = "" }, "service type"},
		{"service unknown", ServiceStep{}, func(f *FormData) { f.ServiceType = "Carpenter" }, "service type"},
		{"provider ok", ProviderStep{}, nil, ""},
		{"provider missing", ProviderStep{}, SetServiceType(Plumber), "provider"},
		{"schedule ok", ScheduleStep{Now: clock}, nil, ""},
		{"schedule past date", ScheduleStep{Now: clock}, SetDate(schedule.DateOf(testNow).AddDays(-1)), "booking date"},
		{"schedule started slot", ScheduleStep{Now: clock}, SetSlot("10:00 AM - 11:00 AM"), "time slot"},
		{"schedule no slot", ScheduleStep{Now: clock}, SetSlot(""), "time slot"},
		{"schedule tomorrow early slot", ScheduleStep{Now: clock}, func(f *FormData) {
			f.BookingDate = schedule.DateOf(testNow).AddDays(1)
			f.TimeSlot = "9:00 AM - 10:00 AM"
		}, ""},
		{"review ok", ReviewStep{Now: clock}, nil, ""},
		{"review no rate", ReviewStep{Now: clock}, func(f *FormData) { f.RateCharge = 0 }, "rate"},
		{"review missing phone", ReviewStep{Now: clock}, SetPhone(""), "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			if tt.mutate != nil {
				tt.mutate(&f)
			}
			err := tt.step.Validate(f)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			var verr *wizard.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.wantErr, verr.Field)
		})
	}
}

func TestEndToEndBooking(t *testing.T) {
	orders := &fakeOrders{resp: &api.OrderResponse{Message: "Booking created", Booking: api.Booking{BookingID: "bk-77"}}}
	rec := &fakeRecorder{}
	sub := &Submitter{Orders: orders, Recorder: rec, Now: clock}

	c, err := wizard.New(context.Background(), FormData{}, Steps(clock), sub.Func())
	require.NoError(t, err)
	defer c.Close()

	// Step 1 rejects until personal details are in.
	require.Error(t, c.Advance())
	require.NoError(t, c.Apply(ApplyProfile(api.Profile{Name: "Sita", PhoneNo: "9800000000", District: "Lalitpur"})))
	require.NoError(t, c.Advance())

	require.Error(t, c.Advance())
	require.NoError(t, c.Apply(SetServiceType(Electrician)))
	require.NoError(t, c.Advance())

	require.Error(t, c.Advance())
	require.NoError(t, c.Apply(SelectProvider(ram)))
	require.NoError(t, c.Advance())

	require.NoError(t, c.Apply(SetDate(schedule.DateOf(testNow))))
	require.NoError(t, c.Apply(SetSlot("9:00 AM - 10:00 AM")))
	require.Error(t, c.Advance(), "slot already started")
	require.NoError(t, c.Apply(SetSlot("3:00 PM - 4:00 PM")))
	require.NoError(t, c.Advance())

	require.Equal(t, 5, c.Current())
	conf, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, orders.calls, 1)
	want := api.OrderRequest{
		Name: "Sita", Phone: "9800000000", Address: "Lalitpur", ServiceType: "Electrician",
		ProviderID: "p-ram", BookingDate: schedule.DateOf(testNow), TimeSlot: "3:00 PM - 4:00 PM", RateCharge: 600,
	}
	if diff := cmp.Diff(want, orders.calls[0]); diff != "" {
		t.Errorf("order payload (-want +got):\n%s", diff)
	}

	require.Equal(t, wizard.Submitted, c.State())
	require.Equal(t, "bk-77", conf.BookingID)
	require.Equal(t, "bk-77", c.Result().BookingID)
	require.Empty(t, conf.ReceiptPath)
	require.Len(t, orders.calls, 1)

	require.Len(t, rec.events, 1)
	require.Equal(t, "submitted", rec.events[0].Action)
	require.Equal(t, "bk-77", rec.events[0].Reference)
}

func TestSubmit_FailureRecordedAndReturned(t *testing.T) {
	apiErr := &api.Error{Status: 409, Message: "Slot already booked"}
	rec := &fakeRecorder{}
	sub := &Submitter{Orders: &fakeOrders{err: apiErr}, Recorder: rec}

	_, err := sub.Submit(context.Background(), FormData{ServiceType: Plumber})
	require.ErrorIs(t, err, apiErr)
	require.Len(t, rec.events, 1)
	require.Equal(t, "failed", rec.events[0].Action)
	require.True(t, strings.HasSuffix(rec.events[0].Summary, "Slot already booked"))
}

func TestSubmit_MissingBookingIDStillConfirms(t *testing.T) {
	orders := &fakeOrders{resp: &api.OrderResponse{Message: "ok"}}
	rec := &fakeRecorder{}
	sub := &Submitter{Orders: orders, Recorder: rec, ReceiptDir: t.TempDir(), Now: clock}

	conf, err := sub.Submit(context.Background(), FormData{ServiceType: Plumber})
	require.NoError(t, err)
	require.Empty(t, conf.BookingID)
	require.Equal(t, "ok", conf.Message)
	require.Empty(t, conf.ReceiptPath)
	require.Len(t, orders.calls, 1)

	require.Len(t, rec.events, 1)
	require.Equal(t, "submitted", rec.events[0].Action)
	require.True(t, strings.HasSuffix(rec.events[0].Summary, MissingIDNote))
}

func TestSubmit_WritesReceipt(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "receipts")
	sub := &Submitter{
		Orders:     &fakeOrders{resp: &api.OrderResponse{Booking: api.Booking{BookingID: "BK/2026 01"}}},
		ReceiptDir: dir,
		Now:        clock,
	}
	f := FormData{Name: "Sita", ServiceType: Plumber, BookingDate: schedule.DateOf(testNow), TimeSlot: "3:00 PM - 4:00 PM", RateCharge: 500}
	SelectProvider(ram)(&f)

	conf, err := sub.Submit(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "booking-bk-2026-01.pdf"), conf.ReceiptPath)

	data, err := os.ReadFile(conf.ReceiptPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF-"))
}
