package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mark3labs/handyhire/internal/schedule"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

type failingToken struct{ err error }

func (f failingToken) Token(context.Context) (string, error) { return "", f.err }

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/", opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("localhost/api")
	require.Error(t, err)
}

func TestProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, Profile{
			Name: "Sita", PhoneNo: "9800000000", Province: "Bagmati", District: "Lalitpur",
			Municipality: "Godawari", AccountID: "acc-1", Email: "sita@example.test",
		})
	})

	c := newTestClient(t, mux, WithTokenSource(staticToken("tok-1")))
	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Sita", p.Name)
	require.Equal(t, "Godawari, Lalitpur, Bagmati", p.Address())
}

func TestProfile_Address(t *testing.T) {
	require.Equal(t, "Lalitpur", Profile{District: "Lalitpur"}.Address())
	require.Equal(t, "Godawari, Bagmati", Profile{Municipality: "Godawari", Province: " Bagmati "}.Address())
	require.Empty(t, Profile{}.Address())
}

func TestAuthTokenErrorShortCircuits(t *testing.T) {
	var hits atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits.Add(1) })
	noSession := errors.New("no session")

	c := newTestClient(t, h, WithTokenSource(failingToken{noSession}))
	_, err := c.Profile(context.Background())
	require.ErrorIs(t, err, noSession)
	require.Zero(t, hits.Load())
}

func TestUnauthorized(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	})
	var called atomic.Bool
	c := newTestClient(t, h,
		WithTokenSource(staticToken("old")),
		WithUnauthorizedHandler(func(context.Context) { called.Store(true) }),
	)

	_, err := c.Profile(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	require.True(t, called.Load())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Token expired", apiErr.Message)
}

func TestUnauthorized_PublicEndpointKeepsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/booked/provider-feedbacks/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		if r.PathValue("id") == "A" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, FeedbackSummary{AverageRating: 4})
	})
	mux.HandleFunc("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	})

	var cleared atomic.Int32
	c := newTestClient(t, mux,
		WithTokenSource(staticToken("tok-1")),
		WithUnauthorizedHandler(func(context.Context) { cleared.Add(1) }),
	)

	ratings := c.FetchRatings(context.Background(), []string{"A", "B"})
	require.Equal(t, map[string]float64{"A": 0, "B": 4}, ratings)

	_, err := c.VerifyOTP(context.Background(), "sita@example.test", "123456")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Zero(t, cleared.Load())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"Provider unavailable"}`, want: "Provider unavailable"},
		{name: "error field", body: `{"error":"bad input"}`, want: "bad input"},
		{name: "markup stripped", body: `{"message":"<b>Slot</b> taken &amp; gone"}`, want: "Slot taken & gone"},
		{name: "not json", body: `<html>502</html>`, want: GenericMessage},
		{name: "empty", body: ``, want: GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tt.body)
			})
			c := newTestClient(t, h)
			_, err := c.DisplayProviders(context.Background(), "Plumber")
			require.Error(t, err)
			require.Equal(t, tt.want, UserMessage(err))
		})
	}
}

func TestUserMessage_NetworkError(t *testing.T) {
	c, err := New("http://127.0.0.1:1/api/", WithTimeout(time.Second))
	require.NoError(t, err)
	_, err = c.DisplayProviders(context.Background(), "Plumber")
	require.Error(t, err)
	require.Equal(t, GenericMessage, UserMessage(err))
}

func TestDisplayProviders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/book-provider/display-providers", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Electrician", r.URL.Query().Get("serviceType"))
		require.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []Provider{
			{ID: "p1", Name: "Ram", ServiceType: "Electrician", WorkingFrom: "09:00 AM", WorkingTo: "05:00 PM", RateCharge: 500},
		})
	})

	c := newTestClient(t, mux, WithTokenSource(staticToken("tok")))
	providers, err := c.DisplayProviders(context.Background(), "Electrician")
	require.NoError(t, err)
	require.Len(t, providers, 1)
	require.Equal(t, "p1", providers[0].ID)
	require.Equal(t, 500.0, providers[0].RateCharge)
}

func TestCreateOrder(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/book-provider/create-order", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, OrderResponse{Message: "Booked", Booking: Booking{BookingID: "bk-42"}})
	})

	c := newTestClient(t, mux, WithTokenSource(staticToken("tok")))
	resp, err := c.CreateOrder(context.Background(), OrderRequest{
		Name: "Sita", Phone: "98", Address: "Lalitpur", ServiceType: "Plumber", ProviderID: "p2",
		BookingDate: schedule.Date{Year: 2026, Month: time.May, Day: 3}, TimeSlot: "9:00 AM - 10:00 AM", RateCharge: 750,
	})
	require.NoError(t, err)
	require.Equal(t, "bk-42", resp.Booking.BookingID)
	require.Equal(t, "2026-05-03", got["bookingDate"])
	require.Equal(t, "p2", got["providerId"])
	require.Equal(t, 750.0, got["rateCharge"])
}

func TestRegisterProvider(t *testing.T) {
	cert := filepath.Join(t.TempDir(), "license.pdf")
	require.NoError(t, os.WriteFile(cert, []byte("%PDF-1.4 test"), 0644))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/service-provider/register", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Hari", r.FormValue("name"))
		require.Equal(t, "3", r.FormValue("experience"))
		require.Equal(t, "450.5", r.FormValue("hourlyRate"))
		require.Equal(t, "true", r.FormValue("pass"))
		require.Empty(t, r.MultipartForm.Value["examAnswers"])

		f, hdr, err := r.FormFile("certificate")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "license.pdf", hdr.Filename)
		data, _ := io.ReadAll(f)
		require.Equal(t, "%PDF-1.4 test", string(data))

		writeJSON(w, http.StatusCreated, MessageResponse{Message: "Registration submitted"})
	})

	c := newTestClient(t, mux, WithTokenSource(staticToken("tok")))
	resp, err := c.RegisterProvider(context.Background(), RegistrationRequest{
		Name: "Hari", Email: "hari@example.test", ServiceType: "Electrician", Experience: 3,
		HourlyRate: 450.5, WorkingFrom: "9:00 AM", WorkingTo: "5:00 PM", Score: 3, Pass: true,
		CertificatePath: cert,
	})
	require.NoError(t, err)
	require.Equal(t, "Registration submitted", resp.Message)
}

func TestRegisterProvider_RequiresCreated(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "queued"})
	})
	c := newTestClient(t, h)
	_, err := c.RegisterProvider(context.Background(), RegistrationRequest{Name: "x"})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusOK, apiErr.Status)
}

func TestRegisterProvider_MissingCertificate(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.RegisterProvider(context.Background(), RegistrationRequest{CertificatePath: "/does/not/exist.pdf"})
	require.ErrorContains(t, err, "opening certificate")
}

func TestPasswordReset(t *testing.T) {
	var paths []string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.c", body["email"])
		writeJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
	})
	c := newTestClient(t, h)
	ctx := context.Background()

	_, err := c.SendOTP(ctx, "a@b.c")
	require.NoError(t, err)
	_, err = c.VerifyOTP(ctx, "a@b.c", "123456")
	require.NoError(t, err)
	_, err = c.ResetPassword(ctx, ResetPasswordRequest{Email: "a@b.c", OTP: "123456", NewPassword: "s3cret!"})
	require.NoError(t, err)

	require.Equal(t, []string{"/api/auth/send-otp", "/api/auth/verify-otp", "/api/auth/reset-password"}, paths)
}

func TestContextCancellation(t *testing.T) {
	release := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	c := newTestClient(t, h)
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.DisplayProviders(ctx, "Plumber")
	require.ErrorIs(t, err, context.Canceled)
}
