// Package devserver is an in-memory stand-in for the marketplace backend,
// used for local development and by tests.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/logger"
)

// DefaultSecret signs dev tokens when no secret is configured.
const DefaultSecret = "handyhire-dev-secret"

// Registration is a provider registration received by the server.
type Registration struct {
	Fields          map[string]string
	CertificateName string
	CertificateSize int64
}

// Server serves the marketplace API from memory.
type Server struct {
	mu            sync.Mutex
	secret        []byte
	profile       api.Profile
	providers     []api.Provider
	ratings       map[string]float64
	failRatings   map[string]bool
	orders        []api.OrderRequest
	registrations []Registration
	otps          map[string]string
	verified      map[string]bool
	passwords     map[string]string

	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the HMAC secret used to verify bearer tokens.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithProfile sets the profile returned by auth/profile.
func WithProfile(p api.Profile) Option {
	return func(s *Server) { s.profile = p }
}

// WithProviders replaces the seeded providers.
func WithProviders(providers []api.Provider) Option {
	return func(s *Server) { s.providers = slices.Clone(providers) }
}

// WithRating sets a provider's average rating.
func WithRating(providerID string, rating float64) Option {
	return func(s *Server) { s.ratings[providerID] = rating }
}

// WithFailingFeedback makes the feedback endpoint fail for the given providers.
func WithFailingFeedback(providerIDs ...string) Option {
	return func(s *Server) {
		for _, id := range providerIDs {
			s.failRatings[id] = true
		}
	}
}

// New returns a server seeded with demo data.
func New(opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		secret:      []byte(DefaultSecret),
		profile:     seedProfile,
		providers:   slices.Clone(seedProviders),
		ratings:     map[string]float64{},
		failRatings: map[string]bool{},
		otps:        map[string]string{},
		verified:    map[string]bool{},
		passwords:   map[string]string{},
	}
	for id, r := range seedRatings {
		s.ratings[id] = r
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API under /api.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Orders returns the orders received so far.
func (s *Server) Orders() []api.OrderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// Registrations returns the registrations received so far.
func (s *Server) Registrations() []Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.registrations)
}

// OTP returns the last code issued for email.
func (s *Server) OTP(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.otps[strings.ToLower(email)]
}

// Password returns the password last set for email through a reset.
func (s *Server) Password(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passwords[strings.ToLower(email)]
}

// DevToken signs a token for the seeded profile, valid for ttl.
func (s *Server) DevToken(role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  s.profile.AccountID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing dev token: %w", err)
	}
	return signed, nil
}

// ListenAndServe serves on addr until ctx is cancelled. ready, when non-nil,
// receives the bound address once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down dev server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	g := r.Group("/api")
	g.GET("/book-provider/display-providers", s.displayProviders)
	g.GET("/booked/provider-feedbacks/:id", s.providerFeedbacks)
	g.POST("/auth/send-otp", s.sendOTP)
	g.POST("/auth/verify-otp", s.verifyOTP)
	g.POST("/auth/reset-password", s.resetPassword)

	authed := g.Group("", s.requireBearer())
	authed.GET("/auth/profile", s.getProfile)
	authed.POST("/book-provider/create-order", s.createOrder)
	authed.POST("/service-provider/register", s.register)
	return r
}

// requestLogger logs each request through the application logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("devserver %s %s -> %d in %s (request %s)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond), c.GetHeader("X-Request-ID"))
	}
}

// requireBearer rejects requests without a valid HS256 bearer token.
func (s *Server) requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token missing"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if role, ok := claims["role"].(string); ok {
				c.Set("role", role)
			}
		}
		c.Next()
	}
}

func (s *Server) getProfile(c *gin.Context) {
	s.mu.Lock()
	p := s.profile
	s.mu.Unlock()
	c.JSON(http.StatusOK, p)
}

func (s *Server) displayProviders(c *gin.Context) {
	st, err := api.ParseServiceType(c.Query("serviceType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown service type"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Provider{}
	for _, p := range s.providers {
		if strings.EqualFold(p.ServiceType, string(st)) {
			out = append(out, p)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) providerFeedbacks(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRatings[id] {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Feedback service unavailable"})
		return
	}
	if !s.hasProvider(id) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Provider not found"})
		return
	}
	c.JSON(http.StatusOK, api.FeedbackSummary{AverageRating: s.ratings[id]})
}

func (s *Server) hasProvider(id string) bool {
	return slices.ContainsFunc(s.providers, func(p api.Provider) bool { return p.ID == id })
}

func (s *Server) createOrder(c *gin.Context) {
	var order api.OrderRequest
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order"})
		return
	}
	switch {
	case strings.TrimSpace(order.Name) == "", strings.TrimSpace(order.Phone) == "", strings.TrimSpace(order.Address) == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, phone and address are required"})
		return
	case order.BookingDate.IsZero(), strings.TrimSpace(order.TimeSlot) == "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "Booking date and time slot are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasProvider(order.ProviderID) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Provider not found"})
		return
	}
	for _, o := range s.orders {
		if o.ProviderID == order.ProviderID && o.BookingDate == order.BookingDate && o.TimeSlot == order.TimeSlot {
			c.JSON(http.StatusConflict, gin.H{"message": "This time slot is already booked"})
			return
		}
	}
	s.orders = append(s.orders, order)

	id := "bk-" + uuid.NewString()[:8]
	logger.Info("devserver booked %s with %s on %s %s", id, order.ProviderID, order.BookingDate, order.TimeSlot)
	c.JSON(http.StatusCreated, api.OrderResponse{
		Message: "Booking confirmed",
		Booking: api.Booking{BookingID: id},
	})
}

var registrationFields = []string{
	"name", "email", "phone", "address", "serviceType", "experience",
	"hourlyRate", "workingFrom", "workingTo", "score", "pass",
}

func (s *Server) register(c *gin.Context) {
	fields := make(map[string]string, len(registrationFields))
	for _, k := range registrationFields {
		fields[k] = c.PostForm(k)
	}
	if fields["name"] == "" || fields["email"] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name and email are required"})
		return
	}
	if _, err := api.ParseServiceType(fields["serviceType"]); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown service type"})
		return
	}
	cert, err := c.FormFile("certificate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Certificate file is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.registrations {
		if strings.EqualFold(r.Fields["email"], fields["email"]) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
	}
	s.registrations = append(s.registrations, Registration{
		Fields:          fields,
		CertificateName: cert.Filename,
		CertificateSize: cert.Size,
	})
	c.JSON(http.StatusCreated, api.MessageResponse{
		Message: "Registration submitted. Your account will be verified shortly.",
	})
}
