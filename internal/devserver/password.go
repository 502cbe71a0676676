package devserver

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/logger"
)

// Codes are printed to the log instead of being emailed.
func (s *Server) sendOTP(c *gin.Context) {
	var req api.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := fmt.Sprintf("%06d", rand.IntN(1_000_000))

	s.mu.Lock()
	s.otps[email] = code
	delete(s.verified, email)
	s.mu.Unlock()

	logger.Info("devserver OTP for %s: %s", email, code)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "OTP sent to your email"})
}

func (s *Server) verifyOTP(c *gin.Context) {
	var req api.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.otps[email]; !ok || code != strings.TrimSpace(req.OTP) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		return
	}
	s.verified[email] = true
	c.JSON(http.StatusOK, api.MessageResponse{Message: "OTP verified"})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req api.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 8 characters"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.verified[email] || s.otps[email] != strings.TrimSpace(req.OTP) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Verify the OTP first"})
		return
	}
	s.passwords[email] = req.NewPassword
	delete(s.otps, email)
	delete(s.verified, email)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password reset successfully"})
}
