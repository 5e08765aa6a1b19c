package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tiketku/internal/domain"
	"tiketku/internal/domain/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := a.Users.GetByLogin(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusUnauthorized, "invalid_credentials", "email/username atau password salah", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid_credentials", "email/username atau password salah", nil)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(a.Env.JWTSecret))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "token_error", "gagal membuat token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"user":  user,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Username) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "email dan username wajib diisi", nil)
		return
	}
	if len(req.Password) < 8 {
		respondError(c, http.StatusBadRequest, "validation_error", "password minimal 8 karakter", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "hash_error", "gagal meng-hash password", nil)
		return
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         "user",
		Status:       "active",
	}
	if err := a.Users.Create(c.Request.Context(), user); err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registrasi berhasil",
		"user":    user,
	})
}
