package cabinet

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register создаёт учётную запись кабинета и шлёт код подтверждения на email.
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email и пароль (минимум 8 символов) обязательны")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := db.GetUserByEmail(email); err == nil {
		respondError(c, http.StatusConflict, "пользователь с таким email уже существует")
		return
	} else if !errors.Is(err, db.ErrUserNotFound) {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	user, err := db.CreateCabinetUser(email, string(hash))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	code, err := h.Codes.Issue(email)
	if err == nil {
		if err := h.Mailer.Send(email, "Код подтверждения", "Ваш код подтверждения: "+code); err != nil {
			logger.Warn("не отправлен код подтверждения: " + err.Error())
		}
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": user.ID})
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// VerifyEmail подтверждает email одноразовым кодом.
func (h *Handlers) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email и код обязательны")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !h.Codes.Verify(email, req.Code) {
		respondError(c, http.StatusBadRequest, "неверный или истёкший код")
		return
	}
	user, err := db.GetUserByEmail(email)
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	if err := db.MarkEmailVerified(user); err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login проверяет пароль и выдаёт JWT-токен.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email и пароль обязательны")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := db.GetUserByEmail(email)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "неверный email или пароль")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "неверный email или пароль")
		return
	}
	if !user.EmailVerified {
		respondError(c, http.StatusForbidden, "email не подтверждён")
		return
	}
	token, err := h.Tokens.CreateToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me возвращает профиль текущего пользователя.
func (h *Handlers) Me(c *gin.Context) {
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	resp := gin.H{
		"id":             user.ID,
		"email":          user.Email,
		"balance_kopeks": user.BalanceKopeks,
		"language":       user.Language,
	}
	if user.PromoGroup != nil {
		resp["promo_group"] = user.PromoGroup.Name
	}
	c.JSON(http.StatusOK, resp)
}
