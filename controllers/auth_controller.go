package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"weblog/middleware"
	"weblog/models"
	"weblog/utils"
)

// AuthController handles registration, login, logout and current-user
// resolution.
type AuthController struct {
	db        *gorm.DB
	tokens    *utils.TokenManager
	blacklist *utils.TokenBlacklist
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB, tokens *utils.TokenManager, blacklist *utils.TokenBlacklist) *AuthController {
	return &AuthController{db: db, tokens: tokens, blacklist: blacklist}
}

// Register creates a new account with a bcrypt password hash. Duplicate
// emails are rejected without creating a row.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Firstname string `json:"firstname" form:"firstname" binding:"required,max=64"`
		Lastname  string `json:"lastname" form:"lastname" binding:"required,max=64"`
		Email     string `json:"email" form:"email" binding:"required,email,max=120"`
		Password  string `json:"password" form:"password" binding:"required,min=6"`
	}

	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid registration form")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check email")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Firstname:    strings.TrimSpace(req.Firstname),
		Lastname:     strings.TrimSpace(req.Lastname),
		Email:        email,
		PasswordHash: hash,
	}

	if err := a.db.Create(&user).Error; err != nil {
		// The unique index catches the race a concurrent registration wins.
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}

	utils.Created(ctx, "you are now a registered user, please log in", gin.H{"user": user})
}

// Login verifies credentials and establishes a session. Unknown email and
// wrong password produce the same message so accounts cannot be enumerated.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}

	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid login form")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}

	token, err := a.tokens.Generate(user.ID, user.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to establish session")
		return
	}

	ctx.SetCookie(middleware.SessionCookieName, token, int(a.tokens.TTL().Seconds()), "/", "", false, true)
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout revokes the presented session token and clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	token, ok := presentedToken(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "no session to log out")
		return
	}

	expiresAt := time.Now().Add(a.tokens.TTL())
	if claims, err := a.tokens.Parse(token); err == nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	a.blacklist.Revoke(token, expiresAt)

	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the user behind the current session.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// presentedToken extracts the raw session token the same way the auth
// middleware does: bearer header first, then the session cookie.
func presentedToken(ctx *gin.Context) (string, bool) {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token, true
			}
		}
		return "", false
	}
	if token, err := ctx.Cookie(middleware.SessionCookieName); err == nil && token != "" {
		return token, true
	}
	return "", false
}
