package controlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/mrjawadhere/Hackthon-Smit/libs"
	"github.com/mrjawadhere/Hackthon-Smit/model"
)

// UserAccountStore is what the auth handlers need from the signup
// collection.
type UserAccountStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, user *model.User) (bson.ObjectID, error)
	UpdatePassword(ctx context.Context, email, hashed string) error
}

type UserController struct {
	users  UserAccountStore
	tokens *libs.TokenService
}

func NewUserController(users UserAccountStore, tokens *libs.TokenService) *UserController {
	return &UserController{users: users, tokens: tokens}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func errorBody(message string) model.APIResponse {
	return model.APIResponse{Status: "error", Message: message, Data: nil}
}

// Register handles POST /users/register. A duplicate email is an expected
// failure and comes back as an error-shaped 200, not a 4xx.
func (uc *UserController) Register(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	ctx := c.Request.Context()
	email := strings.TrimSpace(strings.ToLower(body.Email))

	exists, err := uc.users.EmailExists(ctx, email)
	if err != nil {
		zap.S().Errorw("register: email lookup failed", "email", email, "error", err)
		c.JSON(http.StatusOK, errorBody("Registration failed: "+err.Error()))
		return
	}
	if exists {
		c.JSON(http.StatusOK, errorBody("Email already registered"))
		return
	}

	hashed, err := libs.HashPassword(body.Password)
	if err != nil {
		c.JSON(http.StatusOK, errorBody("Registration failed: "+err.Error()))
		return
	}

	user := &model.User{Name: body.Name, Email: email, Password: hashed}
	id, err := uc.users.Insert(ctx, user)
	if err != nil {
		zap.S().Errorw("register: insert failed", "email", email, "error", err)
		c.JSON(http.StatusOK, errorBody("Registration failed: "+err.Error()))
		return
	}

	token, err := uc.tokens.Issue(libs.TokenClaims{Email: user.Email, Name: user.Name, UserID: id.Hex()})
	if err != nil {
		c.JSON(http.StatusOK, errorBody("Registration failed: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "User registered successfully",
		Data:    gin.H{"name": user.Name, "email": user.Email, "token": token},
	})
}

// Login handles POST /users/login.
func (uc *UserController) Login(c *gin.Context) {
	var body loginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	ctx := c.Request.Context()
	email := strings.TrimSpace(strings.ToLower(body.Email))

	user, err := uc.users.FindByEmail(ctx, email)
	if err == libs.ErrNotFound {
		c.JSON(http.StatusOK, errorBody("Email not found"))
		return
	}
	if err != nil {
		zap.S().Errorw("login: lookup failed", "email", email, "error", err)
		c.JSON(http.StatusOK, errorBody("Login failed: "+err.Error()))
		return
	}

	if !libs.CheckPasswordHash(body.Password, user.Password) {
		c.JSON(http.StatusOK, errorBody("Invalid password"))
		return
	}

	token, err := uc.tokens.Issue(libs.TokenClaims{Email: user.Email, Name: user.Name, UserID: user.ID.Hex()})
	if err != nil {
		c.JSON(http.StatusOK, errorBody("Login failed: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Status:  "success",
		Message: "User logged in successfully",
		Data:    gin.H{"name": user.Name, "email": user.Email, "token": token},
	})
}

// ResetPassword handles POST /users/reset-password.
func (uc *UserController) ResetPassword(c *gin.Context) {
	var body resetPasswordRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	ctx := c.Request.Context()
	email := strings.TrimSpace(strings.ToLower(body.Email))

	hashed, err := libs.HashPassword(body.NewPassword)
	if err != nil {
		c.JSON(http.StatusOK, errorBody("Password reset failed: "+err.Error()))
		return
	}

	err = uc.users.UpdatePassword(ctx, email, hashed)
	if err == libs.ErrNotFound {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Email not found"})
		return
	}
	if err != nil {
		zap.S().Errorw("reset password failed", "email", email, "error", err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Password update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Password has been reset for " + email,
	})
}
