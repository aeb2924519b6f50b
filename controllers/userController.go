package controllers

import (
	"net/http"

	"campus-canteen/helpers"
	"campus-canteen/middleware"
	"campus-canteen/models"
	"campus-canteen/repository"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// TokenIssuer signs new staff tokens.
type TokenIssuer interface {
	GenerateAllTokens(email, name, uid, userRole string) (string, string, error)
}

// SignUp creates a staff account. Route it behind OpenWhileNoUsers so only
// the very first account can be created without an admin token.
func SignUp(users repository.UserRepository, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var user models.User
		if err := c.BindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if c.GetBool(middleware.BootstrapKey) && *user.UserRole != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "the first account must be an admin"})
			return
		}

		password, err := helpers.HashPassword(*user.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user item was not created"})
			return
		}
		user.Password = &password

		if err := users.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": "email or phone number already exists"})
				return
			}
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user item was not created"})
			return
		}

		token, refreshToken, err := tokens.GenerateAllTokens(*user.Email, *user.Name, user.UserID, *user.UserRole)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}
		if err := users.UpdateTokens(ctx, user.UserID, token, refreshToken); err != nil {
			_ = c.Error(err)
		}
		user.Token = &token
		user.RefreshToken = &refreshToken
		user.Password = nil
		c.JSON(http.StatusCreated, user)
	}
}

func Login(users repository.UserRepository, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var req models.LoginRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		foundUser, err := users.FindUserByEmail(ctx, req.Email)
		if err != nil || foundUser.Password == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "email or password is incorrect"})
			return
		}
		if ok, msg := helpers.VerifyPassword(req.Password, *foundUser.Password); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		token, refreshToken, err := tokens.GenerateAllTokens(*foundUser.Email, *foundUser.Name, foundUser.UserID, *foundUser.UserRole)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
			return
		}
		if err := users.UpdateTokens(ctx, foundUser.UserID, token, refreshToken); err != nil {
			_ = c.Error(err)
		}
		foundUser.Token = &token
		foundUser.RefreshToken = &refreshToken
		foundUser.Password = nil
		c.JSON(http.StatusOK, foundUser)
	}
}
