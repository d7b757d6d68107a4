package auth

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/dto"
	"github.com/GlebRadaev/freelancehub/internal/handlers/httperr"
	"github.com/GlebRadaev/freelancehub/internal/handlers/request"
	"github.com/GlebRadaev/freelancehub/pkg/utils"
)

type Service interface {
	Register(ctx context.Context, login, password string, role domain.Role) (*domain.User, error)
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)
	GenerateToken(principal domain.Principal) (string, error)
	IssueExchangeToken(ctx context.Context, principal domain.Principal) (string, error)
	RedeemExchangeToken(ctx context.Context, token string) (string, error)
}

type AuthHandler struct {
	authService Service
}

func New(authService Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Create a FREELANCER or CLIENT account. Freelancers start with the signup connects grant.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequestDTO	true	"Register request body"
//	@Success		200		{object}	dto.RegisterResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		403		{object}	utils.Response	"Role cannot self-register"
//	@Failure		409		{object}	utils.Response	"User already exists"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.authService.Register(r.Context(), req.Login, req.Password, role)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	token, err := h.authService.GenerateToken(domain.Principal{ID: user.ID, Role: user.Role})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.RegisterResponseDTO{
		Message: "User successfully registered",
		UserID:  user.ID.String(),
	})
}

// Login godoc
//
//	@Summary		Authenticate user
//	@Description	Log in with a user account and get a JWT token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequestDTO	true	"Login request body"
//	@Success		200		{object}	dto.LoginResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Invalid credentials"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.authService.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := h.authService.GenerateToken(domain.Principal{ID: user.ID, Role: user.Role})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating token")
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.LoginResponseDTO{
		Message: "User successfully authenticated",
	})
}

// ExchangeToken godoc
//
//	@Summary		Issue a one-time exchange token
//	@Description	The token can be redeemed once for a fresh JWT, from any instance, until it expires.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.ExchangeTokenResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		502	{object}	utils.Response	"Token store unavailable"
//	@Router			/api/user/exchange-token [post]
func (h *AuthHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	token, err := h.authService.IssueExchangeToken(r.Context(), principal)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.ExchangeTokenResponseDTO{Token: token})
}

// Exchange godoc
//
//	@Summary		Redeem an exchange token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.ExchangeRequestDTO	true	"Exchange token"
//	@Success		200		{object}	dto.LoginResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"Unknown, used or expired token"
//	@Router			/api/user/exchange [post]
func (h *AuthHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req dto.ExchangeRequestDTO
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Token is required")
		return
	}
	token, err := h.authService.RedeemExchangeToken(r.Context(), req.Token)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	w.Header().Set("Authorization", "Bearer "+token)
	utils.RespondWithJSON(w, http.StatusOK, dto.LoginResponseDTO{
		Message: "User successfully authenticated",
	})
}
