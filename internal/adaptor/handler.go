package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/dto/response"
	"pizza-service/internal/usecase"
	"pizza-service/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Franchise *FranchiseHandler
	Order     *OrderHandler
	Docs      *DocsHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		User:      NewUserHandler(service.User, log),
		Franchise: NewFranchiseHandler(service.Franchise, log),
		Order:     NewOrderHandler(service.Order, log),
		Docs:      NewDocsHandler(config),
	}
}

var errInvalidBody = errors.New("invalid request body")

// decodeJSON fills dst from the request body. An empty body leaves dst zero-valued
// so that the service reports which fields are missing.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// authUser is only called behind RequireAuth.
func authUser(r *http.Request) *entity.User {
	user, _ := utils.AuthUserFromContext(r.Context())
	return user
}

// writeServiceError maps service errors to a status and a {message} body.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var factoryErr *usecase.FactoryError
	if errors.As(err, &factoryErr) {
		utils.ResponseJSON(w, http.StatusInternalServerError, response.FactoryFailureResponse{
			Message:              "Failed to fulfill order at factory",
			FollowLinkToEndChaos: factoryErr.ReportURL,
		})
		return
	}

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		log.Warn(operation+" failed", zap.Error(err))
		utils.ResponseError(w, appErr.StatusCode(), appErr.Message)
		return
	}

	log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	utils.ResponseInternalError(w, "internal server error")
}
