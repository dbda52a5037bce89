package adaptor

import (
	"net/http"

	"pizza-service/internal/dto/response"
	"pizza-service/pkg/utils"
)

var endpoints = []response.EndpointDoc{
	{Method: http.MethodPost, Path: "/api/auth", Description: "Register a new user"},
	{Method: http.MethodPut, Path: "/api/auth", Description: "Login existing user"},
	{Method: http.MethodDelete, Path: "/api/auth", RequiresAuth: true, Description: "Logout a user"},
	{Method: http.MethodGet, Path: "/api/user/me", RequiresAuth: true, Description: "Get authenticated user"},
	{Method: http.MethodPut, Path: "/api/user/:userId", RequiresAuth: true, Description: "Update user"},
	{Method: http.MethodDelete, Path: "/api/user/:userId", RequiresAuth: true, Description: "Delete user"},
	{Method: http.MethodGet, Path: "/api/user?page=1&limit=10&name=*", RequiresAuth: true, Description: "Gets a list of users"},
	{Method: http.MethodGet, Path: "/api/order/menu", Description: "Get the pizza menu"},
	{Method: http.MethodPut, Path: "/api/order/menu", RequiresAuth: true, Description: "Add an item to the menu"},
	{Method: http.MethodGet, Path: "/api/order?page=1", RequiresAuth: true, Description: "Get the orders for the authenticated user"},
	{Method: http.MethodPost, Path: "/api/order", RequiresAuth: true, Description: "Create an order for the authenticated user"},
	{Method: http.MethodGet, Path: "/api/franchise?page=0&limit=10&name=*", Description: "List all the franchises"},
	{Method: http.MethodGet, Path: "/api/franchise/:userId", RequiresAuth: true, Description: "List a user's franchises"},
	{Method: http.MethodPost, Path: "/api/franchise", RequiresAuth: true, Description: "Create a new franchise"},
	{Method: http.MethodDelete, Path: "/api/franchise/:franchiseId", RequiresAuth: true, Description: "Delete a franchise"},
	{Method: http.MethodPost, Path: "/api/franchise/:franchiseId/store", RequiresAuth: true, Description: "Create a new franchise store"},
	{Method: http.MethodDelete, Path: "/api/franchise/:franchiseId/store/:storeId", RequiresAuth: true, Description: "Delete a store"},
}

type DocsHandler struct {
	version string
	config  response.DocsConfig
}

func NewDocsHandler(config *utils.Config) *DocsHandler {
	db := config.Database.Driver
	if db == utils.DriverPostgres {
		db = config.Database.Host
	}

	return &DocsHandler{
		version: config.App.Version,
		config: response.DocsConfig{
			Factory: config.Factory.URL,
			DB:      db,
		},
	}
}

// Root handles GET /
func (h *DocsHandler) Root(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, response.WelcomeResponse{
		Message: "welcome to JWT Pizza",
		Version: h.version,
	})
}

// Docs handles GET /api/docs
func (h *DocsHandler) Docs(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, response.DocsResponse{
		Version:   h.version,
		Endpoints: endpoints,
		Config:    h.config,
	})
}

// NotFound handles unknown routes and methods
func (h *DocsHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	utils.ResponseNotFound(w, "unknown endpoint")
}
