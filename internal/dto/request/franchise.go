package request

type FranchiseAdminRequest struct {
	Email string `json:"email" validate:"required"`
}

type CreateFranchiseRequest struct {
	Name   string                  `json:"name" validate:"required"`
	Admins []FranchiseAdminRequest `json:"admins" validate:"dive"`
}

type CreateStoreRequest struct {
	Name string `json:"name" validate:"required"`
}
