package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/dtos"
	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// GetApplicationQuery loads one application with its vouches
type GetApplicationQuery struct {
	ApplicationID string
}

// ApplicationResponse wraps an application view
type ApplicationResponse struct {
	Application dtos.ApplicationDTO
}

// GetApplicationHandler handles the GetApplication query
type GetApplicationHandler struct {
	applicationRepo membership.ApplicationRepository
}

// NewGetApplicationHandler creates a new GetApplicationHandler
func NewGetApplicationHandler(applicationRepo membership.ApplicationRepository) *GetApplicationHandler {
	return &GetApplicationHandler{applicationRepo: applicationRepo}
}

// Handle executes the GetApplication query. Any authenticated member may read
// applications; vouching requires it.
func (h *GetApplicationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetApplicationQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetApplicationQuery")
	}
	if _, err := shared.ParseID("applicationId", query.ApplicationID); err != nil {
		return nil, err
	}
	if _, err := auth.RequireIdentity(ctx); err != nil {
		return nil, err
	}

	a, err := h.applicationRepo.FindByID(ctx, query.ApplicationID)
	if err != nil {
		return nil, err
	}
	vouches, err := h.applicationRepo.ListVouches(ctx, a.ID())
	if err != nil {
		return nil, err
	}
	return &ApplicationResponse{Application: dtos.ToApplicationDTO(a, vouches)}, nil
}
