package admin

import (
	"time"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

type deliveryResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Message    string     `json:"message"`
	RemoteIP   string     `json:"remoteIp,omitempty"`
	UserAgent  string     `json:"userAgent,omitempty"`
	Error      string     `json:"error"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

type deliveryListResponse struct {
	Items []deliveryResponse `json:"items"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type deliveryUpdateRequest struct {
	Status string `json:"status"`
}

func deliveryDomainToResponse(d domain.FailedDelivery) deliveryResponse {
	return deliveryResponse{
		ID:         d.ID,
		Name:       d.Submission.Name,
		Email:      d.Submission.Email,
		Phone:      d.Submission.Phone,
		Message:    d.Submission.Message,
		RemoteIP:   d.RemoteIP,
		UserAgent:  d.UserAgent,
		Error:      d.Error,
		Status:     string(d.Status),
		CreatedAt:  d.CreatedAt,
		ResolvedAt: d.ResolvedAt,
	}
}
