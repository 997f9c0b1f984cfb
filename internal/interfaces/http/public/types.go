package public

import (
	"log"
	"net/http"
	"time"

	"github.com/baumsteiger-allgaeu/site/api/internal/interfaces/http/common"
	sitedomain "github.com/baumsteiger-allgaeu/site/api/internal/site/domain"
)

// contactResponse is the Submission Outcome returned to the form.
type contactResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type serviceResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Image       string   `json:"image"`
	Details     []string `json:"details"`
}

type serviceListResponse struct {
	Items []serviceResponse `json:"items"`
}

type coordinatesPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type companyResponse struct {
	Name        string             `json:"name"`
	Owner       string             `json:"owner"`
	Street      string             `json:"street"`
	Zip         string             `json:"zip"`
	City        string             `json:"city"`
	District    string             `json:"district"`
	Phone       string             `json:"phone"`
	Email       string             `json:"email"`
	Coordinates coordinatesPayload `json:"coordinates"`
}

type consentPayload struct {
	Accepted  bool      `json:"accepted"`
	Timestamp time.Time `json:"timestamp"`
}

type consentResponse struct {
	Consent *consentPayload `json:"consent"`
}

func buildServiceResponse(svc sitedomain.Service) serviceResponse {
	return serviceResponse{
		ID:          svc.ID,
		Title:       svc.Title,
		Description: svc.Description,
		Icon:        svc.Icon,
		Image:       svc.Image,
		Details:     append([]string{}, svc.Details...),
	}
}

func buildCompanyResponse(c sitedomain.Company) companyResponse {
	return companyResponse{
		Name:        c.Name,
		Owner:       c.Owner,
		Street:      c.Street,
		Zip:         c.Zip,
		City:        c.City,
		District:    c.District,
		Phone:       c.Phone,
		Email:       c.Email,
		Coordinates: coordinatesPayload{Lat: c.Coordinates.Lat, Lng: c.Coordinates.Lng},
	}
}

func writeError(logger *log.Logger, w http.ResponseWriter, status int, message string) {
	common.WriteJSON(logger, w, status, map[string]string{"error": message})
}
