package domain

import "errors"

// ErrServiceNotFound is returned for unknown service ids.
var ErrServiceNotFound = errors.New("service not found")

// Service is one offering shown on the site.
type Service struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Image       string
	Details     []string
}

// Coordinates locate the business on the map.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Company holds the contact block rendered in the footer and imprint.
type Company struct {
	Name        string
	Owner       string
	Street      string
	Zip         string
	City        string
	District    string
	Phone       string
	Email       string
	Coordinates Coordinates
}
