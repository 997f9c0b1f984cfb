// Package catalog serves the fixed list of services offered by the business.
package catalog

import (
	"context"

	"github.com/baumsteiger-allgaeu/site/api/internal/site/application"
	"github.com/baumsteiger-allgaeu/site/api/internal/site/domain"
)

// StaticRepository is an in-process CatalogRepository. It is read-only, so
// callers receive copies.
type StaticRepository struct {
	services []domain.Service
	company  domain.Company
}

var _ application.CatalogRepository = (*StaticRepository)(nil)

// NewStaticRepository returns the repository with the published catalog.
func NewStaticRepository() *StaticRepository {
	return &StaticRepository{services: defaultServices, company: defaultCompany}
}

func (r *StaticRepository) Services(context.Context) ([]domain.Service, error) {
	out := make([]domain.Service, 0, len(r.services))
	for _, svc := range r.services {
		out = append(out, copyService(svc))
	}
	return out, nil
}

func (r *StaticRepository) ServiceByID(_ context.Context, id string) (*domain.Service, error) {
	for _, svc := range r.services {
		if svc.ID == id {
			found := copyService(svc)
			return &found, nil
		}
	}
	return nil, domain.ErrServiceNotFound
}

func (r *StaticRepository) Company(context.Context) (domain.Company, error) {
	return r.company, nil
}

func copyService(svc domain.Service) domain.Service {
	svc.Details = append([]string(nil), svc.Details...)
	return svc
}

var defaultCompany = domain.Company{
	Name:        "Baumsteiger Allgäu",
	Owner:       "Raphael Bernhardt",
	Street:      "Oflingser Weg 17",
	Zip:         "88239",
	City:        "Wangen im Allgäu",
	District:    "Deuchelried",
	Phone:       "0151 28885660",
	Email:       "buero@baumsteiger-allgaeu.de",
	Coordinates: domain.Coordinates{Lat: 47.6952, Lng: 9.8503},
}

var defaultServices = []domain.Service{
	{
		ID:          "baumpflege",
		Title:       "Baumpflege",
		Description: "Maßnahmen für langfristig sichere und vitale Bäume. Durch artgerechte Schnitt- und Pflegemaßnahmen erhalten Sie nachhaltig vitale und sichere Bäume.",
		Icon:        "TreeDeciduous",
		Image:       "/images/services/baumpflege.jpg",
		Details: []string{
			"Kronenschnitt",
			"Totholzentfernung",
			"Fassadenfreischnitt",
			"Jungbaumschnitt",
			"Obstbaumschnitt",
			"Habitatbaumgestaltung",
		},
	},
	{
		ID:          "baumfaellung",
		Title:       "Baumfällung",
		Description: "Ist der Erhalt eines Baumes nicht mehr möglich oder sinnvoll, bleibt am Ende nur die Fällung. Wir fällen Bäume in jedem Umfeld - sicher und effektiv.",
		Icon:        "Axe",
		Image:       "/images/services/baumfaellung.jpg",
		Details: []string{
			"Fällung am Stück",
			"Seilklettertechnik",
			"Einsatz von Forstmaschinen",
			"Spezialfällungen",
		},
	},
	{
		ID:          "baummanagement",
		Title:       "Baummanagement",
		Description: "Bäume bringen auch Verantwortung mit sich. Wir verfassen Gutachten, Kataster und Sanierungskonzepte für Ihre Bäume und Baumbestände.",
		Icon:        "ClipboardList",
		Image:       "/images/services/baummanagement.jpg",
		Details: []string{
			"Gutachten",
			"Baumkataster",
			"Sanierungskonzepte",
			"Gefährdungsanalysen",
			"Bekämpfung von Schadinsekten",
		},
	},
	{
		ID:          "kronensicherung",
		Title:       "Kronensicherung",
		Description: "Moderne Seilsicherungssysteme minimieren die Bruchgefahr bei alten und ausladenden Bäumen und erhalten dabei die individuelle Dynamik der Baumkrone.",
		Icon:        "Link",
		Image:       "/images/services/kronensicherung.jpg",
		Details: []string{
			"Seilsicherungssysteme",
			"Stahlsicherungen",
			"Verbolzungen",
			"Individuelle Konzepte",
		},
	},
	{
		ID:          "obstbaumschnitt",
		Title:       "Obstbaumschnitt",
		Description: "Fachgerechte Sanierung und Erhalt von Hochstämmen und Streuobstwiesen. Wir sichern ein nachhaltiges Gleichgewicht von Fruchtertrag und Baumgesundheit.",
		Icon:        "Apple",
		Image:       "/images/services/obstbaumschnitt.jpg",
		Details: []string{
			"Pflanzung und Pflege von Obstgehölzen",
			"Planung von Streuobstwiesen",
			"Erziehungs- und Erhaltungsschnitt",
			"Pflegepläne für Streuobstanlagen",
		},
	},
	{
		ID:          "forstliche-dienstleistungen",
		Title:       "Forstliche Dienstleistungen",
		Description: "Unsere Arbeit erstreckt sich auch in forstliche Bereiche. Wir arbeiten Hand in Hand mit Förstern, Forstwirten und Holzrückern.",
		Icon:        "Trees",
		Image:       "/images/services/forstdienst.jpg",
		Details: []string{
			"Forstarbeiten",
			"Verkehrssicherung im Wald",
			"Zusammenarbeit mit Forstbetrieben",
		},
	},
	{
		ID:          "naturschutz",
		Title:       "Naturschutz",
		Description: "Wir setzen uns für die Schaffung und den Erhalt von Habitaten wie Streuobstanlagen oder Kopfbaumreihen sowie die Betreuung von ökologisch wertvollen alten Bäumen ein.",
		Icon:        "Leaf",
		Image:       "/images/services/naturschutz.jpg",
		Details: []string{
			"Gestaltung von Habitatbäumen",
			"Anlage von Streuobstanlagen",
			"Erhalt von Hecken und Gehölzstreifen",
			"Waldrandgestaltung",
		},
	},
}
