package handler

import (
	"lifeclock/internal/person/models"
	"lifeclock/internal/person/service"
)

type PersonResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sex           string `json:"sex"`
	BirthDate     string `json:"birthDate"`
	IsAccountUser bool   `json:"isAccountUser"`
}

type FindResponse struct {
	Person PersonResponse `json:"person"`
}

type FormattedPerson struct {
	PersonResponse
	RemainTime int64 `json:"remainTime"`
}

type FindAllResponse struct {
	FormattedPersons []FormattedPerson `json:"formattedPersons"`
}

type CountResponse struct {
	PersonsCount int `json:"personsCount"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func toPersonResponse(p *models.Person) PersonResponse {
	return PersonResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Sex:           string(p.Sex),
		BirthDate:     p.BirthDateString(),
		IsAccountUser: p.IsAccountUser,
	}
}

func toFindAllResponse(list []service.PersonWithRemain) FindAllResponse {
	out := FindAllResponse{FormattedPersons: make([]FormattedPerson, 0, len(list))}
	for _, item := range list {
		out.FormattedPersons = append(out.FormattedPersons, FormattedPerson{
			PersonResponse: toPersonResponse(item.Person),
			RemainTime:     item.RemainTime,
		})
	}
	return out
}
