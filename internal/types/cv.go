// Package types defines the request payloads accepted by the résumé service.
package types

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Countries a résumé can target.
const (
	CountryMX = "MX"
	CountryCO = "CO"
	CountryUS = "US"
)

// DefaultCountry is used when a request leaves country empty.
const DefaultCountry = CountryMX

// ImproveRequest asks the model to rewrite an existing résumé.
type ImproveRequest struct {
	CVText     string `json:"cvText" validate:"required"`
	TargetRole string `json:"targetRole" validate:"required"`
	Country    string `json:"country" validate:"omitempty,oneof=MX CO US"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	LinkedIn   string `json:"linkedin,omitempty" validate:"omitempty,http_url"`
}

// Profile is the candidate's identity and contact block.
type Profile struct {
	FullName      string `json:"fullName" validate:"required,min=2"`
	City          string `json:"city,omitempty"`
	StateOrRegion string `json:"stateOrRegion,omitempty"`
	PhoneWhatsapp string `json:"phoneWhatsapp,omitempty"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	LinkedIn      string `json:"linkedin,omitempty" validate:"omitempty,http_url"`
	Website       string `json:"website,omitempty" validate:"omitempty,http_url"`
}

// Experience is one job the candidate held.
type Experience struct {
	Title          string   `json:"title" validate:"required,min=2"`
	Company        string   `json:"company" validate:"required,min=2"`
	Location       string   `json:"location,omitempty"`
	Start          string   `json:"start,omitempty" validate:"omitempty,min=2"`
	End            string   `json:"end,omitempty" validate:"omitempty,min=2"`
	Bullets        []string `json:"bullets,omitempty" validate:"max=8,dive,min=2"`
	TopAchievement string   `json:"topAchievement,omitempty" validate:"max=180"`
}

// Education is one degree or course of study.
type Education struct {
	Level    string   `json:"level" validate:"required,oneof=Secundaria Tecnico Licenciatura Maestria Doctorado Bootcamp Otro"`
	Degree   string   `json:"degree,omitempty" validate:"omitempty,min=2"`
	School   string   `json:"school" validate:"required,min=2"`
	Status   string   `json:"status,omitempty" validate:"omitempty,oneof='En curso' Egresado Incompleto"`
	Year     string   `json:"year,omitempty"`
	Location string   `json:"location,omitempty"`
	Details  []string `json:"details,omitempty" validate:"max=5,dive,min=2"`
}

type Skills struct {
	Competencies []string `json:"competencies" validate:"max=40,dive,min=2"`
	ToolsTech    []string `json:"toolsTech" validate:"max=40,dive,min=2"`
}

type Language struct {
	Name  string `json:"name" validate:"required,min=2"`
	Level string `json:"level" validate:"required,oneof=Basico Intermedio Avanzado Nativo"`
}

type Project struct {
	Name    string   `json:"name" validate:"required,min=2"`
	Link    string   `json:"link,omitempty" validate:"omitempty,http_url"`
	Bullets []string `json:"bullets,omitempty" validate:"max=6,dive,min=2"`
}

// USWork is the optional work permit block, only valid for US résumés.
type USWork struct {
	WorkAuthorization   string `json:"workAuthorization" validate:"required,oneof=Si No 'En tramite' 'Prefiero no decir'"`
	RequiresSponsorship string `json:"requiresSponsorship,omitempty" validate:"omitempty,oneof=Si No"`
}

// CreateRequest asks the model to write a résumé from structured input.
type CreateRequest struct {
	TargetRole     string       `json:"targetRole" validate:"required,min=2"`
	Country        string       `json:"country" validate:"omitempty,oneof=MX CO US"`
	Industry       string       `json:"industry,omitempty"`
	Profile        Profile      `json:"profile"`
	PhotoDataURL   string       `json:"photoDataUrl,omitempty" validate:"omitempty,photo_data_url"`
	Summary        string       `json:"summary,omitempty" validate:"max=1200"`
	Experience     []Experience `json:"experience" validate:"max=12,dive"`
	Education      []Education  `json:"education" validate:"max=8,dive"`
	Skills         Skills       `json:"skills"`
	Languages      []Language   `json:"languages,omitempty" validate:"max=10,dive"`
	Certifications []string     `json:"certifications,omitempty" validate:"max=20,dive,min=2"`
	Projects       []Project    `json:"projects,omitempty" validate:"max=8,dive"`
	USWork         *USWork      `json:"usWork,omitempty"`
}

var photoPrefixes = []string{
	"data:image/jpeg;base64,",
	"data:image/png;base64,",
	"data:image/webp;base64,",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("photo_data_url", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, p := range photoPrefixes {
			if strings.HasPrefix(s, p) {
				return true
			}
		}
		return false
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(CreateRequest)
		if req.USWork != nil && req.Country != CountryUS {
			sl.ReportError(req.USWork, "usWork", "USWork", "us_only", "")
		}
	}, CreateRequest{})
	return v
}

// Normalize trims every string and applies the default country.
func (r *ImproveRequest) Normalize() {
	r.CVText = strings.TrimSpace(r.CVText)
	r.TargetRole = strings.TrimSpace(r.TargetRole)
	r.Country = normalizeCountry(r.Country)
	r.Email = strings.TrimSpace(r.Email)
	r.LinkedIn = strings.TrimSpace(r.LinkedIn)
}

// Validate validates the ImproveRequest using the validator.
func (r *ImproveRequest) Validate() error {
	return validate.Struct(r)
}

// Normalize trims every string and applies the default country.
func (r *CreateRequest) Normalize() {
	r.TargetRole = strings.TrimSpace(r.TargetRole)
	r.Country = normalizeCountry(r.Country)
	r.Industry = strings.TrimSpace(r.Industry)
	r.PhotoDataURL = strings.TrimSpace(r.PhotoDataURL)
	r.Summary = strings.TrimSpace(r.Summary)

	p := &r.Profile
	trimAll(&p.FullName, &p.City, &p.StateOrRegion, &p.PhoneWhatsapp, &p.Email, &p.LinkedIn, &p.Website)

	for i := range r.Experience {
		e := &r.Experience[i]
		trimAll(&e.Title, &e.Company, &e.Location, &e.Start, &e.End, &e.TopAchievement)
		trimSlice(e.Bullets)
	}
	for i := range r.Education {
		e := &r.Education[i]
		trimAll(&e.Level, &e.Degree, &e.School, &e.Status, &e.Year, &e.Location)
		trimSlice(e.Details)
	}
	trimSlice(r.Skills.Competencies)
	trimSlice(r.Skills.ToolsTech)
	for i := range r.Languages {
		trimAll(&r.Languages[i].Name, &r.Languages[i].Level)
	}
	trimSlice(r.Certifications)
	for i := range r.Projects {
		p := &r.Projects[i]
		trimAll(&p.Name, &p.Link)
		trimSlice(p.Bullets)
	}
	if r.USWork != nil {
		trimAll(&r.USWork.WorkAuthorization, &r.USWork.RequiresSponsorship)
	}
}

// Validate validates the CreateRequest using the validator.
func (r *CreateRequest) Validate() error {
	return validate.Struct(r)
}

func normalizeCountry(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return DefaultCountry
	}
	return c
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func trimSlice(s []string) {
	for i := range s {
		s[i] = strings.TrimSpace(s[i])
	}
}

// FieldErrors lists failed validations as "path: tag", such as
// "profile.fullName: required". Errors that are not validation errors yield nil.
func FieldErrors(err error) []string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		out = append(out, ns+": "+fe.Tag())
	}
	return out
}
