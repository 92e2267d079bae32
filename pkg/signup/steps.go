package signup

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"foundernet/pkg/users"
)

type Step int

const (
	StepUserDetails Step = iota + 1
	StepPersonalDetails
	StepRoleDetails
)

func (s Step) String() string {
	switch s {
	case StepUserDetails:
		return "user details"
	case StepPersonalDetails:
		return "personal details"
	case StepRoleDetails:
		return "role details"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

type UserDetails struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=founder investor"`
}

// Picture is a profile picture chosen locally and uploaded during submit.
type Picture struct {
	Filename string
	Data     []byte
}

type PersonalDetails struct {
	Bio           string   `json:"bio" validate:"max=500"`
	Location      string   `json:"location" validate:"required"`
	ProfilePicURL string   `json:"profile_pic_url" validate:"omitempty,url"`
	Picture       *Picture `json:"-" validate:"-"`
}

type FounderDetails struct {
	Skills      []string `json:"skills" validate:"required,min=1,dive,required"`
	Experience  string   `json:"experience" validate:"required"`
	LinkedInURL string   `json:"linkedin_url" validate:"omitempty,url"`
}

type InvestorDetails struct {
	FirmName        string   `json:"firm_name" validate:"required"`
	InvestmentFocus []string `json:"investment_focus" validate:"required,min=1,dive,required"`
	TicketMin       float64  `json:"ticket_min" validate:"gte=0"`
	TicketMax       float64  `json:"ticket_max" validate:"gtefield=TicketMin"`
	PortfolioURL    string   `json:"portfolio_url" validate:"omitempty,url"`
}

// Data is everything entered so far. Going back never clears it.
type Data struct {
	User     UserDetails
	Personal PersonalDetails
	Founder  *FounderDetails
	Investor *InvestorDetails
}

func (d Data) IsFounder() bool { return d.User.Role == users.RoleFounder }

func (d Data) clone() Data {
	out := d
	if p := d.Personal.Picture; p != nil {
		out.Personal.Picture = &Picture{Filename: p.Filename, Data: append([]byte(nil), p.Data...)}
	}
	if f := d.Founder; f != nil {
		fc := *f
		fc.Skills = append([]string(nil), f.Skills...)
		out.Founder = &fc
	}
	if inv := d.Investor; inv != nil {
		ic := *inv
		ic.InvestmentFocus = append([]string(nil), inv.InvestmentFocus...)
		out.Investor = &ic
	}
	return out
}

func samePicture(a, b *Picture) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Filename == b.Filename && bytes.Equal(a.Data, b.Data)
}

// ValidationError maps each invalid field to a message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.Fields[name])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "url":
		return name + " must be a valid URL"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s entry", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "eqfield":
		return name + " must match password"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "gtefield":
		return name + " must not be below the minimum"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	default:
		return name + " is invalid"
	}
}

func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		// dive errors name the element, e.g. skills[0]
		if _, seen := out.Fields[fe.Field()]; !seen {
			out.Fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return out
}
