// Package signup drives the three-step registration flow and the remote calls
// that create the account once the last step is submitted.
package signup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"foundernet/pkg/client"
	"foundernet/pkg/profiles"
	"foundernet/pkg/uploads"
	"foundernet/pkg/users"
)

var (
	ErrWrongStep      = errors.New("step is not the current step")
	ErrRoleMismatch   = errors.New("role details do not match the selected role")
	ErrAlreadyCreated = errors.New("account already created")
	// ErrIncompleteRegistration means the account exists but a later step failed.
	// Resume retries what is left.
	ErrIncompleteRegistration = errors.New("registration incomplete")
)

// API is the subset of the REST client the registration needs. *client.Client satisfies it.
type API interface {
	Upload(ctx context.Context, filename string, r io.Reader) (uploads.Upload, error)
	CreateUser(ctx context.Context, req client.SignupRequest) (users.AuthResult, error)
	CreateFounderProfile(ctx context.Context, req client.FounderProfileRequest) (profiles.FounderProfile, error)
	CreateInvestorProfile(ctx context.Context, req client.InvestorProfileRequest) (profiles.InvestorProfile, error)
}

type Status int

const (
	Pending Status = iota
	Done
	Failed
	Skipped
)

func (s Status) String() string {
	return [...]string{"pending", "done", "failed", "skipped"}[s]
}

type StepResult struct {
	Status Status
	Err    error
}

func (r StepResult) settled() bool { return r.Status == Done || r.Status == Skipped }

// Outcome records what each remote call did.
type Outcome struct {
	Upload        StepResult
	User          StepResult
	Profile       StepResult
	ProfilePicURL string
	Auth          users.AuthResult
}

func (o Outcome) Complete() bool {
	return o.Upload.settled() && o.User.settled() && o.Profile.settled()
}

type Wizard struct {
	mu       sync.Mutex
	api      API
	validate *validator.Validate
	logger   *slog.Logger

	step    Step
	data    Data
	outcome Outcome
}

func New(api API, logger *slog.Logger) *Wizard {
	return &Wizard{api: api, validate: newValidator(), logger: logger, step: StepUserDetails}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Data returns a copy of the values entered so far.
func (w *Wizard) Data() Data {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.clone()
}

func (w *Wizard) Outcome() Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outcome
}

// Back returns to the previous step. Entered values stay.
func (w *Wizard) Back() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepUserDetails {
		w.step--
	}
	return w.step
}

func (w *Wizard) expect(s Step) error {
	if w.step != s {
		return fmt.Errorf("%w: at %s, got %s", ErrWrongStep, w.step, s)
	}
	return nil
}

// SubmitUserDetails validates step one and advances. On error the wizard stays put.
func (w *Wizard) SubmitUserDetails(d UserDetails) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepUserDetails); err != nil {
		return err
	}
	if w.outcome.User.Status == Done {
		return ErrAlreadyCreated
	}
	if err := validateStruct(w.validate, d); err != nil {
		return err
	}
	w.data.User = d
	w.step = StepPersonalDetails
	return nil
}

func (w *Wizard) SubmitPersonalDetails(d PersonalDetails) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepPersonalDetails); err != nil {
		return err
	}
	if err := validateStruct(w.validate, d); err != nil {
		return err
	}
	// once the account exists its picture is fixed; a new upload could not reach it
	if w.outcome.Upload.Status == Done && w.outcome.User.Status != Done && !samePicture(d.Picture, w.data.Personal.Picture) {
		w.outcome.Upload = StepResult{}
	}
	w.data.Personal = d
	w.data = w.data.clone()
	w.step = StepRoleDetails
	return nil
}

// SubmitFounderDetails validates the last step for a founder and registers.
func (w *Wizard) SubmitFounderDetails(ctx context.Context, d FounderDetails) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepRoleDetails); err != nil {
		return w.outcome, err
	}
	if !w.data.IsFounder() {
		return w.outcome, ErrRoleMismatch
	}
	if err := validateStruct(w.validate, d); err != nil {
		return w.outcome, err
	}
	w.data.Founder = &d
	w.data = w.data.clone()
	return w.run(ctx)
}

func (w *Wizard) SubmitInvestorDetails(ctx context.Context, d InvestorDetails) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.expect(StepRoleDetails); err != nil {
		return w.outcome, err
	}
	if w.data.User.Role != users.RoleInvestor {
		return w.outcome, ErrRoleMismatch
	}
	if err := validateStruct(w.validate, d); err != nil {
		return w.outcome, err
	}
	w.data.Investor = &d
	w.data = w.data.clone()
	return w.run(ctx)
}

// Resume retries the calls that have not succeeded yet. It works from any step
// once the role details have been submitted, and returns the wizard to the last
// step.
func (w *Wizard) Resume(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.outcome.Complete() {
		return w.outcome, nil
	}
	if w.data.Founder == nil && w.data.Investor == nil {
		return w.outcome, fmt.Errorf("%w: role details not submitted", ErrWrongStep)
	}
	w.step = StepRoleDetails
	return w.run(ctx)
}

// run performs upload, create user, create profile in order, skipping any
// step already done. Must be called with w.mu held.
func (w *Wizard) run(ctx context.Context) (Outcome, error) {
	o := &w.outcome

	if !o.Upload.settled() {
		pic := w.data.Personal.Picture
		if pic == nil || len(pic.Data) == 0 {
			o.Upload = StepResult{Status: Skipped}
		} else {
			up, err := w.api.Upload(ctx, pic.Filename, bytes.NewReader(pic.Data))
			if err != nil {
				o.Upload = StepResult{Status: Failed, Err: err}
				return *o, fmt.Errorf("upload profile picture: %w", err)
			}
			o.Upload = StepResult{Status: Done}
			o.ProfilePicURL = up.URL
		}
	}

	if !o.User.settled() {
		picURL := o.ProfilePicURL
		if picURL == "" {
			picURL = w.data.Personal.ProfilePicURL
		}
		res, err := w.api.CreateUser(ctx, client.SignupRequest{
			Name:          w.data.User.Name,
			Email:         w.data.User.Email,
			Role:          w.data.User.Role,
			Password:      w.data.User.Password,
			ProfilePicURL: picURL,
			Bio:           w.data.Personal.Bio,
			Location:      w.data.Personal.Location,
		})
		if err != nil {
			o.User = StepResult{Status: Failed, Err: err}
			return *o, fmt.Errorf("create user: %w", err)
		}
		o.User = StepResult{Status: Done}
		o.Auth = res
	}

	if !o.Profile.settled() {
		if err := w.createProfile(ctx, o.Auth.User.UUID); err != nil {
			o.Profile = StepResult{Status: Failed, Err: err}
			w.logger.Warn("registration incomplete", "user_uuid", o.Auth.User.UUID, "error", err)
			return *o, fmt.Errorf("%w: create profile: %w", ErrIncompleteRegistration, err)
		}
		o.Profile = StepResult{Status: Done}
	}

	return *o, nil
}

func (w *Wizard) createProfile(ctx context.Context, userUUID string) error {
	if w.data.IsFounder() {
		f := w.data.Founder
		_, err := w.api.CreateFounderProfile(ctx, client.FounderProfileRequest{
			UserUUID:    userUUID,
			Skills:      f.Skills,
			Experience:  f.Experience,
			LinkedInURL: f.LinkedInURL,
		})
		return err
	}

	inv := w.data.Investor
	_, err := w.api.CreateInvestorProfile(ctx, client.InvestorProfileRequest{
		UserUUID:        userUUID,
		FirmName:        inv.FirmName,
		InvestmentFocus: inv.InvestmentFocus,
		TicketMin:       inv.TicketMin,
		TicketMax:       inv.TicketMax,
		PortfolioURL:    inv.PortfolioURL,
	})
	return err
}
