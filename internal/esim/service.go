// AngelaMos | 2026
// service.go

package esim

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/simulate"
)

var (
	ErrActivationFailed = errors.New("activation failed")
	ErrAlreadyActive    = errors.New("esim already active")
)

const (
	defaultPlanName       = "eSimphony Plan"
	defaultDataTotal      = 10
	defaultExpirationDays = 30

	MessageFailedExpected = "Automatic activation failed as expected for this test account. Switching to manual setup."
	MessageFailed         = "Automatic activation failed. Please use manual setup."
)

// ManualSetup is what a user types or scans when automatic activation
// is not possible.
type ManualSetup struct {
	SMDPAddress      string `json:"smdpAddress"`
	ActivationCode   string `json:"activationCode"`
	ConfirmationCode string `json:"confirmationCode"`
	QRCodeData       string `json:"qrCodeData"`
}

var manualSetup = ManualSetup{
	SMDPAddress:      "1$smdp.esimphony.com$activation_code_123456",
	ActivationCode:   "ESIM-ACT-789012345",
	ConfirmationCode: "CONF-789123",
	QRCodeData:       "LPA:1$smdp.esimphony.com$activation_code_123456",
}

type Result struct {
	State   State         `json:"state"`
	User    *session.User `json:"user"`
	Message string        `json:"message,omitempty"`
	Manual  *ManualSetup  `json:"manual,omitempty"`
}

type StatusView struct {
	State      State              `json:"state"`
	ESIMStatus session.ESIMStatus `json:"esimStatus"`
	Usage      *session.UsageData `json:"usageData,omitempty"`
	Plan       *session.Plan      `json:"activePlan,omitempty"`
}

var mobileAgent = regexp.MustCompile(`iPad|iPhone|iPod|Android`)

// SupportsAutoActivation reports whether a client can be provisioned
// without the manual flow.
func SupportsAutoActivation(userAgent string) bool {
	return mobileAgent.MatchString(userAgent)
}

type Config struct {
	Latency     time.Duration
	SuccessRate float64
	Source      simulate.Source
}

type Service struct {
	exec   *simulate.Executor
	cfg    Config
	logger *slog.Logger
}

func NewService(exec *simulate.Executor, cfg Config, logger *slog.Logger) *Service {
	return &Service{exec: exec, cfg: cfg, logger: logger}
}

func (s *Service) Status(user *session.User) *StatusView {
	return &StatusView{
		State:      StateOf(user),
		ESIMStatus: user.Status(),
		Usage:      user.UsageData,
		Plan:       user.ActivePlan,
	}
}

// Manual moves straight to manual setup. The record is not touched.
func (s *Service) Manual(user *session.User) (*Result, error) {
	state, err := StateOf(user).Next(EventManual)
	if err != nil {
		return nil, ErrAlreadyActive
	}
	data := manualSetup
	return &Result{State: state, User: user, Manual: &data}, nil
}

// Activate attempts automatic activation. A failed attempt ends in
// manual setup with the record unchanged; the returned error wraps
// ErrActivationFailed and the Result still carries the manual data.
func (s *Service) Activate(
	ctx context.Context,
	store *session.Store,
	user *session.User,
	autoCapable bool,
) (*Result, error) {
	state, err := StateOf(user).Next(EventStart)
	if err != nil {
		return nil, ErrAlreadyActive
	}

	if !autoCapable {
		return s.Manual(user)
	}

	updated := user.Clone()
	_, err = s.exec.Run(ctx, simulate.Action{
		Name:    "esim.activate",
		Latency: s.cfg.Latency,
		Policy:  simulate.ForBehavior(user.ActivationBehavior, s.cfg.SuccessRate, s.cfg.Source),
		Failure: ErrActivationFailed,
		Apply: func(ctx context.Context) error {
			usage := &session.UsageData{
				PlanName:       defaultPlanName,
				DataTotal:      defaultDataTotal,
				ExpirationDays: defaultExpirationDays,
			}
			if plan := updated.ActivePlan; plan != nil {
				if plan.Name != "" {
					usage.PlanName = plan.Name
				}
				if plan.DataTotal > 0 {
					usage.DataTotal = plan.DataTotal
				}
			}

			updated.ESIMStatus = session.ESIMActive
			updated.UsageData = usage
			return store.Save(ctx, updated)
		},
	})

	switch {
	case err == nil:
		state, _ = state.Next(EventSucceed)
		s.logger.InfoContext(ctx, "esim activated", "scope", store.KV().Scope())
		return &Result{State: state, User: updated}, nil

	case errors.Is(err, ErrActivationFailed):
		state, _ = state.Next(EventFail)
		state, _ = state.Next(EventManual)

		message := MessageFailed
		if user.ActivationBehavior == session.BehaviorFail {
			message = MessageFailedExpected
		}
		data := manualSetup

		s.logger.InfoContext(ctx, "esim activation failed",
			"scope", store.KV().Scope(),
			"behavior", user.ActivationBehavior,
		)
		return &Result{State: state, User: user, Message: message, Manual: &data}, err

	default:
		return nil, err
	}
}
