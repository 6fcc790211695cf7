package recipients

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/repositories/database"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/samber/lo"
)

var ErrInvalidSettings = errors.New("invalid notification settings")

// Defaults are applied to operators the first time their settings are needed.
type Defaults struct {
	EmailEnabled    bool           `yaml:"emailEnabled"`
	MinSeverity     types.Severity `yaml:"minSeverity"`
	CooldownMinutes int            `yaml:"cooldownMinutes"`
	DailyDigest     bool           `yaml:"dailyDigest"`
	DigestTime      string         `yaml:"digestTime"`
}

func DefaultSettings() Defaults {
	return Defaults{
		EmailEnabled:    true,
		MinSeverity:     types.SeverityHigh,
		CooldownMinutes: 15,
		DailyDigest:     false,
		DigestTime:      "08:00",
	}
}

func (d Defaults) For(userID string) types.NotificationSettings {
	return types.NotificationSettings{
		UserID:          userID,
		EmailEnabled:    d.EmailEnabled,
		MinSeverity:     d.MinSeverity,
		CooldownMinutes: d.CooldownMinutes,
		DailyDigest:     d.DailyDigest,
		DigestTime:      d.DigestTime,
	}
}

type SettingsPatch struct {
	EmailEnabled    *bool           `json:"emailEnabled,omitempty"`
	EmailAddress    *string         `json:"emailAddress,omitempty"`
	MinSeverity     *types.Severity `json:"minSeverity,omitempty"`
	CooldownMinutes *int            `json:"cooldownMinutes,omitempty"`
	DailyDigest     *bool           `json:"dailyDigest,omitempty"`
	DigestTime      *string         `json:"digestTime,omitempty"`
}

//go:generate moq -rm -out resolver_mock.go . Resolver

type Resolver interface {
	Resolve(ctx context.Context, severity types.Severity) ([]types.Recipient, error)
	Settings(ctx context.Context, userID string) (types.NotificationSettings, error)
	UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (types.NotificationSettings, error)
}

type resolver struct {
	operators database.OperatorRepository
	defaults  Defaults
}

func New(operators database.OperatorRepository, defaults Defaults) Resolver {
	if !defaults.MinSeverity.Valid() {
		defaults.MinSeverity = DefaultSettings().MinSeverity
	}
	if defaults.CooldownMinutes <= 0 {
		defaults.CooldownMinutes = DefaultSettings().CooldownMinutes
	}
	if defaults.DigestTime == "" {
		defaults.DigestTime = DefaultSettings().DigestTime
	}

	return &resolver{
		operators: operators,
		defaults:  defaults,
	}
}

// Resolve returns the operators that want to hear about alerts of the given
// severity, together with the address each of them should be reached at.
func (r *resolver) Resolve(ctx context.Context, severity types.Severity) ([]types.Recipient, error) {
	operators, err := r.operators.ActiveOperators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}

	log := logging.GetFromContext(ctx)

	recipients := lo.FilterMap(operators, func(op types.Operator, _ int) (types.Recipient, bool) {
		settings, err := r.settingsFor(ctx, op.ID)
		if err != nil {
			log.Warn().Err(err).Str("operator_id", op.ID).Msg("could not load notification settings, skipping operator")
			return types.Recipient{}, false
		}

		if !settings.EmailEnabled || !severity.AtLeast(settings.MinSeverity) {
			return types.Recipient{}, false
		}

		address := lo.Ternary(strings.TrimSpace(settings.EmailAddress) != "", settings.EmailAddress, op.Email)
		if address == "" {
			log.Warn().Str("operator_id", op.ID).Msg("operator has no address to notify")
			return types.Recipient{}, false
		}

		return types.Recipient{OperatorID: op.ID, Address: address}, true
	})

	return lo.UniqBy(recipients, func(r types.Recipient) string {
		return strings.ToLower(r.Address)
	}), nil
}

// Settings returns stored settings, creating them from the defaults if the user
// has none. An empty address is reported as the operator's account address.
func (r *resolver) Settings(ctx context.Context, userID string) (types.NotificationSettings, error) {
	settings, err := r.settingsFor(ctx, userID)
	if err != nil {
		return types.NotificationSettings{}, err
	}

	if settings.EmailAddress == "" {
		if op, err := r.operators.GetOperator(ctx, userID); err == nil {
			settings.EmailAddress = op.Email
		}
	}

	return settings, nil
}

func (r *resolver) UpdateSettings(ctx context.Context, userID string, patch SettingsPatch) (types.NotificationSettings, error) {
	settings, err := r.settingsFor(ctx, userID)
	if err != nil {
		return types.NotificationSettings{}, err
	}

	if patch.EmailEnabled != nil {
		settings.EmailEnabled = *patch.EmailEnabled
	}
	if patch.EmailAddress != nil {
		address := strings.TrimSpace(*patch.EmailAddress)
		if address != "" && !strings.Contains(address, "@") {
			return types.NotificationSettings{}, fmt.Errorf("%w: %q is not an email address", ErrInvalidSettings, address)
		}
		settings.EmailAddress = address
	}
	if patch.MinSeverity != nil {
		if !patch.MinSeverity.Valid() {
			return types.NotificationSettings{}, fmt.Errorf("%w: unknown severity", ErrInvalidSettings)
		}
		settings.MinSeverity = *patch.MinSeverity
	}
	if patch.CooldownMinutes != nil {
		if *patch.CooldownMinutes < 1 || *patch.CooldownMinutes > 1440 {
			return types.NotificationSettings{}, fmt.Errorf("%w: cooldownMinutes must be between 1 and 1440", ErrInvalidSettings)
		}
		settings.CooldownMinutes = *patch.CooldownMinutes
	}
	if patch.DailyDigest != nil {
		settings.DailyDigest = *patch.DailyDigest
	}
	if patch.DigestTime != nil {
		if !digestTime.MatchString(*patch.DigestTime) {
			return types.NotificationSettings{}, fmt.Errorf("%w: digestTime must be HH:MM", ErrInvalidSettings)
		}
		settings.DigestTime = *patch.DigestTime
	}

	if err = r.operators.SaveSettings(ctx, settings); err != nil {
		return types.NotificationSettings{}, err
	}

	log := logging.GetFromContext(ctx)
	log.Info().Str("user_id", userID).Msg("notification settings updated")

	return settings, nil
}

var digestTime = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (r *resolver) settingsFor(ctx context.Context, userID string) (types.NotificationSettings, error) {
	settings, err := r.operators.GetSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return types.NotificationSettings{}, err
	}

	return r.operators.CreateSettingsIfMissing(ctx, r.defaults.For(userID))
}
