package database

import (
	"context"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate moq -rm -out operatorrepository_mock.go . OperatorRepository

type OperatorRepository interface {
	ActiveOperators(ctx context.Context) ([]types.Operator, error)
	GetOperator(ctx context.Context, operatorID string) (types.Operator, error)
	GetSettings(ctx context.Context, userID string) (types.NotificationSettings, error)
	CreateSettingsIfMissing(ctx context.Context, settings types.NotificationSettings) (types.NotificationSettings, error)
	SaveSettings(ctx context.Context, settings types.NotificationSettings) error
	SaveOperators(ctx context.Context, operators []types.Operator) error
}

type operatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(connect ConnectorFunc) (OperatorRepository, error) {
	impl, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Operator{}, &NotificationSettings{})
	if err != nil {
		return nil, err
	}

	return &operatorRepository{
		db: impl,
	}, nil
}

func (d *operatorRepository) ActiveOperators(ctx context.Context) ([]types.Operator, error) {
	rows := []Operator{}

	err := d.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}

	operators := make([]types.Operator, 0, len(rows))
	for _, o := range rows {
		operators = append(operators, o.toType())
	}

	return operators, nil
}

func (d *operatorRepository) GetOperator(ctx context.Context, operatorID string) (types.Operator, error) {
	o := Operator{}

	err := d.db.WithContext(ctx).Where("id = ?", operatorID).First(&o).Error
	if err != nil {
		return types.Operator{}, storeErr(err)
	}

	return o.toType(), nil
}

func (d *operatorRepository) GetSettings(ctx context.Context, userID string) (types.NotificationSettings, error) {
	s := NotificationSettings{}

	err := d.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		return types.NotificationSettings{}, storeErr(err)
	}

	return s.toType(), nil
}

// CreateSettingsIfMissing inserts settings unless the user already has some, and
// returns whatever is stored afterwards.
func (d *operatorRepository) CreateSettingsIfMissing(ctx context.Context, settings types.NotificationSettings) (types.NotificationSettings, error) {
	s := settingsToModel(settings)

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error
	if err != nil {
		return types.NotificationSettings{}, storeErr(err)
	}

	return d.GetSettings(ctx, settings.UserID)
}

func (d *operatorRepository) SaveSettings(ctx context.Context, settings types.NotificationSettings) error {
	s := settingsToModel(settings)

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email_enabled", "email_address", "min_severity", "cooldown_minutes", "daily_digest", "digest_time", "updated_at"}),
	}).Create(&s).Error

	return storeErr(err)
}

func (d *operatorRepository) SaveOperators(ctx context.Context, operators []types.Operator) error {
	if len(operators) == 0 {
		return nil
	}

	rows := make([]Operator, 0, len(operators))
	for _, o := range operators {
		rows = append(rows, Operator{ID: o.ID, Name: o.Name, Email: o.Email, Role: o.Role, Active: o.Active})
	}

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role", "active", "updated_at"}),
	}).Create(&rows).Error

	return storeErr(err)
}
