package database

import (
	"context"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MachineRepository interface {
	ActiveMachines(ctx context.Context) ([]types.Machine, error)
	GetMachine(ctx context.Context, machineID string) (types.Machine, error)
	SaveMachines(ctx context.Context, machines []types.Machine) error
}

type machineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(connect ConnectorFunc) (MachineRepository, error) {
	impl, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Machine{})
	if err != nil {
		return nil, err
	}

	return &machineRepository{
		db: impl,
	}, nil
}

func (d *machineRepository) ActiveMachines(ctx context.Context) ([]types.Machine, error) {
	rows := []Machine{}

	err := d.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}

	machines := make([]types.Machine, 0, len(rows))
	for _, m := range rows {
		machines = append(machines, m.toType())
	}

	return machines, nil
}

func (d *machineRepository) GetMachine(ctx context.Context, machineID string) (types.Machine, error) {
	m := Machine{}

	err := d.db.WithContext(ctx).Where("id = ?", machineID).First(&m).Error
	if err != nil {
		return types.Machine{}, storeErr(err)
	}

	return m.toType(), nil
}

func (d *machineRepository) SaveMachines(ctx context.Context, machines []types.Machine) error {
	if len(machines) == 0 {
		return nil
	}

	rows := make([]Machine, 0, len(machines))
	for _, m := range machines {
		rows = append(rows, Machine{ID: m.ID, Name: m.Name, Type: m.Type, Location: m.Location, Active: m.Active})
	}

	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "type", "location", "active", "updated_at"}),
	}).Create(&rows).Error

	return storeErr(err)
}
