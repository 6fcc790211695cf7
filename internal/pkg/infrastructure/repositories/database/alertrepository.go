package database

import (
	"context"
	"time"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	"gorm.io/gorm"
)

//go:generate moq -rm -out alertrepository_mock.go . AlertRepository

type AlertRepository interface {
	Add(ctx context.Context, alert types.Alert) error
	GetByID(ctx context.Context, alertID string) (types.Alert, error)
	Query(ctx context.Context, filter types.AlertFilter) (types.Collection[types.Alert], error)
	Acknowledge(ctx context.Context, alertID, actor string, at time.Time) (types.Alert, bool, error)
	Resolve(ctx context.Context, alertID string, at time.Time) (types.Alert, bool, error)
	MarkNotified(ctx context.Context, alertID string) error
	Stats(ctx context.Context, since time.Time, topMachines int) (types.AlertStats, error)
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(connect ConnectorFunc) (AlertRepository, error) {
	impl, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Alert{})
	if err != nil {
		return nil, err
	}

	return &alertRepository{
		db: impl,
	}, nil
}

func (d *alertRepository) Add(ctx context.Context, alert types.Alert) error {
	a := alertToModel(alert)
	return storeErr(d.db.WithContext(ctx).Create(&a).Error)
}

func (d *alertRepository) GetByID(ctx context.Context, alertID string) (types.Alert, error) {
	a := Alert{}

	err := d.db.WithContext(ctx).Where("id = ?", alertID).First(&a).Error
	if err != nil {
		return types.Alert{}, storeErr(err)
	}

	return a.toType(), nil
}

func (d *alertRepository) Query(ctx context.Context, filter types.AlertFilter) (types.Collection[types.Alert], error) {
	filtered := func() *gorm.DB {
		q := d.db.WithContext(ctx).Model(&Alert{})

		if filter.MachineID != "" {
			q = q.Where("machine_id = ?", filter.MachineID)
		}
		if filter.Severity.Valid() {
			q = q.Where("severity = ?", filter.Severity.String())
		}
		if filter.Status != "" {
			q = q.Where("status = ?", string(filter.Status))
		}
		if filter.From != nil {
			q = q.Where("occurred_at >= ?", filter.From.UTC())
		}
		if filter.To != nil {
			q = q.Where("occurred_at <= ?", filter.To.UTC())
		}

		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return types.Collection[types.Alert]{}, storeErr(err)
	}

	rows := []Alert{}
	q := filtered().Order("occurred_at DESC").Order("id ASC").Offset(filter.Offset)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	if err := q.Find(&rows).Error; err != nil {
		return types.Collection[types.Alert]{}, storeErr(err)
	}

	alerts := make([]types.Alert, 0, len(rows))
	for _, r := range rows {
		alerts = append(alerts, r.toType())
	}

	return types.Collection[types.Alert]{
		Data:       alerts,
		Count:      uint64(len(alerts)),
		Offset:     uint64(filter.Offset),
		Limit:      uint64(filter.Limit),
		TotalCount: uint64(total),
	}, nil
}

// Acknowledge moves an Active alert to Acknowledged. The returned bool is false
// when the alert existed but was not Active, in which case it is left as is.
func (d *alertRepository) Acknowledge(ctx context.Context, alertID, actor string, at time.Time) (types.Alert, bool, error) {
	result := d.db.WithContext(ctx).Model(&Alert{}).
		Where("id = ? AND status = ?", alertID, string(types.AlertStatusActive)).
		Updates(map[string]any{
			"status":          string(types.AlertStatusAcknowledged),
			"acknowledged_by": actor,
			"acknowledged_at": at.UTC(),
		})
	if result.Error != nil {
		return types.Alert{}, false, storeErr(result.Error)
	}

	a, err := d.GetByID(ctx, alertID)
	return a, result.RowsAffected > 0, err
}

// Resolve moves an Active or Acknowledged alert to Resolved. Resolved alerts keep
// their first resolvedAt.
func (d *alertRepository) Resolve(ctx context.Context, alertID string, at time.Time) (types.Alert, bool, error) {
	result := d.db.WithContext(ctx).Model(&Alert{}).
		Where("id = ? AND status <> ?", alertID, string(types.AlertStatusResolved)).
		Updates(map[string]any{
			"status":      string(types.AlertStatusResolved),
			"resolved_at": at.UTC(),
		})
	if result.Error != nil {
		return types.Alert{}, false, storeErr(result.Error)
	}

	a, err := d.GetByID(ctx, alertID)
	return a, result.RowsAffected > 0, err
}

func (d *alertRepository) MarkNotified(ctx context.Context, alertID string) error {
	result := d.db.WithContext(ctx).Model(&Alert{}).
		Where("id = ?", alertID).
		Update("notification_sent", true)
	if result.Error != nil {
		return storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type groupCount struct {
	Grp  string
	Name string
	Cnt  int64
}

func (d *alertRepository) Stats(ctx context.Context, since time.Time, topMachines int) (types.AlertStats, error) {
	stats := types.AlertStats{
		Since:     since.UTC(),
		ByType:    []types.TypeCount{},
		ByMachine: []types.MachineCount{},
	}

	group := func(column string) ([]groupCount, error) {
		rows := []groupCount{}
		err := d.db.WithContext(ctx).Model(&Alert{}).
			Select(column+" AS grp, COUNT(*) AS cnt").
			Where("occurred_at >= ?", since.UTC()).
			Group(column).
			Order("cnt DESC").
			Scan(&rows).Error
		return rows, storeErr(err)
	}

	bySeverity, err := group("severity")
	if err != nil {
		return stats, err
	}
	for _, r := range bySeverity {
		stats.Summary.Total += r.Cnt
		switch r.Grp {
		case types.SeverityCritical.String():
			stats.Summary.Critical = r.Cnt
		case types.SeverityHigh.String():
			stats.Summary.High = r.Cnt
		case types.SeverityMedium.String():
			stats.Summary.Medium = r.Cnt
		case types.SeverityLow.String():
			stats.Summary.Low = r.Cnt
		}
	}

	byStatus, err := group("status")
	if err != nil {
		return stats, err
	}
	for _, r := range byStatus {
		switch types.AlertStatus(r.Grp) {
		case types.AlertStatusActive:
			stats.Summary.Active = r.Cnt
		case types.AlertStatusAcknowledged:
			stats.Summary.Acknowledged = r.Cnt
		case types.AlertStatusResolved:
			stats.Summary.Resolved = r.Cnt
		}
	}

	byType, err := group("alert_type")
	if err != nil {
		return stats, err
	}
	for _, r := range byType {
		stats.ByType = append(stats.ByType, types.TypeCount{AlertType: r.Grp, Count: r.Cnt})
	}

	byMachine := []groupCount{}
	err = d.db.WithContext(ctx).Model(&Alert{}).
		Select("machine_id AS grp, MAX(machine_name) AS name, COUNT(*) AS cnt").
		Where("occurred_at >= ?", since.UTC()).
		Group("machine_id").
		Order("cnt DESC").
		Limit(topMachines).
		Scan(&byMachine).Error
	if err != nil {
		return stats, storeErr(err)
	}
	for _, r := range byMachine {
		stats.ByMachine = append(stats.ByMachine, types.MachineCount{MachineID: r.Grp, MachineName: r.Name, Count: r.Cnt})
	}

	return stats, nil
}

func (d *alertRepository) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("status = ? AND resolved_at < ?", string(types.AlertStatusResolved), cutoff.UTC()).
		Delete(&Alert{})

	return result.RowsAffected, storeErr(result.Error)
}
