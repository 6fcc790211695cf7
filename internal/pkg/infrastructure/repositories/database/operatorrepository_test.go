package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestSeedOperatorsOnlyReturnsActive(t *testing.T) {
	is, ctx, r := testSetupOperatorRepository(t)

	operators, err := r.ActiveOperators(ctx)
	is.NoErr(err)
	is.Equal(len(operators), 2)
	is.Equal(operators[0].ID, "op1")
	is.Equal(operators[0].Email, "ada@example.com")
}

func TestSeedingTwiceUpdatesExistingOperators(t *testing.T) {
	is, ctx, r := testSetupOperatorRepository(t)

	is.NoErr(SeedOperators(ctx, r, strings.NewReader("id;name;email;role;active\nop3;Grace;grace@example.com;admin;true")))

	operators, err := r.ActiveOperators(ctx)
	is.NoErr(err)
	is.Equal(len(operators), 3)
}

func TestSeedRejectsDuplicateIDs(t *testing.T) {
	is, ctx, r := testSetupOperatorRepository(t)

	err := SeedOperators(ctx, r, strings.NewReader("id;name;email;role;active\nop1;A;a@b;viewer;true\nop1;B;b@b;viewer;true"))
	is.True(err != nil)
}

func TestSettingsAreCreatedOnlyOnce(t *testing.T) {
	is, ctx, r := testSetupOperatorRepository(t)

	_, err := r.GetSettings(ctx, "op1")
	is.True(errors.Is(err, ErrNotFound))

	created, err := r.CreateSettingsIfMissing(ctx, types.NotificationSettings{
		UserID:          "op1",
		EmailEnabled:    true,
		MinSeverity:     types.SeverityHigh,
		CooldownMinutes: 15,
	})
	is.NoErr(err)
	is.Equal(created.MinSeverity, types.SeverityHigh)

	again, err := r.CreateSettingsIfMissing(ctx, types.NotificationSettings{
		UserID:      "op1",
		MinSeverity: types.SeverityLow,
	})
	is.NoErr(err)
	is.Equal(again.MinSeverity, types.SeverityHigh)
	is.True(again.EmailEnabled)
}

func TestSaveSettingsOverwrites(t *testing.T) {
	is, ctx, r := testSetupOperatorRepository(t)

	s := types.NotificationSettings{UserID: "op1", EmailEnabled: true, MinSeverity: types.SeverityHigh, CooldownMinutes: 15}
	is.NoErr(r.SaveSettings(ctx, s))

	s.EmailEnabled = false
	s.EmailAddress = "alerts@example.com"
	is.NoErr(r.SaveSettings(ctx, s))

	stored, err := r.GetSettings(ctx, "op1")
	is.NoErr(err)
	is.True(!stored.EmailEnabled)
	is.Equal(stored.EmailAddress, "alerts@example.com")
}

func TestSeedMachines(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	r, err := NewMachineRepository(NewSQLiteConnector(ctx))
	is.NoErr(err)
	is.NoErr(SeedMachines(ctx, r, strings.NewReader(machinesCsv)))

	machines, err := r.ActiveMachines(ctx)
	is.NoErr(err)
	is.Equal(len(machines), 2)

	m, err := r.GetMachine(ctx, "cnc-02")
	is.NoErr(err)
	is.Equal(m.Name, "CNC Mill 02")
	is.True(!m.Active)

	_, err = r.GetMachine(ctx, "nosuchmachine")
	is.True(errors.Is(err, ErrNotFound))
}

func testSetupOperatorRepository(t *testing.T) (*is.I, context.Context, OperatorRepository) {
	is := is.New(t)
	ctx := context.Background()

	r, err := NewOperatorRepository(NewSQLiteConnector(ctx))
	is.NoErr(err)
	is.NoErr(SeedOperators(ctx, r, strings.NewReader(operatorsCsv)))

	return is, ctx, r
}

const operatorsCsv string = `id;name;email;role;active
op1;Ada;ada@example.com;operator;true
op2;Linus;linus@example.com;viewer;true
op9;Gone;gone@example.com;operator;false`

const machinesCsv string = `id;name;type;location;active
press-01;Hydraulic Press 01;press;Hall A;true
cnc-02;CNC Mill 02;cnc;Hall B;false
lathe-03;Lathe 03;lathe;Hall B;true`
