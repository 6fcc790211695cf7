package database

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/pkg/types"
)

// SeedMachines loads machines from a semicolon separated file with the header
// id;name;type;location;active
func SeedMachines(ctx context.Context, repo MachineRepository, reader io.Reader) error {
	rows, err := readRows(reader, 5)
	if err != nil {
		return err
	}

	machines := []types.Machine{}
	for idx, row := range rows {
		active, err := strconv.ParseBool(row[4])
		if err != nil {
			return fmt.Errorf("failed to parse active for machine %s on line %d: %w", row[0], idx+2, err)
		}

		machines = append(machines, types.Machine{
			ID:       row[0],
			Name:     row[1],
			Type:     row[2],
			Location: row[3],
			Active:   active,
		})
	}

	log := logging.GetFromContext(ctx)
	log.Info().Int("count", len(machines)).Msg("loaded machines from file")

	return repo.SaveMachines(ctx, machines)
}

// SeedOperators loads operators from a semicolon separated file with the header
// id;name;email;role;active
func SeedOperators(ctx context.Context, repo OperatorRepository, reader io.Reader) error {
	rows, err := readRows(reader, 5)
	if err != nil {
		return err
	}

	operators := []types.Operator{}
	for idx, row := range rows {
		active, err := strconv.ParseBool(row[4])
		if err != nil {
			return fmt.Errorf("failed to parse active for operator %s on line %d: %w", row[0], idx+2, err)
		}

		operators = append(operators, types.Operator{
			ID:     row[0],
			Name:   row[1],
			Email:  row[2],
			Role:   row[3],
			Active: active,
		})
	}

	log := logging.GetFromContext(ctx)
	log.Info().Int("count", len(operators)).Msg("loaded operators from file")

	return repo.SaveOperators(ctx, operators)
}

func readRows(reader io.Reader, columns int) ([][]string, error) {
	r := csv.NewReader(reader)
	r.Comma = ';'
	r.FieldsPerRecord = columns

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv data: %w", err)
	}

	if len(rows) == 0 {
		return rows, nil
	}

	seen := map[string]int{}
	for idx, row := range rows[1:] {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		if row[0] == "" {
			return nil, fmt.Errorf("missing id on line %d", idx+2)
		}
		if line, ok := seen[row[0]]; ok {
			return nil, fmt.Errorf("duplicate id %s found on lines %d and %d", row[0], line, idx+2)
		}
		seen[row[0]] = idx + 2
	}

	// Skip the CSV header
	return rows[1:], nil
}
