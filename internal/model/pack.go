package model

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// PackMetadata holds metadata from a model pack
type PackMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Version     string `json:"version"`
}

// LoadPack reads a linear model from a SQLite model pack.
//
// A pack has two tables:
//
//	metadata(name TEXT, value TEXT)
//	coefficients(position INTEGER, feature TEXT, weight REAL, mean REAL, scale REAL)
//
// The metadata keys intercept and output_scale are numeric; mean and scale
// columns may be NULL when the feature is not standardized.
func LoadPack(path string) (*Linear, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open model pack: %w", err)
	}
	defer db.Close()

	// Verify it's a valid model pack
	var count int
	err = db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name IN ('metadata','coefficients')").Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect model pack: %w", err)
	}
	if count != 2 {
		return nil, fmt.Errorf("%s is not a valid model pack", path)
	}

	meta, values, err := readPackMetadata(db)
	if err != nil {
		return nil, err
	}
	if meta.Type != "" && meta.Type != TypeLinear {
		return nil, fmt.Errorf("%w: model pack type %q", ErrUnsupported, meta.Type)
	}

	m := &Linear{
		Type:        TypeLinear,
		Name:        meta.Name,
		Description: meta.Description,
	}
	if v, ok := values["intercept"]; ok {
		if m.Intercept, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid intercept %q: %w", v, err)
		}
	}
	if v, ok := values["output_scale"]; ok {
		if m.OutputScale, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid output_scale %q: %w", v, err)
		}
	}

	if err := readPackCoefficients(db, m); err != nil {
		return nil, err
	}
	if err := m.check(); err != nil {
		return nil, err
	}

	return m, nil
}

// readPackMetadata returns the well-known metadata plus every raw key/value pair
func readPackMetadata(db *sql.DB) (*PackMetadata, map[string]string, error) {
	rows, err := db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	defer rows.Close()

	meta := &PackMetadata{}
	values := make(map[string]string)
	for rows.Next() {
		var key string
		var raw sql.NullString
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		if !raw.Valid {
			if key == "intercept" || key == "output_scale" {
				return nil, nil, fmt.Errorf("metadata %s is NULL", key)
			}
			continue
		}
		value := raw.String
		values[key] = value

		switch key {
		case "name":
			meta.Name = value
		case "description":
			meta.Description = value
		case "type":
			meta.Type = value
		case "version":
			meta.Version = value
		}
	}

	return meta, values, rows.Err()
}

// readPackCoefficients fills the weights and standardization parameters in position order
func readPackCoefficients(db *sql.DB, m *Linear) error {
	rows, err := db.Query("SELECT weight, mean, scale FROM coefficients ORDER BY position")
	if err != nil {
		return fmt.Errorf("failed to read coefficients: %w", err)
	}
	defer rows.Close()

	var means, scales []float64
	standardized := false
	for rows.Next() {
		var weight float64
		var mean, scale sql.NullFloat64
		if err := rows.Scan(&weight, &mean, &scale); err != nil {
			return fmt.Errorf("failed to scan coefficient: %w", err)
		}

		m.Coefficients = append(m.Coefficients, weight)
		means = append(means, mean.Float64)
		if scale.Valid {
			scales = append(scales, scale.Float64)
		} else {
			scales = append(scales, 1)
		}
		if mean.Valid || scale.Valid {
			standardized = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if standardized {
		m.Mean = means
		m.Scale = scales
	}
	return nil
}
