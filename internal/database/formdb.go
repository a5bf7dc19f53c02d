package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nanomedlab/nanomed/internal/model"
)

// FormulationDB provides SQLite-based storage for formulation records,
// treatment plans, and simulation results. It manages connection pooling
// and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all record types
// rather than separate files per concern. Treatments reference
// nanoparticles by foreign key, so one file keeps relationship queries
// and backup/restore simple.
type FormulationDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures FormulationDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a FormulationDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*FormulationDB, error) {
	dbPath := filepath.Join(dbDir, "nanomed.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections don't help here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	fdb := &FormulationDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := fdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return fdb, nil
}

// Close closes the database connection.
func (fdb *FormulationDB) Close() error {
	return fdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (fdb *FormulationDB) createTables() error {
	schema := `
	-- Nanoparticle formulation records
	CREATE TABLE IF NOT EXISTS nanoparticles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		diameter_nm REAL NOT NULL,
		surface_charge_mv REAL NOT NULL,
		drug_payload TEXT NOT NULL,
		encapsulation_pct REAL NOT NULL,
		targeting_ligand TEXT,
		material TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_np_drug ON nanoparticles(drug_payload);
	CREATE INDEX IF NOT EXISTS idx_np_name ON nanoparticles(name);

	-- Treatment plans referencing formulations
	CREATE TABLE IF NOT EXISTS treatments (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		nanoparticle_id TEXT NOT NULL,
		dose_mg_kg REAL NOT NULL,
		route TEXT NOT NULL,
		frequency TEXT NOT NULL,
		duration_days INTEGER NOT NULL,
		status TEXT NOT NULL,
		efficacy_pct REAL DEFAULT 0,
		side_effects TEXT DEFAULT '[]',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(nanoparticle_id) REFERENCES nanoparticles(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tx_patient ON treatments(patient_id);
	CREATE INDEX IF NOT EXISTS idx_tx_status ON treatments(status);

	-- Per-tissue biodistribution rows from simulation runs
	CREATE TABLE IF NOT EXISTS biodistribution (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nanoparticle_id TEXT NOT NULL,
		tissue TEXT NOT NULL,
		fraction_of_dose REAL NOT NULL,
		dose_mg REAL NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(nanoparticle_id) REFERENCES nanoparticles(id)
	);

	CREATE INDEX IF NOT EXISTS idx_biodist_np ON biodistribution(nanoparticle_id);
	CREATE INDEX IF NOT EXISTS idx_biodist_tissue ON biodistribution(tissue);

	-- Simulation reports store complete results as JSON
	CREATE TABLE IF NOT EXISTS simulation_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nanoparticle_id TEXT NOT NULL,
		target_tissue TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		risk_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_np ON simulation_reports(nanoparticle_id);
	CREATE INDEX IF NOT EXISTS idx_reports_timestamp ON simulation_reports(timestamp);
	`

	_, err := fdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertNanoparticle stores a formulation record.
// The record is validated before insertion so out-of-range values can never
// reach the database even through a hand-built struct.
func (fdb *FormulationDB) InsertNanoparticle(ctx context.Context, np *model.Nanoparticle) error {
	if err := np.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid nanoparticle: %w", err)
	}

	query := `
	INSERT INTO nanoparticles (id, name, type, diameter_nm, surface_charge_mv, drug_payload, encapsulation_pct, targeting_ligand, material, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := fdb.db.ExecContext(ctx, query,
		np.ID,
		np.Name,
		string(np.Type),
		np.DiameterNm,
		np.SurfaceChargeMv,
		np.DrugPayload,
		np.EncapsulationPct,
		np.TargetingLigand,
		string(np.Material),
		np.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert nanoparticle: %w", err)
	}

	return nil
}

// GetNanoparticle retrieves a formulation record by ID.
// Returns (nil, nil) if no record exists.
func (fdb *FormulationDB) GetNanoparticle(ctx context.Context, id string) (*model.Nanoparticle, error) {
	query := `
	SELECT id, name, type, diameter_nm, surface_charge_mv, drug_payload, encapsulation_pct, targeting_ligand, material, created_at
	FROM nanoparticles
	WHERE id = ?
	`

	np, err := scanNanoparticle(fdb.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nanoparticle: %w", err)
	}
	return np, nil
}

// ListNanoparticles returns all stored formulation records, newest first.
func (fdb *FormulationDB) ListNanoparticles(ctx context.Context) ([]*model.Nanoparticle, error) {
	query := `
	SELECT id, name, type, diameter_nm, surface_charge_mv, drug_payload, encapsulation_pct, targeting_ligand, material, created_at
	FROM nanoparticles
	ORDER BY created_at DESC, id
	`

	rows, err := fdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list nanoparticles: %w", err)
	}
	defer rows.Close()

	var results []*model.Nanoparticle
	for rows.Next() {
		np, err := scanNanoparticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nanoparticle: %w", err)
		}
		results = append(results, np)
	}

	return results, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanNanoparticle reads one nanoparticle row.
func scanNanoparticle(row rowScanner) (*model.Nanoparticle, error) {
	var np model.Nanoparticle
	var typeStr, materialStr, createdAt string
	var ligand sql.NullString

	err := row.Scan(
		&np.ID,
		&np.Name,
		&typeStr,
		&np.DiameterNm,
		&np.SurfaceChargeMv,
		&np.DrugPayload,
		&np.EncapsulationPct,
		&ligand,
		&materialStr,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	np.Type = model.ParticleType(typeStr)
	np.Material = model.Material(materialStr)
	np.TargetingLigand = ligand.String
	np.CreatedAt = parseTimestamp(createdAt)

	return &np, nil
}

// InsertTreatment stores a treatment plan.
func (fdb *FormulationDB) InsertTreatment(ctx context.Context, plan *model.TreatmentPlan) error {
	sideEffectsJSON, err := json.Marshal(plan.SideEffects)
	if err != nil {
		return fmt.Errorf("failed to serialize side effects: %w", err)
	}

	query := `
	INSERT INTO treatments (id, patient_id, nanoparticle_id, dose_mg_kg, route, frequency, duration_days, status, efficacy_pct, side_effects, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = fdb.db.ExecContext(ctx, query,
		plan.ID,
		plan.PatientID,
		plan.NanoparticleID,
		plan.DoseMgKg,
		string(plan.Route),
		plan.Frequency,
		plan.DurationDays,
		string(plan.Status),
		plan.EfficacyPct,
		string(sideEffectsJSON),
		plan.CreatedAt.Format(time.RFC3339),
		plan.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert treatment: %w", err)
	}

	return nil
}

// UpdateTreatmentOutcome records observed efficacy and side effects for a
// treatment and moves it to the given status.
func (fdb *FormulationDB) UpdateTreatmentOutcome(ctx context.Context, id string, efficacyPct float64, sideEffects []string, status model.TreatmentStatus) error {
	if sideEffects == nil {
		sideEffects = []string{}
	}
	sideEffectsJSON, err := json.Marshal(sideEffects)
	if err != nil {
		return fmt.Errorf("failed to serialize side effects: %w", err)
	}

	query := `
	UPDATE treatments SET efficacy_pct = ?, side_effects = ?, status = ?, updated_at = ?
	WHERE id = ?
	`

	result, err := fdb.db.ExecContext(ctx, query,
		efficacyPct,
		string(sideEffectsJSON),
		string(status),
		time.Now().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update treatment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("treatment %s not found", id)
	}

	return nil
}

// QueryTreatments retrieves treatment plans with optional filters.
// Empty patientID or status means no filter on that column.
func (fdb *FormulationDB) QueryTreatments(ctx context.Context, patientID string, status model.TreatmentStatus) ([]*model.TreatmentPlan, error) {
	query := `
	SELECT id, patient_id, nanoparticle_id, dose_mg_kg, route, frequency, duration_days, status, efficacy_pct, side_effects, created_at, updated_at
	FROM treatments
	WHERE 1=1
	`
	args := make([]any, 0)

	if patientID != "" {
		query += " AND patient_id = ?"
		args = append(args, patientID)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY created_at DESC, id"

	rows, err := fdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query treatments: %w", err)
	}
	defer rows.Close()

	var results []*model.TreatmentPlan
	for rows.Next() {
		var plan model.TreatmentPlan
		var routeStr, statusStr, sideEffectsJSON, createdAt, updatedAt string

		err := rows.Scan(
			&plan.ID,
			&plan.PatientID,
			&plan.NanoparticleID,
			&plan.DoseMgKg,
			&routeStr,
			&plan.Frequency,
			&plan.DurationDays,
			&statusStr,
			&plan.EfficacyPct,
			&sideEffectsJSON,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan treatment: %w", err)
		}

		plan.Route = model.Route(routeStr)
		plan.Status = model.TreatmentStatus(statusStr)
		plan.CreatedAt = parseTimestamp(createdAt)
		plan.UpdatedAt = parseTimestamp(updatedAt)

		if sideEffectsJSON != "" {
			if err := json.Unmarshal([]byte(sideEffectsJSON), &plan.SideEffects); err != nil {
				return nil, fmt.Errorf("failed to parse side effects: %w", err)
			}
		}

		results = append(results, &plan)
	}

	return results, rows.Err()
}

// InsertBiodistribution stores the per-tissue rows of a simulation run.
func (fdb *FormulationDB) InsertBiodistribution(ctx context.Context, profile *model.BiodistributionProfile) error {
	query := `
	INSERT INTO biodistribution (nanoparticle_id, tissue, fraction_of_dose, dose_mg)
	VALUES (?, ?, ?, ?)
	`

	for _, tissue := range model.Tissues() {
		fraction, ok := profile.Fractions[tissue]
		if !ok {
			continue
		}
		if _, err := fdb.db.ExecContext(ctx, query,
			profile.NanoparticleID,
			string(tissue),
			fraction,
			profile.DoseMg,
		); err != nil {
			return fmt.Errorf("failed to insert biodistribution row: %w", err)
		}
	}

	return nil
}

// SaveSimulationReport saves a complete simulation report as JSON together
// with a small risk summary for cheap history listings.
func (fdb *FormulationDB) SaveSimulationReport(ctx context.Context, report *model.SimulationReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	riskSummary := map[string]any{
		"high":     0,
		"moderate": 0,
		"low":      0,
	}
	if report.SimpleReport != nil {
		riskSummary["high"] = report.SimpleReport.HighCount
		riskSummary["moderate"] = report.SimpleReport.ModerateCount
		riskSummary["low"] = report.SimpleReport.LowCount
		riskSummary["safety_score"] = report.SimpleReport.SafetyScore
	}
	riskJSON, _ := json.Marshal(riskSummary) //nolint:errcheck,errchkjson // riskSummary is a simple map; Marshal won't fail

	query := `
	INSERT INTO simulation_reports (nanoparticle_id, target_tissue, report_json, risk_summary)
	VALUES (?, ?, ?, ?)
	`

	var npID string
	if report.Nanoparticle != nil {
		npID = report.Nanoparticle.ID
	}

	_, err = fdb.db.ExecContext(ctx, query,
		npID,
		string(report.TargetTissue),
		string(reportJSON),
		string(riskJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save simulation report: %w", err)
	}

	return nil
}

// GetLatestSimulationReport retrieves the most recent simulation report for
// a nanoparticle. Returns (nil, nil) if none exists.
func (fdb *FormulationDB) GetLatestSimulationReport(ctx context.Context, nanoparticleID string) (*model.SimulationReport, error) {
	query := `
	SELECT report_json FROM simulation_reports
	WHERE nanoparticle_id = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	var reportJSON string
	err := fdb.db.QueryRowContext(ctx, query, nanoparticleID).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation report: %w", err)
	}

	var report model.SimulationReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetSimulationReports retrieves all stored simulation reports for a
// nanoparticle, newest first.
func (fdb *FormulationDB) GetSimulationReports(ctx context.Context, nanoparticleID string) ([]*model.SimulationReport, error) {
	query := `
	SELECT report_json FROM simulation_reports
	WHERE nanoparticle_id = ?
	ORDER BY timestamp DESC
	`

	rows, err := fdb.db.QueryContext(ctx, query, nanoparticleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation reports: %w", err)
	}
	defer rows.Close()

	var results []*model.SimulationReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.SimulationReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			return nil, fmt.Errorf("failed to parse report: %w", err)
		}
		results = append(results, &report)
	}

	return results, rows.Err()
}

// GetSimulationReportByID retrieves a single stored report by its database ID.
// Returns (nil, nil) if no report exists with that ID.
func (fdb *FormulationDB) GetSimulationReportByID(ctx context.Context, id int64) (*model.SimulationReport, error) {
	query := `SELECT report_json FROM simulation_reports WHERE id = ?`

	var reportJSON string
	err := fdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation report: %w", err)
	}

	var report model.SimulationReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// SimulationReportMetadata contains summary information about a stored
// simulation report. This is used for displaying history without loading
// full reports.
type SimulationReportMetadata struct {
	// ID is the unique identifier of the report in the database.
	ID int64

	// NanoparticleID is the simulated formulation.
	NanoparticleID string

	// TargetTissue is the delivery target of the run.
	TargetTissue string

	// Timestamp is when the simulation was performed.
	Timestamp time.Time

	// RiskSummary contains finding counts by risk level and the safety score.
	RiskSummary map[string]any
}

// GetSimulationHistory retrieves metadata for all stored simulation reports
// of a nanoparticle, newest first.
func (fdb *FormulationDB) GetSimulationHistory(ctx context.Context, nanoparticleID string) ([]SimulationReportMetadata, error) {
	query := `
	SELECT id, nanoparticle_id, target_tissue, timestamp, risk_summary
	FROM simulation_reports
	WHERE nanoparticle_id = ?
	ORDER BY timestamp DESC
	`

	rows, err := fdb.db.QueryContext(ctx, query, nanoparticleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation history: %w", err)
	}
	defer rows.Close()

	var results []SimulationReportMetadata
	for rows.Next() {
		var meta SimulationReportMetadata
		var timestamp string
		var riskJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.NanoparticleID, &meta.TargetTissue, &timestamp, &riskJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if riskJSON.Valid && riskJSON.String != "" {
			if err := json.Unmarshal([]byte(riskJSON.String), &meta.RiskSummary); err != nil {
				meta.RiskSummary = make(map[string]any)
			}
		} else {
			meta.RiskSummary = make(map[string]any)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
