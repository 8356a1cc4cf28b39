package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
)

// Table names for run history.
const (
	runsTable     = "statdeck_runs"
	verticesTable = "statdeck_radar_vertices"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// createHistoryTables creates the run tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{verticesTable, getCreateVerticesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for statdeck_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_token CHAR(36) NOT NULL,
				command VARCHAR(64) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_rows INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_token TEXT NOT NULL,
				command TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_rows INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_token TEXT NOT NULL,
				command TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_rows INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateVerticesQuery returns the CREATE TABLE query for statdeck_radar_vertices.
func getCreateVerticesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(verticesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				polygon_index INT NOT NULL,
				entity VARCHAR(255) NOT NULL,
				group_label VARCHAR(255) NOT NULL,
				color VARCHAR(32) NOT NULL,
				vertex_index INT NOT NULL,
				metric VARCHAR(255) NOT NULL,
				angle DOUBLE NOT NULL,
				radius DOUBLE,
				PRIMARY KEY (run_id, polygon_index, vertex_index)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				polygon_index INT NOT NULL,
				entity TEXT NOT NULL,
				group_label TEXT NOT NULL,
				color TEXT NOT NULL,
				vertex_index INT NOT NULL,
				metric TEXT NOT NULL,
				angle DOUBLE PRECISION NOT NULL,
				radius DOUBLE PRECISION,
				PRIMARY KEY (run_id, polygon_index, vertex_index)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				polygon_index INTEGER NOT NULL,
				entity TEXT NOT NULL,
				group_label TEXT NOT NULL,
				color TEXT NOT NULL,
				vertex_index INTEGER NOT NULL,
				metric TEXT NOT NULL,
				angle REAL NOT NULL,
				radius REAL,
				PRIMARY KEY (run_id, polygon_index, vertex_index)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run and returns its unique ID.
// Every run also gets a random token so exported rows stay traceable across databases.
func (hs *HistoryStoreImpl) BeginRun(command string, startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	token := uuid.NewString()

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_token, command, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, token, command, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_token, command, start_time, config_params) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, token, command, formatTime(startTime, hs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalRows int) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholders(hs.backend, 1))

	var raw any
	if err := hs.db.QueryRow(query, runID).Scan(&raw); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := scanTime(raw)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	var updateQuery string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_rows = $3 WHERE run_id = $4`, quotedTableName)
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_rows = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalRows, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordProfiles stores every vertex of every polygon, including the closing one.
// Undefined radii are stored as NULL.
func (hs *HistoryStoreImpl) RecordProfiles(runID int64, result schema.RadarResult) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}
	if len(result.Polygons) == 0 || len(result.Metrics) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, polygon_index, entity, group_label, color, vertex_index, metric, angle, radius)
		VALUES (%s)
	`, quoteTableName(verticesTable, hs.backend), placeholders(hs.backend, 9))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare vertex insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	m := len(result.Metrics)
	for pi, polygon := range result.Polygons {
		for vi, radius := range polygon.Radii {
			var r any
			if !math.IsNaN(radius) {
				r = radius
			}
			metric := result.Metrics[vi%m]
			if _, err := stmt.Exec(runID, pi, polygon.Entity, polygon.Group, polygon.Color, vi, metric, polygon.Angles[vi], r); err != nil {
				return fmt.Errorf("failed to insert vertex %d of %s: %w", vi, polygon.Entity, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vertices: %w", err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: map[string]int64{},
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to count runs: %w", err)
	}

	for _, table := range []string{runsTable, verticesTable} {
		var count int64
		if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	if status.TotalRuns == 0 {
		return status, nil
	}

	var lastID int64
	var lastStart, oldestStart any
	rangeQuery := fmt.Sprintf("SELECT MAX(run_id), MAX(start_time), MIN(start_time) FROM %s", quotedRuns)
	if err := hs.db.QueryRow(rangeQuery).Scan(&lastID, &lastStart, &oldestStart); err != nil {
		return status, fmt.Errorf("failed to get run range: %w", err)
	}
	status.LastRunID = lastID
	if t, err := scanTime(lastStart); err == nil {
		status.LastRunTime = t
	}
	if t, err := scanTime(oldestStart); err == nil {
		status.OldestRunTime = t
	}

	var totalRows sql.NullInt64
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT SUM(total_rows) FROM %s", quotedRuns)).Scan(&totalRows); err != nil {
		return status, fmt.Errorf("failed to sum rows: %w", err)
	}
	status.TotalRows = int(totalRows.Int64)

	return status, nil
}

// GetAllRuns returns every run in ID order.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_token, command, start_time, end_time, run_duration_ms, total_rows, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []schema.RunRecord
	for rows.Next() {
		var (
			run      schema.RunRecord
			start    any
			end      any
			duration sql.NullInt32
			params   sql.NullString
		)
		if err := rows.Scan(&run.RunID, &run.RunToken, &run.Command, &start, &end, &duration, &run.TotalRows, &params); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.StartTime, err = scanTime(start); err != nil {
			return nil, fmt.Errorf("failed to parse start_time of run %d: %w", run.RunID, err)
		}
		if end != nil {
			t, err := scanTime(end)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time of run %d: %w", run.RunID, err)
			}
			run.EndTime = &t
		}
		if duration.Valid {
			run.RunDurationMs = &duration.Int32
		}
		if params.Valid {
			run.ConfigParams = &params.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetAllVertices returns every recorded vertex ordered by run, polygon and index.
func (hs *HistoryStoreImpl) GetAllVertices() ([]schema.VertexRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, polygon_index, entity, group_label, color, vertex_index, metric, angle, radius
		FROM %s ORDER BY run_id, polygon_index, vertex_index`, quoteTableName(verticesTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vertices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vertices []schema.VertexRecord
	for rows.Next() {
		var v schema.VertexRecord
		var radius sql.NullFloat64
		if err := rows.Scan(&v.RunID, &v.PolygonIndex, &v.Entity, &v.GroupLabel, &v.Color, &v.VertexIndex, &v.Metric, &v.Angle, &radius); err != nil {
			return nil, fmt.Errorf("failed to scan vertex: %w", err)
		}
		if radius.Valid {
			v.Radius = &radius.Float64
		}
		vertices = append(vertices, v)
	}
	return vertices, rows.Err()
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}
