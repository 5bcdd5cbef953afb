package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"Keystone/internal/model"
)

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetBylogin(ctx context.Context, login string) (int, string, error)

	SaveRun(ctx context.Context, userID int, run *model.AnalysisRun) error
	GetRun(ctx context.Context, id string) (*model.AnalysisRun, error)
	EnqueueRun(ctx context.Context, userID int, id string, t model.AnalysisType, request []byte) error
	ClaimPendingRun(ctx context.Context) (string, []byte, error)
	SaveDesignResults(ctx context.Context, runID string, results []model.DesignResult) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetBylogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

// SaveRun upserts the run row. Results live in a jsonb payload; the status
// and message columns are kept separate so the worker can poll cheaply.
func (r *PostgresRepository) SaveRun(ctx context.Context, userID int, run *model.AnalysisRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	query := `INSERT INTO analysis_runs (id, user_id, type, status, message, payload, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET status=$4, message=$5, payload=$6, finished_at=$8`
	_, err = r.db.ExecContext(ctx, query, run.ID, userID, run.Type, run.Status, run.Message, payload, run.StartedAt, run.FinishedAt)
	return err
}

func (r *PostgresRepository) GetRun(ctx context.Context, id string) (*model.AnalysisRun, error) {
	var payload []byte
	query := "SELECT payload FROM analysis_runs WHERE id=$1"
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var run model.AnalysisRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// EnqueueRun inserts a pending row whose model column holds the submitted
// analysis request JSON. The payload column stays empty until the worker
// writes the outcome back via SaveRun.
func (r *PostgresRepository) EnqueueRun(ctx context.Context, userID int, id string, t model.AnalysisType, request []byte) error {
	query := `INSERT INTO analysis_runs (id, user_id, type, status, model, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, id, userID, t, model.RunPending, request, time.Now())
	return err
}

// ClaimPendingRun atomically takes one run enqueued by EnqueueRun, returning
// its id and the request JSON from the model column. sql.ErrNoRows when the
// queue is empty.
func (r *PostgresRepository) ClaimPendingRun(ctx context.Context) (string, []byte, error) {
	var id string
	var snapshot []byte
	query := `UPDATE analysis_runs SET status='running'
		WHERE id = (SELECT id FROM analysis_runs WHERE status='pending' ORDER BY started_at LIMIT 1 FOR UPDATE SKIP LOCKED)
		RETURNING id, model`
	err := r.db.QueryRowContext(ctx, query).Scan(&id, &snapshot)
	if err != nil {
		return "", nil, err
	}
	return id, snapshot, nil
}

// SaveDesignResults replaces all results for the run. A later run supersedes
// an earlier one for the same member or footing key.
func (r *PostgresRepository) SaveDesignResults(ctx context.Context, runID string, results []model.DesignResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM design_results WHERE run_id=$1", runID); err != nil {
		return err
	}
	query := `INSERT INTO design_results (run_id, member_id, footing_id, ratio, status, governing, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, res := range results {
		payload, err := json.Marshal(res)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, runID, res.MemberID, res.FootingID, res.Ratio, res.Status, res.Governing, payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}
