package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartkiosk/shelfjudge/internal/models"
)

// JudgmentRecord is one persisted judgment outcome, kept for auditing the
// charges the engine gated.
type JudgmentRecord struct {
	ID              string
	Status          string
	TotalPrice      int
	Confidence      float64
	WeightDelta     float64
	WeightExplained float64
	WeightResidual  float64
	Products        []models.ProductJudgment
	CreatedAt       time.Time
}

func NewJudgmentRecord(result *models.JudgmentResult) *JudgmentRecord {
	return &JudgmentRecord{
		ID:              uuid.New().String(),
		Status:          string(result.Status),
		TotalPrice:      result.TotalPrice,
		Confidence:      result.Confidence,
		WeightDelta:     result.WeightDelta,
		WeightExplained: result.WeightExplained,
		WeightResidual:  result.WeightResidual,
		Products:        result.Products,
		CreatedAt:       result.Timestamp,
	}
}

type JudgmentRepository struct {
	db *DB
}

func NewJudgmentRepository(db *DB) *JudgmentRepository {
	return &JudgmentRepository{db: db}
}

func (r *JudgmentRepository) Insert(ctx context.Context, record *JudgmentRecord) error {
	productsJSON, err := json.Marshal(record.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO judgments
			(id, status, total_price, confidence, weight_delta, weight_explained, weight_residual, products, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Status, record.TotalPrice, record.Confidence,
		record.WeightDelta, record.WeightExplained, record.WeightResidual,
		string(productsJSON), record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert judgment: %w", err)
	}
	return nil
}

func (r *JudgmentRepository) ListRecent(ctx context.Context, limit int) ([]JudgmentRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, status, total_price, confidence, weight_delta, weight_explained, weight_residual, products, created_at
		FROM judgments ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query judgments: %w", err)
	}
	defer rows.Close()

	var records []JudgmentRecord
	for rows.Next() {
		var record JudgmentRecord
		var productsJSON string
		if err := rows.Scan(
			&record.ID, &record.Status, &record.TotalPrice, &record.Confidence,
			&record.WeightDelta, &record.WeightExplained, &record.WeightResidual,
			&productsJSON, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan judgment: %w", err)
		}
		if err := json.Unmarshal([]byte(productsJSON), &record.Products); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products for %s: %w", record.ID, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *JudgmentRepository) GetByID(ctx context.Context, id string) (*JudgmentRecord, error) {
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT id, status, total_price, confidence, weight_delta, weight_explained, weight_residual, products, created_at
		FROM judgments WHERE id = ?`, id)

	var record JudgmentRecord
	var productsJSON string
	if err := row.Scan(
		&record.ID, &record.Status, &record.TotalPrice, &record.Confidence,
		&record.WeightDelta, &record.WeightExplained, &record.WeightResidual,
		&productsJSON, &record.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("judgment not found: %w", err)
	}
	if err := json.Unmarshal([]byte(productsJSON), &record.Products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products for %s: %w", record.ID, err)
	}
	return &record, nil
}
