package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maintworks/facility-api/internal/models"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetRepository interface {
	GetAsset(ctx context.Context, assetID string) (models.Asset, error)
}

type assetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) GetAsset(ctx context.Context, assetID string) (models.Asset, error) {
	const query = `
		SELECT id, company_id, name, location_id, created_at, updated_at
		FROM facility.assets
		WHERE id = $1;
	`
	var (
		asset      models.Asset
		locationID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, assetID).Scan(
		&asset.ID,
		&asset.CompanyID,
		&asset.Name,
		&locationID,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Asset{}, ErrAssetNotFound
		}
		return models.Asset{}, err
	}
	asset.LocationID = nullableString(locationID)
	return asset, nil
}
