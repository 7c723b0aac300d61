package rest

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/hazardhub/hazardhub_api/internal/model"
)

var ErrHazardNotFound = errors.New("hazard not found")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same queries
// serve plain reads and transactional updates.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const hazardColumns = `
	h.id, h.title, h.description, h.type, h.severity, h.status,
	ST_Y(h.position) AS latitude, ST_X(h.position) AS longitude, h.address,
	h.images, h.reported_by, h.assigned_to, h.resolution_details,
	h.resolution_date, h.predicted_priority, h.created_at, h.updated_at,
	u.id AS reporter_id, u.name AS reporter_name, u.email AS reporter_email`

const hazardFrom = ` FROM hazards h JOIN users u ON u.id = h.reported_by`

func (api *API) CreateHazardRepo(ctx context.Context, hazard model.Hazard) (model.Hazard, error) {
	query := `
		INSERT INTO hazards (
			id, title, description, type, severity, status, position, address,
			images, reported_by, resolution_details, predicted_priority
		)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			ST_SetSRID(ST_MakePoint($7, $8), 4326),
			$9, $10, $11, $12, $13
		)`

	_, err := api.DB.Exec(ctx, query,
		hazard.ID, hazard.Title, hazard.Description, hazard.Type,
		hazard.Severity, hazard.Status,
		hazard.Location.Longitude, hazard.Location.Latitude, hazard.Location.Address,
		hazard.Images, hazard.ReportedBy, hazard.ResolutionDetails, hazard.PredictedPriority,
	)
	if err != nil {
		return model.Hazard{}, errors.Wrap(err, "inserting hazard")
	}

	return api.GetHazardByIDRepo(ctx, hazard.ID)
}

func (api *API) GetHazardByIDRepo(ctx context.Context, id uuid.UUID) (model.Hazard, error) {
	return getHazardByID(ctx, api.DB, id, false)
}

func getHazardByID(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (model.Hazard, error) {
	query := `SELECT` + hazardColumns + hazardFrom + ` WHERE h.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF h`
	}

	hazard, err := scanHazard(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return model.Hazard{}, ErrHazardNotFound
	}
	if err != nil {
		return model.Hazard{}, errors.Wrap(err, "fetching hazard")
	}
	return hazard, nil
}

func (api *API) ListHazardsRepo(ctx context.Context) ([]model.Hazard, error) {
	query := `SELECT` + hazardColumns + hazardFrom + ` ORDER BY h.created_at DESC`

	rows, err := api.DB.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "listing hazards")
	}
	defer rows.Close()

	return collectHazards(rows)
}

func (api *API) GetNearbyHazardsRepo(ctx context.Context, params model.NearbyParams) ([]model.Hazard, error) {
	query := `SELECT` + hazardColumns + hazardFrom + `
		WHERE ST_DWithin(
			h.position::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)
		ORDER BY h.created_at DESC`

	rows, err := api.DB.Query(ctx, query,
		params.Longitude, params.Latitude, params.RadiusKM*1000)
	if err != nil {
		return nil, errors.Wrap(err, "querying nearby hazards")
	}
	defer rows.Close()

	return collectHazards(rows)
}

func updateHazardStatus(ctx context.Context, q querier, hazard model.Hazard) (model.Hazard, error) {
	query := `
		UPDATE hazards
		SET status = $2,
		    assigned_to = $3,
		    resolution_details = $4,
		    resolution_date = $5,
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		hazard.ID, hazard.Status, hazard.AssignedTo,
		hazard.ResolutionDetails, hazard.ResolutionDate)
	if err != nil {
		return model.Hazard{}, errors.Wrap(err, "updating hazard status")
	}
	if tag.RowsAffected() == 0 {
		return model.Hazard{}, ErrHazardNotFound
	}

	return getHazardByID(ctx, q, hazard.ID, false)
}

func (api *API) GetStatsRepo(ctx context.Context) (*model.HazardStats, error) {
	stats := &model.HazardStats{HazardByType: []model.TypeCount{}}

	err := api.DB.QueryRow(ctx, `SELECT COUNT(*) FROM hazards`).Scan(&stats.TotalHazards)
	if err != nil {
		return nil, errors.Wrap(err, "counting hazards")
	}

	rows, err := api.DB.Query(ctx,
		`SELECT type, COUNT(*) FROM hazards GROUP BY type ORDER BY COUNT(*) DESC, type`)
	if err != nil {
		return nil, errors.Wrap(err, "grouping hazards by type")
	}
	defer rows.Close()

	for rows.Next() {
		var tc model.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, errors.Wrap(err, "scanning type count")
		}
		stats.HazardByType = append(stats.HazardByType, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating type counts")
	}

	return stats, nil
}

func scanHazard(row pgx.Row) (model.Hazard, error) {
	var (
		h        model.Hazard
		reporter model.Reporter
	)
	err := row.Scan(
		&h.ID, &h.Title, &h.Description, &h.Type, &h.Severity, &h.Status,
		&h.Location.Latitude, &h.Location.Longitude, &h.Location.Address,
		&h.Images, &h.ReportedBy, &h.AssignedTo, &h.ResolutionDetails,
		&h.ResolutionDate, &h.PredictedPriority, &h.CreatedAt, &h.UpdatedAt,
		&reporter.ID, &reporter.Name, &reporter.Email,
	)
	if err != nil {
		return model.Hazard{}, err
	}
	h.Reporter = &reporter
	return h, nil
}

func collectHazards(rows pgx.Rows) ([]model.Hazard, error) {
	hazards := []model.Hazard{}
	for rows.Next() {
		hazard, err := scanHazard(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning hazard")
		}
		hazards = append(hazards, hazard)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating hazards")
	}
	return hazards, nil
}
