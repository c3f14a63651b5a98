package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tour-booking/internal/logger"
	"github.com/MKhiriev/go-tour-booking/models"
	sq "github.com/Masterminds/squirrel"
)

// tourRepository is the PostgreSQL-backed implementation of [TourRepository].
// Images and start dates are stored as JSONB arrays; the start location is
// flattened into four columns.
type tourRepository struct {
	*DB
	logger *logger.Logger
}

// NewTourRepository constructs a [TourRepository].
func NewTourRepository(db *DB, logger *logger.Logger) TourRepository {
	logger.Debug().Msg("creating tour repository")
	return &tourRepository{
		DB:     db,
		logger: logger,
	}
}

func scanTour(row sq.RowScanner) (models.Tour, error) {
	var (
		tour       models.Tour
		discount   sql.NullFloat64
		images     []byte
		startDates []byte
	)

	err := row.Scan(
		&tour.ID,
		&tour.Name,
		&tour.Slug,
		&tour.Duration,
		&tour.MaxGroupSize,
		&tour.Difficulty,
		&tour.RatingsAverage,
		&tour.RatingsQuantity,
		&tour.Price,
		&discount,
		&tour.Summary,
		&tour.Description,
		&tour.ImageCover,
		&images,
		&startDates,
		&tour.SecretTour,
		&tour.StartLocation.Lat,
		&tour.StartLocation.Lng,
		&tour.StartLocation.Address,
		&tour.StartLocation.Description,
		&tour.CreatedAt,
	)
	if err != nil {
		return models.Tour{}, err
	}

	if discount.Valid {
		tour.PriceDiscount = &discount.Float64
	}
	if err = unmarshalJSONB(images, &tour.Images); err != nil {
		return models.Tour{}, err
	}
	if err = unmarshalJSONB(startDates, &tour.StartDates); err != nil {
		return models.Tour{}, err
	}

	return tour, nil
}

func unmarshalJSONB[T any](raw []byte, dst *[]T) error {
	*dst = []T{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("error decoding jsonb column: %w", err)
	}
	return nil
}

func marshalJSONB[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("error encoding jsonb column: %w", err)
	}
	return string(b), nil
}

func (r *tourRepository) publicTours() sq.SelectBuilder {
	return psql.Select(tourColumns...).From(toursTable).Where(sq.Eq{"secret_tour": false})
}

func (r *tourRepository) queryOne(ctx context.Context, funcName string, builder sq.Sqlizer, field, value string) (models.Tour, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return models.Tour{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tour, err := scanTour(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Tour{}, ErrNotFound
		}
		log.Err(err).Str("func", funcName).Msg("failed to query tour")
		return models.Tour{}, classifyPostgresError(err, field, value)
	}

	return tour, nil
}

func (r *tourRepository) queryMany(ctx context.Context, funcName string, builder sq.Sqlizer, describe func() string) ([]models.Tour, error) {
	log := logger.FromContext(ctx)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to execute query for listing tours")
		return nil, classifyPostgresError(fmt.Errorf("%w: %w", ErrExecutingQuery, err), "query", describe())
	}
	defer rows.Close()

	tours := make([]models.Tour, 0, 16)
	for rows.Next() {
		tour, scanErr := scanTour(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", funcName).Msg("failed to scan tour row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		tours = append(tours, tour)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tours, nil
}

// Create inserts tour. A second tour with the same name yields
// [*DuplicateError].
func (r *tourRepository) Create(ctx context.Context, tour models.Tour) (models.Tour, error) {
	images, err := marshalJSONB(tour.Images)
	if err != nil {
		return models.Tour{}, err
	}
	startDates, err := marshalJSONB(tour.StartDates)
	if err != nil {
		return models.Tour{}, err
	}

	builder := psql.Insert(toursTable).
		Columns(
			"id", "name", "slug", "duration", "max_group_size", "difficulty",
			"ratings_average", "ratings_quantity", "price", "price_discount",
			"summary", "description", "image_cover", "images", "start_dates",
			"secret_tour", "start_location_lat", "start_location_lng",
			"start_location_address", "start_location_description",
		).
		Values(
			tour.ID, tour.Name, tour.Slug, tour.Duration, tour.MaxGroupSize, tour.Difficulty,
			tour.RatingsAverage, tour.RatingsQuantity, tour.Price, tour.PriceDiscount,
			tour.Summary, tour.Description, tour.ImageCover, images, startDates,
			tour.SecretTour, tour.StartLocation.Lat, tour.StartLocation.Lng,
			tour.StartLocation.Address, tour.StartLocation.Description,
		).
		Suffix("RETURNING " + joinColumns(tourColumns))

	return r.queryOne(ctx, "tourRepository.Create", builder, "name", tour.Name)
}

func (r *tourRepository) Get(ctx context.Context, id string) (models.Tour, error) {
	if err := checkID(id); err != nil {
		return models.Tour{}, err
	}

	return r.queryOne(ctx, "tourRepository.Get", r.publicTours().Where(sq.Eq{"id": id}), "id", id)
}

func (r *tourRepository) GetBySlug(ctx context.Context, slug string) (models.Tour, error) {
	return r.queryOne(ctx, "tourRepository.GetBySlug", r.publicTours().Where(sq.Eq{"slug": slug}).Limit(1), "slug", slug)
}

// List returns public tours narrowed by features, newest first by default.
func (r *tourRepository) List(ctx context.Context, features models.QueryFeatures) ([]models.Tour, error) {
	builder := ApplyQueryFeatures(r.publicTours(), features, tourFilterColumns, "created_at DESC", "id")

	return r.queryMany(ctx, "tourRepository.List", builder, func() string { return describeFilters(features) })
}

func (r *tourRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Tour, error) {
	if len(ids) == 0 {
		return []models.Tour{}, nil
	}
	for _, id := range ids {
		if err := checkID(id); err != nil {
			return nil, err
		}
	}

	builder := r.publicTours().Where(sq.Eq{"id": ids}).OrderBy("created_at DESC", "id")

	return r.queryMany(ctx, "tourRepository.ListByIDs", builder, func() string { return "" })
}

// Update applies the non-nil fields of update. Renaming regenerates the slug.
func (r *tourRepository) Update(ctx context.Context, id string, update models.TourUpdate) (models.Tour, error) {
	if err := checkID(id); err != nil {
		return models.Tour{}, err
	}

	set, err := tourUpdateSet(update)
	if err != nil {
		return models.Tour{}, err
	}
	if len(set) == 0 {
		return models.Tour{}, ErrNothingToUpdate
	}

	builder := psql.Update(toursTable).
		SetMap(set).
		Where(sq.Eq{"id": id, "secret_tour": false}).
		Suffix("RETURNING " + joinColumns(tourColumns))

	return r.queryOne(ctx, "tourRepository.Update", builder, "id", id)
}

func tourUpdateSet(update models.TourUpdate) (map[string]any, error) {
	set := make(map[string]any, 16)
	if update.Name != nil {
		set["name"] = *update.Name
		set["slug"] = models.Slugify(*update.Name)
	}
	if update.Duration != nil {
		set["duration"] = *update.Duration
	}
	if update.MaxGroupSize != nil {
		set["max_group_size"] = *update.MaxGroupSize
	}
	if update.Difficulty != nil {
		set["difficulty"] = *update.Difficulty
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.PriceDiscount != nil {
		set["price_discount"] = *update.PriceDiscount
	}
	if update.Summary != nil {
		set["summary"] = *update.Summary
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.ImageCover != nil {
		set["image_cover"] = *update.ImageCover
	}
	if update.Images != nil {
		images, err := marshalJSONB(update.Images)
		if err != nil {
			return nil, err
		}
		set["images"] = images
	}
	if update.StartDates != nil {
		dates, err := marshalJSONB(update.StartDates)
		if err != nil {
			return nil, err
		}
		set["start_dates"] = dates
	}
	if update.SecretTour != nil {
		set["secret_tour"] = *update.SecretTour
	}
	if loc := update.StartLocation; loc != nil {
		set["start_location_lat"] = loc.Lat
		set["start_location_lng"] = loc.Lng
		set["start_location_address"] = loc.Address
		set["start_location_description"] = loc.Description
	}

	return set, nil
}

func (r *tourRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	return execAffectingOne(ctx, r.DB, "tourRepository.Delete", psql.Delete(toursTable).Where(sq.Eq{"id": id}))
}

// Stats groups public tours with ratingsAverage >= 4.5 by difficulty,
// cheapest group first.
func (r *tourRepository) Stats(ctx context.Context) ([]models.TourStats, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select(
			"upper(difficulty) AS difficulty",
			"count(*) AS num_tours",
			"coalesce(sum(ratings_quantity), 0) AS num_ratings",
			"avg(ratings_average) AS avg_rating",
			"avg(price) AS avg_price",
			"min(price) AS min_price",
			"max(price) AS max_price",
		).
		From(toursTable).
		Where(sq.And{sq.Eq{"secret_tour": false}, sq.GtOrEq{"ratings_average": models.DefaultRatingsAverage}}).
		GroupBy("upper(difficulty)").
		OrderBy("avg_price").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "tourRepository.Stats").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "tourRepository.Stats").Msg("failed to execute stats query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	stats := make([]models.TourStats, 0, 3)
	for rows.Next() {
		var s models.TourStats
		if err = rows.Scan(&s.Difficulty, &s.NumTours, &s.NumRatings, &s.AvgRating, &s.AvgPrice, &s.MinPrice, &s.MaxPrice); err != nil {
			log.Err(err).Str("func", "tourRepository.Stats").Msg("failed to scan stats row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		stats = append(stats, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return stats, nil
}

// MonthlyPlan counts the start dates falling into each month of year,
// busiest month first.
func (r *tourRepository) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	log := logger.FromContext(ctx)

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	query, args, err := psql.
		Select(
			"EXTRACT(MONTH FROM sd.d::timestamptz)::int AS month",
			"count(*) AS num_tour_starts",
			"json_agg(t.name ORDER BY t.name) AS tours",
		).
		From(toursTable + " t").
		JoinClause("CROSS JOIN LATERAL jsonb_array_elements_text(t.start_dates) AS sd(d)").
		Where(sq.And{
			sq.Eq{"t.secret_tour": false},
			sq.Expr("sd.d::timestamptz >= ?", from),
			sq.Expr("sd.d::timestamptz < ?", to),
		}).
		GroupBy("month").
		OrderBy("num_tour_starts DESC", "month").
		Limit(12).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "tourRepository.MonthlyPlan").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "tourRepository.MonthlyPlan").Int("year", year).Msg("failed to execute monthly plan query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	plan := make([]models.MonthlyPlan, 0, 12)
	for rows.Next() {
		var (
			p     models.MonthlyPlan
			names []byte
		)
		if err = rows.Scan(&p.Month, &p.NumTourStarts, &names); err != nil {
			log.Err(err).Str("func", "tourRepository.MonthlyPlan").Msg("failed to scan monthly plan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if err = unmarshalJSONB(names, &p.Tours); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		plan = append(plan, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return plan, nil
}

func (r *tourRepository) Within(ctx context.Context, center models.Location, radiusMeters float64) ([]models.Tour, error) {
	builder := r.publicTours().
		Where(sq.Expr(haversineMeters+" <= ?", center.Lat, center.Lat, center.Lng, radiusMeters)).
		OrderBy("created_at DESC", "id")

	return r.queryMany(ctx, "tourRepository.Within", builder, func() string { return "" })
}

func (r *tourRepository) Distances(ctx context.Context, center models.Location, multiplier float64) ([]models.TourDistance, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.
		Select("id", "name").
		Column(sq.Alias(sq.Expr(haversineMeters+" * ?", center.Lat, center.Lat, center.Lng, multiplier), "distance")).
		From(toursTable).
		Where(sq.Eq{"secret_tour": false}).
		OrderBy("distance", "id").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "tourRepository.Distances").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "tourRepository.Distances").Msg("failed to execute distances query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	distances := make([]models.TourDistance, 0, 16)
	for rows.Next() {
		var d models.TourDistance
		if err = rows.Scan(&d.ID, &d.Name, &d.Distance); err != nil {
			log.Err(err).Str("func", "tourRepository.Distances").Msg("failed to scan distance row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		distances = append(distances, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return distances, nil
}
