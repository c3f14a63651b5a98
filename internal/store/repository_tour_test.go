package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-tour-booking/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTourRepo(t *testing.T) (*tourRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &tourRepository{DB: db, logger: db.logger}, mock
}

func sampleTour() models.Tour {
	return models.Tour{
		ID:              testTourID,
		Name:            "The Forest Hiker",
		Slug:            "the-forest-hiker",
		Duration:        5,
		MaxGroupSize:    25,
		Difficulty:      models.DifficultyEasy,
		RatingsAverage:  4.7,
		RatingsQuantity: 37,
		Price:           397,
		Summary:         "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:      "tour-1-cover.jpg",
		Images:          []string{"tour-1-1.jpg", "tour-1-2.jpg"},
		StartDates:      []time.Time{time.Date(2026, 4, 25, 9, 0, 0, 0, time.UTC)},
		StartLocation:   models.Location{Lat: 51.417611, Lng: -116.214531, Address: "224 Banff Ave, Banff, AB, Canada"},
		CreatedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func tourRows(tours ...models.Tour) *sqlmock.Rows {
	rows := sqlmock.NewRows(tourColumns)
	for _, tr := range tours {
		images, _ := marshalJSONB(tr.Images)
		dates, _ := marshalJSONB(tr.StartDates)
		rows.AddRow(tr.ID, tr.Name, tr.Slug, tr.Duration, tr.MaxGroupSize, tr.Difficulty,
			tr.RatingsAverage, tr.RatingsQuantity, tr.Price, nullable(tr.PriceDiscount),
			tr.Summary, tr.Description, tr.ImageCover, []byte(images), []byte(dates),
			tr.SecretTour, tr.StartLocation.Lat, tr.StartLocation.Lng,
			tr.StartLocation.Address, tr.StartLocation.Description, tr.CreatedAt)
	}
	return rows
}

func TestTourRepository_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newTestTourRepo(t)
		tour := sampleTour()
		discount := 50.0
		tour.PriceDiscount = &discount

		mock.ExpectQuery("INSERT INTO tours").WillReturnRows(tourRows(tour))

		created, err := repo.Create(context.Background(), tour)
		require.NoError(t, err)
		assert.Equal(t, tour, created)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo, mock := newTestTourRepo(t)
		mock.ExpectQuery("INSERT INTO tours").
			WillReturnError(pgError(pgerrcode.UniqueViolation, "Key (name)=(The Forest Hiker) already exists."))

		_, err := repo.Create(context.Background(), sampleTour())

		var dup *DuplicateError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "name", dup.Field)
		assert.Equal(t, "The Forest Hiker", dup.Value)
	})
}

func TestTourRepository_Get_HidesSecretTours(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	mock.ExpectQuery("SELECT .+ FROM tours WHERE secret_tour = \\$1 AND id = \\$2").
		WithArgs(false, testTourID).
		WillReturnRows(tourRows())

	_, err := repo.Get(context.Background(), testTourID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTourRepository_GetBySlug(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	mock.ExpectQuery("SELECT .+ FROM tours WHERE secret_tour = \\$1 AND slug = \\$2 LIMIT 1").
		WithArgs(false, "the-forest-hiker").
		WillReturnRows(tourRows(sampleTour()))

	tour, err := repo.GetBySlug(context.Background(), "the-forest-hiker")
	require.NoError(t, err)
	assert.Equal(t, []string{"tour-1-1.jpg", "tour-1-2.jpg"}, tour.Images)
	assert.Nil(t, tour.PriceDiscount)
}

func TestTourRepository_List(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	mock.ExpectQuery("SELECT .+ FROM tours WHERE secret_tour = \\$1 AND duration >= \\$2 ORDER BY price ASC, id LIMIT 5 OFFSET 0").
		WithArgs(false, "5").
		WillReturnRows(tourRows(sampleTour()))

	features := models.QueryFeatures{
		Filters: []models.Filter{{Field: "duration", Op: models.OpGte, Values: []string{"5"}}},
		Sort:    []string{"price"},
		Page:    1,
		Limit:   5,
	}
	tours, err := repo.List(context.Background(), features)
	require.NoError(t, err)
	assert.Len(t, tours, 1)
}

func TestTourRepository_ListByIDs(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		repo, mock := newTestTourRepo(t)
		tours, err := repo.ListByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, tours)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ids", func(t *testing.T) {
		repo, mock := newTestTourRepo(t)
		mock.ExpectQuery("SELECT .+ FROM tours WHERE secret_tour = \\$1 AND id IN \\(\\$2\\)").
			WithArgs(false, testTourID).
			WillReturnRows(tourRows(sampleTour()))

		tours, err := repo.ListByIDs(context.Background(), []string{testTourID})
		require.NoError(t, err)
		assert.Len(t, tours, 1)
	})
}

func TestTourRepository_Update_RenameRegeneratesSlug(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	name := "The Sea Explorer"
	tour := sampleTour()
	tour.Name, tour.Slug = name, "the-sea-explorer"

	mock.ExpectQuery("UPDATE tours SET name = \\$1, slug = \\$2 WHERE id = \\$3 AND secret_tour = \\$4 RETURNING").
		WithArgs(name, "the-sea-explorer", testTourID, false).
		WillReturnRows(tourRows(tour))

	updated, err := repo.Update(context.Background(), testTourID, models.TourUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "the-sea-explorer", updated.Slug)
}

func TestTourRepository_Delete(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	mock.ExpectExec("DELETE FROM tours WHERE id = \\$1").
		WithArgs(testTourID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), testTourID))
}

func TestTourRepository_Stats(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	mock.ExpectQuery("SELECT upper\\(difficulty\\) AS difficulty, .+ GROUP BY upper\\(difficulty\\) ORDER BY avg_price").
		WithArgs(false, models.DefaultRatingsAverage).
		WillReturnRows(sqlmock.NewRows([]string{"difficulty", "num_tours", "num_ratings", "avg_rating", "avg_price", "min_price", "max_price"}).
			AddRow("EASY", 4, 132, 4.7, 1272.0, 397.0, 1997.0).
			AddRow("MEDIUM", 3, 70, 4.8, 1663.0, 497.0, 2997.0))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, models.TourStats{Difficulty: "EASY", NumTours: 4, NumRatings: 132, AvgRating: 4.7, AvgPrice: 1272, MinPrice: 397, MaxPrice: 1997}, stats[0])
}

func TestTourRepository_MonthlyPlan(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("(?s)SELECT EXTRACT\\(MONTH FROM .+ CROSS JOIN LATERAL jsonb_array_elements_text.+ORDER BY num_tour_starts DESC, month LIMIT 12").
		WithArgs(false, from, from.AddDate(1, 0, 0)).
		WillReturnRows(sqlmock.NewRows([]string{"month", "num_tour_starts", "tours"}).
			AddRow(7, 3, []byte(`["The Park Camper","The Sea Explorer","The Sports Lover"]`)))

	plan, err := repo.MonthlyPlan(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, 7, plan[0].Month)
	assert.Equal(t, 3, plan[0].NumTourStarts)
	assert.Equal(t, []string{"The Park Camper", "The Sea Explorer", "The Sports Lover"}, plan[0].Tours)
}

func TestTourRepository_Within(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	center := models.Location{Lat: 34.111745, Lng: -118.113491}

	mock.ExpectQuery("(?s)SELECT .+ FROM tours WHERE secret_tour = \\$1 AND .+ <= \\$5").
		WithArgs(false, center.Lat, center.Lat, center.Lng, 400000.0).
		WillReturnRows(tourRows(sampleTour()))

	tours, err := repo.Within(context.Background(), center, 400000)
	require.NoError(t, err)
	assert.Len(t, tours, 1)
}

func TestTourRepository_Distances(t *testing.T) {
	repo, mock := newTestTourRepo(t)
	center := models.Location{Lat: 34.111745, Lng: -118.113491}

	mock.ExpectQuery("(?s)SELECT id, name, .+ AS distance FROM tours WHERE secret_tour = \\$5 ORDER BY distance, id").
		WithArgs(center.Lat, center.Lat, center.Lng, 0.001, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "distance"}).
			AddRow(testTourID, "The Sea Explorer", 12.4))

	distances, err := repo.Distances(context.Background(), center, 0.001)
	require.NoError(t, err)
	assert.Equal(t, []models.TourDistance{{ID: testTourID, Name: "The Sea Explorer", Distance: 12.4}}, distances)
}
