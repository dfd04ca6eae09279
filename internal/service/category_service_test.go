package service

import (
	"context"
	"testing"
	"time"

	"paydrop/internal/models"
	"paydrop/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryGeneratesToken(t *testing.T) {
	adminID := uuid.New()
	var created *models.Category
	repo := noopCategoryRepo()
	repo.createFn = func(_ context.Context, category *models.Category) error {
		category.ID = uuid.New()
		created = category
		return nil
	}
	svc := NewCategoryService(repo)

	amount := 150.0
	category, err := svc.Create(context.Background(), adminID, CreateCategoryInput{
		Title:          "Lab fees",
		AmountExpected: &amount,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, adminID, category.AdminID)
	assert.True(t, category.IsActive)
	assert.Len(t, category.PublicToken, 43)
}

func TestCreateCategoryTokensAreUnique(t *testing.T) {
	svc := NewCategoryService(noopCategoryRepo())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		category, err := svc.Create(context.Background(), uuid.New(), CreateCategoryInput{Title: "T"})
		require.NoError(t, err)
		require.False(t, seen[category.PublicToken])
		seen[category.PublicToken] = true
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	svc := NewCategoryService(noopCategoryRepo())
	negative := -1.0

	_, err := svc.Create(context.Background(), uuid.New(), CreateCategoryInput{Title: ""})
	require.Error(t, err)
	assert.Equal(t, 400, models.HTTPStatus(err))

	_, err = svc.Create(context.Background(), uuid.New(), CreateCategoryInput{Title: "T", AmountExpected: &negative})
	require.Error(t, err)
	assert.Equal(t, 400, models.HTTPStatus(err))
}

func TestUpdateCategoryPatchesOnlyProvidedFields(t *testing.T) {
	adminID := uuid.New()
	desc := "old description"
	existing := &models.Category{
		ID:          uuid.New(),
		AdminID:     adminID,
		Title:       "Old title",
		Description: &desc,
		PublicToken: "fixed-token",
		IsActive:    true,
	}
	repo := noopCategoryRepo()
	repo.getByIDAndOwnerFn = func(_ context.Context, _, _ uuid.UUID) (*models.Category, error) {
		return existing, nil
	}
	var saved *models.Category
	repo.updateFn = func(_ context.Context, category *models.Category) error {
		saved = category
		return nil
	}
	svc := NewCategoryService(repo)

	newTitle := "New title"
	updated, err := svc.Update(context.Background(), existing.ID, adminID, UpdateCategoryInput{Title: &newTitle})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "old description", *updated.Description)
	assert.Equal(t, "fixed-token", updated.PublicToken)
}

func TestUpdateCategoryNotOwned(t *testing.T) {
	repo := noopCategoryRepo()
	repo.getByIDAndOwnerFn = func(_ context.Context, _, _ uuid.UUID) (*models.Category, error) {
		return nil, models.NewNotFoundError("Category not found or access denied")
	}
	svc := NewCategoryService(repo)

	title := "T"
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateCategoryInput{Title: &title})
	require.Error(t, err)
	assert.Equal(t, 404, models.HTTPStatus(err))
}

func TestSetActiveIdempotent(t *testing.T) {
	existing := &models.Category{ID: uuid.New(), IsActive: false}
	repo := noopCategoryRepo()
	repo.getByIDAndOwnerFn = func(_ context.Context, _, _ uuid.UUID) (*models.Category, error) {
		return existing, nil
	}
	updateCalls := 0
	repo.updateFn = func(_ context.Context, _ *models.Category) error {
		updateCalls++
		return nil
	}
	svc := NewCategoryService(repo)

	category, err := svc.SetActive(context.Background(), existing.ID, uuid.New(), false)
	require.NoError(t, err)
	assert.False(t, category.IsActive)
	assert.Zero(t, updateCalls)

	category, err = svc.SetActive(context.Background(), existing.ID, uuid.New(), true)
	require.NoError(t, err)
	assert.True(t, category.IsActive)
	assert.Equal(t, 1, updateCalls)
}

func TestResolvePublicExpired(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	repo := noopCategoryRepo()
	repo.getActiveByTokenFn = func(_ context.Context, _ string) (*models.Category, error) {
		return &models.Category{ID: uuid.New(), IsActive: true, ExpiresAt: &expired}, nil
	}
	svc := NewCategoryService(repo)

	_, err := svc.ResolvePublic(context.Background(), "some-token", time.Now())
	require.Error(t, err)
	assert.Equal(t, 404, models.HTTPStatus(err))
	assert.Contains(t, err.Error(), "no longer active")
}

func TestResolvePublicActive(t *testing.T) {
	future := time.Now().Add(time.Hour)
	repo := noopCategoryRepo()
	repo.getActiveByTokenFn = func(_ context.Context, token string) (*models.Category, error) {
		return &models.Category{ID: uuid.New(), PublicToken: token, IsActive: true, ExpiresAt: &future}, nil
	}
	svc := NewCategoryService(repo)

	category, err := svc.ResolvePublic(context.Background(), "some-token", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "some-token", category.PublicToken)
}

func TestListWithCounts(t *testing.T) {
	adminID := uuid.New()
	catA := models.Category{ID: uuid.New(), AdminID: adminID, Title: "A"}
	catB := models.Category{ID: uuid.New(), AdminID: adminID, Title: "B"}

	repo := noopCategoryRepo()
	repo.listByOwnerFn = func(_ context.Context, _ uuid.UUID) ([]models.Category, error) {
		return []models.Category{catB, catA}, nil
	}
	repo.countByStatusFn = func(_ context.Context, categoryID uuid.UUID) (repository.StatusCounts, error) {
		if categoryID == catB.ID {
			return repository.StatusCounts{Pending: 2, Confirmed: 5, Rejected: 1}, nil
		}
		return repository.StatusCounts{}, nil
	}
	svc := NewCategoryService(repo)

	result, err := svc.ListWithCounts(context.Background(), adminID)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, "B", result[0].Title)
	assert.Equal(t, int64(2), result[0].PendingCount)
	assert.Equal(t, int64(5), result[0].ConfirmedCount)
	assert.Equal(t, int64(1), result[0].RejectedCount)
	assert.Zero(t, result[1].PendingCount)
}
