package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/garments_backend/config"
)

type ManifestLocker interface {
	CheckManifestLock(context.Context) error
}

/* DB fetching */

// fetch model from db by integer primary key
// (may return RecordNotFound)
func FetchSingleModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch model from db by uuid primary key
// (may return RecordNotFound)
func FetchModelByUid[T any](ctx context.Context, uid string, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.Where("id = ?", uid).First(&result).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch model and check it is not frozen on a shipping manifest
func FetchModelForChange[T ManifestLocker](ctx context.Context, uid string, associations ...string) (*T, error) {
	result, err := FetchModelByUid[T](ctx, uid, associations...)
	if err != nil {
		return nil, err
	}
	if err := (*result).CheckManifestLock(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// fetch all models from db
func FetchAllModels[T any](ctx context.Context, associations ...string) ([]*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx.Preload(field)
	}
	var results []*T
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return results, nil
}
