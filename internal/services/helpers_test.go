package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"xplore/internal/classifier"
	"xplore/internal/placeimage"
	"xplore/internal/policy"
	"xplore/internal/repositories"
	"xplore/internal/storage"
	"xplore/internal/testutil"
	"xplore/pkg/logger"
)

type fakeClassifier struct {
	preds []classifier.Prediction
	fail  *classifier.Result
	calls int
}

func (f *fakeClassifier) Name() string { return "fake" }

func (f *fakeClassifier) Classify(_ context.Context, _ []byte) classifier.Result {
	f.calls++
	if f.fail != nil {
		return *f.fail
	}
	return classifier.Evaluate(f.preds, policy.Default())
}

type fixture struct {
	db          *gorm.DB
	dir         string
	classifier  *fakeClassifier
	collection  CollectionServiceInterface
	recognition RecognitionServiceInterface
	places      repositories.PlaceRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "http://test", nil)
	require.NoError(t, err)
	images, err := placeimage.New("")
	require.NoError(t, err)

	log := logger.NewNop()
	placeRepo := repositories.NewPlaceRepository(db)
	collection := NewCollectionService(
		db,
		repositories.NewUserRepository(db),
		placeRepo,
		repositories.NewPhotoRepository(db),
		repositories.NewCollectibleRepository(db),
		repositories.NewAchievementRepository(db),
		store,
		log,
	)
	fc := &fakeClassifier{}
	recognition := NewRecognitionService(fc, NewPlaceResolver(placeRepo), collection, images, policy.Default(), log)
	return &fixture{
		db:          db,
		dir:         dir,
		classifier:  fc,
		collection:  collection,
		recognition: recognition,
		places:      placeRepo,
	}
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func (f *fixture) storedFiles(t *testing.T) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(f.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func pngImage(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: shade, G: 10, B: 10, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
