package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"xplore/internal/api/controllers"
	"xplore/internal/classifier"
	"xplore/internal/config"
	"xplore/internal/models/db_models"
	"xplore/internal/models/response_models"
	"xplore/internal/placeimage"
	"xplore/internal/policy"
	"xplore/internal/repositories"
	"xplore/internal/services"
	"xplore/internal/storage"
	"xplore/internal/testutil"
	"xplore/pkg/logger"
	mem "xplore/pkg/memcache"
	"xplore/pkg/middleware"
	"xplore/pkg/utils"
)

type stubClassifier struct {
	preds []classifier.Prediction
}

func (s *stubClassifier) Name() string { return "stub" }

func (s *stubClassifier) Classify(context.Context, []byte) classifier.Result {
	return classifier.Evaluate(s.preds, policy.Default())
}

type testServer struct {
	engine     *gin.Engine
	db         *gorm.DB
	classifier *stubClassifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	log := logger.NewNop()
	store, err := storage.NewLocalStore(t.TempDir(), "http://test", log)
	require.NoError(t, err)
	images, err := placeimage.New("")
	require.NoError(t, err)
	issuer, err := utils.NewTokenIssuer("router-test-secret", time.Hour)
	require.NoError(t, err)
	revoked := mem.NewRevokedTokens()

	userRepo := repositories.NewUserRepository(db)
	followRepo := repositories.NewFollowRepository(db)
	placeRepo := repositories.NewPlaceRepository(db)
	photoRepo := repositories.NewPhotoRepository(db)
	collectibleRepo := repositories.NewCollectibleRepository(db)
	achievementRepo := repositories.NewAchievementRepository(db)

	accountSvc := services.NewAccountService(userRepo, issuer, revoked, log)
	userSvc := services.NewUserService(userRepo, collectibleRepo, photoRepo, achievementRepo, followRepo, log)
	followSvc := services.NewFollowService(userRepo, followRepo, log)
	placeSvc := services.NewPlaceService(placeRepo, collectibleRepo, images)
	collection := services.NewCollectionService(db, userRepo, placeRepo, photoRepo, collectibleRepo, achievementRepo, store, log)
	stub := &stubClassifier{}
	recognition := services.NewRecognitionService(stub, services.NewPlaceResolver(placeRepo), collection, images, policy.Default(), log)

	engine := NewRouter(RouterParams{
		Config:          &config.Config{AppEnv: "test"},
		Log:             log,
		DB:              db,
		Auth:            middleware.NewAuthenticator(issuer, revoked),
		Store:           store,
		AuthController:  controllers.NewAuthController(accountSvc),
		UserController:  controllers.NewUserController(userSvc, followSvc, accountSvc),
		PlaceController: controllers.NewPlaceController(placeSvc),
		IAController:    controllers.NewIAController(recognition),

		DashboardController: controllers.NewDashboardController(
			services.NewDashboardService(repositories.NewDashboardRepository(db), log),
		),
	})
	return &testServer{engine: engine, db: db, classifier: stub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, token, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/ia/recognize", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// signUp registers and logs in a user, returning the token and user id.
func (s *testServer) signUp(t *testing.T, email string) (string, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/auth/register_user", "", map[string]string{
		"display_name": "Explorer",
		"email":        email,
		"password":     "secreto1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "secreto1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login response_models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.True(t, login.Success)
	return login.Token, login.Usuario.ID
}

func photo(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{R: shade, G: 40, B: 90, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthAndPolicy(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.TraceIDHeader))

	w = s.do(t, http.MethodGet, "/ia/policy", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"floor":0.3,"accept":0.9}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signUp(t, "ana@example.com")

	w := s.do(t, http.MethodPost, "/auth/register_user", "", map[string]string{
		"display_name": "Again",
		"email":        "ana@example.com",
		"password":     "secreto1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var failure response_models.FailureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failure))
	assert.False(t, failure.Success)
	assert.NotEmpty(t, failure.Message)

	w = s.do(t, http.MethodGet, "/users/"+userID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/users/"+userID, token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecognizeAnonymousMatch(t *testing.T) {
	s := newTestServer(t)
	place := testutil.SeedPlace(t, s.db, "Basílica de los Ángeles", "church")
	s.classifier.preds = []classifier.Prediction{{Class: "Basilica de los Angeles", Confidence: 0.95}}

	w := s.upload(t, "", "image/png", photo(t, 1))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response_models.RecognizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.BestPrediction)
	assert.InDelta(t, 0.95, resp.BestPrediction.Confidence, 1e-9)
	require.NotNil(t, resp.Place)
	assert.Equal(t, place.ID.String(), resp.Place.ID)
	assert.True(t, resp.Acceptable)
	assert.Nil(t, resp.Photo)
}

func TestRecognizeUnmatchedReturns404WithPrediction(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "ana@example.com")
	testutil.SeedPlace(t, s.db, "Teatro Nacional", "culture")
	s.classifier.preds = []classifier.Prediction{{Class: "Catarata La Paz", Confidence: 0.5}}

	w := s.upload(t, token, "image/png", photo(t, 2))
	require.Equal(t, http.StatusNotFound, w.Code)

	var failure response_models.FailureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &failure))
	assert.False(t, failure.Success)
	require.NotNil(t, failure.Data)
	require.NotNil(t, failure.Data.BestPrediction)
	assert.Equal(t, "Catarata La Paz", failure.Data.BestPrediction.Class)

	var photos int64
	require.NoError(t, s.db.Model(&db_models.Photo{}).Count(&photos).Error)
	assert.Zero(t, photos)
}

func TestRecognizeRejectsNonImagePart(t *testing.T) {
	s := newTestServer(t)

	w := s.upload(t, "", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(t, "", "image/png", []byte("not really a png"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecognizeBadTokenIsRejected(t *testing.T) {
	s := newTestServer(t)
	w := s.upload(t, "garbage-token", "image/png", photo(t, 3))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSaveCollection(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "ana@example.com")
	place := testutil.SeedPlace(t, s.db, "Volcán Arenal", "volcano")
	testutil.SeedCollectibles(t, s.db, place.ID, "Lava", "Tucán")

	body := map[string]string{
		"lugarId":     place.ID.String(),
		"imageBase64": "data:image/png;base64," + base64.StdEncoding.EncodeToString(photo(t, 4)),
	}

	w := s.do(t, http.MethodPost, "/ia/save-collection", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/ia/save-collection", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first response_models.SaveCollectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Success)
	assert.Len(t, first.NuevosColeccionables, 2)
	require.NotNil(t, first.Photo)

	w = s.do(t, http.MethodPost, "/ia/save-collection", token, body)
	require.Equal(t, http.StatusOK, w.Code)
	var second response_models.SaveCollectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Empty(t, second.NuevosColeccionables)

	var owned int64
	require.NoError(t, s.db.Model(&db_models.UserCollectible{}).Count(&owned).Error)
	assert.Equal(t, int64(2), owned)
}

func TestSaveCollectionValidation(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signUp(t, "ana@example.com")

	w := s.do(t, http.MethodPost, "/ia/save-collection", token, map[string]string{"lugarId": "nope", "imageBase64": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/ia/save-collection", token, map[string]string{"lugarId": userID, "imageBase64": "%%%"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/ia/save-collection", token, map[string]string{
		"lugarId":     userID,
		"imageBase64": base64.StdEncoding.EncodeToString(photo(t, 5)),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrivateProfileAndFollow(t *testing.T) {
	s := newTestServer(t)
	anaToken, anaID := s.signUp(t, "ana@example.com")
	benToken, benID := s.signUp(t, "ben@example.com")

	w := s.do(t, http.MethodPut, "/users/"+anaID, anaToken, map[string]bool{"is_private": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/users/"+anaID, benToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusForbidden, env.Code)

	w = s.do(t, http.MethodPut, "/users/"+anaID, benToken, map[string]string{"bio": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/users/"+benID+"/follow", anaToken, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/users/"+benID+"/follow", anaToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/users/"+anaID+"/follow", anaToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/users/"+benID+"/followers/count", benToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	assert.Equal(t, map[string]interface{}{"count": float64(1)}, env.Data)

	w = s.do(t, http.MethodGet, "/users/"+benID+"/summary", anaToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/users/not-a-uuid", anaToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaces(t *testing.T) {
	s := newTestServer(t)
	place := testutil.SeedPlace(t, s.db, "Cerro Chirripó", "mountain")
	testutil.SeedPlace(t, s.db, "Teatro Nacional", "culture")

	w := s.do(t, http.MethodGet, "/places?category=mountain", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total"])

	w = s.do(t, http.MethodGet, "/places?page_size=1000", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/places/"+place.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/places/%s/collectibles", place.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/places/"+anyUUID(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminModeration(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signUp(t, "ana@example.com")
	place := testutil.SeedPlace(t, s.db, "Volcán Poás", "volcano")
	testutil.SeedCollectibles(t, s.db, place.ID, "Cráter")

	w := s.do(t, http.MethodPost, "/ia/save-collection", token, map[string]string{
		"lugarId":     place.ID.String(),
		"imageBase64": base64.StdEncoding.EncodeToString(photo(t, 6)),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var saved response_models.SaveCollectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotNil(t, saved.Photo)

	w = s.do(t, http.MethodGet, "/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, s.db.Model(&db_models.User{}).Where("id = ?", userID).Update("role", db_models.RoleAdmin).Error)
	w = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "secreto1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login response_models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	admin := login.Token

	w = s.do(t, http.MethodGet, "/admin/dashboard?last_days=7", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	kpis := data["kpis"].(map[string]interface{})
	assert.Equal(t, float64(1), kpis["active_users"])
	assert.Equal(t, float64(1), kpis["photos_pending_review"])
	assert.Equal(t, float64(1), kpis["collectibles_unlocked"])
	top := data["top_places"].([]interface{})
	require.Len(t, top, 1)
	assert.Equal(t, place.ID.String(), top[0].(map[string]interface{})["place_id"])

	w = s.do(t, http.MethodGet, "/admin/dashboard?last_days=7&start=2026-01-01T00:00:00Z", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/admin/photos?status=pending_review", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	assert.Equal(t, float64(1), env.Data.(map[string]interface{})["total"])

	w = s.do(t, http.MethodGet, "/admin/photos?status=lost", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/admin/photos/"+saved.Photo.ID+"/status", admin, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/admin/photos/"+saved.Photo.ID+"/status", admin, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env = decodeEnvelope(t, w)
	assert.Equal(t, "approved", env.Data.(map[string]interface{})["status"])

	w = s.do(t, http.MethodPut, "/admin/photos/"+anyUUID()+"/status", admin, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeactivateRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signUp(t, "ana@example.com")
	place := testutil.SeedPlace(t, s.db, "Volcán Arenal", "volcano")
	testutil.SeedCollectibles(t, s.db, place.ID, "Lava")

	w := s.do(t, http.MethodDelete, "/users/"+userID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/ia/save-collection", token, map[string]string{
		"lugarId":     place.ID.String(),
		"imageBase64": base64.StdEncoding.EncodeToString(photo(t, 7)),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "secreto1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var owned int64
	require.NoError(t, s.db.Model(&db_models.UserCollectible{}).Count(&owned).Error)
	assert.Zero(t, owned)
}

func TestSaveCollectionStoresConfirmedPrediction(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "ana@example.com")
	place := testutil.SeedPlace(t, s.db, "Teatro Nacional", "culture")

	w := s.do(t, http.MethodPost, "/ia/save-collection", token, map[string]interface{}{
		"lugarId":        place.ID.String(),
		"imageBase64":    base64.StdEncoding.EncodeToString(photo(t, 8)),
		"bestPrediction": map[string]interface{}{"class": "teatro_nacional", "confidence": 0.94},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored db_models.Photo
	require.NoError(t, s.db.First(&stored).Error)
	assert.Equal(t, "teatro_nacional", stored.Label)
	assert.InDelta(t, 0.94, stored.Confidence, 1e-9)
}

func anyUUID() string { return "00000000-0000-4000-8000-000000000000" }
