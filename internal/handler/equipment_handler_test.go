package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	apperrors "krushak/internal/errors"
	"krushak/internal/models"
	"krushak/internal/service"
	"krushak/internal/service/mocks"
	"krushak/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	validator.Register()
}

type filePart struct {
	field       string
	filename    string
	contentType string
}

// multipartRequest builds a multipart form with string fields and fake files.
func multipartRequest(t *testing.T, path string, fields map[string]string, files []filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.filename))
		hdr.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		part.Write([]byte("fake file bytes"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newEquipmentRouter(svc *mocks.EquipmentService, userID primitive.ObjectID) *gin.Engine {
	h := NewEquipmentHandler(svc)
	r := gin.New()
	g := r.Group("/equipment")
	g.GET("", h.Search)
	g.GET("/filter", h.Filter)
	g.GET("/my", authAs(userID), h.Mine)
	g.GET("/:equipmentId", h.Get)
	g.POST("", authAs(userID), h.Create)
	g.PATCH("/:equipmentId", authAs(userID), h.Update)
	g.DELETE("/:equipmentId", authAs(userID), h.Delete)
	g.POST("/:equipmentId/images", authAs(userID), h.AddImages)
	g.DELETE("/:equipmentId/images", authAs(userID), h.RemoveImage)
	g.PUT("/:equipmentId/video", authAs(userID), h.ReplaceVideo)
	return r
}

func createPayload(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(models.CreateEquipmentRequest{
		Name:            "Mahindra 575 DI",
		Description:     "45 HP tractor in excellent condition",
		Category:        models.CategoryTractor,
		Type:            "2WD",
		Model:           models.ModelInfo{Brand: "Mahindra", Name: "575 DI"},
		Year:            2021,
		Condition:       models.ConditionGood,
		Pricing:         []models.PricingTier{{Unit: models.UnitPerHour, Price: 500}},
		CurrentLocation: "Bhuj, Kutch",
		AvailabilityArea: []models.AvailabilityArea{
			{Country: "India", State: "Gujarat", District: "Kutch"},
		},
	})
	require.NoError(t, err)
	return string(data)
}

func TestEquipmentHandler_Create(t *testing.T) {
	userID := primitive.NewObjectID()
	svc := &mocks.EquipmentService{}
	svc.CreateFn = func(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateEquipmentRequest, images []service.Upload, video *service.Upload) (*models.Equipment, error) {
		assert.Equal(t, userID, ownerID)
		assert.Equal(t, "Mahindra 575 DI", req.Name)
		assert.Len(t, images, 2)
		require.NotNil(t, video)

		// The handler spooled everything to disk before calling the service.
		for _, img := range images {
			_, err := os.Stat(img.TempPath)
			assert.NoError(t, err)
			os.Remove(img.TempPath)
		}
		os.Remove(video.TempPath)

		return &models.Equipment{ID: primitive.NewObjectID(), Name: req.Name}, nil
	}
	r := newEquipmentRouter(svc, userID)

	req := multipartRequest(t, "/equipment", map[string]string{"data": createPayload(t)}, []filePart{
		{"images", "front.jpg", "image/jpeg"},
		{"images", "side.png", "image/png"},
		{"video", "demo.mp4", "video/mp4"},
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "equipment listed successfully", decodeEnvelope(t, w).Message)
}

func TestEquipmentHandler_Create_Rejections(t *testing.T) {
	userID := primitive.NewObjectID()
	r := newEquipmentRouter(&mocks.EquipmentService{}, userID)

	t.Run("missing data part", func(t *testing.T) {
		req := multipartRequest(t, "/equipment", nil, []filePart{{"images", "a.jpg", "image/jpeg"}})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "form field data is required", decodeEnvelope(t, w).Message)
	})

	t.Run("invalid payload fields", func(t *testing.T) {
		req := multipartRequest(t, "/equipment", map[string]string{"data": `{"name":"x"}`}, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, decodeEnvelope(t, w).Errors)
	})

	t.Run("too many images", func(t *testing.T) {
		files := make([]filePart, models.MaxEquipmentImages+1)
		for i := range files {
			files[i] = filePart{"images", fmt.Sprintf("img%d.jpg", i), "image/jpeg"}
		}
		req := multipartRequest(t, "/equipment", map[string]string{"data": createPayload(t)}, files)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "equipment can have at most 5 images", decodeEnvelope(t, w).Message)
	})

	t.Run("wrong image content type", func(t *testing.T) {
		req := multipartRequest(t, "/equipment", map[string]string{"data": createPayload(t)}, []filePart{
			{"images", "malware.exe", "application/octet-stream"},
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "only jpeg, png and webp images are accepted", decodeEnvelope(t, w).Message)
	})

	t.Run("wrong video content type", func(t *testing.T) {
		req := multipartRequest(t, "/equipment", map[string]string{"data": createPayload(t)}, []filePart{
			{"video", "demo.avi", "video/x-msvideo"},
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "only mp4 and webm videos are accepted", decodeEnvelope(t, w).Message)
	})
}

func TestEquipmentHandler_Search(t *testing.T) {
	svc := &mocks.EquipmentService{}
	var gotQuery *models.SearchQuery
	svc.SearchFn = func(ctx context.Context, q *models.SearchQuery) (*models.SearchResponse, error) {
		gotQuery = q
		return &models.SearchResponse{Equipment: []models.Equipment{}, Markers: []models.MapMarker{}}, nil
	}
	r := newEquipmentRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/equipment?location=Bhuj&radius=25&sortBy=price", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bhuj", gotQuery.Location)
	assert.Equal(t, 25.0, gotQuery.RadiusKm)
	assert.Equal(t, "price", gotQuery.SortBy)
}

func TestEquipmentHandler_Search_BadSort(t *testing.T) {
	r := newEquipmentRouter(&mocks.EquipmentService{}, primitive.NewObjectID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/equipment?sortBy=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEquipmentHandler_Get(t *testing.T) {
	eqID := primitive.NewObjectID()
	svc := &mocks.EquipmentService{}
	svc.GetFn = func(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID) (*models.Equipment, error) {
		assert.Equal(t, eqID, id)
		assert.Nil(t, viewerID, "no auth middleware on this route")
		return &models.Equipment{ID: id, Name: "Mahindra 575 DI"}, nil
	}
	r := newEquipmentRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/equipment/"+eqID.Hex(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/equipment/not-hex", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEquipmentHandler_Update_NotOwner(t *testing.T) {
	svc := &mocks.EquipmentService{}
	svc.UpdateFn = func(ctx context.Context, id, actorID primitive.ObjectID, req *models.UpdateEquipmentRequest) (*models.Equipment, error) {
		return nil, apperrors.ErrNotEquipmentOwner
	}
	r := newEquipmentRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPatch, "/equipment/"+primitive.NewObjectID().Hex(), gin.H{"year": 2022}))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEquipmentHandler_RemoveImage(t *testing.T) {
	eqID := primitive.NewObjectID()
	svc := &mocks.EquipmentService{}
	var gotURL string
	svc.RemoveImageFn = func(ctx context.Context, id, actorID primitive.ObjectID, imageURL string) (*models.Equipment, error) {
		gotURL = imageURL
		return &models.Equipment{ID: id}, nil
	}
	r := newEquipmentRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodDelete, "/equipment/"+eqID.Hex()+"/images", gin.H{
		"imageUrl": "https://cdn.example.com/a.jpg",
	}))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example.com/a.jpg", gotURL)
}

func TestEquipmentHandler_Delete_WithBookings(t *testing.T) {
	svc := &mocks.EquipmentService{}
	svc.DeleteFn = func(ctx context.Context, id, actorID primitive.ObjectID) error {
		return apperrors.ErrEquipmentHasBookings
	}
	r := newEquipmentRouter(svc, primitive.NewObjectID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/equipment/"+primitive.NewObjectID().Hex(), nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEquipmentHandler_AddImages_RequiresFiles(t *testing.T) {
	r := newEquipmentRouter(&mocks.EquipmentService{}, primitive.NewObjectID())

	req := multipartRequest(t, "/equipment/"+primitive.NewObjectID().Hex()+"/images", map[string]string{"noop": "1"}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "at least one image file is required", decodeEnvelope(t, w).Message)
}
