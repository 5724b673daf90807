package controllers_test

import (
	"context"
	"strconv"
	"time"

	"github.com/ansuman-shukla/hippocampus-backend/config"
	"github.com/ansuman-shukla/hippocampus-backend/controllers"
	"github.com/ansuman-shukla/hippocampus-backend/db"
	"github.com/ansuman-shukla/hippocampus-backend/metrics"
	"github.com/ansuman-shukla/hippocampus-backend/models"
	"github.com/ansuman-shukla/hippocampus-backend/service"
	"github.com/ansuman-shukla/hippocampus-backend/vector"
	"github.com/gin-gonic/gin"
)

// memDatabase is an in-memory db.Database for controller tests.
type memDatabase struct {
	memories      map[string]models.Memory
	notes         map[string]models.Note
	subscriptions map[string]models.Subscription
}

var _ db.Database = (*memDatabase)(nil)

func newMemDatabase() *memDatabase {
	return &memDatabase{
		memories:      map[string]models.Memory{},
		notes:         map[string]models.Note{},
		subscriptions: map[string]models.Subscription{},
	}
}

func (f *memDatabase) InsertMemory(_ context.Context, m models.Memory) (models.Memory, error) {
	f.memories[m.ID.String()] = m
	return m, nil
}

func (f *memDatabase) ListMemories(_ context.Context, userID string) ([]models.Memory, error) {
	out := []models.Memory{}
	for _, m := range f.memories {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *memDatabase) DeleteMemory(_ context.Context, userID string, id models.DocID) error {
	m, ok := f.memories[id.String()]
	if !ok || m.UserID != userID {
		return db.ErrNotFound
	}
	delete(f.memories, id.String())
	return nil
}

func (f *memDatabase) InsertNote(_ context.Context, n models.Note) (models.Note, error) {
	f.notes[n.ID.String()] = n
	return n, nil
}

func (f *memDatabase) ListNotes(_ context.Context, userID string) ([]models.Note, error) {
	out := []models.Note{}
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *memDatabase) GetNote(_ context.Context, userID string, id models.DocID) (models.Note, error) {
	n, ok := f.notes[id.String()]
	if !ok || n.UserID != userID {
		return models.Note{}, db.ErrNotFound
	}
	return n, nil
}

func (f *memDatabase) DeleteNote(_ context.Context, userID string, id models.DocID) error {
	n, ok := f.notes[id.String()]
	if !ok || n.UserID != userID {
		return db.ErrNotFound
	}
	delete(f.notes, id.String())
	return nil
}

func (f *memDatabase) GetSubscription(_ context.Context, userID string) (models.Subscription, error) {
	sub, ok := f.subscriptions[userID]
	if !ok {
		return models.Subscription{}, db.ErrNotFound
	}
	return sub, nil
}

func (f *memDatabase) UpsertSubscription(_ context.Context, sub models.Subscription) error {
	f.subscriptions[sub.UserID] = sub
	return nil
}

// memKV is an in-memory kv.KeyValueStore.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (f *memKV) Set(key, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *memKV) Get(key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", db.ErrNotFound
	}
	return v, nil
}

func (f *memKV) Del(key string) (string, error) {
	if _, ok := f.data[key]; !ok {
		return "", db.ErrNotFound
	}
	delete(f.data, key)
	return key, nil
}

func (f *memKV) Incr(key string) (int64, error) {
	current, _ := strconv.ParseInt(f.data[key], 10, 64)
	current++
	f.data[key] = strconv.FormatInt(current, 10)
	return current, nil
}

// memVectorStore records upserts and deletes per namespace.
type memVectorStore struct {
	upserts map[string][]vector.Document
	deletes map[string][]string
	matches []vector.Match
}

var _ vector.Store = (*memVectorStore)(nil)

func newMemVectorStore() *memVectorStore {
	return &memVectorStore{
		upserts: map[string][]vector.Document{},
		deletes: map[string][]string{},
	}
}

func (f *memVectorStore) Upsert(_ context.Context, namespace string, doc vector.Document) error {
	f.upserts[namespace] = append(f.upserts[namespace], doc)
	return nil
}

func (f *memVectorStore) Query(_ context.Context, namespace, text string, _ int) ([]vector.Match, error) {
	return f.matches, nil
}

func (f *memVectorStore) Delete(_ context.Context, namespace string, ids []string) error {
	f.deletes[namespace] = append(f.deletes[namespace], ids...)
	return nil
}

// testBackend bundles the fakes and the fully wired router.
type testBackend struct {
	cfg      config.Config
	database *memDatabase
	kv       *memKV
	vec      *memVectorStore
	router   *gin.Engine
}

// newTestBackend wires the full route table over in-memory stores. The
// identity provider base URL only matters for issuer verification here.
func newTestBackend(adminEmails ...string) *testBackend {
	cfg := testConfig("https://idp.example.com")
	cfg.AdminEmails = adminEmails

	b := &testBackend{
		cfg:      cfg,
		database: newMemDatabase(),
		kv:       newMemKV(),
		vec:      newMemVectorStore(),
	}

	auth := controllers.NewAuthController(
		service.NewTokenService(cfg),
		service.NewRefreshClient(cfg),
		service.NewCookieManager(),
		metrics.NewCollector(),
	)
	memory := controllers.NewMemoryController(service.NewMemoryService(b.database, b.kv))
	note := controllers.NewNoteController(service.NewNoteService(b.database, b.vec, b.kv))
	admin := controllers.NewAdminController(cfg, service.NewSubscriptionService(b.database, b.kv))

	r := gin.New()

	memoryRoutes := r.Group("/memories", auth.RequireAuth())
	memoryRoutes.POST("", memory.Save)
	memoryRoutes.GET("", memory.List)
	memoryRoutes.DELETE("/:id", memory.Delete)

	noteRoutes := r.Group("/notes", auth.RequireAuth())
	noteRoutes.POST("", note.Save)
	noteRoutes.GET("", note.List)
	noteRoutes.GET("/search", note.Search)
	noteRoutes.DELETE("/:id", note.Delete)

	adminRoutes := r.Group("/admin", auth.RequireAuth(), admin.RequireAdmin())
	adminRoutes.GET("/subscriptions/:userID", admin.Get)
	adminRoutes.POST("/subscriptions/:userID/upgrade", admin.Upgrade)
	adminRoutes.POST("/subscriptions/:userID/downgrade", admin.Downgrade)
	adminRoutes.POST("/subscriptions/:userID/cancel", admin.Cancel)
	adminRoutes.POST("/subscriptions/:userID/reset-usage", admin.ResetUsage)

	b.router = r
	return b
}
