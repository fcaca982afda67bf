package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/cache"
	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"
	"github.com/shopcore-lab/shopcore/internal/core/storage/storagetest"
	"github.com/shopcore-lab/shopcore/internal/media"
)

type fakeMedia struct {
	uploaded int
	deleted  []string
}

func (m *fakeMedia) Upload(_ context.Context, uploads []media.Upload) ([]v1.Photo, error) {
	photos := make([]v1.Photo, len(uploads))
	for i, up := range uploads {
		m.uploaded++
		photos[i] = v1.Photo{ID: "obj-" + up.Filename, URL: "https://cdn.test/" + up.Filename}
	}
	return photos, nil
}

func (m *fakeMedia) Delete(_ context.Context, ids []string) error {
	m.deleted = append(m.deleted, ids...)
	return nil
}

type fixture struct {
	svc   *Service
	db    *storagetest.DB
	store *cache.MemoryStore
	media *fakeMedia
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storagetest.New()
	store := cache.NewMemoryStore()
	m := &fakeMedia{}
	svc := NewService(
		db, db, db, db, m,
		cache.NewClient(store, 4*time.Hour, 30*time.Second),
		cache.NewInvalidator(store),
		8, 5,
	)
	return &fixture{svc: svc, db: db, store: store, media: m}
}

func seedProduct(t *testing.T, db *storagetest.DB, id, name, category string, price int64, rating float64) {
	t.Helper()
	require.NoError(t, db.SaveProduct(context.Background(), &v1.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    decimal.NewFromInt(price),
		Stock:    10,
		Ratings:  decimal.NewFromFloat(rating),
	}))
}

func upload(name string) media.Upload {
	return media.Upload{Filename: name, ContentType: "image/png", Body: bytes.NewReader([]byte("png"))}
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, NewProductInput{
		Name:        "Desk Lamp",
		Price:       decimal.NewFromInt(45),
		Stock:       12,
		Category:    "Lighting",
		Description: "A lamp",
		Photos:      []media.Upload{upload("lamp.png")},
	})
	require.NoError(t, err)
	require.Equal(t, "lighting", product.Category)
	require.Len(t, product.Photos, 1)
	require.Equal(t, 1, f.media.uploaded)

	saved, err := f.db.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, "Desk Lamp", saved.Name)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sixPhotos := make([]media.Upload, 6)
	for i := range sixPhotos {
		sixPhotos[i] = upload("p.png")
	}

	tests := []struct {
		name  string
		input NewProductInput
	}{
		{name: "no photos", input: NewProductInput{Name: "x", Category: "c", Description: "d", Price: decimal.NewFromInt(1), Stock: 1}},
		{name: "too many photos", input: NewProductInput{Name: "x", Category: "c", Description: "d", Price: decimal.NewFromInt(1), Stock: 1, Photos: sixPhotos}},
		{name: "missing name", input: NewProductInput{Category: "c", Description: "d", Price: decimal.NewFromInt(1), Stock: 1, Photos: []media.Upload{upload("p.png")}}},
		{name: "zero price", input: NewProductInput{Name: "x", Category: "c", Description: "d", Stock: 1, Photos: []media.Upload{upload("p.png")}}},
		{name: "zero stock", input: NewProductInput{Name: "x", Category: "c", Description: "d", Price: decimal.NewFromInt(1), Photos: []media.Upload{upload("p.png")}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.input)
			require.ErrorIs(t, err, httperr.ErrValidation)
		})
	}
}

func TestLatestReturnsTopRated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedProduct(t, f.db, "p1", "A", "c", 10, 2.0)
	seedProduct(t, f.db, "p2", "B", "c", 10, 4.5)
	seedProduct(t, f.db, "p3", "C", "c", 10, 3.0)
	seedProduct(t, f.db, "p4", "D", "c", 10, 5.0)
	seedProduct(t, f.db, "p5", "E", "c", 10, 1.0)

	products, err := f.svc.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, products, 4)
	require.Equal(t, "p4", products[0].ID)
	require.Equal(t, "p2", products[1].ID)

	// Second call is served from latest-products, not the store.
	require.NoError(t, f.db.DeleteProduct(ctx, "p4"))
	cached, err := f.svc.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, "p4", cached[0].ID)
}

func TestGetProductReadThrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedProduct(t, f.db, "p1", "Thing", "c", 10, 0)

	product, err := f.svc.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Thing", product.Name)

	_, err = f.store.Get(ctx, "product-p1")
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "ghost")
	require.ErrorIs(t, err, httperr.ErrNotFound)
}

func TestSearchPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		seedProduct(t, f.db, "p"+strings.Repeat("x", i), "phone case", "accessories", int64(10+i), 0)
	}
	seedProduct(t, f.db, "other", "laptop", "computers", 900, 0)

	result, err := f.svc.Search(ctx, ListingQuery{Search: "phone", Page: 1})
	require.NoError(t, err)
	require.Len(t, result.Products, 8)
	require.EqualValues(t, 2, result.TotalPage)

	page2, err := f.svc.Search(ctx, ListingQuery{Search: "phone", Page: 2})
	require.NoError(t, err)
	require.Len(t, page2.Products, 2)

	// Each parameter combination caches under its own key.
	key1 := cache.ListingKey("phone", "", "", "", 1)
	key2 := cache.ListingKey("phone", "", "", "", 2)
	require.NotEqual(t, key1, key2)
	_, err = f.store.Get(ctx, key1)
	require.NoError(t, err)
	_, err = f.store.Get(ctx, key2)
	require.NoError(t, err)
}

func TestSearchFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedProduct(t, f.db, "p1", "Mug", "kitchen", 15, 0)
	seedProduct(t, f.db, "p2", "Pan", "kitchen", 40, 0)
	seedProduct(t, f.db, "p3", "Chair", "furniture", 120, 0)

	result, err := f.svc.Search(ctx, ListingQuery{Category: "kitchen", Price: "20", Sort: "asc", Page: 1})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	require.Equal(t, "p1", result.Products[0].ID)

	_, err = f.svc.Search(ctx, ListingQuery{Price: "not-a-number"})
	require.ErrorIs(t, err, httperr.ErrValidation)
}

// ttlRecorderStore captures the TTL each write-back carries so tests can
// tell the short listing TTL apart from the default.
type ttlRecorderStore struct {
	*cache.MemoryStore
	ttls map[string]time.Duration
}

func (s *ttlRecorderStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	s.ttls[key] = ttl
	return s.MemoryStore.SetWithTTL(ctx, key, value, ttl)
}

func TestSearchUsesListingTTL(t *testing.T) {
	db := storagetest.New()
	store := &ttlRecorderStore{MemoryStore: cache.NewMemoryStore(), ttls: map[string]time.Duration{}}
	svc := NewService(
		db, db, db, db, &fakeMedia{},
		cache.NewClient(store, 4*time.Hour, 30*time.Second),
		cache.NewInvalidator(store),
		8, 5,
	)
	ctx := context.Background()
	seedProduct(t, db, "p1", "Phone", "electronics", 100, 4)

	_, err := svc.Search(ctx, ListingQuery{Search: "phone", Page: 1})
	require.NoError(t, err)
	_, err = svc.Latest(ctx)
	require.NoError(t, err)

	// Parameterized listings go stale after seconds; fixed keys keep the
	// long default because mutations evict them explicitly.
	require.Equal(t, 30*time.Second, store.ttls[cache.ListingKey("phone", "", "", "", 1)])
	require.Equal(t, 4*time.Hour, store.ttls[cache.KeyLatestProducts])
}

func TestProductMutationEvictsListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedProduct(t, f.db, "p1", "Mug", "kitchen", 15, 0)

	_, err := f.svc.Search(ctx, ListingQuery{Page: 1})
	require.NoError(t, err)
	_, err = f.svc.Latest(ctx)
	require.NoError(t, err)

	stock := int64(3)
	_, err = f.svc.Update(ctx, "p1", UpdateProductInput{Stock: &stock})
	require.NoError(t, err)

	_, err = f.store.Get(ctx, cache.ListingKey("", "", "", "", 1))
	require.ErrorIs(t, err, cache.ErrMiss)
	_, err = f.store.Get(ctx, cache.KeyLatestProducts)
	require.ErrorIs(t, err, cache.ErrMiss)
	_, err = f.store.Get(ctx, "product-p1")
	require.ErrorIs(t, err, cache.ErrMiss)
}

func TestDeleteProductRemovesPhotos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.svc.Create(ctx, NewProductInput{
		Name:        "Desk Lamp",
		Price:       decimal.NewFromInt(45),
		Stock:       12,
		Category:    "lighting",
		Description: "A lamp",
		Photos:      []media.Upload{upload("lamp.png")},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, product.ID))
	require.Equal(t, []string{"obj-lamp.png"}, f.media.deleted)

	_, err = f.db.GetProduct(ctx, product.ID)
	require.Error(t, err)
}

func TestUpsertReviewRecomputesRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedProduct(t, f.db, "p1", "Mug", "kitchen", 15, 0)
	require.NoError(t, f.db.SaveUser(ctx, &v1.User{ID: "u1", Role: v1.RoleCustomer}))
	require.NoError(t, f.db.SaveUser(ctx, &v1.User{ID: "u2", Role: v1.RoleCustomer}))
	require.NoError(t, f.db.SaveUser(ctx, &v1.User{ID: "u3", Role: v1.RoleCustomer}))

	// u1 bought the product, the others did not.
	require.NoError(t, f.db.SaveOrder(ctx, &v1.Order{
		ID: "o1", UserID: "u1", Status: v1.StatusDelivered,
		Items: []v1.OrderItem{{ProductID: "p1", Quantity: 1}},
	}))

	created, err := f.svc.UpsertReview(ctx, "u1", "p1", ReviewInput{Comment: "great", Rating: 5})
	require.NoError(t, err)
	require.True(t, created)

	review, err := f.db.FindReview(ctx, "u1", "p1")
	require.NoError(t, err)
	require.True(t, review.VerifiedPurchase)

	created, err = f.svc.UpsertReview(ctx, "u2", "p1", ReviewInput{Comment: "ok", Rating: 3})
	require.NoError(t, err)
	require.True(t, created)
	created, err = f.svc.UpsertReview(ctx, "u3", "p1", ReviewInput{Comment: "fine", Rating: 4})
	require.NoError(t, err)
	require.True(t, created)

	product, err := f.db.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "4", product.Ratings.String())
	require.EqualValues(t, 3, product.NumReviews)

	// Repeat submission updates in place.
	created, err = f.svc.UpsertReview(ctx, "u1", "p1", ReviewInput{Comment: "changed my mind", Rating: 1})
	require.NoError(t, err)
	require.False(t, created)

	product, err = f.db.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "2.7", product.Ratings.String())
	require.EqualValues(t, 3, product.NumReviews)
}

func TestUpsertReviewEvictsReviewKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedProduct(t, f.db, "p1", "Mug", "kitchen", 15, 0)
	require.NoError(t, f.db.SaveUser(ctx, &v1.User{ID: "u1", Role: v1.RoleCustomer}))

	_, err := f.svc.Reviews(ctx, "p1")
	require.NoError(t, err)
	_, err = f.store.Get(ctx, "reviews-p1")
	require.NoError(t, err)

	_, err = f.svc.UpsertReview(ctx, "u1", "p1", ReviewInput{Comment: "great", Rating: 5})
	require.NoError(t, err)

	_, err = f.store.Get(ctx, "reviews-p1")
	require.ErrorIs(t, err, cache.ErrMiss)
}

func TestUpsertReviewValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedProduct(t, f.db, "p1", "Mug", "kitchen", 15, 0)
	require.NoError(t, f.db.SaveUser(ctx, &v1.User{ID: "u1", Role: v1.RoleCustomer}))

	_, err := f.svc.UpsertReview(ctx, "ghost", "p1", ReviewInput{Rating: 5})
	require.ErrorIs(t, err, httperr.ErrUnauthorized)

	_, err = f.svc.UpsertReview(ctx, "u1", "ghost", ReviewInput{Rating: 5})
	require.ErrorIs(t, err, httperr.ErrNotFound)

	_, err = f.svc.UpsertReview(ctx, "u1", "p1", ReviewInput{Rating: 6})
	require.ErrorIs(t, err, httperr.ErrValidation)
}

func TestDeleteReviewOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seedProduct(t, f.db, "p1", "Mug", "kitchen", 15, 0)
	require.NoError(t, f.db.SaveUser(ctx, &v1.User{ID: "u1", Role: v1.RoleCustomer}))
	require.NoError(t, f.db.SaveUser(ctx, &v1.User{ID: "u2", Role: v1.RoleCustomer}))

	_, err := f.svc.UpsertReview(ctx, "u1", "p1", ReviewInput{Comment: "great", Rating: 5})
	require.NoError(t, err)
	review, err := f.db.FindReview(ctx, "u1", "p1")
	require.NoError(t, err)

	err = f.svc.DeleteReview(ctx, "u2", review.ID)
	require.ErrorIs(t, err, httperr.ErrUnauthorized)

	require.NoError(t, f.svc.DeleteReview(ctx, "u1", review.ID))

	product, err := f.db.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.True(t, product.Ratings.IsZero())
	require.Zero(t, product.NumReviews)
}
